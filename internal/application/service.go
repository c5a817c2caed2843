// Package application はインターンシップ/ピッチデッキ応募のドメインロジックを提供する。
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/gakuen/internal/model"
	"github.com/hitoshi/gakuen/internal/repository"
	"github.com/hitoshi/gakuen/internal/storage"
)

// Service は応募受付のサービス層。
// 公開フォームからの受付と、本人の応募履歴の取得を提供する。
type Service struct {
	appRepo  repository.ApplicationRepository
	userRepo repository.UserRepository
	store    storage.ObjectStore
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(appRepo repository.ApplicationRepository, userRepo repository.UserRepository, store storage.ObjectStore) *Service {
	return &Service{
		appRepo:  appRepo,
		userRepo: userRepo,
		store:    store,
	}
}

// SubmitInput は応募の入力。
type SubmitInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
	FileKey string // PresignAttachmentで発行したキー。任意。
}

// Submit は応募を受け付ける。審査ワークフローは持たず、
// ステータスはreceived固定で記録のみ行う。
func (s *Service) Submit(ctx context.Context, kind model.ApplicationKind, input SubmitInput) (*model.Application, error) {
	app := &model.Application{
		ID:        uuid.New().String(),
		Kind:      kind,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Message:   input.Message,
		FileKey:   input.FileKey,
		Status:    model.ApplicationStatusReceived,
		CreatedAt: time.Now(),
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("応募の保存に失敗しました: %w", err)
	}

	return app, nil
}

// PresignAttachment は応募添付（履歴書/デッキ）のアップロード用
// 署名付きPUT URLを発行する。戻り値はオブジェクトキーとURL。
func (s *Service) PresignAttachment(ctx context.Context, fileName, contentType string) (string, string, error) {
	key := storage.NewObjectKey("applications", fileName)

	url, err := s.store.PresignPut(ctx, key, contentType)
	if err != nil {
		return "", "", fmt.Errorf("添付アップロードURLの発行に失敗しました: %w", err)
	}

	return key, url, nil
}

// ListForUser は認証済みユーザー本人の応募一覧を返す。
// 応募は未認証でも受け付けるため、ユーザーのメールアドレスで突き合わせる。
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]*model.Application, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	apps, err := s.appRepo.ListByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("応募一覧の取得に失敗しました: %w", err)
	}

	return apps, nil
}
