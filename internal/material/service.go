// Package material は講座教材のドメインロジックを提供する。
//
// 教材ファイルの実体はオブジェクトストレージに置かれ、本サービスは
// メタデータの管理と署名付きURLの発行のみを行う。アップロードは
// 「署名付きPUT URL発行（pending） → クライアントが直接PUT → 確認
// （available）」の2段階で完了する。
package material

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/gakuen/internal/model"
	"github.com/hitoshi/gakuen/internal/repository"
	"github.com/hitoshi/gakuen/internal/storage"
)

// Service は教材管理のサービス層。
type Service struct {
	materialRepo   repository.MaterialRepository
	enrollmentRepo repository.EnrollmentRepository
	courseRepo     repository.CourseRepository
	store          storage.ObjectStore
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	materialRepo repository.MaterialRepository,
	enrollmentRepo repository.EnrollmentRepository,
	courseRepo repository.CourseRepository,
	store storage.ObjectStore,
) *Service {
	return &Service{
		materialRepo:   materialRepo,
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		store:          store,
	}
}

// ListForCourse は講座のダウンロード可能な教材一覧を返す。
// 受講登録のないユーザーにはNOT_ENROLLEDを返す。
func (s *Service) ListForCourse(ctx context.Context, userID int64, courseID string) ([]*model.Material, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("講座の取得に失敗しました: %w", err)
	}
	if course == nil {
		return nil, model.NewCourseNotFoundError(courseID)
	}

	if err := s.requireEnrollment(ctx, userID, courseID); err != nil {
		return nil, err
	}

	materials, err := s.materialRepo.ListAvailableByCourseID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("教材一覧の取得に失敗しました: %w", err)
	}

	return materials, nil
}

// DownloadURL は教材のダウンロード用署名付きGET URLを発行する。
// 受講登録のないユーザー、アップロード未確認の教材は拒否する。
func (s *Service) DownloadURL(ctx context.Context, userID int64, materialID string) (string, error) {
	material, err := s.materialRepo.FindByID(ctx, materialID)
	if err != nil {
		return "", fmt.Errorf("教材の取得に失敗しました: %w", err)
	}
	if material == nil {
		return "", model.NewMaterialNotFoundError(materialID)
	}

	if err := s.requireEnrollment(ctx, userID, material.CourseID); err != nil {
		return "", err
	}

	if material.Status != model.MaterialStatusAvailable {
		return "", model.NewMaterialNotReadyError()
	}

	url, err := s.store.PresignGet(ctx, material.ObjectKey)
	if err != nil {
		return "", fmt.Errorf("ダウンロードURLの発行に失敗しました: %w", err)
	}

	return url, nil
}

// UploadInput は教材アップロード開始の入力。
type UploadInput struct {
	CourseID    string
	Title       string
	FileName    string
	ContentType string
	SizeBytes   int64
}

// Upload は教材アップロード開始の結果。
type Upload struct {
	Material  *model.Material
	UploadURL string
}

// InitiateUpload は教材メタデータをpending状態で作成し、
// アップロード用署名付きPUT URLを発行する。
// ConfirmUploadが呼ばれるまで教材は一覧・ダウンロードに現れない。
func (s *Service) InitiateUpload(ctx context.Context, userID int64, input UploadInput) (*Upload, error) {
	course, err := s.courseRepo.FindByID(ctx, input.CourseID)
	if err != nil {
		return nil, fmt.Errorf("講座の取得に失敗しました: %w", err)
	}
	if course == nil {
		return nil, model.NewCourseNotFoundError(input.CourseID)
	}

	now := time.Now()
	material := &model.Material{
		ID:          uuid.New().String(),
		CourseID:    input.CourseID,
		Title:       input.Title,
		FileName:    input.FileName,
		ContentType: input.ContentType,
		SizeBytes:   input.SizeBytes,
		ObjectKey:   storage.NewObjectKey("materials", input.FileName),
		Status:      model.MaterialStatusPending,
		UploadedBy:  userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.materialRepo.Create(ctx, material); err != nil {
		return nil, fmt.Errorf("教材メタデータの作成に失敗しました: %w", err)
	}

	url, err := s.store.PresignPut(ctx, material.ObjectKey, input.ContentType)
	if err != nil {
		return nil, fmt.Errorf("アップロードURLの発行に失敗しました: %w", err)
	}

	return &Upload{
		Material:  material,
		UploadURL: url,
	}, nil
}

// ConfirmUpload はアップロード完了を確認し、教材をavailable状態に遷移させる。
// 既にavailableの教材に対しては何もせず成功を返す（冪等）。
func (s *Service) ConfirmUpload(ctx context.Context, materialID string) (*model.Material, error) {
	material, err := s.materialRepo.FindByID(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("教材の取得に失敗しました: %w", err)
	}
	if material == nil {
		return nil, model.NewMaterialNotFoundError(materialID)
	}

	if material.Status == model.MaterialStatusAvailable {
		return material, nil
	}

	marked, err := s.materialRepo.MarkAvailable(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("教材ステータスの更新に失敗しました: %w", err)
	}
	if !marked {
		// 取得との間に削除された場合のみ到達する
		return nil, model.NewMaterialNotFoundError(materialID)
	}

	material.Status = model.MaterialStatusAvailable
	material.UpdatedAt = time.Now()
	return material, nil
}

// requireEnrollment はユーザーが講座を受講中であることを確認する。
func (s *Service) requireEnrollment(ctx context.Context, userID int64, courseID string) error {
	enrollment, err := s.enrollmentRepo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return fmt.Errorf("受講登録の確認に失敗しました: %w", err)
	}
	if enrollment == nil {
		return model.NewNotEnrolledError()
	}
	return nil
}
