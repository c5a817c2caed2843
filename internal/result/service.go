// Package result は成績管理のドメインロジックを提供する。
package result

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/gakuen/internal/model"
	"github.com/hitoshi/gakuen/internal/repository"
)

// Service は成績管理のサービス層。
type Service struct {
	resultRepo     repository.ResultRepository
	enrollmentRepo repository.EnrollmentRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(resultRepo repository.ResultRepository, enrollmentRepo repository.EnrollmentRepository) *Service {
	return &Service{
		resultRepo:     resultRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// RecordInput は成績記録の入力。
type RecordInput struct {
	EnrollmentID string
	Score        float64
	Grade        string
	Remarks      string
}

// Record は受講登録に対して成績を記録する。
// 他ユーザーの受講登録は存在しないものとして扱う。
func (s *Service) Record(ctx context.Context, userID int64, input RecordInput) (*model.Result, error) {
	enrollment, err := s.enrollmentRepo.FindByID(ctx, input.EnrollmentID)
	if err != nil {
		return nil, fmt.Errorf("受講登録の取得に失敗しました: %w", err)
	}
	if enrollment == nil || enrollment.UserID != userID {
		return nil, model.NewEnrollmentNotFoundError(input.EnrollmentID)
	}

	now := time.Now()
	result := &model.Result{
		ID:           uuid.New().String(),
		EnrollmentID: enrollment.ID,
		UserID:       enrollment.UserID,
		CourseID:     enrollment.CourseID,
		Score:        input.Score,
		Grade:        input.Grade,
		Remarks:      input.Remarks,
		PublishedAt:  now,
		CreatedAt:    now,
	}

	if err := s.resultRepo.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("成績の記録に失敗しました: %w", err)
	}

	return result, nil
}

// List はユーザーの成績一覧を講座タイトル付きで返す。
func (s *Service) List(ctx context.Context, userID int64) ([]repository.ResultWithCourse, error) {
	results, err := s.resultRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("成績一覧の取得に失敗しました: %w", err)
	}
	return results, nil
}
