// Package enrollment は受講登録のドメインロジックを提供する。
package enrollment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/gakuen/internal/model"
	"github.com/hitoshi/gakuen/internal/repository"
)

// Service は受講登録のサービス層。
// 登録・一覧取得・取り消しのビジネスロジックを提供する。
type Service struct {
	enrollmentRepo repository.EnrollmentRepository
	courseRepo     repository.CourseRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(enrollmentRepo repository.EnrollmentRepository, courseRepo repository.CourseRepository) *Service {
	return &Service{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
	}
}

// Enroll はユーザーを講座に登録する。
// 講座が存在しない場合はCOURSE_NOT_FOUND、既に登録済みの場合は
// DUPLICATE_ENROLLMENTを返す。
func (s *Service) Enroll(ctx context.Context, userID int64, courseID string) (*model.Enrollment, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("講座の取得に失敗しました: %w", err)
	}
	if course == nil {
		return nil, model.NewCourseNotFoundError(courseID)
	}

	existing, err := s.enrollmentRepo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("受講登録の確認に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateEnrollmentError()
	}

	enrollment := &model.Enrollment{
		ID:         uuid.New().String(),
		UserID:     userID,
		CourseID:   courseID,
		Status:     model.EnrollmentStatusActive,
		EnrolledAt: time.Now(),
	}

	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("受講登録の作成に失敗しました: %w", err)
	}

	return enrollment, nil
}

// List はユーザーの受講登録一覧を講座情報付きで返す。
func (s *Service) List(ctx context.Context, userID int64) ([]repository.EnrollmentWithCourse, error) {
	enrollments, err := s.enrollmentRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("受講登録一覧の取得に失敗しました: %w", err)
	}
	return enrollments, nil
}

// Cancel は受講登録を取り消す。
// 他ユーザーの登録は存在しないものとして扱い、所有者情報を漏らさない。
func (s *Service) Cancel(ctx context.Context, userID int64, enrollmentID string) error {
	enrollment, err := s.enrollmentRepo.FindByID(ctx, enrollmentID)
	if err != nil {
		return fmt.Errorf("受講登録の取得に失敗しました: %w", err)
	}
	if enrollment == nil || enrollment.UserID != userID {
		return model.NewEnrollmentNotFoundError(enrollmentID)
	}

	deleted, err := s.enrollmentRepo.Delete(ctx, enrollmentID)
	if err != nil {
		return fmt.Errorf("受講登録の削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewEnrollmentNotFoundError(enrollmentID)
	}

	return nil
}
