// Package course は講座管理のドメインロジックを提供する。
package course

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/gakuen/internal/model"
	"github.com/hitoshi/gakuen/internal/repository"
	"github.com/hitoshi/gakuen/internal/security"
)

// CourseList は講座一覧とページング情報を結合したドメインオブジェクト。
type CourseList struct {
	Courses []*model.Course
	Total   int
	Page    int
	PerPage int
}

// Service は講座管理のサービス層。
// 講座のCRUDと説明文のサニタイズを提供する。
type Service struct {
	courseRepo repository.CourseRepository
	sanitizer  security.ContentSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(courseRepo repository.CourseRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		courseRepo: courseRepo,
		sanitizer:  sanitizer,
	}
}

// List は講座一覧をページングして返す。
// pageは1始まり。perPageの上限は100。
func (s *Service) List(ctx context.Context, page, perPage int) (*CourseList, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	total, err := s.courseRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("講座数の取得に失敗しました: %w", err)
	}

	courses, err := s.courseRepo.List(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return nil, fmt.Errorf("講座一覧の取得に失敗しました: %w", err)
	}

	return &CourseList{
		Courses: courses,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

// Get は指定IDの講座を返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("講座の取得に失敗しました: %w", err)
	}
	if course == nil {
		return nil, model.NewCourseNotFoundError(id)
	}
	return course, nil
}

// CreateInput は講座作成の入力。
type CreateInput struct {
	Title         string
	Description   string
	Category      string
	DurationWeeks int
	FeeCents      int64
}

// Create は講座を作成する。説明文HTMLは保存前にサニタイズされる。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.Course, error) {
	now := time.Now()
	course := &model.Course{
		ID:            uuid.New().String(),
		Title:         input.Title,
		Description:   s.sanitizer.Sanitize(input.Description),
		Category:      input.Category,
		DurationWeeks: input.DurationWeeks,
		FeeCents:      input.FeeCents,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("講座の作成に失敗しました: %w", err)
	}

	return course, nil
}

// Update は講座情報を更新する。説明文HTMLは保存前にサニタイズされる。
func (s *Service) Update(ctx context.Context, id string, input CreateInput) (*model.Course, error) {
	existing, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("講座の取得に失敗しました: %w", err)
	}
	if existing == nil {
		return nil, model.NewCourseNotFoundError(id)
	}

	existing.Title = input.Title
	existing.Description = s.sanitizer.Sanitize(input.Description)
	existing.Category = input.Category
	existing.DurationWeeks = input.DurationWeeks
	existing.FeeCents = input.FeeCents
	existing.UpdatedAt = time.Now()

	updated, err := s.courseRepo.Update(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("講座の更新に失敗しました: %w", err)
	}
	if !updated {
		return nil, model.NewCourseNotFoundError(id)
	}

	return existing, nil
}

// Delete は講座を削除する。関連する受講登録と教材メタデータはCASCADE削除される。
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.courseRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("講座の削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewCourseNotFoundError(id)
	}
	return nil
}
