package enrollment

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/gakuen/internal/model"
	"github.com/hitoshi/gakuen/internal/repository"
)

// mockEnrollmentRepository はEnrollmentRepositoryのモック実装。
type mockEnrollmentRepository struct {
	findByIDFn            func(ctx context.Context, id string) (*model.Enrollment, error)
	findByUserAndCourseFn func(ctx context.Context, userID int64, courseID string) (*model.Enrollment, error)
	createFn              func(ctx context.Context, enrollment *model.Enrollment) error
	listByUserIDFn        func(ctx context.Context, userID int64) ([]repository.EnrollmentWithCourse, error)
	deleteFn              func(ctx context.Context, id string) (bool, error)
}

func (m *mockEnrollmentRepository) FindByID(ctx context.Context, id string) (*model.Enrollment, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockEnrollmentRepository) FindByUserAndCourse(ctx context.Context, userID int64, courseID string) (*model.Enrollment, error) {
	return m.findByUserAndCourseFn(ctx, userID, courseID)
}

func (m *mockEnrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return m.createFn(ctx, enrollment)
}

func (m *mockEnrollmentRepository) ListByUserID(ctx context.Context, userID int64) ([]repository.EnrollmentWithCourse, error) {
	return m.listByUserIDFn(ctx, userID)
}

func (m *mockEnrollmentRepository) Delete(ctx context.Context, id string) (bool, error) {
	return m.deleteFn(ctx, id)
}

// mockCourseFinder はCourseRepositoryのモック実装（参照系のみ使用）。
type mockCourseFinder struct {
	findByIDFn func(ctx context.Context, id string) (*model.Course, error)
}

func (m *mockCourseFinder) FindByID(ctx context.Context, id string) (*model.Course, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockCourseFinder) List(ctx context.Context, offset, limit int) ([]*model.Course, error) {
	return nil, nil
}

func (m *mockCourseFinder) Count(ctx context.Context) (int, error) { return 0, nil }

func (m *mockCourseFinder) Create(ctx context.Context, course *model.Course) error { return nil }

func (m *mockCourseFinder) Update(ctx context.Context, course *model.Course) (bool, error) {
	return false, nil
}

func (m *mockCourseFinder) Delete(ctx context.Context, id string) (bool, error) { return false, nil }

func TestEnroll_Success(t *testing.T) {
	var created *model.Enrollment
	enrollRepo := &mockEnrollmentRepository{
		findByUserAndCourseFn: func(ctx context.Context, userID int64, courseID string) (*model.Enrollment, error) {
			return nil, nil
		},
		createFn: func(ctx context.Context, enrollment *model.Enrollment) error {
			created = enrollment
			return nil
		},
	}
	courseRepo := &mockCourseFinder{
		findByIDFn: func(ctx context.Context, id string) (*model.Course, error) {
			return &model.Course{ID: id, Title: "Go入門"}, nil
		},
	}

	svc := NewService(enrollRepo, courseRepo)

	enrollment, err := svc.Enroll(context.Background(), 7, "course-1")
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}

	if enrollment.UserID != 7 || enrollment.CourseID != "course-1" {
		t.Errorf("enrollment = %+v", enrollment)
	}
	if enrollment.Status != model.EnrollmentStatusActive {
		t.Errorf("status = %q, want active", enrollment.Status)
	}
	if created == nil || created.ID == "" {
		t.Error("enrollment ID should be generated")
	}
}

func TestEnroll_UnknownCourse_ReturnsCourseNotFound(t *testing.T) {
	enrollRepo := &mockEnrollmentRepository{}
	courseRepo := &mockCourseFinder{
		findByIDFn: func(ctx context.Context, id string) (*model.Course, error) {
			return nil, nil
		},
	}

	svc := NewService(enrollRepo, courseRepo)

	_, err := svc.Enroll(context.Background(), 7, "missing")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeCourseNotFound {
		t.Errorf("expected COURSE_NOT_FOUND, got %v", err)
	}
}

func TestEnroll_Duplicate_ReturnsConflict(t *testing.T) {
	enrollRepo := &mockEnrollmentRepository{
		findByUserAndCourseFn: func(ctx context.Context, userID int64, courseID string) (*model.Enrollment, error) {
			return &model.Enrollment{ID: "existing", UserID: userID, CourseID: courseID}, nil
		},
	}
	courseRepo := &mockCourseFinder{
		findByIDFn: func(ctx context.Context, id string) (*model.Course, error) {
			return &model.Course{ID: id}, nil
		},
	}

	svc := NewService(enrollRepo, courseRepo)

	_, err := svc.Enroll(context.Background(), 7, "course-1")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeDuplicateEnrollment {
		t.Errorf("expected DUPLICATE_ENROLLMENT, got %v", err)
	}
}

// 事前確認の後にINSERTが一意制約違反となった場合（同時リクエストの競合）でも
// DUPLICATE_ENROLLMENTが伝播することを検証する。
func TestEnroll_ConcurrentDuplicate_ReturnsConflict(t *testing.T) {
	enrollRepo := &mockEnrollmentRepository{
		findByUserAndCourseFn: func(ctx context.Context, userID int64, courseID string) (*model.Enrollment, error) {
			return nil, nil
		},
		createFn: func(ctx context.Context, enrollment *model.Enrollment) error {
			return model.NewDuplicateEnrollmentError()
		},
	}
	courseRepo := &mockCourseFinder{
		findByIDFn: func(ctx context.Context, id string) (*model.Course, error) {
			return &model.Course{ID: id}, nil
		},
	}

	svc := NewService(enrollRepo, courseRepo)

	_, err := svc.Enroll(context.Background(), 7, "course-1")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeDuplicateEnrollment {
		t.Errorf("expected DUPLICATE_ENROLLMENT, got %v", err)
	}
}

func TestCancel_OtherUsersEnrollment_ReturnsNotFound(t *testing.T) {
	enrollRepo := &mockEnrollmentRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Enrollment, error) {
			return &model.Enrollment{ID: id, UserID: 999}, nil
		},
	}

	svc := NewService(enrollRepo, &mockCourseFinder{})

	err := svc.Cancel(context.Background(), 7, "e1")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeEnrollmentNotFound {
		t.Errorf("expected ENROLLMENT_NOT_FOUND, got %v", err)
	}
}

func TestCancel_Success(t *testing.T) {
	enrollRepo := &mockEnrollmentRepository{
		findByIDFn: func(ctx context.Context, id string) (*model.Enrollment, error) {
			return &model.Enrollment{ID: id, UserID: 7}, nil
		},
		deleteFn: func(ctx context.Context, id string) (bool, error) {
			return true, nil
		},
	}

	svc := NewService(enrollRepo, &mockCourseFinder{})

	if err := svc.Cancel(context.Background(), 7, "e1"); err != nil {
		t.Errorf("Cancel() error = %v", err)
	}
}

func TestList_ReturnsEnrollmentsWithCourseInfo(t *testing.T) {
	enrollRepo := &mockEnrollmentRepository{
		listByUserIDFn: func(ctx context.Context, userID int64) ([]repository.EnrollmentWithCourse, error) {
			return []repository.EnrollmentWithCourse{
				{Enrollment: model.Enrollment{ID: "e1", UserID: userID}, CourseTitle: "Go入門"},
			}, nil
		},
	}

	svc := NewService(enrollRepo, &mockCourseFinder{})

	list, err := svc.List(context.Background(), 7)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].CourseTitle != "Go入門" {
		t.Errorf("list = %+v", list)
	}
}
