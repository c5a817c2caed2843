package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/gakuen/internal/model"
)

// PostgresEnrollmentRepo はPostgreSQLを使用した受講登録リポジトリ。
type PostgresEnrollmentRepo struct {
	db *sql.DB
}

// NewPostgresEnrollmentRepo はPostgresEnrollmentRepoを生成する。
func NewPostgresEnrollmentRepo(db *sql.DB) *PostgresEnrollmentRepo {
	return &PostgresEnrollmentRepo{db: db}
}

// FindByID は指定IDの受講登録を取得する。見つからない場合はnilを返す。
func (r *PostgresEnrollmentRepo) FindByID(ctx context.Context, id string) (*model.Enrollment, error) {
	enrollment := &model.Enrollment{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, course_id, status, enrolled_at FROM enrollments WHERE id = $1`,
		id,
	).Scan(&enrollment.ID, &enrollment.UserID, &enrollment.CourseID, &enrollment.Status, &enrollment.EnrolledAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find enrollment: %w", err)
	}

	return enrollment, nil
}

// FindByUserAndCourse はユーザーIDと講座IDで受講登録を検索する。見つからない場合はnilを返す。
func (r *PostgresEnrollmentRepo) FindByUserAndCourse(ctx context.Context, userID int64, courseID string) (*model.Enrollment, error) {
	enrollment := &model.Enrollment{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, course_id, status, enrolled_at
		 FROM enrollments
		 WHERE user_id = $1 AND course_id = $2`,
		userID, courseID,
	).Scan(&enrollment.ID, &enrollment.UserID, &enrollment.CourseID, &enrollment.Status, &enrollment.EnrolledAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find enrollment by user and course: %w", err)
	}

	return enrollment, nil
}

// Create は受講登録を作成する。
// UNIQUE (user_id, course_id) 制約違反はDUPLICATE_ENROLLMENTとして返す。
// サービス層の事前確認と同時リクエストが競合した場合はここで検出される。
func (r *PostgresEnrollmentRepo) Create(ctx context.Context, enrollment *model.Enrollment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO enrollments (id, user_id, course_id, status, enrolled_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		enrollment.ID, enrollment.UserID, enrollment.CourseID, enrollment.Status, enrollment.EnrolledAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.NewDuplicateEnrollmentError()
		}
		return fmt.Errorf("failed to insert enrollment: %w", err)
	}
	return nil
}

// isUniqueViolation はPostgreSQLの一意制約違反（SQLSTATE 23505）かどうかを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// ListByUserID はユーザーの受講登録一覧を講座情報付きでenrolled_at降順で返す。
func (r *PostgresEnrollmentRepo) ListByUserID(ctx context.Context, userID int64) ([]EnrollmentWithCourse, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT e.id, e.user_id, e.course_id, e.status, e.enrolled_at, c.title, c.category
		 FROM enrollments e
		 JOIN courses c ON c.id = e.course_id
		 WHERE e.user_id = $1
		 ORDER BY e.enrolled_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []EnrollmentWithCourse{}
	for rows.Next() {
		var e EnrollmentWithCourse
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.CourseID, &e.Status, &e.EnrolledAt,
			&e.CourseTitle, &e.CourseCategory,
		); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate enrollments: %w", err)
	}

	return enrollments, nil
}

// Delete は指定IDの受講登録を削除する。対象が存在しない場合はfalseを返す。
func (r *PostgresEnrollmentRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM enrollments WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete enrollment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// compile-time interface check
var _ EnrollmentRepository = (*PostgresEnrollmentRepo)(nil)
