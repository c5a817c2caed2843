package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/gakuen/internal/model"
)

// PostgresCourseRepo はPostgreSQLを使用した講座リポジトリ。
type PostgresCourseRepo struct {
	db *sql.DB
}

// NewPostgresCourseRepo はPostgresCourseRepoを生成する。
func NewPostgresCourseRepo(db *sql.DB) *PostgresCourseRepo {
	return &PostgresCourseRepo{db: db}
}

const courseColumns = `id, title, description, category, duration_weeks, fee_cents, created_at, updated_at`

// FindByID は指定IDの講座を取得する。見つからない場合はnilを返す。
func (r *PostgresCourseRepo) FindByID(ctx context.Context, id string) (*model.Course, error) {
	course := &model.Course{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1`,
		id,
	).Scan(
		&course.ID, &course.Title, &course.Description, &course.Category,
		&course.DurationWeeks, &course.FeeCents, &course.CreatedAt, &course.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find course by ID: %w", err)
	}

	return course, nil
}

// List は講座一覧をcreated_at降順で返す。offset/limitでページングする。
func (r *PostgresCourseRepo) List(ctx context.Context, offset, limit int) ([]*model.Course, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+courseColumns+` FROM courses ORDER BY created_at DESC OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	courses := []*model.Course{}
	for rows.Next() {
		course := &model.Course{}
		if err := rows.Scan(
			&course.ID, &course.Title, &course.Description, &course.Category,
			&course.DurationWeeks, &course.FeeCents, &course.CreatedAt, &course.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate courses: %w", err)
	}

	return courses, nil
}

// Count は講座の総数を返す。
func (r *PostgresCourseRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM courses`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return count, nil
}

// Create は講座を作成する。
func (r *PostgresCourseRepo) Create(ctx context.Context, course *model.Course) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (id, title, description, category, duration_weeks, fee_cents, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		course.ID, course.Title, course.Description, course.Category,
		course.DurationWeeks, course.FeeCents, course.CreatedAt, course.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}
	return nil
}

// Update は講座情報を更新する。対象が存在しない場合はfalseを返す。
func (r *PostgresCourseRepo) Update(ctx context.Context, course *model.Course) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE courses
		 SET title = $2, description = $3, category = $4, duration_weeks = $5, fee_cents = $6, updated_at = $7
		 WHERE id = $1`,
		course.ID, course.Title, course.Description, course.Category,
		course.DurationWeeks, course.FeeCents, course.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update course: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// Delete は指定IDの講座を削除する。対象が存在しない場合はfalseを返す。
// 関連するenrollments、materialsはCASCADE削除される。
func (r *PostgresCourseRepo) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM courses WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete course: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// compile-time interface check
var _ CourseRepository = (*PostgresCourseRepo)(nil)
