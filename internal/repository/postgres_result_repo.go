package repository

import (
	"context"
	"fmt"

	"database/sql"

	"github.com/hitoshi/gakuen/internal/model"
)

// PostgresResultRepo はPostgreSQLを使用した成績リポジトリ。
type PostgresResultRepo struct {
	db *sql.DB
}

// NewPostgresResultRepo はPostgresResultRepoを生成する。
func NewPostgresResultRepo(db *sql.DB) *PostgresResultRepo {
	return &PostgresResultRepo{db: db}
}

// Create は成績を作成する。
func (r *PostgresResultRepo) Create(ctx context.Context, result *model.Result) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO results (id, enrollment_id, user_id, course_id, score, grade, remarks, published_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		result.ID, result.EnrollmentID, result.UserID, result.CourseID,
		result.Score, result.Grade, result.Remarks, result.PublishedAt, result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}
	return nil
}

// ListByUserID はユーザーの成績一覧を講座タイトル付きでpublished_at降順で返す。
func (r *PostgresResultRepo) ListByUserID(ctx context.Context, userID int64) ([]ResultWithCourse, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT res.id, res.enrollment_id, res.user_id, res.course_id,
		        res.score, res.grade, res.remarks, res.published_at, res.created_at,
		        c.title
		 FROM results res
		 JOIN courses c ON c.id = res.course_id
		 WHERE res.user_id = $1
		 ORDER BY res.published_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	results := []ResultWithCourse{}
	for rows.Next() {
		var res ResultWithCourse
		if err := rows.Scan(
			&res.ID, &res.EnrollmentID, &res.UserID, &res.CourseID,
			&res.Score, &res.Grade, &res.Remarks, &res.PublishedAt, &res.CreatedAt,
			&res.CourseTitle,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}

	return results, nil
}

// compile-time interface check
var _ ResultRepository = (*PostgresResultRepo)(nil)
