package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/gakuen/internal/model"
)

// PostgresApplicationRepo はPostgreSQLを使用した応募リポジトリ。
type PostgresApplicationRepo struct {
	db *sql.DB
}

// NewPostgresApplicationRepo はPostgresApplicationRepoを生成する。
func NewPostgresApplicationRepo(db *sql.DB) *PostgresApplicationRepo {
	return &PostgresApplicationRepo{db: db}
}

// Create は応募を作成する。
func (r *PostgresApplicationRepo) Create(ctx context.Context, application *model.Application) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO applications (id, kind, name, email, phone, message, file_key, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		application.ID, application.Kind, application.Name, application.Email,
		application.Phone, application.Message, application.FileKey,
		application.Status, application.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}
	return nil
}

// ListByEmail はメールアドレスに紐づく応募一覧をcreated_at降順で返す。
func (r *PostgresApplicationRepo) ListByEmail(ctx context.Context, email string) ([]*model.Application, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, name, email, phone, message, file_key, status, created_at
		 FROM applications
		 WHERE email = $1
		 ORDER BY created_at DESC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	applications := []*model.Application{}
	for rows.Next() {
		app := &model.Application{}
		if err := rows.Scan(
			&app.ID, &app.Kind, &app.Name, &app.Email, &app.Phone,
			&app.Message, &app.FileKey, &app.Status, &app.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		applications = append(applications, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}

	return applications, nil
}

// compile-time interface check
var _ ApplicationRepository = (*PostgresApplicationRepo)(nil)
