package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/gakuen/internal/model"
)

// PostgresMaterialRepo はPostgreSQLを使用した教材メタデータリポジトリ。
type PostgresMaterialRepo struct {
	db *sql.DB
}

// NewPostgresMaterialRepo はPostgresMaterialRepoを生成する。
func NewPostgresMaterialRepo(db *sql.DB) *PostgresMaterialRepo {
	return &PostgresMaterialRepo{db: db}
}

const materialColumns = `id, course_id, title, file_name, content_type, size_bytes, object_key, status, uploaded_by, created_at, updated_at`

// FindByID は指定IDの教材を取得する。見つからない場合はnilを返す。
func (r *PostgresMaterialRepo) FindByID(ctx context.Context, id string) (*model.Material, error) {
	m := &model.Material{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+materialColumns+` FROM materials WHERE id = $1`,
		id,
	).Scan(
		&m.ID, &m.CourseID, &m.Title, &m.FileName, &m.ContentType,
		&m.SizeBytes, &m.ObjectKey, &m.Status, &m.UploadedBy,
		&m.CreatedAt, &m.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find material: %w", err)
	}

	return m, nil
}

// ListAvailableByCourseID は講座のダウンロード可能な教材一覧をcreated_at降順で返す。
func (r *PostgresMaterialRepo) ListAvailableByCourseID(ctx context.Context, courseID string) ([]*model.Material, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+materialColumns+`
		 FROM materials
		 WHERE course_id = $1 AND status = $2
		 ORDER BY created_at DESC`,
		courseID, model.MaterialStatusAvailable,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	defer rows.Close()

	materials := []*model.Material{}
	for rows.Next() {
		m := &model.Material{}
		if err := rows.Scan(
			&m.ID, &m.CourseID, &m.Title, &m.FileName, &m.ContentType,
			&m.SizeBytes, &m.ObjectKey, &m.Status, &m.UploadedBy,
			&m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan material: %w", err)
		}
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate materials: %w", err)
	}

	return materials, nil
}

// Create は教材メタデータをpending状態で作成する。
func (r *PostgresMaterialRepo) Create(ctx context.Context, material *model.Material) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO materials (id, course_id, title, file_name, content_type, size_bytes, object_key, status, uploaded_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		material.ID, material.CourseID, material.Title, material.FileName,
		material.ContentType, material.SizeBytes, material.ObjectKey,
		material.Status, material.UploadedBy, material.CreatedAt, material.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert material: %w", err)
	}
	return nil
}

// MarkAvailable は教材をavailable状態に遷移させる。
// pending状態でない、または存在しない場合はfalseを返す。
func (r *PostgresMaterialRepo) MarkAvailable(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE materials
		 SET status = $2, updated_at = now()
		 WHERE id = $1 AND status = $3`,
		id, model.MaterialStatusAvailable, model.MaterialStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark material available: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// DeleteStalePending は指定時刻より前に作成されたpending状態の教材を削除し、削除件数を返す。
func (r *PostgresMaterialRepo) DeleteStalePending(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM materials WHERE status = $1 AND created_at < $2`,
		model.MaterialStatusPending, before,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale pending materials: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

// compile-time interface check
var _ MaterialRepository = (*PostgresMaterialRepo)(nil)
