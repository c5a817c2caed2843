// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/gakuen/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
// ユーザーの作成・削除は本リポジトリの管轄外のため読み取り専用。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// CourseRepository は講座データの永続化インターフェース。
type CourseRepository interface {
	// FindByID は指定IDの講座を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Course, error)

	// List は講座一覧をcreated_at降順で返す。offset/limitでページングする。
	List(ctx context.Context, offset, limit int) ([]*model.Course, error)

	// Count は講座の総数を返す。
	Count(ctx context.Context) (int, error)

	// Create は講座を作成する。
	Create(ctx context.Context, course *model.Course) error

	// Update は講座情報を更新する。対象が存在しない場合はfalseを返す。
	Update(ctx context.Context, course *model.Course) (bool, error)

	// Delete は指定IDの講座を削除する。対象が存在しない場合はfalseを返す。
	// 関連するenrollments、materialsはCASCADE削除される。
	Delete(ctx context.Context, id string) (bool, error)
}

// EnrollmentRepository は受講登録データの永続化インターフェース。
type EnrollmentRepository interface {
	// FindByID は指定IDの受講登録を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Enrollment, error)

	// FindByUserAndCourse はユーザーIDと講座IDで受講登録を検索する。見つからない場合はnilを返す。
	FindByUserAndCourse(ctx context.Context, userID int64, courseID string) (*model.Enrollment, error)

	// Create は受講登録を作成する。
	Create(ctx context.Context, enrollment *model.Enrollment) error

	// ListByUserID はユーザーの受講登録一覧を講座情報付きで返す。
	ListByUserID(ctx context.Context, userID int64) ([]EnrollmentWithCourse, error)

	// Delete は指定IDの受講登録を削除する。対象が存在しない場合はfalseを返す。
	Delete(ctx context.Context, id string) (bool, error)
}

// ResultRepository は成績データの永続化インターフェース。
type ResultRepository interface {
	// Create は成績を作成する。
	Create(ctx context.Context, result *model.Result) error

	// ListByUserID はユーザーの成績一覧を講座タイトル付きでpublished_at降順で返す。
	ListByUserID(ctx context.Context, userID int64) ([]ResultWithCourse, error)
}

// ApplicationRepository は応募データの永続化インターフェース。
type ApplicationRepository interface {
	// Create は応募を作成する。
	Create(ctx context.Context, application *model.Application) error

	// ListByEmail はメールアドレスに紐づく応募一覧をcreated_at降順で返す。
	ListByEmail(ctx context.Context, email string) ([]*model.Application, error)
}

// MaterialRepository は教材メタデータの永続化インターフェース。
type MaterialRepository interface {
	// FindByID は指定IDの教材を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Material, error)

	// ListAvailableByCourseID は講座のダウンロード可能な教材一覧を返す。
	ListAvailableByCourseID(ctx context.Context, courseID string) ([]*model.Material, error)

	// Create は教材メタデータをpending状態で作成する。
	Create(ctx context.Context, material *model.Material) error

	// MarkAvailable は教材をavailable状態に遷移させる。
	// pending状態でない、または存在しない場合はfalseを返す。
	MarkAvailable(ctx context.Context, id string) (bool, error)

	// DeleteStalePending は指定時刻より前に作成されたpending状態の教材を削除し、
	// 削除件数を返す。アップロードが確認されなかった孤児レコードの掃除に使う。
	DeleteStalePending(ctx context.Context, before time.Time) (int64, error)
}

// EnrollmentWithCourse は受講登録と講座情報を結合した構造体。
type EnrollmentWithCourse struct {
	model.Enrollment
	CourseTitle    string
	CourseCategory string
}

// ResultWithCourse は成績と講座タイトルを結合した構造体。
type ResultWithCourse struct {
	model.Result
	CourseTitle string
}
