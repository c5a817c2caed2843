package model

import "time"

// MaterialStatus は教材ファイルのアップロード状態を表す。
type MaterialStatus string

const (
	// MaterialStatusPending は署名付きPUT URLを発行済みで、
	// アップロード完了が未確認の状態。
	MaterialStatusPending MaterialStatus = "pending"
	// MaterialStatusAvailable はダウンロード可能な状態。
	MaterialStatusAvailable MaterialStatus = "available"
)

// Material は講座に紐づくダウンロード教材を表す。
// ファイル本体はオブジェクトストレージに置かれ、ここではメタデータのみ保持する。
type Material struct {
	ID          string
	CourseID    string
	Title       string
	FileName    string
	ContentType string
	SizeBytes   int64
	ObjectKey   string
	Status      MaterialStatus
	UploadedBy  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
