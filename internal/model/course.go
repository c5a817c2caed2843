package model

import "time"

// Course はアカデミーが提供する講座を表す。
// DescriptionはサニタイズされたHTMLを保持する。
type Course struct {
	ID            string
	Title         string
	Description   string
	Category      string
	DurationWeeks int
	FeeCents      int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Enrollment はユーザーと講座の受講登録を表す。
type Enrollment struct {
	ID         string
	UserID     int64
	CourseID   string
	Status     string // "active" | "completed" | "cancelled"
	EnrolledAt time.Time
}

// 受講登録ステータス
const (
	EnrollmentStatusActive    = "active"
	EnrollmentStatusCompleted = "completed"
	EnrollmentStatusCancelled = "cancelled"
)

// Result は講座の成績を表す。受講登録に対して記録される。
type Result struct {
	ID           string
	EnrollmentID string
	UserID       int64
	CourseID     string
	Score        float64
	Grade        string
	Remarks      string
	PublishedAt  time.Time
	CreatedAt    time.Time
}
