// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, course, application, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	ErrCodeInvalidRequest       = "INVALID_REQUEST"
	ErrCodeCourseNotFound       = "COURSE_NOT_FOUND"
	ErrCodeEnrollmentNotFound   = "ENROLLMENT_NOT_FOUND"
	ErrCodeDuplicateEnrollment  = "DUPLICATE_ENROLLMENT"
	ErrCodeResultNotFound       = "RESULT_NOT_FOUND"
	ErrCodeMaterialNotFound     = "MATERIAL_NOT_FOUND"
	ErrCodeMaterialNotReady     = "MATERIAL_NOT_READY"
	ErrCodeNotEnrolled          = "NOT_ENROLLED"
	ErrCodeApplicationNotFound  = "APPLICATION_NOT_FOUND"
	ErrCodeMailDeliveryFailed   = "MAIL_DELIVERY_FAILED"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeInternal             = "INTERNAL_ERROR"
)

// NewUnauthorizedError は認証必須エラーを生成する。
// 欠落・不正・期限切れのいずれであっても同一のメッセージを返す。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Authentication required.",
		Category: "auth",
		Action:   "Log in and try again.",
	}
}

// NewInvalidCredentialsError はログイン失敗エラーを生成する。
// メールアドレス不明とパスワード誤りを区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Invalid email or password",
		Category: "auth",
		Action:   "Check your email address and password.",
	}
}

// NewInvalidRequestError はリクエスト形式エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("Invalid request: %s", reason),
		Category: "validation",
		Action:   "Fix the request body and try again.",
	}
}

// NewCourseNotFoundError は講座未検出エラーを生成する。
func NewCourseNotFoundError(courseID string) *APIError {
	return &APIError{
		Code:     ErrCodeCourseNotFound,
		Message:  fmt.Sprintf("Course not found: %s", courseID),
		Category: "course",
		Action:   "Check the course ID.",
	}
}

// NewEnrollmentNotFoundError は受講登録未検出エラーを生成する。
func NewEnrollmentNotFoundError(enrollmentID string) *APIError {
	return &APIError{
		Code:     ErrCodeEnrollmentNotFound,
		Message:  fmt.Sprintf("Enrollment not found: %s", enrollmentID),
		Category: "course",
		Action:   "Check the enrollment ID.",
	}
}

// NewDuplicateEnrollmentError は重複受講登録エラーを生成する。
func NewDuplicateEnrollmentError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEnrollment,
		Message:  "You are already enrolled in this course.",
		Category: "course",
		Action:   "Check your enrollment list.",
	}
}

// NewMaterialNotFoundError は教材未検出エラーを生成する。
func NewMaterialNotFoundError(materialID string) *APIError {
	return &APIError{
		Code:     ErrCodeMaterialNotFound,
		Message:  fmt.Sprintf("Material not found: %s", materialID),
		Category: "course",
		Action:   "Check the material ID.",
	}
}

// NewMaterialNotReadyError はアップロード未完了の教材に対するエラーを生成する。
func NewMaterialNotReadyError() *APIError {
	return &APIError{
		Code:     ErrCodeMaterialNotReady,
		Message:  "This material has not finished uploading.",
		Category: "course",
		Action:   "Confirm the upload before downloading.",
	}
}

// NewNotEnrolledError は未受講ユーザーの教材アクセスエラーを生成する。
func NewNotEnrolledError() *APIError {
	return &APIError{
		Code:     ErrCodeNotEnrolled,
		Message:  "You are not enrolled in this course.",
		Category: "course",
		Action:   "Enroll in the course to access its materials.",
	}
}

// NewMailDeliveryFailedError はメール送信失敗エラーを生成する。
func NewMailDeliveryFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeMailDeliveryFailed,
		Message:  "Failed to deliver your message.",
		Category: "system",
		Action:   "Please try again later.",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "User not found.",
		Category: "auth",
		Action:   "Log in again.",
	}
}
