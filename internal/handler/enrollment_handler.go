package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/gakuen/internal/middleware"
	"github.com/hitoshi/gakuen/internal/model"
	"github.com/hitoshi/gakuen/internal/repository"
)

// EnrollmentServiceInterface は受講登録ハンドラーが必要とするサービスインターフェース。
type EnrollmentServiceInterface interface {
	Enroll(ctx context.Context, userID int64, courseID string) (*model.Enrollment, error)
	List(ctx context.Context, userID int64) ([]repository.EnrollmentWithCourse, error)
	Cancel(ctx context.Context, userID int64, enrollmentID string) error
}

// EnrollmentHandler は受講登録のHTTPハンドラー。
type EnrollmentHandler struct {
	service EnrollmentServiceInterface
}

// NewEnrollmentHandler はEnrollmentHandlerを生成する。
func NewEnrollmentHandler(service EnrollmentServiceInterface) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

// enrollRequest は受講登録リクエストのボディ。
type enrollRequest struct {
	CourseID string `json:"course_id" validate:"required"`
}

// enrollmentResponse は受講登録のAPIレスポンス。
type enrollmentResponse struct {
	ID             string    `json:"id"`
	CourseID       string    `json:"course_id"`
	CourseTitle    string    `json:"course_title,omitempty"`
	CourseCategory string    `json:"course_category,omitempty"`
	Status         string    `json:"status"`
	EnrolledAt     time.Time `json:"enrolled_at"`
}

// Enroll は講座への受講登録を行う。
// POST /api/enrollments
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyParseError(w)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	enrollment, err := h.service.Enroll(r.Context(), userID, req.CourseID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, enrollmentResponse{
		ID:         enrollment.ID,
		CourseID:   enrollment.CourseID,
		Status:     enrollment.Status,
		EnrolledAt: enrollment.EnrolledAt,
	})
}

// ListEnrollments はログインユーザーの受講登録一覧を返す。
// GET /api/enrollments
func (h *EnrollmentHandler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	enrollments, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]enrollmentResponse, len(enrollments))
	for i, e := range enrollments {
		resp[i] = enrollmentResponse{
			ID:             e.ID,
			CourseID:       e.CourseID,
			CourseTitle:    e.CourseTitle,
			CourseCategory: e.CourseCategory,
			Status:         e.Status,
			EnrolledAt:     e.EnrolledAt,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"enrollments": resp})
}

// CancelEnrollment は受講登録をキャンセルする。
// DELETE /api/enrollments/{id}
func (h *EnrollmentHandler) CancelEnrollment(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	enrollmentID := chi.URLParam(r, "id")

	if err := h.service.Cancel(r.Context(), userID, enrollmentID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
