package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/gakuen/internal/middleware"
	"github.com/hitoshi/gakuen/internal/model"
	"github.com/hitoshi/gakuen/internal/repository"
	"github.com/hitoshi/gakuen/internal/result"
)

// ResultServiceInterface は成績ハンドラーが必要とするサービスインターフェース。
type ResultServiceInterface interface {
	Record(ctx context.Context, userID int64, input result.RecordInput) (*model.Result, error)
	List(ctx context.Context, userID int64) ([]repository.ResultWithCourse, error)
}

// ResultHandler は成績のHTTPハンドラー。
type ResultHandler struct {
	service ResultServiceInterface
}

// NewResultHandler はResultHandlerを生成する。
func NewResultHandler(service ResultServiceInterface) *ResultHandler {
	return &ResultHandler{service: service}
}

// recordResultRequest は成績記録リクエストのボディ。
type recordResultRequest struct {
	EnrollmentID string  `json:"enrollment_id" validate:"required"`
	Score        float64 `json:"score" validate:"gte=0,lte=100"`
	Grade        string  `json:"grade" validate:"required,max=10"`
	Remarks      string  `json:"remarks" validate:"max=2000"`
}

// resultResponse は成績のAPIレスポンス。
type resultResponse struct {
	ID           string    `json:"id"`
	EnrollmentID string    `json:"enrollment_id"`
	CourseID     string    `json:"course_id"`
	CourseTitle  string    `json:"course_title,omitempty"`
	Score        float64   `json:"score"`
	Grade        string    `json:"grade"`
	Remarks      string    `json:"remarks,omitempty"`
	PublishedAt  time.Time `json:"published_at"`
}

// ListResults はログインユーザーの成績一覧を返す。
// GET /api/results
func (h *ResultHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	results, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]resultResponse, len(results))
	for i, res := range results {
		resp[i] = resultResponse{
			ID:           res.ID,
			EnrollmentID: res.EnrollmentID,
			CourseID:     res.CourseID,
			CourseTitle:  res.CourseTitle,
			Score:        res.Score,
			Grade:        res.Grade,
			Remarks:      res.Remarks,
			PublishedAt:  res.PublishedAt,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": resp})
}

// RecordResult は受講登録に対する成績を記録する。
// POST /api/results
func (h *ResultHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req recordResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyParseError(w)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	res, err := h.service.Record(r.Context(), userID, result.RecordInput{
		EnrollmentID: req.EnrollmentID,
		Score:        req.Score,
		Grade:        req.Grade,
		Remarks:      req.Remarks,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resultResponse{
		ID:           res.ID,
		EnrollmentID: res.EnrollmentID,
		CourseID:     res.CourseID,
		Score:        res.Score,
		Grade:        res.Grade,
		Remarks:      res.Remarks,
		PublishedAt:  res.PublishedAt,
	})
}
