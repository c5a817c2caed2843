package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/gakuen/internal/material"
	"github.com/hitoshi/gakuen/internal/middleware"
	"github.com/hitoshi/gakuen/internal/model"
)

// MaterialServiceInterface は教材ハンドラーが必要とするサービスインターフェース。
type MaterialServiceInterface interface {
	ListForCourse(ctx context.Context, userID int64, courseID string) ([]*model.Material, error)
	DownloadURL(ctx context.Context, userID int64, materialID string) (string, error)
	InitiateUpload(ctx context.Context, userID int64, input material.UploadInput) (*material.Upload, error)
	ConfirmUpload(ctx context.Context, materialID string) (*model.Material, error)
}

// MaterialHandler は講座教材のHTTPハンドラー。
type MaterialHandler struct {
	service MaterialServiceInterface
	metrics PresignMetrics
}

// NewMaterialHandler はMaterialHandlerを生成する。
// metricsはnilでもよい。
func NewMaterialHandler(service MaterialServiceInterface, metrics PresignMetrics) *MaterialHandler {
	return &MaterialHandler{service: service, metrics: metrics}
}

// uploadMaterialRequest は教材アップロード開始リクエストのボディ。
type uploadMaterialRequest struct {
	CourseID    string `json:"course_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=200"`
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,max=100"`
	SizeBytes   int64  `json:"size_bytes" validate:"gte=0"`
}

// materialResponse は教材のAPIレスポンス。オブジェクトキーは返さない。
type materialResponse struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListMaterials は講座のダウンロード可能な教材一覧を返す。
// 受講登録済みのユーザーのみ参照できる。
// GET /api/courses/{id}/materials
func (h *MaterialHandler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	courseID := chi.URLParam(r, "id")

	materials, err := h.service.ListForCourse(r.Context(), userID, courseID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]materialResponse, len(materials))
	for i, m := range materials {
		resp[i] = toMaterialResponse(m)
	}

	writeJSON(w, http.StatusOK, map[string]any{"materials": resp})
}

// DownloadMaterial は教材の署名付きGET URLを発行する。
// POST /api/materials/{id}/download
func (h *MaterialHandler) DownloadMaterial(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	materialID := chi.URLParam(r, "id")

	url, err := h.service.DownloadURL(r.Context(), userID, materialID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordPresignIssued("material_download")
	}

	writeJSON(w, http.StatusOK, map[string]string{"download_url": url})
}

// UploadMaterial は教材メタデータを登録し、署名付きPUT URLを発行する。
// アップロード完了後にConfirmMaterialを呼ぶまで教材は公開されない。
// POST /api/materials
func (h *MaterialHandler) UploadMaterial(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req uploadMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyParseError(w)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	upload, err := h.service.InitiateUpload(r.Context(), userID, material.UploadInput{
		CourseID:    req.CourseID,
		Title:       req.Title,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordPresignIssued("material_upload")
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"material":   toMaterialResponse(upload.Material),
		"upload_url": upload.UploadURL,
	})
}

// ConfirmMaterial は教材のアップロード完了を確定し、公開状態にする。
// 既に公開済みの場合もそのまま200を返す。
// POST /api/materials/{id}/confirm
func (h *MaterialHandler) ConfirmMaterial(w http.ResponseWriter, r *http.Request) {
	materialID := chi.URLParam(r, "id")

	m, err := h.service.ConfirmUpload(r.Context(), materialID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMaterialResponse(m))
}

// toMaterialResponse はmodel.MaterialからAPIレスポンスに変換する。
func toMaterialResponse(m *model.Material) materialResponse {
	return materialResponse{
		ID:          m.ID,
		CourseID:    m.CourseID,
		Title:       m.Title,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		Status:      string(m.Status),
		CreatedAt:   m.CreatedAt,
	}
}
