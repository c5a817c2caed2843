package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/gakuen/internal/application"
	"github.com/hitoshi/gakuen/internal/middleware"
	"github.com/hitoshi/gakuen/internal/model"
)

// ApplicationServiceInterface は応募ハンドラーが必要とするサービスインターフェース。
type ApplicationServiceInterface interface {
	Submit(ctx context.Context, kind model.ApplicationKind, input application.SubmitInput) (*model.Application, error)
	PresignAttachment(ctx context.Context, fileName, contentType string) (string, string, error)
	ListForUser(ctx context.Context, userID int64) ([]*model.Application, error)
}

// PresignMetrics は署名付きURL発行の計測インターフェース。
type PresignMetrics interface {
	RecordPresignIssued(kind string)
}

// ApplicationHandler はインターンシップ/ピッチデッキ応募のHTTPハンドラー。
type ApplicationHandler struct {
	service ApplicationServiceInterface
	metrics PresignMetrics
}

// NewApplicationHandler はApplicationHandlerを生成する。
// metricsはnilでもよい。
func NewApplicationHandler(service ApplicationServiceInterface, metrics PresignMetrics) *ApplicationHandler {
	return &ApplicationHandler{service: service, metrics: metrics}
}

// applicationRequest は応募リクエストのボディ。
type applicationRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=30"`
	Message string `json:"message" validate:"required,max=10000"`
	FileKey string `json:"file_key" validate:"max=500"`
}

// attachmentRequest は添付ファイルの署名付きURL発行リクエスト。
type attachmentRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,max=100"`
}

// applicationResponse は応募のAPIレスポンス。
type applicationResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	FileKey   string    `json:"file_key,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitInternship はインターンシップ応募を受け付ける。
// POST /api/applications/internship
func (h *ApplicationHandler) SubmitInternship(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, model.ApplicationKindInternship)
}

// SubmitPitchDeck はピッチデッキ応募を受け付ける。
// POST /api/applications/pitch-deck
func (h *ApplicationHandler) SubmitPitchDeck(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, model.ApplicationKindPitchDeck)
}

func (h *ApplicationHandler) submit(w http.ResponseWriter, r *http.Request, kind model.ApplicationKind) {
	var req applicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyParseError(w)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	app, err := h.service.Submit(r.Context(), kind, application.SubmitInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
		FileKey: req.FileKey,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toApplicationResponse(app))
}

// PresignAttachment は応募添付用の署名付きPUT URLを発行する。
// POST /api/applications/attachments
func (h *ApplicationHandler) PresignAttachment(w http.ResponseWriter, r *http.Request) {
	var req attachmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyParseError(w)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	key, url, err := h.service.PresignAttachment(r.Context(), req.FileName, req.ContentType)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordPresignIssued("application_attachment")
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"file_key":   key,
		"upload_url": url,
	})
}

// ListApplications はログインユーザーのメールアドレスに紐づく応募一覧を返す。
// GET /api/applications
func (h *ApplicationHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	apps, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]applicationResponse, len(apps))
	for i, app := range apps {
		resp[i] = toApplicationResponse(app)
	}

	writeJSON(w, http.StatusOK, map[string]any{"applications": resp})
}

// toApplicationResponse はmodel.ApplicationからAPIレスポンスに変換する。
func toApplicationResponse(app *model.Application) applicationResponse {
	return applicationResponse{
		ID:        app.ID,
		Kind:      string(app.Kind),
		Name:      app.Name,
		Email:     app.Email,
		Phone:     app.Phone,
		Message:   app.Message,
		FileKey:   app.FileKey,
		Status:    app.Status,
		CreatedAt: app.CreatedAt,
	}
}
