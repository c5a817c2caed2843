package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/gakuen/internal/contact"
)

// ContactServiceInterface は問い合わせハンドラーが必要とするサービスインターフェース。
type ContactServiceInterface interface {
	Submit(ctx context.Context, input contact.SubmitInput) error
}

// MailMetrics はメール送信の計測インターフェース。
type MailMetrics interface {
	RecordMailDelivery(success bool)
}

// ContactHandler は問い合わせフォームのHTTPハンドラー。
type ContactHandler struct {
	service ContactServiceInterface
	metrics MailMetrics
}

// NewContactHandler はContactHandlerを生成する。
// metricsはnilでもよい。
func NewContactHandler(service ContactServiceInterface, metrics MailMetrics) *ContactHandler {
	return &ContactHandler{service: service, metrics: metrics}
}

// contactRequest は問い合わせリクエストのボディ。
type contactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=10000"`
}

// SubmitContact は問い合わせを受け付け、運営宛にメール送信する。
// POST /api/contact
func (h *ContactHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyParseError(w)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	err := h.service.Submit(r.Context(), contact.SubmitInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if h.metrics != nil {
		h.metrics.RecordMailDelivery(err == nil)
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Your inquiry has been received"})
}
