// Package contact は問い合わせフォームのドメインロジックを提供する。
package contact

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/gakuen/internal/mailer"
	"github.com/hitoshi/gakuen/internal/model"
)

// Service は問い合わせ受付のサービス層。
// フォーム内容を運営宛のメールに整形して送信する。
type Service struct {
	mailer mailer.Mailer
	to     string // 運営の受信アドレス
	logger *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(m mailer.Mailer, to string, logger *slog.Logger) *Service {
	return &Service{
		mailer: m,
		to:     to,
		logger: logger,
	}
}

// SubmitInput は問い合わせの入力。
type SubmitInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Submit は問い合わせを運営宛メールとして送信する。
// Reply-Toに送信者のアドレスを設定し、運営がそのまま返信できるようにする。
// 送信失敗時は自動リトライせず、MAIL_DELIVERY_FAILEDを返す。
func (s *Service) Submit(ctx context.Context, input SubmitInput) error {
	subject := fmt.Sprintf("[Contact] %s", input.Subject)
	body := fmt.Sprintf(
		"Name: %s\nEmail: %s\n\n%s\n",
		input.Name, input.Email, input.Message,
	)

	if err := s.mailer.Send(s.to, input.Email, subject, body); err != nil {
		s.logger.Error("contact mail delivery failed",
			slog.String("from", input.Email),
			slog.String("error", err.Error()),
		)
		return model.NewMailDeliveryFailedError()
	}

	s.logger.Info("contact mail delivered",
		slog.String("from", input.Email),
	)
	return nil
}
