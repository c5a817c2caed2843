// Package mailer はSMTP経由のメール送信を提供する。
package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// Mailer はメール送信のインターフェース。
type Mailer interface {
	// Send はプレーンテキストメールを送信する。
	Send(to, replyTo, subject, body string) error
}

// Config はSMTP接続の設定。
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPMailer はnet/smtp経由で送信するMailerの実装。
type SMTPMailer struct {
	config Config
	logger *slog.Logger
}

// コンパイル時のインターフェース実装チェック
var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer はSMTPMailerの新しいインスタンスを生成する。
func NewSMTPMailer(config Config, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		config: config,
		logger: logger,
	}
}

// Send はプレーンテキストメールを送信する。
// replyToが空でない場合はReply-Toヘッダーに設定する。
// SMTPサーバーが認証情報なしで動作する場合（ローカルのMailHog等）は
// PLAIN認証をスキップする。
func (m *SMTPMailer) Send(to, replyTo, subject, body string) error {
	e := email.NewEmail()
	e.From = m.config.From
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)
	if replyTo != "" {
		e.ReplyTo = []string{replyTo}
	}

	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	if err := e.Send(addr, auth); err != nil {
		m.logger.Error("failed to send email",
			slog.String("to", to),
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("メールの送信に失敗しました: %w", err)
	}

	m.logger.Info("email sent",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}
