package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/gakuen/internal/model"
)

// dummyPasswordHash は存在しないメールアドレスに対する照合に使うダミーハッシュ。
// ユーザーの有無によってレスポンス時間が変わらないよう、常にbcrypt比較を1回実行する。
// 照合が成功することはなく、結果も参照しない。
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserFinder は認証サービスが必要とするユーザー検索インターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	TokenSecret string
	TokenMaxAge int // トークン有効期間（秒）
}

// Service は資格情報の照合とトークン発行のビジネスロジックを提供する。
// サーバー側にセッション状態は持たない。トークンの有効性は署名と期限のみで決まる。
type Service struct {
	users  UserFinder
	config ServiceConfig
}

// NewService はServiceを生成する。
func NewService(users UserFinder, config ServiceConfig) *Service {
	return &Service{
		users:  users,
		config: config,
	}
}

// Login はメールアドレスとパスワードを照合し、署名付きトークンを発行する。
// メールアドレス不明・パスワード誤り・無効化済みアカウントはすべて
// 同一のINVALID_CREDENTIALSエラーに収斂する。どちらが誤っていたかは漏らさない。
// データベース障害はそのまま呼び出し側へ伝播し、資格情報エラーとは区別される。
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user by email: %w", err)
	}

	if user == nil || !user.IsActive {
		// ユーザーの有無でタイミングが変わらないようダミーハッシュと比較する
		_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(password))
		return nil, "", model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", model.NewInvalidCredentialsError()
	}

	token, err := GenerateToken(user.ID, []byte(s.config.TokenSecret), time.Duration(s.config.TokenMaxAge)*time.Second)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("user logged in", slog.Int64("user_id", user.ID))

	return user, token, nil
}

// CurrentUser は検証済みユーザーIDからプロフィールを取得する。
func (s *Service) CurrentUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// VerifyToken は設定されたシークレットでトークンを検証し、ユーザーIDを返す。
func (s *Service) VerifyToken(tokenString string) (int64, error) {
	return VerifyToken(tokenString, []byte(s.config.TokenSecret))
}
