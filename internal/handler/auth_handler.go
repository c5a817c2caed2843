package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/gakuen/internal/middleware"
	"github.com/hitoshi/gakuen/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Login は資格情報を検証し、ユーザーと署名付きトークンを返す。
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	// VerifyToken はトークンの署名と有効期限を検証し、ユーザーIDを返す。
	VerifyToken(tokenString string) (int64, error)
	// CurrentUser はユーザーIDからプロフィールを取得する。
	CurrentUser(ctx context.Context, userID int64) (*model.User, error)
}

// LoginMetrics はログイン成否のメトリクス記録インターフェース。
type LoginMetrics interface {
	RecordLoginSuccess()
	RecordLoginFailure()
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain string
	CookieSecure bool
	TokenMaxAge  int // 認証Cookieの有効期間（秒）
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
	metrics LoginMetrics // nil可
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig, metrics LoginMetrics) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
		metrics: metrics,
	}
}

// loginRequest はログインリクエストのボディ。
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// userResponse はユーザープロフィールのAPIレスポンス。
// パスワードハッシュは含めない。
type userResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

// loginResponse はログイン成功時のAPIレスポンス。
type loginResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

// Login はメールアドレスとパスワードによるログインを処理する。
// POST /auth/login
// 成功時は署名付きトークンをHttpOnly Cookieとして設定する。
// メールアドレス不明・パスワード誤り・無効ユーザーはすべて同一の401を返す。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyParseError(w)
		return
	}

	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordLoginFailure()
		}
		handleServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.TokenMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})

	if h.metrics != nil {
		h.metrics.RecordLoginSuccess()
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		User:    toUserResponse(user),
	})
}

// Logout は認証Cookieを破棄する。
// POST /auth/logout
// トークンはステートレスなため、サーバー側の状態破棄はない。
// 旧実装の無署名セッションCookieも合わせてクリアする。冪等。
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{middleware.AuthCookieName, middleware.LegacySessionCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   h.config.CookieDomain,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.config.CookieSecure,
			SameSite: http.SameSiteStrictMode,
		})
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Check は認証状態を返す。
// GET /auth/check
// Cookie欠落・署名不正・期限切れはすべて同一の401を返す。
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.verifiedUserID(r); !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"authenticated": false,
			"error":         "unauthorized",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"authenticated": true})
}

// Me は認証済みユーザー自身のプロフィールを返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.verifiedUserID(r)
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	user, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// verifiedUserID は認証CookieのトークンからユーザーIDを取り出す。
// /authルートはゲートミドルウェアの外に置くため、ここで自前検証する。
func (h *AuthHandler) verifiedUserID(r *http.Request) (int64, bool) {
	cookie, err := r.Cookie(middleware.AuthCookieName)
	if err != nil || cookie.Value == "" {
		return 0, false
	}

	userID, err := h.service.VerifyToken(cookie.Value)
	if err != nil {
		return 0, false
	}

	return userID, true
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		FullName:  user.FullName(),
	}
}
