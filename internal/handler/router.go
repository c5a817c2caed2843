package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/gakuen/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	AuthGateConfig    middleware.AuthGateConfig
	CSRFConfig        middleware.CSRFConfig
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ドメインサービス
	CourseService      CourseServiceInterface
	EnrollmentService  EnrollmentServiceInterface
	ResultService      ResultServiceInterface
	ApplicationService ApplicationServiceInterface
	MaterialService    MaterialServiceInterface
	ContactService     ContactServiceInterface

	// 運用
	HealthChecker  HealthChecker
	MetricsHandler http.Handler
	HTTPMetrics    middleware.HTTPMetrics
	LoginMetrics   LoginMetrics
	PresignMetrics PresignMetrics
	MailMetrics    MailMetrics
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging
//
// その上で保護ルートにのみ AuthGate → RateLimit(General) → CSRF を適用する。
// 認証ルート（/auth/*）と公開フォームはゲートの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// 全ルート共通のミドルウェア
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(logger, deps.HTTPMetrics))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig, deps.LoginMetrics)
	courseHandler := NewCourseHandler(deps.CourseService)
	enrollmentHandler := NewEnrollmentHandler(deps.EnrollmentService)
	resultHandler := NewResultHandler(deps.ResultService)
	applicationHandler := NewApplicationHandler(deps.ApplicationService, deps.PresignMetrics)
	materialHandler := NewMaterialHandler(deps.MaterialService, deps.PresignMetrics)
	contactHandler := NewContactHandler(deps.ContactService, deps.MailMetrics)

	// --- 認証不要のルート ---

	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// 認証ルート。ログインはIP単位のレート制限を追加する。
	r.Route("/auth", func(r chi.Router) {
		r.With(deps.RateLimiter.SensitiveMiddleware()).Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/check", authHandler.Check)
		r.Get("/me", authHandler.Me)
	})

	// CSRFトークン配布
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	// 講座カタログ（公開閲覧）
	r.Get("/api/courses", courseHandler.ListCourses)
	r.Get("/api/courses/{id}", courseHandler.GetCourse)

	// 公開フォーム。IP単位のレート制限を適用する。
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.SensitiveMiddleware())

		r.Post("/api/applications/internship", applicationHandler.SubmitInternship)
		r.Post("/api/applications/pitch-deck", applicationHandler.SubmitPitchDeck)
		r.Post("/api/applications/attachments", applicationHandler.PresignAttachment)
		r.Post("/api/contact", contactHandler.SubmitContact)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: AuthGate → RateLimit(General) → CSRF
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthGateMiddleware(deps.TokenVerifier, deps.AuthGateConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

		// 講座管理。GETは公開ルート側に登録済みのため、
		// ここはメソッド単位で登録する（Routeで同一パスを二重マウントしない）。
		r.Post("/api/courses", courseHandler.CreateCourse)
		r.Put("/api/courses/{id}", courseHandler.UpdateCourse)
		r.Delete("/api/courses/{id}", courseHandler.DeleteCourse)

		// GET /api/courses/{id}/materials - 受講者向け教材一覧
		r.Get("/api/courses/{id}/materials", materialHandler.ListMaterials)

		// 受講登録
		r.Route("/api/enrollments", func(r chi.Router) {
			r.Post("/", enrollmentHandler.Enroll)
			r.Get("/", enrollmentHandler.ListEnrollments)
			r.Delete("/{id}", enrollmentHandler.CancelEnrollment)
		})

		// 成績
		r.Route("/api/results", func(r chi.Router) {
			r.Get("/", resultHandler.ListResults)
			r.Post("/", resultHandler.RecordResult)
		})

		// 教材アップロード
		r.Route("/api/materials", func(r chi.Router) {
			r.Post("/", materialHandler.UploadMaterial)
			r.Post("/{id}/download", materialHandler.DownloadMaterial)
			r.Post("/{id}/confirm", materialHandler.ConfirmMaterial)
		})

		// 応募履歴
		r.Get("/api/applications", applicationHandler.ListApplications)
	})

	return r
}
