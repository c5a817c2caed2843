package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/gakuen/internal/application"
	"github.com/hitoshi/gakuen/internal/course"
	"github.com/hitoshi/gakuen/internal/metrics"
	"github.com/hitoshi/gakuen/internal/middleware"
	"github.com/hitoshi/gakuen/internal/model"
)

// newTestRouter はルーティングテスト用に全依存をモックで組んだルーターを返す。
// VerifyTokenは"valid-token"のみユーザーID 42として受理する。
// mutatorsで依存を個別に差し替えられる。
func newTestRouter(t *testing.T, mutators ...func(*RouterDeps)) http.Handler {
	t.Helper()

	authSvc := &mockAuthService{
		verifyTokenFn: func(tokenString string) (int64, error) {
			if tokenString == "valid-token" {
				return 42, nil
			}
			return 0, model.NewUnauthorizedError()
		},
		loginFn: func(ctx context.Context, email, password string) (*model.User, string, error) {
			return testUser(), "valid-token", nil
		},
	}

	rl := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(rl.Stop)

	deps := &RouterDeps{
		TokenVerifier: authSvc,
		AuthGateConfig: middleware.AuthGateConfig{
			APIPrefix: "/api",
			LoginURL:  "/login",
		},
		CSRFConfig:        middleware.CSRFConfig{},
		CORSAllowedOrigin: "http://localhost:3000",
		RateLimiter:       rl,
		Logger:            slog.New(slog.NewJSONHandler(io.Discard, nil)),

		AuthService: authSvc,
		AuthConfig:  AuthHandlerConfig{TokenMaxAge: 3600},

		CourseService: &mockCourseService{
			listFn: func(ctx context.Context, page, perPage int) (*course.CourseList, error) {
				return &course.CourseList{Courses: []*model.Course{testCourse()}, Total: 1, Page: 1, PerPage: 20}, nil
			},
			getFn: func(ctx context.Context, id string) (*model.Course, error) {
				return testCourse(), nil
			},
			createFn: func(ctx context.Context, input course.CreateInput) (*model.Course, error) {
				return testCourse(), nil
			},
		},
		EnrollmentService: &mockEnrollmentService{
			enrollFn: func(ctx context.Context, userID int64, courseID string) (*model.Enrollment, error) {
				return &model.Enrollment{
					ID: "enroll-1", UserID: userID, CourseID: courseID,
					Status: model.EnrollmentStatusActive, EnrolledAt: time.Now(),
				}, nil
			},
		},
		ResultService: &mockResultService{},
		ApplicationService: &mockApplicationService{
			submitFn: func(ctx context.Context, kind model.ApplicationKind, input application.SubmitInput) (*model.Application, error) {
				return &model.Application{ID: "app-1", Kind: kind, Status: model.ApplicationStatusReceived}, nil
			},
		},
		MaterialService: &mockMaterialService{},
		ContactService:  &mockContactService{},

		HealthChecker: &mockHealthChecker{},
	}

	for _, mutate := range mutators {
		mutate(deps)
	}

	return NewRouter(deps)
}

// fetchCSRFToken はCSRFトークンを取得し、トークン値とCookieを返すヘルパー。
func fetchCSRFToken(t *testing.T, router http.Handler) (string, []*http.Cookie) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("csrf-token status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode csrf response: %v", err)
	}
	return resp["token"], w.Result().Cookies()
}

func TestRouter_PublicRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"course list", http.MethodGet, "/api/courses", "", http.StatusOK},
		{"course detail", http.MethodGet, "/api/courses/course-1", "", http.StatusOK},
		{"csrf token", http.MethodGet, "/api/csrf-token", "", http.StatusOK},
		{"login", http.MethodPost, "/auth/login", `{"email":"hanako@example.com","password":"secret"}`, http.StatusOK},
		{"logout", http.MethodPost, "/auth/logout", "", http.StatusOK},
		{"internship application", http.MethodPost, "/api/applications/internship",
			`{"name":"山田太郎","email":"taro@example.com","message":"応募します"}`, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

// 保護APIはトークンなしでは401 JSONを返す。
func TestRouter_ProtectedRoutes_RequireToken(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/enrollments"},
		{http.MethodGet, "/api/results"},
		{http.MethodGet, "/api/applications"},
		{http.MethodGet, "/api/courses/course-1/materials"},
		{http.MethodPost, "/api/enrollments"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{}`))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestRouter_ProtectedGet_WithValidToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/enrollments", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: "valid-token"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

// 状態変更リクエストは認証トークンに加えてCSRFトークンが必要。
func TestRouter_ProtectedPost_CSRFFlow(t *testing.T) {
	router := newTestRouter(t)
	token, cookies := fetchCSRFToken(t, router)

	t.Run("with csrf token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/enrollments", strings.NewReader(`{"course_id":"course-1"}`))
		req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: "valid-token"})
		for _, c := range cookies {
			req.AddCookie(c)
		}
		req.Header.Set("X-CSRF-Token", token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
		}
	})

	t.Run("missing csrf token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/enrollments", strings.NewReader(`{"course_id":"course-1"}`))
		req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: "valid-token"})
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
		}
	})
}

// 講座カタログのGETは公開だが、作成は認証ゲートの内側。
func TestRouter_CourseWrite_RequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	body := `{"title":"講座","category":"design"}`
	req := httptest.NewRequest(http.MethodPost, "/api/courses", strings.NewReader(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: "valid-token"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound && w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 404 or 401", w.Code)
	}
}

// TestRouter_RequestsAreCountedInMetrics はルーター経由のリクエストが
// ステータスコード別カウンタとレイテンシヒストグラムに記録されることを検証する。
func TestRouter_RequestsAreCountedInMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	router := newTestRouter(t, func(deps *RouterDeps) {
		deps.HTTPMetrics = collector
	})

	// 200が2回、401が1回
	for _, tt := range []struct {
		path       string
		wantStatus int
	}{
		{"/health", http.StatusOK},
		{"/api/courses", http.StatusOK},
		{"/api/enrollments", http.StatusUnauthorized},
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if w.Code != tt.wantStatus {
			t.Fatalf("GET %s status = %d, want %d", tt.path, w.Code, tt.wantStatus)
		}
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	statusCounts := map[string]float64{}
	var latencySamples uint64
	for _, mf := range families {
		switch mf.GetName() {
		case "gakuen_http_status_total":
			for _, m := range mf.GetMetric() {
				for _, lp := range m.GetLabel() {
					if lp.GetName() == "status_code" {
						statusCounts[lp.GetValue()] = m.GetCounter().GetValue()
					}
				}
			}
		case "gakuen_request_latency_seconds":
			for _, m := range mf.GetMetric() {
				latencySamples += m.GetHistogram().GetSampleCount()
			}
		}
	}

	if got := statusCounts["200"]; got != 2 {
		t.Errorf("status_code=200 count = %v, want 2", got)
	}
	if got := statusCounts["401"]; got != 1 {
		t.Errorf("status_code=401 count = %v, want 1", got)
	}
	if latencySamples != 3 {
		t.Errorf("latency histogram sample count = %d, want 3", latencySamples)
	}
}
