package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/gakuen/internal/course"
	"github.com/hitoshi/gakuen/internal/model"
)

// CourseServiceInterface は講座ハンドラーが必要とするサービスインターフェース。
type CourseServiceInterface interface {
	List(ctx context.Context, page, perPage int) (*course.CourseList, error)
	Get(ctx context.Context, id string) (*model.Course, error)
	Create(ctx context.Context, input course.CreateInput) (*model.Course, error)
	Update(ctx context.Context, id string, input course.CreateInput) (*model.Course, error)
	Delete(ctx context.Context, id string) error
}

// CourseHandler は講座管理のHTTPハンドラー。
type CourseHandler struct {
	service CourseServiceInterface
}

// NewCourseHandler はCourseHandlerを生成する。
func NewCourseHandler(service CourseServiceInterface) *CourseHandler {
	return &CourseHandler{service: service}
}

// courseRequest は講座の作成・更新リクエストのボディ。
type courseRequest struct {
	Title         string `json:"title" validate:"required,max=200"`
	Description   string `json:"description" validate:"max=20000"`
	Category      string `json:"category" validate:"required,max=100"`
	DurationWeeks int    `json:"duration_weeks" validate:"gte=0,lte=520"`
	FeeCents      int64  `json:"fee_cents" validate:"gte=0"`
}

// courseResponse は講座情報のAPIレスポンス。
type courseResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	DurationWeeks int       `json:"duration_weeks"`
	FeeCents      int64     `json:"fee_cents"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// courseListResponse は講座一覧のAPIレスポンス。
type courseListResponse struct {
	Courses []courseResponse `json:"courses"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}

// ListCourses は講座一覧を返す。
// GET /api/courses?page=1&per_page=20
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	list, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := courseListResponse{
		Courses: make([]courseResponse, len(list.Courses)),
		Total:   list.Total,
		Page:    list.Page,
		PerPage: list.PerPage,
	}
	for i, c := range list.Courses {
		resp.Courses[i] = toCourseResponse(c)
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetCourse は講座詳細を返す。
// GET /api/courses/{id}
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")

	c, err := h.service.Get(r.Context(), courseID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCourseResponse(c))
}

// CreateCourse は講座を作成する。
// POST /api/courses
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyParseError(w)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	c, err := h.service.Create(r.Context(), toCreateInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCourseResponse(c))
}

// UpdateCourse は講座を更新する。
// PUT /api/courses/{id}
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")

	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyParseError(w)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	c, err := h.service.Update(r.Context(), courseID, toCreateInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCourseResponse(c))
}

// DeleteCourse は講座を削除する。
// DELETE /api/courses/{id}
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), courseID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toCreateInput はリクエストDTOからサービス入力に変換する。
func toCreateInput(req courseRequest) course.CreateInput {
	return course.CreateInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		DurationWeeks: req.DurationWeeks,
		FeeCents:      req.FeeCents,
	}
}

// toCourseResponse はmodel.CourseからAPIレスポンスに変換する。
func toCourseResponse(c *model.Course) courseResponse {
	return courseResponse{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Category:      c.Category,
		DurationWeeks: c.DurationWeeks,
		FeeCents:      c.FeeCents,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
