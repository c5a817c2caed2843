package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/gakuen/internal/material"
	"github.com/hitoshi/gakuen/internal/model"
)

// mockMaterialService はMaterialServiceInterfaceのモック実装。
type mockMaterialService struct {
	listForCourseFn  func(ctx context.Context, userID int64, courseID string) ([]*model.Material, error)
	downloadURLFn    func(ctx context.Context, userID int64, materialID string) (string, error)
	initiateUploadFn func(ctx context.Context, userID int64, input material.UploadInput) (*material.Upload, error)
	confirmUploadFn  func(ctx context.Context, materialID string) (*model.Material, error)
}

func (m *mockMaterialService) ListForCourse(ctx context.Context, userID int64, courseID string) ([]*model.Material, error) {
	if m.listForCourseFn != nil {
		return m.listForCourseFn(ctx, userID, courseID)
	}
	return nil, nil
}

func (m *mockMaterialService) DownloadURL(ctx context.Context, userID int64, materialID string) (string, error) {
	if m.downloadURLFn != nil {
		return m.downloadURLFn(ctx, userID, materialID)
	}
	return "", nil
}

func (m *mockMaterialService) InitiateUpload(ctx context.Context, userID int64, input material.UploadInput) (*material.Upload, error) {
	if m.initiateUploadFn != nil {
		return m.initiateUploadFn(ctx, userID, input)
	}
	return nil, nil
}

func (m *mockMaterialService) ConfirmUpload(ctx context.Context, materialID string) (*model.Material, error) {
	if m.confirmUploadFn != nil {
		return m.confirmUploadFn(ctx, materialID)
	}
	return nil, nil
}

func availableMaterial() *model.Material {
	return &model.Material{
		ID:          "material-1",
		CourseID:    "course-1",
		Title:       "第1回講義資料",
		FileName:    "lecture01.pdf",
		ContentType: "application/pdf",
		SizeBytes:   1024,
		ObjectKey:   "materials/2025/07/01/uuid-lecture01.pdf",
		Status:      model.MaterialStatusAvailable,
	}
}

// --- GET /api/courses/{id}/materials テスト ---

func TestMaterialHandler_ListMaterials_Success(t *testing.T) {
	svc := &mockMaterialService{
		listForCourseFn: func(ctx context.Context, userID int64, courseID string) ([]*model.Material, error) {
			if userID != 42 {
				t.Errorf("userID = %d, want 42", userID)
			}
			if courseID != "course-1" {
				t.Errorf("courseID = %q, want %q", courseID, "course-1")
			}
			return []*model.Material{availableMaterial()}, nil
		},
	}
	h := NewMaterialHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/courses/course-1/materials", nil)
	req = withUserID(req, 42)
	req = withChiURLParam(req, "id", "course-1")
	w := httptest.NewRecorder()

	h.ListMaterials(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp struct {
		Materials []materialResponse `json:"materials"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Materials) != 1 {
		t.Fatalf("len(materials) = %d, want 1", len(resp.Materials))
	}
	if resp.Materials[0].FileName != "lecture01.pdf" {
		t.Errorf("file_name = %q", resp.Materials[0].FileName)
	}
}

// オブジェクトキーはレスポンスに含めない。
func TestMaterialHandler_ListMaterials_OmitsObjectKey(t *testing.T) {
	svc := &mockMaterialService{
		listForCourseFn: func(ctx context.Context, userID int64, courseID string) ([]*model.Material, error) {
			return []*model.Material{availableMaterial()}, nil
		},
	}
	h := NewMaterialHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/courses/course-1/materials", nil)
	req = withUserID(req, 42)
	req = withChiURLParam(req, "id", "course-1")
	w := httptest.NewRecorder()

	h.ListMaterials(w, req)

	if strings.Contains(w.Body.String(), "materials/2025") {
		t.Error("response must not expose the object key")
	}
}

func TestMaterialHandler_ListMaterials_NotEnrolled(t *testing.T) {
	svc := &mockMaterialService{
		listForCourseFn: func(ctx context.Context, userID int64, courseID string) ([]*model.Material, error) {
			return nil, model.NewNotEnrolledError()
		},
	}
	h := NewMaterialHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/courses/course-1/materials", nil)
	req = withUserID(req, 42)
	req = withChiURLParam(req, "id", "course-1")
	w := httptest.NewRecorder()

	h.ListMaterials(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
	resp := parseAPIErrorResponse(t, w)
	if resp["code"] != model.ErrCodeNotEnrolled {
		t.Errorf("code = %q, want %q", resp["code"], model.ErrCodeNotEnrolled)
	}
}

// --- POST /api/materials/{id}/download テスト ---

func TestMaterialHandler_DownloadMaterial_Success(t *testing.T) {
	svc := &mockMaterialService{
		downloadURLFn: func(ctx context.Context, userID int64, materialID string) (string, error) {
			if materialID != "material-1" {
				t.Errorf("materialID = %q, want %q", materialID, "material-1")
			}
			return "https://bucket.s3.amazonaws.com/signed-get-url", nil
		},
	}
	metrics := &mockPresignMetrics{}
	h := NewMaterialHandler(svc, metrics)

	req := httptest.NewRequest(http.MethodPost, "/api/materials/material-1/download", nil)
	req = withUserID(req, 42)
	req = withChiURLParam(req, "id", "material-1")
	w := httptest.NewRecorder()

	h.DownloadMaterial(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["download_url"] != "https://bucket.s3.amazonaws.com/signed-get-url" {
		t.Errorf("download_url = %q", resp["download_url"])
	}
	if len(metrics.kinds) != 1 || metrics.kinds[0] != "material_download" {
		t.Errorf("metrics.kinds = %v, want [material_download]", metrics.kinds)
	}
}

// アップロード未確定の教材はダウンロードできない。
func TestMaterialHandler_DownloadMaterial_NotReady(t *testing.T) {
	svc := &mockMaterialService{
		downloadURLFn: func(ctx context.Context, userID int64, materialID string) (string, error) {
			return "", model.NewMaterialNotReadyError()
		},
	}
	h := NewMaterialHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/materials/material-1/download", nil)
	req = withUserID(req, 42)
	req = withChiURLParam(req, "id", "material-1")
	w := httptest.NewRecorder()

	h.DownloadMaterial(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestMaterialHandler_DownloadMaterial_NotFound(t *testing.T) {
	svc := &mockMaterialService{
		downloadURLFn: func(ctx context.Context, userID int64, materialID string) (string, error) {
			return "", model.NewMaterialNotFoundError(materialID)
		},
	}
	h := NewMaterialHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/materials/missing/download", nil)
	req = withUserID(req, 42)
	req = withChiURLParam(req, "id", "missing")
	w := httptest.NewRecorder()

	h.DownloadMaterial(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// --- POST /api/materials テスト ---

func TestMaterialHandler_UploadMaterial_Success(t *testing.T) {
	svc := &mockMaterialService{
		initiateUploadFn: func(ctx context.Context, userID int64, input material.UploadInput) (*material.Upload, error) {
			if input.CourseID != "course-1" {
				t.Errorf("courseID = %q, want %q", input.CourseID, "course-1")
			}
			if input.FileName != "lecture01.pdf" {
				t.Errorf("fileName = %q, want %q", input.FileName, "lecture01.pdf")
			}
			m := availableMaterial()
			m.Status = model.MaterialStatusPending
			return &material.Upload{
				Material:  m,
				UploadURL: "https://bucket.s3.amazonaws.com/signed-put-url",
			}, nil
		},
	}
	metrics := &mockPresignMetrics{}
	h := NewMaterialHandler(svc, metrics)

	body := `{"course_id":"course-1","title":"第1回講義資料","file_name":"lecture01.pdf","content_type":"application/pdf","size_bytes":1024}`
	req := httptest.NewRequest(http.MethodPost, "/api/materials", strings.NewReader(body))
	req = withUserID(req, 42)
	w := httptest.NewRecorder()

	h.UploadMaterial(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	var resp struct {
		Material  materialResponse `json:"material"`
		UploadURL string           `json:"upload_url"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Material.Status != string(model.MaterialStatusPending) {
		t.Errorf("material status = %q, want %q", resp.Material.Status, model.MaterialStatusPending)
	}
	if resp.UploadURL != "https://bucket.s3.amazonaws.com/signed-put-url" {
		t.Errorf("upload_url = %q", resp.UploadURL)
	}
	if len(metrics.kinds) != 1 || metrics.kinds[0] != "material_upload" {
		t.Errorf("metrics.kinds = %v, want [material_upload]", metrics.kinds)
	}
}

func TestMaterialHandler_UploadMaterial_ValidationError(t *testing.T) {
	h := NewMaterialHandler(&mockMaterialService{}, nil)

	tests := []struct {
		name string
		body string
	}{
		{"missing course_id", `{"title":"資料","file_name":"a.pdf","content_type":"application/pdf"}`},
		{"missing file_name", `{"course_id":"course-1","title":"資料","content_type":"application/pdf"}`},
		{"missing content_type", `{"course_id":"course-1","title":"資料","file_name":"a.pdf"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/materials", strings.NewReader(tt.body))
			req = withUserID(req, 42)
			w := httptest.NewRecorder()

			h.UploadMaterial(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

// --- POST /api/materials/{id}/confirm テスト ---

func TestMaterialHandler_ConfirmMaterial_Success(t *testing.T) {
	svc := &mockMaterialService{
		confirmUploadFn: func(ctx context.Context, materialID string) (*model.Material, error) {
			if materialID != "material-1" {
				t.Errorf("materialID = %q, want %q", materialID, "material-1")
			}
			return availableMaterial(), nil
		},
	}
	h := NewMaterialHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/materials/material-1/confirm", nil)
	req = withChiURLParam(req, "id", "material-1")
	w := httptest.NewRecorder()

	h.ConfirmMaterial(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp materialResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != string(model.MaterialStatusAvailable) {
		t.Errorf("status = %q, want %q", resp.Status, model.MaterialStatusAvailable)
	}
}

func TestMaterialHandler_ConfirmMaterial_NotFound(t *testing.T) {
	svc := &mockMaterialService{
		confirmUploadFn: func(ctx context.Context, materialID string) (*model.Material, error) {
			return nil, model.NewMaterialNotFoundError(materialID)
		},
	}
	h := NewMaterialHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/materials/missing/confirm", nil)
	req = withChiURLParam(req, "id", "missing")
	w := httptest.NewRecorder()

	h.ConfirmMaterial(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
