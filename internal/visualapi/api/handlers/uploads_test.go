package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/domain/model"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/service"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/upload"
)

// stubVisualRepo — заглушка репозитория: одна визуализация с id=1.
type stubVisualRepo struct {
	svg string
}

func (s *stubVisualRepo) Create(ctx context.Context, v *model.Visualization) error { return nil }

func (s *stubVisualRepo) GetByID(ctx context.Context, id int) (*model.Visualization, error) {
	if id != 1 {
		return nil, fmt.Errorf("нет визуализации %d", id)
	}
	return &model.Visualization{ID: 1, SVG: s.svg}, nil
}

func (s *stubVisualRepo) Update(ctx context.Context, v *model.Visualization) error { return nil }

func (s *stubVisualRepo) UpdateSVG(ctx context.Context, id int, svg string) error {
	s.svg = svg
	return nil
}

func (s *stubVisualRepo) Delete(ctx context.Context, id int) error { return nil }

func newUploadRouter(repo *stubVisualRepo) *chi.Mux {
	store := upload.NewMemoryStore(16, time.Minute)
	svc := service.NewUploadService(store, repo, 100, slog.Default())
	h := NewUploadsHandler(svc, slog.Default())

	router := chi.NewRouter()
	router.Post("/visualizations/{id}/upload/init", h.Init)
	router.Post("/visualizations/{id}/upload/chunk", h.Chunk)
	router.Post("/visualizations/{id}/upload/finalize", h.Finalize)
	return router
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("кодирование тела запроса: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// TestUploadEndpoints_FullCycle проверяет HTTP-протокол загрузки целиком.
func TestUploadEndpoints_FullCycle(t *testing.T) {
	repo := &stubVisualRepo{}
	router := newUploadRouter(repo)

	// init
	rec := postJSON(t, router, "/visualizations/1/upload/init",
		map[string]any{"totalChunks": 2, "fileSize": 10})
	if rec.Code != http.StatusOK {
		t.Fatalf("init: статус %d, ожидался 200; тело: %s", rec.Code, rec.Body.String())
	}
	var initResp struct {
		UploadID string `json:"uploadId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &initResp); err != nil {
		t.Fatalf("разбор ответа init: %v", err)
	}
	if initResp.UploadID == "" {
		t.Fatal("init: пустой uploadId")
	}

	// chunk 0
	rec = postJSON(t, router, "/visualizations/1/upload/chunk",
		map[string]any{"uploadId": initResp.UploadID, "chunkIndex": 0, "data": "<svg"})
	if rec.Code != http.StatusOK {
		t.Fatalf("chunk: статус %d, ожидался 200; тело: %s", rec.Code, rec.Body.String())
	}
	var chunkResp struct {
		Received int `json:"received"`
		Total    int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &chunkResp); err != nil {
		t.Fatalf("разбор ответа chunk: %v", err)
	}
	if chunkResp.Received != 1 || chunkResp.Total != 2 {
		t.Errorf("chunk: received=%d total=%d, ожидалось 1/2", chunkResp.Received, chunkResp.Total)
	}

	// Преждевременный finalize — 400 со счётчиками
	rec = postJSON(t, router, "/visualizations/1/upload/finalize",
		map[string]any{"uploadId": initResp.UploadID})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("ранний finalize: статус %d, ожидался 400", rec.Code)
	}
	var incompleteResp struct {
		Error    string `json:"error"`
		Received int    `json:"received"`
		Expected int    `json:"expected"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &incompleteResp); err != nil {
		t.Fatalf("разбор ответа раннего finalize: %v", err)
	}
	if incompleteResp.Error == "" {
		t.Error("ранний finalize: пустое поле error")
	}
	if incompleteResp.Received != 1 || incompleteResp.Expected != 2 {
		t.Errorf("ранний finalize: received=%d expected=%d, ожидалось 1/2",
			incompleteResp.Received, incompleteResp.Expected)
	}

	// chunk 1 и успешный finalize
	rec = postJSON(t, router, "/visualizations/1/upload/chunk",
		map[string]any{"uploadId": initResp.UploadID, "chunkIndex": 1, "data": "/>"})
	if rec.Code != http.StatusOK {
		t.Fatalf("chunk(1): статус %d", rec.Code)
	}
	rec = postJSON(t, router, "/visualizations/1/upload/finalize",
		map[string]any{"uploadId": initResp.UploadID})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("finalize: статус %d, ожидался 204; тело: %s", rec.Code, rec.Body.String())
	}
	if repo.svg != "<svg/>" {
		t.Errorf("собранный SVG = %q, ожидался %q", repo.svg, "<svg/>")
	}
}

// TestUploadEndpoints_UnknownSession проверяет 404 для неизвестной сессии.
func TestUploadEndpoints_UnknownSession(t *testing.T) {
	router := newUploadRouter(&stubVisualRepo{})

	rec := postJSON(t, router, "/visualizations/1/upload/chunk",
		map[string]any{"uploadId": "нет-такой", "chunkIndex": 0, "data": "x"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("chunk: статус %d, ожидался 404", rec.Code)
	}

	rec = postJSON(t, router, "/visualizations/1/upload/finalize",
		map[string]any{"uploadId": "нет-такой"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("finalize: статус %d, ожидался 404", rec.Code)
	}
}

// TestUploadEndpoints_Validation проверяет 400 на некорректных параметрах.
func TestUploadEndpoints_Validation(t *testing.T) {
	router := newUploadRouter(&stubVisualRepo{})

	// Ноль блоков
	rec := postJSON(t, router, "/visualizations/1/upload/init",
		map[string]any{"totalChunks": 0})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("init с нулём блоков: статус %d, ожидался 400", rec.Code)
	}

	// Пустой uploadId
	rec = postJSON(t, router, "/visualizations/1/upload/chunk",
		map[string]any{"chunkIndex": 0, "data": "x"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("chunk без uploadId: статус %d, ожидался 400", rec.Code)
	}

	// Индекс вне диапазона
	init := postJSON(t, router, "/visualizations/1/upload/init",
		map[string]any{"totalChunks": 2, "fileSize": 1})
	var initResp struct {
		UploadID string `json:"uploadId"`
	}
	if err := json.Unmarshal(init.Body.Bytes(), &initResp); err != nil {
		t.Fatalf("разбор ответа init: %v", err)
	}
	rec = postJSON(t, router, "/visualizations/1/upload/chunk",
		map[string]any{"uploadId": initResp.UploadID, "chunkIndex": 5, "data": "x"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("chunk с индексом вне диапазона: статус %d, ожидался 400", rec.Code)
	}
}
