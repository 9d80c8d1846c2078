package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/service"
)

func newVisualizationsRouter(repo *stubVisualRepo) *chi.Mux {
	svc := service.NewVisualizationService(repo, slog.Default())
	h := NewVisualizationsHandler(svc, slog.Default())

	router := chi.NewRouter()
	router.Post("/visualizations", h.Create)
	router.Get("/visualizations/{id}", h.Get)
	router.Put("/visualizations/{id}", h.Update)
	router.Delete("/visualizations/{id}", h.Delete)
	return router
}

// TestVisualizationEndpoints_UpdateNoContent проверяет, что успешная
// замена содержимого отвечает 204 с пустым телом.
func TestVisualizationEndpoints_UpdateNoContent(t *testing.T) {
	router := newVisualizationsRouter(&stubVisualRepo{})

	body := []byte(`{"svg": "<svg/>", "detailsOnHover": false}`)
	req := httptest.NewRequest(http.MethodPut, "/visualizations/1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("статус %d, ожидался 204; тело: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.Len() != 0 {
		t.Errorf("ожидалось пустое тело, получено %q", rec.Body.String())
	}
}
