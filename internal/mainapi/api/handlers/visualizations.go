// visualizations.go — обработчики визуализаций пользователя.
package handlers

import (
	"log/slog"
	"net/http"

	apierrors "github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/api/errors"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/api/middleware"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/service"
)

// VisualizationsHandler — обработчик endpoints визуализаций.
type VisualizationsHandler struct {
	visuals *service.VisualizationService
	logger  *slog.Logger
}

// NewVisualizationsHandler создаёт обработчик визуализаций.
func NewVisualizationsHandler(visuals *service.VisualizationService, logger *slog.Logger) *VisualizationsHandler {
	return &VisualizationsHandler{
		visuals: visuals,
		logger:  logger.With(slog.String("component", "visualizations_handler")),
	}
}

// createVisualizationRequest — тело запроса создания визуализации.
type createVisualizationRequest struct {
	Name           string `json:"name"`
	SVG            string `json:"svg"`
	DetailsOnHover *bool  `json:"detailsOnHover"`
}

// updateVisualizationRequest — тело запроса обновления визуализации.
type updateVisualizationRequest struct {
	Name           *string `json:"name"`
	SVG            *string `json:"svg"`
	DetailsOnHover *bool   `json:"detailsOnHover"`
}

// Create обрабатывает POST /visualizations.
func (h *VisualizationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createVisualizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	detailsOnHover := true
	if req.DetailsOnHover != nil {
		detailsOnHover = *req.DetailsOnHover
	}

	userID := middleware.UserIDFromContext(r.Context())
	v, err := h.visuals.Create(r.Context(), userID, req.Name, req.SVG, detailsOnHover)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toVisualizationResponse(v, nil))
}

// Get обрабатывает GET /visualizations/{id}.
// Возвращает метаданные вместе с SVG-содержимым.
func (h *VisualizationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	v, content, err := h.visuals.Get(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toVisualizationResponse(v, content))
}

// Update обрабатывает PATCH /visualizations/{id}.
func (h *VisualizationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateVisualizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == nil && req.SVG == nil {
		apierrors.ValidationError(w, "нечего обновлять")
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	v, err := h.visuals.Update(r.Context(), userID, id, req.Name, req.SVG, req.DetailsOnHover)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toVisualizationResponse(v, nil))
}

// Delete обрабатывает DELETE /visualizations/{id}.
func (h *VisualizationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if err := h.visuals.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
