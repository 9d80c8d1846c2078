// visualizations.go — обработчики SVG-содержимого визуализаций.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/domain/model"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/service"
)

// VisualizationsHandler — обработчик endpoints SVG-содержимого.
type VisualizationsHandler struct {
	visuals *service.VisualizationService
	logger  *slog.Logger
}

// NewVisualizationsHandler создаёт обработчик SVG-содержимого.
func NewVisualizationsHandler(visuals *service.VisualizationService, logger *slog.Logger) *VisualizationsHandler {
	return &VisualizationsHandler{
		visuals: visuals,
		logger:  logger.With(slog.String("component", "visualizations_handler")),
	}
}

// visualizationRequest — тело запроса создания и обновления.
type visualizationRequest struct {
	SVG            string `json:"svg"`
	DetailsOnHover *bool  `json:"detailsOnHover"`
}

// visualizationResponse — ответ с SVG-содержимым.
type visualizationResponse struct {
	ID             int    `json:"id"`
	SVG            string `json:"svg"`
	DetailsOnHover bool   `json:"detailsOnHover"`
}

func toVisualizationResponse(v *model.Visualization) visualizationResponse {
	return visualizationResponse{
		ID:             v.ID,
		SVG:            v.SVG,
		DetailsOnHover: v.DetailsOnHover,
	}
}

// Create обрабатывает POST /visualizations.
func (h *VisualizationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req visualizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	detailsOnHover := true
	if req.DetailsOnHover != nil {
		detailsOnHover = *req.DetailsOnHover
	}

	v, err := h.visuals.Create(r.Context(), req.SVG, detailsOnHover)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toVisualizationResponse(v))
}

// Get обрабатывает GET /visualizations/{id}.
func (h *VisualizationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	v, err := h.visuals.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toVisualizationResponse(v))
}

// Update обрабатывает PUT /visualizations/{id}.
// Полная замена содержимого, успех — 204 без тела.
func (h *VisualizationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req visualizationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	detailsOnHover := true
	if req.DetailsOnHover != nil {
		detailsOnHover = *req.DetailsOnHover
	}

	if _, err := h.visuals.Update(r.Context(), id, req.SVG, detailsOnHover); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete обрабатывает DELETE /visualizations/{id}.
func (h *VisualizationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.visuals.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
