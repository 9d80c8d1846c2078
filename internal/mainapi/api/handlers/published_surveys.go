// published_surveys.go — обработчики управления опубликованными опросами.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/api/middleware"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/service"
)

// PublishedSurveysHandler — обработчик endpoints опубликованных опросов.
type PublishedSurveysHandler struct {
	published *service.PublishedSurveyService
	logger    *slog.Logger
}

// NewPublishedSurveysHandler создаёт обработчик опубликованных опросов.
func NewPublishedSurveysHandler(published *service.PublishedSurveyService, logger *slog.Logger) *PublishedSurveysHandler {
	return &PublishedSurveysHandler{
		published: published,
		logger:    logger.With(slog.String("component", "published_surveys_handler")),
	}
}

// updatePublishedSurveyRequest — тело запроса обновления опроса.
// Менять можно только название, статус и плановые даты.
type updatePublishedSurveyRequest struct {
	Name    *string    `json:"name"`
	Status  *string    `json:"status"`
	OpenAt  *time.Time `json:"openAt"`
	CloseAt *time.Time `json:"closeAt"`
}

// Get обрабатывает GET /publishedSurveys/{id}.
// Владельцу возвращаются все собранные результаты.
func (h *PublishedSurveysHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	ps, err := h.published.Get(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPublishedSurveyResponse(ps))
}

// Update обрабатывает PATCH /publishedSurveys/{id}.
func (h *PublishedSurveysHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updatePublishedSurveyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	ps, err := h.published.Update(r.Context(), userID, id, service.PublishedSurveyUpdate{
		Name:    req.Name,
		Status:  req.Status,
		OpenAt:  req.OpenAt,
		CloseAt: req.CloseAt,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPublishedSurveyResponse(ps))
}

// Delete обрабатывает DELETE /publishedSurveys/{id}.
func (h *PublishedSurveysHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if err := h.published.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
