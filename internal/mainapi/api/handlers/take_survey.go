// take_survey.go — публичные обработчики прохождения опроса по ссылке.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/api/errors"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/domain/model"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/service"
)

// TakeSurveyHandler — обработчик прохождения опубликованных опросов.
// Аутентификация не требуется: участник знает только хеш ссылки.
type TakeSurveyHandler struct {
	takeSurvey *service.TakeSurveyService
	logger     *slog.Logger
}

// NewTakeSurveyHandler создаёт обработчик прохождения опросов.
func NewTakeSurveyHandler(takeSurvey *service.TakeSurveyService, logger *slog.Logger) *TakeSurveyHandler {
	return &TakeSurveyHandler{
		takeSurvey: takeSurvey,
		logger:     logger.With(slog.String("component", "take_survey_handler")),
	}
}

// submitAnswersRequest — тело запроса с ответами участника.
type submitAnswersRequest struct {
	Answers []model.ParticipantAnswer `json:"answers"`
}

// Get обрабатывает GET /takeSurvey/{hash}.
func (h *TakeSurveyHandler) Get(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	if hash == "" {
		apierrors.NotFound(w, "опрос не найден")
		return
	}

	ps, err := h.takeSurvey.Get(r.Context(), hash)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTakeSurveyResponse(ps))
}

// Submit обрабатывает PATCH /takeSurvey/{hash}.
func (h *TakeSurveyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	if hash == "" {
		apierrors.NotFound(w, "опрос не найден")
		return
	}

	var req submitAnswersRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.takeSurvey.Submit(r.Context(), hash, req.Answers); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}
