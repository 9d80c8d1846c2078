// survey_designs.go — обработчики шаблонов опросов.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/api/middleware"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/service"
)

// SurveyDesignsHandler — обработчик endpoints шаблонов опросов.
type SurveyDesignsHandler struct {
	designs   *service.SurveyDesignService
	questions *service.QuestionService
	published *service.PublishedSurveyService
	logger    *slog.Logger
}

// NewSurveyDesignsHandler создаёт обработчик шаблонов опросов.
func NewSurveyDesignsHandler(
	designs *service.SurveyDesignService,
	questions *service.QuestionService,
	published *service.PublishedSurveyService,
	logger *slog.Logger,
) *SurveyDesignsHandler {
	return &SurveyDesignsHandler{
		designs:   designs,
		questions: questions,
		published: published,
		logger:    logger.With(slog.String("component", "survey_designs_handler")),
	}
}

// surveyDesignRequest — тело запроса создания/обновления шаблона.
type surveyDesignRequest struct {
	Name string `json:"name"`
}

// Create обрабатывает POST /surveyDesigns.
func (h *SurveyDesignsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req surveyDesignRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	sd, err := h.designs.Create(r.Context(), userID, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSurveyDesignResponse(sd))
}

// Get обрабатывает GET /surveyDesigns/{id}.
// Вместе с шаблоном возвращаются его вопросы в каноничном порядке.
func (h *SurveyDesignsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	sd, err := h.designs.Get(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	questions, err := h.questions.List(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	items := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		items = append(items, toQuestionResponse(q))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":        sd.ID,
		"userId":    sd.UserID,
		"name":      sd.Name,
		"createdAt": sd.CreatedAt,
		"updatedAt": sd.UpdatedAt,
		"questions": items,
	})
}

// Update обрабатывает PATCH /surveyDesigns/{id}.
func (h *SurveyDesignsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req surveyDesignRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	sd, err := h.designs.Update(r.Context(), userID, id, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSurveyDesignResponse(sd))
}

// Delete обрабатывает DELETE /surveyDesigns/{id}.
func (h *SurveyDesignsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if err := h.designs.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// publishRequest — необязательное тело запроса публикации:
// собственное имя опроса и окно прохождения.
type publishRequest struct {
	Name    *string    `json:"name"`
	OpenAt  *time.Time `json:"openAt"`
	CloseAt *time.Time `json:"closeAt"`
}

// Publish обрабатывает POST /surveyDesigns/{id}/publishedSurveys.
// Фиксирует снимок шаблона и возвращает хеш публичной ссылки.
func (h *SurveyDesignsHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req publishRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	ps, err := h.published.Publish(r.Context(), userID, id, service.PublishInput{
		Name:    req.Name,
		OpenAt:  req.OpenAt,
		CloseAt: req.CloseAt,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPublishedSurveyResponse(ps))
}
