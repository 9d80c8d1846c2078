// questions.go — обработчики вопросов шаблона опроса.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/api/middleware"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/domain/model"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/service"
)

// QuestionsHandler — обработчик endpoints вопросов.
type QuestionsHandler struct {
	questions *service.QuestionService
	logger    *slog.Logger
}

// NewQuestionsHandler создаёт обработчик вопросов.
func NewQuestionsHandler(questions *service.QuestionService, logger *slog.Logger) *QuestionsHandler {
	return &QuestionsHandler{
		questions: questions,
		logger:    logger.With(slog.String("component", "questions_handler")),
	}
}

// createQuestionRequest — тело запроса создания вопроса.
type createQuestionRequest struct {
	Text                   string   `json:"text"`
	AnswerType             string   `json:"answerType"`
	Choices                []string `json:"choices"`
	VisualizationContentID *int     `json:"visualizationContentId"`
}

// updateQuestionRequest — тело запроса обновления вопроса.
// visualizationId > 0 — привязать содержимое визуализации пользователя,
// visualizationId < 0 — отвязать.
type updateQuestionRequest struct {
	Text            string   `json:"text"`
	AnswerType      string   `json:"answerType"`
	Choices         []string `json:"choices"`
	VisualizationID *int     `json:"visualizationId"`
}

// Create обрабатывает POST /surveyDesigns/{id}/questions.
// Вопрос добавляется в конец шаблона с номером max(number)+1.
func (h *QuestionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	designID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req createQuestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	q, err := h.questions.Append(r.Context(), userID, designID, service.QuestionInput{
		Text:                   req.Text,
		AnswerType:             req.AnswerType,
		Choices:                req.Choices,
		VisualizationContentID: req.VisualizationContentID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toQuestionResponse(q))
}

// List обрабатывает GET /surveyDesigns/{id}/questions.
// Вопросы возвращаются в каноничном порядке (number ASC, id ASC).
func (h *QuestionsHandler) List(w http.ResponseWriter, r *http.Request) {
	designID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	questions, err := h.questions.List(r.Context(), userID, designID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	items := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		items = append(items, toQuestionResponse(q))
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": items})
}

// Get обрабатывает GET /questions/{id}.
func (h *QuestionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	q, err := h.questions.Get(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuestionResponse(q))
}

// Update обрабатывает PATCH /questions/{id}.
func (h *QuestionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateQuestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	q, err := h.questions.Update(r.Context(), userID, id, service.QuestionInput{
		Text:            req.Text,
		AnswerType:      req.AnswerType,
		Choices:         req.Choices,
		VisualizationID: req.VisualizationID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuestionResponse(q))
}

// Delete обрабатывает DELETE /questions/{id}.
// Оставшиеся вопросы перенумеровываются в 1..N.
func (h *QuestionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if err := h.questions.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"id": id})
}

// MoveUp обрабатывает POST /questions/{id}/moveUp.
// Если вопрос уже первый — возвращает его без изменений.
func (h *QuestionsHandler) MoveUp(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.questions.MoveUp)
}

// MoveDown обрабатывает POST /questions/{id}/moveDown.
// Если вопрос уже последний — возвращает его без изменений.
func (h *QuestionsHandler) MoveDown(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.questions.MoveDown)
}

// move — общий код MoveUp/MoveDown.
func (h *QuestionsHandler) move(
	w http.ResponseWriter,
	r *http.Request,
	moveFn func(ctx context.Context, userID, questionID int) (*model.Question, error),
) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	q, err := moveFn(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuestionResponse(q))
}
