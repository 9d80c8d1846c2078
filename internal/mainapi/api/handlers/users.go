// users.go — обработчики регистрации, входа и коллекций пользователя.
package handlers

import (
	"log/slog"
	"net/http"

	apierrors "github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/api/errors"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/api/middleware"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/service"
)

// UsersHandler — обработчик endpoints пользователей.
type UsersHandler struct {
	users     *service.UserService
	designs   *service.SurveyDesignService
	visuals   *service.VisualizationService
	published *service.PublishedSurveyService
	logger    *slog.Logger
}

// NewUsersHandler создаёт обработчик endpoints пользователей.
func NewUsersHandler(
	users *service.UserService,
	designs *service.SurveyDesignService,
	visuals *service.VisualizationService,
	published *service.PublishedSurveyService,
	logger *slog.Logger,
) *UsersHandler {
	return &UsersHandler{
		users:     users,
		designs:   designs,
		visuals:   visuals,
		published: published,
		logger:    logger.With(slog.String("component", "users_handler")),
	}
}

// registerRequest — тело запроса регистрации.
type registerRequest struct {
	Name            string `json:"name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// loginRequest — тело запроса входа.
type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Register обрабатывает POST /users.
// Создаёт пользователя и сразу возвращает токен.
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Name == "" || req.Password == "" || req.ConfirmPassword == "" {
		apierrors.ValidationError(w, "все поля обязательны")
		return
	}
	if req.Password != req.ConfirmPassword {
		apierrors.ValidationError(w, "пароли не совпадают")
		return
	}

	user, token, err := h.users.Register(r.Context(), req.Name, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    user.ID,
		"token": token,
	})
}

// Login обрабатывает POST /users/login.
func (h *UsersHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	_, token, err := h.users.Login(r.Context(), req.Name, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}

// Logout обрабатывает POST /users/logout.
// Токены самодостаточны, сервер состояние сессии не хранит —
// клиент просто забывает токен.
func (h *UsersHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"token": nil})
}

// Me обрабатывает GET /users.
// Возвращает данные текущего пользователя.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":   user.ID,
		"name": user.Name,
	})
}

// --- Коллекции пользователя ---

// requireOwnPath проверяет, что идентификатор в пути совпадает
// с аутентифицированным пользователем.
func (h *UsersHandler) requireOwnPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	pathUserID, ok := pathID(w, r, "id")
	if !ok {
		return 0, false
	}
	if pathUserID != middleware.UserIDFromContext(r.Context()) {
		apierrors.Forbidden(w, "доступ к чужим ресурсам запрещён")
		return 0, false
	}
	return pathUserID, true
}

// SurveyDesigns обрабатывает GET /users/{id}/surveyDesigns.
func (h *UsersHandler) SurveyDesigns(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireOwnPath(w, r)
	if !ok {
		return
	}

	designs, err := h.designs.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	items := make([]surveyDesignResponse, 0, len(designs))
	for _, sd := range designs {
		items = append(items, toSurveyDesignResponse(sd))
	}
	writeJSON(w, http.StatusOK, map[string]any{"surveyDesigns": items})
}

// Visualizations обрабатывает GET /users/{id}/visualizations.
func (h *UsersHandler) Visualizations(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireOwnPath(w, r)
	if !ok {
		return
	}

	visuals, err := h.visuals.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	items := make([]visualizationResponse, 0, len(visuals))
	for _, v := range visuals {
		items = append(items, toVisualizationResponse(v, nil))
	}
	writeJSON(w, http.StatusOK, map[string]any{"visualizations": items})
}

// PublishedSurveys обрабатывает GET /users/{id}/publishedSurveys.
// Каждый опрос дополняется количеством полученных ответов.
func (h *UsersHandler) PublishedSurveys(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireOwnPath(w, r)
	if !ok {
		return
	}

	surveys, err := h.published.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	items := make([]publishedSurveyResponse, 0, len(surveys))
	for _, ps := range surveys {
		items = append(items, toPublishedSurveyResponse(ps))
	}
	writeJSON(w, http.StatusOK, map[string]any{"publishedSurveys": items})
}
