// handler.go — общие вспомогательные функции HTTP-обработчиков.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/api/errors"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/service"
)

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON декодирует тело запроса в dst.
// При ошибке пишет 400 и возвращает false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && err != io.EOF {
		apierrors.ValidationError(w, "некорректное тело запроса")
		return false
	}
	return true
}

// pathID извлекает числовой параметр пути.
// При ошибке пишет 400 и возвращает false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		apierrors.ValidationError(w, "некорректный идентификатор")
		return 0, false
	}
	return id, true
}

// writeServiceError маппит ошибки сервисного слоя в HTTP-ответы.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		apierrors.Unauthorized(w, err.Error())
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrSurveyClosed):
		apierrors.Forbidden(w, err.Error())
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, err.Error())
	case errors.Is(err, service.ErrConflict):
		apierrors.Conflict(w, err.Error())
	case errors.Is(err, service.ErrVisualUnavailable):
		apierrors.VisualUnavailable(w, err.Error())
	default:
		apierrors.InternalError(w, "внутренняя ошибка сервера")
	}
}
