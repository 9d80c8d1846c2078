// Пакет errors — конструкторы стандартных ошибок API сервиса визуализаций.
// Единый формат: {"error": "описание"}.
package errors

import (
	"encoding/json"
	"net/http"
)

// errorBody — структура тела ответа ошибки.
type errorBody struct {
	Error string `json:"error"`
}

// incompleteBody — тело ответа незавершённой загрузки:
// помимо описания содержит счётчики полученных и ожидаемых блоков.
type incompleteBody struct {
	Error    string `json:"error"`
	Received int    `json:"received"`
	Expected int    `json:"expected"`
}

// WriteError записывает ответ ошибки в стандартном формате.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{Error: message})
}

// ValidationError — 400 некорректные входные данные.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// IncompleteUpload — 400 загрузка завершается при недополученных блоках.
func IncompleteUpload(w http.ResponseWriter, message string, received, expected int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(incompleteBody{
		Error:    message,
		Received: received,
		Expected: expected,
	})
}

// NotFound — 404 ресурс не найден.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// InternalError — 500 внутренняя ошибка.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}
