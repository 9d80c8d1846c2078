// uploads.go — обработчики поблочной загрузки SVG-файлов.
//
// Протокол:
//
//	POST /visualizations/{id}/upload/init     → {"uploadId": "..."}
//	POST /visualizations/{id}/upload/chunk    → {"received": n, "total": m}
//	POST /visualizations/{id}/upload/finalize → 204
//
// finalize при недополученных блоках отвечает
// 400 {"error": "...", "received": n, "expected": m}.
package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/api/errors"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/service"
)

// UploadsHandler — обработчик endpoints поблочной загрузки.
type UploadsHandler struct {
	uploads *service.UploadService
	logger  *slog.Logger
}

// NewUploadsHandler создаёт обработчик поблочной загрузки.
func NewUploadsHandler(uploads *service.UploadService, logger *slog.Logger) *UploadsHandler {
	return &UploadsHandler{
		uploads: uploads,
		logger:  logger.With(slog.String("component", "uploads_handler")),
	}
}

// initUploadRequest — тело запроса инициализации загрузки.
type initUploadRequest struct {
	TotalChunks int   `json:"totalChunks"`
	FileSize    int64 `json:"fileSize"`
}

// initUploadResponse — ответ инициализации загрузки.
type initUploadResponse struct {
	UploadID string `json:"uploadId"`
}

// chunkRequest — тело запроса отправки блока.
type chunkRequest struct {
	UploadID   string `json:"uploadId"`
	ChunkIndex int    `json:"chunkIndex"`
	Data       string `json:"data"`
}

// chunkResponse — ответ отправки блока.
type chunkResponse struct {
	Received int `json:"received"`
	Total    int `json:"total"`
}

// finalizeRequest — тело запроса завершения загрузки.
type finalizeRequest struct {
	UploadID string `json:"uploadId"`
}

// Init обрабатывает POST /visualizations/{id}/upload/init.
func (h *UploadsHandler) Init(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req initUploadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	uploadID, err := h.uploads.Init(r.Context(), id, req.TotalChunks, req.FileSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, initUploadResponse{UploadID: uploadID})
}

// Chunk обрабатывает POST /visualizations/{id}/upload/chunk.
func (h *UploadsHandler) Chunk(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req chunkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.UploadID) == "" {
		apierrors.ValidationError(w, "не задан идентификатор сессии загрузки")
		return
	}

	state, err := h.uploads.Chunk(r.Context(), id, req.UploadID, req.ChunkIndex, req.Data)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chunkResponse{Received: state.Received, Total: state.Total})
}

// Finalize обрабатывает POST /visualizations/{id}/upload/finalize.
func (h *UploadsHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req finalizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.UploadID) == "" {
		apierrors.ValidationError(w, "не задан идентификатор сессии загрузки")
		return
	}

	if err := h.uploads.Finalize(r.Context(), id, req.UploadID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
