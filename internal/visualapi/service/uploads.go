// uploads.go — сервис поблочной загрузки SVG-файлов.
//
// Протокол: init выдаёт идентификатор сессии, chunk принимает блоки
// в произвольном порядке, finalize склеивает блоки по индексам и
// записывает результат в визуализацию. Сессии живут в SessionStore
// и исчезают по TTL, если загрузка брошена.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/repository"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/upload"
)

// Метрики загрузки. Счётчики вместо gauge активных сессий: хранилища
// вытесняют сессии по TTL без уведомления сервиса, и gauge расходился
// бы с реальностью.
var (
	// uploadSessionsStarted — количество созданных сессий загрузки.
	uploadSessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vz_upload_sessions_started_total",
		Help: "Количество созданных сессий поблочной загрузки",
	})

	// uploadChunksReceived — количество принятых блоков.
	uploadChunksReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vz_upload_chunks_received_total",
		Help: "Количество принятых блоков загрузки",
	})

	// uploadsFinalized — количество успешно завершённых загрузок.
	uploadsFinalized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vz_uploads_finalized_total",
		Help: "Количество успешно завершённых загрузок",
	})
)

// ChunkState — состояние сессии после приёма очередного блока.
type ChunkState struct {
	// Received — количество полученных блоков.
	Received int
	// Total — ожидаемое количество блоков.
	Total int
}

// UploadService — сервис поблочной загрузки.
type UploadService struct {
	store      upload.SessionStore
	visualRepo repository.VisualizationRepository
	maxChunks  int
	logger     *slog.Logger

	// mu сериализует чтение-изменение-запись сессий: хранилище само
	// по себе не атомарно при параллельной отправке блоков.
	mu sync.Mutex
}

// NewUploadService создаёт сервис поблочной загрузки.
func NewUploadService(
	store upload.SessionStore,
	visualRepo repository.VisualizationRepository,
	maxChunks int,
	logger *slog.Logger,
) *UploadService {
	return &UploadService{
		store:      store,
		visualRepo: visualRepo,
		maxChunks:  maxChunks,
		logger:     logger.With(slog.String("component", "upload_service")),
	}
}

// Init создаёт сессию загрузки для визуализации resourceID.
// Возвращает идентификатор сессии.
func (s *UploadService) Init(ctx context.Context, resourceID, totalChunks int, fileSize int64) (string, error) {
	if totalChunks < 1 {
		return "", fmt.Errorf("%w: количество блоков должно быть не меньше 1", ErrValidation)
	}
	if totalChunks > s.maxChunks {
		return "", fmt.Errorf("%w: количество блоков превышает лимит %d", ErrValidation, s.maxChunks)
	}
	if fileSize < 0 {
		return "", fmt.Errorf("%w: отрицательный размер файла", ErrValidation)
	}

	// Визуализация должна существовать до начала загрузки.
	if _, err := s.visualRepo.GetByID(ctx, resourceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("проверка визуализации: %w", err)
	}

	sess := &upload.Session{
		ID:          uuid.NewString(),
		ResourceID:  resourceID,
		TotalChunks: totalChunks,
		FileSize:    fileSize,
		Chunks:      make([]string, totalChunks),
		Filled:      make([]bool, totalChunks),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.Put(ctx, sess); err != nil {
		return "", fmt.Errorf("создание сессии загрузки: %w", err)
	}

	uploadSessionsStarted.Inc()
	s.logger.Info("Сессия загрузки создана",
		slog.String("upload_id", sess.ID),
		slog.Int("resource_id", resourceID),
		slog.Int("total_chunks", totalChunks),
		slog.Int64("file_size", fileSize),
	)

	return sess.ID, nil
}

// Chunk принимает блок chunkIndex для сессии uploadID.
// Повторная отправка блока перезаписывает данные, не меняя счётчик.
func (s *UploadService) Chunk(ctx context.Context, resourceID int, uploadID string, chunkIndex int, data string) (*ChunkState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, resourceID, uploadID)
	if err != nil {
		return nil, err
	}

	if chunkIndex < 0 || chunkIndex >= sess.TotalChunks {
		return nil, fmt.Errorf("%w: индекс блока %d вне диапазона [0, %d)",
			ErrValidation, chunkIndex, sess.TotalChunks)
	}

	sess.Chunks[chunkIndex] = data
	sess.Filled[chunkIndex] = true

	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("сохранение сессии загрузки: %w", err)
	}

	uploadChunksReceived.Inc()

	return &ChunkState{Received: sess.Received(), Total: sess.TotalChunks}, nil
}

// Finalize склеивает блоки и записывает результат в визуализацию.
// Если получены не все блоки — возвращает IncompleteUploadError,
// сессия при этом сохраняется. Если визуализация исчезла за время
// загрузки — сессия удаляется и возвращается ErrNotFound.
func (s *UploadService) Finalize(ctx context.Context, resourceID int, uploadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(ctx, resourceID, uploadID)
	if err != nil {
		return err
	}

	if !sess.Complete() {
		return &IncompleteUploadError{Received: sess.Received(), Expected: sess.TotalChunks}
	}

	svg := strings.Join(sess.Chunks, "")

	if err := s.visualRepo.UpdateSVG(ctx, sess.ResourceID, svg); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Визуализация удалена — сессия больше не нужна.
			s.deleteSession(ctx, uploadID)
			return ErrNotFound
		}
		return fmt.Errorf("запись собранного SVG: %w", err)
	}

	s.deleteSession(ctx, uploadID)

	uploadsFinalized.Inc()
	s.logger.Info("Загрузка завершена",
		slog.String("upload_id", uploadID),
		slog.Int("resource_id", sess.ResourceID),
		slog.Int("chunks", sess.TotalChunks),
		slog.Int("svg_bytes", len(svg)),
	)

	return nil
}

// session возвращает сессию, проверяя её принадлежность визуализации.
func (s *UploadService) session(ctx context.Context, resourceID int, uploadID string) (*upload.Session, error) {
	sess, err := s.store.Get(ctx, uploadID)
	if err != nil {
		if errors.Is(err, upload.ErrSessionNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение сессии загрузки: %w", err)
	}
	if sess.ResourceID != resourceID {
		return nil, ErrNotFound
	}
	return sess, nil
}

// deleteSession удаляет сессию, логируя ошибку вместо возврата:
// неудалённая сессия исчезнет по TTL.
func (s *UploadService) deleteSession(ctx context.Context, uploadID string) {
	if err := s.store.Delete(ctx, uploadID); err != nil {
		s.logger.Warn("Не удалось удалить сессию загрузки",
			slog.String("upload_id", uploadID),
			slog.String("error", err.Error()),
		)
	}
}
