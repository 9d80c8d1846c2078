// visualizations.go — сервис визуализаций пользователя.
// Метаданные хранятся локально, SVG-содержимое — в сервисе визуализаций.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/domain/model"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/repository"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/visualclient"
)

// VisualizationService — сервис визуализаций.
type VisualizationService struct {
	visualRepo   repository.VisualizationRepository
	visualClient *visualclient.Client
	logger       *slog.Logger
}

// NewVisualizationService создаёт сервис визуализаций.
func NewVisualizationService(
	visualRepo repository.VisualizationRepository,
	visualClient *visualclient.Client,
	logger *slog.Logger,
) *VisualizationService {
	return &VisualizationService{
		visualRepo:   visualRepo,
		visualClient: visualClient,
		logger:       logger.With(slog.String("component", "visualization_service")),
	}
}

// Create сохраняет SVG в сервисе визуализаций и создаёт запись метаданных.
func (s *VisualizationService) Create(ctx context.Context, userID int, name, svg string, detailsOnHover bool) (*model.Visualization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: название визуализации не задано", ErrValidation)
	}
	if svg == "" {
		return nil, fmt.Errorf("%w: SVG-содержимое не задано", ErrValidation)
	}

	content, err := s.visualClient.Create(ctx, svg, detailsOnHover)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVisualUnavailable, err) //nolint:errorlint // намеренный двойной wrap
	}

	v := &model.Visualization{
		UserID:    userID,
		Name:      name,
		ContentID: &content.ID,
	}
	if err := s.visualRepo.Create(ctx, v); err != nil {
		// Метаданные не сохранились — зачищаем содержимое
		if delErr := s.visualClient.Delete(ctx, content.ID); delErr != nil {
			s.logger.Warn("Не удалось зачистить SVG после ошибки сохранения метаданных",
				slog.Int("content_id", content.ID),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, fmt.Errorf("создание визуализации: %w", err)
	}

	s.logger.Info("Визуализация создана",
		slog.Int("visualization_id", v.ID),
		slog.Int("user_id", userID),
		slog.Int("content_id", content.ID),
	)

	return v, nil
}

// Get возвращает метаданные и SVG-содержимое визуализации.
// Если содержимое в сервисе визуализаций отсутствует — content будет nil.
func (s *VisualizationService) Get(ctx context.Context, userID, id int) (*model.Visualization, *visualclient.Content, error) {
	v, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	if v.ContentID == nil {
		return v, nil, nil
	}

	content, err := s.visualClient.Get(ctx, *v.ContentID)
	if err != nil {
		if errors.Is(err, visualclient.ErrNotFound) {
			s.logger.Warn("SVG-содержимое визуализации отсутствует",
				slog.Int("visualization_id", id),
				slog.Int("content_id", *v.ContentID),
			)
			return v, nil, nil
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrVisualUnavailable, err) //nolint:errorlint // намеренный двойной wrap
	}

	return v, content, nil
}

// List возвращает визуализации пользователя (только метаданные).
func (s *VisualizationService) List(ctx context.Context, userID int) ([]*model.Visualization, error) {
	visualizations, err := s.visualRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("получение списка визуализаций: %w", err)
	}
	return visualizations, nil
}

// Update обновляет название и, если передан svg, заменяет содержимое.
func (s *VisualizationService) Update(ctx context.Context, userID, id int, name *string, svg *string, detailsOnHover *bool) (*model.Visualization, error) {
	v, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: название визуализации не задано", ErrValidation)
		}
		v.Name = trimmed
	}

	if svg != nil {
		hover := true
		if detailsOnHover != nil {
			hover = *detailsOnHover
		}

		if v.ContentID != nil {
			if err := s.visualClient.Update(ctx, *v.ContentID, *svg, hover); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrVisualUnavailable, err) //nolint:errorlint // намеренный двойной wrap
			}
		} else {
			content, err := s.visualClient.Create(ctx, *svg, hover)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrVisualUnavailable, err) //nolint:errorlint // намеренный двойной wrap
			}
			v.ContentID = &content.ID
		}
	}

	if err := s.visualRepo.Update(ctx, v); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("обновление визуализации: %w", err)
	}

	return v, nil
}

// Delete удаляет метаданные, затем зачищает SVG-содержимое.
// Локальная запись удаляется первой: ошибка зачистки не откатывает операцию.
func (s *VisualizationService) Delete(ctx context.Context, userID, id int) error {
	v, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.visualRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление визуализации: %w", err)
	}

	if v.ContentID != nil {
		if err := s.visualClient.Delete(ctx, *v.ContentID); err != nil &&
			!errors.Is(err, visualclient.ErrNotFound) {
			s.logger.Warn("Не удалось удалить SVG-содержимое визуализации",
				slog.Int("visualization_id", id),
				slog.Int("content_id", *v.ContentID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.Info("Визуализация удалена",
		slog.Int("visualization_id", id),
		slog.Int("user_id", userID),
	)

	return nil
}

// owned возвращает визуализацию, проверяя владельца.
func (s *VisualizationService) owned(ctx context.Context, userID, id int) (*model.Visualization, error) {
	v, err := s.visualRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение визуализации: %w", err)
	}
	if v.UserID != userID {
		return nil, ErrForbidden
	}
	return v, nil
}
