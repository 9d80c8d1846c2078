// visualizations.go — сервис хранения SVG-содержимого визуализаций.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/domain/model"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/repository"
)

// VisualizationService — сервис SVG-содержимого.
type VisualizationService struct {
	visualRepo repository.VisualizationRepository
	logger     *slog.Logger
}

// NewVisualizationService создаёт сервис SVG-содержимого.
func NewVisualizationService(visualRepo repository.VisualizationRepository, logger *slog.Logger) *VisualizationService {
	return &VisualizationService{
		visualRepo: visualRepo,
		logger:     logger.With(slog.String("component", "visualization_service")),
	}
}

// Create сохраняет SVG-содержимое и возвращает запись с идентификатором.
func (s *VisualizationService) Create(ctx context.Context, svg string, detailsOnHover bool) (*model.Visualization, error) {
	v := &model.Visualization{
		SVG:            svg,
		DetailsOnHover: detailsOnHover,
	}
	if err := s.visualRepo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("создание визуализации: %w", err)
	}

	s.logger.Info("Визуализация создана", slog.Int("id", v.ID))
	return v, nil
}

// Get возвращает SVG-содержимое по идентификатору.
func (s *VisualizationService) Get(ctx context.Context, id int) (*model.Visualization, error) {
	v, err := s.visualRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение визуализации: %w", err)
	}
	return v, nil
}

// Update заменяет SVG и флаг подробностей. Возвращает обновлённую запись.
func (s *VisualizationService) Update(ctx context.Context, id int, svg string, detailsOnHover bool) (*model.Visualization, error) {
	v := &model.Visualization{
		ID:             id,
		SVG:            svg,
		DetailsOnHover: detailsOnHover,
	}
	if err := s.visualRepo.Update(ctx, v); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("обновление визуализации: %w", err)
	}
	return v, nil
}

// Delete удаляет SVG-содержимое.
func (s *VisualizationService) Delete(ctx context.Context, id int) error {
	if err := s.visualRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление визуализации: %w", err)
	}

	s.logger.Info("Визуализация удалена", slog.Int("id", id))
	return nil
}
