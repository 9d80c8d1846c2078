// survey_designs.go — сервис шаблонов опросов.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/domain/model"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/repository"
)

// SurveyDesignService — сервис шаблонов опросов.
type SurveyDesignService struct {
	designRepo repository.SurveyDesignRepository
	logger     *slog.Logger
}

// NewSurveyDesignService создаёт сервис шаблонов опросов.
func NewSurveyDesignService(designRepo repository.SurveyDesignRepository, logger *slog.Logger) *SurveyDesignService {
	return &SurveyDesignService{
		designRepo: designRepo,
		logger:     logger.With(slog.String("component", "survey_design_service")),
	}
}

// Create создаёт шаблон опроса для пользователя.
func (s *SurveyDesignService) Create(ctx context.Context, userID int, name string) (*model.SurveyDesign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: название шаблона не задано", ErrValidation)
	}

	sd := &model.SurveyDesign{UserID: userID, Name: name}
	if err := s.designRepo.Create(ctx, sd); err != nil {
		return nil, fmt.Errorf("создание шаблона: %w", err)
	}

	s.logger.Info("Шаблон опроса создан",
		slog.Int("survey_design_id", sd.ID),
		slog.Int("user_id", userID),
	)

	return sd, nil
}

// Get возвращает шаблон, проверяя владельца.
func (s *SurveyDesignService) Get(ctx context.Context, userID, id int) (*model.SurveyDesign, error) {
	sd, err := s.designRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение шаблона: %w", err)
	}
	if sd.UserID != userID {
		return nil, ErrForbidden
	}
	return sd, nil
}

// List возвращает шаблоны пользователя.
func (s *SurveyDesignService) List(ctx context.Context, userID int) ([]*model.SurveyDesign, error) {
	designs, err := s.designRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("получение списка шаблонов: %w", err)
	}
	return designs, nil
}

// Update обновляет название шаблона.
func (s *SurveyDesignService) Update(ctx context.Context, userID, id int, name string) (*model.SurveyDesign, error) {
	sd, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: название шаблона не задано", ErrValidation)
	}

	sd.Name = name
	if err := s.designRepo.Update(ctx, sd); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("обновление шаблона: %w", err)
	}

	return sd, nil
}

// Delete удаляет шаблон вместе с вопросами.
func (s *SurveyDesignService) Delete(ctx context.Context, userID, id int) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	if err := s.designRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление шаблона: %w", err)
	}

	s.logger.Info("Шаблон опроса удалён",
		slog.Int("survey_design_id", id),
		slog.Int("user_id", userID),
	)

	return nil
}
