// take_survey.go — сервис прохождения опроса по публичной ссылке.
// Единственная часть API, доступная без аутентификации.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/domain/model"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/repository"
)

// TakeSurveyService — сервис прохождения опросов.
type TakeSurveyService struct {
	publishedRepo repository.PublishedSurveyRepository
	logger        *slog.Logger
}

// NewTakeSurveyService создаёт сервис прохождения опросов.
func NewTakeSurveyService(publishedRepo repository.PublishedSurveyRepository, logger *slog.Logger) *TakeSurveyService {
	return &TakeSurveyService{
		publishedRepo: publishedRepo,
		logger:        logger.With(slog.String("component", "take_survey_service")),
	}
}

// Get возвращает опубликованный опрос по хешу ссылки.
// Результаты других участников участнику не отдаются.
func (s *TakeSurveyService) Get(ctx context.Context, linkHash string) (*model.PublishedSurvey, error) {
	ps, err := s.publishedRepo.GetByLinkHash(ctx, linkHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение опроса по ссылке: %w", err)
	}
	return ps, nil
}

// Submit дописывает ответы участника к результатам опроса.
// Ответы принимаются только пока опрос в статусе in-progress.
func (s *TakeSurveyService) Submit(ctx context.Context, linkHash string, answers []model.ParticipantAnswer) error {
	ps, err := s.Get(ctx, linkHash)
	if err != nil {
		return err
	}

	if ps.Status != model.PublishedStatusInProgress {
		return ErrSurveyClosed
	}

	result := model.ParticipantResult{
		SubmittedAt: time.Now().UTC(),
		Answers:     answers,
	}
	if result.Answers == nil {
		result.Answers = []model.ParticipantAnswer{}
	}

	if err := s.publishedRepo.AppendResult(ctx, ps.ID, result); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("сохранение ответов участника: %w", err)
	}

	s.logger.Info("Ответы участника сохранены",
		slog.Int("published_survey_id", ps.ID),
		slog.Int("answers", len(result.Answers)),
	)

	return nil
}
