// published_surveys.go — сервис публикации опросов.
// Публикация фиксирует снимок шаблона и вопросов; дальнейшие правки
// шаблона на опубликованный опрос не влияют.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/domain/model"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/repository"
)

// PublishedSurveyService — сервис опубликованных опросов.
type PublishedSurveyService struct {
	publishedRepo repository.PublishedSurveyRepository
	designRepo    repository.SurveyDesignRepository
	questionRepo  repository.QuestionRepository
	txRunner      *repository.TxRunner
	logger        *slog.Logger
}

// NewPublishedSurveyService создаёт сервис опубликованных опросов.
func NewPublishedSurveyService(
	publishedRepo repository.PublishedSurveyRepository,
	designRepo repository.SurveyDesignRepository,
	questionRepo repository.QuestionRepository,
	txRunner *repository.TxRunner,
	logger *slog.Logger,
) *PublishedSurveyService {
	return &PublishedSurveyService{
		publishedRepo: publishedRepo,
		designRepo:    designRepo,
		questionRepo:  questionRepo,
		txRunner:      txRunner,
		logger:        logger.With(slog.String("component", "published_survey_service")),
	}
}

// PublishInput — необязательные параметры публикации.
// Имя по умолчанию наследуется от шаблона; окно прохождения
// (OpenAt/CloseAt) можно задать сразу или позже через Update.
type PublishInput struct {
	Name    *string
	OpenAt  *time.Time
	CloseAt *time.Time
}

// Publish публикует шаблон: перенумеровывает вопросы 1..N,
// строит снимок с фильтрацией пустых вопросов и сохраняет его
// под уникальным хешем ссылки. Всё — в одной транзакции.
func (s *PublishedSurveyService) Publish(ctx context.Context, userID, designID int, in PublishInput) (*model.PublishedSurvey, error) {
	sd, err := s.designRepo.GetByID(ctx, designID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение шаблона: %w", err)
	}
	if sd.UserID != userID {
		return nil, ErrForbidden
	}

	name := sd.Name
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		name = strings.TrimSpace(*in.Name)
	}

	ps := &model.PublishedSurvey{
		UserID:   userID,
		Name:     name,
		LinkHash: uuid.NewString(),
		Status:   model.PublishedStatusInProgress,
		OpenAt:   in.OpenAt,
		CloseAt:  in.CloseAt,
		SurveyDesign: model.SurveyDesignSnapshot{
			ID:   sd.ID,
			Name: sd.Name,
		},
	}

	err = s.txRunner.RunInTx(ctx, func(tx pgx.Tx) error {
		txQuestions := repository.NewQuestionRepository(tx)
		txPublished := repository.NewPublishedSurveyRepository(tx)

		if err := renumberQuestions(ctx, txQuestions, designID); err != nil {
			return err
		}

		questions, err := txQuestions.ListByDesign(ctx, designID)
		if err != nil {
			return err
		}

		ps.Questions = buildSnapshot(questions)
		if len(ps.Questions) == 0 {
			return fmt.Errorf("%w: в шаблоне нет вопросов с текстом", ErrValidation)
		}
		ps.Results = []model.ParticipantResult{}

		return txPublished.Create(ctx, ps)
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("публикация опроса: %w", err)
	}

	s.logger.Info("Опрос опубликован",
		slog.Int("published_survey_id", ps.ID),
		slog.Int("survey_design_id", designID),
		slog.String("link_hash", ps.LinkHash),
		slog.Int("questions", len(ps.Questions)),
	)

	return ps, nil
}

// List возвращает опубликованные опросы пользователя.
func (s *PublishedSurveyService) List(ctx context.Context, userID int) ([]*model.PublishedSurvey, error) {
	surveys, err := s.publishedRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("получение списка опубликованных опросов: %w", err)
	}
	return surveys, nil
}

// Get возвращает опубликованный опрос, проверяя владельца.
func (s *PublishedSurveyService) Get(ctx context.Context, userID, id int) (*model.PublishedSurvey, error) {
	ps, err := s.publishedRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение опубликованного опроса: %w", err)
	}
	if ps.UserID != userID {
		return nil, ErrForbidden
	}
	return ps, nil
}

// PublishedSurveyUpdate — изменяемые поля опубликованного опроса.
// Снимок вопросов и результаты после публикации неизменны.
type PublishedSurveyUpdate struct {
	Name    *string
	Status  *string
	OpenAt  *time.Time
	CloseAt *time.Time
}

// Update меняет название, статус и плановые даты опроса.
func (s *PublishedSurveyService) Update(ctx context.Context, userID, id int, in PublishedSurveyUpdate) (*model.PublishedSurvey, error) {
	ps, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		if *in.Status != model.PublishedStatusInProgress && *in.Status != model.PublishedStatusClosed {
			return nil, fmt.Errorf("%w: недопустимый статус '%s'", ErrValidation, *in.Status)
		}
		ps.Status = *in.Status
	}
	if in.Name != nil {
		ps.Name = *in.Name
	}
	if in.OpenAt != nil {
		ps.OpenAt = in.OpenAt
	}
	if in.CloseAt != nil {
		ps.CloseAt = in.CloseAt
	}

	if err := s.publishedRepo.Update(ctx, ps); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("обновление опубликованного опроса: %w", err)
	}

	s.logger.Info("Опубликованный опрос обновлён",
		slog.Int("published_survey_id", id),
		slog.String("status", ps.Status),
	)

	return ps, nil
}

// Delete удаляет опубликованный опрос вместе с результатами.
func (s *PublishedSurveyService) Delete(ctx context.Context, userID, id int) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	if err := s.publishedRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление опубликованного опроса: %w", err)
	}

	s.logger.Info("Опубликованный опрос удалён",
		slog.Int("published_survey_id", id),
		slog.Int("user_id", userID),
	)

	return nil
}
