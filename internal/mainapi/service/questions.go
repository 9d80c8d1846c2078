// questions.go — сервис вопросов шаблона опроса.
// Отвечает за плотную нумерацию 1..N: добавление в конец,
// перестановки и перенумерацию после удаления.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/domain/model"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/repository"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/visualclient"
)

// QuestionService — сервис вопросов.
type QuestionService struct {
	questionRepo repository.QuestionRepository
	designRepo   repository.SurveyDesignRepository
	visualRepo   repository.VisualizationRepository
	txRunner     *repository.TxRunner
	visualClient *visualclient.Client
	logger       *slog.Logger
}

// NewQuestionService создаёт сервис вопросов.
// visualClient может быть nil — тогда содержимое визуализаций
// при удалении вопросов не зачищается.
func NewQuestionService(
	questionRepo repository.QuestionRepository,
	designRepo repository.SurveyDesignRepository,
	visualRepo repository.VisualizationRepository,
	txRunner *repository.TxRunner,
	visualClient *visualclient.Client,
	logger *slog.Logger,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		designRepo:   designRepo,
		visualRepo:   visualRepo,
		txRunner:     txRunner,
		visualClient: visualClient,
		logger:       logger.With(slog.String("component", "question_service")),
	}
}

// QuestionInput — входные данные создания/обновления вопроса.
// VisualizationID используется только при обновлении:
// > 0 — скопировать SVG визуализации пользователя в содержимое вопроса,
// < 0 — отвязать копию от вопроса и зачистить её.
type QuestionInput struct {
	Text                   string
	AnswerType             string
	Choices                []string
	VisualizationContentID *int
	VisualizationID        *int
}

// ownedDesign возвращает шаблон, проверяя владельца.
func (s *QuestionService) ownedDesign(ctx context.Context, userID, designID int) (*model.SurveyDesign, error) {
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
	return sd, nil
}

// ownedQuestion возвращает вопрос, проверяя владельца через шаблон.
func (s *QuestionService) ownedQuestion(ctx context.Context, userID, questionID int) (*model.Question, error) {
	q, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение вопроса: %w", err)
	}
	if _, err := s.ownedDesign(ctx, userID, q.SurveyDesignID); err != nil {
		return nil, err
	}
	return q, nil
}

// Append добавляет вопрос в конец шаблона с номером max(number)+1.
// При гонке за номер (нарушение уникальности) повторяет попытку один раз.
func (s *QuestionService) Append(ctx context.Context, userID, designID int, in QuestionInput) (*model.Question, error) {
	if _, err := s.ownedDesign(ctx, userID, designID); err != nil {
		return nil, err
	}

	answerType := in.AnswerType
	if answerType == "" {
		answerType = "text"
	}

	q := &model.Question{
		SurveyDesignID:         designID,
		Text:                   in.Text,
		AnswerType:             answerType,
		Choices:                in.Choices,
		VisualizationContentID: in.VisualizationContentID,
	}

	for attempt := 0; attempt < 2; attempt++ {
		max, err := s.questionRepo.MaxNumber(ctx, designID)
		if err != nil {
			return nil, err
		}
		q.Number = max + 1

		err = s.questionRepo.Create(ctx, q)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrConflict) && attempt == 0 {
			// Параллельное добавление заняло номер — пересчитываем
			continue
		}
		return nil, err
	}

	if err := s.designRepo.Touch(ctx, designID); err != nil {
		s.logger.Warn("Не удалось обновить updated_at шаблона",
			slog.Int("survey_design_id", designID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("Вопрос добавлен",
		slog.Int("question_id", q.ID),
		slog.Int("survey_design_id", designID),
		slog.Int("number", q.Number),
	)

	return q, nil
}

// List возвращает вопросы шаблона в каноничном порядке (number ASC, id ASC).
func (s *QuestionService) List(ctx context.Context, userID, designID int) ([]*model.Question, error) {
	if _, err := s.ownedDesign(ctx, userID, designID); err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.ListByDesign(ctx, designID)
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// Get возвращает вопрос по идентификатору.
func (s *QuestionService) Get(ctx context.Context, userID, questionID int) (*model.Question, error) {
	return s.ownedQuestion(ctx, userID, questionID)
}

// Update обновляет содержимое вопроса. Номер не меняется.
func (s *QuestionService) Update(ctx context.Context, userID, questionID int, in QuestionInput) (*model.Question, error) {
	q, err := s.ownedQuestion(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}

	q.Text = in.Text
	if in.AnswerType != "" {
		q.AnswerType = in.AnswerType
	}
	q.Choices = in.Choices

	if in.VisualizationID != nil {
		switch {
		case *in.VisualizationID > 0:
			if err := s.importVisualization(ctx, userID, *in.VisualizationID, q); err != nil {
				return nil, err
			}
		case *in.VisualizationID < 0:
			s.detachVisualization(ctx, q)
		}
	}

	if err := s.questionRepo.Update(ctx, q); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.designRepo.Touch(ctx, q.SurveyDesignID); err != nil {
		s.logger.Warn("Не удалось обновить updated_at шаблона",
			slog.Int("survey_design_id", q.SurveyDesignID),
			slog.String("error", err.Error()),
		)
	}

	return q, nil
}

// importVisualization копирует SVG визуализации пользователя в содержимое,
// принадлежащее вопросу. Вопрос никогда не ссылается на content id самой
// визуализации: иначе удаление вопроса уничтожило бы содержимое, на которое
// продолжают ссылаться визуализация и другие вопросы.
func (s *QuestionService) importVisualization(ctx context.Context, userID, visualizationID int, q *model.Question) error {
	v, err := s.visualRepo.GetByID(ctx, visualizationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: визуализация не найдена", ErrNotFound)
		}
		return fmt.Errorf("получение визуализации: %w", err)
	}
	if v.UserID != userID {
		return ErrForbidden
	}
	if v.ContentID == nil {
		return fmt.Errorf("%w: у визуализации нет SVG-содержимого", ErrValidation)
	}
	if s.visualClient == nil {
		return ErrVisualUnavailable
	}

	src, err := s.visualClient.Get(ctx, *v.ContentID)
	if err != nil {
		if errors.Is(err, visualclient.ErrNotFound) {
			return fmt.Errorf("%w: SVG-содержимое визуализации отсутствует", ErrNotFound)
		}
		return fmt.Errorf("%w: %w", ErrVisualUnavailable, err) //nolint:errorlint // намеренный двойной wrap
	}

	if q.VisualizationContentID != nil {
		// У вопроса уже есть своя копия — заменяем её содержимое
		if err := s.visualClient.Update(ctx, *q.VisualizationContentID, src.SVG, src.DetailsOnHover); err != nil {
			return fmt.Errorf("%w: %w", ErrVisualUnavailable, err) //nolint:errorlint // намеренный двойной wrap
		}
		return nil
	}

	copied, err := s.visualClient.Create(ctx, src.SVG, src.DetailsOnHover)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrVisualUnavailable, err) //nolint:errorlint // намеренный двойной wrap
	}
	q.VisualizationContentID = &copied.ID
	return nil
}

// detachVisualization отвязывает копию содержимого от вопроса и зачищает
// её в сервисе визуализаций best-effort: копия принадлежит только вопросу.
func (s *QuestionService) detachVisualization(ctx context.Context, q *model.Question) {
	if q.VisualizationContentID != nil && s.visualClient != nil {
		if err := s.visualClient.Delete(ctx, *q.VisualizationContentID); err != nil &&
			!errors.Is(err, visualclient.ErrNotFound) {
			s.logger.Warn("Не удалось удалить SVG-копию вопроса",
				slog.Int("question_id", q.ID),
				slog.Int("content_id", *q.VisualizationContentID),
				slog.String("error", err.Error()),
			)
		}
	}
	q.VisualizationContentID = nil
}

// Delete удаляет вопрос и перенумеровывает оставшиеся в 1..N
// внутри одной транзакции. Привязанное SVG-содержимое удаляется
// из сервиса визуализаций после коммита, best-effort.
func (s *QuestionService) Delete(ctx context.Context, userID, questionID int) error {
	q, err := s.ownedQuestion(ctx, userID, questionID)
	if err != nil {
		return err
	}

	err = s.txRunner.RunInTx(ctx, func(tx pgx.Tx) error {
		txQuestions := repository.NewQuestionRepository(tx)
		txDesigns := repository.NewSurveyDesignRepository(tx)

		if err := txQuestions.Delete(ctx, questionID); err != nil {
			return err
		}
		if err := renumberQuestions(ctx, txQuestions, q.SurveyDesignID); err != nil {
			return err
		}
		return txDesigns.Touch(ctx, q.SurveyDesignID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.logger.Info("Вопрос удалён",
		slog.Int("question_id", questionID),
		slog.Int("survey_design_id", q.SurveyDesignID),
	)

	// Локальная запись уже удалена — ошибка зачистки не откатывает операцию
	if s.visualClient != nil && q.VisualizationContentID != nil {
		if err := s.visualClient.Delete(ctx, *q.VisualizationContentID); err != nil &&
			!errors.Is(err, visualclient.ErrNotFound) {
			s.logger.Warn("Не удалось удалить SVG-содержимое вопроса",
				slog.Int("question_id", questionID),
				slog.Int("content_id", *q.VisualizationContentID),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// MoveUp меняет вопрос местами с соседом выше (number-1).
// Если соседа нет (вопрос первый) — операция no-op.
func (s *QuestionService) MoveUp(ctx context.Context, userID, questionID int) (*model.Question, error) {
	return s.move(ctx, userID, questionID, -1)
}

// MoveDown меняет вопрос местами с соседом ниже (number+1).
// Если соседа нет (вопрос последний) — операция no-op.
func (s *QuestionService) MoveDown(ctx context.Context, userID, questionID int) (*model.Question, error) {
	return s.move(ctx, userID, questionID, +1)
}

// move выполняет обмен номерами с соседом через временный номер:
// прямой обмен двумя UPDATE нарушил бы UNIQUE (survey_design_id, number).
func (s *QuestionService) move(ctx context.Context, userID, questionID, direction int) (*model.Question, error) {
	q, err := s.ownedQuestion(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}

	err = s.txRunner.RunInTx(ctx, func(tx pgx.Tx) error {
		txQuestions := repository.NewQuestionRepository(tx)
		txDesigns := repository.NewSurveyDesignRepository(tx)

		current, err := txQuestions.GetByID(ctx, questionID)
		if err != nil {
			return err
		}

		sibling, err := txQuestions.GetByDesignAndNumber(ctx,
			current.SurveyDesignID, current.Number+direction)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Соседа нет — вопрос уже на краю, ничего не делаем
				return nil
			}
			return err
		}

		// Обмен через временный номер вне занятого диапазона
		if err := txQuestions.SetNumber(ctx, current.ID, current.Number+renumberOffset); err != nil {
			return err
		}
		if err := txQuestions.SetNumber(ctx, sibling.ID, current.Number); err != nil {
			return err
		}
		if err := txQuestions.SetNumber(ctx, current.ID, sibling.Number); err != nil {
			return err
		}

		q.Number = sibling.Number
		return txDesigns.Touch(ctx, current.SurveyDesignID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return q, nil
}

// renumberQuestions перенумеровывает вопросы шаблона в плотную
// последовательность 1..N. Если нумерация уже плотная — no-op.
// Двухфазная схема: сначала все номера сдвигаются из занятого
// диапазона, затем расставляются финальные значения.
func renumberQuestions(ctx context.Context, repo repository.QuestionRepository, designID int) error {
	questions, err := repo.ListByDesign(ctx, designID)
	if err != nil {
		return err
	}

	plan := renumberPlan(questions)
	if len(plan) == 0 {
		return nil
	}

	if err := repo.ShiftNumbers(ctx, designID, renumberOffset); err != nil {
		return err
	}

	sorted := make([]*model.Question, len(questions))
	copy(sorted, questions)
	sortCanonical(sorted)
	for i, q := range sorted {
		if err := repo.SetNumber(ctx, q.ID, i+1); err != nil {
			return err
		}
	}
	return nil
}
