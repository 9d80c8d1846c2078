package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/domain/model"
)

// QuestionRepository — интерфейс доступа к таблице questions.
// Перестановки номеров выполняются сервисом внутри транзакций,
// поэтому репозиторий работает через DBTX, а не через пул напрямую.
type QuestionRepository interface {
	// Create создаёт вопрос с заданным номером.
	Create(ctx context.Context, q *model.Question) error
	// GetByID возвращает вопрос по идентификатору.
	GetByID(ctx context.Context, id int) (*model.Question, error)
	// GetByDesignAndNumber возвращает вопрос шаблона с заданным номером.
	GetByDesignAndNumber(ctx context.Context, designID, number int) (*model.Question, error)
	// ListByDesign возвращает вопросы шаблона в порядке (number ASC, id ASC).
	ListByDesign(ctx context.Context, designID int) ([]*model.Question, error)
	// MaxNumber возвращает максимальный номер вопроса шаблона (0 если вопросов нет).
	MaxNumber(ctx context.Context, designID int) (int, error)
	// Update обновляет текст, тип ответа, варианты и ссылку на визуализацию.
	Update(ctx context.Context, q *model.Question) error
	// SetNumber устанавливает номер вопроса.
	SetNumber(ctx context.Context, id, number int) error
	// ShiftNumbers сдвигает номера всех вопросов шаблона на delta.
	ShiftNumbers(ctx context.Context, designID, delta int) error
	// Delete удаляет вопрос.
	Delete(ctx context.Context, id int) error
}

// questionRepo — реализация QuestionRepository.
type questionRepo struct {
	db DBTX
}

// NewQuestionRepository создаёт репозиторий вопросов.
func NewQuestionRepository(db DBTX) QuestionRepository {
	return &questionRepo{db: db}
}

func (r *questionRepo) Create(ctx context.Context, q *model.Question) error {
	query := `
		INSERT INTO questions (survey_design_id, number, text, answer_type, choices, visualization_content_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	if q.Choices == nil {
		q.Choices = []string{}
	}

	err := r.db.QueryRow(ctx, query,
		q.SurveyDesignID, q.Number, q.Text, q.AnswerType, q.Choices, q.VisualizationContentID,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: номер %d уже занят в шаблоне", ErrConflict, q.Number)
		}
		return fmt.Errorf("ошибка создания вопроса: %w", err)
	}
	return nil
}

func (r *questionRepo) GetByID(ctx context.Context, id int) (*model.Question, error) {
	query := `
		SELECT id, survey_design_id, number, text, answer_type, choices,
			visualization_content_id, created_at, updated_at
		FROM questions
		WHERE id = $1`

	q := &model.Question{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.SurveyDesignID, &q.Number, &q.Text, &q.AnswerType, &q.Choices,
		&q.VisualizationContentID, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения вопроса: %w", err)
	}
	return q, nil
}

func (r *questionRepo) GetByDesignAndNumber(ctx context.Context, designID, number int) (*model.Question, error) {
	query := `
		SELECT id, survey_design_id, number, text, answer_type, choices,
			visualization_content_id, created_at, updated_at
		FROM questions
		WHERE survey_design_id = $1 AND number = $2`

	q := &model.Question{}
	err := r.db.QueryRow(ctx, query, designID, number).Scan(
		&q.ID, &q.SurveyDesignID, &q.Number, &q.Text, &q.AnswerType, &q.Choices,
		&q.VisualizationContentID, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения вопроса по номеру: %w", err)
	}
	return q, nil
}

func (r *questionRepo) ListByDesign(ctx context.Context, designID int) ([]*model.Question, error) {
	// Порядок (number ASC, id ASC) детерминирован даже при повреждённой нумерации.
	query := `
		SELECT id, survey_design_id, number, text, answer_type, choices,
			visualization_content_id, created_at, updated_at
		FROM questions
		WHERE survey_design_id = $1
		ORDER BY number ASC, id ASC`

	rows, err := r.db.Query(ctx, query, designID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка вопросов: %w", err)
	}
	defer rows.Close()

	var result []*model.Question
	for rows.Next() {
		q := &model.Question{}
		if err := rows.Scan(
			&q.ID, &q.SurveyDesignID, &q.Number, &q.Text, &q.AnswerType, &q.Choices,
			&q.VisualizationContentID, &q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования вопроса: %w", err)
		}
		result = append(result, q)
	}
	return result, rows.Err()
}

func (r *questionRepo) MaxNumber(ctx context.Context, designID int) (int, error) {
	var max int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(number), 0) FROM questions WHERE survey_design_id = $1`,
		designID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения максимального номера: %w", err)
	}
	return max, nil
}

func (r *questionRepo) Update(ctx context.Context, q *model.Question) error {
	query := `
		UPDATE questions
		SET text = $2, answer_type = $3, choices = $4,
			visualization_content_id = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	if q.Choices == nil {
		q.Choices = []string{}
	}

	err := r.db.QueryRow(ctx, query,
		q.ID, q.Text, q.AnswerType, q.Choices, q.VisualizationContentID,
	).Scan(&q.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления вопроса: %w", err)
	}
	return nil
}

func (r *questionRepo) SetNumber(ctx context.Context, id, number int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE questions SET number = $2, updated_at = now() WHERE id = $1`,
		id, number)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: номер %d уже занят в шаблоне", ErrConflict, number)
		}
		return fmt.Errorf("ошибка изменения номера вопроса: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *questionRepo) ShiftNumbers(ctx context.Context, designID, delta int) error {
	// Сдвиг всех номеров разом уводит их из занятого диапазона,
	// после чего финальные номера можно расставлять без коллизий.
	_, err := r.db.Exec(ctx,
		`UPDATE questions SET number = number + $2 WHERE survey_design_id = $1`,
		designID, delta)
	if err != nil {
		return fmt.Errorf("ошибка сдвига номеров вопросов: %w", err)
	}
	return nil
}

func (r *questionRepo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления вопроса: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
