package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/domain/model"
)

// PublishedSurveyRepository — интерфейс доступа к таблице published_surveys.
// Снимки шаблона, вопросов и результаты хранятся в колонках JSONB.
type PublishedSurveyRepository interface {
	// Create публикует снимок опроса.
	Create(ctx context.Context, ps *model.PublishedSurvey) error
	// GetByID возвращает опубликованный опрос по идентификатору.
	GetByID(ctx context.Context, id int) (*model.PublishedSurvey, error)
	// GetByLinkHash возвращает опубликованный опрос по хешу публичной ссылки.
	GetByLinkHash(ctx context.Context, linkHash string) (*model.PublishedSurvey, error)
	// ListByUser возвращает опубликованные опросы пользователя.
	ListByUser(ctx context.Context, userID int) ([]*model.PublishedSurvey, error)
	// Update обновляет название, статус и плановые даты опроса.
	Update(ctx context.Context, ps *model.PublishedSurvey) error
	// AppendResult дописывает ответы участника к results.
	AppendResult(ctx context.Context, id int, result model.ParticipantResult) error
	// Delete удаляет опубликованный опрос.
	Delete(ctx context.Context, id int) error
}

// publishedSurveyRepo — реализация PublishedSurveyRepository.
type publishedSurveyRepo struct {
	db DBTX
}

// NewPublishedSurveyRepository создаёт репозиторий опубликованных опросов.
func NewPublishedSurveyRepository(db DBTX) PublishedSurveyRepository {
	return &publishedSurveyRepo{db: db}
}

func (r *publishedSurveyRepo) Create(ctx context.Context, ps *model.PublishedSurvey) error {
	query := `
		INSERT INTO published_surveys (user_id, name, link_hash, status, open_at, close_at,
			survey_design, questions, results)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	if ps.Questions == nil {
		ps.Questions = []model.QuestionSnapshot{}
	}
	if ps.Results == nil {
		ps.Results = []model.ParticipantResult{}
	}

	err := r.db.QueryRow(ctx, query,
		ps.UserID, ps.Name, ps.LinkHash, ps.Status, ps.OpenAt, ps.CloseAt,
		ps.SurveyDesign, ps.Questions, ps.Results,
	).Scan(&ps.ID, &ps.CreatedAt, &ps.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: хеш ссылки уже используется", ErrConflict)
		}
		return fmt.Errorf("ошибка публикации опроса: %w", err)
	}
	return nil
}

func (r *publishedSurveyRepo) GetByID(ctx context.Context, id int) (*model.PublishedSurvey, error) {
	query := `
		SELECT id, user_id, name, link_hash, status, open_at, close_at,
			survey_design, questions, results, created_at, updated_at
		FROM published_surveys
		WHERE id = $1`

	ps := &model.PublishedSurvey{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&ps.ID, &ps.UserID, &ps.Name, &ps.LinkHash, &ps.Status,
		&ps.OpenAt, &ps.CloseAt,
		&ps.SurveyDesign, &ps.Questions, &ps.Results,
		&ps.CreatedAt, &ps.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения опубликованного опроса: %w", err)
	}
	return ps, nil
}

func (r *publishedSurveyRepo) GetByLinkHash(ctx context.Context, linkHash string) (*model.PublishedSurvey, error) {
	query := `
		SELECT id, user_id, name, link_hash, status, open_at, close_at,
			survey_design, questions, results, created_at, updated_at
		FROM published_surveys
		WHERE link_hash = $1`

	ps := &model.PublishedSurvey{}
	err := r.db.QueryRow(ctx, query, linkHash).Scan(
		&ps.ID, &ps.UserID, &ps.Name, &ps.LinkHash, &ps.Status,
		&ps.OpenAt, &ps.CloseAt,
		&ps.SurveyDesign, &ps.Questions, &ps.Results,
		&ps.CreatedAt, &ps.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения опроса по ссылке: %w", err)
	}
	return ps, nil
}

func (r *publishedSurveyRepo) ListByUser(ctx context.Context, userID int) ([]*model.PublishedSurvey, error) {
	query := `
		SELECT id, user_id, name, link_hash, status, open_at, close_at,
			survey_design, questions, results, created_at, updated_at
		FROM published_surveys
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка опубликованных опросов: %w", err)
	}
	defer rows.Close()

	var result []*model.PublishedSurvey
	for rows.Next() {
		ps := &model.PublishedSurvey{}
		if err := rows.Scan(
			&ps.ID, &ps.UserID, &ps.Name, &ps.LinkHash, &ps.Status,
			&ps.OpenAt, &ps.CloseAt,
			&ps.SurveyDesign, &ps.Questions, &ps.Results,
			&ps.CreatedAt, &ps.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования опубликованного опроса: %w", err)
		}
		result = append(result, ps)
	}
	return result, rows.Err()
}

func (r *publishedSurveyRepo) Update(ctx context.Context, ps *model.PublishedSurvey) error {
	query := `
		UPDATE published_surveys
		SET name = $2, status = $3, open_at = $4, close_at = $5, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, ps.ID, ps.Name, ps.Status, ps.OpenAt, ps.CloseAt)
	if err != nil {
		return fmt.Errorf("ошибка обновления опубликованного опроса: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *publishedSurveyRepo) AppendResult(ctx context.Context, id int, result model.ParticipantResult) error {
	// Дописывание на стороне БД: одновременные участники не затирают
	// ответы друг друга.
	query := `
		UPDATE published_surveys
		SET results = results || $2::jsonb, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, []model.ParticipantResult{result})
	if err != nil {
		return fmt.Errorf("ошибка сохранения ответов участника: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *publishedSurveyRepo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM published_surveys WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления опубликованного опроса: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
