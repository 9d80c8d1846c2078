package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/domain/model"
)

// SurveyDesignRepository — интерфейс доступа к таблице survey_designs.
type SurveyDesignRepository interface {
	// Create создаёт новый шаблон опроса.
	Create(ctx context.Context, sd *model.SurveyDesign) error
	// GetByID возвращает шаблон по идентификатору.
	GetByID(ctx context.Context, id int) (*model.SurveyDesign, error)
	// ListByUser возвращает шаблоны пользователя.
	ListByUser(ctx context.Context, userID int) ([]*model.SurveyDesign, error)
	// Update обновляет название шаблона.
	Update(ctx context.Context, sd *model.SurveyDesign) error
	// Touch обновляет updated_at шаблона.
	Touch(ctx context.Context, id int) error
	// Delete удаляет шаблон вместе с вопросами (ON DELETE CASCADE).
	Delete(ctx context.Context, id int) error
}

// surveyDesignRepo — реализация SurveyDesignRepository.
type surveyDesignRepo struct {
	db DBTX
}

// NewSurveyDesignRepository создаёт репозиторий шаблонов опросов.
func NewSurveyDesignRepository(db DBTX) SurveyDesignRepository {
	return &surveyDesignRepo{db: db}
}

func (r *surveyDesignRepo) Create(ctx context.Context, sd *model.SurveyDesign) error {
	query := `
		INSERT INTO survey_designs (user_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, sd.UserID, sd.Name).
		Scan(&sd.ID, &sd.CreatedAt, &sd.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания шаблона: %w", err)
	}
	return nil
}

func (r *surveyDesignRepo) GetByID(ctx context.Context, id int) (*model.SurveyDesign, error) {
	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM survey_designs
		WHERE id = $1`

	sd := &model.SurveyDesign{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&sd.ID, &sd.UserID, &sd.Name, &sd.CreatedAt, &sd.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения шаблона: %w", err)
	}
	return sd, nil
}

func (r *surveyDesignRepo) ListByUser(ctx context.Context, userID int) ([]*model.SurveyDesign, error) {
	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM survey_designs
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка шаблонов: %w", err)
	}
	defer rows.Close()

	var result []*model.SurveyDesign
	for rows.Next() {
		sd := &model.SurveyDesign{}
		if err := rows.Scan(
			&sd.ID, &sd.UserID, &sd.Name, &sd.CreatedAt, &sd.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования шаблона: %w", err)
		}
		result = append(result, sd)
	}
	return result, rows.Err()
}

func (r *surveyDesignRepo) Update(ctx context.Context, sd *model.SurveyDesign) error {
	query := `
		UPDATE survey_designs
		SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query, sd.ID, sd.Name).Scan(&sd.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления шаблона: %w", err)
	}
	return nil
}

func (r *surveyDesignRepo) Touch(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE survey_designs SET updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка обновления updated_at шаблона: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *surveyDesignRepo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM survey_designs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления шаблона: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
