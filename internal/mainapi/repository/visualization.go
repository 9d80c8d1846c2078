package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/domain/model"
)

// VisualizationRepository — интерфейс доступа к таблице visualizations.
// Хранит только метаданные; содержимое SVG живёт в сервисе визуализаций.
type VisualizationRepository interface {
	// Create создаёт запись метаданных визуализации.
	Create(ctx context.Context, v *model.Visualization) error
	// GetByID возвращает метаданные по идентификатору.
	GetByID(ctx context.Context, id int) (*model.Visualization, error)
	// ListByUser возвращает визуализации пользователя.
	ListByUser(ctx context.Context, userID int) ([]*model.Visualization, error)
	// Update обновляет название и ссылку на содержимое.
	Update(ctx context.Context, v *model.Visualization) error
	// Delete удаляет запись метаданных.
	Delete(ctx context.Context, id int) error
}

// visualizationRepo — реализация VisualizationRepository.
type visualizationRepo struct {
	db DBTX
}

// NewVisualizationRepository создаёт репозиторий метаданных визуализаций.
func NewVisualizationRepository(db DBTX) VisualizationRepository {
	return &visualizationRepo{db: db}
}

func (r *visualizationRepo) Create(ctx context.Context, v *model.Visualization) error {
	query := `
		INSERT INTO visualizations (user_id, name, content_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, v.UserID, v.Name, v.ContentID).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания визуализации: %w", err)
	}
	return nil
}

func (r *visualizationRepo) GetByID(ctx context.Context, id int) (*model.Visualization, error) {
	query := `
		SELECT id, user_id, name, content_id, created_at, updated_at
		FROM visualizations
		WHERE id = $1`

	v := &model.Visualization{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.UserID, &v.Name, &v.ContentID, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения визуализации: %w", err)
	}
	return v, nil
}

func (r *visualizationRepo) ListByUser(ctx context.Context, userID int) ([]*model.Visualization, error) {
	query := `
		SELECT id, user_id, name, content_id, created_at, updated_at
		FROM visualizations
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка визуализаций: %w", err)
	}
	defer rows.Close()

	var result []*model.Visualization
	for rows.Next() {
		v := &model.Visualization{}
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.Name, &v.ContentID, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования визуализации: %w", err)
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

func (r *visualizationRepo) Update(ctx context.Context, v *model.Visualization) error {
	query := `
		UPDATE visualizations
		SET name = $2, content_id = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query, v.ID, v.Name, v.ContentID).Scan(&v.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления визуализации: %w", err)
	}
	return nil
}

func (r *visualizationRepo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM visualizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления визуализации: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
