package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/domain/model"
)

// VisualizationRepository — интерфейс доступа к таблице visualizations.
type VisualizationRepository interface {
	// Create сохраняет SVG-содержимое.
	Create(ctx context.Context, v *model.Visualization) error
	// GetByID возвращает содержимое по идентификатору.
	GetByID(ctx context.Context, id int) (*model.Visualization, error)
	// Update заменяет SVG и флаг подробностей.
	Update(ctx context.Context, v *model.Visualization) error
	// UpdateSVG заменяет только SVG-разметку.
	UpdateSVG(ctx context.Context, id int, svg string) error
	// Delete удаляет содержимое.
	Delete(ctx context.Context, id int) error
}

// visualizationRepo — реализация VisualizationRepository.
type visualizationRepo struct {
	db DBTX
}

// NewVisualizationRepository создаёт репозиторий визуализаций.
func NewVisualizationRepository(db DBTX) VisualizationRepository {
	return &visualizationRepo{db: db}
}

func (r *visualizationRepo) Create(ctx context.Context, v *model.Visualization) error {
	query := `
		INSERT INTO visualizations (svg, details_on_hover)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, v.SVG, v.DetailsOnHover).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания визуализации: %w", err)
	}
	return nil
}

func (r *visualizationRepo) GetByID(ctx context.Context, id int) (*model.Visualization, error) {
	query := `
		SELECT id, svg, details_on_hover, created_at, updated_at
		FROM visualizations
		WHERE id = $1`

	v := &model.Visualization{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.SVG, &v.DetailsOnHover, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения визуализации: %w", err)
	}
	return v, nil
}

func (r *visualizationRepo) Update(ctx context.Context, v *model.Visualization) error {
	query := `
		UPDATE visualizations
		SET svg = $2, details_on_hover = $3, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, v.ID, v.SVG, v.DetailsOnHover)
	if err != nil {
		return fmt.Errorf("ошибка обновления визуализации: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *visualizationRepo) UpdateSVG(ctx context.Context, id int, svg string) error {
	query := `
		UPDATE visualizations
		SET svg = $2, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, svg)
	if err != nil {
		return fmt.Errorf("ошибка обновления SVG: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
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
