// Пакет model — доменные модели сервиса визуализаций.
package model

import "time"

// Visualization — SVG-содержимое визуализации.
type Visualization struct {
	// ID — идентификатор записи
	ID int
	// SVG — разметка визуализации
	SVG string
	// DetailsOnHover — показывать подробности при наведении
	DetailsOnHover bool
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}
