package model

import "time"

// Visualization — метаданные визуализации пользователя.
// Само содержимое SVG хранится в сервисе визуализаций,
// здесь только ссылка через ContentID.
type Visualization struct {
	// ID — идентификатор записи
	ID int
	// UserID — владелец визуализации
	UserID int
	// Name — название визуализации
	Name string
	// ContentID — идентификатор SVG в сервисе визуализаций (nil до завершения загрузки)
	ContentID *int
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}
