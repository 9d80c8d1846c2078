package model

import "time"

// SurveyDesign — шаблон опроса пользователя.
// Хранится в таблице survey_designs.
type SurveyDesign struct {
	// ID — идентификатор записи
	ID int
	// UserID — владелец шаблона
	UserID int
	// Name — название шаблона
	Name string
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}
