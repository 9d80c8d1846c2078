package model

import "time"

// Question — вопрос шаблона опроса.
// Номера вопросов внутри шаблона образуют плотную последовательность 1..N,
// защищённую ограничением UNIQUE (survey_design_id, number).
type Question struct {
	// ID — идентификатор записи
	ID int
	// SurveyDesignID — шаблон, которому принадлежит вопрос
	SurveyDesignID int
	// Number — порядковый номер вопроса в шаблоне (с 1)
	Number int
	// Text — текст вопроса
	Text string
	// AnswerType — тип ответа (text, choice, scale)
	AnswerType string
	// Choices — варианты ответа для типа choice
	Choices []string
	// VisualizationContentID — идентификатор SVG в сервисе визуализаций (может быть nil)
	VisualizationContentID *int
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}
