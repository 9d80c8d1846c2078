package model

import "time"

// Статусы опубликованного опроса.
const (
	// PublishedStatusInProgress — опрос открыт, принимаются ответы.
	PublishedStatusInProgress = "in-progress"
	// PublishedStatusClosed — опрос закрыт, ответы отклоняются.
	PublishedStatusClosed = "closed"
)

// PublishedSurvey — неизменяемый снимок шаблона, опубликованный по ссылке.
// Хранится в таблице published_surveys; снимки и результаты — JSONB.
type PublishedSurvey struct {
	// ID — идентификатор записи
	ID int
	// UserID — владелец опроса
	UserID int
	// Name — название опроса (задаётся при публикации, по умолчанию — имя шаблона)
	Name string
	// LinkHash — уникальный хеш публичной ссылки
	LinkHash string
	// Status — статус опроса (in-progress, closed)
	Status string
	// OpenAt — плановое время открытия опроса (опционально)
	OpenAt *time.Time
	// CloseAt — плановое время закрытия опроса (опционально)
	CloseAt *time.Time
	// SurveyDesign — снимок шаблона на момент публикации
	SurveyDesign SurveyDesignSnapshot
	// Questions — снимок вопросов с перенумерацией 1..M
	Questions []QuestionSnapshot
	// Results — ответы участников
	Results []ParticipantResult
	// CreatedAt — время публикации
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}

// SurveyDesignSnapshot — снимок шаблона внутри опубликованного опроса.
type SurveyDesignSnapshot struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// QuestionSnapshot — снимок вопроса внутри опубликованного опроса.
// В снимок попадают только вопросы с непустым текстом,
// номера пересчитываются в плотную последовательность 1..M.
type QuestionSnapshot struct {
	ID                     int      `json:"id"`
	Number                 int      `json:"number"`
	Text                   string   `json:"text"`
	AnswerType             string   `json:"answerType"`
	Choices                []string `json:"choices"`
	VisualizationContentID *int     `json:"visualizationContentId,omitempty"`
}

// ParticipantResult — ответы одного участника.
type ParticipantResult struct {
	// SubmittedAt — время отправки ответов
	SubmittedAt time.Time `json:"submittedAt"`
	// Answers — ответы по номерам вопросов снимка
	Answers []ParticipantAnswer `json:"answers"`
}

// ParticipantAnswer — ответ участника на один вопрос.
type ParticipantAnswer struct {
	QuestionNumber int    `json:"questionNumber"`
	Value          string `json:"value"`
}
