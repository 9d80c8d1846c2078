// responses.go — структуры JSON-ответов API и конвертеры из доменных моделей.
package handlers

import (
	"sort"
	"time"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/domain/model"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/visualclient"
)

// surveyDesignResponse — шаблон опроса в ответе API.
type surveyDesignResponse struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toSurveyDesignResponse(sd *model.SurveyDesign) surveyDesignResponse {
	return surveyDesignResponse{
		ID:        sd.ID,
		UserID:    sd.UserID,
		Name:      sd.Name,
		CreatedAt: sd.CreatedAt,
		UpdatedAt: sd.UpdatedAt,
	}
}

// questionResponse — вопрос в ответе API.
type questionResponse struct {
	ID                     int       `json:"id"`
	SurveyDesignID         int       `json:"surveyDesignId"`
	Number                 int       `json:"number"`
	Text                   string    `json:"text"`
	AnswerType             string    `json:"answerType"`
	Choices                []string  `json:"choices"`
	VisualizationContentID *int      `json:"visualizationContentId,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

func toQuestionResponse(q *model.Question) questionResponse {
	choices := q.Choices
	if choices == nil {
		choices = []string{}
	}
	return questionResponse{
		ID:                     q.ID,
		SurveyDesignID:         q.SurveyDesignID,
		Number:                 q.Number,
		Text:                   q.Text,
		AnswerType:             q.AnswerType,
		Choices:                choices,
		VisualizationContentID: q.VisualizationContentID,
		CreatedAt:              q.CreatedAt,
		UpdatedAt:              q.UpdatedAt,
	}
}

// visualizationResponse — визуализация в ответе API.
// SVG и detailsOnHover присутствуют только при запросе одной визуализации.
type visualizationResponse struct {
	ID             int       `json:"id"`
	UserID         int       `json:"userId"`
	Name           string    `json:"name"`
	ContentID      *int      `json:"contentId,omitempty"`
	SVG            *string   `json:"svg,omitempty"`
	DetailsOnHover *bool     `json:"detailsOnHover,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toVisualizationResponse(v *model.Visualization, content *visualclient.Content) visualizationResponse {
	resp := visualizationResponse{
		ID:        v.ID,
		UserID:    v.UserID,
		Name:      v.Name,
		ContentID: v.ContentID,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
	if content != nil {
		resp.SVG = &content.SVG
		resp.DetailsOnHover = &content.DetailsOnHover
	}
	return resp
}

// publishedSurveyResponse — опубликованный опрос в ответе API владельцу.
type publishedSurveyResponse struct {
	ID            int                        `json:"id"`
	UserID        int                        `json:"userId"`
	Name          string                     `json:"name"`
	LinkHash      string                     `json:"linkHash"`
	Status        string                     `json:"status"`
	OpenAt        *time.Time                 `json:"openAt,omitempty"`
	CloseAt       *time.Time                 `json:"closeAt,omitempty"`
	SurveyDesign  model.SurveyDesignSnapshot `json:"surveyDesign"`
	Questions     []model.QuestionSnapshot   `json:"questions"`
	Results       []model.ParticipantResult  `json:"results"`
	ResponseCount int                        `json:"responseCount"`
	CreatedAt     time.Time                  `json:"createdAt"`
	UpdatedAt     time.Time                  `json:"updatedAt"`
}

func toPublishedSurveyResponse(ps *model.PublishedSurvey) publishedSurveyResponse {
	questions := ps.Questions
	if questions == nil {
		questions = []model.QuestionSnapshot{}
	}
	results := ps.Results
	if results == nil {
		results = []model.ParticipantResult{}
	}
	return publishedSurveyResponse{
		ID:            ps.ID,
		UserID:        ps.UserID,
		Name:          ps.Name,
		LinkHash:      ps.LinkHash,
		Status:        ps.Status,
		OpenAt:        ps.OpenAt,
		CloseAt:       ps.CloseAt,
		SurveyDesign:  ps.SurveyDesign,
		Questions:     questions,
		Results:       results,
		ResponseCount: len(results),
		CreatedAt:     ps.CreatedAt,
		UpdatedAt:     ps.UpdatedAt,
	}
}

// takeSurveyResponse — опрос в ответе участнику.
// Результаты других участников не раскрываются.
type takeSurveyResponse struct {
	Name         string                     `json:"name"`
	LinkHash     string                     `json:"linkHash"`
	Status       string                     `json:"status"`
	SurveyDesign model.SurveyDesignSnapshot `json:"surveyDesign"`
	Questions    []model.QuestionSnapshot   `json:"questions"`
}

func toTakeSurveyResponse(ps *model.PublishedSurvey) takeSurveyResponse {
	return takeSurveyResponse{
		Name:         ps.Name,
		LinkHash:     ps.LinkHash,
		Status:       ps.Status,
		SurveyDesign: ps.SurveyDesign,
		Questions:    orderedSnapshot(ps.Questions),
	}
}

// orderedSnapshot возвращает вопросы снимка в порядке прохождения:
// сортировка по номеру (при равных номерах — по идентификатору) и
// сквозная перенумерация 1..N. Снимок пишется уже упорядоченным, но
// участнику нельзя показывать дыры в нумерации, если данные пришли
// из старой или правленной вручную записи.
func orderedSnapshot(questions []model.QuestionSnapshot) []model.QuestionSnapshot {
	ordered := make([]model.QuestionSnapshot, len(questions))
	copy(ordered, questions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Number != ordered[j].Number {
			return ordered[i].Number < ordered[j].Number
		}
		return ordered[i].ID < ordered[j].ID
	})
	for i := range ordered {
		ordered[i].Number = i + 1
	}
	return ordered
}
