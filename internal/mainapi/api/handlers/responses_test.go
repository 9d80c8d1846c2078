package handlers

import (
	"testing"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/domain/model"
)

// TestToTakeSurveyResponse_OrdersAndRenumbers проверяет, что вопросы
// снимка отдаются участнику отсортированными и с сквозной нумерацией
// 1..N, даже если в записи номера идут с дырами и не по порядку.
func TestToTakeSurveyResponse_OrdersAndRenumbers(t *testing.T) {
	ps := &model.PublishedSurvey{
		Name:     "Опрос",
		LinkHash: "abc123",
		Status:   model.PublishedStatusInProgress,
		Questions: []model.QuestionSnapshot{
			{ID: 30, Number: 7, Text: "третий"},
			{ID: 10, Number: 2, Text: "первый"},
			{ID: 20, Number: 2, Text: "второй"},
		},
	}

	resp := toTakeSurveyResponse(ps)

	wantTexts := []string{"первый", "второй", "третий"}
	if len(resp.Questions) != len(wantTexts) {
		t.Fatalf("вопросов в ответе %d, ожидалось %d", len(resp.Questions), len(wantTexts))
	}
	for i, want := range wantTexts {
		q := resp.Questions[i]
		if q.Text != want {
			t.Errorf("вопрос %d: текст %q, ожидался %q", i, q.Text, want)
		}
		if q.Number != i+1 {
			t.Errorf("вопрос %q: номер %d, ожидался %d", q.Text, q.Number, i+1)
		}
	}

	// Исходный снимок не меняется
	if ps.Questions[0].Number != 7 {
		t.Errorf("исходный снимок перенумерован: номер %d, ожидался 7", ps.Questions[0].Number)
	}
}

// TestToTakeSurveyResponse_EmptySnapshot проверяет, что пустой снимок
// сериализуется как пустой массив, а не null.
func TestToTakeSurveyResponse_EmptySnapshot(t *testing.T) {
	resp := toTakeSurveyResponse(&model.PublishedSurvey{LinkHash: "abc123"})
	if resp.Questions == nil {
		t.Error("ожидается пустой срез вопросов, получен nil")
	}
	if len(resp.Questions) != 0 {
		t.Errorf("вопросов %d, ожидалось 0", len(resp.Questions))
	}
}
