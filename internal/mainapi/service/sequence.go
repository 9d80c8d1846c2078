// sequence.go — чистые функции перенумерации вопросов.
// Каноничный порядок вопросов — (number ASC, id ASC): он детерминирован
// даже если нумерация в БД повреждена (дыры, дубликаты).
package service

import (
	"sort"
	"strings"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/domain/model"
)

// Сдвиг номеров при перенумерации: уводит все номера из занятого
// диапазона, чтобы финальные значения 1..N не нарушали
// UNIQUE (survey_design_id, number).
const renumberOffset = 1000

// numberAssignment — назначение нового номера вопросу.
type numberAssignment struct {
	ID     int
	Number int
}

// sortCanonical сортирует вопросы в каноничном порядке (number ASC, id ASC).
func sortCanonical(questions []*model.Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		if questions[i].Number != questions[j].Number {
			return questions[i].Number < questions[j].Number
		}
		return questions[i].ID < questions[j].ID
	})
}

// renumberPlan строит план перенумерации: вопросы в каноничном порядке
// получают номера 1..N. Возвращаются только назначения, меняющие номер.
func renumberPlan(questions []*model.Question) []numberAssignment {
	sorted := make([]*model.Question, len(questions))
	copy(sorted, questions)
	sortCanonical(sorted)

	var plan []numberAssignment
	for i, q := range sorted {
		want := i + 1
		if q.Number != want {
			plan = append(plan, numberAssignment{ID: q.ID, Number: want})
		}
	}
	return plan
}

// buildSnapshot строит снимок вопросов для публикации: вопросы
// в каноничном порядке, пустой текст отбрасывается, номера
// пересчитываются в плотную последовательность 1..M.
func buildSnapshot(questions []*model.Question) []model.QuestionSnapshot {
	sorted := make([]*model.Question, len(questions))
	copy(sorted, questions)
	sortCanonical(sorted)

	snapshot := []model.QuestionSnapshot{}
	for _, q := range sorted {
		if strings.TrimSpace(q.Text) == "" {
			continue
		}
		choices := q.Choices
		if choices == nil {
			choices = []string{}
		}
		snapshot = append(snapshot, model.QuestionSnapshot{
			ID:                     q.ID,
			Number:                 len(snapshot) + 1,
			Text:                   q.Text,
			AnswerType:             q.AnswerType,
			Choices:                choices,
			VisualizationContentID: q.VisualizationContentID,
		})
	}
	return snapshot
}
