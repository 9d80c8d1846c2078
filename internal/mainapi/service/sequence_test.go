package service

import (
	"testing"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/domain/model"
)

func q(id, number int, text string) *model.Question {
	return &model.Question{ID: id, SurveyDesignID: 1, Number: number, Text: text, AnswerType: "text"}
}

func TestRenumberPlan_DenseSequence(t *testing.T) {
	// Нумерация уже плотная — план пуст
	questions := []*model.Question{
		q(10, 1, "a"), q(11, 2, "b"), q(12, 3, "c"),
	}

	if plan := renumberPlan(questions); len(plan) != 0 {
		t.Errorf("ожидается пустой план для плотной нумерации, получено %v", plan)
	}
}

func TestRenumberPlan_Holes(t *testing.T) {
	// Дыра после удаления: 1, 3, 7 → 1, 2, 3
	questions := []*model.Question{
		q(10, 1, "a"), q(11, 3, "b"), q(12, 7, "c"),
	}

	plan := renumberPlan(questions)
	if len(plan) != 2 {
		t.Fatalf("ожидается 2 назначения, получено %d", len(plan))
	}
	if plan[0].ID != 11 || plan[0].Number != 2 {
		t.Errorf("ожидается {11, 2}, получено %+v", plan[0])
	}
	if plan[1].ID != 12 || plan[1].Number != 3 {
		t.Errorf("ожидается {12, 3}, получено %+v", plan[1])
	}
}

func TestRenumberPlan_DuplicateNumbers(t *testing.T) {
	// Дубликаты номеров разрешаются по id: меньший id идёт первым
	questions := []*model.Question{
		q(20, 2, "b"), q(15, 2, "a"), q(30, 5, "c"),
	}

	plan := renumberPlan(questions)
	got := map[int]int{}
	for _, a := range plan {
		got[a.ID] = a.Number
	}
	if got[15] != 1 {
		t.Errorf("вопрос 15 должен получить номер 1, получено %d", got[15])
	}
	if got[20] != 0 {
		// номер 2 уже корректен — назначения нет
		t.Errorf("вопрос 20 не должен перенумеровываться, получено %d", got[20])
	}
	if got[30] != 3 {
		t.Errorf("вопрос 30 должен получить номер 3, получено %d", got[30])
	}
}

func TestRenumberPlan_Empty(t *testing.T) {
	if plan := renumberPlan(nil); len(plan) != 0 {
		t.Errorf("ожидается пустой план для пустого шаблона, получено %v", plan)
	}
}

func TestBuildSnapshot_FiltersBlankText(t *testing.T) {
	questions := []*model.Question{
		q(1, 1, "Первый вопрос"),
		q(2, 2, "   "),
		q(3, 3, ""),
		q(4, 4, "Четвёртый вопрос"),
	}

	snapshot := buildSnapshot(questions)
	if len(snapshot) != 2 {
		t.Fatalf("ожидается 2 вопроса в снимке, получено %d", len(snapshot))
	}
	if snapshot[0].ID != 1 || snapshot[0].Number != 1 {
		t.Errorf("ожидается вопрос 1 с номером 1, получено %+v", snapshot[0])
	}
	if snapshot[1].ID != 4 || snapshot[1].Number != 2 {
		t.Errorf("ожидается вопрос 4 с номером 2, получено %+v", snapshot[1])
	}
}

func TestBuildSnapshot_CanonicalOrder(t *testing.T) {
	// Снимок строится в порядке (number ASC, id ASC) независимо от входного
	questions := []*model.Question{
		q(3, 5, "c"), q(1, 2, "a"), q(2, 2, "b"),
	}

	snapshot := buildSnapshot(questions)
	if len(snapshot) != 3 {
		t.Fatalf("ожидается 3 вопроса, получено %d", len(snapshot))
	}
	wantIDs := []int{1, 2, 3}
	for i, snap := range snapshot {
		if snap.ID != wantIDs[i] {
			t.Errorf("позиция %d: ожидается id %d, получено %d", i, wantIDs[i], snap.ID)
		}
		if snap.Number != i+1 {
			t.Errorf("позиция %d: ожидается номер %d, получено %d", i, i+1, snap.Number)
		}
	}
}

func TestBuildSnapshot_NilChoices(t *testing.T) {
	questions := []*model.Question{q(1, 1, "вопрос")}

	snapshot := buildSnapshot(questions)
	if snapshot[0].Choices == nil {
		t.Error("choices в снимке должны быть пустым срезом, а не nil")
	}
}

func TestBuildSnapshot_AllBlank(t *testing.T) {
	questions := []*model.Question{q(1, 1, ""), q(2, 2, "  ")}

	snapshot := buildSnapshot(questions)
	if snapshot == nil {
		t.Fatal("снимок не должен быть nil")
	}
	if len(snapshot) != 0 {
		t.Errorf("ожидается пустой снимок, получено %d вопросов", len(snapshot))
	}
}
