package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/domain/model"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/repository"
)

// --- Mock repositories ---

// mockDesignRepo — мок SurveyDesignRepository для unit-тестов.
type mockDesignRepo struct {
	getByIDFn func(ctx context.Context, id int) (*model.SurveyDesign, error)
	touchFn   func(ctx context.Context, id int) error
}

func (m *mockDesignRepo) Create(ctx context.Context, sd *model.SurveyDesign) error { return nil }

func (m *mockDesignRepo) GetByID(ctx context.Context, id int) (*model.SurveyDesign, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockDesignRepo) ListByUser(ctx context.Context, userID int) ([]*model.SurveyDesign, error) {
	return nil, nil
}

func (m *mockDesignRepo) Update(ctx context.Context, sd *model.SurveyDesign) error { return nil }

func (m *mockDesignRepo) Touch(ctx context.Context, id int) error {
	if m.touchFn != nil {
		return m.touchFn(ctx, id)
	}
	return nil
}

func (m *mockDesignRepo) Delete(ctx context.Context, id int) error { return nil }

// mockQuestionRepo — мок QuestionRepository для unit-тестов.
type mockQuestionRepo struct {
	createFn    func(ctx context.Context, q *model.Question) error
	getByIDFn   func(ctx context.Context, id int) (*model.Question, error)
	maxNumberFn func(ctx context.Context, designID int) (int, error)
	listFn      func(ctx context.Context, designID int) ([]*model.Question, error)
}

func (m *mockQuestionRepo) Create(ctx context.Context, q *model.Question) error {
	if m.createFn != nil {
		return m.createFn(ctx, q)
	}
	q.ID = 1
	return nil
}

func (m *mockQuestionRepo) GetByID(ctx context.Context, id int) (*model.Question, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockQuestionRepo) GetByDesignAndNumber(ctx context.Context, designID, number int) (*model.Question, error) {
	return nil, repository.ErrNotFound
}

func (m *mockQuestionRepo) ListByDesign(ctx context.Context, designID int) ([]*model.Question, error) {
	if m.listFn != nil {
		return m.listFn(ctx, designID)
	}
	return nil, nil
}

func (m *mockQuestionRepo) MaxNumber(ctx context.Context, designID int) (int, error) {
	if m.maxNumberFn != nil {
		return m.maxNumberFn(ctx, designID)
	}
	return 0, nil
}

func (m *mockQuestionRepo) Update(ctx context.Context, q *model.Question) error { return nil }

func (m *mockQuestionRepo) SetNumber(ctx context.Context, id, number int) error { return nil }

func (m *mockQuestionRepo) ShiftNumbers(ctx context.Context, designID, delta int) error { return nil }

func (m *mockQuestionRepo) Delete(ctx context.Context, id int) error { return nil }

func ownerDesignRepo(ownerID int) *mockDesignRepo {
	return &mockDesignRepo{
		getByIDFn: func(_ context.Context, id int) (*model.SurveyDesign, error) {
			return &model.SurveyDesign{ID: id, UserID: ownerID, Name: "тестовый шаблон"}, nil
		},
	}
}

// --- Тесты QuestionService ---

// TestQuestionService_Append проверяет добавление в конец с номером max+1.
func TestQuestionService_Append(t *testing.T) {
	questions := &mockQuestionRepo{
		maxNumberFn: func(_ context.Context, _ int) (int, error) { return 3, nil },
		createFn: func(_ context.Context, q *model.Question) error {
			if q.Number != 4 {
				t.Errorf("Number = %d, ожидался 4", q.Number)
			}
			q.ID = 10
			return nil
		},
	}
	svc := NewQuestionService(questions, ownerDesignRepo(1), nil, nil, nil, slog.Default())

	q, err := svc.Append(context.Background(), 1, 1, QuestionInput{Text: "новый вопрос"})
	if err != nil {
		t.Fatalf("Append ошибка: %v", err)
	}
	if q.ID != 10 {
		t.Errorf("ID = %d, ожидался 10", q.ID)
	}
	if q.AnswerType != "text" {
		t.Errorf("AnswerType = %q, ожидался text", q.AnswerType)
	}
}

// TestQuestionService_Append_RetryOnConflict проверяет повтор
// при гонке за номер.
func TestQuestionService_Append_RetryOnConflict(t *testing.T) {
	max := 3
	attempts := 0
	questions := &mockQuestionRepo{
		maxNumberFn: func(_ context.Context, _ int) (int, error) { return max, nil },
		createFn: func(_ context.Context, q *model.Question) error {
			attempts++
			if attempts == 1 {
				// Параллельный запрос занял номер 4
				max = 4
				return repository.ErrConflict
			}
			if q.Number != 5 {
				t.Errorf("повторная попытка: Number = %d, ожидался 5", q.Number)
			}
			q.ID = 11
			return nil
		},
	}
	svc := NewQuestionService(questions, ownerDesignRepo(1), nil, nil, nil, slog.Default())

	q, err := svc.Append(context.Background(), 1, 1, QuestionInput{Text: "вопрос"})
	if err != nil {
		t.Fatalf("Append ошибка: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, ожидалось 2", attempts)
	}
	if q.Number != 5 {
		t.Errorf("Number = %d, ожидался 5", q.Number)
	}
}

// TestQuestionService_Append_ConflictTwice проверяет, что после
// второй неудачи возвращается ошибка.
func TestQuestionService_Append_ConflictTwice(t *testing.T) {
	questions := &mockQuestionRepo{
		createFn: func(_ context.Context, _ *model.Question) error {
			return repository.ErrConflict
		},
	}
	svc := NewQuestionService(questions, ownerDesignRepo(1), nil, nil, nil, slog.Default())

	if _, err := svc.Append(context.Background(), 1, 1, QuestionInput{Text: "вопрос"}); !errors.Is(err, repository.ErrConflict) {
		t.Errorf("ожидается ErrConflict, получено %v", err)
	}
}

// TestQuestionService_Append_ForeignDesign проверяет запрет
// добавления в чужой шаблон.
func TestQuestionService_Append_ForeignDesign(t *testing.T) {
	svc := NewQuestionService(&mockQuestionRepo{}, ownerDesignRepo(2), nil, nil, nil, slog.Default())

	if _, err := svc.Append(context.Background(), 1, 1, QuestionInput{Text: "вопрос"}); !errors.Is(err, ErrForbidden) {
		t.Errorf("ожидается ErrForbidden, получено %v", err)
	}
}

// TestQuestionService_Get_ForeignQuestion проверяет запрет доступа
// к вопросу чужого шаблона.
func TestQuestionService_Get_ForeignQuestion(t *testing.T) {
	questions := &mockQuestionRepo{
		getByIDFn: func(_ context.Context, id int) (*model.Question, error) {
			return &model.Question{ID: id, SurveyDesignID: 7, Number: 1}, nil
		},
	}
	svc := NewQuestionService(questions, ownerDesignRepo(99), nil, nil, nil, slog.Default())

	if _, err := svc.Get(context.Background(), 1, 1); !errors.Is(err, ErrForbidden) {
		t.Errorf("ожидается ErrForbidden, получено %v", err)
	}
}

// TestQuestionService_List проверяет получение вопросов шаблона.
func TestQuestionService_List(t *testing.T) {
	questions := &mockQuestionRepo{
		listFn: func(_ context.Context, designID int) ([]*model.Question, error) {
			return []*model.Question{
				{ID: 1, SurveyDesignID: designID, Number: 1},
				{ID: 2, SurveyDesignID: designID, Number: 2},
			}, nil
		},
	}
	svc := NewQuestionService(questions, ownerDesignRepo(1), nil, nil, nil, slog.Default())

	list, err := svc.List(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("List ошибка: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("len = %d, ожидалось 2", len(list))
	}
}
