package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/domain/model"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/repository"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/visualclient"
)

// mockVisualRepo — мок VisualizationRepository для unit-тестов.
type mockVisualRepo struct {
	getByIDFn func(ctx context.Context, id int) (*model.Visualization, error)
}

func (m *mockVisualRepo) Create(ctx context.Context, v *model.Visualization) error { return nil }

func (m *mockVisualRepo) GetByID(ctx context.Context, id int) (*model.Visualization, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockVisualRepo) ListByUser(ctx context.Context, userID int) ([]*model.Visualization, error) {
	return nil, nil
}

func (m *mockVisualRepo) Update(ctx context.Context, v *model.Visualization) error { return nil }

func (m *mockVisualRepo) Delete(ctx context.Context, id int) error { return nil }

// fakeEngine — httptest-заглушка сервиса визуализаций для импорта.
// Хранит содержимое по id и отдаёт новым копиям id начиная с nextID.
type fakeEngine struct {
	content map[int]visualclient.Content
	nextID  int
	created []int
	deleted []int
	updated []int
}

func (e *fakeEngine) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/visualizations":
			var body visualclient.Content
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("ошибка декодирования тела запроса: %v", err)
			}
			body.ID = e.nextID
			e.nextID++
			e.content[body.ID] = body
			e.created = append(e.created, body.ID)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(body)
		case r.Method == http.MethodGet:
			id := pathContentID(t, r.URL.Path)
			c, ok := e.content[id]
			if !ok {
				http.Error(w, `{"error": "не найдено"}`, http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(c)
		case r.Method == http.MethodPut:
			id := pathContentID(t, r.URL.Path)
			var body visualclient.Content
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("ошибка декодирования тела запроса: %v", err)
			}
			body.ID = id
			e.content[id] = body
			e.updated = append(e.updated, id)
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodDelete:
			id := pathContentID(t, r.URL.Path)
			delete(e.content, id)
			e.deleted = append(e.deleted, id)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("неожиданный запрос: %s %s", r.Method, r.URL.Path)
		}
	})
}

func pathContentID(t *testing.T, path string) int {
	t.Helper()
	id, err := strconv.Atoi(strings.TrimPrefix(path, "/visualizations/"))
	if err != nil {
		t.Fatalf("некорректный путь %q: %v", path, err)
	}
	return id
}

// importFixture собирает сервис вопросов с fake-движком:
// визуализация 10 пользователя 1 ссылается на содержимое 77.
func importFixture(t *testing.T, q *model.Question) (*QuestionService, *fakeEngine) {
	t.Helper()

	engine := &fakeEngine{
		content: map[int]visualclient.Content{
			77: {ID: 77, SVG: "<svg><circle/></svg>", DetailsOnHover: true},
		},
		nextID: 500,
	}
	srv := httptest.NewServer(engine.handler(t))
	t.Cleanup(srv.Close)

	contentID := 77
	visuals := &mockVisualRepo{
		getByIDFn: func(_ context.Context, id int) (*model.Visualization, error) {
			if id != 10 {
				return nil, repository.ErrNotFound
			}
			return &model.Visualization{ID: 10, UserID: 1, Name: "диаграмма", ContentID: &contentID}, nil
		},
	}
	questions := &mockQuestionRepo{
		getByIDFn: func(_ context.Context, id int) (*model.Question, error) {
			return q, nil
		},
	}

	client := visualclient.New(srv.URL, 5*time.Second, slog.Default())
	return NewQuestionService(questions, ownerDesignRepo(1), visuals, nil, client, slog.Default()), engine
}

// TestQuestionService_Update_ImportCopiesContent проверяет, что импорт
// создаёт копию SVG, принадлежащую вопросу, а не ссылку на содержимое
// визуализации пользователя.
func TestQuestionService_Update_ImportCopiesContent(t *testing.T) {
	q := &model.Question{ID: 5, SurveyDesignID: 1, Number: 1, Text: "вопрос"}
	svc, engine := importFixture(t, q)

	vizID := 10
	got, err := svc.Update(context.Background(), 1, 5, QuestionInput{Text: "вопрос", VisualizationID: &vizID})
	if err != nil {
		t.Fatalf("Update ошибка: %v", err)
	}

	if got.VisualizationContentID == nil {
		t.Fatal("после импорта у вопроса нет content id")
	}
	if *got.VisualizationContentID == 77 {
		t.Fatal("вопрос ссылается на content id визуализации пользователя: удаление вопроса уничтожило бы её содержимое")
	}
	if len(engine.created) != 1 || engine.created[0] != *got.VisualizationContentID {
		t.Fatalf("ожидалась одна копия в движке, created=%v", engine.created)
	}
	copied := engine.content[*got.VisualizationContentID]
	if copied.SVG != "<svg><circle/></svg>" || !copied.DetailsOnHover {
		t.Errorf("копия не совпадает с исходным содержимым: %+v", copied)
	}
}

// TestQuestionService_Update_ImportReusesOwnCopy проверяет, что повторный
// импорт заменяет содержимое существующей копии вопроса вместо создания новой.
func TestQuestionService_Update_ImportReusesOwnCopy(t *testing.T) {
	ownCopy := 300
	q := &model.Question{ID: 5, SurveyDesignID: 1, Number: 1, Text: "вопрос", VisualizationContentID: &ownCopy}
	svc, engine := importFixture(t, q)
	engine.content[300] = visualclient.Content{ID: 300, SVG: "<svg>устаревшее</svg>"}

	vizID := 10
	got, err := svc.Update(context.Background(), 1, 5, QuestionInput{Text: "вопрос", VisualizationID: &vizID})
	if err != nil {
		t.Fatalf("Update ошибка: %v", err)
	}

	if got.VisualizationContentID == nil || *got.VisualizationContentID != 300 {
		t.Fatalf("ожидалась замена в копии 300, получено %v", got.VisualizationContentID)
	}
	if len(engine.created) != 0 {
		t.Errorf("копия уже была, новых создаваться не должно: created=%v", engine.created)
	}
	if len(engine.updated) != 1 || engine.updated[0] != 300 {
		t.Fatalf("ожидался один PUT в копию 300, updated=%v", engine.updated)
	}
	if engine.content[300].SVG != "<svg><circle/></svg>" {
		t.Errorf("содержимое копии не заменено: %q", engine.content[300].SVG)
	}
}

// TestQuestionService_Update_DetachDeletesOwnCopy проверяет, что отвязка
// зачищает копию вопроса в движке.
func TestQuestionService_Update_DetachDeletesOwnCopy(t *testing.T) {
	ownCopy := 300
	q := &model.Question{ID: 5, SurveyDesignID: 1, Number: 1, Text: "вопрос", VisualizationContentID: &ownCopy}
	svc, engine := importFixture(t, q)
	engine.content[300] = visualclient.Content{ID: 300, SVG: "<svg/>"}

	detach := -1
	got, err := svc.Update(context.Background(), 1, 5, QuestionInput{Text: "вопрос", VisualizationID: &detach})
	if err != nil {
		t.Fatalf("Update ошибка: %v", err)
	}

	if got.VisualizationContentID != nil {
		t.Errorf("после отвязки content id должен быть nil, получено %d", *got.VisualizationContentID)
	}
	if len(engine.deleted) != 1 || engine.deleted[0] != 300 {
		t.Errorf("ожидалось удаление копии 300, deleted=%v", engine.deleted)
	}
	if _, ok := engine.content[77]; !ok {
		t.Error("содержимое визуализации пользователя не должно затрагиваться")
	}
}

// TestQuestionService_Update_ImportForeignVisualization проверяет запрет
// импорта чужой визуализации.
func TestQuestionService_Update_ImportForeignVisualization(t *testing.T) {
	q := &model.Question{ID: 5, SurveyDesignID: 1, Number: 1, Text: "вопрос"}
	svc, _ := importFixture(t, q)

	vizID := 10
	// Визуализация принадлежит пользователю 2
	visuals := &mockVisualRepo{
		getByIDFn: func(_ context.Context, _ int) (*model.Visualization, error) {
			other := 88
			return &model.Visualization{ID: 10, UserID: 2, ContentID: &other}, nil
		},
	}
	svc.visualRepo = visuals

	if _, err := svc.Update(context.Background(), 1, 5, QuestionInput{Text: "вопрос", VisualizationID: &vizID}); !errors.Is(err, ErrForbidden) {
		t.Errorf("ожидается ErrForbidden, получено %v", err)
	}
}
