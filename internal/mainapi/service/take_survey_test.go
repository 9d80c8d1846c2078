package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/domain/model"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/repository"
)

// --- Mock repository ---

// mockPublishedRepo — мок PublishedSurveyRepository для unit-тестов.
type mockPublishedRepo struct {
	getByLinkHashFn func(ctx context.Context, linkHash string) (*model.PublishedSurvey, error)
	appendResultFn  func(ctx context.Context, id int, result model.ParticipantResult) error
}

func (m *mockPublishedRepo) Create(ctx context.Context, ps *model.PublishedSurvey) error { return nil }

func (m *mockPublishedRepo) GetByID(ctx context.Context, id int) (*model.PublishedSurvey, error) {
	return nil, repository.ErrNotFound
}

func (m *mockPublishedRepo) GetByLinkHash(ctx context.Context, linkHash string) (*model.PublishedSurvey, error) {
	if m.getByLinkHashFn != nil {
		return m.getByLinkHashFn(ctx, linkHash)
	}
	return nil, repository.ErrNotFound
}

func (m *mockPublishedRepo) ListByUser(ctx context.Context, userID int) ([]*model.PublishedSurvey, error) {
	return nil, nil
}

func (m *mockPublishedRepo) Update(ctx context.Context, ps *model.PublishedSurvey) error {
	return nil
}

func (m *mockPublishedRepo) AppendResult(ctx context.Context, id int, result model.ParticipantResult) error {
	if m.appendResultFn != nil {
		return m.appendResultFn(ctx, id, result)
	}
	return nil
}

func (m *mockPublishedRepo) Delete(ctx context.Context, id int) error { return nil }

// --- Тесты TakeSurveyService ---

// TestTakeSurveyService_Get проверяет получение опроса по хешу ссылки.
func TestTakeSurveyService_Get(t *testing.T) {
	repo := &mockPublishedRepo{
		getByLinkHashFn: func(_ context.Context, linkHash string) (*model.PublishedSurvey, error) {
			if linkHash != "abc-123" {
				t.Errorf("linkHash = %q, ожидался abc-123", linkHash)
			}
			return &model.PublishedSurvey{ID: 1, LinkHash: linkHash, Status: model.PublishedStatusInProgress}, nil
		},
	}
	svc := NewTakeSurveyService(repo, slog.Default())

	ps, err := svc.Get(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("Get ошибка: %v", err)
	}
	if ps.ID != 1 {
		t.Errorf("ID = %d, ожидался 1", ps.ID)
	}
}

// TestTakeSurveyService_Get_UnknownLink проверяет неизвестный хеш.
func TestTakeSurveyService_Get_UnknownLink(t *testing.T) {
	svc := NewTakeSurveyService(&mockPublishedRepo{}, slog.Default())

	if _, err := svc.Get(context.Background(), "нет-такого"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ожидается ErrNotFound, получено %v", err)
	}
}

// TestTakeSurveyService_Submit проверяет сохранение ответов участника.
func TestTakeSurveyService_Submit(t *testing.T) {
	var saved model.ParticipantResult
	repo := &mockPublishedRepo{
		getByLinkHashFn: func(_ context.Context, linkHash string) (*model.PublishedSurvey, error) {
			return &model.PublishedSurvey{ID: 3, LinkHash: linkHash, Status: model.PublishedStatusInProgress}, nil
		},
		appendResultFn: func(_ context.Context, id int, result model.ParticipantResult) error {
			if id != 3 {
				t.Errorf("id = %d, ожидался 3", id)
			}
			saved = result
			return nil
		},
	}
	svc := NewTakeSurveyService(repo, slog.Default())

	answers := []model.ParticipantAnswer{{QuestionNumber: 1, Value: "да"}}
	if err := svc.Submit(context.Background(), "abc", answers); err != nil {
		t.Fatalf("Submit ошибка: %v", err)
	}
	if len(saved.Answers) != 1 || saved.Answers[0].Value != "да" {
		t.Errorf("ответы сохранены некорректно: %+v", saved.Answers)
	}
	if saved.SubmittedAt.IsZero() {
		t.Error("SubmittedAt не проставлен")
	}
}

// TestTakeSurveyService_Submit_Closed проверяет отказ для закрытого опроса.
func TestTakeSurveyService_Submit_Closed(t *testing.T) {
	repo := &mockPublishedRepo{
		getByLinkHashFn: func(_ context.Context, linkHash string) (*model.PublishedSurvey, error) {
			return &model.PublishedSurvey{ID: 3, LinkHash: linkHash, Status: model.PublishedStatusClosed}, nil
		},
	}
	svc := NewTakeSurveyService(repo, slog.Default())

	err := svc.Submit(context.Background(), "abc", nil)
	if !errors.Is(err, ErrSurveyClosed) {
		t.Errorf("ожидается ErrSurveyClosed, получено %v", err)
	}
}
