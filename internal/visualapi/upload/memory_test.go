package upload

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestMemoryStore_PutGetDelete проверяет базовый цикл работы хранилища.
func TestMemoryStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(4, time.Minute)

	s := &Session{
		ID:          "u-1",
		ResourceID:  7,
		TotalChunks: 2,
		Chunks:      []string{"a", ""},
		Filled:      []bool{true, false},
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.Put(ctx, s); err != nil {
		t.Fatalf("Put ошибка: %v", err)
	}

	got, err := store.Get(ctx, "u-1")
	if err != nil {
		t.Fatalf("Get ошибка: %v", err)
	}
	if got.ResourceID != 7 || got.Received() != 1 {
		t.Errorf("получено resourceID=%d received=%d, ожидалось 7/1", got.ResourceID, got.Received())
	}

	if err := store.Delete(ctx, "u-1"); err != nil {
		t.Fatalf("Delete ошибка: %v", err)
	}
	if _, err := store.Get(ctx, "u-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("после Delete: ожидается ErrSessionNotFound, получено %v", err)
	}
}

// TestMemoryStore_GetReturnsCopy проверяет, что изменения сессии
// применяются только через Put.
func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(4, time.Minute)

	s := &Session{
		ID:          "u-2",
		TotalChunks: 1,
		Chunks:      []string{""},
		Filled:      []bool{false},
	}
	if err := store.Put(ctx, s); err != nil {
		t.Fatalf("Put ошибка: %v", err)
	}

	first, err := store.Get(ctx, "u-2")
	if err != nil {
		t.Fatalf("Get ошибка: %v", err)
	}
	first.Chunks[0] = "мусор"
	first.Filled[0] = true

	second, err := store.Get(ctx, "u-2")
	if err != nil {
		t.Fatalf("повторный Get ошибка: %v", err)
	}
	if second.Filled[0] || second.Chunks[0] != "" {
		t.Error("изменение копии не должно затрагивать хранилище")
	}
}

// TestMemoryStore_CapacityEviction проверяет вытеснение по ёмкости.
func TestMemoryStore_CapacityEviction(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(1, time.Minute)

	_ = store.Put(ctx, &Session{ID: "старая"})
	_ = store.Put(ctx, &Session{ID: "новая"})

	if _, err := store.Get(ctx, "старая"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("вытесненная сессия: ожидается ErrSessionNotFound, получено %v", err)
	}
	if _, err := store.Get(ctx, "новая"); err != nil {
		t.Errorf("свежая сессия должна остаться: %v", err)
	}
}
