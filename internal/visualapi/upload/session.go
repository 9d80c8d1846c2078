// Пакет upload содержит сессии поблочной загрузки и их хранилища.
package upload

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound возвращается хранилищем, если сессия не найдена
// или её срок жизни истёк.
var ErrSessionNotFound = errors.New("сессия загрузки не найдена")

// Session — состояние одной поблочной загрузки.
type Session struct {
	// ID — идентификатор сессии, выдаётся при инициализации.
	ID string `json:"id"`
	// ResourceID — идентификатор визуализации, в которую идёт загрузка.
	ResourceID int `json:"resourceId"`
	// TotalChunks — ожидаемое количество блоков.
	TotalChunks int `json:"totalChunks"`
	// FileSize — заявленный размер файла в байтах.
	FileSize int64 `json:"fileSize"`
	// Chunks — полученные блоки по индексам.
	Chunks []string `json:"chunks"`
	// Filled отмечает, какие индексы уже заполнены. Повторная отправка
	// блока не увеличивает счётчик полученных.
	Filled []bool `json:"filled"`
	// CreatedAt — момент инициализации сессии.
	CreatedAt time.Time `json:"createdAt"`
}

// Received возвращает количество заполненных блоков.
func (s *Session) Received() int {
	n := 0
	for _, ok := range s.Filled {
		if ok {
			n++
		}
	}
	return n
}

// Complete сообщает, получены ли все блоки.
func (s *Session) Complete() bool {
	return s.Received() == s.TotalChunks
}

// SessionStore — хранилище сессий загрузки. Реализации: память
// с вытеснением по TTL и Redis.
type SessionStore interface {
	// Get возвращает сессию по идентификатору.
	Get(ctx context.Context, id string) (*Session, error)
	// Put сохраняет сессию, продлевая её срок жизни.
	Put(ctx context.Context, s *Session) error
	// Delete удаляет сессию. Отсутствие сессии не считается ошибкой.
	Delete(ctx context.Context, id string) error
}
