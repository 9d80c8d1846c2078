// Пакет model — доменные модели основного сервиса.
package model

import "time"

// User — зарегистрированный пользователь.
// Хранится в таблице users.
type User struct {
	// ID — идентификатор записи
	ID int
	// Name — уникальное имя пользователя
	Name string
	// Password — хеш пароля (argon2id, формат salt:hash)
	Password string
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}
