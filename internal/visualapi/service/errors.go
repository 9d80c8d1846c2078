// errors.go — ошибки бизнес-логики сервиса визуализаций.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
)

// IncompleteUploadError возвращается при попытке завершить загрузку,
// для которой получены не все блоки.
type IncompleteUploadError struct {
	// Received — количество полученных блоков.
	Received int
	// Expected — ожидаемое количество блоков.
	Expected int
}

func (e *IncompleteUploadError) Error() string {
	return fmt.Sprintf("загрузка не завершена: получено %d из %d блоков", e.Received, e.Expected)
}
