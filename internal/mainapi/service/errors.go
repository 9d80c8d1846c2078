// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrConflict — конфликт (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт — ресурс уже существует")
	// ErrForbidden — доступ к чужому ресурсу запрещён.
	ErrForbidden = errors.New("доступ запрещён")
	// ErrUnauthorized — неверные учётные данные.
	ErrUnauthorized = errors.New("неверное имя пользователя или пароль")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrSurveyClosed — опубликованный опрос закрыт, ответы не принимаются.
	ErrSurveyClosed = errors.New("опрос закрыт")
	// ErrVisualUnavailable — сервис визуализаций недоступен.
	ErrVisualUnavailable = errors.New("сервис визуализаций недоступен")
)
