// users.go — сервис регистрации и аутентификации пользователей.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/auth"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/domain/model"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/repository"
)

// UserService — сервис пользователей.
type UserService struct {
	userRepo repository.UserRepository
	issuer   *auth.TokenIssuer
	logger   *slog.Logger
}

// NewUserService создаёт сервис пользователей.
func NewUserService(userRepo repository.UserRepository, issuer *auth.TokenIssuer, logger *slog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		issuer:   issuer,
		logger:   logger.With(slog.String("component", "user_service")),
	}
}

// Register регистрирует нового пользователя и сразу выпускает токен.
func (s *UserService) Register(ctx context.Context, name, password string) (*model.User, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", fmt.Errorf("%w: имя пользователя не задано", ErrValidation)
	}
	if len(password) < 4 {
		return nil, "", fmt.Errorf("%w: пароль короче 4 символов", ErrValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("хеширование пароля: %w", err)
	}

	user := &model.User{Name: name, Password: hash}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, "", fmt.Errorf("%w: имя '%s' уже занято", ErrConflict, name)
		}
		return nil, "", fmt.Errorf("создание пользователя: %w", err)
	}

	token, err := s.issuer.Issue(user.ID, user.Name)
	if err != nil {
		return nil, "", fmt.Errorf("выпуск токена: %w", err)
	}

	s.logger.Info("Пользователь зарегистрирован",
		slog.Int("user_id", user.ID),
		slog.String("name", user.Name),
	)

	return user, token, nil
}

// Login проверяет учётные данные и выпускает токен.
func (s *UserService) Login(ctx context.Context, name, password string) (*model.User, string, error) {
	user, err := s.userRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Не раскрываем, существует ли пользователь
			return nil, "", ErrUnauthorized
		}
		return nil, "", fmt.Errorf("получение пользователя: %w", err)
	}

	if err := auth.VerifyPassword(password, user.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, "", ErrUnauthorized
		}
		return nil, "", fmt.Errorf("проверка пароля: %w", err)
	}

	token, err := s.issuer.Issue(user.ID, user.Name)
	if err != nil {
		return nil, "", fmt.Errorf("выпуск токена: %w", err)
	}

	s.logger.Info("Пользователь вошёл в систему",
		slog.Int("user_id", user.ID),
	)

	return user, token, nil
}

// Get возвращает пользователя по идентификатору.
func (s *UserService) Get(ctx context.Context, id int) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return user, nil
}

// Delete удаляет пользователя вместе со всеми его данными (ON DELETE CASCADE).
func (s *UserService) Delete(ctx context.Context, id int) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("удаление пользователя: %w", err)
	}

	s.logger.Info("Пользователь удалён", slog.Int("user_id", id))
	return nil
}
