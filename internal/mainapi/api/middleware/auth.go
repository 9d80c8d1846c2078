// auth.go — JWT middleware аутентификации основного сервиса.
// Извлекает Bearer token, проверяет подпись (HS256) и помещает
// идентификатор пользователя в контекст запроса.
package middleware

import (
	"context"
	"net/http"
	"strings"

	apierrors "github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/api/errors"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/auth"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

const (
	// ContextKeyUserID — идентификатор аутентифицированного пользователя.
	ContextKeyUserID contextKey = "user_id"
	// ContextKeyUsername — имя аутентифицированного пользователя.
	ContextKeyUsername contextKey = "username"
)

// JWTAuth — middleware JWT-аутентификации.
type JWTAuth struct {
	issuer *auth.TokenIssuer
}

// NewJWTAuth создаёт JWT middleware.
func NewJWTAuth(issuer *auth.TokenIssuer) *JWTAuth {
	return &JWTAuth{issuer: issuer}
}

// Middleware возвращает HTTP middleware для JWT-аутентификации.
func (j *JWTAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apierrors.Unauthorized(w, "отсутствует заголовок Authorization")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				apierrors.Unauthorized(w, "неверный формат Authorization: ожидается Bearer <token>")
				return
			}

			userID, username, err := j.issuer.Verify(parts[1])
			if err != nil {
				apierrors.Unauthorized(w, "невалидный или просроченный токен")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, userID)
			ctx = context.WithValue(ctx, ContextKeyUsername, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// --- Context helpers ---

// UserIDFromContext извлекает идентификатор пользователя из контекста.
// Возвращает 0, если пользователь не аутентифицирован.
func UserIDFromContext(ctx context.Context) int {
	id, _ := ctx.Value(ContextKeyUserID).(int)
	return id
}

// UsernameFromContext извлекает имя пользователя из контекста.
func UsernameFromContext(ctx context.Context) string {
	name, _ := ctx.Value(ContextKeyUsername).(string)
	return name
}
