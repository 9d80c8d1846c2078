// Пакет auth — хеширование паролей и выпуск/проверка JWT.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Параметры argon2id.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 1
	argonKeyLen  = 32
	saltLen      = 16
)

// ErrPasswordMismatch — пароль не совпадает с хешем.
var ErrPasswordMismatch = errors.New("неверный пароль")

// HashPassword хеширует пароль через argon2id.
// Формат результата: base64(salt):base64(hash).
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("ошибка генерации соли: %w", err)
	}
	encodedSalt := base64.StdEncoding.EncodeToString(salt)

	hash := argon2.IDKey([]byte(password), []byte(encodedSalt),
		argonTime, argonMemory, argonThreads, argonKeyLen)

	return encodedSalt + ":" + base64.StdEncoding.EncodeToString(hash), nil
}

// VerifyPassword сравнивает пароль с хешем в формате salt:hash.
// Возвращает ErrPasswordMismatch при несовпадении.
func VerifyPassword(password, hashString string) error {
	parts := strings.SplitN(hashString, ":", 2)
	if len(parts) != 2 {
		return errors.New("некорректный формат хеша пароля")
	}

	expected, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return fmt.Errorf("некорректный формат хеша пароля: %w", err)
	}

	actual := argon2.IDKey([]byte(password), []byte(parts[0]),
		argonTime, argonMemory, argonThreads, argonKeyLen)

	if subtle.ConstantTimeCompare(expected, actual) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
