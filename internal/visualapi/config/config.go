// Пакет config — загрузка и валидация конфигурации сервиса
// визуализаций (visual-api) из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Типы хранилища сессий загрузки.
const (
	// SessionStoreMemory — in-process LRU с TTL. Только один экземпляр сервиса.
	SessionStoreMemory = "memory"
	// SessionStoreRedis — общий Redis. Несколько реплик сервиса.
	SessionStoreRedis = "redis"
)

// Config содержит все параметры конфигурации visual-api.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- Сессии загрузки по частям ---

	// Тип хранилища сессий (memory, redis)
	SessionStore string
	// Время жизни незавершённой сессии
	SessionTTL time.Duration
	// Максимум одновременных сессий (только memory)
	SessionCapacity int
	// Максимальное число частей одной загрузки
	MaxChunks int

	// --- Redis (только при SessionStore == redis) ---

	// Адрес Redis (host:port)
	RedisAddr string
	// Пароль Redis
	RedisPassword string
	// Номер базы Redis
	RedisDB int

	// --- Мониторинг зависимостей ---

	// Группа в метриках topologymetrics
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// VZ_PORT — порт HTTP-сервера (по умолчанию 8081)
	cfg.Port, err = getEnvInt("VZ_PORT", 8081)
	if err != nil {
		return nil, fmt.Errorf("VZ_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("VZ_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// VZ_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("VZ_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("VZ_LOG_LEVEL: %w", err)
	}

	// VZ_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("VZ_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("VZ_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	// VZ_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("VZ_DB_HOST")
	if err != nil {
		return nil, err
	}

	// VZ_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("VZ_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("VZ_DB_PORT: %w", err)
	}

	// VZ_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("VZ_DB_NAME")
	if err != nil {
		return nil, err
	}

	// VZ_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("VZ_DB_USER")
	if err != nil {
		return nil, err
	}

	// VZ_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("VZ_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// VZ_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("VZ_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("VZ_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- Сессии загрузки ---

	// VZ_SESSION_STORE — тип хранилища сессий (по умолчанию memory)
	cfg.SessionStore = getEnvDefault("VZ_SESSION_STORE", SessionStoreMemory)
	if cfg.SessionStore != SessionStoreMemory && cfg.SessionStore != SessionStoreRedis {
		return nil, fmt.Errorf("VZ_SESSION_STORE: недопустимое значение %q, допустимые: memory, redis", cfg.SessionStore)
	}

	// VZ_SESSION_TTL — время жизни незавершённой сессии (по умолчанию 30m)
	cfg.SessionTTL, err = getEnvDuration("VZ_SESSION_TTL", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("VZ_SESSION_TTL: %w", err)
	}

	// VZ_SESSION_CAPACITY — максимум одновременных сессий (по умолчанию 1024)
	cfg.SessionCapacity, err = getEnvInt("VZ_SESSION_CAPACITY", 1024)
	if err != nil {
		return nil, fmt.Errorf("VZ_SESSION_CAPACITY: %w", err)
	}
	if cfg.SessionCapacity < 1 {
		return nil, fmt.Errorf("VZ_SESSION_CAPACITY: значение должно быть положительным")
	}

	// VZ_MAX_CHUNKS — максимум частей одной загрузки (по умолчанию 10000)
	cfg.MaxChunks, err = getEnvInt("VZ_MAX_CHUNKS", 10000)
	if err != nil {
		return nil, fmt.Errorf("VZ_MAX_CHUNKS: %w", err)
	}
	if cfg.MaxChunks < 1 {
		return nil, fmt.Errorf("VZ_MAX_CHUNKS: значение должно быть положительным")
	}

	// --- Redis ---

	if cfg.SessionStore == SessionStoreRedis {
		// VZ_REDIS_ADDR — обязательный при redis-хранилище
		cfg.RedisAddr, err = getEnvRequired("VZ_REDIS_ADDR")
		if err != nil {
			return nil, err
		}

		// VZ_REDIS_PASSWORD — пароль Redis (по умолчанию пустой)
		cfg.RedisPassword = getEnvDefault("VZ_REDIS_PASSWORD", "")

		// VZ_REDIS_DB — номер базы Redis (по умолчанию 0)
		cfg.RedisDB, err = getEnvInt("VZ_REDIS_DB", 0)
		if err != nil {
			return nil, fmt.Errorf("VZ_REDIS_DB: %w", err)
		}
	}

	// --- Мониторинг зависимостей ---

	// VZ_DEPHEALTH_GROUP — группа topologymetrics (по умолчанию survey-tool)
	cfg.DephealthGroup = getEnvDefault("VZ_DEPHEALTH_GROUP", "survey-tool")

	// VZ_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("VZ_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("VZ_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	// VZ_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("VZ_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("VZ_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL подключения к PostgreSQL
// (для topologymetrics — лейблы метрик, не для подключения).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
