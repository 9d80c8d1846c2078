package config

import (
	"log/slog"
	"testing"
	"time"
)

// setEnvs устанавливает переменные окружения на время теста.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

// minimalEnvs возвращает минимальный набор обязательных переменных.
func minimalEnvs() map[string]string {
	return map[string]string{
		"MA_DB_HOST":     "localhost",
		"MA_DB_NAME":     "survey",
		"MA_DB_USER":     "survey",
		"MA_DB_PASSWORD": "secret",
		"MA_JWT_SECRET":  "super-secret-signing-key",
		"MA_VISUAL_URL":  "http://localhost:8081",
	}
}

func TestLoad_MinimalConfig(t *testing.T) {
	setEnvs(t, minimalEnvs())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	// Проверяем значения по умолчанию
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, ожидается 8080", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, ожидается Info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, ожидается json", cfg.LogFormat)
	}
	if cfg.DBPort != 5432 {
		t.Errorf("DBPort = %d, ожидается 5432", cfg.DBPort)
	}
	if cfg.DBSSLMode != "disable" {
		t.Errorf("DBSSLMode = %q, ожидается disable", cfg.DBSSLMode)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Errorf("JWTTTL = %v, ожидается 24h", cfg.JWTTTL)
	}
	if cfg.VisualTimeout != 2*time.Minute {
		t.Errorf("VisualTimeout = %v, ожидается 2m", cfg.VisualTimeout)
	}
	if cfg.DephealthCheckInterval != 15*time.Second {
		t.Errorf("DephealthCheckInterval = %v, ожидается 15s", cfg.DephealthCheckInterval)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, ожидается 5s", cfg.ShutdownTimeout)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	envs := minimalEnvs()
	delete(envs, "MA_JWT_SECRET")
	setEnvs(t, envs)
	t.Setenv("MA_JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() без MA_JWT_SECRET должен вернуть ошибку")
	}
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	envs := minimalEnvs()
	envs["MA_JWT_SECRET"] = "short"
	setEnvs(t, envs)

	if _, err := Load(); err == nil {
		t.Fatal("Load() с коротким секретом должен вернуть ошибку")
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	envs := minimalEnvs()
	envs["MA_LOG_LEVEL"] = "verbose"
	setEnvs(t, envs)

	if _, err := Load(); err == nil {
		t.Fatal("Load() с недопустимым уровнем логирования должен вернуть ошибку")
	}
}

func TestLoad_TrimsVisualURL(t *testing.T) {
	envs := minimalEnvs()
	envs["MA_VISUAL_URL"] = "http://visual:8081/"
	setEnvs(t, envs)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}
	if cfg.VisualURL != "http://visual:8081" {
		t.Errorf("VisualURL = %q, trailing slash должен быть убран", cfg.VisualURL)
	}
}

func TestDatabaseDSN(t *testing.T) {
	setEnvs(t, minimalEnvs())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	want := "host=localhost port=5432 dbname=survey user=survey password=secret sslmode=disable"
	if got := cfg.DatabaseDSN(); got != want {
		t.Errorf("DatabaseDSN() = %q, ожидается %q", got, want)
	}
}
