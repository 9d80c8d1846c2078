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
		"VZ_DB_HOST":     "localhost",
		"VZ_DB_NAME":     "visual",
		"VZ_DB_USER":     "visual",
		"VZ_DB_PASSWORD": "secret",
	}
}

func TestLoad_MinimalConfig(t *testing.T) {
	setEnvs(t, minimalEnvs())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	// Проверяем значения по умолчанию
	if cfg.Port != 8081 {
		t.Errorf("Port = %d, ожидается 8081", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, ожидается Info", cfg.LogLevel)
	}
	if cfg.SessionStore != SessionStoreMemory {
		t.Errorf("SessionStore = %q, ожидается memory", cfg.SessionStore)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v, ожидается 30m", cfg.SessionTTL)
	}
	if cfg.SessionCapacity != 1024 {
		t.Errorf("SessionCapacity = %d, ожидается 1024", cfg.SessionCapacity)
	}
	if cfg.MaxChunks != 10000 {
		t.Errorf("MaxChunks = %d, ожидается 10000", cfg.MaxChunks)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, ожидается 5s", cfg.ShutdownTimeout)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	envs := minimalEnvs()
	delete(envs, "VZ_DB_HOST")
	setEnvs(t, envs)
	t.Setenv("VZ_DB_HOST", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() без VZ_DB_HOST должен вернуть ошибку")
	}
}

func TestLoad_RedisStoreRequiresAddr(t *testing.T) {
	envs := minimalEnvs()
	envs["VZ_SESSION_STORE"] = "redis"
	setEnvs(t, envs)

	if _, err := Load(); err == nil {
		t.Fatal("Load() с VZ_SESSION_STORE=redis без VZ_REDIS_ADDR должен вернуть ошибку")
	}

	t.Setenv("VZ_REDIS_ADDR", "localhost:6379")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
}

func TestLoad_InvalidSessionStore(t *testing.T) {
	envs := minimalEnvs()
	envs["VZ_SESSION_STORE"] = "memcached"
	setEnvs(t, envs)

	if _, err := Load(); err == nil {
		t.Fatal("Load() с недопустимым VZ_SESSION_STORE должен вернуть ошибку")
	}
}

func TestDatabaseDSN(t *testing.T) {
	setEnvs(t, minimalEnvs())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	want := "host=localhost port=5432 dbname=visual user=visual password=secret sslmode=disable"
	if got := cfg.DatabaseDSN(); got != want {
		t.Errorf("DatabaseDSN() = %q, ожидается %q", got, want)
	}
}
