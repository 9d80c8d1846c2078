package repository

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/config"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/database"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/domain/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// setupTestDB запускает PostgreSQL контейнер, применяет миграции.
// Возвращает pgxpool.Pool, контейнер останавливается через t.Cleanup.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("visuals_test"),
		postgres.WithUsername("visuals"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}

	// Настраиваем env для config.Load()
	os.Setenv("VZ_DB_HOST", host)
	os.Setenv("VZ_DB_PORT", port.Port())
	os.Setenv("VZ_DB_NAME", "visuals_test")
	os.Setenv("VZ_DB_USER", "visuals")
	os.Setenv("VZ_DB_PASSWORD", "test-password")
	os.Setenv("VZ_DB_SSL_MODE", "disable")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if err := database.Migrate(cfg, logger); err != nil {
		t.Fatalf("Ошибка миграций: %v", err)
	}

	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Ошибка подключения: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

// TestVisualizationCRUD проверяет жизненный цикл SVG-содержимого.
func TestVisualizationCRUD(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewVisualizationRepository(pool)

	v := &model.Visualization{SVG: "<svg></svg>", DetailsOnHover: true}
	if err := repo.Create(ctx, v); err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}
	if v.ID == 0 {
		t.Fatal("Create не заполнил ID")
	}
	if v.CreatedAt.IsZero() || v.UpdatedAt.IsZero() {
		t.Error("Create не заполнил метки времени")
	}

	got, err := repo.GetByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetByID ошибка: %v", err)
	}
	if got.SVG != "<svg></svg>" || !got.DetailsOnHover {
		t.Errorf("получено svg=%q detailsOnHover=%v", got.SVG, got.DetailsOnHover)
	}

	got.SVG = "<svg><rect/></svg>"
	got.DetailsOnHover = false
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update ошибка: %v", err)
	}

	got, err = repo.GetByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("повторный GetByID ошибка: %v", err)
	}
	if got.SVG != "<svg><rect/></svg>" || got.DetailsOnHover {
		t.Errorf("после Update: svg=%q detailsOnHover=%v", got.SVG, got.DetailsOnHover)
	}

	if err := repo.UpdateSVG(ctx, v.ID, "<svg id=\"x\"/>"); err != nil {
		t.Fatalf("UpdateSVG ошибка: %v", err)
	}
	got, err = repo.GetByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetByID после UpdateSVG ошибка: %v", err)
	}
	if got.SVG != "<svg id=\"x\"/>" {
		t.Errorf("после UpdateSVG: svg=%q", got.SVG)
	}
	if got.DetailsOnHover {
		t.Error("UpdateSVG не должен менять details_on_hover")
	}

	if err := repo.Delete(ctx, v.ID); err != nil {
		t.Fatalf("Delete ошибка: %v", err)
	}
	if _, err := repo.GetByID(ctx, v.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("после Delete: ожидается ErrNotFound, получено %v", err)
	}
}

// TestVisualizationNotFound проверяет ErrNotFound на отсутствующих записях.
func TestVisualizationNotFound(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewVisualizationRepository(pool)

	if _, err := repo.GetByID(ctx, 999999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID: ожидается ErrNotFound, получено %v", err)
	}
	if err := repo.UpdateSVG(ctx, 999999, "<svg/>"); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateSVG: ожидается ErrNotFound, получено %v", err)
	}
	if err := repo.Delete(ctx, 999999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: ожидается ErrNotFound, получено %v", err)
	}
}
