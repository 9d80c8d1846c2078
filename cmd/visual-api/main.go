// Точка входа visual-api — сервис хранения SVG-содержимого визуализаций.
// Загружает конфигурацию, подключается к PostgreSQL, применяет миграции,
// создаёт хранилище сессий поблочной загрузки (память или Redis),
// сервисный слой и API handlers, запускает topologymetrics
// и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/api/handlers"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/config"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/database"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/repository"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/server"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/service"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/visualapi/upload"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("visual-api запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("session_store", cfg.SessionStore),
	)

	if os.Getenv("VZ_DEPHEALTH_GROUP") == "" {
		logger.Warn("VZ_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode)
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Хранилище сессий поблочной загрузки
	var sessionStore upload.SessionStore
	var redisChecker handlers.ReadinessChecker
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("Ошибка подключения к Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		sessionStore = upload.NewRedisStore(redisClient, cfg.SessionTTL)
		redisChecker = upload.NewRedisChecker(redisClient)
		logger.Info("Хранилище сессий: Redis", slog.String("addr", cfg.RedisAddr))
	default:
		sessionStore = upload.NewMemoryStore(cfg.SessionCapacity, cfg.SessionTTL)
		logger.Info("Хранилище сессий: память процесса",
			slog.Int("capacity", cfg.SessionCapacity),
			slog.String("ttl", cfg.SessionTTL.String()),
		)
	}

	// 6. Repositories
	visualRepo := repository.NewVisualizationRepository(pool)

	// 7. Services
	visualsSvc := service.NewVisualizationService(visualRepo, logger)
	uploadsSvc := service.NewUploadService(sessionStore, visualRepo, cfg.MaxChunks, logger)

	// 8. topologymetrics — мониторинг зависимостей (PostgreSQL)
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"visual-api",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 9. Handlers
	pgChecker := database.NewReadinessChecker(pool)
	h := server.Handlers{
		Visualizations: handlers.NewVisualizationsHandler(visualsSvc, logger),
		Uploads:        handlers.NewUploadsHandler(uploadsSvc, logger),
		Health:         handlers.NewHealthHandler(pgChecker, redisChecker),
	}

	// 10. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, h)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 11. Graceful shutdown фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("visual-api остановлен")
}
