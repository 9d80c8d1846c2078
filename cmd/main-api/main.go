// Точка входа main-api — основной сервис конструктора опросов.
// Загружает конфигурацию, подключается к PostgreSQL, применяет миграции,
// создаёт клиент сервиса визуализаций, сервисный слой и API handlers,
// запускает topologymetrics и HTTP-сервер с JWT middleware
// и graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/api/handlers"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/api/middleware"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/auth"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/config"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/database"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/repository"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/server"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/service"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/visualclient"
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
	logger.Info("main-api запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	if os.Getenv("MA_DEPHEALTH_GROUP") == "" {
		logger.Warn("MA_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
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

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode).
	// Проверка здоровья PostgreSQL идёт через существующий пул соединений,
	// что позволяет обнаружить его исчерпание.
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Клиент сервиса визуализаций
	visualClient := visualclient.New(cfg.VisualURL, cfg.VisualTimeout, logger)
	logger.Info("Клиент сервиса визуализаций создан",
		slog.String("url", cfg.VisualURL),
	)

	// 6. Repositories
	userRepo := repository.NewUserRepository(pool)
	designRepo := repository.NewSurveyDesignRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	visualRepo := repository.NewVisualizationRepository(pool)
	publishedRepo := repository.NewPublishedSurveyRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	// 7. JWT
	tokenIssuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	jwtAuth := middleware.NewJWTAuth(tokenIssuer)

	// 8. Services
	usersSvc := service.NewUserService(userRepo, tokenIssuer, logger)
	designsSvc := service.NewSurveyDesignService(designRepo, logger)
	questionsSvc := service.NewQuestionService(questionRepo, designRepo, visualRepo, txRunner, visualClient, logger)
	visualsSvc := service.NewVisualizationService(visualRepo, visualClient, logger)
	publishedSvc := service.NewPublishedSurveyService(publishedRepo, designRepo, questionRepo, txRunner, logger)
	takeSurveySvc := service.NewTakeSurveyService(publishedRepo, logger)

	// 9. topologymetrics — мониторинг зависимостей (PostgreSQL + visual-api)
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"main-api",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.VisualURL,
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

	// 10. Handlers
	pgChecker := database.NewReadinessChecker(pool)
	h := server.Handlers{
		Users:            handlers.NewUsersHandler(usersSvc, designsSvc, visualsSvc, publishedSvc, logger),
		SurveyDesigns:    handlers.NewSurveyDesignsHandler(designsSvc, questionsSvc, publishedSvc, logger),
		Questions:        handlers.NewQuestionsHandler(questionsSvc, logger),
		Visualizations:   handlers.NewVisualizationsHandler(visualsSvc, logger),
		PublishedSurveys: handlers.NewPublishedSurveysHandler(publishedSvc, logger),
		TakeSurvey:       handlers.NewTakeSurveyHandler(takeSurveySvc, logger),
		Health:           handlers.NewHealthHandler(pgChecker, visualClient),
	}

	// 11. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, h, jwtAuth)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 12. Graceful shutdown фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("main-api остановлен")
}
