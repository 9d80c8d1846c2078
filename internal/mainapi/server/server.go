// Пакет server — HTTP-сервер основного сервиса с graceful shutdown.
// Без TLS — сервис работает за внешним reverse proxy.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/api/handlers"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/api/middleware"
	"github.com/beheyx/Interactive-Survey-Tool-For-Data-Visualization-v2/internal/mainapi/config"
)

// Handlers — набор обработчиков всех endpoints main-api.
type Handlers struct {
	Users            *handlers.UsersHandler
	SurveyDesigns    *handlers.SurveyDesignsHandler
	Questions        *handlers.QuestionsHandler
	Visualizations   *handlers.VisualizationsHandler
	PublishedSurveys *handlers.PublishedSurveysHandler
	TakeSurvey       *handlers.TakeSurveyHandler
	Health           *handlers.HealthHandler
}

// Server — HTTP-сервер main-api.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными routes и middleware.
// Публичные маршруты (регистрация, вход, прохождение опроса, health,
// metrics) JWT не требуют; всё остальное защищено jwtAuth.
func New(cfg *config.Config, logger *slog.Logger, h Handlers, jwtAuth *middleware.JWTAuth) *Server {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Служебные endpoints — проверяются оркестратором напрямую
	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Get("/metrics", h.Health.GetMetrics)

	// Публичные endpoints
	router.Post("/users", h.Users.Register)
	router.Post("/users/login", h.Users.Login)
	router.Post("/users/logout", h.Users.Logout)
	router.Get("/takeSurvey/{hash}", h.TakeSurvey.Get)
	router.Patch("/takeSurvey/{hash}", h.TakeSurvey.Submit)

	// Защищённые endpoints
	router.Group(func(r chi.Router) {
		r.Use(jwtAuth.Middleware())

		r.Get("/users", h.Users.Me)
		r.Get("/users/{id}/surveyDesigns", h.Users.SurveyDesigns)
		r.Get("/users/{id}/visualizations", h.Users.Visualizations)
		r.Get("/users/{id}/publishedSurveys", h.Users.PublishedSurveys)

		r.Post("/surveyDesigns", h.SurveyDesigns.Create)
		r.Get("/surveyDesigns/{id}", h.SurveyDesigns.Get)
		r.Patch("/surveyDesigns/{id}", h.SurveyDesigns.Update)
		r.Delete("/surveyDesigns/{id}", h.SurveyDesigns.Delete)
		r.Get("/surveyDesigns/{id}/questions", h.Questions.List)
		r.Post("/surveyDesigns/{id}/questions", h.Questions.Create)
		r.Post("/surveyDesigns/{id}/publishedSurveys", h.SurveyDesigns.Publish)

		r.Get("/questions/{id}", h.Questions.Get)
		r.Patch("/questions/{id}", h.Questions.Update)
		r.Delete("/questions/{id}", h.Questions.Delete)
		r.Post("/questions/{id}/moveUp", h.Questions.MoveUp)
		r.Post("/questions/{id}/moveDown", h.Questions.MoveDown)

		r.Post("/visualizations", h.Visualizations.Create)
		r.Get("/visualizations/{id}", h.Visualizations.Get)
		r.Patch("/visualizations/{id}", h.Visualizations.Update)
		r.Delete("/visualizations/{id}", h.Visualizations.Delete)

		r.Get("/publishedSurveys/{id}", h.PublishedSurveys.Get)
		r.Patch("/publishedSurveys/{id}", h.PublishedSurveys.Update)
		r.Delete("/publishedSurveys/{id}", h.PublishedSurveys.Delete)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
