// Пакет server — HTTP-сервер портала с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на ingress.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/rafaelmgalliez/lidder-portal/internal/api/errors"
	"github.com/rafaelmgalliez/lidder-portal/internal/api/handlers"
	"github.com/rafaelmgalliez/lidder-portal/internal/config"
	"github.com/rafaelmgalliez/lidder-portal/internal/i18n"
)

// Handlers — набор обработчиков, регистрируемых на маршрутах портала.
type Handlers struct {
	Health    *handlers.HealthHandler
	Projects  *handlers.ProjectsHandler
	Bookings  *handlers.BookingsHandler
	Occupancy *handlers.OccupancyHandler
}

// Server — HTTP-сервер портала.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
// middlewares добавляются в порядке переданного среза.
func New(cfg *config.Config, logger *slog.Logger, h Handlers, middlewares ...func(http.Handler) http.Handler) *Server {
	router := chi.NewRouter()

	// Применяем переданные middleware
	for _, mw := range middlewares {
		router.Use(mw)
	}

	// Неизвестные маршруты — стандартное тело ошибки, не chi-дефолт
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apierrors.NotFound(w, i18n.T(r.Context(), "error.not_found"))
	})

	// Health и метрики
	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Get("/metrics", h.Health.GetMetrics)

	// API портала
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/projetos", h.Projects.List)
		r.Post("/projetos", h.Projects.Register)
		r.Post("/agendamentos", h.Bookings.Request)
		r.Get("/agenda", h.Occupancy.View)
		r.Post("/agenda/refresh", h.Occupancy.Refresh)
		r.Get("/formulario/opcoes", handlers.FormOptions)
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
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
