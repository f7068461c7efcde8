// Точка входа портала LIDDER — регистрация проектов и агендамент
// оборудования поверх удалённой таблицы Google Sheets.
// Загружает конфигурацию, настраивает логирование и i18n, создаёт
// клиент таблицы, кэш листов и сервисный слой, запускает мониторинг
// зависимостей (topologymetrics) и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/rafaelmgalliez/lidder-portal/internal/api/handlers"
	"github.com/rafaelmgalliez/lidder-portal/internal/api/middleware"
	"github.com/rafaelmgalliez/lidder-portal/internal/config"
	"github.com/rafaelmgalliez/lidder-portal/internal/i18n"
	"github.com/rafaelmgalliez/lidder-portal/internal/server"
	"github.com/rafaelmgalliez/lidder-portal/internal/service"
	"github.com/rafaelmgalliez/lidder-portal/internal/sheets"
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
	logger.Info("Портал LIDDER запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// Предупреждения о деградированном режиме: отсутствие секретов
	// удалённой таблицы — не ошибка, но формы работать не будут.
	if cfg.ScriptURL == "" {
		logger.Warn("LP_SCRIPT_URL не задан: отправка форм недоступна (деградированный режим)")
	}
	if cfg.SheetID == "" {
		logger.Warn("LP_SHEET_ID не задан: чтение листов вернёт пустой результат (деградированный режим)")
	}

	// 3. Локализация пользовательских сообщений (pt/en)
	bundle := i18n.Init(logger)
	if err := i18n.LoadFromEmbedFS(bundle, logger); err != nil {
		logger.Error("Ошибка загрузки каталогов i18n", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Клиент удалённой таблицы (CSV-экспорт + Apps Script)
	sheetsClient := sheets.New(cfg.ScriptURL, cfg.ExportBaseURL(), cfg.HTTPTimeout, logger)

	// 5. Кэш листов и загрузчик снимков
	cache := service.NewSheetCache(cfg.CacheSize, cfg.CacheTTL)
	loader := service.NewLoader(sheetsClient, cache, logger)

	// 6. Сервисный слой
	projectsSvc := service.NewProjectService(sheetsClient, loader, logger)
	bookingsSvc := service.NewBookingService(sheetsClient, projectsSvc, logger)
	occupancySvc := service.NewOccupancyService(loader, logger)

	// 7. topologymetrics — мониторинг зависимостей (CSV-экспорт + Apps Script)
	ctx := context.Background()
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"lidder-portal",
		cfg.DephealthGroup,
		cfg.ExportBaseURL(),
		cfg.ScriptURL,
		cfg.DephealthCheckInterval,
		cfg.DephealthIsEntry,
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

	// 8. API handlers
	h := server.Handlers{
		Health:    handlers.NewHealthHandler(cfg.ScriptURL != "", cfg.SheetID != ""),
		Projects:  handlers.NewProjectsHandler(projectsSvc, logger),
		Bookings:  handlers.NewBookingsHandler(bookingsSvc, logger),
		Occupancy: handlers.NewOccupancyHandler(occupancySvc, logger),
	}

	// 9. HTTP-сервер: metrics → logging → i18n
	srv := server.New(cfg, logger, h,
		middleware.MetricsMiddleware(),
		middleware.RequestLogger(logger),
		i18n.Middleware(cfg.DefaultLang),
	)

	// 10. Запуск сервера (блокирующий вызов с graceful shutdown)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Портал LIDDER остановлен")
}
