// dephealth.go — интеграция с topologymetrics SDK для мониторинга зависимостей.
//
// Портал мониторит две внешние точки удалённой таблицы:
//   - CSV-экспорт Google Sheets (read path, critical)
//   - Apps Script endpoint записи (write path, critical)
//
// Обе проверяются HTTP checker'ом. Зависимость добавляется только если
// соответствующий секрет сконфигурирован: деградация без секретов —
// штатный режим, мониторить нечего.
//
// Метрики доступны на /metrics вместе с остальными Prometheus-метриками:
//   - app_dependency_health — состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — задержка проверки
package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // регистрация HTTP checker factory
)

// ErrNoDependencies — ни один секрет удалённой таблицы не задан,
// мониторить нечего.
var ErrNoDependencies = errors.New("нет сконфигурированных зависимостей для мониторинга")

// DephealthService — сервис мониторинга зависимостей через topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService создаёт сервис мониторинга зависимостей.
// Метрики регистрируются в глобальном Prometheus registry.
//
// Параметры:
//   - serviceID — имя вершины графа текущего приложения (e.g. "lidder-portal")
//   - group — имя группы в метриках (LP_DEPHEALTH_GROUP)
//   - exportBaseURL — базовый URL CSV-экспорта (пустая строка — не мониторится)
//   - scriptURL — Apps Script endpoint записи (пустая строка — не мониторится)
//   - checkInterval — интервал проверки (LP_DEPHEALTH_CHECK_INTERVAL)
//   - isEntry — при true добавляет лейбл isentry=yes ко всем зависимостям
func NewDephealthService(
	serviceID string,
	group string,
	exportBaseURL string,
	scriptURL string,
	checkInterval time.Duration,
	isEntry bool,
	logger *slog.Logger,
) (*DephealthService, error) {
	opts := []dephealth.Option{
		dephealth.WithLogger(logger),
	}

	deps := 0
	if exportBaseURL != "" {
		opts = append(opts, dephealth.HTTP("sheets-export",
			httpDepOptions(exportBaseURL, checkInterval, isEntry)...))
		deps++
	}
	if scriptURL != "" {
		opts = append(opts, dephealth.HTTP("apps-script",
			httpDepOptions(scriptURL, checkInterval, isEntry)...))
		deps++
	}
	if deps == 0 {
		return nil, ErrNoDependencies
	}

	dh, err := dephealth.New(serviceID, group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// httpDepOptions собирает опции HTTP-зависимости.
func httpDepOptions(rawURL string, checkInterval time.Duration, isEntry bool) []dephealth.DependencyOption {
	depOpts := []dephealth.DependencyOption{
		dephealth.FromURL(rawURL),
		dephealth.CheckInterval(checkInterval),
		dephealth.Critical(true),
	}
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Scheme == "https" {
		depOpts = append(depOpts, dephealth.WithHTTPTLSSkipVerify(false))
	}
	if isEntry {
		depOpts = append(depOpts, dephealth.WithLabel("isentry", "yes"))
	}
	return depOpts
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен (CSV-экспорт + Apps Script)")
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг зависимостей.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает текущее состояние зависимостей.
// Ключ — имя зависимости, значение — true если ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}
