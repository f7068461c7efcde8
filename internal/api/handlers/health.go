// health.go — обработчики health endpoints портала.
// /health/live — liveness probe (процесс жив)
// /health/ready — readiness probe (конфигурация удалённой таблицы)
// /metrics — Prometheus метрики
//
// Отсутствие секретов удалённой таблицы — деградация, не отказ:
// формы недоступны, но календарь и справочники работают, поэтому
// readiness возвращает 200 со статусом "degraded".
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rafaelmgalliez/lidder-portal/internal/config"
)

// serviceName — имя сервиса в health-ответах.
const serviceName = "lidder-portal"

// Константы статусов health check.
const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusFail     = "fail"
)

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	scriptConfigured bool
	sheetConfigured  bool
	promHandler      http.Handler
}

// NewHealthHandler создаёт обработчик health endpoints.
// scriptConfigured/sheetConfigured — наличие секретов LP_SCRIPT_URL и LP_SHEET_ID.
func NewHealthHandler(scriptConfigured, sheetConfigured bool) *HealthHandler {
	return &HealthHandler{
		scriptConfigured: scriptConfigured,
		sheetConfigured:  sheetConfigured,
		promHandler:      promhttp.Handler(),
	}
}

// healthCheckResult — результат проверки одной зависимости.
type healthCheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// healthLiveResponse — ответ liveness probe.
type healthLiveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
}

// healthReadyResponse — ответ readiness probe.
type healthReadyResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Service   string `json:"service"`
	Checks    struct {
		AppsScript   healthCheckResult `json:"apps_script"`
		SheetsExport healthCheckResult `json:"sheets_export"`
	} `json:"checks"`
}

// HealthLive — liveness probe. Возвращает 200 если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	resp := healthLiveResponse{
		Status:    statusOK,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// HealthReady — readiness probe. Проверяет конфигурацию удалённой таблицы.
// Возвращает 200 (ok/degraded); 503 не используется — портал работоспособен
// и без секретов.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	resp := healthReadyResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   config.Version,
		Service:   serviceName,
	}

	resp.Checks.AppsScript = configCheck(h.scriptConfigured, "LP_SCRIPT_URL не задан, отправка форм недоступна")
	resp.Checks.SheetsExport = configCheck(h.sheetConfigured, "LP_SHEET_ID не задан, чтение листов недоступно")

	resp.Status = overallStatus(resp.Checks.AppsScript.Status, resp.Checks.SheetsExport.Status)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}

// configCheck строит результат проверки наличия секрета.
func configCheck(configured bool, message string) healthCheckResult {
	if configured {
		return healthCheckResult{Status: statusOK}
	}
	return healthCheckResult{Status: statusDegraded, Message: message}
}

// overallStatus определяет итоговый статус из статусов зависимостей.
// Если хотя бы одна зависимость fail — итог fail.
// Если хотя бы одна degraded — итог degraded.
// Иначе — ok.
func overallStatus(statuses ...string) string {
	hasDegraded := false
	for _, s := range statuses {
		if s == statusFail {
			return statusFail
		}
		if s == statusDegraded {
			hasDegraded = true
		}
	}
	if hasDegraded {
		return statusDegraded
	}
	return statusOK
}
