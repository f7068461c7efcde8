// Пакет config — загрузка и валидация конфигурации портала LIDDER
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации портала.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера (диапазон 8080-8089)
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- Удалённая таблица (Google Sheets) ---

	// URL Apps Script endpoint для записи строк.
	// Секрет; при отсутствии запись отклоняется с диагностикой конфигурации.
	ScriptURL string
	// Идентификатор таблицы для публичного CSV-экспорта.
	// Секрет; при отсутствии чтение возвращает пустой результат.
	SheetID string
	// Таймаут HTTP-запросов к удалённой таблице
	HTTPTimeout time.Duration

	// --- Кэш листов ---

	// TTL снимка листа в кэше
	CacheTTL time.Duration
	// Максимальное количество листов в кэше
	CacheSize int

	// --- Локализация ---

	// Язык пользовательских сообщений по умолчанию (pt, en)
	DefaultLang string

	// --- Мониторинг зависимостей (topologymetrics) ---

	// Имя группы в метриках dephealth
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration
	// Лейбл isentry=yes для всех зависимостей
	DephealthIsEntry bool

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// поля и возвращает Config или ошибку.
// ScriptURL и SheetID — внешние секреты: их отсутствие НЕ ошибка,
// система деградирует (чтение пустое, запись отклоняется).
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// LP_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("LP_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("LP_PORT: %w", err)
	}
	if cfg.Port < 8080 || cfg.Port > 8089 {
		return nil, fmt.Errorf("LP_PORT: значение %d вне допустимого диапазона 8080-8089", cfg.Port)
	}

	// LP_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("LP_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("LP_LOG_LEVEL: %w", err)
	}

	// LP_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("LP_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("LP_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- Удалённая таблица ---

	// LP_SCRIPT_URL — write endpoint (опциональный секрет)
	cfg.ScriptURL = strings.TrimRight(getEnvDefault("LP_SCRIPT_URL", ""), "/")

	// LP_SHEET_ID — идентификатор таблицы (опциональный секрет)
	cfg.SheetID = getEnvDefault("LP_SHEET_ID", "")

	// LP_HTTP_TIMEOUT — таймаут запросов к таблице (по умолчанию 15s)
	cfg.HTTPTimeout, err = getEnvDuration("LP_HTTP_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("LP_HTTP_TIMEOUT: %w", err)
	}

	// --- Кэш ---

	// LP_CACHE_TTL — TTL снимка листа (по умолчанию 60s)
	cfg.CacheTTL, err = getEnvDuration("LP_CACHE_TTL", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("LP_CACHE_TTL: %w", err)
	}

	// LP_CACHE_SIZE — максимум листов в кэше (по умолчанию 8)
	cfg.CacheSize, err = getEnvInt("LP_CACHE_SIZE", 8)
	if err != nil {
		return nil, fmt.Errorf("LP_CACHE_SIZE: %w", err)
	}
	if cfg.CacheSize < 1 || cfg.CacheSize > 1024 {
		return nil, fmt.Errorf("LP_CACHE_SIZE: значение %d вне допустимого диапазона 1-1024", cfg.CacheSize)
	}

	// --- Локализация ---

	// LP_DEFAULT_LANG — язык сообщений (по умолчанию pt)
	cfg.DefaultLang = getEnvDefault("LP_DEFAULT_LANG", "pt")
	if cfg.DefaultLang != "pt" && cfg.DefaultLang != "en" {
		return nil, fmt.Errorf("LP_DEFAULT_LANG: недопустимое значение %q, допустимые: pt, en", cfg.DefaultLang)
	}

	// --- Мониторинг зависимостей ---

	// LP_DEPHEALTH_GROUP — группа метрик (по умолчанию "lidder")
	cfg.DephealthGroup = getEnvDefault("LP_DEPHEALTH_GROUP", "lidder")

	// LP_DEPHEALTH_CHECK_INTERVAL — интервал проверки (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("LP_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("LP_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// LP_DEPHEALTH_ISENTRY — лейбл isentry (по умолчанию false)
	cfg.DephealthIsEntry = getEnvDefault("LP_DEPHEALTH_ISENTRY", "false") == "true"

	// --- Graceful shutdown ---

	// LP_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("LP_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("LP_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// ExportBaseURL возвращает базовый URL публичного CSV-экспорта таблицы.
// Пустая строка, если LP_SHEET_ID не задан.
func (c *Config) ExportBaseURL() string {
	if c.SheetID == "" {
		return ""
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/gviz/tq", c.SheetID)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
