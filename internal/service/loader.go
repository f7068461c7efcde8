// loader.go — загрузчик листов удалённой таблицы.
// Нормализует заголовки, применяет позиционный fallback колонки Projeto,
// пропускает непригодные строки и мемоизирует результат в SheetCache.
// Контракт для вызывающих: пустой срез — «данных нет», а не ошибка.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rafaelmgalliez/lidder-portal/internal/domain/model"
)

// projectColumnFallbackIndex — позиция колонки с названием проекта,
// используемая когда колонки "Projeto" нет в заголовке.
// Хрупкая эвристика, сохранена для совместимости с исходной таблицей;
// срабатывание логируется и учитывается в метрике.
const projectColumnFallbackIndex = 3

var loaderHeaderFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "lp_loader_header_fallback_total",
	Help: "Сколько раз колонка Projeto определялась позиционным fallback (4-я колонка).",
})

// SheetExporter — чтение сырого содержимого листа (реализуется sheets.Client).
type SheetExporter interface {
	Export(ctx context.Context, sheet string) ([][]string, error)
}

// Loader — загрузчик листов с мемоизацией.
type Loader struct {
	exporter SheetExporter
	cache    *SheetCache
	logger   *slog.Logger
}

// NewLoader создаёт загрузчик листов.
func NewLoader(exporter SheetExporter, cache *SheetCache, logger *slog.Logger) *Loader {
	return &Loader{
		exporter: exporter,
		cache:    cache,
		logger:   logger.With(slog.String("component", "sheet_loader")),
	}
}

// Load возвращает нормализованные записи листа.
// Повторные вызовы внутри TTL-окна не обращаются к удалённой таблице.
// Любой сбой (таблица недоступна, экспорт пуст, разбор не удался,
// непригодный заголовок) даёт пустой срез: ошибка поглощается и логируется,
// вызывающие показывают информационное пустое состояние.
func (l *Loader) Load(ctx context.Context, sheet string) []model.Record {
	if cached, ok := l.cache.Get(sheet); ok {
		return cached
	}

	records, err := l.fetch(ctx, sheet)
	if err != nil {
		l.logger.Warn("Чтение листа не удалось, возвращается пустой результат",
			slog.String("sheet", sheet),
			slog.String("error", err.Error()),
		)
		// Сбой не кэшируется: следующий вызов попробует снова.
		return nil
	}

	l.cache.Set(sheet, records)
	return records
}

// Invalidate удаляет снимок листа из кэша; следующий Load выполнит refetch.
func (l *Loader) Invalidate(sheet string) {
	l.cache.Invalidate(sheet)
	l.logger.Debug("Снимок листа инвалидирован", slog.String("sheet", sheet))
}

// fetch читает лист и нормализует его в записи.
func (l *Loader) fetch(ctx context.Context, sheet string) ([]model.Record, error) {
	rows, err := l.exporter.Export(ctx, sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		// Пустой экспорт — не ошибка, просто нет данных.
		return nil, nil
	}

	headers, usable := l.normalizeHeaders(sheet, rows[0])
	if !usable {
		l.logger.Warn("Лист непригоден: нет колонки Projeto и меньше 4 колонок",
			slog.String("sheet", sheet),
			slog.Int("columns", len(rows[0])),
		)
		return nil, nil
	}

	records := make([]model.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(model.Record, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(row) {
				rec[h] = strings.TrimSpace(row[i])
			} else {
				// Короткая строка: отсутствующие ячейки считаются пустыми.
				rec[h] = ""
			}
		}
		// Фильтрация применяется только к листу проектов:
		// строка без названия проекта бесполезна для селектора.
		if sheet == model.SheetProjects && rec[model.ColumnProject] == "" {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// normalizeHeaders приводит заголовки к каноническому виду.
// Для листа проектов гарантирует колонку Projeto:
//  1. колонка, буквально названная "Projeto", используется как есть;
//  2. иначе при ≥4 колонках 4-я (индекс 3) переименовывается в "Projeto";
//  3. иначе лист непригоден (usable=false).
//
// Для остальных листов — только trim пробелов.
func (l *Loader) normalizeHeaders(sheet string, raw []string) (headers []string, usable bool) {
	headers = make([]string, len(raw))
	hasProject := false
	for i, h := range raw {
		headers[i] = strings.TrimSpace(h)
		if headers[i] == model.ColumnProject {
			hasProject = true
		}
	}

	if sheet != model.SheetProjects {
		return headers, true
	}

	if hasProject {
		return headers, true
	}

	if len(headers) > projectColumnFallbackIndex {
		l.logger.Warn("Колонка Projeto не найдена, используется позиционный fallback",
			slog.String("sheet", sheet),
			slog.Int("index", projectColumnFallbackIndex),
			slog.String("original_header", headers[projectColumnFallbackIndex]),
		)
		loaderHeaderFallbackTotal.Inc()
		headers[projectColumnFallbackIndex] = model.ColumnProject
		return headers, true
	}

	return nil, false
}
