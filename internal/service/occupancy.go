// occupancy.go — календарь занятости оборудования (read model).
// Читает кэшированный лист Agendamentos, фильтрует по оборудованию
// и сортирует по разобранной дате по возрастанию.
package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/rafaelmgalliez/lidder-portal/internal/domain/model"
)

// OccupancyEntry — видимая строка календаря (фиксированное подмножество колонок).
type OccupancyEntry struct {
	Date       string `json:"data"`
	TimeWindow string `json:"horario"`
	Requester  string `json:"nome"`
	Lab        string `json:"laboratorio"`
	Instrument string `json:"equipamento"`
	Project    string `json:"projeto"`
}

// OccupancyView — результат рендеринга календаря.
type OccupancyView struct {
	// Entries — видимые строки после фильтрации, отсортированные по дате.
	Entries []OccupancyEntry `json:"agendamentos"`
	// Instruments — различные значения оборудования в листе (для фильтра).
	Instruments []string `json:"equipamentos"`
	// Empty — явное состояние «заявок нет» (лист пуст или недоступен).
	Empty bool `json:"vazio"`
}

// OccupancyService — календарь занятости.
type OccupancyService struct {
	loader *Loader
	logger *slog.Logger
}

// NewOccupancyService создаёт сервис календаря.
func NewOccupancyService(loader *Loader, logger *slog.Logger) *OccupancyService {
	return &OccupancyService{
		loader: loader,
		logger: logger.With(slog.String("component", "occupancy")),
	}
}

// View возвращает календарь занятости.
// instrumentFilter — точное значение оборудования или пустая строка («все»).
func (s *OccupancyService) View(ctx context.Context, instrumentFilter string) OccupancyView {
	records := s.loader.Load(ctx, model.SheetBookings)
	if len(records) == 0 {
		return OccupancyView{Empty: true}
	}

	instruments := distinctInstruments(records)

	entries := make([]OccupancyEntry, 0, len(records))
	for _, rec := range records {
		if instrumentFilter != "" && rec[model.ColumnInstrument] != instrumentFilter {
			continue
		}
		entries = append(entries, OccupancyEntry{
			Date:       rec[model.ColumnDate],
			TimeWindow: rec[model.ColumnTimeWindow],
			Requester:  rec[model.ColumnRequester],
			Lab:        rec[model.ColumnLab],
			Instrument: rec[model.ColumnInstrument],
			Project:    rec[model.ColumnProject],
		})
	}

	sortByDate(entries)

	return OccupancyView{
		Entries:     entries,
		Instruments: instruments,
	}
}

// Refresh инвалидирует снимок листа Agendamentos (ручное обновление календаря).
func (s *OccupancyService) Refresh() {
	s.loader.Invalidate(model.SheetBookings)
	s.logger.Info("Календарь занятости обновлён вручную")
}

// distinctInstruments возвращает различные значения оборудования
// в порядке первого появления.
func distinctInstruments(records []model.Record) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, rec := range records {
		instr := rec[model.ColumnInstrument]
		if instr == "" {
			continue
		}
		if _, dup := seen[instr]; dup {
			continue
		}
		seen[instr] = struct{}{}
		out = append(out, instr)
	}
	return out
}

// dateFormats — лестница форматов даты, встречающихся в листе.
// Лексикографическая сортировка сырых строк молча искажала бы порядок
// при смешанных форматах, поэтому дата разбирается в time.Time.
var dateFormats = []string{
	"2006-01-02",
	"02/01/2006",
}

// parseDate разбирает дату строки листа.
// RFC3339-подобные значения усечённо разбираются по первым 10 символам.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) > 10 && (raw[10] == 'T' || raw[10] == ' ') {
		raw = raw[:10]
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// sortByDate сортирует строки по возрастанию разобранной даты.
// Строки с неразбираемой датой идут после всех разобранных,
// сохраняя исходный относительный порядок (стабильная сортировка).
func sortByDate(entries []OccupancyEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ti, oki := parseDate(entries[i].Date)
		tj, okj := parseDate(entries[j].Date)
		switch {
		case oki && okj:
			return ti.Before(tj)
		case oki:
			return true
		default:
			return false
		}
	})
}
