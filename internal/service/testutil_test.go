// testutil_test.go — общие помощники тестов сервисного слоя:
// фальшивый экспорт листов, фальшивый endpoint записи, logger.
package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"
)

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeExporter — фальшивый источник CSV-экспорта.
// Считает обращения, что позволяет проверять мемоизацию.
type fakeExporter struct {
	rows  map[string][][]string
	err   error
	calls int
}

func (f *fakeExporter) Export(_ context.Context, sheet string) ([][]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[sheet], nil
}

// fakeAppender — фальшивый endpoint записи.
// Запоминает последнюю отправленную строку и считает обращения.
type fakeAppender struct {
	err       error
	calls     int
	lastSheet string
	lastRow   []string
}

func (f *fakeAppender) Append(_ context.Context, sheet string, values []string) error {
	f.calls++
	f.lastSheet = sheet
	f.lastRow = values
	if f.err != nil {
		return f.err
	}
	return nil
}

var errRemote = errors.New("удалённая таблица недоступна")

// newTestLoader создаёт загрузчик с кэшем по умолчанию поверх exporter.
func newTestLoader(t *testing.T, exporter *fakeExporter) *Loader {
	t.Helper()
	cache := NewSheetCache(8, time.Minute)
	return NewLoader(exporter, cache, testLogger())
}

// projectSheet — типовой экспорт листа Projetos с канонической колонкой.
func projectSheet(titles ...string) [][]string {
	rows := [][]string{{"Timestamp", "Nome", "Email", "Projeto"}}
	for _, title := range titles {
		rows = append(rows, []string{"2025-01-01 10:00:00", "Ana", "ana@ufrj.br", title})
	}
	return rows
}
