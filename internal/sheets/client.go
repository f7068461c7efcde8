// Пакет sheets — HTTP-клиент удалённой таблицы (Google Sheets).
// Чтение: публичный CSV-экспорт (GET /gviz/tq?tqx=out:csv&sheet=...).
// Запись: Apps Script endpoint (POST JSON {"aba": ..., "dados": [...]}).
// Retry не выполняется — повтор только по инициативе пользователя.
package sheets

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Ошибки клиента удалённой таблицы.
var (
	// ErrNotConfigured — секрет (write endpoint или sheet ID) не задан.
	ErrNotConfigured = errors.New("удалённая таблица не сконфигурирована")
	// ErrRejected — endpoint записи вернул не-200 статус.
	ErrRejected = errors.New("запись отклонена удалённой таблицей")
)

// appendPayload — тело POST-запроса к Apps Script.
// Имена полей — wire-формат, менять нельзя.
type appendPayload struct {
	Sheet  string   `json:"aba"`
	Values []string `json:"dados"`
}

// Client — клиент удалённой таблицы.
type Client struct {
	httpClient    *http.Client
	scriptURL     string
	exportBaseURL string
	logger        *slog.Logger
}

// New создаёт клиент удалённой таблицы.
// scriptURL — Apps Script endpoint записи (пустая строка — запись отклоняется).
// exportBaseURL — базовый URL CSV-экспорта (пустая строка — чтение отклоняется).
// timeout — общий таймаут HTTP-запросов.
func New(scriptURL, exportBaseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		scriptURL:     scriptURL,
		exportBaseURL: exportBaseURL,
		logger:        logger.With(slog.String("component", "sheets_client")),
	}
}

// Export читает текущее содержимое листа через публичный CSV-экспорт.
// Возвращает сырые строки (первая — заголовок) без какой-либо нормализации.
// Ошибки транспорта, не-200 статус и ошибки парсинга возвращаются вызывающему;
// политика «пусто при сбое» реализуется загрузчиком, не клиентом.
func (c *Client) Export(ctx context.Context, sheet string) ([][]string, error) {
	if c.exportBaseURL == "" {
		return nil, fmt.Errorf("чтение листа %s: %w", sheet, ErrNotConfigured)
	}

	reqURL := fmt.Sprintf("%s?tqx=out:csv&sheet=%s", c.exportBaseURL, url.QueryEscape(sheet))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("создание запроса Export: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("запрос CSV-экспорта листа %s: %w", sheet, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("CSV-экспорт листа %s вернул статус %d: %s", sheet, resp.StatusCode, string(body))
	}

	reader := csv.NewReader(resp.Body)
	// Экспорт может содержать строки разной длины; выравнивание — задача загрузчика.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			// Политика пропуска строк: повреждённая строка не прерывает весь экспорт.
			var parseErr *csv.ParseError
			if errors.As(readErr, &parseErr) {
				c.logger.Warn("Повреждённая строка CSV пропущена",
					slog.String("sheet", sheet),
					slog.Int("line", parseErr.Line),
					slog.String("error", parseErr.Error()),
				)
				continue
			}
			return nil, fmt.Errorf("чтение CSV листа %s: %w", sheet, readErr)
		}
		rows = append(rows, record)
	}

	return rows, nil
}

// Append синхронно добавляет строку значений в указанный лист.
// Порядок значений значим и должен совпадать с порядком колонок листа.
// Успех — только явный HTTP 200; любой другой статус — ErrRejected
// с диагностикой из тела ответа.
func (c *Client) Append(ctx context.Context, sheet string, values []string) error {
	if c.scriptURL == "" {
		return fmt.Errorf("запись в лист %s: %w", sheet, ErrNotConfigured)
	}

	body, err := json.Marshal(appendPayload{Sheet: sheet, Values: values})
	if err != nil {
		return fmt.Errorf("сериализация строки для листа %s: %w", sheet, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.scriptURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("создание запроса Append: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("запрос записи в лист %s: %w", sheet, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		diag, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: лист %s, статус %d: %s", ErrRejected, sheet, resp.StatusCode, string(diag))
	}

	c.logger.Info("Строка добавлена в лист",
		slog.String("sheet", sheet),
		slog.Int("fields", len(values)),
	)
	return nil
}
