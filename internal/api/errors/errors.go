// Пакет errors — конструкторы стандартных ошибок портала.
// Единый формат: {"error": {"code": "...", "message": "..."}}.
// Все HTTP-ответы с ошибками должны использовать WriteError.
package errors //nolint:revive // конфликт имени со stdlib осознанный, пакет внутренний

import (
	"encoding/json"
	"net/http"
)

// Машиночитаемые коды ошибок API.
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeDomainRuleViolated  = "DOMAIN_RULE_VIOLATED"
	CodeConfigMissing       = "CONFIG_MISSING"
	CodeRemoteWriteRejected = "REMOTE_WRITE_REJECTED"
	CodeSheetsUnavailable   = "SHEETS_UNAVAILABLE"
	CodeNotFound            = "NOT_FOUND"
)

// errorBody — структура тела ответа ошибки.
type errorBody struct {
	Error errorDetail `json:"error"`
}

// errorDetail — детали ошибки.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError записывает ответ ошибки в стандартном формате портала.
// statusCode — HTTP статус-код, code — машиночитаемый код, message — описание.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// --- Конструкторы для типичных ошибок ---

// ValidationError — 400 некорректные входные данные формы.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeValidationError, message)
}

// DomainRuleViolated — 422 нарушено доменное правило
// (например, laudo QC для секвенатора).
func DomainRuleViolated(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnprocessableEntity, CodeDomainRuleViolated, message)
}

// ConfigMissing — 503 секреты удалённой таблицы не сконфигурированы,
// портал в деградированном режиме.
func ConfigMissing(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusServiceUnavailable, CodeConfigMissing, message)
}

// RemoteWriteRejected — 502 Apps Script отклонил запись.
func RemoteWriteRejected(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadGateway, CodeRemoteWriteRejected, message)
}

// SheetsUnavailable — 502 удалённая таблица недоступна.
func SheetsUnavailable(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadGateway, CodeSheetsUnavailable, message)
}

// NotFound — 404 ресурс не найден.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}
