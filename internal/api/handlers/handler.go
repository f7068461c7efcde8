// handler.go — общие определения обработчиков API портала:
// интерфейсы сервисного слоя, запись JSON, отображение доменных
// ошибок на HTTP-ответы.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/rafaelmgalliez/lidder-portal/internal/api/errors"
	"github.com/rafaelmgalliez/lidder-portal/internal/domain/model"
	"github.com/rafaelmgalliez/lidder-portal/internal/i18n"
	"github.com/rafaelmgalliez/lidder-portal/internal/service"
	"github.com/rafaelmgalliez/lidder-portal/internal/sheets"
)

// ProjectRegistrar — контракт сервиса регистрации проектов.
type ProjectRegistrar interface {
	// Options возвращает названия зарегистрированных проектов.
	Options(ctx context.Context) []string
	// Register валидирует форму и записывает строку в лист Projetos.
	Register(ctx context.Context, form model.ProjectForm) (string, error)
}

// BookingRequester — контракт сервиса заявок на оборудование.
type BookingRequester interface {
	// Request валидирует заявку и записывает строку в лист Agendamentos.
	Request(ctx context.Context, form model.BookingForm) (string, error)
}

// OccupancyViewer — контракт сервиса календаря занятости.
type OccupancyViewer interface {
	// View возвращает календарь, опционально отфильтрованный по оборудованию.
	View(ctx context.Context, instrumentFilter string) service.OccupancyView
	// Refresh принудительно инвалидирует снимок листа Agendamentos.
	Refresh()
}

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeDomainError отображает ошибку сервисного слоя на HTTP-ответ.
// Сообщения локализуются по языку из контекста запроса.
// Gateway-ошибки (502) несут сырую диагностику удалённой таблицы
// в теле ответа и логируются на уровне WARN.
func writeDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	ctx := r.Context()

	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		apierrors.ValidationError(w, i18n.Tf(ctx, "error.validation", strings.Join(vErr.Missing, ", ")))
	case errors.Is(err, service.ErrSummaryTooLong):
		apierrors.ValidationError(w, i18n.Tf(ctx, "error.summary_too_long", model.SummaryMaxLen))
	case errors.Is(err, service.ErrQCRequired):
		apierrors.DomainRuleViolated(w, i18n.T(ctx, "error.qc_required"))
	case errors.Is(err, service.ErrNoProject):
		apierrors.ValidationError(w, i18n.T(ctx, "error.no_project"))
	case errors.Is(err, service.ErrConsentRequired):
		apierrors.ValidationError(w, i18n.T(ctx, "error.consent_required"))
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, i18n.T(ctx, "error.bad_request"))
	case errors.Is(err, sheets.ErrNotConfigured):
		apierrors.ConfigMissing(w, i18n.T(ctx, "error.config_missing"))
	case errors.Is(err, sheets.ErrRejected):
		logger.Warn("Удалённая таблица отклонила запись", slog.String("error", err.Error()))
		apierrors.RemoteWriteRejected(w,
			fmt.Sprintf("%s (%s)", i18n.T(ctx, "error.write_rejected"), err.Error()))
	default:
		logger.Warn("Сбой обращения к удалённой таблице", slog.String("error", err.Error()))
		apierrors.SheetsUnavailable(w,
			fmt.Sprintf("%s (%s)", i18n.T(ctx, "error.sheets_unavailable"), err.Error()))
	}
}
