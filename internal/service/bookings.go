// bookings.go — поток заявок на использование оборудования.
// Порядковая валидация с ранним выходом, жёсткое правило laudo QC
// для секвенатора, сборка строки фиксированного порядка и отправка
// в лист Agendamentos.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rafaelmgalliez/lidder-portal/internal/domain/model"
)

// BookingService — поток заявок на оборудование.
type BookingService struct {
	appender SheetAppender
	projects *ProjectService
	logger   *slog.Logger
	now      func() time.Time
}

// NewBookingService создаёт сервис заявок.
func NewBookingService(appender SheetAppender, projects *ProjectService, logger *slog.Logger) *BookingService {
	return &BookingService{
		appender: appender,
		projects: projects,
		logger:   logger.With(slog.String("component", "bookings")),
		now:      time.Now,
	}
}

// Request валидирует заявку, собирает строку фиксированного порядка
// и отправляет её в лист Agendamentos. Кэш календаря при успехе
// НЕ инвалидируется: снимок обновляется по TTL или вручную
// (унаследованная асимметрия относительно потока проектов).
func (s *BookingService) Request(ctx context.Context, form model.BookingForm) (string, error) {
	if err := s.validate(ctx, form); err != nil {
		return "", err
	}

	row := composeBookingRow(form, s.now())

	if err := s.appender.Append(ctx, model.SheetBookings, row); err != nil {
		submissionsTotal.WithLabelValues(model.SheetBookings, "error").Inc()
		return "", err
	}
	submissionsTotal.WithLabelValues(model.SheetBookings, "ok").Inc()

	protocol := uuid.NewString()
	s.logger.Info("Заявка на оборудование принята",
		slog.String("protocol", protocol),
		slog.String("instrument", form.Instrument),
		slog.String("project", form.Project),
		slog.String("date", form.Date),
	)
	return protocol, nil
}

// validate проверяет заявку строго по порядку, с ранним выходом:
//  1. выбран действительный проект (не сентинел и существует в листе Projetos);
//  2. имя, e-mail и лаборатория заполнены (агрегированно);
//  3. для секвенатора приложен laudo QC — отдельная блокирующая ошибка;
//  4. принято согласие.
//
// Затем — проверки закрытых списков.
func (s *BookingService) validate(ctx context.Context, form model.BookingForm) error {
	project := strings.TrimSpace(form.Project)
	if project == "" || project == model.NoProjectSentinel {
		return ErrNoProject
	}
	if !model.Contains(s.projects.Options(ctx), project) {
		return ErrNoProject
	}

	var missing []string
	if strings.TrimSpace(form.RequesterName) == "" {
		missing = append(missing, "nome")
	}
	if strings.TrimSpace(form.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(form.Lab) == "" {
		missing = append(missing, "laboratorio")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}

	if model.IsSequencer(form.Instrument) && !form.HasQC {
		return ErrQCRequired
	}

	if !form.Consent {
		return ErrConsentRequired
	}

	if !model.Contains(model.Instruments, form.Instrument) {
		return fmt.Errorf("%w: неизвестное оборудование %q", ErrValidation, form.Instrument)
	}
	if form.Affiliation != "" && !model.Contains(model.Affiliations, form.Affiliation) {
		return fmt.Errorf("%w: неизвестный vínculo %q", ErrValidation, form.Affiliation)
	}
	if form.RequestType != "" && !model.Contains(model.RequestTypes, form.RequestType) {
		return fmt.Errorf("%w: неизвестный тип заявки %q", ErrValidation, form.RequestType)
	}
	if form.RiskTier != "" && !model.Contains(model.RiskTiers, form.RiskTier) {
		return fmt.Errorf("%w: неизвестный уровень риска %q", ErrValidation, form.RiskTier)
	}
	return nil
}

// composeBookingRow собирает строку листа Agendamentos.
// Порядок полей фиксирован и совпадает с порядком колонок листа:
// [timestamp, дата, "início - fim", имя, vínculo, лаборатория, e-mail,
// оборудование, проект, тип заявки, природа образца, уровень риска,
// статус QC, замечания]. Любая перестановка — регрессия.
func composeBookingRow(form model.BookingForm, ts time.Time) []string {
	affiliation := form.Affiliation
	if form.AffiliationOther != "" && form.Affiliation == "Outro" {
		affiliation = fmt.Sprintf("%s: %s", form.Affiliation, form.AffiliationOther)
	}

	sample := form.SampleNature
	if form.SampleNature == "Outro" {
		// При выборе "Outro" в строку попадает свободный текст.
		sample = form.SampleOther
	}

	qcStatus := model.QCNotSent
	if form.HasQC {
		qcStatus = model.QCSent
	}

	return []string{
		ts.Format(rowTimestampFormat),
		form.Date,
		fmt.Sprintf("%s - %s", form.TimeStart, form.TimeEnd),
		form.RequesterName,
		affiliation,
		form.Lab,
		form.Email,
		form.Instrument,
		form.Project,
		form.RequestType,
		sample,
		form.RiskTier,
		qcStatus,
		form.Notes,
	}
}
