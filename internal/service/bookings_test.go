package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rafaelmgalliez/lidder-portal/internal/domain/model"
)

const testProjectTitle = "Vigilância Genômica de Arbovírus"

// validBookingForm — корректная заявка на не-секвенатор.
func validBookingForm() model.BookingForm {
	return model.BookingForm{
		Date:          "2025-03-20",
		TimeStart:     "09:00",
		TimeEnd:       "13:00",
		RequesterName: "Bruno Lima",
		Affiliation:   "Doutorado",
		Lab:           "Laboratório de Virologia Molecular",
		Email:         "bruno@ufrj.br",
		Instrument:    "TapeStation System Agilent 4200",
		Project:       testProjectTitle,
		RequestType:   "Uso Autônomo (Já sou treinado)",
		SampleNature:  "DNA Genômico",
		RiskTier:      "Risco 1 (Não Infeccioso)",
		HasQC:         false,
		Consent:       true,
	}
}

// newBookingService собирает сервис заявок поверх фальшивок.
// Лист Projetos содержит один действительный проект.
func newBookingService(t *testing.T, appender *fakeAppender) *BookingService {
	t.Helper()
	exporter := &fakeExporter{rows: map[string][][]string{
		model.SheetProjects: projectSheet(testProjectTitle),
	}}
	projects := newProjectService(t, exporter, &fakeAppender{})
	svc := NewBookingService(appender, projects, testLogger())
	svc.now = func() time.Time {
		return time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	}
	return svc
}

// TestRequest_NoProject проверяет первую ступень валидации:
// пустой проект, сентинел "---" и несуществующий проект — все
// отклоняются одной ошибкой, до любых других проверок.
func TestRequest_NoProject(t *testing.T) {
	cases := []struct {
		name    string
		project string
	}{
		{"пустой проект", ""},
		{"сентинел", model.NoProjectSentinel},
		{"несуществующий проект", "Projeto Fantasma"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appender := &fakeAppender{}
			svc := newBookingService(t, appender)

			form := validBookingForm()
			form.Project = tc.project
			// Прочие поля тоже пусты: ошибка проекта должна победить
			form.RequesterName = ""
			form.Consent = false

			_, err := svc.Request(context.Background(), form)
			if !errors.Is(err, ErrNoProject) {
				t.Fatalf("ожидался ErrNoProject, получено: %v", err)
			}
			if appender.calls != 0 {
				t.Errorf("endpoint записи вызван %d раз, ожидалось 0", appender.calls)
			}
		})
	}
}

// TestRequest_MissingContactFields проверяет вторую ступень:
// имя, e-mail и лаборатория агрегируются в одну ошибку.
func TestRequest_MissingContactFields(t *testing.T) {
	appender := &fakeAppender{}
	svc := newBookingService(t, appender)

	form := validBookingForm()
	form.RequesterName = ""
	form.Email = "  "
	form.Lab = ""

	_, err := svc.Request(context.Background(), form)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("ожидался *ValidationError, получено: %v", err)
	}
	if len(vErr.Missing) != 3 {
		t.Errorf("отсутствующих полей = %d, ожидалось 3: %v", len(vErr.Missing), vErr.Missing)
	}
	if appender.calls != 0 {
		t.Errorf("endpoint записи вызван %d раз, ожидалось 0", appender.calls)
	}
}

// TestRequest_QCGate — матрица жёсткого правила laudo QC:
// секвенатор без laudo блокируется независимо от остальных полей,
// прочее оборудование laudo не требует.
func TestRequest_QCGate(t *testing.T) {
	cases := []struct {
		name       string
		instrument string
		hasQC      bool
		wantErr    error
	}{
		{"секвенатор без laudo", "Sequenciador Illumina NextSeq 1000", false, ErrQCRequired},
		{"секвенатор с laudo", "Sequenciador Illumina NextSeq 1000", true, nil},
		{"TapeStation без laudo", "TapeStation System Agilent 4200", false, nil},
		{"BluePippin без laudo", "BluePippin Instrument (Sage Science)", false, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appender := &fakeAppender{}
			svc := newBookingService(t, appender)

			form := validBookingForm()
			form.Instrument = tc.instrument
			form.HasQC = tc.hasQC

			_, err := svc.Request(context.Background(), form)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("ожидалась %v, получено: %v", tc.wantErr, err)
				}
				if appender.calls != 0 {
					t.Errorf("endpoint записи вызван при заблокированной заявке")
				}
				return
			}
			if err != nil {
				t.Fatalf("Request вернул ошибку: %v", err)
			}
			if appender.calls != 1 {
				t.Errorf("endpoint записи вызван %d раз, ожидался 1", appender.calls)
			}
		})
	}
}

// TestRequest_ConsentRequired проверяет четвёртую ступень: согласие.
func TestRequest_ConsentRequired(t *testing.T) {
	appender := &fakeAppender{}
	svc := newBookingService(t, appender)

	form := validBookingForm()
	form.Consent = false

	_, err := svc.Request(context.Background(), form)
	if !errors.Is(err, ErrConsentRequired) {
		t.Fatalf("ожидался ErrConsentRequired, получено: %v", err)
	}
	if appender.calls != 0 {
		t.Errorf("endpoint записи вызван %d раз, ожидалось 0", appender.calls)
	}
}

// TestRequest_UnknownInstrument проверяет закрытый список оборудования.
func TestRequest_UnknownInstrument(t *testing.T) {
	appender := &fakeAppender{}
	svc := newBookingService(t, appender)

	form := validBookingForm()
	form.Instrument = "Nanopore MinION"

	_, err := svc.Request(context.Background(), form)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("ожидался ErrValidation, получено: %v", err)
	}
}

// TestRequest_RowOrder проверяет точный порядок 14 полей строки листа.
func TestRequest_RowOrder(t *testing.T) {
	appender := &fakeAppender{}
	svc := newBookingService(t, appender)

	form := validBookingForm()
	form.Instrument = "Sequenciador Illumina NextSeq 1000"
	form.HasQC = true
	form.Notes = "Corrida compartilhada"

	if _, err := svc.Request(context.Background(), form); err != nil {
		t.Fatalf("Request вернул ошибку: %v", err)
	}

	if appender.lastSheet != model.SheetBookings {
		t.Errorf("лист = %q, ожидался Agendamentos", appender.lastSheet)
	}

	want := []string{
		"2025-03-15 09:00:00",
		"2025-03-20",
		"09:00 - 13:00",
		"Bruno Lima",
		"Doutorado",
		"Laboratório de Virologia Molecular",
		"bruno@ufrj.br",
		"Sequenciador Illumina NextSeq 1000",
		testProjectTitle,
		"Uso Autônomo (Já sou treinado)",
		"DNA Genômico",
		"Risco 1 (Não Infeccioso)",
		"Enviado",
		"Corrida compartilhada",
	}
	if len(appender.lastRow) != len(want) {
		t.Fatalf("полей = %d, ожидалось %d", len(appender.lastRow), len(want))
	}
	for i := range want {
		if appender.lastRow[i] != want[i] {
			t.Errorf("поле %d = %q, ожидалось %q", i, appender.lastRow[i], want[i])
		}
	}
}

// TestRequest_AffiliationQualifier проверяет приписку vínculo "Outro: ...".
func TestRequest_AffiliationQualifier(t *testing.T) {
	appender := &fakeAppender{}
	svc := newBookingService(t, appender)

	form := validBookingForm()
	form.Affiliation = "Outro"
	form.AffiliationOther = "Pesquisador Visitante"

	if _, err := svc.Request(context.Background(), form); err != nil {
		t.Fatalf("Request вернул ошибку: %v", err)
	}
	if appender.lastRow[4] != "Outro: Pesquisador Visitante" {
		t.Errorf("vínculo = %q, ожидалось %q", appender.lastRow[4], "Outro: Pesquisador Visitante")
	}
}

// TestRequest_SampleOtherSubstituted проверяет подстановку свободного
// текста природы образца при выборе "Outro".
func TestRequest_SampleOtherSubstituted(t *testing.T) {
	appender := &fakeAppender{}
	svc := newBookingService(t, appender)

	form := validBookingForm()
	form.SampleNature = "Outro"
	form.SampleOther = "Biblioteca pré-preparada"

	if _, err := svc.Request(context.Background(), form); err != nil {
		t.Fatalf("Request вернул ошибку: %v", err)
	}
	if appender.lastRow[10] != "Biblioteca pré-preparada" {
		t.Errorf("amostra = %q, ожидался свободный текст", appender.lastRow[10])
	}
}

// TestRequest_QCStatusNotSent проверяет статус "Não Enviado" для
// не-секвенатора без laudo.
func TestRequest_QCStatusNotSent(t *testing.T) {
	appender := &fakeAppender{}
	svc := newBookingService(t, appender)

	if _, err := svc.Request(context.Background(), validBookingForm()); err != nil {
		t.Fatalf("Request вернул ошибку: %v", err)
	}
	if appender.lastRow[12] != model.QCNotSent {
		t.Errorf("статус QC = %q, ожидался %q", appender.lastRow[12], model.QCNotSent)
	}
}

// TestRequest_GatewayFailure проверяет проброс ошибки записи.
func TestRequest_GatewayFailure(t *testing.T) {
	appender := &fakeAppender{err: errRemote}
	svc := newBookingService(t, appender)

	_, err := svc.Request(context.Background(), validBookingForm())
	if !errors.Is(err, errRemote) {
		t.Fatalf("ожидалась ошибка записи, получено: %v", err)
	}
}
