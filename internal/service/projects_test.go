package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rafaelmgalliez/lidder-portal/internal/domain/model"
)

// validProjectForm — полностью заполненная корректная форма.
func validProjectForm() model.ProjectForm {
	return model.ProjectForm{
		CoordinatorName:  "Ana Souza",
		CoordinatorEmail: "ana@ufrj.br",
		LattesLink:       "http://lattes.cnpq.br/123",
		Institution:      "UFRJ - CCS",
		Title:            "Vigilância Genômica de Arbovírus",
		FundingAgencies:  []string{"FAPERJ", "CNPq"},
		KnowledgeAreas:   []string{"Virologia"},
		Risk3:            false,
		Summary:          "Sequenciamento de genomas virais.",
		Consent:          true,
	}
}

// newProjectService собирает сервис поверх фальшивых таблицы и записи.
func newProjectService(t *testing.T, exporter *fakeExporter, appender *fakeAppender) *ProjectService {
	t.Helper()
	loader := newTestLoader(t, exporter)
	svc := NewProjectService(appender, loader, testLogger())
	svc.now = func() time.Time {
		return time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	}
	return svc
}

// TestRegister_MissingRequiredFields проверяет: при отсутствии любого
// обязательного поля отправка отклоняется и endpoint записи не вызывается.
func TestRegister_MissingRequiredFields(t *testing.T) {
	mutations := map[string]func(*model.ProjectForm){
		"nome_coordenador":  func(f *model.ProjectForm) { f.CoordinatorName = "" },
		"email_coordenador": func(f *model.ProjectForm) { f.CoordinatorEmail = "" },
		"titulo":            func(f *model.ProjectForm) { f.Title = "" },
		"fomento":           func(f *model.ProjectForm) { f.FundingAgencies = nil },
		"aceite":            func(f *model.ProjectForm) { f.Consent = false },
	}

	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			appender := &fakeAppender{}
			svc := newProjectService(t, &fakeExporter{}, appender)

			form := validProjectForm()
			mutate(&form)

			_, err := svc.Register(context.Background(), form)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("ожидался ErrValidation, получено: %v", err)
			}
			if appender.calls != 0 {
				t.Errorf("endpoint записи вызван %d раз, ожидалось 0", appender.calls)
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("ожидался *ValidationError, получено: %T", err)
			}
			found := false
			for _, m := range vErr.Missing {
				if m == field {
					found = true
				}
			}
			if !found {
				t.Errorf("поле %q не указано среди отсутствующих: %v", field, vErr.Missing)
			}
		})
	}
}

// TestRegister_AggregatesAllMissing проверяет агрегацию: пустая форма
// перечисляет все пять обязательных полей сразу.
func TestRegister_AggregatesAllMissing(t *testing.T) {
	appender := &fakeAppender{}
	svc := newProjectService(t, &fakeExporter{}, appender)

	_, err := svc.Register(context.Background(), model.ProjectForm{})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("ожидался *ValidationError, получено: %v", err)
	}
	if len(vErr.Missing) != 5 {
		t.Errorf("отсутствующих полей = %d, ожидалось 5: %v", len(vErr.Missing), vErr.Missing)
	}
}

// TestRegister_RowOrder проверяет точный порядок 10 полей строки листа.
// Любая перестановка — регрессия.
func TestRegister_RowOrder(t *testing.T) {
	appender := &fakeAppender{}
	svc := newProjectService(t, &fakeExporter{}, appender)

	form := validProjectForm()
	_, err := svc.Register(context.Background(), form)
	if err != nil {
		t.Fatalf("Register вернул ошибку: %v", err)
	}

	if appender.lastSheet != model.SheetProjects {
		t.Errorf("лист = %q, ожидался Projetos", appender.lastSheet)
	}

	want := []string{
		"2025-03-10 14:30:00",
		"Ana Souza",
		"ana@ufrj.br",
		"Vigilância Genômica de Arbovírus",
		"UFRJ - CCS",
		"FAPERJ, CNPq",
		"Virologia",
		"NÃO",
		"http://lattes.cnpq.br/123",
		"Sequenciamento de genomas virais.",
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

// TestRegister_Qualifiers проверяет уточняющие приписки:
// instituição "Categoria: уточнение", fomento/área "(уточнение)".
func TestRegister_Qualifiers(t *testing.T) {
	appender := &fakeAppender{}
	svc := newProjectService(t, &fakeExporter{}, appender)

	form := validProjectForm()
	form.Institution = "Outra ICT"
	form.InstitutionOther = "UERJ"
	form.FundingAgencies = []string{"FAPERJ", "Outro"}
	form.FundingOther = "Wellcome Trust"
	form.KnowledgeAreas = []string{"Virologia", "Outra"}
	form.AreaOther = "Metagenômica"
	form.Risk3 = true

	_, err := svc.Register(context.Background(), form)
	if err != nil {
		t.Fatalf("Register вернул ошибку: %v", err)
	}

	row := appender.lastRow
	if row[4] != "Outra ICT: UERJ" {
		t.Errorf("instituição = %q, ожидалось %q", row[4], "Outra ICT: UERJ")
	}
	if row[5] != "FAPERJ, Outro (Wellcome Trust)" {
		t.Errorf("fomento = %q, ожидалось %q", row[5], "FAPERJ, Outro (Wellcome Trust)")
	}
	if row[6] != "Virologia, Outra (Metagenômica)" {
		t.Errorf("área = %q, ожидалось %q", row[6], "Virologia, Outra (Metagenômica)")
	}
	if row[7] != "SIM" {
		t.Errorf("флаг риска = %q, ожидался SIM", row[7])
	}
}

// TestRegister_NoQualifierForPlainInstitution проверяет, что уточнение
// добавляется только для четырёх дополняемых категорий.
func TestRegister_NoQualifierForPlainInstitution(t *testing.T) {
	appender := &fakeAppender{}
	svc := newProjectService(t, &fakeExporter{}, appender)

	form := validProjectForm()
	form.Institution = "Fiocruz"
	form.InstitutionOther = "не должно попасть в строку"

	if _, err := svc.Register(context.Background(), form); err != nil {
		t.Fatalf("Register вернул ошибку: %v", err)
	}
	if appender.lastRow[4] != "Fiocruz" {
		t.Errorf("instituição = %q, ожидалось Fiocruz без приписки", appender.lastRow[4])
	}
}

// TestRegister_InvalidatesProjectCache проверяет: после успешной записи
// следующий Options отражает новый проект (refetch внутри TTL-окна).
func TestRegister_InvalidatesProjectCache(t *testing.T) {
	exporter := &fakeExporter{rows: map[string][][]string{
		model.SheetProjects: projectSheet("Antigo"),
	}}
	appender := &fakeAppender{}
	svc := newProjectService(t, exporter, appender)
	ctx := context.Background()

	// Прогреваем кэш
	if got := svc.Options(ctx); len(got) != 1 {
		t.Fatalf("опций = %d, ожидалась 1", len(got))
	}

	form := validProjectForm()
	if _, err := svc.Register(ctx, form); err != nil {
		t.Fatalf("Register вернул ошибку: %v", err)
	}

	// Таблица теперь содержит новый проект
	exporter.rows[model.SheetProjects] = projectSheet("Antigo", form.Title)

	got := svc.Options(ctx)
	if len(got) != 2 {
		t.Fatalf("опций = %d, ожидалось 2 (кэш инвалидирован)", len(got))
	}
	if exporter.calls != 2 {
		t.Errorf("обращений к таблице = %d, ожидалось 2", exporter.calls)
	}
}

// TestRegister_GatewayFailure проверяет: ошибка записи возвращается
// вызывающему, кэш проектов не инвалидируется.
func TestRegister_GatewayFailure(t *testing.T) {
	exporter := &fakeExporter{rows: map[string][][]string{
		model.SheetProjects: projectSheet("Antigo"),
	}}
	appender := &fakeAppender{err: errRemote}
	svc := newProjectService(t, exporter, appender)
	ctx := context.Background()

	svc.Options(ctx) // прогрев кэша

	_, err := svc.Register(ctx, validProjectForm())
	if !errors.Is(err, errRemote) {
		t.Fatalf("ожидалась ошибка записи, получено: %v", err)
	}

	// Кэш не тронут: повторный Options не обращается к таблице
	svc.Options(ctx)
	if exporter.calls != 1 {
		t.Errorf("обращений к таблице = %d, ожидалось 1 (кэш цел)", exporter.calls)
	}
}

// TestRegister_SummaryTooLong проверяет ограничение длины резюме.
func TestRegister_SummaryTooLong(t *testing.T) {
	appender := &fakeAppender{}
	svc := newProjectService(t, &fakeExporter{}, appender)

	form := validProjectForm()
	long := make([]rune, model.SummaryMaxLen+1)
	for i := range long {
		long[i] = 'x'
	}
	form.Summary = string(long)

	_, err := svc.Register(context.Background(), form)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("ожидался ErrValidation для длинного resumo, получено: %v", err)
	}
	if !errors.Is(err, ErrSummaryTooLong) {
		t.Errorf("ошибка не различима как превышение длины resumo: %v", err)
	}
	if appender.calls != 0 {
		t.Errorf("endpoint записи вызван %d раз, ожидалось 0", appender.calls)
	}
}

// TestRegister_UnknownFundingAgency проверяет закрытый список fomento.
func TestRegister_UnknownFundingAgency(t *testing.T) {
	appender := &fakeAppender{}
	svc := newProjectService(t, &fakeExporter{}, appender)

	form := validProjectForm()
	form.FundingAgencies = []string{"NASA"}

	_, err := svc.Register(context.Background(), form)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("ожидался ErrValidation, получено: %v", err)
	}
}

// TestOptions_Deduplicates проверяет удаление дубликатов названий.
func TestOptions_Deduplicates(t *testing.T) {
	exporter := &fakeExporter{rows: map[string][][]string{
		model.SheetProjects: projectSheet("Genomas", "Genomas", "Arbovírus"),
	}}
	svc := newProjectService(t, exporter, &fakeAppender{})

	got := svc.Options(context.Background())
	if len(got) != 2 {
		t.Fatalf("опций = %d, ожидалось 2: %v", len(got), got)
	}
	if got[0] != "Genomas" || got[1] != "Arbovírus" {
		t.Errorf("порядок опций нарушен: %v", got)
	}
}
