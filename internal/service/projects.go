// projects.go — поток регистрации проектов (PI).
// Валидация обязательных полей, сборка строки фиксированного порядка,
// отправка в лист Projetos и инвалидация кэша проектов.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rafaelmgalliez/lidder-portal/internal/domain/model"
)

// rowTimestampFormat — формат отметки времени в первой колонке строки листа.
const rowTimestampFormat = "2006-01-02 15:04:05"

var submissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lp_submissions_total",
		Help: "Количество отправок строк в удалённую таблицу по листам и результатам.",
	},
	[]string{"sheet", "result"},
)

// SheetAppender — запись строки в лист удалённой таблицы (реализуется sheets.Client).
type SheetAppender interface {
	Append(ctx context.Context, sheet string, values []string) error
}

// ProjectService — поток регистрации проектов.
type ProjectService struct {
	appender SheetAppender
	loader   *Loader
	logger   *slog.Logger
	now      func() time.Time
}

// NewProjectService создаёт сервис регистрации проектов.
func NewProjectService(appender SheetAppender, loader *Loader, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		appender: appender,
		loader:   loader,
		logger:   logger.With(slog.String("component", "projects")),
		now:      time.Now,
	}
}

// Options возвращает названия зарегистрированных проектов для селектора заявок.
// Пустой срез — «проектов нет» (таблица пуста или недоступна), не ошибка.
func (s *ProjectService) Options(ctx context.Context) []string {
	records := s.loader.Load(ctx, model.SheetProjects)

	titles := make([]string, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		title := rec[model.ColumnProject]
		if title == "" {
			continue
		}
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		titles = append(titles, title)
	}
	return titles
}

// Register валидирует форму, собирает строку фиксированного порядка
// и отправляет её в лист Projetos. При успехе инвалидирует кэш проектов
// (следующее чтение селектора отразит новый проект) и возвращает
// протокольный идентификатор. Автоматических повторов нет.
func (s *ProjectService) Register(ctx context.Context, form model.ProjectForm) (string, error) {
	if err := validateProject(form); err != nil {
		return "", err
	}

	row := composeProjectRow(form, s.now())

	if err := s.appender.Append(ctx, model.SheetProjects, row); err != nil {
		submissionsTotal.WithLabelValues(model.SheetProjects, "error").Inc()
		return "", err
	}
	submissionsTotal.WithLabelValues(model.SheetProjects, "ok").Inc()

	// Новый проект должен появиться в селекторе немедленно,
	// не дожидаясь истечения TTL.
	s.loader.Invalidate(model.SheetProjects)

	protocol := uuid.NewString()
	s.logger.Info("Проект зарегистрирован",
		slog.String("protocol", protocol),
		slog.String("title", form.Title),
	)
	return protocol, nil
}

// validateProject проверяет форму регистрации.
// Обязательные поля (полный набор): имя координатора, e-mail, название,
// минимум один источник финансирования, согласие. Ошибка агрегированная —
// пользователь видит весь список сразу.
func validateProject(form model.ProjectForm) error {
	var missing []string
	if strings.TrimSpace(form.CoordinatorName) == "" {
		missing = append(missing, "nome_coordenador")
	}
	if strings.TrimSpace(form.CoordinatorEmail) == "" {
		missing = append(missing, "email_coordenador")
	}
	if strings.TrimSpace(form.Title) == "" {
		missing = append(missing, "titulo")
	}
	if len(form.FundingAgencies) == 0 {
		missing = append(missing, "fomento")
	}
	if !form.Consent {
		missing = append(missing, "aceite")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}

	if n := utf8.RuneCountInString(form.Summary); n > model.SummaryMaxLen {
		return fmt.Errorf("%w: %d символов при лимите %d", ErrSummaryTooLong, n, model.SummaryMaxLen)
	}
	if form.Institution != "" && !model.Contains(model.Institutions, form.Institution) {
		return fmt.Errorf("%w: неизвестная категория instituicao %q", ErrValidation, form.Institution)
	}
	for _, f := range form.FundingAgencies {
		if !model.Contains(model.FundingAgencies, f) {
			return fmt.Errorf("%w: неизвестный источник fomento %q", ErrValidation, f)
		}
	}
	for _, a := range form.KnowledgeAreas {
		if !model.Contains(model.KnowledgeAreas, a) {
			return fmt.Errorf("%w: неизвестная область %q", ErrValidation, a)
		}
	}
	return nil
}

// composeProjectRow собирает строку листа Projetos.
// Порядок полей фиксирован и совпадает с порядком колонок листа:
// [timestamp, имя, e-mail, название, instituição, fomento, área,
// SIM|NÃO, Lattes, resumo]. Любая перестановка — регрессия.
func composeProjectRow(form model.ProjectForm, ts time.Time) []string {
	institution := form.Institution
	if form.InstitutionOther != "" && model.Contains(model.AugmentableInstitutions, form.Institution) {
		institution = fmt.Sprintf("%s: %s", form.Institution, form.InstitutionOther)
	}

	funding := strings.Join(form.FundingAgencies, ", ")
	if form.FundingOther != "" && model.Contains(form.FundingAgencies, "Outro") {
		funding += fmt.Sprintf(" (%s)", form.FundingOther)
	}

	areas := strings.Join(form.KnowledgeAreas, ", ")
	if form.AreaOther != "" && model.Contains(form.KnowledgeAreas, "Outra") {
		areas += fmt.Sprintf(" (%s)", form.AreaOther)
	}

	risk := model.RiskFlagNo
	if form.Risk3 {
		risk = model.RiskFlagYes
	}

	return []string{
		ts.Format(rowTimestampFormat),
		form.CoordinatorName,
		form.CoordinatorEmail,
		form.Title,
		institution,
		funding,
		areas,
		risk,
		form.LattesLink,
		form.Summary,
	}
}
