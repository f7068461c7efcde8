// projects.go — обработчики регистрации проектов.
// POST /api/v1/projetos — регистрация нового проекта
// GET  /api/v1/projetos — список зарегистрированных проектов
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apierrors "github.com/rafaelmgalliez/lidder-portal/internal/api/errors"
	"github.com/rafaelmgalliez/lidder-portal/internal/domain/model"
	"github.com/rafaelmgalliez/lidder-portal/internal/i18n"
)

// ProjectsHandler — обработчик регистрации проектов.
type ProjectsHandler struct {
	projects ProjectRegistrar
	logger   *slog.Logger
}

// NewProjectsHandler создаёт обработчик проектов.
func NewProjectsHandler(projects ProjectRegistrar, logger *slog.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		projects: projects,
		logger:   logger.With(slog.String("component", "projects_handler")),
	}
}

// projectRequest — тело запроса регистрации проекта.
// Имена полей повторяют названия полей формы портала.
type projectRequest struct {
	CoordinatorName  string   `json:"nome_coordenador"`
	CoordinatorEmail string   `json:"email_coordenador"`
	LattesLink       string   `json:"lattes"`
	Institution      string   `json:"instituicao"`
	InstitutionOther string   `json:"instituicao_outra"`
	Title            string   `json:"titulo"`
	FundingAgencies  []string `json:"fomento"`
	FundingOther     string   `json:"fomento_outro"`
	KnowledgeAreas   []string `json:"areas"`
	AreaOther        string   `json:"area_outra"`
	Risk3            bool     `json:"risco3"`
	Summary          string   `json:"resumo"`
	Consent          bool     `json:"aceite"`
}

// projectResponse — тело ответа успешной регистрации.
type projectResponse struct {
	Protocol string `json:"protocolo"`
	Message  string `json:"mensagem"`
}

// projectListResponse — тело ответа списка проектов.
type projectListResponse struct {
	Projects []string `json:"projetos"`
}

// Register — POST /api/v1/projetos.
func (h *ProjectsHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, i18n.T(r.Context(), "error.bad_request"))
		return
	}

	form := model.ProjectForm{
		CoordinatorName:  req.CoordinatorName,
		CoordinatorEmail: req.CoordinatorEmail,
		LattesLink:       req.LattesLink,
		Institution:      req.Institution,
		InstitutionOther: req.InstitutionOther,
		Title:            req.Title,
		FundingAgencies:  req.FundingAgencies,
		FundingOther:     req.FundingOther,
		KnowledgeAreas:   req.KnowledgeAreas,
		AreaOther:        req.AreaOther,
		Risk3:            req.Risk3,
		Summary:          req.Summary,
		Consent:          req.Consent,
	}

	protocol, err := h.projects.Register(r.Context(), form)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, projectResponse{
		Protocol: protocol,
		Message:  i18n.Tf(r.Context(), "success.project", protocol),
	})
}

// List — GET /api/v1/projetos.
// Возвращает названия зарегистрированных проектов (из кэшированного снимка).
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	projects := h.projects.Options(r.Context())
	if projects == nil {
		projects = []string{}
	}
	writeJSON(w, http.StatusOK, projectListResponse{Projects: projects})
}
