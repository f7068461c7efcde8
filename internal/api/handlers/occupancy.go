// occupancy.go — обработчики календаря занятости и справочника формы.
// GET  /api/v1/agenda          — календарь (фильтр ?equipamento=...)
// POST /api/v1/agenda/refresh  — принудительное обновление снимка
// GET  /api/v1/formulario/opcoes — закрытые списки полей форм
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/rafaelmgalliez/lidder-portal/internal/domain/model"
	"github.com/rafaelmgalliez/lidder-portal/internal/i18n"
	"github.com/rafaelmgalliez/lidder-portal/internal/service"
)

// OccupancyHandler — обработчик календаря занятости.
type OccupancyHandler struct {
	occupancy OccupancyViewer
	logger    *slog.Logger
}

// NewOccupancyHandler создаёт обработчик календаря.
func NewOccupancyHandler(occupancy OccupancyViewer, logger *slog.Logger) *OccupancyHandler {
	return &OccupancyHandler{
		occupancy: occupancy,
		logger:    logger.With(slog.String("component", "occupancy_handler")),
	}
}

// agendaResponse — тело ответа календаря: представление плюс
// локализованное сообщение пустого состояния.
type agendaResponse struct {
	service.OccupancyView
	Message string `json:"mensagem,omitempty"`
}

// View — GET /api/v1/agenda.
// Параметр equipamento — точное значение оборудования (пусто — все).
func (h *OccupancyHandler) View(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("equipamento")
	view := h.occupancy.View(r.Context(), filter)
	if view.Entries == nil {
		view.Entries = []service.OccupancyEntry{}
	}
	if view.Instruments == nil {
		view.Instruments = []string{}
	}

	resp := agendaResponse{OccupancyView: view}
	if view.Empty {
		resp.Message = i18n.T(r.Context(), "agenda.empty")
	}
	writeJSON(w, http.StatusOK, resp)
}

// Refresh — POST /api/v1/agenda/refresh.
// Инвалидирует снимок листа Agendamentos, 204 No Content.
func (h *OccupancyHandler) Refresh(w http.ResponseWriter, _ *http.Request) {
	h.occupancy.Refresh()
	w.WriteHeader(http.StatusNoContent)
}

// optionsResponse — закрытые списки полей форм портала.
type optionsResponse struct {
	Institutions    []string `json:"instituicoes"`
	FundingAgencies []string `json:"fomento"`
	KnowledgeAreas  []string `json:"areas"`
	Instruments     []string `json:"equipamentos"`
	Affiliations    []string `json:"vinculos"`
	RequestTypes    []string `json:"tipos_solicitacao"`
	SampleNatures   []string `json:"naturezas_amostra"`
	RiskTiers       []string `json:"riscos"`
}

// FormOptions — GET /api/v1/formulario/opcoes.
// Отдаёт закрытые списки, чтобы фронтенд не дублировал справочники.
func FormOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, optionsResponse{
		Institutions:    model.Institutions,
		FundingAgencies: model.FundingAgencies,
		KnowledgeAreas:  model.KnowledgeAreas,
		Instruments:     model.Instruments,
		Affiliations:    model.Affiliations,
		RequestTypes:    model.RequestTypes,
		SampleNatures:   model.SampleNatures,
		RiskTiers:       model.RiskTiers,
	})
}
