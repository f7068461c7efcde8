// bookings.go — обработчик заявок на использование оборудования.
// POST /api/v1/agendamentos — multipart/form-data с опциональным
// файлом laudo_qc (PDF/JPG/JPEG/PNG).
//
// Файл laudo не сохраняется на сервере: в лист попадает только статус
// "Enviado"/"Não Enviado". Проверяется присутствие и расширение.
package handlers

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	apierrors "github.com/rafaelmgalliez/lidder-portal/internal/api/errors"
	"github.com/rafaelmgalliez/lidder-portal/internal/domain/model"
	"github.com/rafaelmgalliez/lidder-portal/internal/i18n"
)

// maxLaudoMemory — лимит памяти разбора multipart-формы.
const maxLaudoMemory = 16 << 20 // 16 MiB

// laudoExtensions — принимаемые расширения файла laudo QC.
var laudoExtensions = map[string]struct{}{
	".pdf":  {},
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// BookingsHandler — обработчик заявок на оборудование.
type BookingsHandler struct {
	bookings BookingRequester
	logger   *slog.Logger
}

// NewBookingsHandler создаёт обработчик заявок.
func NewBookingsHandler(bookings BookingRequester, logger *slog.Logger) *BookingsHandler {
	return &BookingsHandler{
		bookings: bookings,
		logger:   logger.With(slog.String("component", "bookings_handler")),
	}
}

// bookingResponse — тело ответа успешной заявки.
type bookingResponse struct {
	Protocol string `json:"protocolo"`
	Message  string `json:"mensagem"`
}

// Request — POST /api/v1/agendamentos.
func (h *BookingsHandler) Request(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxLaudoMemory); err != nil {
		apierrors.ValidationError(w, i18n.T(r.Context(), "error.bad_request"))
		return
	}

	form := model.BookingForm{
		Date:             r.FormValue("data"),
		TimeStart:        r.FormValue("hora_inicio"),
		TimeEnd:          r.FormValue("hora_fim"),
		RequesterName:    r.FormValue("nome"),
		Affiliation:      r.FormValue("vinculo"),
		AffiliationOther: r.FormValue("vinculo_outro"),
		Lab:              r.FormValue("laboratorio"),
		Email:            r.FormValue("email"),
		Instrument:       r.FormValue("equipamento"),
		Project:          r.FormValue("projeto"),
		RequestType:      r.FormValue("tipo_solicitacao"),
		SampleNature:     r.FormValue("natureza_amostra"),
		SampleOther:      r.FormValue("natureza_outra"),
		RiskTier:         r.FormValue("risco"),
		Notes:            r.FormValue("observacoes"),
		Consent:          r.FormValue("aceite") == "true",
	}

	// Laudo QC: проверяется присутствие и расширение, содержимое не читается.
	file, header, err := r.FormFile("laudo_qc")
	if err == nil {
		_ = file.Close()
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if _, ok := laudoExtensions[ext]; !ok {
			apierrors.ValidationError(w, i18n.T(r.Context(), "error.laudo_extension"))
			return
		}
		form.HasQC = true
		h.logger.Debug("Laudo QC приложен",
			slog.String("filename", header.Filename),
			slog.Int64("size", header.Size),
		)
	} else if err != http.ErrMissingFile {
		apierrors.ValidationError(w, i18n.T(r.Context(), "error.bad_request"))
		return
	}

	protocol, err := h.bookings.Request(r.Context(), form)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, bookingResponse{
		Protocol: protocol,
		Message:  i18n.Tf(r.Context(), "success.booking", protocol),
	})
}
