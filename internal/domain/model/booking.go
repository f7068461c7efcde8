package model

import "strings"

// Instruments — официальный закрытый список оборудования (ровно три позиции).
var Instruments = []string{
	"Sequenciador Illumina NextSeq 1000",
	"TapeStation System Agilent 4200",
	"BluePippin Instrument (Sage Science)",
}

// sequencerMarker — подстрока, определяющая секвенатор.
// Для него laudo QC обязателен (жёсткая блокировка, не предупреждение).
const sequencerMarker = "NextSeq 1000"

// IsSequencer сообщает, требует ли оборудование обязательный laudo QC.
func IsSequencer(instrument string) bool {
	return strings.Contains(instrument, sequencerMarker)
}

// Affiliations — варианты институциональной принадлежности пользователя.
var Affiliations = []string{
	"Iniciação Científica",
	"Mestrado",
	"Doutorado",
	"Pós-Doc",
	"Técnico",
	"Docente/Pesquisador",
	"Outro",
}

// RequestTypes — типы заявки.
var RequestTypes = []string{
	"Uso Autônomo (Já sou treinado)",
	"Solicitação de Treinamento",
	"Entrega de Amostras (Serviço)",
}

// SampleNatures — варианты природы образца.
var SampleNatures = []string{
	"DNA Genômico",
	"RNA Total",
	"Biblioteca NGS Pronta",
	"Produto de PCR (Amplicon)",
	"Plasmídeo",
	"Cultura Celular",
	"Soro/Plasma",
	"Outro",
}

// RiskTiers — уровни биологического риска (три порядковые ступени).
var RiskTiers = []string{
	"Risco 1 (Não Infeccioso)",
	"Risco 2 (Patógenos Moderados)",
	"Risco 3 (Alto Risco)",
}

// Статусы контроля качества в строке листа.
const (
	QCSent    = "Enviado"
	QCNotSent = "Não Enviado"
)

// NoProjectSentinel — значение селектора проектов, когда список пуст.
// Отправка заявки с этим значением отклоняется.
const NoProjectSentinel = "---"

// BookingForm — данные формы заявки на использование оборудования.
type BookingForm struct {
	// Date — желаемая дата (строка формы, ожидается ISO 2006-01-02).
	Date string
	// TimeStart, TimeEnd — границы временного окна.
	TimeStart string
	TimeEnd   string
	// RequesterName — имя пользователя оборудования. Обязательное.
	RequesterName string
	// Affiliation — принадлежность из списка Affiliations.
	Affiliation string
	// AffiliationOther — уточнение при выборе "Outro".
	AffiliationOther string
	// Lab — лаборатория происхождения. Обязательное.
	Lab string
	// Email — e-mail пользователя. Обязательное.
	Email string
	// Instrument — оборудование из списка Instruments.
	Instrument string
	// Project — название связанного проекта (из листа Projetos).
	Project string
	// RequestType — тип заявки из списка RequestTypes.
	RequestType string
	// SampleNature — природа образца; при "Outro" подставляется SampleOther.
	SampleNature string
	SampleOther  string
	// RiskTier — уровень риска из списка RiskTiers.
	RiskTier string
	// HasQC — приложен ли laudo QC (передаётся только факт наличия,
	// сам файл порталом не хранится).
	HasQC bool
	// Notes — дополнительные замечания.
	Notes string
	// Consent — согласие с нормами биобезопасности. Обязательное.
	Consent bool
}

// Contains сообщает, входит ли value в список options.
func Contains(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
