package model

// Официальные списки вариантов формы регистрации проекта.
// Значения — точные строки исходной таблицы, менять нельзя.
var (
	// Institutions — варианты института/организации PI.
	Institutions = []string{
		"UFRJ - CCS",
		"UFRJ - Outros Centros",
		"Fiocruz",
		"INCA",
		"LNCC",
		"Outra ICT",
		"Empresa Privada",
		"Outros",
	}

	// AugmentableInstitutions — категории, к которым добавляется
	// свободный уточняющий текст ("Categoria: уточнение").
	AugmentableInstitutions = []string{
		"Outra ICT",
		"Empresa Privada",
		"Outros",
		"UFRJ - Outros Centros",
	}

	// FundingAgencies — варианты источников финансирования.
	FundingAgencies = []string{
		"FAPERJ",
		"CNPq",
		"CAPES",
		"FINEP",
		"Ministério da Saúde",
		"Emenda Parlamentar",
		"Recursos Próprios",
		"Outro",
	}

	// KnowledgeAreas — варианты областей знания.
	KnowledgeAreas = []string{
		"Doenças Infecciosas",
		"Virologia",
		"Bacteriologia",
		"Genética Humana",
		"Imunologia",
		"Biotecnologia",
		"Diagnóstico",
		"Outra",
	}
)

// SummaryMaxLen — максимальная длина резюме проекта (в рунах).
const SummaryMaxLen = 1000

// Значения флага биологического риска в строке листа.
const (
	RiskFlagYes = "SIM"
	RiskFlagNo  = "NÃO"
)

// ProjectForm — данные формы регистрации проекта (PI).
type ProjectForm struct {
	// CoordinatorName — полное имя координатора (PI). Обязательное.
	CoordinatorName string
	// CoordinatorEmail — институциональный e-mail. Обязательное.
	CoordinatorEmail string
	// LattesLink — ссылка на Currículo Lattes.
	LattesLink string
	// Institution — институт из списка Institutions.
	Institution string
	// InstitutionOther — уточнение для категорий AugmentableInstitutions.
	InstitutionOther string
	// Title — название проекта. Обязательное; служит внешним ключом
	// для заявок на оборудование.
	Title string
	// FundingAgencies — выбранные источники финансирования. Минимум один.
	FundingAgencies []string
	// FundingOther — уточнение при выборе "Outro".
	FundingOther string
	// KnowledgeAreas — выбранные области знания.
	KnowledgeAreas []string
	// AreaOther — уточнение при выборе "Outra".
	AreaOther string
	// Risk3 — проект работает с патогенами риска 3.
	Risk3 bool
	// Summary — резюме проекта (не более SummaryMaxLen рун).
	Summary string
	// Consent — согласие с внутренним регламентом. Обязательное.
	Consent bool
}
