// Пакет model — доменные модели портала LIDDER/NEEDIER:
// листы удалённой таблицы, нормализованные записи, формы заявок
// и официальные списки вариантов (Portuguese — формат данных таблицы).
package model

// Имена листов удалённой таблицы. Используются и как идентификатор листа
// в кэше, и как имя листа в wire-протоколе (CSV export / Apps Script).
const (
	// SheetProjects — лист зарегистрированных проектов.
	SheetProjects = "Projetos"
	// SheetBookings — лист заявок на использование оборудования.
	SheetBookings = "Agendamentos"
)

// ColumnProject — каноническое имя колонки с названием проекта.
// Загрузчик гарантирует его наличие в записях листа Projetos.
const ColumnProject = "Projeto"

// Канонические имена колонок листа Agendamentos,
// используемые календарём занятости.
const (
	ColumnDate       = "Data"
	ColumnTimeWindow = "Horário"
	ColumnRequester  = "Nome"
	ColumnLab        = "Laboratório"
	ColumnInstrument = "Equipamento"
)

// Record — нормализованная строка листа: каноническое имя колонки → значение.
type Record map[string]string
