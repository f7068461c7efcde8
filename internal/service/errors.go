// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation — отсутствуют обязательные поля формы.
	ErrValidation = errors.New("ошибка валидации")
	// ErrNoProject — не выбран действительный проект.
	ErrNoProject = errors.New("не выбран действительный проект")
	// ErrQCRequired — доменное правило: для секвенатора обязателен laudo QC.
	// Отличается от обычной валидации — пользователю показывается
	// отдельное блокирующее сообщение.
	ErrQCRequired = errors.New("для секвенатора обязателен laudo de controle de qualidade")
	// ErrConsentRequired — не принято согласие с регламентом.
	ErrConsentRequired = errors.New("требуется согласие с регламентом")
)

// ErrSummaryTooLong — резюме проекта длиннее допустимого.
// Подтип ошибки валидации с отдельным пользовательским сообщением.
var ErrSummaryTooLong = fmt.Errorf("%w: resumo превышает допустимую длину", ErrValidation)

// ValidationError — агрегированная ошибка обязательных полей.
// Missing содержит имена полей формы (wire-имена API).
type ValidationError struct {
	Missing []string
}

// Error возвращает список отсутствующих полей.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: отсутствуют обязательные поля: %s",
		ErrValidation, strings.Join(e.Missing, ", "))
}

// Is сопоставляет ValidationError с сентинелом ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
