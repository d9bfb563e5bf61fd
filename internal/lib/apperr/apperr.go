// Package apperr описывает классы ошибок операций сервиса.
//
// Каждая ошибка операции оборачивает один из классов (ErrValidation, ErrProvider,
// ErrGateway, ErrStore, ErrTimeout, ErrNotFound), что позволяет HTTP-слою
// выбрать код ответа через errors.Is, не зная деталей внешних систем.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation некорректный пользовательский ввод, сетевые вызовы не выполнялись.
	ErrValidation = errors.New("validation error")
	// ErrProvider ошибка внешнего провайдера входа.
	ErrProvider = errors.New("provider error")
	// ErrGateway ошибка создания платёжной сессии.
	ErrGateway = errors.New("gateway error")
	// ErrStore ошибка чтения или записи во внешнее хранилище.
	ErrStore = errors.New("store error")
	// ErrTimeout превышено время ожидания внешнего вызова.
	ErrTimeout = errors.New("timeout error")
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrConflict нарушение уникальности записи.
	ErrConflict = errors.New("conflict")
)

// Wrap оборачивает err классом kind с указанием операции.
// Истечение дедлайна контекста всегда классифицируется как ErrTimeout.
func Wrap(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		kind = ErrTimeout
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

type validationError struct {
	op  string
	msg string
}

func (e *validationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.op, ErrValidation, e.msg)
}

func (e *validationError) Is(target error) bool {
	return target == ErrValidation
}

// Validation возвращает ошибку валидации с сообщением для пользователя.
func Validation(op, msg string) error {
	return &validationError{op: op, msg: msg}
}

// HTTPStatus сопоставляет класс ошибки с кодом HTTP-ответа.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrProvider), errors.Is(err, ErrGateway):
		return http.StatusBadGateway
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message возвращает безопасный для показа пользователю текст ошибки.
func Message(err error) string {
	var ve *validationError
	if errors.As(err, &ve) {
		return ve.msg
	}
	switch {
	case errors.Is(err, ErrValidation):
		return "invalid input"
	case errors.Is(err, ErrNotFound):
		return "not found"
	case errors.Is(err, ErrTimeout):
		return "request timed out, please try again"
	case errors.Is(err, ErrProvider):
		return "authentication failed, please try again"
	case errors.Is(err, ErrGateway):
		return "payment provider error, please try again"
	case errors.Is(err, ErrConflict):
		return "already exists"
	default:
		return "internal error"
	}
}
