// Package sl вспомогательные атрибуты для slog.
package sl

import "log/slog"

// Err возвращает атрибут "error" с текстом ошибки. Для nil значение "<nil>".
//
//	log.Error("failed to create purchase", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// Op возвращает атрибут "op" с именем операции.
func Op(op string) slog.Attr {
	return slog.String("op", op)
}
