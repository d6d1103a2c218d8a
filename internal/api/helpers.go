package api

import (
	"errors"
	"net/http"
	"time"

	"enumka/internal/enum"
)

type FieldError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Коды ошибок, которыми будем пользоваться
const (
	ErrRequired      = "required"
	ErrTypeMismatch  = "type_mismatch"
	ErrEnumInvalid   = "enum_invalid"
	ErrNotFound      = "not_found"
	ErrReadOnly      = "readonly"
	ErrUninitialized = "uninitialized"
)

func ferr(code, field, msg string) FieldError {
	return FieldError{Code: code, Field: field, Message: msg}
}

// statusForErrors: not_found -> 404, остальное -> 400
func statusForErrors(errs []FieldError) int {
	for _, e := range errs {
		if e.Code == ErrNotFound {
			return http.StatusNotFound
		}
	}
	return http.StatusBadRequest
}

// codeForErr мапит виды ошибок ядра на API-коды.
func codeForErr(err error) string {
	switch {
	case errors.Is(err, enum.ErrInvalidConstant):
		return ErrEnumInvalid
	case errors.Is(err, enum.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, enum.ErrReadOnly):
		return ErrReadOnly
	case errors.Is(err, enum.ErrUninitialized):
		return ErrUninitialized
	default:
		return ErrTypeMismatch
	}
}

func flatten(rec *Record) map[string]any {
	out := map[string]any{
		"id":         rec.ID,
		"version":    rec.Version,
		"created_at": rec.CreatedAt.Format(time.RFC3339),
		"updated_at": rec.UpdatedAt.Format(time.RFC3339),
	}
	for k, v := range rec.Data {
		// пользовательские поля не перетирают служебные
		if _, clash := out[k]; clash {
			out["data."+k] = v
			continue
		}
		out[k] = v
	}
	return out
}
