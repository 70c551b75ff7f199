package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// GetErrorMsg returns the message ending for the failed validation rule.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " field is required"
	case "min":
		return fmt.Sprintf(" must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf(" must be at most %s", fe.Param())
	case "currency":
		return " is not supported"
	case "numeric":
		return " must be a number"
	case "len":
		return fmt.Sprintf(" must be %s characters long", fe.Param())
	case "required_with":
		return fmt.Sprintf(" field is required with %s", fe.Param())
	}

	return " is invalid"
}

// BindingError converts a request binding failure into the client message.
func BindingError(err error) *JSONError {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return &JSONError{Code: "INVALID_REQUEST", Error: field.Field() + GetErrorMsg(field)}
	}

	return &JSONError{Code: "INVALID_REQUEST", Error: "invalid request"}
}

// StatusCode maps err to the HTTP status code of the response.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrTransferNotFound),
		errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrUnsupportedCurrency):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAccountInactive),
		errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrConcurrencyConflict),
		errors.Is(err, domain.ErrAccountNumberExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRateUnavailable):
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}
