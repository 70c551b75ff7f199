// Package web defines common components for a web application.
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-petr/pet-ledger/pkg/i18npkg"
)

// JSONError provides type for explicit json encoded error response.
type JSONError struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

// Localized returns the client safe code and message of err in the language picked from acceptLanguage.
func Localized(err error, acceptLanguage string) *JSONError {
	code, text := i18npkg.Localize(err, acceptLanguage)
	return &JSONError{Code: code, Error: text}
}

// Response holds the common response type for all APIs.
type Response struct {
	Data  any        `json:"data,omitempty"`
	Error *JSONError `json:"error,omitempty"`
}

// Abort stops the handler chain and writes the localized error response for err.
func Abort(gctx *gin.Context, err error) {
	gctx.AbortWithStatusJSON(StatusCode(err), Response{
		Error: Localized(err, gctx.GetHeader("Accept-Language")),
	})
}

// AbortBinding stops the handler chain with the bad request response for the binding failure.
func AbortBinding(gctx *gin.Context, err error) {
	gctx.AbortWithStatusJSON(http.StatusBadRequest, Response{Error: BindingError(err)})
}
