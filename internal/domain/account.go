// Package domain provides defenitions of all ledger entities and their errors.
package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountInactive indicates that the account is deactivated.
	ErrAccountInactive = errors.New("account is not active")
	// ErrUnsupportedCurrency indicates that the currency is not supported.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	// ErrAccountNumberExists indicates that the generated account number is already taken.
	ErrAccountNumberExists = errors.New("account number already exists")
)

// Account holds customer balance data for specific currency.
//
// Balance is changed only by the ledger services.
type Account struct {
	ID         int64           `json:"id"`
	Number     string          `json:"number"`
	CustomerID int64           `json:"customer_id"`
	Currency   string          `json:"currency"`
	Balance    decimal.Decimal `json:"balance"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CreateAccountParams is the input data to open an account.
type CreateAccountParams struct {
	Number     string
	CustomerID int64
	Currency   string
}
