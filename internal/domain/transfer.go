package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount indicates not positive, malformed or too precise amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientFunds indicates that the account does not have sufficient balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrSameAccount indicates the transfer to the same account.
	ErrSameAccount = errors.New("cannot transfer to the same account")
	// ErrRateUnavailable indicates that no exchange rate is known for the currency pair.
	ErrRateUnavailable = errors.New("exchange rate unavailable")
	// ErrConcurrencyConflict indicates lock or unique code contention. The operation can be retried.
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	// ErrTransferNotFound indicates that the transfer is not found.
	ErrTransferNotFound = errors.New("transfer not found")
)

// TransferStatus is the lifecycle state of a transfer.
type TransferStatus string

// Transfer statuses. Executed transfers are persisted as completed.
const (
	TransferPending   TransferStatus = "PENDING"
	TransferCompleted TransferStatus = "COMPLETED"
	TransferFailed    TransferStatus = "FAILED"
	TransferCancelled TransferStatus = "CANCELLED"
)

// Transfer holds transfer data between two accounts.
type Transfer struct {
	ID              int64           `json:"id"`
	Code            string          `json:"code"`
	FromAccountID   int64           `json:"from_account_id"`
	ToAccountID     int64           `json:"to_account_id"`
	Amount          decimal.Decimal `json:"amount"` // in FromCurrency
	FromCurrency    string          `json:"from_currency"`
	ToCurrency      string          `json:"to_currency"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"` // in ToCurrency
	Status          TransferStatus  `json:"status"`
	Description     *string         `json:"description,omitempty"`
	TransferDate    time.Time       `json:"transfer_date"`
	CompletedDate   *time.Time      `json:"completed_date,omitempty"`
}

// CreateTransferParams is the input data for a transfer between accounts given by id.
type CreateTransferParams struct {
	FromAccountID int64   `json:"from_account_id"`
	ToAccountID   int64   `json:"to_account_id"`
	Amount        string  `json:"amount"`
	Description   *string `json:"description,omitempty"`
}

// CreateTransferByNumberParams is the input data for a transfer between accounts given by number.
type CreateTransferByNumberParams struct {
	FromAccountNumber string  `json:"from_account_number"`
	ToAccountNumber   string  `json:"to_account_number"`
	Amount            string  `json:"amount"`
	Description       *string `json:"description,omitempty"`
}

// TransferTxParams is the validated transfer handed to the repository.
//
// Rate and ConvertedAmount are resolved before the database transaction starts.
type TransferTxParams struct {
	Code            string
	FromTxCode      string
	ToTxCode        string
	FromAccountID   int64
	ToAccountID     int64
	Amount          decimal.Decimal
	FromCurrency    string
	ToCurrency      string
	ExchangeRate    decimal.Decimal
	ConvertedAmount decimal.Decimal
	Description     *string
}

// TransferTxResult is the result of the transfer transaction.
type TransferTxResult struct {
	Transfer    Transfer    `json:"transfer"`
	FromAccount Account     `json:"from_account"`
	ToAccount   Account     `json:"to_account"`
	FromTx      Transaction `json:"from_transaction"`
	ToTx        Transaction `json:"to_transaction"`
}

// AccountsCheck re-validates accounts once their rows are locked.
type AccountsCheck func(from, to Account) error

// ValidationResult is the outcome of a transfer pre-flight check.
type ValidationResult struct {
	IsValid         bool            `json:"is_valid"`
	FromCurrency    string          `json:"from_currency"`
	ToCurrency      string          `json:"to_currency"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
}
