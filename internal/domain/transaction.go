package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrTransactionNotFound indicates that the transaction is not found.
var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionType tells which side of a money movement the transaction records.
type TransactionType string

// Transaction types.
const (
	TransactionDeposit     TransactionType = "DEPOSIT"
	TransactionTransferIn  TransactionType = "TRANSFER_IN"
	TransactionTransferOut TransactionType = "TRANSFER_OUT"
	TransactionWithdrawal  TransactionType = "WITHDRAWAL"
)

// Transaction holds one account's side of a money movement. It is never changed once created.
type Transaction struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"`
	AccountID     int64           `json:"account_id"`
	AccountNumber string          `json:"account_number"`
	TransferID    *int64          `json:"transfer_id,omitempty"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	ExchangeRate  decimal.Decimal `json:"exchange_rate"`
	Description   *string         `json:"description,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// CreateTransactionParams is the input data to append a transaction.
type CreateTransactionParams struct {
	Code          string
	AccountID     int64
	AccountNumber string
	TransferID    *int64
	Type          TransactionType
	Amount        decimal.Decimal
	Currency      string
	ExchangeRate  decimal.Decimal
	Description   *string
}

// DepositParams is the input data for a deposit.
type DepositParams struct {
	AccountNumber string  `json:"account_number"`
	Amount        string  `json:"amount"`
	Description   *string `json:"description,omitempty"`
}

// DepositTxParams is the checked deposit handed to the repository.
type DepositTxParams struct {
	AccountNumber string
	Amount        decimal.Decimal
	Code          string
	Description   *string
}

// DepositTxResult is the result of the deposit transaction.
type DepositTxResult struct {
	Transaction Transaction `json:"transaction"`
	Account     Account     `json:"account"`
}

// AccountCheck re-validates an account once its row is locked.
type AccountCheck func(a Account) error

// ListTransactionsParams selects a page of an account transactions.
type ListTransactionsParams struct {
	AccountID int64
	Limit     int32
	Offset    int32
}

// ListTransactionsByDateParams selects account transactions that occurred within [Start, End].
type ListTransactionsByDateParams struct {
	AccountID int64
	Start     time.Time
	End       time.Time
}
