// Package transactionrepo manages repository layer of account transactions.
package transactionrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoPGS facilitates transaction repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns transaction RepoPGS working inside the given db transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

// NewRepoPGS returns transaction RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const columns = `id, code, account_id, account_number, transfer_id, type, amount, currency, exchange_rate, description, occurred_at`

func scan(row interface{ Scan(...any) error }, t *domain.Transaction) error {
	return row.Scan(
		&t.ID,
		&t.Code,
		&t.AccountID,
		&t.AccountNumber,
		&t.TransferID,
		&t.Type,
		&t.Amount,
		&t.Currency,
		&t.ExchangeRate,
		&t.Description,
		&t.OccurredAt,
	)
}

func mapErr(l *zerolog.Logger, err error) error {
	l.Error().Err(err).Send()

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrTransactionNotFound
	case dbpkg.IsUniqueViolation(err, "transactions_code_key"), dbpkg.IsContention(err):
		return domain.ErrConcurrencyConflict
	case dbpkg.IsCheckViolation(err, "transactions_amount_check"):
		return domain.ErrInvalidAmount
	}

	return errorspkg.ErrInternal
}

const createQuery = `
INSERT INTO
    transactions (code, account_id, account_number, transfer_id, type, amount, currency, exchange_rate, description)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + columns

// Create appends the transaction and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Code,
		arg.AccountID,
		arg.AccountNumber,
		arg.TransferID,
		arg.Type,
		arg.Amount,
		arg.Currency,
		arg.ExchangeRate,
		arg.Description,
	)

	var t domain.Transaction

	if err := scan(row, &t); err != nil {
		return t, mapErr(l, err)
	}

	return t, nil
}

const getQuery = `SELECT ` + columns + ` FROM transactions WHERE id = $1`

// Get returns the transaction with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	var t domain.Transaction

	if err := scan(r.db.QueryRowContext(ctx, getQuery, id), &t); err != nil {
		return t, mapErr(l, err)
	}

	return t, nil
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var t domain.Transaction
		if err := scan(rows, &t); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const listByAccountQuery = `
SELECT ` + columns + `
FROM transactions
WHERE account_id = $1
ORDER BY occurred_at DESC, id DESC
`

// ListByAccount returns all transactions of the account, newest first.
func (r *RepoPGS) ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	return r.list(ctx, listByAccountQuery, accountID)
}

const listByDateRangeQuery = `
SELECT ` + columns + `
FROM transactions
WHERE account_id = $1 AND occurred_at BETWEEN $2 AND $3
ORDER BY occurred_at DESC, id DESC
`

// ListByDateRange returns the account transactions that occurred within [arg.Start, arg.End], newest first.
func (r *RepoPGS) ListByDateRange(ctx context.Context, arg domain.ListTransactionsByDateParams) ([]domain.Transaction, error) {
	return r.list(ctx, listByDateRangeQuery, arg.AccountID, arg.Start, arg.End)
}

const listPagedQuery = `
SELECT ` + columns + `
FROM transactions
WHERE account_id = $1
ORDER BY occurred_at DESC, id DESC
LIMIT $2 OFFSET $3
`

// ListPaged returns the specified page of the account transactions, newest first.
func (r *RepoPGS) ListPaged(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error) {
	return r.list(ctx, listPagedQuery, arg.AccountID, arg.Limit, arg.Offset)
}

// Deposit credits the account and appends the DEPOSIT transaction within a single db transaction.
//
// The account row is locked before check runs, so check sees the state the credit is applied to.
func (r *RepoPGS) Deposit(ctx context.Context, arg domain.DepositTxParams, check domain.AccountCheck) (domain.DepositTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.DepositTxResult

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return result, mapErr(l, err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Send()
		}
	}()

	accountRepo := accountrepo.NewRepoPGS(tx)

	account, err := accountRepo.GetByNumberForUpdate(ctx, arg.AccountNumber)
	if err != nil {
		return result, err
	}

	if err := check(account); err != nil {
		return result, err
	}

	result.Account, err = accountRepo.AddBalance(ctx, arg.Amount, account.ID)
	if err != nil {
		return result, err
	}

	result.Transaction, err = NewTxRepoPGS(tx).Create(ctx, domain.CreateTransactionParams{
		Code:          arg.Code,
		AccountID:     account.ID,
		AccountNumber: account.Number,
		Type:          domain.TransactionDeposit,
		Amount:        arg.Amount,
		Currency:      account.Currency,
		ExchangeRate:  decimal.NewFromInt(1),
		Description:   arg.Description,
	})
	if err != nil {
		return result, err
	}

	if err := tx.Commit(); err != nil {
		return domain.DepositTxResult{}, mapErr(l, err)
	}

	return result, nil
}
