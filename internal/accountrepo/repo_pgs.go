// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const columns = `id, number, customer_id, currency, balance, is_active, created_at, updated_at`

func scan(row interface{ Scan(...any) error }, a *domain.Account) error {
	return row.Scan(
		&a.ID,
		&a.Number,
		&a.CustomerID,
		&a.Currency,
		&a.Balance,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}

// mapErr logs err and converts it to the domain error.
func mapErr(l *zerolog.Logger, err error) error {
	l.Error().Err(err).Send()

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrAccountNotFound
	case dbpkg.IsCheckViolation(err, "accounts_balance_check"):
		return domain.ErrInsufficientFunds
	case dbpkg.IsUniqueViolation(err, "accounts_number_key"):
		return domain.ErrAccountNumberExists
	case dbpkg.IsContention(err):
		return domain.ErrConcurrencyConflict
	}

	return errorspkg.ErrInternal
}

const addBalanceQuery = `
UPDATE accounts
SET balance = balance + $1, updated_at = now()
WHERE id = $2
RETURNING ` + columns

// AddBalance changes the account's balance by the signed amount and returns the changed account.
func (r *RepoPGS) AddBalance(ctx context.Context, amount decimal.Decimal, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var a domain.Account

	if err := scan(r.db.QueryRowContext(ctx, addBalanceQuery, amount, id), &a); err != nil {
		return a, mapErr(l, err)
	}

	return a, nil
}

const createQuery = `
INSERT INTO
    accounts (number, customer_id, currency)
VALUES
    ($1, $2, $3)
RETURNING ` + columns

// Create creates the active account with zero balance and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var a domain.Account

	row := r.db.QueryRowContext(ctx, createQuery, arg.Number, arg.CustomerID, arg.Currency)
	if err := scan(row, &a); err != nil {
		return a, mapErr(l, err)
	}

	return a, nil
}

const setActiveQuery = `
UPDATE accounts
SET is_active = $2, updated_at = now()
WHERE id = $1
RETURNING ` + columns

// SetActive activates or deactivates the account. Accounts are never deleted.
func (r *RepoPGS) SetActive(ctx context.Context, id int64, active bool) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var a domain.Account

	if err := scan(r.db.QueryRowContext(ctx, setActiveQuery, id, active), &a); err != nil {
		return a, mapErr(l, err)
	}

	return a, nil
}

const (
	getQuery                = `SELECT ` + columns + ` FROM accounts WHERE id = $1`
	getByNumberQuery        = `SELECT ` + columns + ` FROM accounts WHERE number = $1`
	getForUpdateQuery       = getQuery + ` FOR UPDATE`
	getByNumberForUpdateQry = getByNumberQuery + ` FOR UPDATE`
)

func (r *RepoPGS) get(ctx context.Context, query string, arg any) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var a domain.Account

	if err := scan(r.db.QueryRowContext(ctx, query, arg), &a); err != nil {
		return a, mapErr(l, err)
	}

	return a, nil
}

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Account, error) {
	return r.get(ctx, getQuery, id)
}

// GetByNumber returns the account with the given number.
func (r *RepoPGS) GetByNumber(ctx context.Context, number string) (domain.Account, error) {
	return r.get(ctx, getByNumberQuery, number)
}

// GetForUpdate returns the account with the given id and locks its row until the transaction ends.
func (r *RepoPGS) GetForUpdate(ctx context.Context, id int64) (domain.Account, error) {
	return r.get(ctx, getForUpdateQuery, id)
}

// GetByNumberForUpdate returns the account with the given number and locks its row.
func (r *RepoPGS) GetByNumberForUpdate(ctx context.Context, number string) (domain.Account, error) {
	return r.get(ctx, getByNumberForUpdateQry, number)
}

const listByCustomerQuery = `
SELECT ` + columns + `
FROM accounts
WHERE customer_id = $1
ORDER BY id
`

// ListByCustomer returns all accounts of the customer.
func (r *RepoPGS) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByCustomerQuery, customerID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		var a domain.Account
		if err := scan(rows, &a); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
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
