// Package transferrepo manages repository layer of transfers.
package transferrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/transactionrepo"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoPGS facilitates transfer repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns transfer RepoPGS working inside the given db transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns transfer RepoPGS with connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const columns = `id, code, from_account_id, to_account_id, amount, from_currency, to_currency,
    exchange_rate, converted_amount, status, description, transfer_date, completed_date`

func scan(row interface{ Scan(...any) error }, t *domain.Transfer) error {
	return row.Scan(
		&t.ID,
		&t.Code,
		&t.FromAccountID,
		&t.ToAccountID,
		&t.Amount,
		&t.FromCurrency,
		&t.ToCurrency,
		&t.ExchangeRate,
		&t.ConvertedAmount,
		&t.Status,
		&t.Description,
		&t.TransferDate,
		&t.CompletedDate,
	)
}

func mapErr(l *zerolog.Logger, err error) error {
	l.Error().Err(err).Send()

	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrTransferNotFound
	}

	if dbpkg.IsUniqueViolation(err, "transfers_code_key") || dbpkg.IsContention(err) {
		return domain.ErrConcurrencyConflict
	}

	if pqErr, ok := dbpkg.PQError(err); ok {
		switch pqErr.Constraint {
		case "transfers_from_account_id_fkey", "transfers_to_account_id_fkey":
			return domain.ErrAccountNotFound
		case "transfers_accounts_check":
			return domain.ErrSameAccount
		case "transfers_amount_check", "transfers_converted_amount_check":
			return domain.ErrInvalidAmount
		case "transfers_exchange_rate_check":
			return domain.ErrRateUnavailable
		}
	}

	return errorspkg.ErrInternal
}

const createQuery = `
INSERT INTO
    transfers (code, from_account_id, to_account_id, amount, from_currency, to_currency,
        exchange_rate, converted_amount, status, description, transfer_date, completed_date)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, 'COMPLETED', $9, now(), now())
RETURNING ` + columns

// Create records the completed transfer and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.TransferTxParams) (domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Code,
		arg.FromAccountID,
		arg.ToAccountID,
		arg.Amount,
		arg.FromCurrency,
		arg.ToCurrency,
		arg.ExchangeRate,
		arg.ConvertedAmount,
		arg.Description,
	)

	var t domain.Transfer

	if err := scan(row, &t); err != nil {
		return t, mapErr(l, err)
	}

	return t, nil
}

const getQuery = `SELECT ` + columns + ` FROM transfers WHERE id = $1`

// Get returns the transfer with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	var t domain.Transfer

	if err := scan(r.db.QueryRowContext(ctx, getQuery, id), &t); err != nil {
		return t, mapErr(l, err)
	}

	return t, nil
}

func (r *RepoPGS) list(ctx context.Context, query string, args ...any) ([]domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transfer{}

	for rows.Next() {
		var t domain.Transfer
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
FROM transfers
WHERE from_account_id = $1 OR to_account_id = $1
ORDER BY transfer_date DESC, id DESC
`

// ListByAccount returns the transfers the account sent or received, newest first.
func (r *RepoPGS) ListByAccount(ctx context.Context, accountID int64) ([]domain.Transfer, error) {
	return r.list(ctx, listByAccountQuery, accountID)
}

const listByCustomerQuery = `
SELECT ` + columns + `
FROM transfers
WHERE from_account_id IN (SELECT id FROM accounts WHERE customer_id = $1)
    OR to_account_id IN (SELECT id FROM accounts WHERE customer_id = $1)
ORDER BY transfer_date DESC, id DESC
`

// ListByCustomer returns the transfers touching any account of the customer, newest first.
func (r *RepoPGS) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Transfer, error) {
	return r.list(ctx, listByCustomerQuery, customerID)
}

// Transfer moves money between two accounts.
//
// It locks both account rows, re-validates them with check, updates the balances,
// records the transfer and both account transactions within a single db transaction.
func (r *RepoPGS) Transfer(ctx context.Context, arg domain.TransferTxParams, check domain.AccountsCheck) (domain.TransferTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.TransferTxResult

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

	fromAccount, toAccount, err := lockAccounts(ctx, accountRepo, arg.FromAccountID, arg.ToAccountID)
	if err != nil {
		return result, err
	}

	if err := check(fromAccount, toAccount); err != nil {
		return result, err
	}

	result.FromAccount, err = accountRepo.AddBalance(ctx, arg.Amount.Neg(), fromAccount.ID)
	if err != nil {
		return result, err
	}

	result.ToAccount, err = accountRepo.AddBalance(ctx, arg.ConvertedAmount, toAccount.ID)
	if err != nil {
		return result, err
	}

	result.Transfer, err = NewTxRepoPGS(tx).Create(ctx, arg)
	if err != nil {
		return result, err
	}

	transactionRepo := transactionrepo.NewTxRepoPGS(tx)

	result.FromTx, err = transactionRepo.Create(ctx, domain.CreateTransactionParams{
		Code:          arg.FromTxCode,
		AccountID:     fromAccount.ID,
		AccountNumber: fromAccount.Number,
		TransferID:    &result.Transfer.ID,
		Type:          domain.TransactionTransferOut,
		Amount:        arg.Amount,
		Currency:      fromAccount.Currency,
		ExchangeRate:  arg.ExchangeRate,
		Description:   arg.Description,
	})
	if err != nil {
		return result, err
	}

	result.ToTx, err = transactionRepo.Create(ctx, domain.CreateTransactionParams{
		Code:          arg.ToTxCode,
		AccountID:     toAccount.ID,
		AccountNumber: toAccount.Number,
		TransferID:    &result.Transfer.ID,
		Type:          domain.TransactionTransferIn,
		Amount:        arg.ConvertedAmount,
		Currency:      toAccount.Currency,
		ExchangeRate:  arg.ExchangeRate,
		Description:   arg.Description,
	})
	if err != nil {
		return result, err
	}

	if err := tx.Commit(); err != nil {
		return domain.TransferTxResult{}, mapErr(l, err)
	}

	return result, nil
}

// lockAccounts locks both account rows in ascending id order so that
// concurrent transfers in opposite directions cannot deadlock.
func lockAccounts(ctx context.Context, r *accountrepo.RepoPGS, fromID, toID int64) (domain.Account, domain.Account, error) {
	firstID, secondID := fromID, toID
	if firstID > secondID {
		firstID, secondID = secondID, firstID
	}

	first, err := r.GetForUpdate(ctx, firstID)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	second, err := r.GetForUpdate(ctx, secondID)
	if err != nil {
		return domain.Account{}, domain.Account{}, err
	}

	if first.ID == fromID {
		return first, second, nil
	}

	return second, first, nil
}
