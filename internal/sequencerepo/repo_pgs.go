// Package sequencerepo manages per-currency account number sequences and record code counters.
package sequencerepo

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// RepoPGS facilitates sequence repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns sequence RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const nextQuery = `
INSERT INTO
    account_number_sequences (currency, last_number)
VALUES
    ($1, 1)
ON CONFLICT (currency) DO UPDATE
SET last_number = account_number_sequences.last_number + 1
RETURNING last_number
`

// Next atomically increments and returns the currency sequence. The first value is 1.
func (r *RepoPGS) Next(ctx context.Context, currency string) (int64, error) {
	l := zerolog.Ctx(ctx)

	var n int64

	if err := r.db.QueryRowContext(ctx, nextQuery, currency).Scan(&n); err != nil {
		l.Error().Err(err).Str("currency", currency).Send()
		return 0, errorspkg.ErrInternal
	}

	return n, nil
}

const nextCodeQuery = `
INSERT INTO
    code_sequences (prefix, last_value)
VALUES
    ($1, 1)
ON CONFLICT (prefix) DO UPDATE
SET last_value = code_sequences.last_value + 1
RETURNING last_value
`

// NextCode atomically increments and returns the code counter of the prefix. The first value is 1.
func (r *RepoPGS) NextCode(ctx context.Context, prefix string) (int64, error) {
	l := zerolog.Ctx(ctx)

	var n int64

	if err := r.db.QueryRowContext(ctx, nextCodeQuery, prefix).Scan(&n); err != nil {
		l.Error().Err(err).Str("prefix", prefix).Send()
		return 0, errorspkg.ErrInternal
	}

	return n, nil
}
