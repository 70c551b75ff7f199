package ratesource

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// HistoryPGS stores captured exchange rates in the exchange_rates table.
type HistoryPGS struct {
	db dbpkg.SQLInterface
}

// NewHistoryPGS returns HistoryPGS.
func NewHistoryPGS(db dbpkg.SQLInterface) *HistoryPGS {
	return &HistoryPGS{db: db}
}

const historyColumns = `id, from_currency, to_currency, rate, source, captured_at`

const createRateQuery = `
INSERT INTO
    exchange_rates (from_currency, to_currency, rate, source)
VALUES
    ($1, $2, $3, $4)
RETURNING ` + historyColumns

// Create records the captured rate and then returns it.
func (h *HistoryPGS) Create(ctx context.Context, arg domain.CreateExchangeRateParams) (domain.ExchangeRate, error) {
	l := zerolog.Ctx(ctx)

	var r domain.ExchangeRate

	err := h.db.QueryRowContext(ctx, createRateQuery,
		arg.FromCurrency,
		arg.ToCurrency,
		arg.Rate.Round(RateScale),
		arg.Source,
	).Scan(&r.ID, &r.FromCurrency, &r.ToCurrency, &r.Rate, &r.Source, &r.CapturedAt)
	if err != nil {
		l.Error().Err(err).Send()
		return r, errorspkg.ErrInternal
	}

	return r, nil
}

const latestRateQuery = `
SELECT ` + historyColumns + `
FROM exchange_rates
WHERE from_currency = $1 AND to_currency = $2
ORDER BY captured_at DESC, id DESC
LIMIT 1`

// Latest returns the most recently captured from to rate.
func (h *HistoryPGS) Latest(ctx context.Context, from, to string) (domain.ExchangeRate, error) {
	l := zerolog.Ctx(ctx)

	var r domain.ExchangeRate

	err := h.db.QueryRowContext(ctx, latestRateQuery, from, to).
		Scan(&r.ID, &r.FromCurrency, &r.ToCurrency, &r.Rate, &r.Source, &r.CapturedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return r, domain.ErrRateUnavailable
	}

	if err != nil {
		l.Error().Err(err).Send()
		return r, errorspkg.ErrInternal
	}

	return r, nil
}
