// Package ratesource resolves currency exchange rates for the ledger.
//
// Chain asks, in order: identity, cache, live providers and persisted rate history.
// It never makes a rate up; when every tier fails the rate is unavailable.
package ratesource

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/currencypkg"
)

// Provider fetches the current rate from a live source.
//
//go:generate mockgen -source chain.go -destination chain_mock.go -package ratesource
type Provider interface {
	Name() string
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// Cache keeps recently fetched rates.
type Cache interface {
	Get(ctx context.Context, from, to string) (decimal.Decimal, bool)
	Set(ctx context.Context, from, to string, rate decimal.Decimal)
}

// History persists every fetched rate and returns the latest one recorded for a pair.
type History interface {
	Create(ctx context.Context, arg domain.CreateExchangeRateParams) (domain.ExchangeRate, error)
	Latest(ctx context.Context, from, to string) (domain.ExchangeRate, error)
}

// Chain is the rate source used by the ledger services.
type Chain struct {
	cache     Cache
	history   History
	providers []Provider
	group     singleflight.Group
}

// NewChain returns Chain asking providers in the given order.
func NewChain(cache Cache, history History, providers ...Provider) *Chain {
	return &Chain{
		cache:     cache,
		history:   history,
		providers: providers,
	}
}

// GetRate returns the rate converting an amount in from currency into to currency.
//
// ok is false when no tier knows the rate.
func (c *Chain) GetRate(ctx context.Context, from, to string) (decimal.Decimal, bool) {
	from, to = currencypkg.Normalize(from), currencypkg.Normalize(to)

	if from == to {
		return decimal.NewFromInt(1), true
	}

	if rate, ok := c.cache.Get(ctx, from, to); ok {
		return rate, true
	}

	// Callers share the fetch, so it must outlive the caller that started it.
	// Providers bound it with their own timeout.
	v, err, _ := c.group.Do(from+":"+to, func() (any, error) {
		return c.fetch(context.WithoutCancel(ctx), from, to)
	})
	if err == nil {
		return v.(decimal.Decimal), true
	}

	return c.fromHistory(ctx, from, to)
}

// RateScale is the number of decimal places rates are kept with, as stored in the ledger.
const RateScale = 10

const refreshConcurrency = 4

var errNoProvider = errors.New("no provider returned the rate")

// fetch asks live providers in order and records the first positive rate.
func (c *Chain) fetch(ctx context.Context, from, to string) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	for _, p := range c.providers {
		rate, err := p.Rate(ctx, from, to)
		if err != nil {
			l.Warn().Err(err).Str("provider", p.Name()).Str("from", from).Str("to", to).Msg("rate provider failed")
			continue
		}

		if !rate.IsPositive() {
			l.Warn().Str("provider", p.Name()).Str("rate", rate.String()).Msg("rate provider returned non-positive rate")
			continue
		}

		c.cache.Set(ctx, from, to, rate)
		c.record(ctx, p.Name(), from, to, rate)

		return rate, nil
	}

	return decimal.Zero, errNoProvider
}

func (c *Chain) record(ctx context.Context, source, from, to string, rate decimal.Decimal) {
	arg := domain.CreateExchangeRateParams{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
		Source:       source,
	}

	if _, err := c.history.Create(ctx, arg); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("from", from).Str("to", to).Msg("cannot record rate")
	}
}

func (c *Chain) fromHistory(ctx context.Context, from, to string) (decimal.Decimal, bool) {
	l := zerolog.Ctx(ctx)

	if r, err := c.history.Latest(ctx, from, to); err == nil && r.Rate.IsPositive() {
		l.Warn().
			Str("from", from).
			Str("to", to).
			Time("captured_at", r.CapturedAt).
			Msg("live rates unavailable, using recorded rate")

		return r.Rate, true
	}

	if r, err := c.history.Latest(ctx, to, from); err == nil && r.Rate.IsPositive() {
		l.Warn().
			Str("from", from).
			Str("to", to).
			Time("captured_at", r.CapturedAt).
			Msg("live rates unavailable, using inverse of recorded rate")

		return decimal.NewFromInt(1).DivRound(r.Rate, RateScale), true
	}

	l.Error().Str("from", from).Str("to", to).Msg("exchange rate unavailable")

	return decimal.Zero, false
}

// QuoteCurrency is the currency the rate board is quoted in.
const QuoteCurrency = currencypkg.TRY

const quoteScale = 4

var quoteSpread = decimal.RequireFromString("0.005")

// Current returns the rate board: every supported currency against QuoteCurrency with
// buy and sell rates 0.5% around the mid rate. Currencies without a known rate are left out.
func (c *Chain) Current(ctx context.Context) []domain.CurrencyQuote {
	one := decimal.NewFromInt(1)

	quotes := make([]domain.CurrencyQuote, 0, len(currencypkg.SupportedCurrencies)-1)

	for _, currency := range currencypkg.SupportedCurrencies {
		if currency == QuoteCurrency {
			continue
		}

		rate, ok := c.GetRate(ctx, currency, QuoteCurrency)
		if !ok {
			continue
		}

		quotes = append(quotes, domain.CurrencyQuote{
			Currency:      currency,
			QuoteCurrency: QuoteCurrency,
			Rate:          rate,
			BuyRate:       rate.Mul(one.Sub(quoteSpread)).Round(quoteScale),
			SellRate:      rate.Mul(one.Add(quoteSpread)).Round(quoteScale),
		})
	}

	return quotes
}

// Refresh fetches every supported currency pair from the live providers and records it.
//
// It returns the number of pairs refreshed.
func (c *Chain) Refresh(ctx context.Context) int {
	l := zerolog.Ctx(ctx)

	var (
		g         errgroup.Group
		refreshed atomic.Int32
	)

	g.SetLimit(refreshConcurrency)

	for _, from := range currencypkg.SupportedCurrencies {
		for _, to := range currencypkg.SupportedCurrencies {
			if from == to {
				continue
			}

			from, to := from, to

			g.Go(func() error {
				if _, err := c.fetch(ctx, from, to); err != nil {
					l.Warn().Str("from", from).Str("to", to).Msg("cannot refresh rate")
					return nil
				}

				refreshed.Add(1)

				return nil
			})
		}
	}

	_ = g.Wait()

	l.Info().Int32("refreshed", refreshed.Load()).Msg("exchange rates refreshed")

	return int(refreshed.Load())
}
