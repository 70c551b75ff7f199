//go:build integration

package ratesource_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/integrationtest"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/ratesource"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/currencypkg"
)

var (
	dbDriver string
	dbSource string
	ctx      context.Context
)

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	dbDriver = config.DBDriver
	dbSource = config.DBSource

	logger := middleware.CreateLogger(config)
	ctx = logger.WithContext(context.Background())

	os.Exit(m.Run())
}

var equateDecimal = cmp.Comparer(func(x, y decimal.Decimal) bool { return x.Equal(y) })

func TestHistoryCreateAndLatest(t *testing.T) {
	t.Parallel()

	tx := integrationtest.SetupTX(t, dbDriver, dbSource)
	history := ratesource.NewHistoryPGS(tx)

	// The ledger stores TL as TRY, so no other rate is recorded for this pair.
	from, to := currencypkg.GBP, "TL"

	_, err := history.Latest(ctx, from, to)
	if err != domain.ErrRateUnavailable {
		t.Fatalf("history.Latest(ctx, %v, %v) returned error %v, want %v", from, to, err, domain.ErrRateUnavailable)
	}

	older := domain.CreateExchangeRateParams{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         decimal.RequireFromString("41.1"),
		Source:       ratesource.FrankfurterName,
	}

	if _, err := history.Create(ctx, older); err != nil {
		t.Fatalf("history.Create(ctx, %+v) returned error: %v", older, err)
	}

	newer := older
	newer.Rate = decimal.RequireFromString("41.255")
	newer.Source = ratesource.ExchangeRateAPIName

	created, err := history.Create(ctx, newer)
	if err != nil {
		t.Fatalf("history.Create(ctx, %+v) returned error: %v", newer, err)
	}

	got, err := history.Latest(ctx, from, to)
	if err != nil {
		t.Fatalf("history.Latest(ctx, %v, %v) returned error: %v", from, to, err)
	}

	want := domain.ExchangeRate{
		ID:           created.ID,
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         newer.Rate,
		Source:       newer.Source,
		CapturedAt:   time.Now(),
	}

	compareTime := cmpopts.EquateApproxTime(time.Minute)
	if diff := cmp.Diff(want, got, compareTime, equateDecimal); diff != "" {
		t.Errorf("history.Latest(ctx, %v, %v) returned unexpected difference (-want +got):\n%s", from, to, diff)
	}
}
