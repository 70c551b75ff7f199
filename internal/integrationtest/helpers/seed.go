// Package helpers provides functions to seed the database and build test fixtures.
package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

// RandomAccount returns random active account in memory.
func RandomAccount(currency string, balance decimal.Decimal) domain.Account {
	now := time.Now().Truncate(time.Second).UTC()

	return domain.Account{
		ID:         randompkg.IntBetween(1, 1_000_000),
		Number:     randompkg.AccountNumber(currency),
		CustomerID: randompkg.IntBetween(1, 1_000),
		Currency:   currency,
		Balance:    balance,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// SeedAccount creates active Account with the given balance inside a test transaction.
func SeedAccount(t *testing.T, tx dbpkg.SQLInterface, customerID int64, currency, balance string) domain.Account {
	t.Helper()

	accountRepo := accountrepo.NewRepoPGS(tx)

	arg := domain.CreateAccountParams{
		Number:     randompkg.AccountNumber(currency),
		CustomerID: customerID,
		Currency:   currency,
	}

	account, err := accountRepo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("accountRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	amount := decimal.RequireFromString(balance)
	if amount.IsZero() {
		return account
	}

	account, err = accountRepo.AddBalance(context.Background(), amount, account.ID)
	if err != nil {
		t.Fatalf("accountRepo.AddBalance(context.Background(), %v, %v) returned error: %v",
			amount, account.ID, err)
	}

	return account
}

// SeedInactiveAccount creates deactivated Account with the given balance inside a test transaction.
func SeedInactiveAccount(t *testing.T, tx dbpkg.SQLInterface, customerID int64, currency, balance string) domain.Account {
	t.Helper()

	account := SeedAccount(t, tx, customerID, currency, balance)

	account, err := accountrepo.NewRepoPGS(tx).SetActive(context.Background(), account.ID, false)
	if err != nil {
		t.Fatalf("accountRepo.SetActive(context.Background(), %v, false) returned error: %v", account.ID, err)
	}

	return account
}

// SeedAllCurrenciesAccounts creates an account for every currency with the given balance.
func SeedAllCurrenciesAccounts(t *testing.T, tx dbpkg.SQLInterface, customerID int64, currencies []string, balance string) []domain.Account {
	t.Helper()

	accounts := make([]domain.Account, len(currencies))

	for i, c := range currencies {
		accounts[i] = SeedAccount(t, tx, customerID, c, balance)
	}

	return accounts
}

// RandomTransfer returns random completed transfer between the accounts in memory.
func RandomTransfer(from, to domain.Account, amount, rate decimal.Decimal) domain.Transfer {
	now := time.Now().Truncate(time.Second).UTC()

	return domain.Transfer{
		ID:              randompkg.IntBetween(1, 1_000_000),
		Code:            "TRF" + now.Format("20060102150405") + randompkg.Digits(4),
		FromAccountID:   from.ID,
		ToAccountID:     to.ID,
		Amount:          amount,
		FromCurrency:    from.Currency,
		ToCurrency:      to.Currency,
		ExchangeRate:    rate,
		ConvertedAmount: amount.Mul(rate).Round(2),
		Status:          domain.TransferCompleted,
		Description:     randompkg.Description(),
		TransferDate:    now,
		CompletedDate:   &now,
	}
}
