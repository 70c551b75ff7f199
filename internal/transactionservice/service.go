// Package transactionservice manages business logic layer of deposits and account transactions.
package transactionservice

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/currencypkg"
)

// Repo provides data access layer interface needed by transaction service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type Repo interface {
	Deposit(ctx context.Context, arg domain.DepositTxParams, check domain.AccountCheck) (domain.DepositTxResult, error)
	ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error)
	ListByDateRange(ctx context.Context, arg domain.ListTransactionsByDateParams) ([]domain.Transaction, error)
	ListPaged(ctx context.Context, arg domain.ListTransactionsParams) ([]domain.Transaction, error)
}

// CodeGenerator generates unique record codes.
type CodeGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// Service facilitates transaction service layer logic.
type Service struct {
	repo           Repo
	accountService accountdelivery.Service
	codes          CodeGenerator
	maxRetries     int
}

// New returns transaction service struct to manage deposits and transaction history.
// The codes generator must be the one the transfer service draws transaction codes from.
func New(tr Repo, as accountdelivery.Service, codes CodeGenerator, maxRetries int) *Service {
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Service{
		repo:           tr,
		accountService: as,
		codes:          codes,
		maxRetries:     maxRetries,
	}
}

func checkActive(a domain.Account) error {
	if !a.IsActive {
		return domain.ErrAccountInactive
	}

	return nil
}

// checkCredit verifies the account can take the amount: it is active and the new balance fits.
func checkCredit(a domain.Account, amount decimal.Decimal) error {
	if err := checkActive(a); err != nil {
		return err
	}

	if !currencypkg.InRange(a.Balance.Add(amount)) {
		return domain.ErrInvalidAmount
	}

	return nil
}

// Deposit credits the account with the amount and records the DEPOSIT transaction.
func (s *Service) Deposit(ctx context.Context, arg domain.DepositParams) (domain.DepositTxResult, error) {
	l := zerolog.Ctx(ctx)

	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil || !amount.IsPositive() || !currencypkg.InRange(amount) {
		l.Info().Str("amount", arg.Amount).Msg("invalid deposit amount")
		return domain.DepositTxResult{}, domain.ErrInvalidAmount
	}

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return domain.DepositTxResult{}, err
		}

		var account domain.Account

		account, err = s.accountService.GetByNumber(ctx, arg.AccountNumber)
		if err != nil {
			return domain.DepositTxResult{}, err
		}

		if err := checkActive(account); err != nil {
			return domain.DepositTxResult{}, err
		}

		if !currencypkg.FitsMinorUnits(amount, account.Currency) {
			return domain.DepositTxResult{}, domain.ErrInvalidAmount
		}

		if err := checkCredit(account, amount); err != nil {
			return domain.DepositTxResult{}, err
		}

		var code string

		code, err = s.codes.Generate(ctx)
		if err != nil {
			return domain.DepositTxResult{}, err
		}

		txArg := domain.DepositTxParams{
			AccountNumber: account.Number,
			Amount:        amount,
			Code:          code,
			Description:   arg.Description,
		}

		var result domain.DepositTxResult

		check := func(a domain.Account) error {
			return checkCredit(a, amount)
		}

		result, err = s.repo.Deposit(context.WithoutCancel(ctx), txArg, check)
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			l.Warn().Int("attempt", attempt+1).Str("code", txArg.Code).Msg("deposit conflict, retrying")
			continue
		}

		if err != nil {
			return domain.DepositTxResult{}, err
		}

		l.Info().
			Str("code", result.Transaction.Code).
			Int64("account_id", result.Account.ID).
			Str("amount", amount.String()).
			Msg("deposit completed")

		return result, nil
	}

	return domain.DepositTxResult{}, err
}

// ListByAccount returns all transactions of the account, newest first.
func (s *Service) ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	if _, err := s.accountService.Get(ctx, accountID); err != nil {
		return nil, err
	}

	return s.repo.ListByAccount(ctx, accountID)
}

// ListByDateRange returns the account transactions that occurred within [start, end], newest first.
func (s *Service) ListByDateRange(ctx context.Context, accountID int64, start, end time.Time) ([]domain.Transaction, error) {
	if _, err := s.accountService.Get(ctx, accountID); err != nil {
		return nil, err
	}

	if end.Before(start) {
		return []domain.Transaction{}, nil
	}

	arg := domain.ListTransactionsByDateParams{
		AccountID: accountID,
		Start:     start,
		End:       end,
	}

	return s.repo.ListByDateRange(ctx, arg)
}

// ListPaged returns the pageID-th page of the account transactions, newest first. Pages start at 1.
func (s *Service) ListPaged(ctx context.Context, accountID int64, pageSize, pageID int32) ([]domain.Transaction, error) {
	if _, err := s.accountService.Get(ctx, accountID); err != nil {
		return nil, err
	}

	arg := domain.ListTransactionsParams{
		AccountID: accountID,
		Limit:     pageSize,
		Offset:    (pageID - 1) * pageSize,
	}

	return s.repo.ListPaged(ctx, arg)
}
