// Package transferservice manages business logic layer of transfers.
package transferservice

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/currencypkg"
)

// Repo provides data access layer interface needed by transfer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Repo interface {
	Get(ctx context.Context, id int64) (domain.Transfer, error)
	ListByAccount(ctx context.Context, accountID int64) ([]domain.Transfer, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Transfer, error)
	Transfer(ctx context.Context, arg domain.TransferTxParams, check domain.AccountsCheck) (domain.TransferTxResult, error)
}

// RateSource resolves the rate converting an amount in from currency to the to currency.
//
// ok is false when no rate is known. The caller must not substitute any default.
type RateSource interface {
	GetRate(ctx context.Context, from, to string) (rate decimal.Decimal, ok bool)
}

// CodeGenerator generates unique record codes.
type CodeGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// Service facilitates transfer service layer logic.
type Service struct {
	repo             Repo
	accountService   accountdelivery.Service
	rates            RateSource
	transferCodes    CodeGenerator
	transactionCodes CodeGenerator
	maxRetries       int
}

// New return transfer service struct to manage transfer bussines logic.
//
// Transaction codes must come from the generator the deposits use.
// A transfer that hits a concurrency conflict is re-validated and retried at most maxRetries times.
func New(tr Repo, as accountdelivery.Service, rs RateSource, transferCodes, transactionCodes CodeGenerator, maxRetries int) *Service {
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Service{
		repo:             tr,
		accountService:   as,
		rates:            rs,
		transferCodes:    transferCodes,
		transactionCodes: transactionCodes,
		maxRetries:       maxRetries,
	}
}

type resolver func(ctx context.Context) (from, to domain.Account, err error)

func (s *Service) byID(fromID, toID int64) resolver {
	return func(ctx context.Context) (domain.Account, domain.Account, error) {
		from, err := s.accountService.Get(ctx, fromID)
		if err != nil {
			return domain.Account{}, domain.Account{}, err
		}

		to, err := s.accountService.Get(ctx, toID)
		if err != nil {
			return domain.Account{}, domain.Account{}, err
		}

		return from, to, nil
	}
}

func (s *Service) byNumber(fromNumber, toNumber string) resolver {
	return func(ctx context.Context) (domain.Account, domain.Account, error) {
		from, err := s.accountService.GetByNumber(ctx, fromNumber)
		if err != nil {
			return domain.Account{}, domain.Account{}, err
		}

		to, err := s.accountService.GetByNumber(ctx, toNumber)
		if err != nil {
			return domain.Account{}, domain.Account{}, err
		}

		return from, to, nil
	}
}

// quote is a transfer that passed every rule against the given account state.
type quote struct {
	from      domain.Account
	to        domain.Account
	amount    decimal.Decimal
	rate      decimal.Decimal
	converted decimal.Decimal
}

func checkActive(from, to domain.Account) error {
	if !from.IsActive || !to.IsActive {
		return domain.ErrAccountInactive
	}

	return nil
}

func checkFunds(from domain.Account, amount decimal.Decimal) error {
	if from.Balance.LessThan(amount) {
		return domain.ErrInsufficientFunds
	}

	return nil
}

// checkCredit verifies the destination balance still fits the money columns after the transfer.
func checkCredit(to domain.Account, converted decimal.Decimal) error {
	if !currencypkg.InRange(to.Balance.Add(converted)) {
		return domain.ErrInvalidAmount
	}

	return nil
}

// parseAmount parses a positive amount that fits the money columns and the currency minor unit.
func parseAmount(amount, currency string) (decimal.Decimal, error) {
	a, err := decimal.NewFromString(amount)
	if err != nil || !a.IsPositive() || !currencypkg.InRange(a) || !currencypkg.FitsMinorUnits(a, currency) {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}

	return a, nil
}

func (s *Service) rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	rate, ok := s.rates.GetRate(ctx, from, to)
	if !ok || !rate.IsPositive() {
		zerolog.Ctx(ctx).Warn().Str("from", from).Str("to", to).Msg("exchange rate unavailable")
		return decimal.Decimal{}, domain.ErrRateUnavailable
	}

	return rate, nil
}

// evaluate runs every transfer rule in order and stops at the first failing one.
// Validation and execution both go through it.
func (s *Service) evaluate(ctx context.Context, resolve resolver, amount string) (quote, error) {
	var q quote

	from, to, err := resolve(ctx)
	if err != nil {
		return q, err
	}

	if err := checkActive(from, to); err != nil {
		return q, err
	}

	if from.ID == to.ID {
		return q, domain.ErrSameAccount
	}

	a, err := parseAmount(amount, from.Currency)
	if err != nil {
		return q, err
	}

	if err := checkFunds(from, a); err != nil {
		return q, err
	}

	rate, err := s.rate(ctx, from.Currency, to.Currency)
	if err != nil {
		return q, err
	}

	converted := currencypkg.Round(a.Mul(rate), to.Currency)
	if !converted.IsPositive() {
		return q, domain.ErrInvalidAmount
	}

	if err := checkCredit(to, converted); err != nil {
		return q, err
	}

	return quote{
		from:      from,
		to:        to,
		amount:    a,
		rate:      rate,
		converted: converted,
	}, nil
}

// codes draws the transfer code and the codes of both transfer legs.
func (s *Service) codes(ctx context.Context) (transfer, fromTx, toTx string, err error) {
	if transfer, err = s.transferCodes.Generate(ctx); err != nil {
		return "", "", "", err
	}

	if fromTx, err = s.transactionCodes.Generate(ctx); err != nil {
		return "", "", "", err
	}

	if toTx, err = s.transactionCodes.Generate(ctx); err != nil {
		return "", "", "", err
	}

	return transfer, fromTx, toTx, nil
}

func (s *Service) execute(ctx context.Context, resolve resolver, amount string, description *string) (domain.Transfer, error) {
	l := zerolog.Ctx(ctx)

	var err error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return domain.Transfer{}, err
		}

		var q quote

		q, err = s.evaluate(ctx, resolve, amount)
		if err != nil {
			return domain.Transfer{}, err
		}

		var code, fromTxCode, toTxCode string

		code, fromTxCode, toTxCode, err = s.codes(ctx)
		if err != nil {
			return domain.Transfer{}, err
		}

		arg := domain.TransferTxParams{
			Code:            code,
			FromTxCode:      fromTxCode,
			ToTxCode:        toTxCode,
			FromAccountID:   q.from.ID,
			ToAccountID:     q.to.ID,
			Amount:          q.amount,
			FromCurrency:    q.from.Currency,
			ToCurrency:      q.to.Currency,
			ExchangeRate:    q.rate,
			ConvertedAmount: q.converted,
			Description:     description,
		}

		check := func(from, to domain.Account) error {
			if err := checkActive(from, to); err != nil {
				return err
			}

			if err := checkFunds(from, q.amount); err != nil {
				return err
			}

			return checkCredit(to, q.converted)
		}

		var result domain.TransferTxResult

		// Once started the atomic step commits or rolls back as a whole.
		result, err = s.repo.Transfer(context.WithoutCancel(ctx), arg, check)
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			l.Warn().Int("attempt", attempt+1).Str("code", arg.Code).Msg("transfer conflict, retrying")
			continue
		}

		if err != nil {
			return domain.Transfer{}, err
		}

		l.Info().
			Str("code", result.Transfer.Code).
			Int64("from_account_id", arg.FromAccountID).
			Int64("to_account_id", arg.ToAccountID).
			Str("amount", arg.Amount.String()).
			Str("converted_amount", arg.ConvertedAmount.String()).
			Msg("transfer completed")

		return result.Transfer, nil
	}

	return domain.Transfer{}, err
}

func (s *Service) validate(ctx context.Context, resolve resolver, amount string) (domain.ValidationResult, error) {
	q, err := s.evaluate(ctx, resolve, amount)
	if err != nil {
		return domain.ValidationResult{}, err
	}

	return domain.ValidationResult{
		IsValid:         true,
		FromCurrency:    q.from.Currency,
		ToCurrency:      q.to.Currency,
		ExchangeRate:    q.rate,
		ConvertedAmount: q.converted,
	}, nil
}

// Transfer checks if transfer request is valid and then executes transfer.
func (s *Service) Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.Transfer, error) {
	return s.execute(ctx, s.byID(arg.FromAccountID, arg.ToAccountID), arg.Amount, arg.Description)
}

// TransferByNumber executes transfer between accounts given by their numbers.
func (s *Service) TransferByNumber(ctx context.Context, arg domain.CreateTransferByNumberParams) (domain.Transfer, error) {
	return s.execute(ctx, s.byNumber(arg.FromAccountNumber, arg.ToAccountNumber), arg.Amount, arg.Description)
}

// Validate reports whether Transfer with the same input would currently succeed. It never changes state.
func (s *Service) Validate(ctx context.Context, arg domain.CreateTransferParams) (domain.ValidationResult, error) {
	return s.validate(ctx, s.byID(arg.FromAccountID, arg.ToAccountID), arg.Amount)
}

// ValidateByNumber is Validate for accounts given by their numbers.
func (s *Service) ValidateByNumber(ctx context.Context, arg domain.CreateTransferByNumberParams) (domain.ValidationResult, error) {
	return s.validate(ctx, s.byNumber(arg.FromAccountNumber, arg.ToAccountNumber), arg.Amount)
}

// Get returns the transfer with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Transfer, error) {
	return s.repo.Get(ctx, id)
}

// ListByAccount returns the transfers the account sent or received, newest first.
func (s *Service) ListByAccount(ctx context.Context, accountID int64) ([]domain.Transfer, error) {
	if _, err := s.accountService.Get(ctx, accountID); err != nil {
		return nil, err
	}

	return s.repo.ListByAccount(ctx, accountID)
}

// ListByCustomer returns the transfers touching any account of the customer, newest first.
func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Transfer, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}
