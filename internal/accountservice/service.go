// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/currencypkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	SetActive(ctx context.Context, id int64, active bool) (domain.Account, error)
	Get(ctx context.Context, id int64) (domain.Account, error)
	GetByNumber(ctx context.Context, number string) (domain.Account, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error)
}

// SequenceRepo hands out per-currency account number sequence values.
type SequenceRepo interface {
	Next(ctx context.Context, currency string) (int64, error)
}

// maxSequence is the largest sequence value that fits the 9 digit number suffix.
const maxSequence = 999_999_999

// createAttempts bounds retries when a generated number is already taken.
const createAttempts = 3

// Service facilitates account service layer logic.
type Service struct {
	repo         Repo
	sequenceRepo SequenceRepo
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo, sr SequenceRepo) *Service {
	return &Service{
		repo:         ar,
		sequenceRepo: sr,
	}
}

// GenerateNumber returns a new account number for the currency:
// 3 digit ISO 4217 numeric code followed by the 9 digit zero-padded sequence value.
func (s *Service) GenerateNumber(ctx context.Context, currency string) (string, error) {
	l := zerolog.Ctx(ctx)

	prefix, ok := currencypkg.NumericCode(currency)
	if !ok {
		return "", domain.ErrUnsupportedCurrency
	}

	n, err := s.sequenceRepo.Next(ctx, currency)
	if err != nil {
		return "", err
	}

	if n < 1 || n > maxSequence {
		l.Error().Int64("sequence", n).Str("currency", currency).Msg("account number sequence exhausted")
		return "", errorspkg.ErrInternal
	}

	return fmt.Sprintf("%s%09d", prefix, n), nil
}

// Create opens an active account with zero balance and a generated number.
func (s *Service) Create(ctx context.Context, customerID int64, currency string) (domain.Account, error) {
	currency = currencypkg.Normalize(currency)
	if !currencypkg.IsSupportedCurrency(currency) {
		return domain.Account{}, domain.ErrUnsupportedCurrency
	}

	var err error

	for i := 0; i < createAttempts; i++ {
		var number string

		number, err = s.GenerateNumber(ctx, currency)
		if err != nil {
			return domain.Account{}, err
		}

		var account domain.Account

		account, err = s.repo.Create(ctx, domain.CreateAccountParams{
			Number:     number,
			CustomerID: customerID,
			Currency:   currency,
		})
		if !errors.Is(err, domain.ErrAccountNumberExists) {
			return account, err
		}

		zerolog.Ctx(ctx).Warn().Str("number", number).Msg("generated account number is taken")
	}

	return domain.Account{}, err
}

// Get returns account for the given account ID.
func (s *Service) Get(ctx context.Context, id int64) (domain.Account, error) {
	return s.repo.Get(ctx, id)
}

// GetByNumber returns account for the given account number.
func (s *Service) GetByNumber(ctx context.Context, number string) (domain.Account, error) {
	return s.repo.GetByNumber(ctx, number)
}

// ListByCustomer returns all accounts of the customer.
func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// SetStatus activates or deactivates the account. History and balance are kept either way.
func (s *Service) SetStatus(ctx context.Context, id int64, active bool) (domain.Account, error) {
	account, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return domain.Account{}, err
	}

	zerolog.Ctx(ctx).Info().Int64("account_id", id).Bool("is_active", active).Msg("account status changed")

	return account, nil
}
