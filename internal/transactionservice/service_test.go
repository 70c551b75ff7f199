package transactionservice

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/integrationtest/helpers"
	"github.com/go-petr/pet-ledger/pkg/codepkg"
	"github.com/go-petr/pet-ledger/pkg/currencypkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
)

func TestDeposit(t *testing.T) {
	account := helpers.RandomAccount(currencypkg.USD, decimal.RequireFromString("10"))
	inactive := helpers.RandomAccount(currencypkg.USD, decimal.Zero)
	inactive.IsActive = false
	full := helpers.RandomAccount(currencypkg.USD, decimal.RequireFromString("99999999999999999.00"))

	description := "salary"

	testCases := []struct {
		name          string
		arg           domain.DepositParams
		buildStubs    func(repo *MockRepo, accountService *accountdelivery.MockService)
		checkResponse func(got domain.DepositTxResult, err error)
	}{
		{
			name: "OK",
			arg:  domain.DepositParams{AccountNumber: account.Number, Amount: "25.50", Description: &description},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				accountService.EXPECT().GetByNumber(gomock.Any(), account.Number).Times(1).Return(account, nil)
				repo.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					DoAndReturn(func(_ context.Context, arg domain.DepositTxParams, check domain.AccountCheck) (domain.DepositTxResult, error) {
						require.Equal(t, account.Number, arg.AccountNumber)
						require.True(t, arg.Amount.Equal(decimal.RequireFromString("25.5")))
						require.True(t, strings.HasPrefix(arg.Code, codepkg.TransactionPrefix))
						require.Equal(t, &description, arg.Description)

						if err := check(account); err != nil {
							return domain.DepositTxResult{}, err
						}

						credited := account
						credited.Balance = account.Balance.Add(arg.Amount)

						return domain.DepositTxResult{
							Account: credited,
							Transaction: domain.Transaction{
								Code:         arg.Code,
								AccountID:    account.ID,
								Type:         domain.TransactionDeposit,
								Amount:       arg.Amount,
								Currency:     account.Currency,
								ExchangeRate: decimal.NewFromInt(1),
							},
						}, nil
					})
			},
			checkResponse: func(got domain.DepositTxResult, err error) {
				require.NoError(t, err)
				require.Equal(t, domain.TransactionDeposit, got.Transaction.Type)
				require.True(t, got.Account.Balance.Equal(decimal.RequireFromString("35.50")))
			},
		},
		{
			name: "NegativeAmount",
			arg:  domain.DepositParams{AccountNumber: account.Number, Amount: "-5.00"},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				accountService.EXPECT().GetByNumber(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(got domain.DepositTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
				require.Empty(t, got)
			},
		},
		{
			name: "MalformedAmountBeforeAccountLookup",
			arg:  domain.DepositParams{AccountNumber: "unknown", Amount: "ten"},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				accountService.EXPECT().GetByNumber(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(got domain.DepositTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
			},
		},
		{
			name: "ErrAccountNotFound",
			arg:  domain.DepositParams{AccountNumber: "840999999999", Amount: "1"},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				accountService.EXPECT().GetByNumber(gomock.Any(), "840999999999").
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
				repo.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(got domain.DepositTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrAccountNotFound)
			},
		},
		{
			name: "ErrAccountInactiveBeforePrecision",
			arg:  domain.DepositParams{AccountNumber: inactive.Number, Amount: "1.001"},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				accountService.EXPECT().GetByNumber(gomock.Any(), inactive.Number).Times(1).Return(inactive, nil)
				repo.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(got domain.DepositTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrAccountInactive)
			},
		},
		{
			name: "TooLarge",
			arg:  domain.DepositParams{AccountNumber: account.Number, Amount: "1e20"},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				accountService.EXPECT().GetByNumber(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(got domain.DepositTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
			},
		},
		{
			name: "BalanceOverflow",
			arg:  domain.DepositParams{AccountNumber: full.Number, Amount: "1"},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				accountService.EXPECT().GetByNumber(gomock.Any(), full.Number).Times(1).Return(full, nil)
				repo.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(got domain.DepositTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
			},
		},
		{
			name: "TooPrecise",
			arg:  domain.DepositParams{AccountNumber: account.Number, Amount: "1.001"},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				accountService.EXPECT().GetByNumber(gomock.Any(), account.Number).Times(1).Return(account, nil)
				repo.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(got domain.DepositTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrInvalidAmount)
			},
		},
		{
			name: "DeactivatedWhileLocking",
			arg:  domain.DepositParams{AccountNumber: account.Number, Amount: "1"},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				accountService.EXPECT().GetByNumber(gomock.Any(), account.Number).Times(1).Return(account, nil)
				repo.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					DoAndReturn(func(_ context.Context, _ domain.DepositTxParams, check domain.AccountCheck) (domain.DepositTxResult, error) {
						return domain.DepositTxResult{}, check(inactive)
					})
			},
			checkResponse: func(got domain.DepositTxResult, err error) {
				require.ErrorIs(t, err, domain.ErrAccountInactive)
			},
		},
		{
			name: "RetriedOnConflict",
			arg:  domain.DepositParams{AccountNumber: account.Number, Amount: "1"},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				accountService.EXPECT().GetByNumber(gomock.Any(), account.Number).Times(2).Return(account, nil)
				gomock.InOrder(
					repo.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).
						Times(1).
						Return(domain.DepositTxResult{}, domain.ErrConcurrencyConflict),
					repo.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).
						Times(1).
						Return(domain.DepositTxResult{Account: account}, nil),
				)
			},
			checkResponse: func(got domain.DepositTxResult, err error) {
				require.NoError(t, err)
				require.Equal(t, account, got.Account)
			},
		},
		{
			name: "InternalError",
			arg:  domain.DepositParams{AccountNumber: account.Number, Amount: "1"},
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				accountService.EXPECT().GetByNumber(gomock.Any(), account.Number).Times(1).Return(account, nil)
				repo.EXPECT().Deposit(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.DepositTxResult{}, errorspkg.ErrInternal)
			},
			checkResponse: func(got domain.DepositTxResult, err error) {
				require.ErrorIs(t, err, errorspkg.ErrInternal)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			accountService := accountdelivery.NewMockService(ctrl)
			tc.buildStubs(repo, accountService)

			service := New(repo, accountService, codepkg.NewLocal(codepkg.TransactionPrefix), 2)

			got, err := service.Deposit(context.Background(), tc.arg)
			tc.checkResponse(got, err)
		})
	}
}

func TestListPaged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	account := helpers.RandomAccount(currencypkg.EUR, decimal.Zero)
	transactions := []domain.Transaction{{ID: 3}, {ID: 2}}

	repo := NewMockRepo(ctrl)
	accountService := accountdelivery.NewMockService(ctrl)

	accountService.EXPECT().Get(gomock.Any(), account.ID).Times(1).Return(account, nil)
	repo.EXPECT().
		ListPaged(gomock.Any(), domain.ListTransactionsParams{AccountID: account.ID, Limit: 10, Offset: 20}).
		Times(1).
		Return(transactions, nil)

	service := New(repo, accountService, codepkg.NewLocal(codepkg.TransactionPrefix), 2)

	got, err := service.ListPaged(context.Background(), account.ID, 10, 3)
	require.NoError(t, err)
	require.Equal(t, transactions, got)
}

func TestListByDateRange(t *testing.T) {
	account := helpers.RandomAccount(currencypkg.EUR, decimal.Zero)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	transactions := []domain.Transaction{{ID: 1}}

	testCases := []struct {
		name       string
		start, end time.Time
		buildStubs func(repo *MockRepo, accountService *accountdelivery.MockService)
		want       []domain.Transaction
		wantErr    error
	}{
		{
			name:  "OK",
			start: start,
			end:   end,
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				accountService.EXPECT().Get(gomock.Any(), account.ID).Times(1).Return(account, nil)
				repo.EXPECT().
					ListByDateRange(gomock.Any(), domain.ListTransactionsByDateParams{AccountID: account.ID, Start: start, End: end}).
					Times(1).
					Return(transactions, nil)
			},
			want: transactions,
		},
		{
			name:  "EmptyRange",
			start: end,
			end:   start,
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				accountService.EXPECT().Get(gomock.Any(), account.ID).Times(1).Return(account, nil)
				repo.EXPECT().ListByDateRange(gomock.Any(), gomock.Any()).Times(0)
			},
			want: []domain.Transaction{},
		},
		{
			name:  "ErrAccountNotFound",
			start: start,
			end:   end,
			buildStubs: func(repo *MockRepo, accountService *accountdelivery.MockService) {
				accountService.EXPECT().Get(gomock.Any(), account.ID).Times(1).Return(domain.Account{}, domain.ErrAccountNotFound)
				repo.EXPECT().ListByDateRange(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: domain.ErrAccountNotFound,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			accountService := accountdelivery.NewMockService(ctrl)
			tc.buildStubs(repo, accountService)

			service := New(repo, accountService, codepkg.NewLocal(codepkg.TransactionPrefix), 0)

			got, err := service.ListByDateRange(context.Background(), account.ID, tc.start, tc.end)
			require.ErrorIs(t, err, tc.wantErr)
			require.Equal(t, tc.want, got)
		})
	}
}
