package accountdelivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/integrationtest/helpers"
	"github.com/go-petr/pet-ledger/pkg/currencypkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("currency", currencypkg.ValidCurrency); err != nil {
			log.Fatal("cannot register currency validator:", err)
		}
	}

	os.Exit(m.Run())
}

var equateDecimal = cmp.Comparer(func(x, y decimal.Decimal) bool { return x.Equal(y) })

func newServer(t *testing.T, buildStubs func(accountService *MockService)) *gin.Engine {
	t.Helper()

	ctrl := gomock.NewController(t)
	accountService := NewMockService(ctrl)
	buildStubs(accountService)

	accountHandler := NewHandler(accountService)

	server := gin.New()
	server.POST("/accounts", accountHandler.Create)
	server.GET("/accounts/:id", accountHandler.Get)
	server.GET("/accounts/number/:number", accountHandler.GetByNumber)
	server.POST("/accounts/:id/deactivate", accountHandler.Deactivate)
	server.PUT("/accounts/:id/status", accountHandler.SetStatus)
	server.GET("/customers/:id/accounts", accountHandler.ListByCustomer)

	return server
}

func TestCreate(t *testing.T) {
	account := helpers.RandomAccount(currencypkg.USD, decimal.Zero)

	type requestBody struct {
		CustomerID int64  `json:"customer_id"`
		Currency   string `json:"currency"`
	}

	testCases := []struct {
		name           string
		requestBody    requestBody
		buildStubs     func(accountService *MockService)
		wantStatusCode int
		wantErrorCode  string
	}{
		{
			name:        "OK",
			requestBody: requestBody{CustomerID: account.CustomerID, Currency: account.Currency},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().
					Create(gomock.Any(), gomock.Eq(account.CustomerID), gomock.Eq(account.Currency)).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:        "InvalidCurrency",
			requestBody: requestBody{CustomerID: account.CustomerID, Currency: "RUB"},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantErrorCode:  "INVALID_REQUEST",
		},
		{
			name:        "NoCustomer",
			requestBody: requestBody{Currency: account.Currency},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantErrorCode:  "INVALID_REQUEST",
		},
		{
			name:        "InternalError",
			requestBody: requestBody{CustomerID: account.CustomerID, Currency: account.Currency},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantErrorCode:  "INTERNAL",
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := newServer(t, tc.buildStubs)

			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{Data: &data{}}
			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if tc.wantErrorCode != "" {
				if res.Error == nil || res.Error.Code != tc.wantErrorCode {
					t.Errorf("res.Error=%+v, want code %q", res.Error, tc.wantErrorCode)
				}

				return
			}

			if diff := cmp.Diff(account, res.Data.(*data).Account, equateDecimal); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGet(t *testing.T) {
	account := helpers.RandomAccount(currencypkg.EUR, decimal.RequireFromString("12.34"))

	testCases := []struct {
		name           string
		url            string
		acceptLanguage string
		buildStubs     func(accountService *MockService)
		wantStatusCode int
		wantError      *web.JSONError
	}{
		{
			name: "OK",
			url:  fmt.Sprintf("/accounts/%d", account.ID),
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(account.ID)).Times(1).Return(account, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "ByNumber",
			url:  "/accounts/number/" + account.Number,
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().GetByNumber(gomock.Any(), gomock.Eq(account.Number)).Times(1).Return(account, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "InvalidID",
			url:  "/accounts/-1",
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      &web.JSONError{Code: "INVALID_REQUEST", Error: "ID must be at least 1"},
		},
		{
			name: "InvalidNumber",
			url:  "/accounts/number/abc",
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().GetByNumber(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      &web.JSONError{Code: "INVALID_REQUEST", Error: "Number must be a number"},
		},
		{
			name: "NotFound",
			url:  fmt.Sprintf("/accounts/%d", account.ID),
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(account.ID)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      &web.JSONError{Code: "ACCOUNT_NOT_FOUND", Error: "Account not found"},
		},
		{
			name:           "NotFoundTurkish",
			url:            fmt.Sprintf("/accounts/%d", account.ID),
			acceptLanguage: "tr",
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(account.ID)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      &web.JSONError{Code: "ACCOUNT_NOT_FOUND", Error: "Hesap bulunamadı"},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := newServer(t, tc.buildStubs)

			req, err := http.NewRequest(http.MethodGet, tc.url, nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if tc.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tc.acceptLanguage)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{Data: &data{}}
			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if tc.wantError != nil {
				if diff := cmp.Diff(tc.wantError, res.Error); diff != "" {
					t.Errorf("res.Error mismatch (-want +got):\n%s", diff)
				}

				return
			}

			if diff := cmp.Diff(account, res.Data.(*data).Account, equateDecimal); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeactivate(t *testing.T) {
	account := helpers.RandomAccount(currencypkg.GBP, decimal.NewFromInt(3))
	account.IsActive = false

	server := newServer(t, func(accountService *MockService) {
		accountService.EXPECT().SetStatus(gomock.Any(), gomock.Eq(account.ID), false).Times(1).Return(account, nil)
	})

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("/accounts/%d/deactivate", account.ID), nil)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Status code: got %v, want %v", recorder.Code, http.StatusOK)
	}

	res := web.Response{Data: &data{}}
	if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	if res.Data.(*data).Account.IsActive {
		t.Error("res.Data.Account.IsActive = true, want false")
	}
}

func TestSetStatus(t *testing.T) {
	account := helpers.RandomAccount(currencypkg.EUR, decimal.NewFromInt(8))

	testCases := []struct {
		name           string
		id             int64
		body           string
		buildStubs     func(accountService *MockService)
		wantStatusCode int
		wantActive     bool
	}{
		{
			name: "Activate",
			id:   account.ID,
			body: `{"is_active":true}`,
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().SetStatus(gomock.Any(), gomock.Eq(account.ID), true).Times(1).Return(account, nil)
			},
			wantStatusCode: http.StatusOK,
			wantActive:     true,
		},
		{
			name: "Deactivate",
			id:   account.ID,
			body: `{"is_active":false}`,
			buildStubs: func(accountService *MockService) {
				inactive := account
				inactive.IsActive = false
				accountService.EXPECT().SetStatus(gomock.Any(), gomock.Eq(account.ID), false).Times(1).Return(inactive, nil)
			},
			wantStatusCode: http.StatusOK,
			wantActive:     false,
		},
		{
			name: "MissingStatus",
			id:   account.ID,
			body: `{}`,
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().SetStatus(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "InvalidID",
			id:   -1,
			body: `{"is_active":true}`,
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().SetStatus(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "NotFound",
			id:   account.ID,
			body: `{"is_active":true}`,
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().SetStatus(gomock.Any(), gomock.Eq(account.ID), true).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			server := newServer(t, tc.buildStubs)

			url := fmt.Sprintf("/accounts/%d/status", tc.id)

			req, err := http.NewRequest(http.MethodPut, url, bytes.NewBufferString(tc.body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if recorder.Code != tc.wantStatusCode {
				t.Fatalf("Status code: got %v, want %v", recorder.Code, tc.wantStatusCode)
			}

			if tc.wantStatusCode != http.StatusOK {
				return
			}

			res := web.Response{Data: &data{}}
			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if got := res.Data.(*data).Account.IsActive; got != tc.wantActive {
				t.Errorf("res.Data.Account.IsActive = %v, want %v", got, tc.wantActive)
			}
		})
	}
}

func TestListByCustomer(t *testing.T) {
	customerID := int64(77)
	accounts := []domain.Account{
		helpers.RandomAccount(currencypkg.USD, decimal.NewFromInt(1)),
		helpers.RandomAccount(currencypkg.TRY, decimal.NewFromInt(2)),
	}

	server := newServer(t, func(accountService *MockService) {
		accountService.EXPECT().ListByCustomer(gomock.Any(), gomock.Eq(customerID)).Times(1).Return(accounts, nil)
	})

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("/customers/%d/accounts", customerID), nil)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Status code: got %v, want %v", recorder.Code, http.StatusOK)
	}

	res := web.Response{Data: &dataAccounts{}}
	if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	if diff := cmp.Diff(accounts, res.Data.(*dataAccounts).Accounts, equateDecimal); diff != "" {
		t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
	}
}
