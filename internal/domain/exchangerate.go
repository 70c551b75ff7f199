package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a captured conversion rate from one currency to another.
type ExchangeRate struct {
	ID           int64           `json:"id"`
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	Rate         decimal.Decimal `json:"rate"`
	Source       string          `json:"source"`
	CapturedAt   time.Time       `json:"captured_at"`
}

// CreateExchangeRateParams is the input data to record a captured rate.
type CreateExchangeRateParams struct {
	FromCurrency string
	ToCurrency   string
	Rate         decimal.Decimal
	Source       string
}

// CurrencyQuote is the rate board entry of a currency against the quote currency.
type CurrencyQuote struct {
	Currency      string          `json:"currency"`
	QuoteCurrency string          `json:"quote_currency"`
	Rate          decimal.Decimal `json:"rate"`
	BuyRate       decimal.Decimal `json:"buy_rate"`
	SellRate      decimal.Decimal `json:"sell_rate"`
}
