// Package currencypkg provides common currency related functionality for apps.
package currencypkg

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Constants for all supported currencies.
const (
	TRY = "TRY"
	USD = "USD"
	EUR = "EUR"
	GBP = "GBP"
)

// SupportedCurrencies holds all the supported currencies.
var SupportedCurrencies = []string{
	TRY,
	USD,
	EUR,
	GBP,
}

// numericCodes are ISO-4217 numeric codes used as account number prefixes.
var numericCodes = map[string]string{
	TRY: "949",
	USD: "840",
	EUR: "978",
	GBP: "826",
}

// aliases maps legacy codes to their ISO-4217 form.
var aliases = map[string]string{
	"TL": TRY,
}

// Normalize upper-cases the code and resolves legacy aliases.
func Normalize(currency string) string {
	c := strings.ToUpper(strings.TrimSpace(currency))
	if alias, ok := aliases[c]; ok {
		return alias
	}

	return c
}

// IsSupportedCurrency returns true if the currncy is supported.
func IsSupportedCurrency(currency string) bool {
	_, ok := numericCodes[Normalize(currency)]
	return ok
}

// NumericCode returns ISO-4217 numeric code of the currency.
func NumericCode(currency string) (string, bool) {
	code, ok := numericCodes[Normalize(currency)]
	return code, ok
}

// MinorUnits returns the number of decimal places of the currency minor unit.
//
// All supported currencies use cents.
func MinorUnits(string) int32 {
	return 2
}

// Round rounds the amount half away from zero to the currency minor unit.
func Round(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(MinorUnits(currency))
}

// FitsMinorUnits reports whether the amount needs no rounding in the currency.
func FitsMinorUnits(amount decimal.Decimal, currency string) bool {
	return amount.Equal(Round(amount, currency))
}

// maxAmount is the smallest magnitude the numeric(19,2) money columns cannot hold.
var maxAmount = decimal.New(1, 17)

// InRange reports whether the amount fits the money columns.
func InRange(amount decimal.Decimal) bool {
	return amount.Abs().LessThan(maxAmount)
}

// ValidCurrency validates whether the currency is supported.
var ValidCurrency validator.Func = func(fl validator.FieldLevel) bool {
	if c, ok := fl.Field().Interface().(string); ok {
		return IsSupportedCurrency(c)
	}

	return false
}
