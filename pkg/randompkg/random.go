// Package randompkg provides functionality gor generating random applications common items.
package randompkg

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/pkg/currencypkg"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz"
	digits   = "0123456789"
)

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// Float64 is a shortcut for generating a random float between 0 and 1 using crypto/rand.
func Float64() float64 {
	return float64(Intn(1<<32)) / (1 << 32)
}

// IntBetween generates a random integer between min and max.
func IntBetween(min, max int64) int64 {
	return min + Intn(int(max-min+1))
}

// FloatBetween generates a random decimal number between min and max rounded to 2 decimals.
func FloatBetween(min, max float64) float64 {
	numInRange := min + Float64()*(max-min)
	return math.Floor(numInRange*100) / 100
}

func fromAlphabet(n int, abc string) string {
	var sb strings.Builder

	k := len(abc)

	for i := 0; i < n; i++ {
		c := abc[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// String generates a random string of length n.
func String(n int) string {
	return fromAlphabet(n, alphabet)
}

// Digits generates a random string of n digits.
func Digits(n int) string {
	return fromAlphabet(n, digits)
}

// MoneyAmountBetween generates a random amount of money between min and max rounded to cents.
func MoneyAmountBetween(min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(FloatBetween(min, max)).Round(2)
}

// Currency generates a random supported currency code.
func Currency() string {
	return currencypkg.SupportedCurrencies[Intn(len(currencypkg.SupportedCurrencies))]
}

// AccountNumber generates a random account number for the currency.
func AccountNumber(currency string) string {
	prefix, ok := currencypkg.NumericCode(currency)
	if !ok {
		prefix = Digits(3)
	}

	return prefix + Digits(9)
}

// Description generates a random transfer description.
func Description() *string {
	d := fmt.Sprintf("payment %s", String(8))
	return &d
}
