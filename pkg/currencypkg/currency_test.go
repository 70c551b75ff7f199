package currencypkg

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "usd", want: USD},
		{in: " EUR ", want: EUR},
		{in: "TL", want: TRY},
		{in: "tl", want: TRY},
		{in: "XYZ", want: "XYZ"},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.want, Normalize(tc.in), tc.in)
	}
}

func TestIsSupportedCurrency(t *testing.T) {
	for _, c := range SupportedCurrencies {
		require.True(t, IsSupportedCurrency(c))
	}

	require.True(t, IsSupportedCurrency("TL"))
	require.False(t, IsSupportedCurrency("RMB"))
	require.False(t, IsSupportedCurrency(""))
}

func TestRound(t *testing.T) {
	testCases := []struct {
		amount string
		want   string
	}{
		{amount: "46.5", want: "46.5"},
		{amount: "46.505", want: "46.51"},
		{amount: "46.504", want: "46.5"},
		{amount: "-0.005", want: "-0.01"},
		{amount: "0.004", want: "0"},
	}

	for _, tc := range testCases {
		got := Round(decimal.RequireFromString(tc.amount), USD)
		require.True(t, got.Equal(decimal.RequireFromString(tc.want)), "Round(%s) = %s, want %s", tc.amount, got, tc.want)
	}
}

func TestFitsMinorUnits(t *testing.T) {
	require.True(t, FitsMinorUnits(decimal.RequireFromString("10.25"), EUR))
	require.True(t, FitsMinorUnits(decimal.RequireFromString("10"), EUR))
	require.False(t, FitsMinorUnits(decimal.RequireFromString("10.251"), EUR))
}

func TestInRange(t *testing.T) {
	require.True(t, InRange(decimal.RequireFromString("99999999999999999.99")))
	require.True(t, InRange(decimal.RequireFromString("-5")))
	require.False(t, InRange(decimal.RequireFromString("100000000000000000")))
	require.False(t, InRange(decimal.RequireFromString("1e20")))
}
