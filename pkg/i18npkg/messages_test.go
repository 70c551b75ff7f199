package i18npkg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/go-petr/pet-ledger/internal/domain"
)

func TestLanguage(t *testing.T) {
	testCases := []struct {
		header string
		want   language.Tag
	}{
		{header: "", want: language.English},
		{header: "tr-TR,tr;q=0.9,en;q=0.8", want: language.Turkish},
		{header: "en-US", want: language.English},
		{header: "de-DE", want: language.English},
		{header: "%%%", want: language.English},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.want, Language(tc.header), tc.header)
	}
}

func TestLocalize(t *testing.T) {
	code, text := Localize(domain.ErrInsufficientFunds, "tr")
	require.Equal(t, "INSUFFICIENT_FUNDS", code)
	require.Equal(t, "Yetersiz bakiye", text)

	code, text = Localize(fmt.Errorf("transfer: %w", domain.ErrSameAccount), "en")
	require.Equal(t, "SAME_ACCOUNT", code)
	require.Equal(t, "Cannot transfer to the same account", text)

	code, _ = Localize(errors.New("pq: connection refused"), "en")
	require.Equal(t, "INTERNAL", code)
}

func TestLocalizeDistinctMessages(t *testing.T) {
	for _, lang := range []string{"en", "tr"} {
		seen := map[string]bool{}

		for _, entry := range catalog {
			_, text := Localize(entry.err, lang)
			require.NotEmpty(t, text)
			require.False(t, seen[text], "duplicate %s message %q", lang, text)
			seen[text] = true
		}
	}
}
