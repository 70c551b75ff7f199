package ratesource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/pkg/currencypkg"
)

// Provider names recorded as the rate source.
const (
	FrankfurterName     = "frankfurter.app"
	ExchangeRateAPIName = "exchangerate-api.com"
)

// HTTPProvider reads a base currency rate table from a JSON endpoint
// answering GET <url>?base=<base> with {"rates": {"<currency>": <rate>}}.
type HTTPProvider struct {
	name    string
	url     string
	base    string
	timeout time.Duration
	client  *http.Client
}

// NewHTTPProvider returns HTTPProvider querying the url with the given base currency.
func NewHTTPProvider(name, url, base string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		name:    name,
		url:     url,
		base:    currencypkg.Normalize(base),
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// NewFrankfurter returns the EUR based frankfurter.app provider.
func NewFrankfurter(url string, timeout time.Duration) *HTTPProvider {
	return NewHTTPProvider(FrankfurterName, url, currencypkg.EUR, timeout)
}

// NewExchangeRateAPI returns the USD based exchangerate-api.com provider.
func NewExchangeRateAPI(url string, timeout time.Duration) *HTTPProvider {
	return NewHTTPProvider(ExchangeRateAPIName, url, currencypkg.USD, timeout)
}

// Name returns the provider name.
func (p *HTTPProvider) Name() string {
	return p.name
}

type ratesResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

// Rate returns the from to rate derived from the provider base table.
func (p *HTTPProvider) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	table, err := p.table(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	fromRate, ok := table[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s: currency %s not quoted", p.name, from)
	}

	toRate, ok := table[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s: currency %s not quoted", p.name, to)
	}

	if !fromRate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%s: non-positive rate %s for %s", p.name, fromRate, from)
	}

	// Direct, inverse and cross rates all reduce to to/from over the base table.
	return toRate.DivRound(fromRate, RateScale), nil
}

func (p *HTTPProvider) table(ctx context.Context) (map[string]decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	url := p.url
	if strings.Contains(url, "?") {
		url += "&base=" + p.base
	} else {
		url += "?base=" + p.base
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", p.name, err)
	}

	l.Debug().Str("provider", p.name).Str("url", url).Msg("fetching exchange rates")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", p.name, resp.StatusCode)
	}

	var body ratesResponse

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", p.name, err)
	}

	if body.Rates == nil {
		return nil, fmt.Errorf("%s: response has no rates", p.name)
	}

	table := make(map[string]decimal.Decimal, len(body.Rates)+1)
	for currency, rate := range body.Rates {
		table[currencypkg.Normalize(currency)] = rate
	}

	table[p.base] = decimal.NewFromInt(1)

	return table, nil
}
