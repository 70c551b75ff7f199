// Package ratedelivery manages delivery layer of exchange rates.
package ratedelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/currencypkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// RateSource provides the rate lookups needed by rate delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ratedelivery
type RateSource interface {
	Current(ctx context.Context) []domain.CurrencyQuote
	GetRate(ctx context.Context, from, to string) (decimal.Decimal, bool)
	Refresh(ctx context.Context) int
}

// Handler facilitates rate delivery layer logic.
type Handler struct {
	rates RateSource
}

// NewHandler returns rate handler.
func NewHandler(rs RateSource) *Handler {
	return &Handler{rates: rs}
}

type rateRequest struct {
	From string `form:"from" binding:"required,currency"`
	To   string `form:"to" binding:"required,currency"`
}

type rate struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Rate decimal.Decimal `json:"rate"`
}

type data struct {
	Rate rate `json:"rate"`
}

// Get handles http request to get the current rate between two currencies.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req rateRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		web.AbortBinding(gctx, err)

		return
	}

	from, to := currencypkg.Normalize(req.From), currencypkg.Normalize(req.To)

	r, ok := h.rates.GetRate(ctx, from, to)
	if !ok {
		web.Abort(gctx, domain.ErrRateUnavailable)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{rate{From: from, To: to, Rate: r}}})
}

type dataQuotes struct {
	Quotes []domain.CurrencyQuote `json:"quotes"`
}

// Current handles http request to get the rate board of every supported currency.
func (h *Handler) Current(gctx *gin.Context) {
	quotes := h.rates.Current(gctx.Request.Context())
	if len(quotes) == 0 {
		web.Abort(gctx, domain.ErrRateUnavailable)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataQuotes{quotes}})
}

type dataRefresh struct {
	Refreshed int `json:"refreshed"`
}

// Update handles http request to refresh every currency pair from the live providers.
func (h *Handler) Update(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	n := h.rates.Refresh(ctx)
	if n == 0 {
		zerolog.Ctx(ctx).Warn().Msg("no exchange rate refreshed")
		web.Abort(gctx, domain.ErrRateUnavailable)

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataRefresh{n}})
}
