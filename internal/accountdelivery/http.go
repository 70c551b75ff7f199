// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Create(ctx context.Context, customerID int64, currency string) (domain.Account, error)
	Get(ctx context.Context, id int64) (domain.Account, error)
	GetByNumber(ctx context.Context, number string) (domain.Account, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error)
	SetStatus(ctx context.Context, id int64, active bool) (domain.Account, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) Handler {
	return Handler{service: as}
}

type data struct {
	Account domain.Account `json:"account"`
}

type dataAccounts struct {
	Accounts []domain.Account `json:"accounts"`
}

type createRequest struct {
	CustomerID int64  `json:"customer_id" binding:"required,min=1"`
	Currency   string `json:"currency" binding:"required,currency"`
}

// Create handles http request to open an account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		web.AbortBinding(gctx, err)

		return
	}

	account, err := h.service.Create(ctx, req.CustomerID, req.Currency)
	if err != nil {
		web.Abort(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: data{account}})
}

type idRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Get handles http request to get account.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		web.AbortBinding(gctx, err)

		return
	}

	account, err := h.service.Get(ctx, req.ID)
	if err != nil {
		web.Abort(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{account}})
}

type numberRequest struct {
	Number string `uri:"number" binding:"required,numeric,len=12"`
}

// GetByNumber handles http request to get account by its number.
func (h *Handler) GetByNumber(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req numberRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		web.AbortBinding(gctx, err)

		return
	}

	account, err := h.service.GetByNumber(ctx, req.Number)
	if err != nil {
		web.Abort(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{account}})
}

// Deactivate handles http request to deactivate account.
func (h *Handler) Deactivate(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		web.AbortBinding(gctx, err)

		return
	}

	account, err := h.service.SetStatus(ctx, req.ID, false)
	if err != nil {
		web.Abort(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{account}})
}

type statusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetStatus handles http request to activate or deactivate account.
func (h *Handler) SetStatus(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri idRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		web.AbortBinding(gctx, err)

		return
	}

	var req statusRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		web.AbortBinding(gctx, err)

		return
	}

	account, err := h.service.SetStatus(ctx, uri.ID, *req.IsActive)
	if err != nil {
		web.Abort(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{account}})
}

// ListByCustomer handles http request to list accounts of the customer.
func (h *Handler) ListByCustomer(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		web.AbortBinding(gctx, err)

		return
	}

	accounts, err := h.service.ListByCustomer(ctx, req.ID)
	if err != nil {
		web.Abort(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataAccounts{accounts}})
}
