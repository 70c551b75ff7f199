// Package transactiondelivery manages delivery layer of deposits and account transactions.
package transactiondelivery

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Deposit(ctx context.Context, arg domain.DepositParams) (domain.DepositTxResult, error)
	ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error)
	ListByDateRange(ctx context.Context, accountID int64, start, end time.Time) ([]domain.Transaction, error)
	ListPaged(ctx context.Context, accountID int64, pageSize, pageID int32) ([]domain.Transaction, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(ts Service) *Handler {
	return &Handler{
		service: ts,
	}
}

type depositRequest struct {
	AccountNumber string  `json:"account_number" binding:"required,numeric,len=12"`
	Amount        string  `json:"amount" binding:"required"`
	Description   *string `json:"description" binding:"omitempty,max=255"`
}

type dataDeposit struct {
	Transaction domain.Transaction `json:"transaction"`
	Account     domain.Account     `json:"account"`
}

type dataTransactions struct {
	Transactions []domain.Transaction `json:"transactions"`
}

// Deposit handles http request to credit an account.
func (h *Handler) Deposit(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req depositRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		web.AbortBinding(gctx, err)

		return
	}

	arg := domain.DepositParams{
		AccountNumber: req.AccountNumber,
		Amount:        req.Amount,
		Description:   req.Description,
	}

	result, err := h.service.Deposit(ctx, arg)
	if err != nil {
		web.Abort(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: dataDeposit{
		Transaction: result.Transaction,
		Account:     result.Account,
	}})
}

type idRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// listQuery selects a date range with start and end, or a page with page_id and page_size.
// Without either the whole history is returned.
type listQuery struct {
	Start    time.Time `form:"start" time_format:"2006-01-02T15:04:05Z07:00" binding:"required_with=End"`
	End      time.Time `form:"end" time_format:"2006-01-02T15:04:05Z07:00" binding:"required_with=Start"`
	PageID   int32     `form:"page_id" binding:"omitempty,min=1"`
	PageSize int32     `form:"page_size" binding:"omitempty,min=1,max=100"`
}

const defaultPageSize = 10

// ListByAccount handles http request to list transactions of the account.
func (h *Handler) ListByAccount(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		web.AbortBinding(gctx, err)

		return
	}

	var query listQuery
	if err := gctx.ShouldBindQuery(&query); err != nil {
		l.Info().Err(err).Send()
		web.AbortBinding(gctx, err)

		return
	}

	var (
		transactions []domain.Transaction
		err          error
	)

	switch {
	case !query.Start.IsZero():
		transactions, err = h.service.ListByDateRange(ctx, req.ID, query.Start, query.End)
	case query.PageID > 0:
		if query.PageSize == 0 {
			query.PageSize = defaultPageSize
		}

		transactions, err = h.service.ListPaged(ctx, req.ID, query.PageSize, query.PageID)
	default:
		transactions, err = h.service.ListByAccount(ctx, req.ID)
	}

	if err != nil {
		web.Abort(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataTransactions{transactions}})
}
