// Package transferdelivery manages delivery layer of transfers.
package transferdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type Service interface {
	Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.Transfer, error)
	TransferByNumber(ctx context.Context, arg domain.CreateTransferByNumberParams) (domain.Transfer, error)
	Validate(ctx context.Context, arg domain.CreateTransferParams) (domain.ValidationResult, error)
	ValidateByNumber(ctx context.Context, arg domain.CreateTransferByNumberParams) (domain.ValidationResult, error)
	Get(ctx context.Context, id int64) (domain.Transfer, error)
	ListByAccount(ctx context.Context, accountID int64) ([]domain.Transfer, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Transfer, error)
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transfer handler.
func NewHandler(ts Service) *Handler {
	return &Handler{
		service: ts,
	}
}

type request struct {
	FromAccountID int64   `json:"from_account_id" binding:"required,min=1"`
	ToAccountID   int64   `json:"to_account_id" binding:"required,min=1"`
	Amount        string  `json:"amount" binding:"required"`
	Description   *string `json:"description" binding:"omitempty,max=255"`
}

func (r request) params() domain.CreateTransferParams {
	return domain.CreateTransferParams{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
		Description:   r.Description,
	}
}

type byNumberRequest struct {
	FromAccountNumber string  `json:"from_account_number" binding:"required,numeric,len=12"`
	ToAccountNumber   string  `json:"to_account_number" binding:"required,numeric,len=12"`
	Amount            string  `json:"amount" binding:"required"`
	Description       *string `json:"description" binding:"omitempty,max=255"`
}

func (r byNumberRequest) params() domain.CreateTransferByNumberParams {
	return domain.CreateTransferByNumberParams{
		FromAccountNumber: r.FromAccountNumber,
		ToAccountNumber:   r.ToAccountNumber,
		Amount:            r.Amount,
		Description:       r.Description,
	}
}

type data struct {
	Transfer domain.Transfer `json:"transfer"`
}

type dataTransfers struct {
	Transfers []domain.Transfer `json:"transfers"`
}

type dataValidation struct {
	Validation domain.ValidationResult `json:"validation"`
}

func (h *Handler) created(gctx *gin.Context, transfer domain.Transfer) {
	l := zerolog.Ctx(gctx.Request.Context())

	l.Info().
		Int64("transfer_id", transfer.ID).
		Str("code", transfer.Code).
		Msg("transfer created")

	gctx.JSON(http.StatusCreated, web.Response{Data: data{transfer}})
}

// Create handles http request to transfer money between accounts given by id.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req request
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		web.AbortBinding(gctx, err)

		return
	}

	transfer, err := h.service.Transfer(ctx, req.params())
	if err != nil {
		web.Abort(gctx, err)
		return
	}

	h.created(gctx, transfer)
}

// CreateByNumber handles http request to transfer money between accounts given by number.
func (h *Handler) CreateByNumber(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req byNumberRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		web.AbortBinding(gctx, err)

		return
	}

	transfer, err := h.service.TransferByNumber(ctx, req.params())
	if err != nil {
		web.Abort(gctx, err)
		return
	}

	h.created(gctx, transfer)
}

// Validate handles http request to check a transfer between accounts given by id without executing it.
func (h *Handler) Validate(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req request
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		web.AbortBinding(gctx, err)

		return
	}

	result, err := h.service.Validate(ctx, req.params())
	if err != nil {
		web.Abort(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataValidation{result}})
}

// ValidateByNumber handles http request to check a transfer between accounts given by number.
func (h *Handler) ValidateByNumber(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req byNumberRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		web.AbortBinding(gctx, err)

		return
	}

	result, err := h.service.ValidateByNumber(ctx, req.params())
	if err != nil {
		web.Abort(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataValidation{result}})
}

type idRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

func bindID(gctx *gin.Context) (int64, bool) {
	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()
		web.AbortBinding(gctx, err)

		return 0, false
	}

	return req.ID, true
}

// Get handles http request to get transfer.
func (h *Handler) Get(gctx *gin.Context) {
	id, ok := bindID(gctx)
	if !ok {
		return
	}

	transfer, err := h.service.Get(gctx.Request.Context(), id)
	if err != nil {
		web.Abort(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{transfer}})
}

// ListByAccount handles http request to list transfers sent or received by the account.
func (h *Handler) ListByAccount(gctx *gin.Context) {
	id, ok := bindID(gctx)
	if !ok {
		return
	}

	transfers, err := h.service.ListByAccount(gctx.Request.Context(), id)
	if err != nil {
		web.Abort(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataTransfers{transfers}})
}

// ListByCustomer handles http request to list transfers touching any account of the customer.
func (h *Handler) ListByCustomer(gctx *gin.Context) {
	id, ok := bindID(gctx)
	if !ok {
		return
	}

	transfers, err := h.service.ListByCustomer(gctx.Request.Context(), id)
	if err != nil {
		web.Abort(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataTransfers{transfers}})
}
