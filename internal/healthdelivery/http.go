// Package healthdelivery reports service liveness.
package healthdelivery

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/pkg/web"
)

// Pinger checks a backing store connection. *sql.DB satisfies it.
//
//go:generate mockgen -source http.go -destination http_mock.go -package healthdelivery
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler facilitates health delivery layer logic.
type Handler struct {
	db      Pinger
	timeout time.Duration
}

// NewHandler returns health handler pinging db within timeout.
func NewHandler(db Pinger, timeout time.Duration) *Handler {
	return &Handler{
		db:      db,
		timeout: timeout,
	}
}

type status struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Get handles http request to check that the service and its database are up.
func (h *Handler) Get(gctx *gin.Context) {
	ctx, cancel := context.WithTimeout(gctx.Request.Context(), h.timeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("database ping failed")
		gctx.JSON(http.StatusServiceUnavailable, web.Response{Data: status{Status: "DOWN", Database: "DOWN"}})

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: status{Status: "UP", Database: "UP"}})
}
