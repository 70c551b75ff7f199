// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/healthdelivery"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/ratedelivery"
	"github.com/go-petr/pet-ledger/internal/ratesource"
	"github.com/go-petr/pet-ledger/internal/sequencerepo"
	"github.com/go-petr/pet-ledger/internal/transactiondelivery"
	"github.com/go-petr/pet-ledger/internal/transactionrepo"
	"github.com/go-petr/pet-ledger/internal/transactionservice"
	"github.com/go-petr/pet-ledger/internal/transferdelivery"
	"github.com/go-petr/pet-ledger/internal/transferrepo"
	"github.com/go-petr/pet-ledger/internal/transferservice"
	"github.com/go-petr/pet-ledger/pkg/codepkg"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/currencypkg"
)

const healthTimeout = 2 * time.Second

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
	Rates  *ratesource.Chain
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

func newRateCache(logger zerolog.Logger, config configpkg.Config) ratesource.Cache {
	if config.RedisAddress == "" {
		return ratesource.NewMemoryCache(config.RateCacheTTL)
	}

	logger.Info().Str("address", config.RedisAddress).Msg("using redis rate cache")

	client := ratesource.NewRedisClient(config.RedisAddress, config.RedisPassword, config.RedisDB)

	return ratesource.NewRedisCache(client, config.RateCacheTTL)
}

// NewRateSource builds the rate chain: cache, primary and fallback providers, then recorded history.
func NewRateSource(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) *ratesource.Chain {
	return ratesource.NewChain(
		newRateCache(logger, config),
		ratesource.NewHistoryPGS(conn),
		ratesource.NewFrankfurter(config.RatePrimaryURL, config.RateTimeout),
		ratesource.NewExchangeRateAPI(config.RateFallbackURL, config.RateTimeout),
	)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accountRepo := accountrepo.NewRepoPGS(conn)
	sequenceRepo := sequencerepo.NewRepoPGS(conn)
	transferRepo := transferrepo.NewRepoPGS(conn)
	transactionRepo := transactionrepo.NewRepoPGS(conn)

	rates := NewRateSource(conn, logger, config)

	// One generator per prefix, shared by every service writing such records.
	transferCodes := codepkg.New(codepkg.TransferPrefix, sequenceRepo)
	transactionCodes := codepkg.New(codepkg.TransactionPrefix, sequenceRepo)

	accountService := accountservice.New(accountRepo, sequenceRepo)
	transferService := transferservice.New(transferRepo, accountService, rates,
		transferCodes, transactionCodes, config.LedgerMaxRetries)
	transactionService := transactionservice.New(transactionRepo, accountService,
		transactionCodes, config.LedgerMaxRetries)

	accountHandler := accountdelivery.NewHandler(accountService)
	transferHandler := transferdelivery.NewHandler(transferService)
	transactionHandler := transactiondelivery.NewHandler(transactionService)
	rateHandler := ratedelivery.NewHandler(rates)
	healthHandler := healthdelivery.NewHandler(conn, healthTimeout)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.GET("/health", healthHandler.Get)

	engine.POST("/accounts", accountHandler.Create)
	engine.GET("/accounts/:id", accountHandler.Get)
	engine.GET("/accounts/number/:number", accountHandler.GetByNumber)
	engine.POST("/accounts/:id/deactivate", accountHandler.Deactivate)
	engine.PUT("/accounts/:id/status", accountHandler.SetStatus)
	engine.GET("/customers/:id/accounts", accountHandler.ListByCustomer)

	engine.POST("/transactions/deposit", transactionHandler.Deposit)
	engine.GET("/transactions/account/:id", transactionHandler.ListByAccount)

	engine.POST("/transfers", transferHandler.Create)
	engine.POST("/transfers/by-account-number", transferHandler.CreateByNumber)
	engine.POST("/transfers/validate", transferHandler.Validate)
	engine.POST("/transfers/validate/by-account-number", transferHandler.ValidateByNumber)
	engine.GET("/transfers/:id", transferHandler.Get)
	engine.GET("/transfers/account/:id", transferHandler.ListByAccount)
	engine.GET("/transfers/customer/:id", transferHandler.ListByCustomer)

	engine.GET("/exchange-rates", rateHandler.Get)
	engine.GET("/exchange-rates/current", rateHandler.Current)
	engine.POST("/exchange-rates/update", rateHandler.Update)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("currency", currencypkg.ValidCurrency)
		if err != nil {
			return nil, errors.New("cannot register currency validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
		Rates:  rates,
	}

	return server, nil
}
