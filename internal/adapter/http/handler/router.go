package handler

import (
	"time"

	"custodial-ledger/internal/adapter/http/middleware"
	"custodial-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps carries everything the router wires together.
type RouterDeps struct {
	Auth      *AuthHandler
	Transfer  *TransferHandler
	Account   *AccountHandler
	Alias     *AliasHandler
	Health    *HealthHandler
	Tokens    ports.TokenService
	RateStore ports.RateLimitStore
	RateLimit int
	RateWin   time.Duration
	MaxBody   int64
	Log       zerolog.Logger
}

// SetupRouter builds the gin engine with the full middleware chain.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Recovery(deps.Log),
		middleware.RequestLogger(deps.Log),
		middleware.MaxBodySize(deps.MaxBody),
	)

	rl := func() gin.HandlerFunc {
		return middleware.RateLimit(deps.RateStore, deps.RateLimit, deps.RateWin)
	}

	r.GET("/healthz", deps.Health.Live)
	r.GET("/readyz", deps.Health.Ready)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/register", rl(), deps.Auth.Register)
		v1.POST("/auth/login", rl(), deps.Auth.Login)

		authed := v1.Group("", middleware.JWTAuth(deps.Tokens))
		{
			authed.GET("/account/balance", deps.Account.GetBalance)
			authed.POST("/account/deposit", rl(), deps.Account.Deposit)
			authed.GET("/account/transactions", deps.Account.ListTransactions)

			authed.POST("/transfers", rl(), deps.Transfer.Transfer)
			authed.POST("/transfers/alias", rl(), deps.Transfer.TransferByAlias)

			authed.POST("/alias-keys", rl(), deps.Alias.Create)
			authed.GET("/alias-keys", deps.Alias.List)
			authed.DELETE("/alias-keys/:id", deps.Alias.Delete)
		}
	}

	return r
}
