package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"custodial-ledger/config"
	"custodial-ledger/internal/adapter/http/handler"
	"custodial-ledger/internal/adapter/messaging/rabbitmq"
	"custodial-ledger/internal/adapter/storage/postgres"
	redisadapter "custodial-ledger/internal/adapter/storage/redis"
	"custodial-ledger/internal/service"
	"custodial-ledger/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	if !cfg.Log.Pretty {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := postgres.Migrate(cfg.Database.DSN()); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}
	log.Info().Msg("schema up to date")

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	broker, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatal().Err(err).Msg("rabbitmq connection failed")
	}
	defer broker.Close()

	// Storage adapters.
	transactor := postgres.NewTransactor(pool, cfg.Database.LockTimeout)
	accountRepo := postgres.NewAccountRepo(pool)
	txnRepo := postgres.NewTransactionRepo(pool)
	userRepo := postgres.NewUserRepo(pool)
	aliasRepo := postgres.NewAliasKeyRepo(pool)
	idemRepo := postgres.NewIdempotencyRepo(pool)
	idemCache := redisadapter.NewIdempotencyCache(redisClient)
	rateStore := redisadapter.NewRateLimitStore(redisClient)
	publisher := rabbitmq.NewPublisher(broker.Channel, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Topic)

	// Services.
	hasher := service.NewHashService()
	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)
	authSvc := service.NewAuthService(transactor, userRepo, accountRepo, hasher, tokens, cfg.JWT.TTL, log)
	accountSvc := service.NewAccountService(transactor, accountRepo, txnRepo, log)
	aliasSvc := service.NewAliasService(aliasRepo, accountRepo, log)
	transferSvc := service.NewTransferService(
		transactor, accountRepo, txnRepo, userRepo,
		idemRepo, idemCache, hasher, publisher, log)

	router := handler.SetupRouter(handler.RouterDeps{
		Auth:     handler.NewAuthHandler(authSvc),
		Transfer: handler.NewTransferHandler(transferSvc, aliasSvc),
		Account:  handler.NewAccountHandler(accountSvc),
		Alias:    handler.NewAliasHandler(aliasSvc),
		Health: handler.NewHealthHandler(map[string]handler.HealthChecker{
			"postgres": func(ctx context.Context) error { return postgres.HealthCheck(ctx, pool) },
			"redis":    func(ctx context.Context) error { return redisadapter.HealthCheck(ctx, redisClient) },
			"rabbitmq": func(ctx context.Context) error {
				if broker.IsClosed() {
					return errors.New("connection closed")
				}
				return nil
			},
		}),
		Tokens:    tokens,
		RateStore: rateStore,
		RateLimit: cfg.Server.RateLimit,
		RateWin:   cfg.Server.RateWindow,
		MaxBody:   cfg.Server.MaxBodyBytes,
		Log:       log,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
	log.Info().Msg("server stopped")
}
