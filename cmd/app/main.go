// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fieldsales-backend/internal/config"
	"fieldsales-backend/internal/domain/ports/adapter"
	pg "fieldsales-backend/internal/infra/db/postgres"
	"fieldsales-backend/internal/infra/identity"
	"fieldsales-backend/internal/infra/logging"
	"fieldsales-backend/internal/infra/metrics"
	red "fieldsales-backend/internal/infra/redis"
	"fieldsales-backend/internal/infra/web"
	"fieldsales-backend/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	// ---- Repositories ----
	codeRepo := pg.NewActivationCodeRepo(pool)
	profileRepo := pg.NewProfileRepo(pool)
	branchRepo := pg.NewBranchRepo(pool)
	storeRepo := pg.NewStoreRepo(pool)
	productRepo := pg.NewProductRepo(pool)
	logRepo := pg.NewInventoryLogRepo(pool)
	orderRepo := pg.NewOrderRepo(pool)
	categoryRepo := pg.NewCategoryRepo(pool)
	companyRepo := pg.NewCompanyRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Redis catalog cache (optional) ----
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect failed")
		}
		defer redisClient.Close()
		productRepo = pg.NewProductRepoCacheDecorator(productRepo, redisClient, cfg.Redis.TTL)
		logger.Info().Str("addr", cfg.Redis.URL).Msg("product catalog cache enabled")
	}

	// ---- Identity provider ----
	var idp adapter.IdentityProvider
	if cfg.Identity.BaseURL != "" {
		idp, err = identity.NewRESTProvider(cfg.Identity.BaseURL, cfg.Identity.ServiceKey)
		if err != nil {
			logger.Fatal().Err(err).Msg("identity provider init failed")
		}
	} else {
		logger.Warn().Msg("identity.base_url not set; using in-process identity provider")
		idp = identity.NewNoopProvider()
	}

	// ---- Use cases ----
	idgen := usecase.NewIdentifierGenerator(cfg.Identifier)
	activationUC := usecase.NewActivationUseCase(codeRepo, tm, cfg.Activation, logger)
	userUC := usecase.NewUserUseCase(profileRepo, logger)
	branchUC := usecase.NewBranchUseCase(branchRepo, profileRepo, idgen, logger)
	storeUC := usecase.NewStoreUseCase(storeRepo, logger)
	inventoryUC := usecase.NewInventoryUseCase(productRepo, logRepo, tm, logger)
	productUC := usecase.NewProductUseCase(productRepo, inventoryUC, tm, logger)
	orderUC := usecase.NewOrderUseCase(orderRepo, productRepo, storeRepo, branchRepo, inventoryUC, tm, cfg.Order, logger)
	provisionUC := usecase.NewProvisionUseCase(profileRepo, branchRepo, idp, idgen, activationUC, logger)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, logger)
	companyUC := usecase.NewCompanyUseCase(companyRepo, logger)

	// ---- HTTP ----
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	srv := web.NewServer(activationUC, provisionUC, userUC, branchUC, storeUC, productUC, inventoryUC, orderUC, categoryUC, companyUC, auth, logger)

	router := srv.Routes()
	router.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- DB pool gauge ----
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st := pool.Stat()
				metrics.SetDBPoolStats(st.TotalConns(), st.IdleConns(), st.AcquiredConns())
			}
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
}
