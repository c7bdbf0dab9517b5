package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nairex/nairex-api/internal/config"
	"github.com/nairex/nairex-api/internal/domain"
	"github.com/nairex/nairex-api/internal/fees"
	"github.com/nairex/nairex-api/internal/handler"
	"github.com/nairex/nairex-api/internal/logging"
	"github.com/nairex/nairex-api/internal/middleware"
	"github.com/nairex/nairex-api/internal/rates"
	"github.com/nairex/nairex-api/internal/repository"
	"github.com/nairex/nairex-api/internal/service/trading"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("nairex-api", cfg.LogLevel, cfg.AppEnv)

	tradingCfg, err := parseTradingConfig(cfg)
	if err != nil {
		slog.Error("invalid trading config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	walletRepo := repository.NewWalletRepository(db)
	cryptoWalletRepo := repository.NewCryptoWalletRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	userRepo := repository.NewUserRepository(db)

	rateProvider := rates.NewProvider(
		cfg.PriceSourceURL,
		time.Duration(cfg.RateCacheTTLS)*time.Second,
		time.Duration(cfg.RateFetchTimeoutS)*time.Second,
	)
	feeCalc := fees.NewCalculator(tradingCfg.feePercentage)

	tradingService := trading.NewService(
		walletRepo,
		cryptoWalletRepo,
		transactionRepo,
		userRepo,
		rateProvider,
		feeCalc,
		db,
		tradingCfg.Config,
	)

	healthHandler := handler.NewHealthHandler(db)
	tradeHandler := handler.NewTradeHandler(tradingService)
	walletHandler := handler.NewWalletHandler(tradingService)
	transactionHandler := handler.NewTransactionHandler(tradingService)
	ratesHandler := handler.NewRatesHandler(rateProvider, tradingCfg.SupportedAssets)
	provisionHandler := handler.NewProvisionHandler(tradingService)

	authn := middleware.Auth(cfg.JWTSecret)

	public := func(h http.HandlerFunc) http.Handler {
		return middleware.Tracing(middleware.Logging(middleware.Recovery(h)))
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.Tracing(middleware.Logging(middleware.Recovery(authn(h))))
	}

	mux := http.NewServeMux()
	mux.Handle("GET /health", public(healthHandler.Liveness))
	mux.Handle("GET /health/ready", public(healthHandler.Readiness))
	mux.Handle("GET /api/v1/rates", public(ratesHandler.List))

	mux.Handle("POST /api/v1/trade/buy", protected(tradeHandler.Buy))
	mux.Handle("POST /api/v1/trade/sell", protected(tradeHandler.Sell))
	mux.Handle("GET /api/v1/wallet", protected(walletHandler.Get))
	mux.Handle("GET /api/v1/transactions", protected(transactionHandler.List))
	mux.Handle("POST /api/v1/users/{id}/provision", protected(provisionHandler.Provision))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

type tradingConfig struct {
	trading.Config
	feePercentage decimal.Decimal
}

// Trading policy arrives as env strings so a bad value fails startup
// instead of surfacing mid-trade.
func parseTradingConfig(cfg *config.Config) (tradingConfig, error) {
	fee, err := decimal.NewFromString(cfg.FeePercentage)
	if err != nil {
		return tradingConfig{}, fmt.Errorf("parse FEE_PERCENTAGE %q: %w", cfg.FeePercentage, err)
	}
	minBuy, err := decimal.NewFromString(cfg.MinBuyAmount)
	if err != nil {
		return tradingConfig{}, fmt.Errorf("parse MIN_BUY_AMOUNT %q: %w", cfg.MinBuyAmount, err)
	}
	minSell, err := decimal.NewFromString(cfg.MinSellAmount)
	if err != nil {
		return tradingConfig{}, fmt.Errorf("parse MIN_SELL_AMOUNT %q: %w", cfg.MinSellAmount, err)
	}
	seed, err := decimal.NewFromString(cfg.SeedNairaBalance)
	if err != nil {
		return tradingConfig{}, fmt.Errorf("parse SEED_NAIRA_BALANCE %q: %w", cfg.SeedNairaBalance, err)
	}
	if seed.IsNegative() {
		return tradingConfig{}, fmt.Errorf("SEED_NAIRA_BALANCE must not be negative, got %s", seed)
	}

	assets := make([]domain.Asset, 0, len(cfg.SupportedAssets))
	for _, a := range cfg.SupportedAssets {
		assets = append(assets, domain.NormalizeAsset(a))
	}

	return tradingConfig{
		Config: trading.Config{
			MinBuyAmount:     minBuy,
			MinSellAmount:    minSell,
			SeedNairaBalance: seed,
			SupportedAssets:  assets,
		},
		feePercentage: fee,
	}, nil
}
