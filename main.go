package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"example.com/phonestore/internal/config"
	"example.com/phonestore/internal/infra/security"
	"example.com/phonestore/internal/infra/upstream"
	apihttp "example.com/phonestore/internal/interface/http"
	authuc "example.com/phonestore/internal/usecase/auth"
	cartuc "example.com/phonestore/internal/usecase/cart"
	categoryuc "example.com/phonestore/internal/usecase/category"
	checkoutuc "example.com/phonestore/internal/usecase/checkout"
	productuc "example.com/phonestore/internal/usecase/product"
	useruc "example.com/phonestore/internal/usecase/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slots, err := openSlotStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := slots.Close(); err != nil {
			logger.Warn("closing slot store", zap.Error(err))
		}
	}()

	if cfg.SessionSecret == config.DefaultSessionSecret {
		logger.Warn("SESSION_SECRET not set, using the development secret")
	}

	client := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, logger.Named("upstream"))
	tokens := security.NewJWTService(cfg.SessionSecret, cfg.SessionTTL)
	products := upstream.NewProductRepository(client)
	productSvc := productuc.NewService(products, products)

	api := apihttp.NewAPI(apihttp.Dependencies{
		AuthService:     authuc.NewService(upstream.NewAuthGateway(client), tokens, logger.Named("auth")),
		UserService:     useruc.NewService(upstream.NewUserRepository(client)),
		CategoryService: categoryuc.NewService(upstream.NewCategoryRepository(client)),
		ProductService:  productSvc,
		CartService:     cartuc.NewService(slots, productSvc, logger.Named("cart")),
		CheckoutService: checkoutuc.NewService(cfg.WhatsAppNumber),
		Slots:           slots,
		ImageBaseURL:    client.BaseURL(),
		HealthCheck:     slots.Ping,
		SecureCookie:    cfg.SecureCookie,
		Logger:          logger.Named("http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("slot_backend", cfg.SlotBackend),
			zap.String("upstream", cfg.UpstreamBaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.LogDev {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
