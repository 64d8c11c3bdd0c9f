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
	"github.com/rs/zerolog"

	"birthday-coupons/internal/config"
	"birthday-coupons/internal/domain/ports/adapter"
	"birthday-coupons/internal/infra/adapters/discount"
	"birthday-coupons/internal/infra/adapters/mail"
	"birthday-coupons/internal/infra/api"
	pg "birthday-coupons/internal/infra/db/postgres"
	"birthday-coupons/internal/infra/logging"
	"birthday-coupons/internal/infra/metrics"
	red "birthday-coupons/internal/infra/redis"
	"birthday-coupons/internal/infra/sched"
	"birthday-coupons/internal/infra/web"
	"birthday-coupons/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "developer mode (console logs, noop mail)")
	runNow := flag.Bool("run-now", false, "run one issuance pass on startup")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}
	loc := cfg.Location()
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema migration failed")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	profileStore := red.NewProfileStore(redisClient)
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	logRepo := pg.NewCouponLogRepoCacheDecorator(pg.NewCouponLogRepo(pool), redisClient, cfg.Redis.TTL)
	txManager := pg.NewTxManager(pool)

	// ---- Adapters ----
	engine := newDiscountEngine(cfg, logger)
	mailer := newMailTransport(cfg, logger)
	renderer := mail.NewRenderer(cfg.Email)

	// ---- Use cases ----
	issuanceUC := usecase.NewIssuanceUseCase(
		profileStore, engine, logRepo, mailer, renderer,
		cfg.Coupon, cfg.Schedule.LookaheadDays, loc, logger,
	)
	redemptionUC := usecase.NewRedemptionUseCase(logRepo, txManager, logger)
	logsUC := usecase.NewCouponLogUseCase(logRepo, cfg.Coupon.ExpiryDays, logger)
	profileUC := usecase.NewProfileUseCase(profileStore, logger)
	statsUC := usecase.NewStatsUseCase(logRepo, loc, logger)

	// ---- Issuance worker ----
	worker := sched.NewIssuanceWorker(cfg.Schedule.Cron, loc, issuanceUC, locker, logger)
	go func() { _ = worker.Run(ctx) }()
	if *runNow {
		go worker.RunNow(ctx)
	}

	// ---- Public API: order webhook + account endpoints + metrics ----
	publicMux := http.NewServeMux()
	api.NewServer(redemptionUC, profileUC, logsUC, logger).Register(publicMux)
	publicMux.Handle("/metrics", promhttp.Handler())
	publicSrv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Orders.Port), Handler: publicMux}
	go func() {
		logger.Info().Str("addr", publicSrv.Addr).Msg("public API listening")
		if err := publicSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("public API server error")
		}
	}()

	// ---- Admin API ----
	adminSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Admin.Port),
		Handler: web.NewServer(logsUC, statsUC, issuanceUC, worker, cfg, logger).Router(),
	}
	go func() {
		logger.Info().Str("addr", adminSrv.Addr).Msg("admin API listening")
		if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin API server error")
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
	_ = publicSrv.Shutdown(shutdownCtx)
	_ = adminSrv.Shutdown(shutdownCtx)
}

func newDiscountEngine(cfg *config.Config, logger *zerolog.Logger) adapter.DiscountEngine {
	if cfg.Engine.BaseURL == "" {
		logger.Warn().Msg("engine.base_url not set, using in-memory discount engine")
		return discount.NewNoopEngine()
	}
	engine, err := discount.NewHTTPEngine(cfg.Engine.BaseURL, cfg.Engine.APIKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("discount engine setup failed")
	}
	return engine
}

func newMailTransport(cfg *config.Config, logger *zerolog.Logger) adapter.MailTransport {
	if cfg.Runtime.Dev || cfg.Email.Host == "" {
		logger.Warn().Msg("smtp not configured, emails are recorded but not delivered")
		return mail.NewNoopTransport()
	}
	return mail.NewSMTPTransport(cfg.Email)
}
