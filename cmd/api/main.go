package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_backoffice/internal/adapters/auth"
	server "hotel_backoffice/internal/adapters/http_server"
	"hotel_backoffice/internal/adapters/observability"
	redisad "hotel_backoffice/internal/adapters/redis"
	"hotel_backoffice/internal/app"
	"hotel_backoffice/internal/domain"
	"hotel_backoffice/internal/shared"
	"hotel_backoffice/internal/storage/memory"
	mysqlrepo "hotel_backoffice/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	metricsSrv := observability.Serve(cfg.MetricsAddr, reg)

	// store
	var store domain.Store
	switch cfg.Store {
	case "memory":
		log.Warn().Msg("using in-memory store; data is lost on exit")
		store = memory.New()
	default:
		db, err := openDB(ctx, cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("database unavailable")
		}
		defer db.Close()
		store = mysqlrepo.New(db)
	}

	// cache and cross-instance lock; both optional
	var (
		cache  domain.Cache
		locker domain.Locker
	)
	if cfg.RedisAddr != "" {
		rc := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unavailable; running without cache and scheduler lock")
		} else {
			cache, locker = redisad.New(rc), redisad.NewLocker(rc)
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis connection ok")
		}
	}

	clock := shared.SystemClock{Loc: cfg.Location}
	rec := app.NewReconciler(store, cache, clock)
	sched := app.NewScheduler(rec, cfg.ReconcileEvery, locker)
	h := &server.Handlers{
		Auth:       auth.NewVerifier(cfg.JWTSecret),
		Rooms:      app.NewRoomService(store, cache, cfg.CacheTTL),
		RoomTypes:  app.NewRoomTypeService(store),
		Customers:  app.NewCustomerService(store),
		Bookings:   app.NewBookingService(store, cache, clock, cfg.DefaultTaxPercent),
		Payments:   app.NewPaymentService(store, clock),
		Settings:   app.NewSettingsService(store, clock),
		Reconciler: rec,
		Scheduler:  sched,
	}

	var wg sync.WaitGroup
	if cfg.ReconcileEvery > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sched.Start(ctx)
		}()
	} else {
		log.Info().Msg("reconcile scheduler disabled; run cmd/reconciler from cron")
	}

	// http
	srv := server.New(server.Options{RateLimitRPS: cfg.RateLimitRPS, RateLimitBurst: cfg.RateLimitBurst})
	if metricsSrv == nil {
		srv.Mount("/metrics", observability.MetricsHandler(reg))
	}
	srv.MountHandlers(h)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.Store).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutCtx)
	}
	wg.Wait()
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info().Msg("database connection ok")
	return db, nil
}
