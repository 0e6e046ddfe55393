// Command reconciler performs one daily room-status run and exits. It is
// meant for cron or a Kubernetes CronJob when the API's built-in scheduler
// is disabled.
package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_backoffice/internal/adapters/observability"
	redisad "hotel_backoffice/internal/adapters/redis"
	"hotel_backoffice/internal/app"
	"hotel_backoffice/internal/domain"
	"hotel_backoffice/internal/shared"
	mysqlrepo "hotel_backoffice/internal/storage/mysql"
)

func main() {
	force := flag.Bool("force", false, "run even if today's run already completed")
	alertsOnly := flag.Bool("alerts", false, "only report tomorrow's arrivals; change nothing")
	timeout := flag.Duration("timeout", 2*time.Minute, "give up after this long")
	flag.Parse()

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	var (
		cache  domain.Cache
		locker domain.Locker
	)
	if cfg.RedisAddr != "" {
		rc := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unavailable; running without cache invalidation and lock")
		} else {
			cache, locker = redisad.New(rc), redisad.NewLocker(rc)
		}
	}

	rec := app.NewReconciler(mysqlrepo.New(db), cache, shared.SystemClock{Loc: cfg.Location})

	if *alertsOnly {
		res := rec.Alerts(ctx)
		if !res.Success {
			log.Error().Str("error", res.Error).Msg("alert scan failed")
			os.Exit(1)
		}
		for _, a := range res.Arrivals {
			log.Info().Str("booking", a.BookingReference).Str("room", a.RoomNumber).Str("guest", a.CustomerName).Msg("arrival tomorrow")
		}
		for _, u := range res.UrgentCheckouts {
			log.Warn().
				Str("room", u.RoomNumber).
				Str("outgoing", u.Outgoing.BookingReference).
				Str("incoming", u.Incoming.BookingReference).
				Msg("room still occupied before tomorrow's arrival")
		}
		return
	}

	res, err := app.NewScheduler(rec, time.Hour, locker).RunOnce(ctx, *force)
	if err != nil {
		log.Error().Err(err).Msg("reconcile not started")
		os.Exit(2)
	}
	log.Info().
		Str("status", string(res.Status)).
		Time("date", res.Date).
		Int("reserved", res.Promote.UpdatedCount).
		Int("arrivals_tomorrow", len(res.Alerts.Arrivals)).
		Int("urgent_checkouts", len(res.Alerts.UrgentCheckouts)).
		Msg("reconcile finished")
	if res.Status == app.RunFailed || res.Status == app.RunPartial {
		os.Exit(1)
	}
}
