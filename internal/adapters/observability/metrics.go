package observability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"hotel_backoffice/internal/domain"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotel", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotel", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotel", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
	BookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotel", Name: "booking_transitions_total", Help: "Booking status change attempts."},
		[]string{"from", "to", "result"}, // result: ok|rejected|error
	)
	ReconcileRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotel", Name: "reconcile_runs_total", Help: "Daily reconciler runs by outcome."},
		[]string{"status"},
	)
	RoomsReserved = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "hotel", Name: "reconcile_rooms_reserved_total", Help: "Rooms moved to reserved by the reconciler."},
	)
)

// Serve exposes reg on addr in the background; an empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
	return srv
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, CacheEvents, BookingTransitions, ReconcileRuns, RoomsReserved)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

// ObserveTransition counts a status change attempt. Rejected moves and store
// failures are counted apart.
func ObserveTransition(from, to string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrPersistence):
		result = "error"
	default:
		result = "rejected"
	}
	BookingTransitions.WithLabelValues(from, to, result).Inc()
}

func ObserveReconcile(status string, reserved int) {
	ReconcileRuns.WithLabelValues(status).Inc()
	if reserved > 0 {
		RoomsReserved.Add(float64(reserved))
	}
}
