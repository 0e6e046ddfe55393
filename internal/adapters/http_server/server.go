package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Timeout        time.Duration
	RateLimitRPS   int
	RateLimitBurst int
}

type Server struct{ mux *chi.Mux }

func New(o Options) *Server {
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	m := chi.NewRouter()

	// All middlewares go here (before any routes are added)
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Timeout(o.Timeout))
	m.Use(Metrics)
	m.Use(Logger(log.Logger))
	if o.RateLimitRPS > 0 {
		m.Use(RateLimit(o.RateLimitRPS, o.RateLimitBurst))
	}

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
