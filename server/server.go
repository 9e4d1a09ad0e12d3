// Package server exposes the providers over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tasvirchi/tasvir/cache"
	"github.com/tasvirchi/tasvir/log"
	"github.com/tasvirchi/tasvir/provider"
)

type Config struct {
	Envs provider.Envs
	// Options returns the provider options for a request carrying ts.
	Options func(ts string) provider.Options
	// Cache is optional.
	Cache *cache.MediaConfigs
	// RateLimit is the number of requests per minute allowed per client IP.
	// Zero disables the limit.
	RateLimit int
}

type Server struct {
	config Config
	router chi.Router
}

func New(config Config) *Server {
	s := &Server{config: config}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID, middleware.RealIP, logRequests, metrics, middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/{family}", func(r chi.Router) {
		if s.config.RateLimit > 0 {
			r.Use(httprate.Limit(
				s.config.RateLimit,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("Retry-After", "60")
					writeJSON(w, http.StatusTooManyRequests, errorBody{Error: errorDetail{
						Code:    "RATE_LIMITED",
						Message: "too many requests",
					}})
				}),
			))
		}
		r.Use(s.family)

		r.Get("/media/{entryID}", s.media)
		r.Post("/entries", s.entries)
		r.Get("/playlists/{playlistID}", s.playlist)
	})

	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
