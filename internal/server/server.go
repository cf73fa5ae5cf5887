/*
Package server is the rilmas development backend. It serves the auth and chat
endpoints the client talks to, backed by sqlite.
*/
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/gregriff/rilmas/internal/logx"
	"github.com/gregriff/rilmas/internal/server/db"
	"github.com/gregriff/rilmas/internal/server/middleware"
	"github.com/gregriff/rilmas/internal/server/resp"
	"github.com/gregriff/rilmas/internal/server/routes"
)

// Options configure the router.
type Options struct {
	AllowedOrigins []string

	// AuthRate is the number of requests per second allowed per IP on /auth.
	AuthRate  float64
	AuthBurst int
}

// Config is everything CreateAndListen needs.
type Config struct {
	Host     string
	Port     int
	Database string
	Options
}

// NewRouter builds the HTTP handler. Background work started here stops with ctx.
func NewRouter(ctx context.Context, db *sql.DB, opts Options) http.Handler {
	h := routes.NewRouteHandler(db)
	authLimiter := middleware.NewIPRateLimiter(ctx, rate.Limit(opts.AuthRate), opts.AuthBurst)

	r := chi.NewRouter()

	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.TokenHeader},
		MaxAge:         86400,
	})
	r.Use(c.Handler)

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(chimw.Recoverer)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		resp.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		resp.Error(w, http.StatusNotFound, "Not found")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.OK(w, map[string]string{"status": "ok"})
	})

	r.With(authLimiter.Middleware).Post("/auth", h.Auth)

	r.Group(func(chats chi.Router) {
		chats.Use(middleware.TokenAuth(db))
		chats.Get("/chats", h.ListChats)
		chats.Post("/chats", h.ChatAction)
	})
	return r
}

// CreateAndListen opens the database and serves until ctx is cancelled, then
// shuts down gracefully.
func CreateAndListen(ctx context.Context, cfg Config) error {
	conn, err := db.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer conn.Close()

	srvCtx, stop := context.WithCancel(ctx)
	defer stop()

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
		Handler:           http.TimeoutHandler(NewRouter(srvCtx, conn, cfg.Options), 30*time.Second, ""),
	}

	errs := make(chan error, 1)
	go func() {
		logx.Info("starting server", "addr", server.Addr, "database", cfg.Database)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("http server error: %w", err)
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown error: %w", err)
	}
	logx.Info("graceful shutdown complete")
	return nil
}
