// main is the entry point of the friends map API.
//
// STARTUP SEQUENCE:
//  1. Load .env (if present) and the configuration
//  2. Initialise the logger
//  3. Connect to (and set up) the SQLite database
//  4. Build the router (API routes, static pages, middleware)
//  5. Start the HTTP server in a separate goroutine
//  6. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, close the DB, exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/friends-api --config=config/local.yaml
//
// or with environment variables alone (everything is defaulted):
//
//	PORT=3000 go run ./cmd/friends-api
package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/karanjoshi/friends-map-api/internal/config"
	"github.com/karanjoshi/friends-map-api/internal/http/router"
	"github.com/karanjoshi/friends-map-api/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// A .env file is a convenience for local development; in production
	// the variables are set directly, so a missing file is not an error.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// slog writes key=value pairs rather than plain strings, making logs
	// easy to filter/search in tools like Loki or Datadog.
	log := setupLogger(cfg.Env, os.Stdout)

	// Handlers log through the package-level slog functions, so the
	// env-configured handler must also become the process default —
	// otherwise those lines would bypass the JSON handler in prod.
	slog.SetDefault(log)

	log.Info("starting friends-api",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
	)

	// ── 3. Initialise Storage (Database) ──────────────────────────────────
	// sqlite.New opens the SQLite file and creates the friends table.
	// The rest of the code only sees the storage.Storage interface —
	// swapping to PostgreSQL later only requires changing this one line.
	store, err := sqlite.New(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("storage initialised",
		slog.String("path", cfg.StoragePath))

	// ── 4. Build the Router ───────────────────────────────────────────────
	handler := router.New(log, cfg, store)

	// ── 5. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: handler,

		// Timeouts prevent slow clients from holding connections forever.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 6. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe blocks; run it in its own goroutine so main can
	// wait for the shutdown signal below.
	go func() {
		log.Info("server started", slog.String("address", cfg.Addr()))

		// ListenAndServe returns http.ErrServerClosed when Shutdown()
		// is called. That's expected — not an error worth logging.
		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	// Buffered so the signal isn't missed if main is briefly busy.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	// Give in-flight requests 5 seconds to finish, then close the
	// database handle — the only resource with a managed lifecycle.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := store.Close(); err != nil {
		log.Error("failed to close storage",
			slog.String("error", err.Error()))
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a *slog.Logger configured for the given environment,
// writing to w (os.Stdout in main, a buffer in tests).
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string, w io.Writer) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
