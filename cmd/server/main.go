// Command server runs the meetup board HTTP API.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetup/internal/bootstrap"
	"meetup/internal/config"
	"meetup/internal/mailer"
	"meetup/internal/middleware"
	"meetup/internal/notifications"
	"meetup/internal/server"
)

func main() {
	seedPreset := flag.String("seed", "", "Seed an empty development database with this preset")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SeedPreset: *seedPreset})
	if err != nil {
		middleware.Logger.Error("Failed to initialize runtime", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := server.NewServerWithDeps(cfg, rt.DB, rt.Redis, mailer.New(cfg))
	if err != nil {
		middleware.Logger.Error("Failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Development builds echo the event bus into the log.
	if !cfg.IsProduction() && rt.Redis != nil {
		err := srv.Notifier().Subscribe(ctx, func(ev notifications.Event) {
			middleware.Logger.Debug("domain event",
				slog.String("type", ev.Type),
				slog.Uint64("id", uint64(ev.ID)),
				slog.Uint64("post_id", uint64(ev.PostID)),
				slog.Uint64("actor_id", uint64(ev.ActorID)),
			)
		})
		if err != nil {
			middleware.Logger.Warn("event subscription failed", slog.String("error", err.Error()))
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			middleware.Logger.Error("Server stopped", slog.String("error", err.Error()))
		}
	case <-ctx.Done():
		middleware.Logger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		middleware.Logger.Error("Server shutdown error", slog.String("error", err.Error()))
	}
	if err := rt.Close(shutdownCtx); err != nil {
		middleware.Logger.Error("Runtime close error", slog.String("error", err.Error()))
	}
	middleware.Logger.Info("Server shutdown complete")
}
