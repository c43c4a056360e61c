package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"dashboard/internal/config"
	"dashboard/internal/db"
	"dashboard/internal/logging"
	"dashboard/internal/posts"
	"dashboard/internal/products"
	"dashboard/internal/revalidate"
	"dashboard/internal/server"
	"dashboard/internal/session"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log, err := logging.New(cfg.Logger)
	if err != nil {
		return err
	}
	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	g, ctx := errgroup.WithContext(ctx)

	bus := revalidate.NewBus()
	var rv revalidate.Revalidator = bus
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}
		// the local bus runs first so this instance never serves a stale
		// listing; other instances hear the path through their relay
		rv = revalidate.Fanout{bus, revalidate.NewRedisPublisher(client, cfg.Redis.Channel, log)}
		g.Go(func() error {
			return revalidate.Relay(ctx, client, cfg.Redis.Channel, bus, log)
		})
	}

	ps := posts.NewService(posts.NewSQLStore(database), session.ContextResolver{}, cfg.Policy(), rv, log)
	prs := products.NewService(database, rv, log)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.New(database, cfg.Auth, ps, prs, bus, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		log.Info(ctx, "listening", "addr", srv.Addr, "anonymous_posts", cfg.Auth.AllowAnonymousPosts)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info(shutdownCtx, "shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
