// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"portfolio/internal/cache"
	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/handlers"
	"portfolio/internal/middleware"
	"portfolio/internal/router"
	"portfolio/internal/session"
	"portfolio/internal/storage"
	"portfolio/internal/store"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config) error {
	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db, cfg.SeedFile); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	// Connect to Valkey (sessions and the category cache).
	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return fmt.Errorf("connect valkey: %w", err)
	}
	defer valkeyClient.Close()

	sessionStore := session.NewStore(valkeyClient, cfg.SecureCookies())
	categoryCache := cache.NewCategoryCache(valkeyClient, cfg.CategoryCacheTTL)

	// Object storage is optional; uploads answer 503 without it.
	var uploader handlers.Uploader
	if cfg.UploadsEnabled() {
		client, err := storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3BucketPublic, cfg.S3PublicURL,
		)
		if err != nil {
			return fmt.Errorf("init s3 storage: %w", err)
		}
		uploader = client
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3BucketPublic)
	} else {
		slog.Warn("s3 storage not configured, uploads disabled")
	}

	// Initialize data stores.
	assoc := store.NewAssociationStore(db)
	categoryStore := store.NewCategoryStore(db)
	userStore := store.NewUserStore(db)

	h := router.Handlers{
		Auth:       handlers.NewAuth(sessionStore, userStore),
		Categories: handlers.NewCategories(categoryStore, categoryCache),
		Projects:   handlers.NewProjects(store.NewProjectStore(db, assoc)),
		Blog:       handlers.NewBlog(store.NewBlogStore(db, assoc)),
		Experience: handlers.NewExperience(store.NewExperienceStore(db)),
		Skills:     handlers.NewSkills(store.NewSkillStore(db), store.NewSkillCategoryStore(db)),
		Site:       handlers.NewSite(store.NewSettingStore(db), store.NewStatsStore(db), uploader),
	}

	loginLimiter := middleware.NewRateLimiter(cfg.LoginAttempts, cfg.LoginWindow)
	defer loginLimiter.Stop()

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.New(h, router.Options{
			Sessions:      sessionStore,
			LoginLimiter:  loginLimiter,
			SecureCookies: cfg.SecureCookies(),
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		// Give active requests time to complete.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped gracefully")
	return nil
}
