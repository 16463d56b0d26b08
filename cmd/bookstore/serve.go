package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/bookstore/internal/cache"
	"github.com/Skotchmaster/bookstore/internal/events"
	"github.com/Skotchmaster/bookstore/internal/httpserver"
	authmw "github.com/Skotchmaster/bookstore/internal/middleware/auth"
	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/repo"
	"github.com/Skotchmaster/bookstore/internal/search"
	"github.com/Skotchmaster/bookstore/internal/service"
	"github.com/Skotchmaster/bookstore/internal/storage"
	"github.com/Skotchmaster/bookstore/pkg/config"
	pkgdb "github.com/Skotchmaster/bookstore/pkg/db"
	"github.com/Skotchmaster/bookstore/pkg/logging"
	"github.com/Skotchmaster/bookstore/pkg/tokens"
)

var autoMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "run migrations before serving")
}

func serve(parent context.Context) error {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(parent, 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer pkgdb.Close(db)

	if autoMigrate {
		if err := db.AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewProducer(cfg.KafkaBrokers)
		logger.Info("kafka enabled", "brokers", cfg.KafkaBrokers)
	}
	defer publisher.Close()

	var index search.Index
	if cfg.ESURL != "" {
		es, err := search.NewElastic(search.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			logger.Warn("elasticsearch unavailable, searching the database", "error", err)
		} else {
			index = es
		}
	}

	var homeCache cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedis(parent, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Warn("redis unavailable, home page is not cached", "error", err)
		} else {
			homeCache = rc
			defer rc.Close()
		}
	}

	disk, err := storage.NewLocalDisk(cfg.UploadDir, "/images")
	if err != nil {
		return err
	}

	r := repo.New(db)
	ts := tokens.NewService(tokens.Config{Secret: cfg.JWTSecret, AccessTTL: cfg.AccessTTL, RefreshTTL: cfg.RefreshTTL})

	e := httpserver.New(logger, &httpserver.Deps{
		Guard: authmw.NewGuard(ts, r),
		Auth:  &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: r, Tokens: ts, Events: publisher}},
		Catalog: &httpserver.CatalogHTTP{Svc: &service.CatalogService{
			Repo:     r,
			Events:   publisher,
			Index:    index,
			Cache:    homeCache,
			CacheTTL: cfg.HomeCacheTTL,
			Storage:  disk,
		}},
		Inventory:   &httpserver.InventoryHTTP{Svc: &service.InventoryService{Repo: r, Events: publisher, Cache: homeCache}},
		Cart:        &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Events: publisher, Cache: homeCache}},
		Reviews:     &httpserver.ReviewHTTP{Svc: &service.ReviewService{Repo: r, Cache: homeCache}},
		Images:      &httpserver.ImageHTTP{Svc: &service.ImageService{Repo: r, Storage: disk, Cache: homeCache}},
		ImageDir:    cfg.UploadDir,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bookstore listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop, stopCancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stopCancel()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-stop.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("bookstore stopped")
	return nil
}
