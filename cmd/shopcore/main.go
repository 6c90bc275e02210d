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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/glowmart/shopcore/internal/config"
	"github.com/glowmart/shopcore/internal/es"
	"github.com/glowmart/shopcore/internal/handlers"
	"github.com/glowmart/shopcore/internal/logging"
	"github.com/glowmart/shopcore/internal/mykafka"
	"github.com/glowmart/shopcore/internal/service/token"
	"github.com/glowmart/shopcore/internal/storage"
	"github.com/glowmart/shopcore/internal/store"
	httpserver "github.com/glowmart/shopcore/internal/transport/http"
)

const (
	Version = "0.1.0"
	appName = "shopcore"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Storefront persistence core and HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Initialize the collections database with default content and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seed()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func seed() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	st, err := storage.New(db)
	if err != nil {
		return err
	}
	if err := st.Initialize(context.Background()); err != nil {
		return err
	}
	fmt.Printf("seeded collections (admin account: %s)\n", storage.SeedAdminEmail)
	return nil
}

func serve() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LOG_LEVEL)
	slog.SetDefault(log)

	if cfg.JWT_SECRET == "" {
		return errors.New("JWT_SECRET is required")
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	st, err := storage.New(db)
	if err != nil {
		return err
	}
	if err := st.Initialize(context.Background()); err != nil {
		return err
	}

	prod := mykafka.NewProducer(cfg.KAFKA_ADDRESS)

	esClient, err := es.NewClient(cfg, log)
	if err != nil {
		return err
	}
	indexer := &es.Indexer{Client: esClient, Index: cfg.ES_INDEX}

	catalog := &store.Catalog{Storage: st}
	identity := &store.Identity{Storage: st, AllowAnyPassword: cfg.AUTH_ALLOW_ANY_PASSWORD}
	orders := &store.Orders{Storage: st}
	reporting := &store.Reporting{Storage: st}
	tokens := &token.Service{JWTSecret: []byte(cfg.JWT_SECRET)}

	if cfg.AUTH_ALLOW_ANY_PASSWORD {
		log.Warn("AUTH_ALLOW_ANY_PASSWORD is enabled; login does not verify credentials")
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		AuthHandler:     &handlers.AuthHandler{Identity: identity, Tokens: tokens, Producer: prod},
		ProductHandler:  &handlers.ProductHandler{Catalog: catalog, Producer: prod, Indexer: indexer},
		CategoryHandler: &handlers.CategoryHandler{Catalog: catalog},
		OrderHandler:    &handlers.OrderHandler{Orders: orders, Producer: prod},
		AdminHandler:    &handlers.AdminHandler{Reporting: reporting},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: cfg.ES_INDEX},
		Tokens:          tokens,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("http server listening", "addr", cfg.HTTP_ADDR)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("db close error", "error", err)
		}
	}

	if err := prod.Close(); err != nil {
		log.Error("kafka close error", "error", err)
	}

	log.Info("shutdown complete")
	return nil
}
