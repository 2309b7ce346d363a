// Command server runs the language-exchange API: REST endpoints, the
// websocket chat gateway, and the Stripe checkout flow behind a single
// HTTP listener.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nvasilas/go-tandem-backend/internal/auth"
	"github.com/nvasilas/go-tandem-backend/internal/config"
	httpapi "github.com/nvasilas/go-tandem-backend/internal/http"
	"github.com/nvasilas/go-tandem-backend/internal/observability"
	"github.com/nvasilas/go-tandem-backend/internal/payments"
	"github.com/nvasilas/go-tandem-backend/internal/repo"
	"github.com/nvasilas/go-tandem-backend/internal/sysutil"
	"github.com/nvasilas/go-tandem-backend/internal/ws"
)

var version = "dev"

// @title           Tandem API
// @version         1.0
// @description     Language-exchange marketplace: partner matching, paid
// @description     lessons, real-time chat, reviews, and flashcard decks.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	shutdownOTel, err := observability.Setup(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var provider payments.Provider
	if cfg.Checkout.StripeSecretKey != "" {
		provider = payments.NewStripeProvider(
			cfg.Checkout.StripeSecretKey,
			cfg.Checkout.ReturnBaseURL+"/checkout/return",
			cfg.Checkout.Currency,
		)
	} else {
		log.Warn().Msg("STRIPE_SECRET_KEY not set, using fake checkout provider")
		provider = payments.NewFakeProvider()
	}

	hub := ws.NewHub()
	go hub.Run()

	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{
		DB:       db,
		Issuer:   issuer,
		Checkout: provider,
		Hub:      hub,
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	hub.Stop()
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown failed")
	}
	log.Info().Msg("server exited")
}
