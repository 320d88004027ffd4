package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/listora/listora-api/internal/config"
	"github.com/listora/listora-api/internal/domain/credit"
	"github.com/listora/listora-api/internal/domain/listing"
	"github.com/listora/listora-api/internal/domain/pending"
	"github.com/listora/listora-api/internal/domain/purchase"
	"github.com/listora/listora-api/internal/middleware"
	"github.com/listora/listora-api/internal/pkg/coupon"
	"github.com/listora/listora-api/internal/pkg/database"
	"github.com/listora/listora-api/internal/pkg/jwt"
	"github.com/listora/listora-api/internal/pkg/logger"
	"github.com/listora/listora-api/internal/pkg/notify"
	paypalclient "github.com/listora/listora-api/internal/pkg/paypal"
	pkgresponse "github.com/listora/listora-api/internal/pkg/response"
	stripeclient "github.com/listora/listora-api/internal/pkg/stripe"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Listora API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- Gateway clients ----------
	stripeGW := stripeclient.NewClient(stripeclient.Config{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
	})

	var paypalGW purchase.PayPalGateway
	if cfg.PayPalClientID != "" && cfg.PayPalSecret != "" {
		client, err := paypalclient.NewClient(paypalclient.Config{
			ClientID: cfg.PayPalClientID,
			Secret:   cfg.PayPalSecret,
			Live:     cfg.PayPalLive,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to init PayPal client")
		}
		paypalGW = client
	} else {
		log.Warn().Msg("PayPal credentials missing, paypal purchases disabled")
	}

	var couponValidator purchase.CouponValidator
	if cfg.CouponServiceURL != "" {
		couponValidator = coupon.NewClient(coupon.Config{
			BaseURL: cfg.CouponServiceURL,
			Timeout: time.Duration(cfg.CouponTimeoutSeconds) * time.Second,
		})
	}

	notifier := notify.NewWebhook(cfg.NotifyWebhookURL)

	// ---------- Repositories ----------
	creditRepo := credit.NewRepository(db)
	listingRepo := listing.NewRepository(db)
	purchaseRepo := purchase.NewRepository(db)
	pendingStore := pending.NewStore(redis)

	// ---------- Services ----------
	creditService := credit.NewService(creditRepo)
	listingService := listing.NewService(db, listingRepo, creditRepo)
	purchaseService := purchase.NewService(
		purchase.Config{FrontendURL: cfg.FrontendURL},
		db,
		purchaseRepo,
		creditRepo,
		listingService,
		pendingStore,
		couponValidator,
		stripeGW,
		paypalGW,
		notifier,
	)

	// ---------- Handlers ----------
	creditHandler := credit.NewHandler(creditService)
	listingHandler := listing.NewHandler(listingService, pendingStore, purchase.PriceFor)
	purchaseHandler := purchase.NewHandler(purchaseService, stripeGW)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/credits", creditHandler.Routes(authMiddleware))
		r.Mount("/listings", listingHandler.Routes(authMiddleware))
		r.Mount("/purchases", purchaseHandler.Routes(authMiddleware))
	})

	// Webhooks sit outside /api/v1; gateways authenticate by signature.
	r.Mount("/webhooks", purchaseHandler.WebhookRoutes())

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
