package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/http/handlers"
	"server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/mailer"
	"server/internal/newsletter"
	"server/internal/payments"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	if cfg.BootstrapDB {
		if err := infra.EnsureSchema(ctx, cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("failed to bootstrap schema")
		}
	}

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	subscribers := repo.NewSubscriberRepository(dbpool)
	donations := repo.NewDonationRepository(dbpool)

	sender := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPLogin, cfg.SMTPPassword, cfg.SMTPFrom, logger)
	dispatcher := mailer.NewDispatcher(sender, cfg.MailWorkers, cfg.MailQueueSize, logger)

	templates := &mailer.Templates{
		SiteName:    "Harari EBDAL",
		FrontendURL: cfg.FrontendURL,
	}
	reconciler := newsletter.NewReconciler(subscribers, dispatcher, templates, cfg.AdminEmail, logger)

	app := &handlers.App{
		Newsletter:      reconciler,
		Subscribers:     subscribers,
		Donations:       donations,
		Logger:          logger,
		AdminSecret:     cfg.AdminSecret,
		WebhookSecret:   cfg.StripeWebhookSecret,
		AppEnv:          cfg.AppEnv,
		EmailConfigured: cfg.SMTPConfigured(),
	}
	if stripeClient := payments.NewClient(cfg.StripeSecretKey, cfg.FrontendURL, logger); stripeClient != nil {
		app.Checkout = stripeClient
	} else {
		logger.Warn().Msg("stripe not configured, checkout endpoints disabled")
	}

	router := httpapi.NewRouter(app, logger, httpapi.Options{
		CORSOrigin:      cfg.CORSOrigin,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}

	// Let queued notifications finish before the pool goes away.
	dispatcher.Close()

	logger.Info().Msg("server stopped")
}
