package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coffeehouse/storefront/internal/api"
	"github.com/coffeehouse/storefront/internal/catalog"
	"github.com/coffeehouse/storefront/internal/config"
	"github.com/coffeehouse/storefront/internal/session"
	"github.com/coffeehouse/storefront/internal/telegram"
	"github.com/coffeehouse/storefront/internal/websocket"
	"github.com/coffeehouse/storefront/pkg/models"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	cfg := config.Load()

	cat, err := catalog.Load(cfg.Catalog.Path, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load catalog")
	}

	hub := websocket.NewHub(logger)
	go hub.Run()

	sessions := session.NewManager(session.Config{
		DeliveryPrice:         cfg.Cart.DeliveryPrice,
		FreeDeliveryThreshold: cfg.Cart.FreeDeliveryThreshold,
		LoyaltyRules: models.LoyaltyRules{
			PointsPerRub:      cfg.Loyalty.PointsPerRub,
			MinOrderForPoints: cfg.Loyalty.MinOrderForPoints,
		},
		ChatReplyDelay: cfg.Chat.ReplyDelay,
		CheckoutDelay:  cfg.Checkout.ProcessingDelay,
		TTL:            cfg.Session.TTL,
	}, hub, logger)
	go sessions.Run()

	bridge := telegram.NewWebAppBridge(logger)
	handler := api.NewHandler(cat, sessions, bridge, logger)
	router := api.NewRouter(handler, hub, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting storefront server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	sessions.Stop()
	hub.Stop()

	logger.Info("Server gracefully stopped")
}
