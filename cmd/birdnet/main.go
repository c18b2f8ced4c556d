package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/masa-finance/birdnet/internal/api"
	"github.com/masa-finance/birdnet/internal/config"
	"github.com/masa-finance/birdnet/internal/engine"
	"github.com/masa-finance/birdnet/pkg/client"
)

func main() {
	cfg := config.ReadConfig()

	transport, err := client.NewHTTPTransport(client.BearerSigner{},
		client.Timeout(cfg.RequestTimeout()),
		client.UserAgent(cfg.UserAgent()),
	)
	if err != nil {
		logrus.Fatalf("Failed to create transport: %v", err)
	}

	eng := engine.New(transport, cfg.PrimaryIdentity(), cfg.AlternateIdentity())
	if !eng.HasAlternateIdentity() {
		logrus.Info("No alternate identity configured; blocked content degrades to placeholders")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := api.Start(ctx, cfg, eng); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Fatalf("Server exited with error: %v", err)
	}
}
