package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/dirkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/dirkeeper/internal/client/cli"
	"github.com/dmitrijs2005/dirkeeper/internal/client/client"
	"github.com/dmitrijs2005/dirkeeper/internal/client/config"
	"github.com/dmitrijs2005/dirkeeper/internal/client/events"
	"github.com/dmitrijs2005/dirkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dirkeeper/internal/client/services"
	"github.com/dmitrijs2005/dirkeeper/internal/client/storage"
	"github.com/dmitrijs2005/dirkeeper/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "dirkeeper stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	db, err := storage.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	tokens := metadata.NewTokenStore(db)
	broker := events.NewBroker()

	// the client reads the token from the session service built below
	var sessions *services.SessionService
	api := client.NewHTTPClient(cfg.BaseURL, cfg.APIKey, cfg.RequestTimeout,
		client.WithTokenSource(client.TokenFunc(func() string { return sessions.Token() })),
		client.WithExpiryPublisher(broker),
		client.WithLogger(logger),
	)

	sessions = services.NewSessionService(api, tokens, services.LoadPersistedToken(ctx, tokens, logger), broker, logger)
	defer sessions.Close()

	directory := services.NewDirectoryService(api, logger)
	defer directory.Close()

	app := cli.NewApp(cfg, sessions, directory, broker, os.Stdin, os.Stdout, logger)
	app.Run(ctx)
	return nil
}
