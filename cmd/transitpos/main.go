package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"transitpos/internal/blobsource"
	"transitpos/internal/config"
	"transitpos/internal/gtfs"
	"transitpos/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := config.Load()

	flag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "HTTP server port")
	flag.StringVar(&cfg.DataRoot, "data-root", cfg.DataRoot, "local directory holding GTFS feed folders")
	flag.StringVar(&cfg.FeedName, "feed", cfg.FeedName, "feed folder name under data-root (not used in cloud mode)")
	flag.BoolVar(&cfg.Cloud, "cloud", cfg.Cloud, "read the feed from Azure Blob Storage instead of the local filesystem")
	flag.StringVar(&cfg.AzureAccount, "azure-account", cfg.AzureAccount, "Azure Storage account name (cloud mode)")
	flag.StringVar(&cfg.AzureContainer, "azure-container", cfg.AzureContainer, "Azure Storage container name (cloud mode)")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source, err := openSource(cfg)
	if err != nil {
		logger.Error("failed to open blob source", "error", err)
		os.Exit(1)
	}

	// Loading happens before the listener opens: a bad feed must never
	// be visible to clients as a running-but-empty service.
	ds, err := gtfs.Load(ctx, source, logger)
	if err != nil {
		logger.Error("failed to load gtfs feed", "error", err)
		os.Exit(1)
	}

	store := gtfs.NewStore()
	store.Install(ds)

	srv := server.New(cfg, store, logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
		os.Exit(0)
	}()

	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func openSource(cfg *config.Config) (blobsource.Source, error) {
	if cfg.Cloud {
		return blobsource.NewAzure(cfg.AzureAccount, cfg.AzureContainer)
	}
	return blobsource.NewLocal(cfg.DataRoot, cfg.FeedName), nil
}
