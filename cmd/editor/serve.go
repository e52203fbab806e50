package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/framewright/framewright-editor/internal/api"
	"github.com/framewright/framewright-editor/internal/assets"
	"github.com/framewright/framewright-editor/internal/config"
	"github.com/framewright/framewright-editor/internal/db"
	"github.com/framewright/framewright-editor/internal/editor"
	"github.com/framewright/framewright-editor/internal/events"
	"github.com/framewright/framewright-editor/internal/logging"
	"github.com/framewright/framewright-editor/internal/media"
	"github.com/framewright/framewright-editor/internal/render"
	"github.com/framewright/framewright-editor/internal/ui"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the editor agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	slog.SetDefault(logger)

	logger.Info("starting framewright editor",
		"version", config.Version,
		"data_dir", cfg.DataDir(),
		"headless", cfg.Headless())

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := editor.NewRepository(database.Conn())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	authToken, err := ensureAuthToken(ctx, repo)
	if err != nil {
		return fmt.Errorf("failed to ensure auth token: %w", err)
	}

	editorSvc := editor.NewService(repo, cfg.Composition(), logger)

	var gateway render.Gateway
	if cfg.RenderBaseURL() != "" {
		gateway = render.NewHTTPClient(cfg.RenderBaseURL(), cfg.RenderToken(), cfg.RenderTimeout(), logger)
	} else {
		logger.Warn("render backend not configured, render requests will fail",
			"env", config.EnvRenderBaseURL)
		gateway = unconfiguredGateway{}
	}
	poller := render.NewPoller(gateway, cfg.RenderPollInterval(), logger)

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.BrokerURL() != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.BrokerURL(), cfg.BrokerQueue(), logger)
		if err != nil {
			return fmt.Errorf("failed to connect to event broker: %w", err)
		}
		publisher = amqpPub
		logger.Info("event broker connected", "queue", cfg.BrokerQueue())
	}

	renderSvc := render.NewService(repo, gateway, poller, publisher, logger)

	var contentClient *assets.Client
	if cfg.ContentBaseURL() != "" {
		contentClient = assets.NewClient(cfg.ContentBaseURL(), cfg.ContentToken(), logger)
		logger.Info("content api configured", "base_url", cfg.ContentBaseURL())
	}

	mediaStore, err := media.NewStore(cfg.MediaDir(), repo, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize media store: %w", err)
	}

	apiServer := api.NewServer(api.ServerConfig{
		Port:       cfg.Port(),
		Editor:     editorSvc,
		Render:     renderSvc,
		Content:    contentClient,
		Media:      mediaStore,
		Repository: repo,
		Logger:     logger,
		StartTime:  startTime,
		Version:    config.Version,
	})

	serverErrCh := make(chan error, 1)
	go func() {
		if err := apiServer.Start(); err != nil {
			serverErrCh <- err
		}
	}()

	printBanner(apiServer.Addr(), authToken)

	quitCh := make(chan struct{})
	var quitOnce sync.Once
	requestQuit := func() {
		quitOnce.Do(func() { close(quitCh) })
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal", "signal", sig.String())
		requestQuit()
	}()

	if cfg.Headless() {
		select {
		case <-quitCh:
		case err := <-serverErrCh:
			logger.Error("HTTP server failed", "error", err)
			cancel()
			return err
		}
	} else {
		tray := ui.NewTray(ui.TrayConfig{
			Logger: logger,
			OnQuit: requestQuit,
		})

		go func() {
			select {
			case <-quitCh:
				tray.Quit()
			case err := <-serverErrCh:
				logger.Error("HTTP server failed", "error", err)
				tray.Quit()
			}
		}()

		// systray.Run must own the main goroutine on some platforms.
		tray.Run()
	}

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	renderSvc.Close()

	if err := publisher.Close(); err != nil {
		logger.Error("event publisher close error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// ensureAuthToken returns the persisted API auth token, generating one on
// first run.
func ensureAuthToken(ctx context.Context, repo editor.Repository) (string, error) {
	token, err := repo.GetConfig(ctx, "auth_token")
	if err != nil {
		return "", err
	}
	if token != "" {
		return token, nil
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token = hex.EncodeToString(buf)

	if err := repo.SetConfig(ctx, "auth_token", token); err != nil {
		return "", err
	}
	return token, nil
}

func printBanner(addr, token string) {
	fmt.Println()
	fmt.Println("  Framewright Editor " + config.Version)
	fmt.Println()
	fmt.Printf("  API:        http://%s\n", addr)
	fmt.Printf("  Auth token: %s\n", token)
	fmt.Println()
	fmt.Println("  Pass the token as: Authorization: Bearer <token>")
	fmt.Println()
}

// unconfiguredGateway rejects render calls when no backend URL is set.
type unconfiguredGateway struct{}

func (unconfiguredGateway) Invoke(ctx context.Context, req render.Request) (render.Handle, error) {
	return render.Handle{}, fmt.Errorf("render backend not configured: set %s", config.EnvRenderBaseURL)
}

func (unconfiguredGateway) Progress(ctx context.Context, handle render.Handle) (render.Progress, error) {
	return render.Progress{}, fmt.Errorf("render backend not configured: set %s", config.EnvRenderBaseURL)
}
