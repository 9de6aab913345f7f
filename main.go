package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"battleship-bot/api"
	"battleship-bot/bot"
	"battleship-bot/config"
	"battleship-bot/loghandler"
	"battleship-bot/storage"
	"battleship-bot/ws"
)

func main() {
	if err := run(); err != nil {
		slog.Error("bot stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	if envErr != nil {
		slog.Info("no .env file found; using environment variables", "tag", "config")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	slog.Info("configuration loaded", "tag", "config",
		"server", cfg.GameServer, "path", cfg.SocketIOPath,
		"auth_timeout", cfg.AuthTimeout(), "reconnect_delay", cfg.ReconnectDelay(),
		"persistence", cfg.DatabaseURL != "", "api_port", cfg.APIPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	} else {
		slog.Warn("DATABASE_URL not set; games will not be recorded", "tag", "storage")
	}

	if cfg.APIPort > 0 {
		srv := startAPI(cfg.APIPort, store)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	handler := bot.NewHandler(store, rand.New(rand.NewSource(time.Now().UnixNano())))
	return ws.Run(ctx, ws.Options{
		ServerURL:      cfg.GameServer,
		Path:           cfg.SocketIOPath,
		Secret:         cfg.Secret,
		AuthTimeout:    cfg.AuthTimeout(),
		ReconnectDelay: cfg.ReconnectDelay(),
	}, handler)
}

// setupLogging installs the compact handler on stderr and, when LOG_FILE is
// set, on an append-only file as well.
func setupLogging(cfg *config.Config) (func(), error) {
	level, err := loghandler.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, f)
		closeFn = func() { f.Close() }
	}

	slog.SetDefault(slog.New(loghandler.NewCompactHandler(w, level)))
	return closeFn, nil
}

func startAPI(port int, store storage.GameStore) *http.Server {
	mux := http.NewServeMux()
	api.NewHandler(store).Register(mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("status API listening", "tag", "api", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("status API stopped", "tag", "api", "error", err)
		}
	}()
	return srv
}
