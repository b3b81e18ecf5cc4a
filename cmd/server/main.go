package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"landlord-game/internal/auth"
	"landlord-game/internal/config"
	"landlord-game/internal/database"
	"landlord-game/internal/game"
	"landlord-game/internal/server"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configFile := flag.String("config", "", "path to a JSON config file")
	flag.Parse()

	// run returns only after its deferred cleanup has finished.
	if err := run(*configFile); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func run(configFile string) error {
	cfg, err := config.Load(configFile, ".env")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogDevelopment)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Starting Landlord server...", zap.String("addr", cfg.Addr), zap.String("db", cfg.DBDriver))

	db, err := database.New(cfg.DBDriver, cfg.DBDSN, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	cleaner, err := db.StartCleaner(cfg.CleanupSchedule, cfg.ResultRetention())
	if err != nil {
		return fmt.Errorf("schedule cleanup: %w", err)
	}
	defer cleaner.Stop()

	hub := server.NewHub(game.Options{
		BidTimeout:  cfg.BidTimeout(),
		TurnTimeout: cfg.TurnTimeout(),
		MaxRedeals:  cfg.MaxRedeals,
		OnFinish:    db.Recorder(5 * time.Second),
	}, logger)
	defer hub.Shutdown()

	var issuer *auth.Issuer
	if cfg.AuthEnabled() {
		issuer = auth.NewIssuer(cfg.AuthSecret, cfg.TokenTTL())
	}

	if !cfg.LogDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(hub, db, server.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Issuer:         issuer,
	}, logger)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = serve(ctx, srv, logger)
	logger.Info("Server exiting")
	return err
}

// serve runs srv until ctx is done or the listener fails. Either way it
// returns normally so the caller's cleanup runs.
func serve(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("Server failed", zap.Error(err))
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}
	return nil
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
