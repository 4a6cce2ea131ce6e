package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sander-remitly/coin-change/internal/api"
	"github.com/sander-remitly/coin-change/internal/cache"
	"github.com/sander-remitly/coin-change/internal/logger"
	"github.com/sander-remitly/coin-change/internal/models"
	"github.com/sander-remitly/coin-change/internal/repo"
	"github.com/sander-remitly/coin-change/internal/web"
	"go.uber.org/zap"
)

// runServer starts the HTTP server and blocks until SIGINT or SIGTERM.
// withUI also mounts the web UI at /.
func runServer(withUI bool) {
	logger.Initialize(verbose)
	defer logger.Sync()

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Log.Fatal("Failed to create data directory", zap.Error(err))
	}

	repository, err := repo.New(dbPath)
	if err != nil {
		logger.Log.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repository.Close()

	// Store default denominations on first run
	stored, err := repository.HasDenominations()
	if err != nil {
		logger.Log.Fatal("Failed to read denominations", zap.Error(err))
	}
	if !stored {
		defaults := models.GetDefaultDenominations()
		logger.Log.Info("Initializing default denominations", zap.Ints("denominations", defaults))
		if err := repository.SetDenominations(defaults); err != nil {
			logger.Log.Fatal("Failed to set default denominations", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cacheInstance := cache.NewCache(ctx)
	defer cacheInstance.Close()

	handler := api.NewHandler(repository, cacheInstance, maxCells)
	router := handler.SetupRouter()

	if withUI {
		webHandler, err := web.NewHandler()
		if err != nil {
			logger.Log.Fatal("Failed to initialize web handler", zap.Error(err))
		}
		webHandler.SetupRoutes(router)
	}

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		fields := []zap.Field{
			zap.String("url", fmt.Sprintf("http://localhost%s", addr)),
			zap.String("api", fmt.Sprintf("http://localhost%s/api", addr)),
			zap.String("health", fmt.Sprintf("http://localhost%s/api/health", addr)),
			zap.Bool("web_ui", withUI),
			zap.Int("max_cells", maxCells),
		}
		logger.Log.Info("Server starting", fields...)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	logger.Log.Info("Server stopped")
}
