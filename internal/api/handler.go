package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sander-remitly/coin-change/internal/algorithm"
	"github.com/sander-remitly/coin-change/internal/cache"
	"github.com/sander-remitly/coin-change/internal/logger"
	"github.com/sander-remitly/coin-change/internal/models"
	"github.com/sander-remitly/coin-change/internal/repo"
	"go.uber.org/zap"
)

// historyLimit is how many entries GET /api/history returns.
const historyLimit = 20

// Handler handles HTTP requests
type Handler struct {
	repo      *repo.Repository
	cache     *cache.Cache
	maxCells  int
	startTime time.Time
}

// NewHandler creates a new API handler. maxCells bounds the cost table of
// a single request; <= 0 selects algorithm.DefaultMaxCells.
func NewHandler(repository *repo.Repository, cacheInstance *cache.Cache, maxCells int) *Handler {
	return &Handler{
		repo:      repository,
		cache:     cacheInstance,
		maxCells:  maxCells,
		startTime: time.Now(),
	}
}

// SetupRouter configures the Chi router with all routes
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/change", h.HandleChange)
		r.Get("/presets", h.HandlePresets)
		r.Get("/history", h.HandleHistory)
		r.Post("/history/clear", h.HandleClearHistory)
		r.Get("/history/stats", h.HandleHistoryStats)
		r.Get("/health", h.HandleHealth)
		r.Get("/denominations", h.HandleGetDenominations)
		r.Post("/denominations", h.HandleUpdateDenominations)

		r.Get("/cache/stats", h.HandleCacheStats)
		r.Post("/cache/clear", h.HandleCacheClear)
	})

	return r
}

// HandleChange solves a change-making request
func (h *Handler) HandleChange(w http.ResponseWriter, r *http.Request) {
	var req models.ChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Amount < 0 {
		respondError(w, http.StatusBadRequest, "Amount must not be negative", nil)
		return
	}

	strategy, err := algorithm.ParseStrategy(req.Strategy)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid strategy", err)
		return
	}

	denoms := req.Denominations
	if len(denoms) == 0 {
		denoms, err = h.repo.GetDenominations()
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to get denominations", err)
			return
		}
	}

	if err := algorithm.Validate(denoms); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid denominations", err)
		return
	}

	// Limit applies to cached results too; they may come from a larger limit
	if err := algorithm.CheckSize(req.Amount, len(denoms), h.maxCells); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "Calculation failed", err)
		return
	}

	ctx := r.Context()

	// The cache holds results only; table requests always recompute
	if !req.IncludeTable {
		if cached, found := h.cache.Get(ctx, req.Amount, denoms); found {
			logger.Log.Info("Cache HIT",
				zap.Int("amount", req.Amount),
				zap.Ints("denominations", denoms),
				zap.Int("hit_count", cached.HitCount),
				zap.Duration("ttl", cached.CurrentTTL),
			)

			h.saveHistory(cached.Amount, cached.Denominations, cached.Coins, cached.MinCoins, strategy)

			respondJSON(w, http.StatusOK, models.ChangeResponse{
				Amount:            cached.Amount,
				Denominations:     cached.Denominations,
				MinCoins:          cached.MinCoins,
				Coins:             cached.Coins,
				CoinCounts:        cached.CoinCounts,
				CalculationTimeMs: cached.CalculationTimeMs,
				Cached:            true,
				CacheTTL:          cached.CurrentTTL.String(),
				CacheHitCount:     cached.HitCount,
			})
			return
		}

		logger.Log.Info("Cache MISS",
			zap.Int("amount", req.Amount),
			zap.Ints("denominations", denoms),
		)
	}

	start := time.Now()
	result, err := algorithm.Calculate(req.Amount, denoms, algorithm.Options{
		Strategy: strategy,
		MaxCells: h.maxCells,
	})
	duration := time.Since(start)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, algorithm.ErrTableTooLarge) {
			status = http.StatusUnprocessableEntity
		}
		respondError(w, status, "Calculation failed", err)
		return
	}

	logger.Log.Debug("Cost table built",
		zap.String("strategy", string(strategy)),
		zap.Int("rows", result.Table.Rows()),
		zap.Int("cols", result.Table.Cols()),
		zap.Int("filled", result.Table.Filled()),
		zap.Duration("duration", duration),
	)

	if err := h.cache.Set(ctx, result, duration); err != nil {
		logger.Log.Warn("Failed to cache result", zap.Error(err))
	}

	h.saveHistory(result.Amount, result.Denominations, result.Coins, result.MinCoins, strategy)

	response := models.ChangeResponse{
		Amount:            result.Amount,
		Denominations:     result.Denominations,
		MinCoins:          result.MinCoins,
		Coins:             result.Coins,
		CoinCounts:        result.CoinCounts,
		CalculationTimeMs: duration.Milliseconds(),
		Cached:            false,
	}
	if req.IncludeTable {
		response.Table = costTable(result.Table, strategy)
	}

	respondJSON(w, http.StatusOK, response)
}

// saveHistory records a solve. History failures must not fail the request.
func (h *Handler) saveHistory(amount int, denoms, coins []int, minCoins int, strategy algorithm.Strategy) {
	if err := h.repo.SaveCalculation(amount, denoms, coins, minCoins, string(strategy)); err != nil {
		logger.Log.Warn("Failed to save calculation", zap.Error(err))
	}
}

// HandlePresets returns predefined coin systems
func (h *Handler) HandlePresets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.PresetsResponse{
		Presets: models.GetPresets(),
	})
}

// HandleHistory returns calculation history
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.repo.GetHistory(historyLimit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get history", err)
		return
	}

	respondJSON(w, http.StatusOK, models.HistoryResponse{
		History: history,
		Count:   len(history),
	})
}

// HandleClearHistory clears all calculation history
func (h *Handler) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.ClearHistory(); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to clear history", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "History cleared"})
}

// HandleHistoryStats returns aggregate history statistics
func (h *Handler) HandleHistoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.GetStats()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get history stats", err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// HandleHealth returns service health status
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "connected"
	if err := h.repo.Ping(); err != nil {
		dbStatus = "disconnected"
	}

	cacheStatus := "disabled"
	if h.cache.IsEnabled() {
		cacheStatus = "connected"
		if err := h.cache.Ping(r.Context()); err != nil {
			cacheStatus = "disconnected"
		}
	}

	respondJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Database:  dbStatus,
		Cache:     cacheStatus,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// HandleGetDenominations returns the stored default denominations
func (h *Handler) HandleGetDenominations(w http.ResponseWriter, r *http.Request) {
	denoms, err := h.repo.GetDenominations()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get denominations", err)
		return
	}

	respondJSON(w, http.StatusOK, models.DenominationConfig{
		Denominations: denoms,
		UpdatedAt:     time.Now(),
	})
}

// HandleUpdateDenominations replaces the stored default denominations
func (h *Handler) HandleUpdateDenominations(w http.ResponseWriter, r *http.Request) {
	var req models.ConfigUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := algorithm.Validate(req.Denominations); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid denominations", err)
		return
	}

	if err := h.repo.SetDenominations(req.Denominations); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update denominations", err)
		return
	}

	respondJSON(w, http.StatusOK, models.ConfigUpdateResponse{
		Denominations: req.Denominations,
		UpdatedAt:     time.Now(),
		Message:       "Denominations updated successfully",
	})
}

// HandleCacheStats returns cache statistics
func (h *Handler) HandleCacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.cache.GetStats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get cache stats", err)
		return
	}

	respondJSON(w, http.StatusOK, models.CacheStatsResponse{
		Enabled:    h.cache.IsEnabled(),
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		HitRate:    stats.HitRate,
		TotalKeys:  stats.TotalKeys,
		MemoryUsed: stats.MemoryUsed,
		Uptime:     stats.Uptime,
	})
}

// HandleCacheClear clears all cache entries
func (h *Handler) HandleCacheClear(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Clear(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to clear cache", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Cache cleared successfully"})
}

// Helper functions

func costTable(t *algorithm.Table, strategy algorithm.Strategy) *models.CostTable {
	grid := t.Grid()
	rows := make([]models.CostRow, len(grid))
	for i, cells := range grid {
		rows[i] = models.CostRow{
			Denomination: t.Denomination(i),
			Cells:        cells,
		}
	}

	return &models.CostTable{
		Strategy: string(strategy),
		Filled:   t.Filled(),
		Rows:     rows,
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.Error("Error encoding JSON response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := models.ErrorResponse{
		Error: message,
		Code:  status,
	}

	if err != nil {
		fields := []zap.Field{
			zap.String("message", message),
			zap.Int("status", status),
			zap.Error(err),
		}
		if status >= http.StatusInternalServerError {
			logger.Log.Error("Request error", fields...)
		} else {
			logger.Log.Info("Rejected request", fields...)
		}
		response.Message = err.Error()
	}

	respondJSON(w, status, response)
}

// requestLogger logs each request through zap once it completes.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		logger.Log.Info("HTTP request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
