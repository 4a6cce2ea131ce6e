package models

import "time"

// ChangeRequest represents the API request for a change calculation
type ChangeRequest struct {
	Amount        int    `json:"amount"`
	Denominations []int  `json:"denominations,omitempty"` // Optional: use stored defaults if not provided
	Strategy      string `json:"strategy,omitempty"`      // "bottom-up" (default) or "memoized"
	IncludeTable  bool   `json:"include_table,omitempty"` // Return the cost table; bypasses the cache
}

// ChangeResponse represents the API response for a change calculation
type ChangeResponse struct {
	Amount            int         `json:"amount"`                    // Target amount
	Denominations     []int       `json:"denominations"`             // Denominations used, in row order
	MinCoins          int         `json:"min_coins"`                 // Fewest coins that make the amount
	Coins             []int       `json:"coins"`                     // One optimal selection, in traceback order
	CoinCounts        map[int]int `json:"coin_counts"`               // Denomination -> count
	Table             *CostTable  `json:"table,omitempty"`           // Cost table (if requested)
	CalculationTimeMs int64       `json:"calculation_time_ms"`       // Time taken in milliseconds
	Cached            bool        `json:"cached"`                    // Whether result was from cache
	CacheTTL          string      `json:"cache_ttl,omitempty"`       // Current cache TTL (if cached)
	CacheHitCount     int         `json:"cache_hit_count,omitempty"` // Number of cache hits for this result
}

// CostTable is the JSON form of the memo table. Unreached cells are null.
type CostTable struct {
	Strategy string    `json:"strategy"`
	Filled   int       `json:"filled"`
	Rows     []CostRow `json:"rows"`
}

// CostRow is one denomination's row of the cost table.
type CostRow struct {
	Denomination int    `json:"denomination"`
	Cells        []*int `json:"cells"`
}

// DenominationConfig represents the stored default denominations
type DenominationConfig struct {
	Denominations []int     `json:"denominations"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Preset represents a predefined coin system
type Preset struct {
	Name          string `json:"name"`
	Denominations []int  `json:"denominations"`
}

// PresetsResponse represents the API response for presets
type PresetsResponse struct {
	Presets []Preset `json:"presets"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database,omitempty"`
	Cache     string    `json:"cache,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
}

// HistoryEntry represents a calculation history entry
type HistoryEntry struct {
	ID            int         `json:"id"`
	Amount        int         `json:"amount"`
	Denominations []int       `json:"denominations"`
	Coins         []int       `json:"coins"`
	CoinCounts    map[int]int `json:"coin_counts"`
	MinCoins      int         `json:"min_coins"`
	Strategy      string      `json:"strategy"`
	Timestamp     time.Time   `json:"timestamp"`
}

// HistoryResponse represents the API response for history
type HistoryResponse struct {
	History []HistoryEntry `json:"history"`
	Count   int            `json:"count"`
}

// HistoryStats summarizes stored calculations
type HistoryStats struct {
	TotalCalculations int        `json:"total_calculations"`
	DenominationCount int        `json:"denomination_count"`
	LargestAmount     int        `json:"largest_amount"`
	LatestCalculation *time.Time `json:"latest_calculation,omitempty"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// ConfigUpdateRequest represents a request to replace the default denominations
type ConfigUpdateRequest struct {
	Denominations []int `json:"denominations"`
}

// ConfigUpdateResponse represents the response after updating denominations
type ConfigUpdateResponse struct {
	Denominations []int     `json:"denominations"`
	UpdatedAt     time.Time `json:"updated_at"`
	Message       string    `json:"message"`
}

// CacheStatsResponse represents cache statistics
type CacheStatsResponse struct {
	Enabled    bool    `json:"enabled"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
	TotalKeys  int64   `json:"total_keys"`
	MemoryUsed string  `json:"memory_used"`
	Uptime     string  `json:"uptime"`
}

// GetDefaultDenominations returns US coin denominations in cents
func GetDefaultDenominations() []int {
	return []int{1, 5, 10, 25}
}

// GetPresets returns predefined coin systems
func GetPresets() []Preset {
	return []Preset{
		{
			Name:          "US Coins",
			Denominations: []int{1, 5, 10, 25},
		},
		{
			Name:          "Euro Cents",
			Denominations: []int{1, 2, 5, 10, 20, 50},
		},
		{
			Name:          "Non-Canonical",
			Denominations: []int{1, 3, 4},
		},
		{
			Name:          "Powers of Two",
			Denominations: []int{1, 2, 4, 8, 16, 32},
		},
	}
}
