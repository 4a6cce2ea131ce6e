package repo

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sander-remitly/coin-change/internal/algorithm"
	"github.com/sander-remitly/coin-change/internal/logger"
	"github.com/sander-remitly/coin-change/internal/models"
	"go.uber.org/zap"
)

// Repository handles data persistence
type Repository struct {
	db *sql.DB
}

// New creates a new repository instance
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return repo, nil
}

// initialize creates the database schema
func (r *Repository) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS denominations (
		position INTEGER PRIMARY KEY,
		value INTEGER NOT NULL CHECK (value > 0),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS calculations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		amount INTEGER NOT NULL,
		denominations TEXT NOT NULL,
		coins TEXT NOT NULL,
		min_coins INTEGER NOT NULL,
		strategy TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_calculations_timestamp ON calculations(timestamp DESC);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// GetDenominations returns the stored default denominations in row order,
// or the built-in defaults when none are stored.
func (r *Repository) GetDenominations() ([]int, error) {
	rows, err := r.db.Query("SELECT value FROM denominations ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query denominations: %w", err)
	}
	defer rows.Close()

	var denoms []int
	for rows.Next() {
		var d int
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan denomination: %w", err)
		}
		denoms = append(denoms, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(denoms) == 0 {
		return models.GetDefaultDenominations(), nil
	}

	return denoms, nil
}

// HasDenominations reports whether a denomination list has been stored.
func (r *Repository) HasDenominations() (bool, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM denominations").Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetDenominations replaces the stored default denominations, keeping
// their order.
func (r *Repository) SetDenominations(denoms []int) error {
	if err := algorithm.Validate(denoms); err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM denominations"); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO denominations (position, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, d := range denoms {
		if _, err := stmt.Exec(i, d); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveCalculation saves a calculation to the history
func (r *Repository) SaveCalculation(amount int, denoms, coins []int, minCoins int, strategy string) error {
	denomsJSON, err := json.Marshal(denoms)
	if err != nil {
		return err
	}

	if coins == nil {
		coins = []int{}
	}
	coinsJSON, err := json.Marshal(coins)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO calculations (amount, denominations, coins, min_coins, strategy)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, amount, string(denomsJSON), string(coinsJSON), minCoins, strategy)
	return err
}

// GetHistory retrieves the most recent calculations, newest first
func (r *Repository) GetHistory(limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, amount, denominations, coins, min_coins, strategy, timestamp
		FROM calculations
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []models.HistoryEntry{}
	for rows.Next() {
		var entry models.HistoryEntry
		var denomsJSON, coinsJSON string

		err := rows.Scan(
			&entry.ID,
			&entry.Amount,
			&denomsJSON,
			&coinsJSON,
			&entry.MinCoins,
			&entry.Strategy,
			&entry.Timestamp,
		)
		if err != nil {
			logger.Log.Warn("Error scanning row", zap.Error(err))
			continue
		}

		if err := json.Unmarshal([]byte(denomsJSON), &entry.Denominations); err != nil {
			logger.Log.Warn("Error unmarshaling denominations", zap.Int("id", entry.ID), zap.Error(err))
			continue
		}

		if err := json.Unmarshal([]byte(coinsJSON), &entry.Coins); err != nil {
			logger.Log.Warn("Error unmarshaling coins", zap.Int("id", entry.ID), zap.Error(err))
			continue
		}
		entry.CoinCounts = algorithm.CountCoins(entry.Coins)

		history = append(history, entry)
	}

	return history, rows.Err()
}

// ClearHistory clears all calculation history
func (r *Repository) ClearHistory() error {
	_, err := r.db.Exec("DELETE FROM calculations")
	return err
}

// GetStats returns statistics about the stored history
func (r *Repository) GetStats() (*models.HistoryStats, error) {
	stats := &models.HistoryStats{}

	err := r.db.QueryRow("SELECT COUNT(*), COALESCE(MAX(amount), 0) FROM calculations").
		Scan(&stats.TotalCalculations, &stats.LargestAmount)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow("SELECT COUNT(*) FROM denominations").Scan(&stats.DenominationCount)
	if err != nil {
		return nil, err
	}

	var latest time.Time
	err = r.db.QueryRow("SELECT timestamp FROM calculations ORDER BY timestamp DESC, id DESC LIMIT 1").Scan(&latest)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, err
	default:
		stats.LatestCalculation = &latest
	}

	return stats, nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping() error {
	return r.db.Ping()
}
