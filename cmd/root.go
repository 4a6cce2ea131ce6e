package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sander-remitly/coin-change/internal/algorithm"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	port     int
	dbPath   string
	verbose  bool
	maxCells int
	envFile  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "coinchange",
	Short: "Coin Change - fewest coins for an amount",
	Long: `Coin Change computes the minimum number of coins needed to make an
amount from an unlimited supply of each denomination, and reports one
optimal selection of coins together with the dynamic programming table.

It runs as a one-shot CLI (solve) or as an API with an optional web UI.`,
	SilenceErrors:     true,
	PersistentPreRunE: loadEnv,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&port, "port", "p", 8080, "Server port")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "./data/coinchange.db", "Database file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.PersistentFlags().IntVar(&maxCells, "max-cells", algorithm.DefaultMaxCells, "Maximum cost table cells per calculation")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before running (ignored if missing)")
}

// loadEnv loads envFile into the process environment without overriding
// variables that are already set.
func loadEnv(cmd *cobra.Command, args []string) error {
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	return nil
}
