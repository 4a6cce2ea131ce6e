package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/sander-remitly/coin-change/internal/algorithm"
	"github.com/sander-remitly/coin-change/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	solveStrategy string
	solveTable    bool
	solveJSON     bool
)

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve AMOUNT D0 [D1 ...]",
	Short: "Compute the fewest coins for an amount",
	Long: `Compute the fewest coins needed to make AMOUNT from the given
denominations and print one optimal selection and the memo table.

D0 must be 1 so that every amount can be made.`,
	Example: `  coinchange solve 11 1 2 5
  coinchange solve 6 1 3 4 --strategy bottom-up --table=false`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)

	solveCmd.Flags().StringVar(&solveStrategy, "strategy", string(algorithm.Memoized), "Table fill strategy (bottom-up|memoized)")
	solveCmd.Flags().BoolVar(&solveTable, "table", true, "Print the final memo table")
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "Print the result as JSON")
}

// solveOutput is the --json form of a solve result.
type solveOutput struct {
	Amount        int         `json:"amount"`
	Denominations []int       `json:"denominations"`
	MinCoins      int         `json:"min_coins"`
	Coins         []int       `json:"coins"`
	CoinCounts    map[int]int `json:"coin_counts"`
	Table         [][]*int    `json:"table,omitempty"`
}

func runSolve(cmd *cobra.Command, args []string) error {
	amount, denoms, err := parseSolveArgs(args)
	if err != nil {
		return err
	}

	strategy, err := algorithm.ParseStrategy(solveStrategy)
	if err != nil {
		return err
	}

	logger.Initialize(verbose)
	defer logger.Sync()

	result, err := algorithm.Calculate(amount, denoms, algorithm.Options{
		Strategy: strategy,
		MaxCells: maxCells,
	})
	if err != nil {
		return err
	}

	logger.Log.Debug("Cost table built",
		zap.Int("amount", amount),
		zap.Ints("denominations", denoms),
		zap.String("strategy", string(strategy)),
		zap.Int("filled", result.Table.Filled()),
		zap.Int("cells", result.Table.Rows()*result.Table.Cols()),
		zap.Int("total", algorithm.Sum(result.Coins)),
	)

	if solveJSON {
		return writeSolveJSON(cmd.OutOrStdout(), result)
	}
	return writeSolveText(cmd.OutOrStdout(), result)
}

// parseSolveArgs reads AMOUNT followed by one or more denominations.
func parseSolveArgs(args []string) (int, []int, error) {
	amount, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, nil, fmt.Errorf("invalid amount %q: %w", args[0], err)
	}

	denoms := make([]int, 0, len(args)-1)
	for _, arg := range args[1:] {
		d, err := strconv.Atoi(arg)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid denomination %q: %w", arg, err)
		}
		denoms = append(denoms, d)
	}

	return amount, denoms, nil
}

func writeSolveText(w io.Writer, result algorithm.Result) error {
	fmt.Fprintf(w, "The fewest coins to make %d cents with these denominations is %d\n",
		result.Amount, result.MinCoins)

	for _, c := range result.Coins {
		fmt.Fprintf(w, "used coin: %d\n", c)
	}

	if !solveTable {
		return nil
	}

	fmt.Fprintln(w, "The final memo table:")
	return result.Table.Dump(w)
}

func writeSolveJSON(w io.Writer, result algorithm.Result) error {
	out := solveOutput{
		Amount:        result.Amount,
		Denominations: result.Denominations,
		MinCoins:      result.MinCoins,
		Coins:         result.Coins,
		CoinCounts:    result.CoinCounts,
	}
	if solveTable {
		out.Table = result.Table.Grid()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
