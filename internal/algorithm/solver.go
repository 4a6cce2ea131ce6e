package algorithm

// Options tunes Calculate.
type Options struct {
	Strategy Strategy // fill strategy, BottomUp when empty
	MaxCells int      // table size limit, DefaultMaxCells when <= 0
}

// Result represents the calculation result
type Result struct {
	Amount        int         // target amount
	Denominations []int       // denominations in row order
	MinCoins      int         // fewest coins that make Amount
	Coins         []int       // one optimal selection, in traceback order
	CoinCounts    map[int]int // denomination -> count
	Table         *Table      // populated cost table
}

// Calculate finds the fewest coins that make amount from an unlimited
// supply of each denomination, along with one selection achieving it.
//
// Algorithm: unbounded knapsack dynamic programming over a
// len(denominations) x (amount+1) cost table, followed by traceback.
// Time Complexity: O(len(denominations) * amount)
// Space Complexity: O(len(denominations) * amount)
func Calculate(amount int, denominations []int, opts Options) (Result, error) {
	table, err := NewTable(amount, denominations, opts.MaxCells)
	if err != nil {
		return Result{}, err
	}

	count, err := table.Build(opts.Strategy)
	if err != nil {
		return Result{}, err
	}

	coins, err := Reconstruct(table)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Amount:        amount,
		Denominations: table.Denominations(),
		MinCoins:      count,
		Coins:         coins,
		CoinCounts:    CountCoins(coins),
		Table:         table,
	}, nil
}

// CountCoins groups a coin sequence by denomination.
func CountCoins(coins []int) map[int]int {
	counts := make(map[int]int)
	for _, c := range coins {
		counts[c]++
	}
	return counts
}

// Sum returns the total value of coins.
func Sum(coins []int) int {
	total := 0
	for _, c := range coins {
		total += c
	}
	return total
}
