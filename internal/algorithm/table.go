package algorithm

import (
	"fmt"
	"math"
)

// DefaultMaxCells bounds the size of a cost table (rows * (amount+1)).
const DefaultMaxCells = 10_000_000

// Strategy selects how a Table is filled.
type Strategy string

const (
	// BottomUp fills every cell row by row.
	BottomUp Strategy = "bottom-up"
	// Memoized evaluates only the cells the recurrence needs for the
	// requested cell, using an explicit work stack.
	Memoized Strategy = "memoized"
)

// ParseStrategy maps a strategy name to a Strategy. The empty string
// selects BottomUp.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case "", BottomUp:
		return BottomUp, nil
	case Memoized:
		return Memoized, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// cell addresses one entry of the cost table.
type cell struct {
	row, amount int
}

// Table is the cost table for one (amount, denominations) pair.
//
// Cell (i, a) holds the fewest coins needed to make a using only
// denominations[0..i]. Cells start unreached; each is written at most once.
type Table struct {
	denominations []int
	amount        int
	cols          int
	cells         []int
	reached       []bool
	filled        int
}

// NewTable validates the inputs and allocates an empty cost table.
// maxCells <= 0 selects DefaultMaxCells.
func NewTable(amount int, denominations []int, maxCells int) (*Table, error) {
	if err := Validate(denominations); err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeAmount, amount)
	}
	if err := CheckSize(amount, len(denominations), maxCells); err != nil {
		return nil, err
	}

	rows, cols := len(denominations), amount+1
	denoms := make([]int, rows)
	copy(denoms, denominations)

	return &Table{
		denominations: denoms,
		amount:        amount,
		cols:          cols,
		cells:         make([]int, rows*cols),
		reached:       make([]bool, rows*cols),
	}, nil
}

// CheckSize reports ErrTableTooLarge when a table of rows x (amount+1)
// cells would exceed maxCells. maxCells <= 0 selects DefaultMaxCells.
func CheckSize(amount, rows, maxCells int) error {
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}
	if amount == math.MaxInt {
		return fmt.Errorf("%w: amount %d", ErrTableTooLarge, amount)
	}
	if cols := amount + 1; rows > 0 && cols > maxCells/rows {
		return fmt.Errorf("%w: %d x %d > %d", ErrTableTooLarge, rows, cols, maxCells)
	}
	return nil
}

// Validate checks that denominations is a usable coin system: non-empty,
// all positive, and starting with 1 so every amount is reachable.
func Validate(denominations []int) error {
	if len(denominations) == 0 {
		return ErrNoDenominations
	}
	for i, d := range denominations {
		if d <= 0 {
			return fmt.Errorf("%w: denominations[%d] = %d", ErrNonPositiveDenomination, i, d)
		}
	}
	if denominations[0] != 1 {
		return fmt.Errorf("%w: got %d", ErrFirstDenominationNotOne, denominations[0])
	}
	return nil
}

// Rows returns the number of denominations.
func (t *Table) Rows() int { return len(t.denominations) }

// Cols returns amount+1.
func (t *Table) Cols() int { return t.cols }

// Denomination returns the coin value labelling row i.
func (t *Table) Denomination(i int) int { return t.denominations[i] }

// Denominations returns a copy of the denomination list.
func (t *Table) Denominations() []int {
	out := make([]int, len(t.denominations))
	copy(out, t.denominations)
	return out
}

// Filled reports how many cells have been computed.
func (t *Table) Filled() int { return t.filled }

// Value returns the cached value of cell (i, a) and whether it is reached.
// Out-of-range cells report false.
func (t *Table) Value(i, a int) (int, bool) {
	if !t.inBounds(i, a) {
		return 0, false
	}
	idx := i*t.cols + a
	return t.cells[idx], t.reached[idx]
}

// MinCoins returns the fewest coins that make a using denominations[0..i],
// computing and caching only the cells that answer depends on.
func (t *Table) MinCoins(i, a int) (int, error) {
	if !t.inBounds(i, a) {
		return 0, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrIndexOutOfRange, i, a, t.Rows(), t.cols)
	}
	if v, ok := t.Value(i, a); ok {
		return v, nil
	}

	stack := []cell{{i, a}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if _, ok := t.Value(top.row, top.amount); ok {
			stack = stack[:len(stack)-1]
			continue
		}
		v, missing := t.evaluate(top.row, top.amount)
		if len(missing) > 0 {
			stack = append(stack, missing...)
			continue
		}
		t.set(top.row, top.amount, v)
		stack = stack[:len(stack)-1]
	}

	v, _ := t.Value(i, a)
	return v, nil
}

// Fill populates every cell in row-major order. Dependencies of a cell are
// always earlier in that order, so evaluate never reports missing cells.
func (t *Table) Fill() {
	for i := range t.denominations {
		for a := 0; a < t.cols; a++ {
			if _, ok := t.Value(i, a); ok {
				continue
			}
			v, _ := t.evaluate(i, a)
			t.set(i, a, v)
		}
	}
}

// Build fills the table with strategy s and returns the optimum for the
// full denomination list and amount.
func (t *Table) Build(s Strategy) (int, error) {
	last := t.Rows() - 1
	switch s {
	case "", BottomUp:
		t.Fill()
	case Memoized:
		return t.MinCoins(last, t.amount)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
	v, _ := t.Value(last, t.amount)
	return v, nil
}

// evaluate applies the recurrence to cell (i, a). If a dependency is not
// yet reached it is returned in missing and the value is meaningless.
func (t *Table) evaluate(i, a int) (int, []cell) {
	switch {
	case a == 0:
		return 0, nil
	case i == 0:
		prev, ok := t.Value(0, a-1)
		if !ok {
			return 0, []cell{{0, a - 1}}
		}
		return prev + 1, nil
	case a < t.denominations[i]:
		skip, ok := t.Value(i-1, a)
		if !ok {
			return 0, []cell{{i - 1, a}}
		}
		return skip, nil
	}

	var missing []cell
	rest := a - t.denominations[i]
	use, okUse := t.Value(i, rest)
	if !okUse {
		missing = append(missing, cell{i, rest})
	}
	skip, okSkip := t.Value(i-1, a)
	if !okSkip {
		missing = append(missing, cell{i - 1, a})
	}
	if len(missing) > 0 {
		return 0, missing
	}
	return min(use+1, skip), nil
}

func (t *Table) set(i, a, v int) {
	idx := i*t.cols + a
	t.cells[idx] = v
	t.reached[idx] = true
	t.filled++
}

func (t *Table) inBounds(i, a int) bool {
	return i >= 0 && i < len(t.denominations) && a >= 0 && a < t.cols
}
