package algorithm

import "fmt"

// Reconstruct walks a populated table backward from (last row, amount) and
// returns the coins of one optimal solution, in traceback order.
//
// When skipping the current denomination costs the same as using it, the
// walk skips, so among several optimal coin sets the one favouring earlier
// rows is reported.
func Reconstruct(t *Table) ([]int, error) {
	i := t.Rows() - 1
	a := t.amount

	current, ok := t.Value(i, a)
	if !ok {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrTableIncomplete, i, a)
	}

	coins := make([]int, 0, current)
	for a > 0 {
		if i > 0 {
			above, ok := t.Value(i-1, a)
			if !ok {
				return nil, fmt.Errorf("%w: (%d, %d)", ErrTableIncomplete, i-1, a)
			}
			if above == current {
				i--
				continue
			}
		}

		d := t.denominations[i]
		coins = append(coins, d)
		a -= d
		if current, ok = t.Value(i, a); !ok {
			return nil, fmt.Errorf("%w: (%d, %d)", ErrTableIncomplete, i, a)
		}
	}

	return coins, nil
}
