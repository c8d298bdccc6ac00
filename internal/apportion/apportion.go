// Package apportion converts fractional percentage targets into integer
// counts using largest-remainder (Hamilton) rounding.
package apportion

import (
	"errors"
	"math"
	"sort"
)

var (
	ErrNegativeTotal  = errors.New("negative_total")
	ErrNegativeWeight = errors.New("negative_weight")
)

// Weight is a labeled nonnegative percentage. Weights need not sum to 100;
// they are normalized by their own sum.
type Weight struct {
	Label   string
	Percent float64
}

// Count is the integer allocation for one label.
type Count struct {
	Label string
	Count int
}

// Counts distributes total units across the weights so that the result sums
// to exactly total. Each weight first receives the floor of its proportional
// share; the remaining units go to the labels with the largest fractional
// remainders, ties broken by input order.
//
// A zero weight sum yields all-zero counts: the caller decides what an empty
// distribution means.
func Counts(total int, weights []Weight) ([]Count, error) {
	if total < 0 {
		return nil, ErrNegativeTotal
	}

	out := make([]Count, len(weights))
	sum := 0.0
	for i, w := range weights {
		if w.Percent < 0 || math.IsNaN(w.Percent) || math.IsInf(w.Percent, 0) {
			return nil, ErrNegativeWeight
		}
		out[i] = Count{Label: w.Label}
		sum += w.Percent
	}

	if total == 0 || sum == 0 {
		return out, nil
	}

	type share struct {
		index int
		frac  float64
	}

	allocated := 0
	shares := make([]share, len(weights))
	for i, w := range weights {
		exact := w.Percent / sum * float64(total)
		floor := int(math.Floor(exact))
		out[i].Count = floor
		allocated += floor
		shares[i] = share{index: i, frac: exact - float64(floor)}
	}

	// Stable sort keeps input order on equal remainders.
	sort.SliceStable(shares, func(a, b int) bool {
		return shares[a].frac > shares[b].frac
	})

	remainder := total - allocated
	for i := 0; i < remainder && i < len(shares); i++ {
		out[shares[i].index].Count++
	}
	if remainder > len(shares) {
		// Float drift can leave units unassigned; park them on the largest share.
		out[shares[0].index].Count += remainder - len(shares)
	}

	return out, nil
}

// CountFor returns the allocation for a given label, zero if absent.
func CountFor(counts []Count, label string) int {
	for _, c := range counts {
		if c.Label == label {
			return c.Count
		}
	}
	return 0
}
