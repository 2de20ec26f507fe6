package reportlist

import (
	"sort"

	reports "github.com/pokereports/pokereports/sdk/go"
)

// SortDirection orders reports by their updated timestamp.
type SortDirection int

const (
	// Descending puts the most recently updated report first.
	Descending SortDirection = iota
	// Ascending puts the oldest report first.
	Ascending
)

func (d SortDirection) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

// Toggle returns the opposite direction.
func (d SortDirection) Toggle() SortDirection {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// Compare orders a before b (<0), after b (>0) or neither (0) by updated.
// Two valid dates compare in direction. A valid date goes before an invalid
// one when descending and after it when ascending. Two invalid dates are
// equal.
func Compare(a, b reports.Report, dir SortDirection) int {
	ta, okA := a.UpdatedAt()
	tb, okB := b.UpdatedAt()

	switch {
	case okA && okB:
		c := ta.Compare(tb)
		if dir == Descending {
			return -c
		}
		return c
	case okA:
		if dir == Descending {
			return -1
		}
		return 1
	case okB:
		if dir == Descending {
			return 1
		}
		return -1
	default:
		return 0
	}
}

// Sort returns a sorted copy of items. The sort is stable, so equal dates
// and pairs of invalid dates keep their original relative order.
func Sort(items []reports.Report, dir SortDirection) []reports.Report {
	out := make([]reports.Report, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i], out[j], dir) < 0
	})
	return out
}
