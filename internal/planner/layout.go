package planner

import "sort"

// Positioned pairs a fragment with its assigned display column.
type Positioned struct {
	Fragment
	Column int
}

// PackColumns assigns each fragment the lowest-indexed column in which it
// overlaps nothing already placed, greedy interval coloring. Fragments are
// processed by start ascending, longer duration first on equal starts, and
// input order beyond that, so identical inputs always produce identical
// assignments. The check walks every resident of a column, not just the
// last one, because mixed daily and fixed fragments can interleave
// non-monotonically within a column.
func PackColumns(fragments []Fragment) []Positioned {
	ordered := make([]Fragment, len(fragments))
	copy(ordered, fragments)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].StartMinute != ordered[j].StartMinute {
			return ordered[i].StartMinute < ordered[j].StartMinute
		}
		return ordered[i].Duration() > ordered[j].Duration()
	})

	var columns [][]Fragment
	result := make([]Positioned, 0, len(ordered))
	for _, f := range ordered {
		placed := false
		for i := range columns {
			if !overlapsAny(f, columns[i]) {
				columns[i] = append(columns[i], f)
				result = append(result, Positioned{Fragment: f, Column: i})
				placed = true
				break
			}
		}
		if !placed {
			columns = append(columns, []Fragment{f})
			result = append(result, Positioned{Fragment: f, Column: len(columns) - 1})
		}
	}
	return result
}

// ColumnCount returns the number of columns a packing uses.
func ColumnCount(packed []Positioned) int {
	maxCol := -1
	for _, p := range packed {
		if p.Column > maxCol {
			maxCol = p.Column
		}
	}
	return maxCol + 1
}

func overlapsAny(f Fragment, residents []Fragment) bool {
	for _, r := range residents {
		if max(f.StartMinute, r.StartMinute) < min(f.EndMinute, r.EndMinute) {
			return true
		}
	}
	return false
}
