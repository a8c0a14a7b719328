package solver

import (
	"sort"

	"github.com/ivcompat/ivcompat/internal/infusion"
)

// Result is the solver's raw output: a mapping from color to the
// infusions painted that color, in the order they were colored. It is
// immutable and carries no further solver state.
type Result struct {
	colorUsage map[int][]infusion.ID
}

// Colors returns every color used in the result, ascending. Colors
// 0..seededIVCount correspond to the caller's pre-configured IVs in order;
// any further colors were introduced by the solver during the main loop.
func (r *Result) Colors() []int {
	colors := make([]int, 0, len(r.colorUsage))
	for c := range r.colorUsage {
		colors = append(colors, c)
	}
	sort.Ints(colors)
	return colors
}

// Infusions returns the infusion IDs painted color c, in coloring order.
func (r *Result) Infusions(c int) []infusion.ID {
	return r.colorUsage[c]
}

// IVAssignment is one IV line's worth of resolved output: a one-based line
// number and the display names of the infusions assigned to it, in
// coloring order.
type IVAssignment struct {
	Line  int
	Names []string
}

// Render is the ResultMapper: it translates color IDs to one-based IV line
// numbers and infusion IDs to display names, ordering the output by color
// ascending. It is pure over its inputs and holds no state of its own.
func Render(r *Result, model *infusion.Model) []IVAssignment {
	colors := r.Colors()
	out := make([]IVAssignment, 0, len(colors))
	for _, c := range colors {
		ids := r.Infusions(c)
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = model.Name(id)
		}
		out = append(out, IVAssignment{Line: c + 1, Names: names})
	}
	return out
}
