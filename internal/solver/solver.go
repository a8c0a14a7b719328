// Package solver implements the compatibility solver: a constraint-driven
// graph coloring engine with a saturation-style node selection heuristic
// and a "color potential" tiebreak, plus a pre-seeding phase for
// user-fixed partial assignments.
//
// The instance (problem) owns all of its mutable state and lives for the
// span of a single Solve call; nothing here is safe to reuse or share
// across calls.
package solver

import (
	"fmt"
	"sort"

	"github.com/ivcompat/ivcompat/internal/graph"
	"github.com/ivcompat/ivcompat/internal/infusion"
)

// problem is the solver's working state for a single solve. It is
// discarded once Solve returns.
type problem struct {
	graph *graph.ConflictGraph
	model *infusion.Model

	uncolored []infusion.ID // popped from the tail each main-loop iteration

	possibleColors    map[infusion.ID]map[int]struct{} // node -> still-possible colors
	adjacentUncolored map[infusion.ID]int              // node -> count of still-uncolored neighbors
	colorOf           map[infusion.ID]int               // node -> assigned color, once colored

	colorUsage    map[int][]infusion.ID // color -> nodes painted that color, in coloring order
	colorMaxCount map[int]int           // color -> estimated count of nodes that could still take it (selection heuristic only)
	colors        []int                 // colors introduced so far, in introduction order
}

func newProblem(g *graph.ConflictGraph, model *infusion.Model) *problem {
	nodes := g.Nodes()
	p := &problem{
		graph:             g,
		model:             model,
		uncolored:         append([]infusion.ID(nil), nodes...),
		possibleColors:    make(map[infusion.ID]map[int]struct{}, len(nodes)),
		adjacentUncolored: make(map[infusion.ID]int, len(nodes)),
		colorOf:           make(map[infusion.ID]int, len(nodes)),
		colorUsage:        make(map[int][]infusion.ID),
		colorMaxCount:     make(map[int]int),
	}
	for _, n := range nodes {
		p.possibleColors[n] = make(map[int]struct{})
		p.adjacentUncolored[n] = g.Degree(n)
	}
	return p
}

// Solve runs the solver on g, seeded by seedIVs (one set of infusion IDs
// per pre-configured IV, in order). On success it returns a Result mapping
// color to the infusions painted that color; colors 0..len(seedIVs)
// correspond to the seeded IVs in order, and any further colors are newly
// introduced IVs. On a seeding conflict it returns a ConflictError naming
// the offending IV and the two infusions that cannot share it.
func Solve(g *graph.ConflictGraph, model *infusion.Model, seedIVs [][]infusion.ID) (*Result, error) {
	for _, set := range seedIVs {
		for _, n := range set {
			if !g.Has(n) {
				return nil, UnknownSeedError{ID: n}
			}
		}
	}

	p := newProblem(g, model)

	if err := p.seed(seedIVs); err != nil {
		return nil, err
	}

	for len(p.uncolored) > 0 {
		p.sortUncolored()
		n := p.popPreferred()

		var color int
		if len(p.possibleColors[n]) == 0 {
			color = p.addNewColor()
		} else {
			color = p.selectColor(n)
		}

		if err := p.colorNode(n, color); err != nil {
			return nil, err
		}
	}

	return p.toResult(), nil
}

// seed paints each pre-configured IV in order, allocating one new color
// per set. Duplicate IDs within a set are deduplicated silently; empty
// sets are permitted and simply consume a color with no members.
func (p *problem) seed(seedIVs [][]infusion.ID) error {
	for _, set := range seedIVs {
		color := p.addNewColor()

		seenInSet := make(map[infusion.ID]struct{}, len(set))
		for _, n := range set {
			if _, dup := seenInSet[n]; dup {
				continue
			}
			seenInSet[n] = struct{}{}

			if err := p.colorNode(n, color); err != nil {
				return err
			}
		}

		p.removeFromUncolored(seenInSet)
	}

	p.checkAdjacentUncoloredInvariant()
	return nil
}

// checkAdjacentUncoloredInvariant verifies that, for every node still
// uncolored once seeding is done, adjacentUncolored holds exactly the count
// of that node's still-uncolored neighbors. colorNode decrements this count
// once per coloring event regardless of when the colored node itself leaves
// p.uncolored, so the invariant should hold unconditionally; a violation
// means the bookkeeping above has drifted and the node-selection heuristic
// can no longer be trusted to pick correctly.
func (p *problem) checkAdjacentUncoloredInvariant() {
	for _, n := range p.uncolored {
		want := 0
		for _, m := range p.graph.Neighbors(n) {
			if _, colored := p.colorOf[m]; !colored {
				want++
			}
		}
		if got := p.adjacentUncolored[n]; got != want {
			panic(fmt.Sprintf("solver: adjacentUncolored[%d] = %d, want %d after seeding", n, got, want))
		}
	}
}

func (p *problem) removeFromUncolored(remove map[infusion.ID]struct{}) {
	if len(remove) == 0 {
		return
	}
	kept := p.uncolored[:0]
	for _, n := range p.uncolored {
		if _, gone := remove[n]; !gone {
			kept = append(kept, n)
		}
	}
	p.uncolored = kept
}

// sortUncolored orders uncolored nodes by (-|possibleColors|, adjacentUncolored)
// ascending, with a final tiebreak on the node ID itself for full
// determinism (the source this was ported from left later ties to
// whatever order a hash set happened to iterate in; Go maps make that
// nondeterministic, so an explicit tiebreak is required to keep solve()
// reproducible across runs, per the reproducibility requirement on
// iteration order).
func (p *problem) sortUncolored() {
	sort.SliceStable(p.uncolored, func(i, j int) bool {
		a, b := p.uncolored[i], p.uncolored[j]
		ka := -len(p.possibleColors[a])
		kb := -len(p.possibleColors[b])
		if ka != kb {
			return ka < kb
		}
		aa, ab := p.adjacentUncolored[a], p.adjacentUncolored[b]
		if aa != ab {
			return aa < ab
		}
		return a < b
	})
}

// popPreferred removes and returns the tail of uncolored: the most
// constrained node (fewest possible colors), tiebroken by most uncolored
// neighbors and then by highest ID, as sortUncolored orders them.
func (p *problem) popPreferred() infusion.ID {
	last := len(p.uncolored) - 1
	n := p.uncolored[last]
	p.uncolored = p.uncolored[:last]
	return n
}

// selectColor picks, among the colors still possible for n, the one with
// the largest color potential (colorMaxCount), preferring to pack IVs
// densely and defer introducing new ones. Ties are broken by lowest color
// ID, i.e. in favor of whichever color was introduced first.
func (p *problem) selectColor(n infusion.ID) int {
	candidates := make([]int, 0, len(p.possibleColors[n]))
	for c := range p.possibleColors[n] {
		candidates = append(candidates, c)
	}
	sort.Ints(candidates)

	best := candidates[0]
	bestPotential := p.colorMaxCount[best]
	for _, c := range candidates[1:] {
		if potential := p.colorMaxCount[c]; potential > bestPotential {
			best, bestPotential = c, potential
		}
	}
	return best
}

// addNewColor introduces a fresh color, possible for every currently
// uncolored node (a brand-new color carries no adjacency constraints yet).
func (p *problem) addNewColor() int {
	c := len(p.colors)
	p.colors = append(p.colors, c)
	p.colorUsage[c] = nil
	p.colorMaxCount[c] = len(p.uncolored)
	for _, n := range p.uncolored {
		p.possibleColors[n][c] = struct{}{}
	}
	return c
}

// colorNode is the single mutation primitive: it paints n with color c,
// validates that no neighbor already holds c, and updates the derived
// bookkeeping (colorMaxCount, possibleColors, adjacentUncolored). The
// colorMaxCount updates are not an exact recount: entries still listed for
// already-colored neighbors are decremented too, and a color introduced in
// the main loop starts without counting the node it is introduced for, so
// the value is only used as the selectColor tiebreak.
func (p *problem) colorNode(n infusion.ID, c int) error {
	neighbors := p.graph.Neighbors(n)

	for _, m := range neighbors {
		if mc, colored := p.colorOf[m]; colored && mc == c {
			return ConflictError{IV: c, NameA: p.model.Name(n), NameB: p.model.Name(m)}
		}
	}

	p.colorUsage[c] = append(p.colorUsage[c], n)
	p.colorOf[n] = c

	for otherColor := range p.possibleColors[n] {
		if otherColor != c {
			p.colorMaxCount[otherColor]--
		}
	}

	for _, m := range neighbors {
		if _, possible := p.possibleColors[m][c]; possible {
			delete(p.possibleColors[m], c)
			p.colorMaxCount[c]--
		}
	}

	for _, m := range neighbors {
		p.adjacentUncolored[m]--
	}

	return nil
}

func (p *problem) toResult() *Result {
	usage := make(map[int][]infusion.ID, len(p.colorUsage))
	for c, ids := range p.colorUsage {
		usage[c] = append([]infusion.ID(nil), ids...)
	}
	return &Result{colorUsage: usage}
}
