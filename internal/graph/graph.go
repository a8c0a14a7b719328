// Package graph builds the undirected incompatibility graph that the
// solver colors. An edge between two infusion IDs means they must not
// share an IV line.
package graph

import (
	"sort"

	"github.com/ivcompat/ivcompat/internal/infusion"
)

// ConflictGraph is the "must-not-share-IV" graph over a fixed universe of
// infusion IDs. It has no self-loops and no parallel edges.
type ConflictGraph struct {
	universe  []infusion.ID // sorted ascending, defines Nodes() order
	neighbors map[infusion.ID][]infusion.ID
}

// Build constructs a ConflictGraph from a model, restricted to the given
// universe. IDs absent from the universe are treated as nonexistent even
// if the model knows them.
func Build(model *infusion.Model, universe []infusion.ID) *ConflictGraph {
	sorted := append([]infusion.ID(nil), universe...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	sorted = dedupeSorted(sorted)

	g := &ConflictGraph{
		universe:  sorted,
		neighbors: make(map[infusion.ID][]infusion.ID, len(sorted)),
	}
	for _, id := range sorted {
		g.neighbors[id] = model.IncompatibleIDs(id, sorted)
	}
	return g
}

func dedupeSorted(ids []infusion.ID) []infusion.ID {
	out := ids[:0]
	var last infusion.ID
	for i, id := range ids {
		if i == 0 || id != last {
			out = append(out, id)
			last = id
		}
	}
	return out
}

// Nodes returns every node in the graph, sorted ascending.
func (g *ConflictGraph) Nodes() []infusion.ID {
	return g.universe
}

// Neighbors returns the incompatible partners of id, sorted ascending.
func (g *ConflictGraph) Neighbors(id infusion.ID) []infusion.ID {
	return g.neighbors[id]
}

// Degree returns the number of incompatible partners of id.
func (g *ConflictGraph) Degree(id infusion.ID) int {
	return len(g.neighbors[id])
}

// Has reports whether id is a node of this graph.
func (g *ConflictGraph) Has(id infusion.ID) bool {
	_, ok := g.neighbors[id]
	return ok
}
