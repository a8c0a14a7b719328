package solver

import (
	"testing"

	"github.com/ivcompat/ivcompat/internal/graph"
	"github.com/ivcompat/ivcompat/internal/infusion"
)

func buildGraph(t *testing.T, rows []infusion.Row, pairs []infusion.PairRow, universe []infusion.ID) (*graph.ConflictGraph, *infusion.Model) {
	t.Helper()
	model, err := infusion.Build(rows, pairs)
	if err != nil {
		t.Fatalf("infusion.Build: %v", err)
	}
	return graph.Build(model, universe), model
}

// assertProperColoring checks the invariant that no two adjacent nodes
// share a color in the result.
func assertProperColoring(t *testing.T, g *graph.ConflictGraph, r *Result) {
	t.Helper()
	colorOf := make(map[infusion.ID]int)
	for _, c := range r.Colors() {
		for _, id := range r.Infusions(c) {
			colorOf[id] = c
		}
	}
	for _, n := range g.Nodes() {
		for _, m := range g.Neighbors(n) {
			if colorOf[n] == colorOf[m] {
				t.Errorf("improper coloring: adjacent nodes %d and %d both have color %d", n, m, colorOf[n])
			}
		}
	}
}

func TestTrivialCompatiblePairSharesOneIV(t *testing.T) {
	rows := []infusion.Row{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	pairs := []infusion.PairRow{{A: 1, B: 2, Data: infusion.Data{CompatibleCount: 1}}}
	g, model := buildGraph(t, rows, pairs, []infusion.ID{1, 2})

	result, err := Solve(g, model, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	colors := result.Colors()
	if len(colors) != 1 {
		t.Fatalf("expected 1 color, got %d: %v", len(colors), colors)
	}
	if got := result.Infusions(colors[0]); len(got) != 2 {
		t.Errorf("expected both infusions in the single IV, got %v", got)
	}
	assertProperColoring(t, g, result)
}

func TestIncompatiblePairForcesSplit(t *testing.T) {
	rows := []infusion.Row{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	pairs := []infusion.PairRow{{A: 1, B: 2, Data: infusion.Data{IncompatibleCount: 1}}}
	g, model := buildGraph(t, rows, pairs, []infusion.ID{1, 2})

	result, err := Solve(g, model, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Colors()) != 2 {
		t.Fatalf("expected 2 colors, got %d", len(result.Colors()))
	}
	assertProperColoring(t, g, result)
}

func TestSeededConflictReportsBothNames(t *testing.T) {
	rows := []infusion.Row{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	pairs := []infusion.PairRow{{A: 1, B: 2, Data: infusion.Data{IncompatibleCount: 1}}}
	g, model := buildGraph(t, rows, pairs, []infusion.ID{1, 2})

	_, err := Solve(g, model, [][]infusion.ID{{1, 2}})
	if err == nil {
		t.Fatal("expected ConflictError, got nil")
	}
	ce, ok := err.(ConflictError)
	if !ok {
		t.Fatalf("expected ConflictError, got %T: %v", err, err)
	}
	if ce.IV != 0 {
		t.Errorf("IV = %d, want 0", ce.IV)
	}
	names := map[string]bool{ce.NameA: true, ce.NameB: true}
	if !names["A"] || !names["B"] {
		t.Errorf("conflict names = (%q, %q), want A and B", ce.NameA, ce.NameB)
	}
}

func TestSeedPlusExtrasUseExactlyTwoIVs(t *testing.T) {
	rows := []infusion.Row{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"}}
	pairs := []infusion.PairRow{
		{A: 1, B: 3, Data: infusion.Data{IncompatibleCount: 1}},
		{A: 2, B: 4, Data: infusion.Data{IncompatibleCount: 1}},
		{A: 1, B: 2, Data: infusion.Data{CompatibleCount: 1}},
		{A: 1, B: 4, Data: infusion.Data{CompatibleCount: 1}},
		{A: 2, B: 3, Data: infusion.Data{CompatibleCount: 1}},
		{A: 3, B: 4, Data: infusion.Data{CompatibleCount: 1}},
	}
	g, model := buildGraph(t, rows, pairs, []infusion.ID{1, 2, 3, 4})

	result, err := Solve(g, model, [][]infusion.ID{{1}, {2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Colors()) != 2 {
		t.Fatalf("expected exactly 2 IVs used, got %d: %v", len(result.Colors()), result.Colors())
	}
	assertProperColoring(t, g, result)

	// seed preservation: 1 must be in color 0, 2 must be in color 1.
	contains := func(ids []infusion.ID, id infusion.ID) bool {
		for _, x := range ids {
			if x == id {
				return true
			}
		}
		return false
	}
	if !contains(result.Infusions(0), 1) {
		t.Error("seed infusion 1 is not in color 0")
	}
	if !contains(result.Infusions(1), 2) {
		t.Error("seed infusion 2 is not in color 1")
	}
}

func TestTriangleNeedsThreeIVs(t *testing.T) {
	rows := []infusion.Row{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}}
	pairs := []infusion.PairRow{
		{A: 1, B: 2, Data: infusion.Data{IncompatibleCount: 1}},
		{A: 2, B: 3, Data: infusion.Data{IncompatibleCount: 1}},
		{A: 1, B: 3, Data: infusion.Data{IncompatibleCount: 1}},
	}
	g, model := buildGraph(t, rows, pairs, []infusion.ID{1, 2, 3})

	result, err := Solve(g, model, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Colors()) != 3 {
		t.Fatalf("expected 3 colors for a triangle, got %d", len(result.Colors()))
	}
	for _, c := range result.Colors() {
		if len(result.Infusions(c)) != 1 {
			t.Errorf("color %d has %d infusions, want 1", c, len(result.Infusions(c)))
		}
	}
	assertProperColoring(t, g, result)
}

func TestMissingPairDefaultsToIncompatible(t *testing.T) {
	rows := []infusion.Row{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	g, model := buildGraph(t, rows, nil, []infusion.ID{1, 2})

	result, err := Solve(g, model, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Colors()) != 2 {
		t.Fatalf("expected 2 colors (conservative default), got %d", len(result.Colors()))
	}
	assertProperColoring(t, g, result)
}

func TestEmptyGraphSolvesToEmptyResult(t *testing.T) {
	g, model := buildGraph(t, nil, nil, nil)

	result, err := Solve(g, model, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Colors()) != 0 {
		t.Errorf("expected no colors for an empty graph, got %v", result.Colors())
	}
}

func TestSeededOnlyNoAdditionalNodes(t *testing.T) {
	rows := []infusion.Row{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	pairs := []infusion.PairRow{{A: 1, B: 2, Data: infusion.Data{CompatibleCount: 1}}}
	g, model := buildGraph(t, rows, pairs, []infusion.ID{1, 2})

	result, err := Solve(g, model, [][]infusion.ID{{1}, {2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Colors()) != 2 {
		t.Fatalf("expected exactly 2 IVs (one per seed set), got %d", len(result.Colors()))
	}
}

func TestDuplicateIDsInSeedSetAreDeduplicated(t *testing.T) {
	rows := []infusion.Row{{ID: 1, Name: "A"}}
	g, model := buildGraph(t, rows, nil, []infusion.ID{1})

	result, err := Solve(g, model, [][]infusion.ID{{1, 1, 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Infusions(0); len(got) != 1 {
		t.Errorf("expected 1 infusion after deduplication, got %v", got)
	}
}

func TestSolveIsDeterministicAcrossRuns(t *testing.T) {
	rows := []infusion.Row{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"}, {ID: 5, Name: "E"}}
	pairs := []infusion.PairRow{
		{A: 1, B: 2, Data: infusion.Data{IncompatibleCount: 1}},
		{A: 2, B: 3, Data: infusion.Data{IncompatibleCount: 1}},
		{A: 3, B: 4, Data: infusion.Data{IncompatibleCount: 1}},
		{A: 4, B: 5, Data: infusion.Data{IncompatibleCount: 1}},
		{A: 5, B: 1, Data: infusion.Data{IncompatibleCount: 1}},
	}
	universe := []infusion.ID{1, 2, 3, 4, 5}

	var first []int
	for i := 0; i < 5; i++ {
		g, model := buildGraph(t, rows, pairs, universe)
		result, err := Solve(g, model, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var sizes []int
		for _, c := range result.Colors() {
			sizes = append(sizes, len(result.Infusions(c)))
		}
		if first == nil {
			first = sizes
			continue
		}
		if len(sizes) != len(first) {
			t.Fatalf("nondeterministic color count across runs: %v vs %v", sizes, first)
		}
		for i := range sizes {
			if sizes[i] != first[i] {
				t.Fatalf("nondeterministic coloring shape across runs: %v vs %v", sizes, first)
			}
		}
	}
}

func TestSeedingPreservesAdjacentUncoloredInvariant(t *testing.T) {
	rows := []infusion.Row{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"}}
	pairs := []infusion.PairRow{
		{A: 1, B: 3, Data: infusion.Data{IncompatibleCount: 1}},
		{A: 2, B: 4, Data: infusion.Data{IncompatibleCount: 1}},
		{A: 3, B: 4, Data: infusion.Data{IncompatibleCount: 1}},
	}
	g, model := buildGraph(t, rows, pairs, []infusion.ID{1, 2, 3, 4})

	p := newProblem(g, model)
	if err := p.seed([][]infusion.ID{{1}, {2}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// checkAdjacentUncoloredInvariant panics on mismatch, so reaching this
	// point already proves the invariant holds; assert the expected counts
	// directly too so a future regression shows up as a failed assertion
	// rather than only a panic.
	for _, n := range p.uncolored {
		want := 0
		for _, m := range g.Neighbors(n) {
			if _, colored := p.colorOf[m]; !colored {
				want++
			}
		}
		if got := p.adjacentUncolored[n]; got != want {
			t.Errorf("adjacentUncolored[%d] = %d, want %d", n, got, want)
		}
	}
}

func TestSolveRejectsSeedIDOutsideGraph(t *testing.T) {
	rows := []infusion.Row{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	g, model := buildGraph(t, rows, nil, []infusion.ID{1})

	_, err := Solve(g, model, [][]infusion.ID{{1, 2}})
	if err == nil {
		t.Fatal("expected an error for a seed ID outside the graph's universe")
	}
	use, ok := err.(UnknownSeedError)
	if !ok {
		t.Fatalf("expected UnknownSeedError, got %T: %v", err, err)
	}
	if use.ID != 2 {
		t.Errorf("UnknownSeedError.ID = %d, want 2", use.ID)
	}
}

func TestRenderOrdersByColorAndTranslatesNames(t *testing.T) {
	rows := []infusion.Row{{ID: 1, Name: "Alpha"}, {ID: 2, Name: "Beta"}}
	pairs := []infusion.PairRow{{A: 1, B: 2, Data: infusion.Data{IncompatibleCount: 1}}}
	g, model := buildGraph(t, rows, pairs, []infusion.ID{1, 2})

	result, err := Solve(g, model, [][]infusion.ID{{1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rendered := Render(result, model)
	if len(rendered) != 2 {
		t.Fatalf("expected 2 IV assignments, got %d", len(rendered))
	}
	if rendered[0].Line != 1 || rendered[1].Line != 2 {
		t.Errorf("lines = %d, %d; want 1, 2", rendered[0].Line, rendered[1].Line)
	}
	if rendered[0].Names[0] != "Alpha" {
		t.Errorf("IV 1 contains %v, want [Alpha]", rendered[0].Names)
	}
}
