package infusion

import "sort"

// Row is one infusion catalogue entry as read from storage or a request.
type Row struct {
	ID   ID
	Name string
	Type Type
}

// PairRow is one unordered compatibility record as read from storage.
// Canonical ordering (A < B) is not required by Build, but is enforced by
// the persistence layer (see internal/store).
type PairRow struct {
	A, B ID
	Data Data
}

// Model is the in-memory catalogue: per-infusion identity and display data,
// plus the pairwise compatibility map. It is read-only after Build returns
// and may be shared freely across goroutines.
type Model struct {
	byID  map[ID]*Infusion
	order []ID // insertion order, for deterministic iteration
}

// Build assembles a Model from infusion rows and pair rows. It fails with
// MalformedCatalogError if a pair references an ID not present among the
// infusion rows, or if the same unordered pair appears twice with
// conflicting counts.
func Build(infusions []Row, pairs []PairRow) (*Model, error) {
	m := &Model{byID: make(map[ID]*Infusion, len(infusions)), order: make([]ID, 0, len(infusions))}
	for _, row := range infusions {
		if _, exists := m.byID[row.ID]; exists {
			continue
		}
		inf := newInfusion(row.ID, row.Name, row.Type)
		m.byID[row.ID] = &inf
		m.order = append(m.order, row.ID)
	}

	seen := make(map[[2]ID]Data, len(pairs))
	for _, pr := range pairs {
		a, b := pr.A, pr.B
		if a == b {
			continue // self-pairs are never stored
		}
		infA, okA := m.byID[a]
		infB, okB := m.byID[b]
		if !okA || !okB {
			return nil, MalformedCatalogError{Reason: "compatibility pair references unknown infusion ID"}
		}

		key := pairKey(a, b)
		if prior, dup := seen[key]; dup && prior != pr.Data {
			return nil, MalformedCatalogError{Reason: "compatibility pair given twice with conflicting counts"}
		}
		seen[key] = pr.Data

		data := pr.Data
		shared := &data
		infA.compatibility[b] = shared
		infB.compatibility[a] = shared
	}

	return m, nil
}

func pairKey(a, b ID) [2]ID {
	if a < b {
		return [2]ID{a, b}
	}
	return [2]ID{b, a}
}

// Get returns the infusion for id, if present.
func (m *Model) Get(id ID) (Infusion, bool) {
	inf, ok := m.byID[id]
	if !ok {
		return Infusion{}, false
	}
	return *inf, true
}

// Name returns the display name for id, or "?" if the model does not know
// it (used defensively in error-message construction; should not occur for
// a well-formed request).
func (m *Model) Name(id ID) string {
	if inf, ok := m.byID[id]; ok {
		return inf.Name
	}
	return "?"
}

// verdict returns the derived verdict for the unordered pair (a,b). Absence
// of a record is the conservative default: Incompatible.
func (m *Model) verdict(a, b ID) Verdict {
	infA, ok := m.byID[a]
	if !ok {
		return Incompatible
	}
	data, ok := infA.compatibility[b]
	if !ok {
		return Incompatible
	}
	return data.Verdict()
}

// CompatibleIDs returns the IDs of every infusion known to the model whose
// verdict with id is Compatible, sorted ascending for determinism.
func (m *Model) CompatibleIDs(id ID) []ID {
	inf, ok := m.byID[id]
	if !ok {
		return nil
	}
	var out []ID
	for other, data := range inf.compatibility {
		if data.Verdict() == Compatible {
			out = append(out, other)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IncompatibleIDs returns, for a given universe of candidate partners, the
// IDs j in universe (j != id) whose verdict with id is Incompatible
// (including the case where no record exists for the pair at all). The
// result is sorted ascending for determinism.
func (m *Model) IncompatibleIDs(id ID, universe []ID) []ID {
	out := make([]ID, 0, len(universe))
	for _, j := range universe {
		if j == id {
			continue
		}
		if m.verdict(id, j) == Incompatible {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
