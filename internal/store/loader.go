package store

import (
	"context"

	gorp "github.com/go-gorp/gorp/v3"

	"github.com/ivcompat/ivcompat/internal/infusion"
)

// Loader is the store adapter interface the solver pipeline depends on.
// An implementation must return a model covering exactly the requested
// IDs, plus their pairwise compatibility records restricted to
// ids x ids.
type Loader interface {
	Load(ctx context.Context, ids []infusion.ID) (*infusion.Model, error)
	// ListAll returns every infusion in the catalogue, for the "GET /"
	// listing. Compatibility data is not populated.
	ListAll(ctx context.Context) ([]infusion.Row, error)
}

// PostgresLoader implements Loader against a *gorp.DbMap, the connection
// pool opened by Connect.
type PostgresLoader struct {
	DB *gorp.DbMap
}

var _ Loader = PostgresLoader{}

func toInt64s(ids []infusion.ID) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

// Load fetches the infusion and pairwise-compatibility rows scoped to ids
// and assembles them into an infusion.Model.
func (l PostgresLoader) Load(ctx context.Context, ids []infusion.ID) (*infusion.Model, error) {
	idClause, n := buildInClause("id", len(ids), 0)
	args := toInt64s(ids)

	var infusionRows []infusionRow
	_, err := l.DB.WithContext(ctx).Select(&infusionRows,
		"SELECT id, name, type FROM infusion WHERE "+idClause+" ORDER BY id", args...)
	if err != nil {
		return nil, ErrUnavailable{Cause: err}
	}
	if n > 0 && len(infusionRows) != len(dedupe(ids)) {
		return nil, findMissingID(ids, infusionRows)
	}

	aClause, _ := buildInClause("infusion_a", len(ids), 0)
	bClause, _ := buildInClause("infusion_b", len(ids), len(args))
	pairArgs := append(append([]any{}, args...), args...)

	var pairRows []compatibilityRow
	_, err = l.DB.WithContext(ctx).Select(&pairRows,
		"SELECT infusion_a, infusion_b, compatible_results, incompatible_results, mixed_results "+
			"FROM infusion_compatibility WHERE ("+aClause+" AND "+bClause+")", pairArgs...)
	if err != nil {
		return nil, ErrUnavailable{Cause: err}
	}

	rows := make([]infusion.Row, len(infusionRows))
	for i, r := range infusionRows {
		rows[i] = infusion.Row{ID: infusion.ID(r.ID), Name: r.Name, Type: infusion.Type(r.Type)}
	}
	pairs := make([]infusion.PairRow, len(pairRows))
	for i, r := range pairRows {
		pairs[i] = infusion.PairRow{
			A: infusion.ID(r.InfusionA),
			B: infusion.ID(r.InfusionB),
			Data: infusion.Data{
				CompatibleCount:   uint32(r.CompatibleResults),
				IncompatibleCount: uint32(r.IncompatibleResults),
				MixedCount:        uint32(r.MixedResults),
			},
		}
	}

	model, err := infusion.Build(rows, pairs)
	if err != nil {
		return nil, err
	}
	return model, nil
}

// ListAll fetches every infusion in the catalogue, ordered by ID.
func (l PostgresLoader) ListAll(ctx context.Context) ([]infusion.Row, error) {
	var rows []infusionRow
	_, err := l.DB.WithContext(ctx).Select(&rows, "SELECT id, name, type FROM infusion ORDER BY id")
	if err != nil {
		return nil, ErrUnavailable{Cause: err}
	}
	out := make([]infusion.Row, len(rows))
	for i, r := range rows {
		out[i] = infusion.Row{ID: infusion.ID(r.ID), Name: r.Name, Type: infusion.Type(r.Type)}
	}
	return out, nil
}

func dedupe(ids []infusion.ID) []infusion.ID {
	seen := make(map[infusion.ID]struct{}, len(ids))
	out := make([]infusion.ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func findMissingID(requested []infusion.ID, got []infusionRow) error {
	present := make(map[infusion.ID]struct{}, len(got))
	for _, r := range got {
		present[infusion.ID(r.ID)] = struct{}{}
	}
	for _, id := range dedupe(requested) {
		if _, ok := present[id]; !ok {
			return ErrUnknownInfusion{ID: int64(id)}
		}
	}
	return nil
}
