package importer

import (
	"context"
	"fmt"

	gorp "github.com/go-gorp/gorp/v3"

	"github.com/ivcompat/ivcompat/internal/infusion"
)

// Import loads entries into the infusion and infusion_compatibility
// tables. It is safe to run repeatedly against the same file: every
// insert is "ON CONFLICT DO NOTHING", the Postgres equivalent of the
// original importer's "INSERT IGNORE", so re-running against an
// unchanged catalogue is a no-op.
func Import(ctx context.Context, db *gorp.DbMap, entries []CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := db.WithContext(ctx).Begin()
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, e := range entries {
		_, err := tx.Exec(
			"INSERT INTO infusion (name, type) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING",
			e.Name, int64(e.Type))
		if err != nil {
			return fmt.Errorf("could not insert infusion %q: %w", e.Name, err)
		}
	}

	nameToID, err := loadNameToID(tx, entries)
	if err != nil {
		return err
	}

	for _, e := range entries {
		id, ok := nameToID[e.Name]
		if !ok {
			return fmt.Errorf("infusion %q was not found after insert", e.Name)
		}
		for otherName, data := range e.Compat {
			otherID, ok := nameToID[otherName]
			if !ok {
				return fmt.Errorf("infusion %q references unknown infusion %q", e.Name, otherName)
			}
			a, b := id, otherID
			if a > b {
				a, b = b, a
			}
			_, err := tx.Exec(
				`INSERT INTO infusion_compatibility
					(infusion_a, infusion_b, compatible_results, incompatible_results, mixed_results)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (infusion_a, infusion_b) DO NOTHING`,
				int64(a), int64(b), data.CompatibleCount, data.IncompatibleCount, data.MixedCount)
			if err != nil {
				return fmt.Errorf("could not insert compatibility between %q and %q: %w", e.Name, otherName, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	committed = true
	return nil
}

func loadNameToID(tx *gorp.Transaction, entries []CatalogEntry) (map[string]infusion.ID, error) {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	placeholders := make([]any, len(names))
	query := "SELECT id, name FROM infusion WHERE name IN ("
	for i, n := range names {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("$%d", i+1)
		placeholders[i] = n
	}
	query += ")"

	type row struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
	}
	var rows []row
	if _, err := tx.Select(&rows, query, placeholders...); err != nil {
		return nil, fmt.Errorf("could not resolve infusion IDs: %w", err)
	}

	out := make(map[string]infusion.ID, len(rows))
	for _, r := range rows {
		out[r.Name] = infusion.ID(r.ID)
	}
	return out, nil
}
