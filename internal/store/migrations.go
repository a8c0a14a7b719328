package store

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// sqlMigrations holds the persistence schema, following the rollup-migration
// style of internal/db/migrations.go: each migration is a plain up/down SQL
// string, applied in lexical filename order. applyMigrations is this map's
// runner, in the spirit of easypg.Connect applying its own migrations map at
// connect time rather than requiring a separate step before the service can
// serve requests.
var sqlMigrations = map[string]string{
	"001_initial.up.sql": `
		CREATE TABLE infusion_type (
			id    INT   NOT NULL PRIMARY KEY,
			type  TEXT  NOT NULL
		);

		INSERT INTO infusion_type (id, type) VALUES (1, 'Drug'), (2, 'Solution');

		CREATE TABLE infusion (
			id    BIGSERIAL  NOT NULL PRIMARY KEY,
			name  TEXT       NOT NULL UNIQUE,
			type  INT        NOT NULL REFERENCES infusion_type (id)
		);

		CREATE TABLE infusion_compatibility (
			infusion_a            BIGINT  NOT NULL REFERENCES infusion (id),
			infusion_b            BIGINT  NOT NULL REFERENCES infusion (id),
			compatible_results    INT     NOT NULL DEFAULT 0,
			incompatible_results  INT     NOT NULL DEFAULT 0,
			mixed_results         INT     NOT NULL DEFAULT 0,
			PRIMARY KEY (infusion_a, infusion_b),
			CHECK (infusion_a < infusion_b)
		);
	`,
	"001_initial.down.sql": `
		DROP TABLE infusion_compatibility;
		DROP TABLE infusion;
		DROP TABLE infusion_type;
	`,
}

// applyMigrations runs every "*.up.sql" entry of sqlMigrations that has not
// already been applied, in lexical filename order, recording each one in a
// schema_migrations table so repeated calls (e.g. on every process start)
// are no-ops once the schema is up to date.
func applyMigrations(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (name TEXT NOT NULL PRIMARY KEY)`)
	if err != nil {
		return fmt.Errorf("could not create schema_migrations table: %w", err)
	}

	var names []string
	for name := range sqlMigrations {
		if strings.HasSuffix(name, ".up.sql") {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var alreadyApplied bool
		row := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name)
		if err := row.Scan(&alreadyApplied); err != nil {
			return fmt.Errorf("could not check migration state of %s: %w", name, err)
		}
		if alreadyApplied {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("could not start transaction for migration %s: %w", name, err)
		}
		if _, err := tx.Exec(sqlMigrations[name]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("could not apply migration %s: %w", name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("could not record migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("could not commit migration %s: %w", name, err)
		}
	}
	return nil
}
