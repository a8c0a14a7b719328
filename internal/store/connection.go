package store

import (
	"database/sql"
	"fmt"

	"github.com/dlmiddlecote/sqlstats"
	gorp "github.com/go-gorp/gorp/v3"
	_ "github.com/lib/pq" // registers the "postgres" driver
	"github.com/prometheus/client_golang/prometheus"
)

// DSN is the assembled PostgreSQL connection string. internal/ivconfig
// builds this from the config file's `db` section.
type DSN string

// Connect opens the database connection and wraps it in a gorp.DbMap,
// mirroring internal/db/connection.go's Init/InitORM split: a single
// *sql.DB is shared across the process, with its own bounded connection
// pool and a registered Prometheus stats collector.
func Connect(dsn DSN) (*gorp.DbMap, error) {
	dbConn, err := sql.Open("postgres", string(dsn))
	if err != nil {
		return nil, ErrUnavailable{Cause: err}
	}
	if err := dbConn.Ping(); err != nil {
		return nil, ErrUnavailable{Cause: err}
	}

	if err := applyMigrations(dbConn); err != nil {
		return nil, fmt.Errorf("could not bring schema up to date: %w", err)
	}

	// this process only ever does short, scoped reads per request; a small
	// pool is enough and keeps us from starving other consumers of the DB
	dbConn.SetMaxOpenConns(16)

	dbMap := &gorp.DbMap{Db: dbConn, Dialect: gorp.PostgresDialect{}}
	dbMap.AddTableWithName(infusionTypeRow{}, "infusion_type").SetKeys(false, "ID")
	dbMap.AddTableWithName(infusionRow{}, "infusion").SetKeys(false, "ID")
	dbMap.AddTableWithName(compatibilityRow{}, "infusion_compatibility").SetKeys(false, "InfusionA", "InfusionB")

	prometheus.MustRegister(sqlstats.NewStatsCollector("ivcompat", dbConn))

	return dbMap, nil
}
