package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to an in-memory database is a separate database.
	if isMemory(dataSourceName) {
		db.SetMaxOpenConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

func isMemory(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory") || strings.HasPrefix(dsn, "file::memory:")
}

// RunMigrations creates the schema if it does not exist yet
func (db *DB) RunMigrations() error {
	migration := `
-- Projects table
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    assessment_goal TEXT NOT NULL DEFAULT '',
    geographic_scope TEXT NOT NULL DEFAULT '',
    time_horizon TEXT NOT NULL DEFAULT '',
    functional_unit TEXT NOT NULL,
    reference_year TEXT NOT NULL DEFAULT '',
    primary_objective TEXT NOT NULL DEFAULT '',
    target_recycled REAL CHECK(target_recycled IS NULL OR (target_recycled >= 0 AND target_recycled <= 100)),
    carbon_budget REAL CHECK(carbon_budget IS NULL OR carbon_budget >= 0),
    improvement_timeframe TEXT NOT NULL DEFAULT '',
    investment_willingness TEXT NOT NULL DEFAULT '',
    data_source TEXT NOT NULL DEFAULT '',
    comparison_benchmark TEXT NOT NULL DEFAULT '',
    sensitivity_vars TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL CHECK(status IN ('draft', 'in-progress', 'completed')),
    created TEXT NOT NULL,
    updated TEXT NOT NULL
);

-- Metal entries, ordered by position within a project
CREATE TABLE IF NOT EXISTS project_metals (
    project_id TEXT NOT NULL,
    id TEXT NOT NULL,
    position INTEGER NOT NULL,
    type TEXT NOT NULL DEFAULT '',
    quantity REAL CHECK(quantity IS NULL OR quantity >= 0),
    lifecycle_stages TEXT NOT NULL DEFAULT '[]',
    preferred_treatment TEXT NOT NULL DEFAULT '',
    has_transport INTEGER NOT NULL DEFAULT 0,
    transport_stage TEXT NOT NULL DEFAULT '',
    transport_mode TEXT NOT NULL DEFAULT '',
    distance_km REAL CHECK(distance_km IS NULL OR distance_km >= 0),
    has_use INTEGER NOT NULL DEFAULT 0,
    lifetime_years REAL CHECK(lifetime_years IS NULL OR lifetime_years >= 0),
    has_eol INTEGER NOT NULL DEFAULT 0,
    collection_rate REAL CHECK(collection_rate IS NULL OR (collection_rate >= 0 AND collection_rate <= 100)),
    PRIMARY KEY (project_id, id),
    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_project_metals_position ON project_metals(project_id, position);

-- Activity log
CREATE TABLE IF NOT EXISTS activity_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id TEXT NOT NULL DEFAULT '',
    form_id TEXT,
    activity_type TEXT NOT NULL,
    summary TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_project_activity ON activity_log(project_id);
CREATE INDEX IF NOT EXISTS idx_form_activity ON activity_log(form_id);
CREATE INDEX IF NOT EXISTS idx_created_at ON activity_log(created_at);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
