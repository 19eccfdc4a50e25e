package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// Balance observations in gil_records use retainer_id 0 to mean "the
// character itself"; real retainer ids from the game are never 0 (0 marks an
// empty slot in the host's retainer array and is filtered out before
// persistence).
const schema = `
CREATE TABLE IF NOT EXISTS characters (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL,
    world_id     INTEGER NOT NULL,
    gil          INTEGER NOT NULL DEFAULT 0,
    last_visited TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_characters_name_world
    ON characters(name, world_id);

CREATE TABLE IF NOT EXISTS retainers (
    retainer_id  INTEGER PRIMARY KEY,
    name         TEXT NOT NULL,
    gil          INTEGER NOT NULL DEFAULT 0,
    owner_id     TEXT NOT NULL REFERENCES characters(id),
    last_visited TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_retainers_owner
    ON retainers(owner_id);

CREATE TABLE IF NOT EXISTS gil_records (
    id           INTEGER PRIMARY KEY,
    character_id TEXT NOT NULL REFERENCES characters(id),
    retainer_id  INTEGER NOT NULL DEFAULT 0,
    gil          INTEGER NOT NULL,
    recorded_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_gil_records_character
    ON gil_records(character_id, retainer_id);

CREATE TABLE IF NOT EXISTS first_daily_records (
    id           INTEGER PRIMARY KEY,
    character_id TEXT NOT NULL REFERENCES characters(id),
    retainer_id  INTEGER NOT NULL DEFAULT 0,
    gil          INTEGER NOT NULL,
    recorded_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS daily_summary (
    id           INTEGER PRIMARY KEY,
    character_id TEXT NOT NULL,
    retainer_id  INTEGER NOT NULL DEFAULT 0,
    total_gil    INTEGER NOT NULL,
    day          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS gil_records_archive (
    id           INTEGER PRIMARY KEY,
    character_id TEXT NOT NULL,
    retainer_id  INTEGER NOT NULL DEFAULT 0,
    gil          INTEGER NOT NULL,
    recorded_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
