package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. sheet_rows backs the local tabular
// store (one JSON-encoded array of text cells per row); images holds
// locally hosted photos.
const schema = `
CREATE TABLE IF NOT EXISTS sheet_rows (
    pos   INTEGER PRIMARY KEY,
    cells TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS images (
    id         INTEGER PRIMARY KEY,
    data       BLOB NOT NULL,
    mime       TEXT NOT NULL,
    filename   TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// EnsureSchema creates all tables if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
