package sheet

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// SQLiteSheet persists the table in a local SQLite database. Each row is a
// JSON-encoded array of cells keyed by position, so the cell model stays
// text-only like the remote store it stands in for.
type SQLiteSheet struct {
	DB *sql.DB
}

// NewSQLiteSheet wraps an open database. The sheet_rows table must exist
// (db.EnsureSchema).
func NewSQLiteSheet(db *sql.DB) *SQLiteSheet {
	return &SQLiteSheet{DB: db}
}

// ReadAll returns all rows in position order.
func (s *SQLiteSheet) ReadAll(ctx context.Context) ([][]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT cells FROM sheet_rows ORDER BY pos`,
	)
	if err != nil {
		return nil, fmt.Errorf("reading sheet rows: %w", err)
	}
	defer rows.Close()

	var result [][]string
	for rows.Next() {
		var encoded string
		if err := rows.Scan(&encoded); err != nil {
			return nil, fmt.Errorf("scanning sheet row: %w", err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(encoded), &cells); err != nil {
			return nil, fmt.Errorf("decoding sheet row: %w", err)
		}
		result = append(result, cells)
	}
	return result, rows.Err()
}

// ReplaceAll swaps the full table content inside one transaction.
func (s *SQLiteSheet) ReplaceAll(ctx context.Context, newRows [][]string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting sheet replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sheet_rows`); err != nil {
		return fmt.Errorf("clearing sheet: %w", err)
	}

	for i, cells := range newRows {
		encoded, err := json.Marshal(cells)
		if err != nil {
			return fmt.Errorf("encoding sheet row %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sheet_rows (pos, cells) VALUES (?, ?)`,
			i, string(encoded),
		); err != nil {
			return fmt.Errorf("writing sheet row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing sheet replace: %w", err)
	}
	return nil
}
