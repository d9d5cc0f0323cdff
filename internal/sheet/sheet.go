// Package sheet is the raw transport to the tabular store that persists
// the warranty collection. The store understands nothing but rows of text
// cells: every read returns the whole table and every write replaces it.
// There is no partial update, so concurrent writers race and the last
// ReplaceAll wins; callers own that trade-off.
package sheet

import "context"

// Sheet reads and rewrites the whole table of text cells.
type Sheet interface {
	// ReadAll returns every row in stored order, header included if one
	// was written. An empty table yields an empty slice, not an error.
	ReadAll(ctx context.Context) ([][]string, error)

	// ReplaceAll atomically replaces all content with the given rows.
	// Passing no rows clears the table.
	ReplaceAll(ctx context.Context, rows [][]string) error
}
