package imagehost

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// LocalUploader keeps photo bytes in the local SQLite database and serves
// them from the app itself. Used when no external image host is
// configured; the returned URLs point back at /images/{id}.
type LocalUploader struct {
	DB      *sql.DB
	BaseURL string
}

// NewLocalUploader wraps an open database. baseURL is the externally
// reachable address of this server, without a trailing slash.
func NewLocalUploader(db *sql.DB, baseURL string) *LocalUploader {
	return &LocalUploader{DB: db, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Upload stores the photo and returns its serving URL.
func (u *LocalUploader) Upload(ctx context.Context, data []byte, mime, filename string) (string, error) {
	result, err := u.DB.ExecContext(ctx,
		`INSERT INTO images (data, mime, filename) VALUES (?, ?, ?)`,
		data, mime, filename,
	)
	if err != nil {
		return "", fmt.Errorf("storing image: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("getting image id: %w", err)
	}
	return fmt.Sprintf("%s/images/%d", u.BaseURL, id), nil
}

// Get returns a stored photo's bytes and MIME type, or nil data if the id
// is unknown.
func (u *LocalUploader) Get(ctx context.Context, id int64) ([]byte, string, error) {
	var data []byte
	var mime string
	err := u.DB.QueryRowContext(ctx,
		`SELECT data, mime FROM images WHERE id = ?`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting image: %w", err)
	}
	return data, mime, nil
}
