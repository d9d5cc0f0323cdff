// Package imagehost stores photos and hands back URLs the collection can
// persist. The sheet only ever carries the URL string; where the bytes
// live is this package's concern.
package imagehost

import "context"

// Uploader stores a processed photo and returns its public URL. An upload
// failure is not fatal to the item being saved; callers record an empty
// URL instead.
type Uploader interface {
	Upload(ctx context.Context, data []byte, mime, filename string) (string, error)
}
