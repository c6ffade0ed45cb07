// Package archive abstracts blob storage for raw homepage snapshots.
package archive

import "context"

// Store writes raw artifacts and returns a URI.
type Store interface {
	PutObject(ctx context.Context, path string, contentType string, data []byte) (string, error)
}
