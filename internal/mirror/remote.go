package mirror

import (
	"context"
	"errors"
)

// ErrRemoteNotFound is returned by Remote.Version when the remote object
// has never been written.
var ErrRemoteNotFound = errors.New("remote object not found")

// Remote is a content store with optimistic-concurrency writes: replacing
// an existing object requires the version token it currently carries.
type Remote interface {
	// Version returns the current version token of the object.
	Version(ctx context.Context) (string, error)

	// Put creates (empty version) or replaces the object. The remote
	// rejects the write when version no longer matches.
	Put(ctx context.Context, content []byte, version string) error

	// Describe names the target for logs, e.g. "owner/repo:path".
	Describe() string
}
