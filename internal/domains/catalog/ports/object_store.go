package ports

import (
	"context"
	"errors"
	"strings"
)

// ErrObjectNotFound is returned when no object is stored at a path.
var ErrObjectNotFound = errors.New("object not found")

// Object is a stored binary asset.
type Object struct {
	Path        string
	ContentType string
	Data        []byte
}

// ObjectStore keeps binary assets addressable by path.
type ObjectStore interface {
	// Put stores data at path, replacing any previous object, and returns its public reference.
	Put(ctx context.Context, path, contentType string, data []byte) (string, error)
	Get(ctx context.Context, path string) (*Object, error)
	Delete(ctx context.Context, path string) error
}

// AssetRoute is the public route prefix objects are served under.
const AssetRoute = "/assets/"

// PublicURL builds the public reference of the object stored at path.
func PublicURL(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + AssetRoute + strings.TrimLeft(path, "/")
}
