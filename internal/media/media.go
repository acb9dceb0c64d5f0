// Package media uploads user images to an S3-compatible object store.
package media

import "context"

// Asset identifies an uploaded object.
type Asset struct {
	// URL is the public URL clients use to fetch the object.
	URL string
	// PublicID is the storage key used to delete the object later.
	PublicID string
}

// Store defines the media operations the account flows need.
type Store interface {
	Upload(ctx context.Context, localPath string) (Asset, error)
	Delete(ctx context.Context, publicID string) error
}
