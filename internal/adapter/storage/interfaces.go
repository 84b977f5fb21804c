package storage

import (
	"context"
	"io"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/storage_mocks.go -package=mocks

// AssetStorage owns the binary files backing photo records, addressed by
// opaque keys. Delete reports domain.ErrAssetNotFound for a missing key so
// callers can tell "already gone" apart from an I/O failure.
type AssetStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string, size int64) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	GetURL(key string) string
}

type ImageProcessor interface {
	Process(reader io.Reader) (io.Reader, int64, int, int, error)
}
