// internal/storage/storage.go

// Package storage publishes export artifacts to an S3-compatible object
// store so dashboards and downstream jobs can fetch them without touching
// the exporter host.
package storage

import "context"

// ObjectInfo is the metadata for one remote object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the operations the export flow needs.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	DownloadObject(ctx context.Context, key string, destPath string) error
	UploadObject(ctx context.Context, key string, data []byte) error
	UploadFile(ctx context.Context, key string, path string) error
}
