// Package storage stores image blobs in named buckets and derives their public URLs.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNoSuchBucket is returned by an ObjectStore when the bucket does not exist.
var ErrNoSuchBucket = errors.New("no such bucket")

// ObjectInfo describes a stored blob.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ObjectStore is the backend the gateway writes through.
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error
	RemoveObject(ctx context.Context, bucket, key string) error
	BucketExists(ctx context.Context, bucket string) (bool, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
}

// Buckets and folders used by the content services.
const (
	BucketProjects     = "projects"
	BucketTechnologies = "technologies"
	BucketCertificates = "certificates"

	FolderImages  = "images"
	FolderGallery = "gallery"
)

// Buckets lists every bucket the application writes to.
func Buckets() []string {
	return []string{BucketProjects, BucketTechnologies, BucketCertificates}
}
