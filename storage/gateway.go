package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/metrics"
)

const DefaultMaxUploadBytes int64 = 10 << 20 // 10MB

// File is an upload as received from a client.
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// Gateway uploads and deletes blobs and builds their public URLs.
type Gateway struct {
	store      ObjectStore
	publicBase string
	maxBytes   int64
	now        func() time.Time
	logger     zerolog.Logger
}

func NewGateway(store ObjectStore, publicBase string, maxBytes int64) *Gateway {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &Gateway{
		store:      store,
		publicBase: strings.TrimRight(publicBase, "/"),
		maxBytes:   maxBytes,
		now:        time.Now,
		logger:     log.With().Str("component", "storage").Logger(),
	}
}

// Upload stores file under folder in bucket and returns its path.
func (g *Gateway) Upload(ctx context.Context, file File, bucket, folder string) (string, error) {
	path, err := g.upload(ctx, file, bucket, folder)
	metrics.RecordStorageOperation(bucket, "upload", err)
	if err != nil {
		g.logger.Warn().Err(err).Str("bucket", bucket).Str("file", file.Name).Msg("upload rejected")
		return "", err
	}
	g.logger.Debug().Str("bucket", bucket).Str("path", path).Msg("uploaded")
	return path, nil
}

func (g *Gateway) upload(ctx context.Context, file File, bucket, folder string) (string, error) {
	if file.Content == nil {
		return "", errs.NewMissingRequiredFieldError("file")
	}
	data, err := io.ReadAll(io.LimitReader(file.Content, g.maxBytes+1))
	if err != nil {
		return "", errs.NewStorageError("read upload", bucket, err)
	}
	if int64(len(data)) > g.maxBytes {
		return "", errs.NewMaxBodySizeExceededError(g.maxBytes)
	}

	ext, err := imageExtension(file.Name, file.ContentType, data)
	if err != nil {
		return "", err
	}

	path := newFilename(g.now(), ext)
	if folder = strings.Trim(folder, "/"); folder != "" {
		path = folder + "/" + path
	}

	if err := g.store.PutObject(ctx, bucket, path, data, mediaType(file.ContentType, data)); err != nil {
		return "", storeError("upload", bucket, err)
	}
	return path, nil
}

// Delete removes path from bucket. An empty path is a no-op.
func (g *Gateway) Delete(ctx context.Context, bucket, path string) error {
	if path == "" {
		return nil
	}
	err := g.store.RemoveObject(ctx, bucket, path)
	if err != nil {
		err = storeError("delete", bucket, err)
	}
	metrics.RecordStorageOperation(bucket, "delete", err)
	return err
}

// PublicURL derives the public URL of path, or nil when there is no path.
func (g *Gateway) PublicURL(bucket string, path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	url := g.publicBase + "/storage/v1/object/public/" + bucket + "/" + strings.TrimLeft(*path, "/")
	return &url
}

// PublicURLs derives the public URL of every non-empty path.
func (g *Gateway) PublicURLs(bucket string, paths []string) []string {
	urls := make([]string, 0, len(paths))
	for i := range paths {
		if url := g.PublicURL(bucket, &paths[i]); url != nil {
			urls = append(urls, *url)
		}
	}
	return urls
}

// CheckBucket reports an error when bucket is missing or unreachable.
func (g *Gateway) CheckBucket(ctx context.Context, bucket string) error {
	exists, err := g.store.BucketExists(ctx, bucket)
	if err != nil {
		return storeError("check", bucket, err)
	}
	if !exists {
		return errs.NewBucketNotFoundError(bucket, ErrNoSuchBucket)
	}
	return nil
}

// List returns every object in bucket under prefix.
func (g *Gateway) List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	objects, err := g.store.ListObjects(ctx, bucket, prefix)
	if err != nil {
		err = storeError("list", bucket, err)
	}
	metrics.RecordStorageOperation(bucket, "list", err)
	return objects, err
}

func storeError(operation, bucket string, err error) error {
	if errors.Is(err, ErrNoSuchBucket) {
		return errs.NewBucketNotFoundError(bucket, err)
	}
	return errs.NewStorageError(operation, bucket, err)
}
