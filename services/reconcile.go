package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/metrics"
	"github.com/rpupo63/portfolio-backend/storage"
)

// PathSource lists the blob paths a table still references.
type PathSource interface {
	ReferencedPaths(ctx context.Context) ([]string, error)
}

// BlobLister is the part of storage.Gateway the reconciler uses.
type BlobLister interface {
	List(ctx context.Context, bucket, prefix string) ([]storage.ObjectInfo, error)
	Delete(ctx context.Context, bucket, path string) error
}

type ReconcileOptions struct {
	MinAge time.Duration
	DryRun bool
}

// Orphan is a blob that no row references.
type Orphan struct {
	Bucket     string    `json:"bucket"`
	Key        string    `json:"key"`
	UploadedAt time.Time `json:"uploaded_at"`
	Action     string    `json:"action"`
}

const (
	orphanDeleted = "deleted"
	orphanSkipped = "skipped"
	orphanFailed  = "failed"
	orphanReport  = "reported"
)

// Reconciler removes blobs left behind by failed compensations and deletes.
type Reconciler struct {
	blobs   BlobLister
	sources map[string]PathSource
	now     func() time.Time
	logger  zerolog.Logger
}

// NewReconciler takes the reference source for each bucket.
func NewReconciler(blobs BlobLister, sources map[string]PathSource) *Reconciler {
	return &Reconciler{
		blobs:   blobs,
		sources: sources,
		now:     time.Now,
		logger:  log.With().Str("service", "reconcile").Logger(),
	}
}

// Run lists every bucket, and deletes (or with DryRun only reports) blobs that
// are unreferenced and older than MinAge. Blobs without a generated filename
// were not uploaded by the gateway and are only reported.
func (r *Reconciler) Run(ctx context.Context, opts ReconcileOptions) ([]Orphan, error) {
	var orphans []Orphan
	for _, bucket := range storage.Buckets() {
		source, ok := r.sources[bucket]
		if !ok {
			continue
		}

		paths, err := source.ReferencedPaths(ctx)
		if err != nil {
			return orphans, err
		}
		referenced := make(map[string]bool, len(paths))
		for _, p := range paths {
			referenced[p] = true
		}

		objects, err := r.blobs.List(ctx, bucket, "")
		if err != nil {
			return orphans, err
		}

		for _, obj := range objects {
			if referenced[obj.Key] {
				continue
			}
			orphan := Orphan{Bucket: bucket, Key: obj.Key}
			uploadedAt, generated := storage.FilenameTime(obj.Key)
			if !generated {
				uploadedAt = obj.LastModified
			}
			orphan.UploadedAt = uploadedAt

			switch {
			case !generated:
				orphan.Action = orphanReport
			case r.now().Sub(uploadedAt) < opts.MinAge:
				orphan.Action = orphanSkipped
			case opts.DryRun:
				orphan.Action = orphanReport
			default:
				if err := r.blobs.Delete(ctx, bucket, obj.Key); err != nil {
					r.logger.Warn().Err(err).Str("bucket", bucket).Str("key", obj.Key).Msg("failed to delete orphan")
					orphan.Action = orphanFailed
				} else {
					orphan.Action = orphanDeleted
				}
			}

			metrics.RecordReconciledBlob(bucket, orphan.Action)
			r.logger.Info().Str("bucket", bucket).Str("key", obj.Key).Str("action", orphan.Action).Msg("orphaned blob")
			orphans = append(orphans, orphan)
		}
	}
	return orphans, nil
}
