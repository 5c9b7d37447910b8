package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Object Storage Errors
var (
	ErrStorage        = errors.New("storage operation failed")
	ErrBucketNotFound = errors.New("bucket not found")
	ErrNotAnImage     = errors.New("file is not an image")
)

// NewStorageError reports a rejected upload/delete against bucket.
func NewStorageError(operation, bucket string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrStorage,
		Details:    fmt.Sprintf("%s in bucket %q was rejected", operation, bucket),
		Cause:      cause,
	}
}

// NewBucketNotFoundError is raised when the target bucket does not exist.
func NewBucketNotFoundError(bucket string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        fmt.Errorf("%w: %w", ErrStorage, ErrBucketNotFound),
		Details:    fmt.Sprintf("Bucket %q does not exist; create it in the storage dashboard", bucket),
		Field:      "bucket",
		Cause:      cause,
	}
}

func NewNotAnImageError(filename, contentType string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnsupportedMediaType,
		err:        fmt.Errorf("%w: %w", ErrStorage, ErrNotAnImage),
		Details:    fmt.Sprintf("%s has type %q; only images can be uploaded", filename, contentType),
		Field:      "file",
	}
}

func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}

func IsBucketNotFoundError(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

func IsNotAnImageError(err error) bool {
	return errors.Is(err, ErrNotAnImage)
}
