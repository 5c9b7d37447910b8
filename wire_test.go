package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/storage"
)

func TestStorageDriver(t *testing.T) {
	tests := []struct {
		name string
		cfg  map[string]string
		want string
	}{
		{name: "explicit", cfg: map[string]string{"STORAGE_DRIVER": "minio", "STORAGE_ENDPOINT": "localhost:9000"}, want: driverMinio},
		{name: "endpoint implies s3", cfg: map[string]string{"STORAGE_ENDPOINT": "https://x.supabase.co/storage/v1/s3"}, want: driverS3},
		{name: "nothing configured", cfg: map[string]string{}, want: driverMemory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, storageDriver(tt.cfg))
		})
	}
}

func TestOpenStoreMemoryFallback(t *testing.T) {
	store, err := openStore(context.Background(), map[string]string{})
	require.NoError(t, err)

	_, ok := store.(*storage.MemoryStore)
	assert.True(t, ok)

	exists, err := store.BucketExists(context.Background(), storage.BucketProjects)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = openStore(context.Background(), map[string]string{"STORAGE_DRIVER": "ftp"})
	require.Error(t, err)
	assert.True(t, errs.IsConfigError(err))
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")

	_, err = openStore(context.Background(), map[string]string{"STORAGE_DRIVER": driverMinio})
	require.Error(t, err)
	assert.True(t, errs.IsConfigError(err))
}

func TestMaxUploadBytes(t *testing.T) {
	assert.Equal(t, storage.DefaultMaxUploadBytes, maxUploadBytes(map[string]string{}))
	assert.Equal(t, int64(2048), maxUploadBytes(map[string]string{"MAX_UPLOAD_BYTES": "2048"}))
}

func TestNewAuthenticatorDisabledWithoutSecrets(t *testing.T) {
	auth := newAuthenticator(map[string]string{"ADMIN_EMAIL": "owner@example.com"})
	assert.Error(t, auth.CheckConfig())
}

func TestHTTPClientTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, httpClientTimeout(nil))
	assert.Equal(t, 5*time.Second, httpClientTimeout(map[string]string{"HTTP_CLIENT_TIMEOUT_SECONDS": "5"}))
}
