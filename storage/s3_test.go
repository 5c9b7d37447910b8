package storage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	putInput  *s3.PutObjectInput
	putBody   []byte
	putErr    error
	headErr   error
	pages     []*s3.ListObjectsV2Output
	pageCalls int
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putInput = in
	f.putBody, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.putErr
}

func (f *fakeS3) DeleteObject(context.Context, *s3.DeleteObjectInput, ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func (f *fakeS3) ListObjectsV2(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	page := f.pages[f.pageCalls]
	f.pageCalls++
	return page, nil
}

func TestS3StorePutObject(t *testing.T) {
	fake := &fakeS3{}
	store := &S3Store{client: fake}

	require.NoError(t, store.PutObject(context.Background(), "projects", "images/a.png", []byte("data"), "image/png"))
	assert.Equal(t, "projects", aws.ToString(fake.putInput.Bucket))
	assert.Equal(t, "images/a.png", aws.ToString(fake.putInput.Key))
	assert.Equal(t, "image/png", aws.ToString(fake.putInput.ContentType))
	assert.Equal(t, []byte("data"), fake.putBody)
}

func TestS3StoreMapsNoSuchBucket(t *testing.T) {
	fake := &fakeS3{putErr: &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "The specified bucket does not exist"}}
	store := &S3Store{client: fake}

	err := store.PutObject(context.Background(), "missing", "a.png", nil, "image/png")
	assert.ErrorIs(t, err, ErrNoSuchBucket)

	fake.putErr = &types.NoSuchBucket{}
	assert.ErrorIs(t, store.PutObject(context.Background(), "missing", "a.png", nil, "image/png"), ErrNoSuchBucket)

	fake.putErr = errors.New("timeout")
	err = store.PutObject(context.Background(), "projects", "a.png", nil, "image/png")
	assert.NotErrorIs(t, err, ErrNoSuchBucket)
}

func TestS3StoreBucketExists(t *testing.T) {
	fake := &fakeS3{}
	store := &S3Store{client: fake}

	exists, err := store.BucketExists(context.Background(), "projects")
	require.NoError(t, err)
	assert.True(t, exists)

	fake.headErr = &types.NotFound{}
	exists, err = store.BucketExists(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, exists)

	fake.headErr = errors.New("forbidden")
	_, err = store.BucketExists(context.Background(), "projects")
	assert.Error(t, err)
}

func TestS3StoreListObjectsPaginates(t *testing.T) {
	modified := time.Unix(1700000000, 0)
	fake := &fakeS3{pages: []*s3.ListObjectsV2Output{
		{
			Contents:              []types.Object{{Key: aws.String("images/1.png"), Size: aws.Int64(10), LastModified: &modified}},
			IsTruncated:           aws.Bool(true),
			NextContinuationToken: aws.String("next"),
		},
		{
			Contents:    []types.Object{{Key: aws.String("images/2.png"), Size: aws.Int64(20)}},
			IsTruncated: aws.Bool(false),
		},
	}}
	store := &S3Store{client: fake}

	objects, err := store.ListObjects(context.Background(), "projects", "images/")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "images/1.png", objects[0].Key)
	assert.Equal(t, modified, objects[0].LastModified)
	assert.Equal(t, int64(20), objects[1].Size)
	assert.Equal(t, 2, fake.pageCalls)
}
