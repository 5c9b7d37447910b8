package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryObject struct {
	data        []byte
	contentType string
	modified    time.Time
}

// MemoryStore keeps objects in process. Used for tests and when no storage is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	buckets map[string]map[string]memoryObject

	// PutHook, when set, runs before every put; a non-nil result fails the put.
	PutHook func(bucket, key string) error
	// RemoveHook, when set, runs before every remove; a non-nil result fails the remove.
	RemoveHook func(bucket, key string) error
}

func NewMemoryStore(buckets ...string) *MemoryStore {
	m := &MemoryStore{buckets: make(map[string]map[string]memoryObject)}
	for _, b := range buckets {
		m.buckets[b] = make(map[string]memoryObject)
	}
	return m
}

func (m *MemoryStore) PutObject(_ context.Context, bucket, key string, body []byte, contentType string) error {
	if m.PutHook != nil {
		if err := m.PutHook(bucket, key); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	objects, ok := m.buckets[bucket]
	if !ok {
		return ErrNoSuchBucket
	}
	objects[key] = memoryObject{
		data:        append([]byte(nil), body...),
		contentType: contentType,
		modified:    time.Now(),
	}
	return nil
}

func (m *MemoryStore) RemoveObject(_ context.Context, bucket, key string) error {
	if m.RemoveHook != nil {
		if err := m.RemoveHook(bucket, key); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	objects, ok := m.buckets[bucket]
	if !ok {
		return ErrNoSuchBucket
	}
	delete(objects, key)
	return nil
}

func (m *MemoryStore) BucketExists(_ context.Context, bucket string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.buckets[bucket]
	return ok, nil
}

func (m *MemoryStore) ListObjects(_ context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	objects, ok := m.buckets[bucket]
	if !ok {
		return nil, ErrNoSuchBucket
	}
	var infos []ObjectInfo
	for key, obj := range objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, ObjectInfo{Key: key, Size: int64(len(obj.data)), LastModified: obj.modified})
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

// Has reports whether key is stored in bucket.
func (m *MemoryStore) Has(bucket, key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.buckets[bucket][key]
	return ok
}

// Count returns the number of objects in bucket.
func (m *MemoryStore) Count(bucket string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.buckets[bucket])
}

// ContentType returns the stored content type of key.
func (m *MemoryStore) ContentType(bucket, key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.buckets[bucket][key].contentType
}
