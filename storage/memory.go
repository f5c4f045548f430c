package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MemoryStorage is an in-process Service used by tests.
type MemoryStorage struct {
	mu      sync.Mutex
	Objects map[string][]byte // "bucket/key" -> content
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{Objects: make(map[string][]byte)}
}

func (s *MemoryStorage) Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	content, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[bucket+"/"+key] = content
	return nil
}

func (s *MemoryStorage) PublicURL(bucket, key string) string {
	return fmt.Sprintf("http://storage.local/%s/%s", bucket, key)
}
