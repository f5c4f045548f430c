package cart

import (
	"context"
	"sync"
)

// MemoryBackend is an in-process Backend used by tests and local runs
// without Redis.
type MemoryBackend struct {
	mu          sync.Mutex
	data        map[string]string
	subscribers map[string][]chan string

	// Published keeps every payload sent per channel, in order.
	Published map[string][]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		data:        make(map[string]string),
		subscribers: make(map[string][]chan string),
		Published:   make(map[string][]string),
	}
}

func (b *MemoryBackend) Get(ctx context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	value, ok := b.data[key]
	return value, ok, nil
}

func (b *MemoryBackend) Set(ctx context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
	return nil
}

func (b *MemoryBackend) Del(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}

func (b *MemoryBackend) Publish(ctx context.Context, channel, payload string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Published[channel] = append(b.Published[channel], payload)
	for _, sub := range b.subscribers[channel] {
		select {
		case sub <- payload:
		default: // slow subscriber, drop rather than block the writer
		}
	}
	return nil
}

func (b *MemoryBackend) Subscribe(ctx context.Context, channel string) (<-chan string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub := make(chan string, 16)
	b.subscribers[channel] = append(b.subscribers[channel], sub)
	return sub, nil
}
