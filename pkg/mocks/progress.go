package mocks

import (
	"context"
	"sync"

	"github.com/user/centerstage/pkg/ports"
)

// Progress records progress reporting.
type Progress struct {
	mu sync.Mutex

	Total       int
	Description string
	Count       int
	Finished    bool
}

func (m *Progress) Start(total int, description string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Total = total
	m.Description = description
}

func (m *Progress) Increment() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Count++
}

func (m *Progress) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Finished = true
}

var _ ports.Progress = (*Progress)(nil)

// Publisher is a mock implementation of ports.Publisher.
type Publisher struct {
	mu sync.Mutex

	PublishFunc func(ctx context.Context, localPath, key string) (string, error)
	Keys        []string
}

func (m *Publisher) Publish(ctx context.Context, localPath, key string) (string, error) {
	m.mu.Lock()
	m.Keys = append(m.Keys, key)
	m.mu.Unlock()
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, localPath, key)
	}
	return "mock://" + key, nil
}

var _ ports.Publisher = (*Publisher)(nil)
