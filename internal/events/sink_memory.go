package events

import (
	"context"
	"sync"
)

// MemorySink buffers published payloads in order. Used by tests and as the
// default sink when no broker is configured.
type MemorySink struct {
	mu       sync.Mutex
	payloads [][]byte
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Publish(_ context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, append([]byte(nil), payload...))
	return nil
}

// Payloads returns a copy of everything published so far, in order.
func (s *MemorySink) Payloads() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.payloads))
	copy(out, s.payloads)
	return out
}
