package mail

import (
	"context"
	"sync"

	"birthday-coupons/internal/domain/ports/adapter"
)

// NoopTransport records emails instead of delivering them. Used in dev
// mode and by the seed tool.
type NoopTransport struct {
	mu   sync.Mutex
	sent []adapter.Email
}

func NewNoopTransport() *NoopTransport {
	return &NoopTransport{}
}

func (t *NoopTransport) Send(_ context.Context, msg adapter.Email) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, msg)
	return nil
}

// Sent returns a copy of everything handed to the transport so far.
func (t *NoopTransport) Sent() []adapter.Email {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]adapter.Email, len(t.sent))
	copy(out, t.sent)
	return out
}
