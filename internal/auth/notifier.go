package auth

import (
	"context"
	"sync"
)

// Notifier is the out-of-band session change port: whoever mutates the
// session broadcasts, and all local observers are told to re-read. In the
// single-process case this is in-process fan-out; a Redis-backed
// implementation extends it across processes sharing one session file.
type Notifier interface {
	// Broadcast announces that the session changed.
	Broadcast(ctx context.Context) error

	// OnChange registers fn to run when a change is announced. Re-reading
	// current state must be safe even for the announcing party itself.
	OnChange(fn func())
}

// LocalNotifier fans session-change announcements out within the process.
type LocalNotifier struct {
	mu  sync.Mutex
	fns []func()
}

var _ Notifier = (*LocalNotifier)(nil)

// NewLocalNotifier will create an in-process notifier.
func NewLocalNotifier() *LocalNotifier {
	return &LocalNotifier{}
}

func (n *LocalNotifier) Broadcast(_ context.Context) error {
	n.mu.Lock()
	fns := make([]func(), len(n.fns))
	copy(fns, n.fns)
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return nil
}

func (n *LocalNotifier) OnChange(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fns = append(n.fns, fn)
}
