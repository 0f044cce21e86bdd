// Package redisnotify broadcasts session changes across local processes
// sharing one session file, over a Redis pub/sub channel. It plays the role
// browser storage events play between tabs: mutate the session in one
// process, and every other process re-reads it.
package redisnotify

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/inkwell-blog/inkwell/internal/auth"
)

// Channel carries session-change announcements. The payload is the sender's
// instance id, so a process can skip its own broadcasts the way a tab never
// sees its own storage event.
const Channel = "inkwell:session:changed"

type Notifier struct {
	client *redis.Client
	id     string

	mu  sync.Mutex
	fns []func()
}

var _ auth.Notifier = (*Notifier)(nil)

// New will create a notifier bound to the given Redis client. Call Start to
// begin receiving announcements.
func New(client *redis.Client) *Notifier {
	return &Notifier{
		client: client,
		id:     uuid.NewString(),
	}
}

// InstanceID returns this process's sender id.
func (n *Notifier) InstanceID() string {
	return n.id
}

func (n *Notifier) Broadcast(ctx context.Context) error {
	return n.client.Publish(ctx, Channel, n.id).Err()
}

func (n *Notifier) OnChange(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fns = append(n.fns, fn)
}

// Start subscribes to the channel and dispatches announcements until ctx is
// done.
func (n *Notifier) Start(ctx context.Context) {
	sub := n.client.Subscribe(ctx, Channel)
	go func() {
		defer func() {
			if err := sub.Close(); err != nil {
				logrus.Warnf("failed to close session change subscription: %v", err)
			}
		}()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				n.handle(msg.Payload)
			}
		}
	}()
}

func (n *Notifier) handle(sender string) {
	if sender == n.id {
		return
	}
	n.mu.Lock()
	fns := make([]func(), len(n.fns))
	copy(fns, n.fns)
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
