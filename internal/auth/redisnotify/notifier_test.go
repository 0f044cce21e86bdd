package redisnotify

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastPublishesInstanceID(t *testing.T) {
	client, mock := redismock.NewClientMock()
	n := New(client)

	mock.ExpectPublish(Channel, n.InstanceID()).SetVal(1)

	require.NoError(t, n.Broadcast(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBroadcastSurfacesRedisError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	n := New(client)

	mock.ExpectPublish(Channel, n.InstanceID()).SetErr(assert.AnError)

	assert.Error(t, n.Broadcast(context.Background()))
}

func TestHandleSkipsOwnAnnouncements(t *testing.T) {
	client, _ := redismock.NewClientMock()
	n := New(client)

	calls := 0
	n.OnChange(func() { calls++ })

	n.handle(n.InstanceID())
	assert.Zero(t, calls, "a process must not react to its own broadcast")

	n.handle("some-other-process")
	assert.Equal(t, 1, calls)
}
