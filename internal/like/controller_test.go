package like_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-blog/inkwell/domain"
	"github.com/inkwell-blog/inkwell/internal/like"
)

// stubToggler scripts the server side of a toggle.
type stubToggler struct {
	mu      sync.Mutex
	calls   int
	article domain.Article
	err     error
	block   chan struct{} // when set, ToggleLike waits here or for ctx
}

func (s *stubToggler) ToggleLike(ctx context.Context, _ int64) (domain.Article, error) {
	s.mu.Lock()
	s.calls++
	block := s.block
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return domain.Article{}, ctx.Err()
		}
	}
	if s.err != nil {
		return domain.Article{}, s.err
	}
	return s.article, nil
}

func (s *stubToggler) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func authed() bool { return true }

func TestToggleSuccessReconcilesWithServer(t *testing.T) {
	srv := &stubToggler{article: domain.Article{ID: 1, LikeCount: 5, HasLiked: true}}
	c := like.NewController(1, 4, false, srv, authed)

	require.NoError(t, c.Toggle(context.Background()))

	v := c.View()
	assert.True(t, v.Liked)
	assert.Equal(t, int64(5), v.Count)
	assert.False(t, v.Pending)
}

func TestToggleFailureRestoresSnapshot(t *testing.T) {
	srv := &stubToggler{err: assert.AnError}
	c := like.NewController(1, 4, false, srv, authed)

	err := c.Toggle(context.Background())
	require.Error(t, err)

	v := c.View()
	assert.False(t, v.Liked, "must return to the pre-click value")
	assert.Equal(t, int64(4), v.Count)
	assert.False(t, v.Pending, "must not remain stuck pending")
}

// The server may override the optimistic guess, e.g. after a race with
// another tab; its answer wins without drift.
func TestToggleServerAnswerOverridesGuess(t *testing.T) {
	srv := &stubToggler{article: domain.Article{ID: 1, LikeCount: 4, HasLiked: false}}
	c := like.NewController(1, 4, false, srv, authed)

	require.NoError(t, c.Toggle(context.Background()))

	v := c.View()
	assert.False(t, v.Liked)
	assert.Equal(t, int64(4), v.Count)
}

func TestUnauthenticatedClickIsANoOp(t *testing.T) {
	srv := &stubToggler{article: domain.Article{LikeCount: 99, HasLiked: true}}
	c := like.NewController(1, 4, false, srv, func() bool { return false })

	require.NoError(t, c.Toggle(context.Background()))

	assert.Zero(t, srv.callCount(), "no request may be sent")
	v := c.View()
	assert.False(t, v.Liked)
	assert.Equal(t, int64(4), v.Count)
}

func TestClicksWhilePendingAreDropped(t *testing.T) {
	block := make(chan struct{})
	srv := &stubToggler{
		article: domain.Article{ID: 1, LikeCount: 5, HasLiked: true},
		block:   block,
	}
	c := like.NewController(1, 4, false, srv, authed)

	done := make(chan error, 1)
	go func() { done <- c.Toggle(context.Background()) }()

	// Wait for the first click to apply its optimistic flip.
	require.Eventually(t, func() bool { return c.View().Pending }, time.Second, time.Millisecond)

	v := c.View()
	assert.True(t, v.Liked, "optimistic flip is applied before the server answers")
	assert.Equal(t, int64(5), v.Count)

	// A second click lands while the first is in flight: dropped, not queued.
	require.NoError(t, c.Toggle(context.Background()))
	assert.Equal(t, 1, srv.callCount())

	close(block)
	require.NoError(t, <-done)

	v = c.View()
	assert.True(t, v.Liked)
	assert.Equal(t, int64(5), v.Count)
	assert.False(t, v.Pending)
}

// A hung request must not pin the control in Pending: after the bounded wait
// it force-rolls-back.
func TestHungRequestForcesRollback(t *testing.T) {
	srv := &stubToggler{
		article: domain.Article{ID: 1, LikeCount: 5, HasLiked: true},
		block:   make(chan struct{}), // never closed
	}
	c := like.NewController(1, 4, false, srv, authed)
	c.SetTimeout(20 * time.Millisecond)

	err := c.Toggle(context.Background())
	require.Error(t, err)

	v := c.View()
	assert.False(t, v.Pending)
	assert.False(t, v.Liked)
	assert.Equal(t, int64(4), v.Count)
}

func TestIndependentControlsDoNotCouple(t *testing.T) {
	block := make(chan struct{})
	hung := &stubToggler{block: block}
	fast := &stubToggler{article: domain.Article{ID: 2, LikeCount: 1, HasLiked: true}}

	a := like.NewController(1, 4, false, hung, authed)
	b := like.NewController(2, 0, false, fast, authed)

	done := make(chan error, 1)
	go func() { done <- a.Toggle(context.Background()) }()
	require.Eventually(t, func() bool { return a.View().Pending }, time.Second, time.Millisecond)

	// The other control is free to toggle while the first hangs.
	require.NoError(t, b.Toggle(context.Background()))
	assert.True(t, b.View().Liked)

	close(block)
	<-done
}

func TestSyncIgnoredWhilePending(t *testing.T) {
	block := make(chan struct{})
	srv := &stubToggler{article: domain.Article{ID: 1, LikeCount: 5, HasLiked: true}, block: block}
	c := like.NewController(1, 4, false, srv, authed)

	done := make(chan error, 1)
	go func() { done <- c.Toggle(context.Background()) }()
	require.Eventually(t, func() bool { return c.View().Pending }, time.Second, time.Millisecond)

	c.Sync(77, false) // a re-render mid-flight must not clobber the optimistic state
	assert.Equal(t, int64(5), c.View().Count)

	close(block)
	require.NoError(t, <-done)

	c.Sync(77, false)
	assert.Equal(t, int64(77), c.View().Count)
}
