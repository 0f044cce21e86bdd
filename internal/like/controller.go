// Package like holds the optimistic like-toggle logic: the UI reflects the
// viewer's intent immediately and reconciles with the server afterwards,
// rolling back to a pre-click snapshot when the server disagrees or fails.
package like

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inkwell-blog/inkwell/domain"
)

// defaultToggleTimeout bounds how long a control may stay pending before it
// force-rolls-back; a hung request must never pin a control.
const defaultToggleTimeout = 10 * time.Second

// Toggler is the one server call the controller needs.
type Toggler interface {
	ToggleLike(ctx context.Context, id int64) (domain.Article, error)
}

// State of a like control. Pending means a toggle request is in flight; both
// settled outcomes (reconciled and rolled back) return the control to Idle.
type State int8

const (
	Idle State = iota
	Pending
)

// View is a consistent read of the control for rendering.
type View struct {
	Liked   bool
	Count   int64
	Pending bool
}

// Controller drives one like control for one article and one viewer. It is
// created on first render of the control and discarded with it.
type Controller struct {
	articleID int64
	toggler   Toggler
	authed    func() bool
	timeout   time.Duration

	mu    sync.Mutex
	liked bool
	count int64
	state State
}

// NewController will create a like controller seeded with the article's
// last-known like state. authed reports whether the viewer currently holds a
// session; unauthenticated clicks never leave the controller.
func NewController(articleID, likeCount int64, hasLiked bool, toggler Toggler, authed func() bool) *Controller {
	return &Controller{
		articleID: articleID,
		toggler:   toggler,
		authed:    authed,
		timeout:   defaultToggleTimeout,
		liked:     hasLiked,
		count:     likeCount,
	}
}

// SetTimeout overrides the bound on an in-flight toggle.
func (c *Controller) SetTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = d
}

// View returns the current control state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{Liked: c.liked, Count: c.count, Pending: c.state == Pending}
}

// Sync overwrites the control with server-reported state, used when the
// surrounding article is re-fetched while the control is idle.
func (c *Controller) Sync(likeCount int64, hasLiked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Pending {
		return
	}
	c.count = likeCount
	c.liked = hasLiked
}

// Toggle handles one click. The optimistic flip is applied synchronously
// before the request goes out; the server response (or failure) settles the
// control. Clicks from signed-out viewers and clicks landing while a request
// is pending are dropped without any network traffic.
func (c *Controller) Toggle(ctx context.Context) error {
	if !c.authed() {
		return nil
	}

	c.mu.Lock()
	if c.state == Pending {
		c.mu.Unlock()
		return nil
	}

	// Snapshot first, then flip. The rollback value is this snapshot
	// verbatim, never recomputed from whatever the state is later.
	snapLiked, snapCount := c.liked, c.count
	c.liked = !c.liked
	if c.liked {
		c.count++
	} else {
		c.count--
	}
	c.state = Pending
	timeout := c.timeout
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	art, err := c.toggler.ToggleLike(ctx, c.articleID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Idle

	if err != nil {
		c.liked, c.count = snapLiked, snapCount
		logrus.Warnf("like toggle for article %d failed, rolled back: %v", c.articleID, err)
		return err
	}

	// Reconcile: the server's answer wins, even over the optimistic guess
	// (another tab may have raced this one).
	c.liked = art.HasLiked
	c.count = art.LikeCount
	return nil
}
