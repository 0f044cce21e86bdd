package domain

import (
	"context"
	"time"
)

// Article is representing the Article data struct
type Article struct {
	ID             int64     // Unique identifier for the article
	Title          string    // Article title
	Description    string    // Short summary shown in listings
	Content        string    // Article body content
	Slug           string    // URL-friendly identifier, unique per article
	ImageURL       string    // Cover image location on the image host
	AuthorUsername string    // Author display handle
	AuthorID       int64     // Author identifier
	CreatedAt      time.Time // Creation timestamp
	LikeCount      int64     // Number of likes as last reported by the backend
	HasLiked       bool      // Whether the current viewer has liked the article
}

// ArticleDraft carries the author-editable fields for create and update.
type ArticleDraft struct {
	Title       string
	Description string
	Content     string
	Slug        string
	ImageURL    string
}

// Page is one page of a paginated article collection. The collection is
// transient: it is rebuilt on every fetch and "load more" appends pages
// without de-duplicating by identity.
type Page struct {
	Content       []Article
	Number        int
	TotalPages    int
	TotalElements int64
	Size          int
}

// HasMore reports whether another page exists after this one.
func (p Page) HasMore() bool {
	return p.Number < p.TotalPages-1
}

// ArticleClient defines the contract for the article resource backend.
type ArticleClient interface {
	// List retrieves a page of articles. A bearer token is attached only
	// when a session exists, which controls whether HasLiked is computed
	// server-side.
	List(ctx context.Context, page, size int) (Page, error)

	// GetBySlug retrieves a single article.
	// Returns ErrNotFound, ErrForbidden or ErrServer by status, and
	// ErrNetwork for transport failures or unmapped statuses.
	GetBySlug(ctx context.Context, slug string) (Article, error)

	// Create stores a new article. Requires a session; returns
	// ErrAuthRequired without touching the network when none exists.
	Create(ctx context.Context, draft ArticleDraft) (Article, error)

	// Update modifies an existing article owned by the viewer.
	Update(ctx context.Context, id int64, draft ArticleDraft) (Article, error)

	// Delete removes an article owned by the viewer.
	Delete(ctx context.Context, id int64) error

	// ToggleLike flips the viewer's like on an article and returns the
	// authoritative post-toggle article state.
	ToggleLike(ctx context.Context, id int64) (Article, error)

	// ListByUsername retrieves a page of a user's articles. Public.
	ListByUsername(ctx context.Context, username string, page, size int) (Page, error)

	// ListMine retrieves all articles of the current viewer, unpaginated.
	ListMine(ctx context.Context) ([]Article, error)
}
