// Package web is the view/route layer: gin handlers rendering the pages of
// the blog front end against the article and auth backends.
package web

import (
	"embed"
	"html/template"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-blog/inkwell/domain"
	"github.com/inkwell-blog/inkwell/internal/auth"
	"github.com/inkwell-blog/inkwell/internal/images"
	"github.com/inkwell-blog/inkwell/internal/like"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFS, "templates/*.tmpl"))
}

const (
	DefaultPageSize = 10
	PageMinSize     = 5
	PageMaxSize     = 30
)

// Handler holds the page handlers and their collaborators.
type Handler struct {
	articles domain.ArticleClient
	auth     domain.AuthService
	observer *auth.Observer
	images   *images.GitHubHost

	likes likeRegistry
}

// NewHandler will create the web handler. images may be nil when no image
// host is configured.
func NewHandler(articles domain.ArticleClient, authSvc domain.AuthService, observer *auth.Observer, imageHost *images.GitHubHost) *Handler {
	return &Handler{
		articles: articles,
		auth:     authSvc,
		observer: observer,
		images:   imageHost,
		likes:    likeRegistry{entries: make(map[int64]*likeEntry)},
	}
}

// viewerAuthenticated is the click guard handed to like controllers.
func (h *Handler) viewerAuthenticated() bool {
	return h.observer.Current() != nil
}

// page assembles the common template data every page needs.
func (h *Handler) page(data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["Viewer"] = h.observer.Current()
	return data
}

// likeEntry pairs a control with the slug its article page lives under, so
// the like route can send the viewer back where the click happened.
type likeEntry struct {
	ctrl *like.Controller
	slug string
}

// likeRegistry keeps one like controller per rendered article. A controller
// is created on the first render of its control and re-synced with fetched
// state on later renders while idle.
type likeRegistry struct {
	mu      sync.Mutex
	entries map[int64]*likeEntry
}

func (r *likeRegistry) obtain(art domain.Article, toggler like.Toggler, authed func() bool) *like.Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, found := r.entries[art.ID]; found {
		e.slug = art.Slug
		e.ctrl.Sync(art.LikeCount, art.HasLiked)
		return e.ctrl
	}
	e := &likeEntry{
		ctrl: like.NewController(art.ID, art.LikeCount, art.HasLiked, toggler, authed),
		slug: art.Slug,
	}
	r.entries[art.ID] = e
	return e.ctrl
}

func (r *likeRegistry) lookup(id int64) (*like.Controller, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, found := r.entries[id]; found {
		return e.ctrl, e.slug
	}
	return nil, ""
}

func (r *likeRegistry) drop(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}
