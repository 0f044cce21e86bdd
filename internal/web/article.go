package web

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/inkwell-blog/inkwell/domain"
	"github.com/inkwell-blog/inkwell/internal/web/request"
)

// Home renders the paginated article feed. Every "older posts" click fetches
// the next page; pages are shown as fetched, without de-duplication against
// earlier ones.
func (h *Handler) Home(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))
	if err != nil || size < PageMinSize || size > PageMaxSize {
		size = DefaultPageSize
	}

	res, err := h.articles.List(c.Request.Context(), page, size)
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	c.HTML(http.StatusOK, "home.tmpl", h.page(gin.H{
		"Articles": res.Content,
		"Page":     res.Number,
		"HasMore":  res.HasMore(),
		"NextPage": res.Number + 1,
	}))
}

// Article renders one article by slug. The error kind picks the page: a
// missing article, a forbidden one and a backend failure each render
// differently.
func (h *Handler) Article(c *gin.Context) {
	slug := c.Param("slug")

	art, err := h.articles.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	ctrl := h.likes.obtain(art, h.articles, h.viewerAuthenticated)
	lv := ctrl.View()

	c.HTML(http.StatusOK, "article.tmpl", h.page(gin.H{
		"Article":     art,
		"Liked":       lv.Liked,
		"LikeCount":   lv.Count,
		"LikePending": lv.Pending,
		"Failure":     c.Query("failure"),
	}))
}

// Like handles a click on an article's like control. Unauthenticated clicks
// and clicks while a toggle is in flight are dropped inside the controller.
func (h *Handler) Like(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.HTML(http.StatusNotFound, "notfound.tmpl", h.page(nil))
		return
	}

	ctrl, slug := h.likes.lookup(id)
	if ctrl == nil {
		// No rendered control for this article; nothing to toggle.
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	if err := ctrl.Toggle(c.Request.Context()); err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		// Inline failure scoped to this control: back to the article
		// with a notice, state already rolled back.
		c.Redirect(http.StatusSeeOther, "/articles/"+slug+"?failure=like")
		return
	}
	c.Redirect(http.StatusSeeOther, "/articles/"+slug)
}

// UserArticles renders a user's public article listing.
func (h *Handler) UserArticles(c *gin.Context) {
	username := c.Param("username")
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = 0
	}

	res, err := h.articles.ListByUsername(c.Request.Context(), username, page, DefaultPageSize)
	if err != nil {
		h.renderFailure(c, err)
		return
	}

	c.HTML(http.StatusOK, "user.tmpl", h.page(gin.H{
		"Username": username,
		"Articles": res.Content,
		"Total":    res.TotalElements,
		"HasMore":  res.HasMore(),
		"NextPage": res.Number + 1,
	}))
}

// Profile renders the signed-in viewer's own articles alongside their public
// stats. The two fetches are independent, so they run concurrently.
func (h *Handler) Profile(c *gin.Context) {
	viewer := h.observer.Current()

	var (
		mine      []domain.Article
		published int64
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		res, err := h.articles.ListMine(ctx)
		if err != nil {
			return err
		}
		mine = res
		return nil
	})
	g.Go(func() error {
		res, err := h.articles.ListByUsername(ctx, viewer.Username, 0, PageMinSize)
		if err != nil {
			return err
		}
		published = res.TotalElements
		return nil
	})
	if err := g.Wait(); err != nil {
		h.renderFailure(c, err)
		return
	}

	c.HTML(http.StatusOK, "profile.tmpl", h.page(gin.H{
		"Articles":  mine,
		"Published": published,
	}))
}

// CreateForm renders an empty editor.
func (h *Handler) CreateForm(c *gin.Context) {
	c.HTML(http.StatusOK, "editor.tmpl", h.page(gin.H{
		"Draft": request.Article{},
	}))
}

// Create stores a new article from the editor form.
func (h *Handler) Create(c *gin.Context) {
	var req request.Article
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "editor.tmpl", h.page(gin.H{
			"Error": "Please fill in all required fields: " + err.Error(),
			"Draft": req,
		}))
		return
	}

	art, err := h.articles.Create(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.renderEditorFailure(c, err, req, 0)
		return
	}
	c.Redirect(http.StatusSeeOther, "/articles/"+art.Slug)
}

// EditForm loads one of the viewer's articles into the editor.
func (h *Handler) EditForm(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.HTML(http.StatusNotFound, "notfound.tmpl", h.page(nil))
		return
	}

	mine, err := h.articles.ListMine(c.Request.Context())
	if err != nil {
		h.renderFailure(c, err)
		return
	}
	for _, art := range mine {
		if art.ID == id {
			c.HTML(http.StatusOK, "editor.tmpl", h.page(gin.H{
				"EditID": art.ID,
				"Draft": request.Article{
					Title:       art.Title,
					Description: art.Description,
					Content:     art.Content,
					Slug:        art.Slug,
					ImageURL:    art.ImageURL,
				},
			}))
			return
		}
	}
	c.HTML(http.StatusNotFound, "notfound.tmpl", h.page(nil))
}

// Edit applies the editor form to an existing article.
func (h *Handler) Edit(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.HTML(http.StatusNotFound, "notfound.tmpl", h.page(nil))
		return
	}

	var req request.Article
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "editor.tmpl", h.page(gin.H{
			"Error":  "Please fill in all required fields: " + err.Error(),
			"Draft":  req,
			"EditID": id,
		}))
		return
	}

	art, err := h.articles.Update(c.Request.Context(), id, req.ToDomain())
	if err != nil {
		h.renderEditorFailure(c, err, req, id)
		return
	}
	c.Redirect(http.StatusSeeOther, "/articles/"+art.Slug)
}

// Delete removes one of the viewer's articles.
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.HTML(http.StatusNotFound, "notfound.tmpl", h.page(nil))
		return
	}

	if err := h.articles.Delete(c.Request.Context(), id); err != nil {
		h.renderFailure(c, err)
		return
	}
	h.likes.drop(id)
	c.Redirect(http.StatusSeeOther, "/me")
}

// UploadImage receives an editor image and stores it on the image host,
// answering with the public URL.
func (h *Handler) UploadImage(c *gin.Context) {
	if h.images == nil || !h.images.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image hosting is not configured"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image file"})
		return
	}

	url, err := h.images.Upload(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// renderFailure translates an error kind into the page to show. Distinct
// kinds get distinct pages; the taxonomy, not the message text, decides.
func (h *Handler) renderFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		c.Redirect(http.StatusSeeOther, "/login")
	case errors.Is(err, domain.ErrAuthRequired):
		c.HTML(http.StatusUnauthorized, "gate.tmpl", h.page(gin.H{"Feature": "do that"}))
	case errors.Is(err, domain.ErrNotFound):
		c.HTML(http.StatusNotFound, "notfound.tmpl", h.page(nil))
	case errors.Is(err, domain.ErrForbidden):
		c.HTML(http.StatusForbidden, "forbidden.tmpl", h.page(nil))
	case errors.Is(err, domain.ErrServer):
		c.HTML(http.StatusBadGateway, "error.tmpl", h.page(gin.H{"Message": "The server ran into a problem. Please try again later."}))
	default:
		logrus.Errorf("page render failed: %v", err)
		c.HTML(http.StatusBadGateway, "error.tmpl", h.page(gin.H{"Message": "Unable to reach the server. Please try again later."}))
	}
}

// renderEditorFailure keeps the viewer's draft on screen with an inline
// message scoped to the editor.
func (h *Handler) renderEditorFailure(c *gin.Context, err error, req request.Article, editID int64) {
	if ve := domain.AsValidation(err); ve != nil {
		data := gin.H{"Error": ve.Error(), "Draft": req}
		if editID != 0 {
			data["EditID"] = editID
		}
		c.HTML(http.StatusBadRequest, "editor.tmpl", h.page(data))
		return
	}
	if errors.Is(err, domain.ErrForbidden) {
		data := gin.H{"Error": "You do not have permission to modify this article.", "Draft": req}
		if editID != 0 {
			data["EditID"] = editID
		}
		c.HTML(http.StatusForbidden, "editor.tmpl", h.page(data))
		return
	}
	h.renderFailure(c, err)
}
