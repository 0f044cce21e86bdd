package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-blog/inkwell/internal/web/request"
)

// LoginForm renders the sign-in page.
func (h *Handler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.tmpl", h.page(gin.H{"Username": ""}))
}

// Login submits the sign-in form. Expected failures come back as outcome
// values and render inline; nothing here panics or 500s on bad credentials.
func (h *Handler) Login(c *gin.Context) {
	var req request.Login
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login.tmpl", h.page(gin.H{
			"Error":    "Username and password are required",
			"Username": req.Username,
		}))
		return
	}

	out := h.auth.Login(c.Request.Context(), req.ToDomain())
	switch {
	case out.Authenticated():
		c.Redirect(http.StatusSeeOther, "/")
	case out.Failed:
		c.HTML(http.StatusUnauthorized, "login.tmpl", h.page(gin.H{
			"Error":    out.Message,
			"Username": req.Username,
		}))
	default:
		c.HTML(http.StatusOK, "login.tmpl", h.page(gin.H{
			"Notice":   out.Message,
			"Username": req.Username,
		}))
	}
}

// SignupForm renders the registration page.
func (h *Handler) SignupForm(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.tmpl", h.page(gin.H{"Username": "", "Email": ""}))
}

// Signup submits the registration form and branches on the three outcome
// shapes: session established, confirmation message without a token, or
// rejection.
func (h *Handler) Signup(c *gin.Context) {
	var req request.Signup
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "signup.tmpl", h.page(gin.H{
			"Error":    "Please provide a username (3-20 characters), a valid email and a password of at least 6 characters",
			"Username": req.Username,
			"Email":    req.Email,
		}))
		return
	}

	out := h.auth.Signup(c.Request.Context(), req.ToDomain())
	switch {
	case out.Authenticated():
		c.Redirect(http.StatusSeeOther, "/")
	case out.Failed:
		c.HTML(http.StatusBadRequest, "signup.tmpl", h.page(gin.H{
			"Error":    out.Message,
			"Username": req.Username,
			"Email":    req.Email,
		}))
	default:
		// Account created but no token yet; send the viewer to sign in
		// once they have confirmed.
		c.HTML(http.StatusOK, "login.tmpl", h.page(gin.H{
			"Notice":   out.Message,
			"Username": req.Username,
		}))
	}
}

// Logout destroys the session and returns to the feed.
func (h *Handler) Logout(c *gin.Context) {
	h.auth.Logout()
	c.Redirect(http.StatusSeeOther, "/")
}
