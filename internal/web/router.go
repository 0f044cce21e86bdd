package web

import (
	"github.com/gin-gonic/gin"

	"github.com/inkwell-blog/inkwell/internal/auth"
)

// NewRouter wires the page routes. Authenticated-only views sit behind the
// gate, each naming the feature it protects.
func NewRouter(h *Handler, observer *auth.Observer) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(Templates())

	r.GET("/", h.Home)
	r.GET("/articles/:slug", h.Article)
	r.POST("/articles/:id/like", h.Like)
	r.GET("/user/:username", h.UserArticles)

	r.GET("/login", h.LoginForm)
	r.POST("/login", h.Login)
	r.GET("/signup", h.SignupForm)
	r.POST("/signup", h.Signup)
	r.POST("/logout", h.Logout)

	r.GET("/write", RequireAuth(observer, "write articles"), h.CreateForm)
	r.POST("/write", RequireAuth(observer, "write articles"), h.Create)
	r.GET("/edit/:id", RequireAuth(observer, "edit your articles"), h.EditForm)
	r.POST("/edit/:id", RequireAuth(observer, "edit your articles"), h.Edit)
	r.POST("/delete/:id", RequireAuth(observer, "delete your articles"), h.Delete)
	r.GET("/me", RequireAuth(observer, "view your profile"), h.Profile)
	r.POST("/images", RequireAuth(observer, "upload images"), h.UploadImage)

	return r
}
