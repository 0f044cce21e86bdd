package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-blog/inkwell/internal/auth"
)

// RequireAuth gates a route on the auth observer. A signed-in viewer passes
// through; anyone else gets the gating prompt naming the feature that needs
// an account. There is no automatic redirect: signing in, signing up or
// leaving stays the viewer's call.
func RequireAuth(observer *auth.Observer, feature string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if observer.Current() != nil {
			c.Next()
			return
		}
		c.HTML(http.StatusUnauthorized, "gate.tmpl", gin.H{
			"Feature": feature,
		})
		c.Abort()
	}
}
