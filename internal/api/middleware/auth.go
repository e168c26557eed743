// Package middleware holds the gin middleware shared by every route group.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mlaconnect/backend/internal/apperror"
	"mlaconnect/backend/internal/config"
	"mlaconnect/backend/internal/models"
)

const userKey = "user"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// abort writes the standard failure envelope and stops the chain.
func abort(c *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok {
		c.AbortWithStatusJSON(appErr.Status, gin.H{"success": false, "message": appErr.Message})
		return
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
}

// bearerToken looks in the Authorization header, then the auth cookie.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if tok, err := c.Cookie(config.AuthCookieName); err == nil {
		return tok
	}
	return ""
}

func authenticate(c *gin.Context, a Authenticator, token string) bool {
	user, err := a.Authenticate(c.Request.Context(), token)
	if err != nil {
		abort(c, err)
		return false
	}
	c.Set(userKey, user)
	return true
}

// RequireAuth attaches the signed-in user to the context.
func RequireAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticate(c, a, bearerToken(c)) {
			c.Next()
		}
	}
}

// RequireMLA is RequireAuth restricted to MLA accounts.
func RequireMLA(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, a, bearerToken(c)) {
			return
		}
		if !CurrentUser(c).IsMLA() {
			abort(c, apperror.Forbidden("Access denied. MLA only."))
			return
		}
		c.Next()
	}
}

// RequireMLASocket also accepts the token as a query parameter, since
// browsers cannot set headers on a websocket handshake.
func RequireMLASocket(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token = c.Query("token")
		}
		if !authenticate(c, a, token) {
			return
		}
		if !CurrentUser(c).IsMLA() {
			abort(c, apperror.Forbidden("Access denied. MLA only."))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user set by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
