package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID   = "userID"
	ctxScopeKey = "scopeKey"

	SessionHeader  = "X-Session-Key"
	AnonymousScope = "anonymous"
)

type HTTPUserInfo struct {
	UserID string
	Email  string
}

func ExtractUserInfo(c *gin.Context) (HTTPUserInfo, bool) {
	userID := c.GetString(ctxUserID) // From JWT middleware
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return HTTPUserInfo{}, false
	}
	return HTTPUserInfo{UserID: userID, Email: c.GetString("email")}, true
}

// ScopeKey is the history scope chosen by the auth or session middleware.
func ScopeKey(c *gin.Context) string {
	if scope := c.GetString(ctxScopeKey); scope != "" {
		return scope
	}
	return AnonymousScope
}
