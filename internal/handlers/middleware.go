package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/omniscribe/internal/domains/user"
	"github.com/xpanvictor/omniscribe/pkg/Logger"
)

// AuthMiddleware creates JWT authentication middleware. The token subject
// becomes both the user id and the history scope.
func AuthMiddleware(userService user.UserService, logger *Logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header required"})
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid authorization format"})
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Token required"})
			return
		}

		claims, err := userService.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Debugf("token validation failed: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid token"})
			return
		}

		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxScopeKey, claims.Subject)
		c.Set("email", claims.Email)
		c.Set("claims", claims)
		c.Next()
	}
}

// SessionScopeMiddleware scopes history by the X-Session-Key header when
// accounts are disabled.
func SessionScopeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := strings.TrimSpace(c.GetHeader(SessionHeader))
		if scope == "" {
			scope = AnonymousScope
		}
		c.Set(ctxScopeKey, scope)
		c.Next()
	}
}

// CORSMiddleware handles CORS headers
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, "+SessionHeader)
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestLoggerMiddleware logs incoming requests
func RequestLoggerMiddleware(logger *Logger.Logger) gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		logger.Infof("[%s] %s %s %d %s %s",
			param.TimeStamp.Format("2006/01/02 - 15:04:05"),
			param.Method,
			param.Path,
			param.StatusCode,
			param.Latency,
			param.ClientIP,
		)
		return ""
	})
}

// ErrorHandlerMiddleware handles panics and errors
func ErrorHandlerMiddleware(logger *Logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Errorf("Panic recovered: %v", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	})
}
