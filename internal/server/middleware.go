package server

//go:generate mockgen -source=middleware.go -destination=mock_authenticator.go -package=server

import (
	"strings"
	"time"

	"online-auction/internal/biddingerrors"
	"online-auction/services/bidding/helpers"
	"online-auction/utils"

	"github.com/gin-gonic/gin"
)

// Authenticator resolves a bearer token to a user id
type Authenticator interface {
	Authenticate(token string) (string, error)
}

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	fields := map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	}
	if actor := c.GetString(helpers.ActorKey); actor != "" {
		fields["actor"] = actor
	}
	utils.Info("HTTP Request", fields)
}

// AuthMiddleware requires a valid bearer session and stores the acting user
// id in the gin context
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c.GetHeader("Authorization"))
		if token == "" {
			helpers.HandleServiceError(c, "AuthMiddleware", "missing bearer token", biddingerrors.ErrUnauthenticated, nil)
			return
		}

		userID, err := auth.Authenticate(token)
		if err != nil {
			helpers.HandleServiceError(c, "AuthMiddleware", "rejected bearer token", err, nil)
			return
		}

		c.Set(helpers.ActorKey, userID)
		c.Set(helpers.TokenKey, token)
		c.Next()
	}
}

func extractToken(header string) string {
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
