package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quicky-ai/quicky-core/internal/pkg/jwt"
	"github.com/quicky-ai/quicky-core/internal/pkg/response"
)

const ContextKeyUserID = "user_id"

// TokenParser validates a bearer token. *jwt.Signer implements it.
type TokenParser interface {
	Parse(token string) (*jwt.Claims, error)
}

// Auth rejects requests without a valid bearer token.
func Auth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseRequestToken(c, tokens)
		if err != nil {
			response.Unauthorized(c)
			return
		}
		c.Set(ContextKeyUserID, claims.UserID)
		c.Next()
	}
}

// OptionalAuth sets the user ID if a valid token is present, but does not block the request.
func OptionalAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := parseRequestToken(c, tokens); err == nil {
			c.Set(ContextKeyUserID, claims.UserID)
		}
		c.Next()
	}
}

func parseRequestToken(c *gin.Context, tokens TokenParser) (*jwt.Claims, error) {
	token := NormalizeToken(c.GetHeader("Authorization"))
	if token == "" {
		return nil, errMissingToken
	}
	return tokens.Parse(token)
}

var errMissingToken = errors.New("token is required")

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
