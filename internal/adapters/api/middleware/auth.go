package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"wgpanel/internal/config"
)

const (
	// IdentityContextKey is the key used to store the caller identity in gin context
	IdentityContextKey = "identity"
)

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	Subject string `json:"subject"`
}

// AuthMiddleware creates a middleware for authentication. With auth disabled
// every request runs as a virtual admin identity; enabled mode requires a
// Bearer token signed with the shared secret.
func AuthMiddleware(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Set(IdentityContextKey, &Identity{Subject: "admin"})
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		identity, err := validateToken(parts[1], cfg.Secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set(IdentityContextKey, identity)
		c.Next()
	}
}

// validateToken parses and verifies an HS256 bearer token
func validateToken(tokenString, secret string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &Identity{Subject: claims.Subject}, nil
}

// GetIdentityFromContext retrieves the caller identity from the gin context
func GetIdentityFromContext(c *gin.Context) *Identity {
	if v, exists := c.Get(IdentityContextKey); exists {
		if id, ok := v.(*Identity); ok {
			return id
		}
	}
	return nil
}
