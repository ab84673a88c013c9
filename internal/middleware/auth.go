package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"anoa.com/schoolhub/internal/authz"
)

const principalKey = "principal"

type AuthMiddleware struct {
	secret string
}

func NewAuthMiddleware() *AuthMiddleware {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me"
	}

	return &AuthMiddleware{secret: secret}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// principal on the context for handlers.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		principal, err := authz.ParseToken(m.secret, tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// OptionalAuth stores the principal when a valid token is present but lets
// anonymous requests through. Used by super-admin bootstrap, which is open
// only until the first superAdmin exists.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if principal, err := authz.ParseToken(m.secret, tokenString); err == nil {
				c.Set(principalKey, principal)
			}
		}
		c.Next()
	}
}

// Principal returns the authenticated caller, or nil when the request
// carried no valid token.
func Principal(c *gin.Context) *authz.Principal {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*authz.Principal)
	if !ok {
		return nil
	}
	return principal
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return c.Query("token")
}
