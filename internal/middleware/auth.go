// Package middleware contains the auth gate. Access policy is declared per
// route at registration time: public routes take no guard, protected routes
// take RequireRoles with their allowed-role set. There is no request-time
// path matching.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wintercraft/storefront/internal/auth"
)

// Gin context keys populated by the gate for downstream handlers.
const (
	ContextAccountID = "accountId"
	ContextRole      = "role"

	// TokenCookie is the cookie name the sign-in handler sets.
	TokenCookie = "token"
)

// RequireRoles verifies the bearer token (cookie or Authorization header)
// and checks its role against the allowed set. Missing or invalid tokens get
// a 401; a valid identity with the wrong role gets a 403. Downstream
// handlers read the identity from the gin context.
func RequireRoles(tokens *auth.TokenManager, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		accountID, role, err := tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
			return
		}

		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "forbidden"})
			return
		}

		c.Set(ContextAccountID, accountID)
		c.Set(ContextRole, role)
		c.Next()
	}
}

// extractToken prefers the session cookie and falls back to a standard
// Bearer header so API clients without a cookie jar can authenticate.
func extractToken(c *gin.Context) (string, bool) {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie, true
	}

	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
		return parts[1], true
	}
	return "", false
}
