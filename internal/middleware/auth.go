package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nexusjob_backend/internal/auth"
	"nexusjob_backend/internal/coordinator"
	"nexusjob_backend/internal/logger"
	"nexusjob_backend/internal/models"
	"nexusjob_backend/pkg/contextkeys"
)

// AuthMiddleware verifies the bearer token and binds the caller's
// session for the remainder of the request.
func AuthMiddleware(verifier *auth.Verifier, sessions *coordinator.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.FromHeader(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		session := sessions.Acquire(claims.Subject, claims.Name, claims.Role)

		c.Set("userID", claims.Subject)
		c.Set("role", claims.Role)
		c.Set(string(contextkeys.SessionContextKey), session)

		ctx := logger.WithUserID(c.Request.Context(), claims.Subject)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRoles restricts a route to the listed roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: no role"})
			return
		}

		role, ok := roleVal.(models.UserRole)
		if !ok {
			roleStr, isString := roleVal.(string)
			if !isString {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: invalid role type"})
				return
			}
			role = models.UserRole(roleStr)
		}

		if !roleSet[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient permissions"})
			return
		}

		c.Next()
	}
}

// GetUserID extracts the authenticated user's ID from the gin context.
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}
	id, ok := userID.(string)
	if !ok {
		return ""
	}
	return id
}

// GetSession extracts the caller's session, if the auth middleware ran.
func GetSession(c *gin.Context) (*coordinator.Session, bool) {
	val, exists := c.Get(string(contextkeys.SessionContextKey))
	if !exists {
		return nil, false
	}
	session, ok := val.(*coordinator.Session)
	return session, ok
}
