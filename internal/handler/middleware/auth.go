package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"parkshare/internal/domain/user"
	"parkshare/internal/pkg/jwt"
	"parkshare/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the request principal from the bearer token. A
// token without a community claim is rejected outright: no handler ever runs
// without a tenant, so there is no code path that could fall back to a
// default community.
type AuthMiddleware struct {
	jwtService *jwt.Service
}

const ctxActorKey = "actor"

func NewAuthMiddleware(jwtService *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.jwtService.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		if claims.CommunityID == nil {
			slog.Warn("Token carries no community claim", "user_id", claims.UserID.String())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Token is not bound to a community",
			})
			c.Abort()
			return
		}

		role, err := user.NewRole(claims.Role)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		actor := shared.Actor{
			UserID:      claims.UserID,
			CommunityID: *claims.CommunityID,
			Role:        role,
		}
		c.Set(ctxActorKey, actor)
		c.Set("jwt_claims", map[string]any{
			"user_id":      actor.UserID.String(),
			"community_id": actor.CommunityID.String(),
			"role":         string(actor.Role),
		})
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			c.Abort()
			return
		}

		if !actor.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func GetActor(c *gin.Context) (shared.Actor, bool) {
	v, exists := c.Get(ctxActorKey)
	if !exists {
		return shared.Actor{}, false
	}

	actor, ok := v.(shared.Actor)
	return actor, ok
}

// SetActor exists for handler tests that bypass token validation.
func SetActor(c *gin.Context, actor shared.Actor) {
	c.Set(ctxActorKey, actor)
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}
