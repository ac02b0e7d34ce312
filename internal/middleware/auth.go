package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/herd-api/internal/handler"
	"github.com/jwalitptl/herd-api/pkg/auth"
)

const (
	ContextFarmID = "farm_id"
	ContextUserID = "user_id"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
}

func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// Authenticate verifies the JWT token and sets the farm scope in context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextFarmID, claims.FarmID)
		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

// RequireFarmScope rejects requests whose token farm does not match the
// farm named in the route
func (m *AuthMiddleware) RequireFarmScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		routeFarm := c.Param("farm_id")
		if routeFarm == "" {
			c.Next()
			return
		}

		tokenFarm := c.GetString(ContextFarmID)
		if tokenFarm == "" || tokenFarm != routeFarm {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse("farm scope mismatch"))
			c.Abort()
			return
		}

		c.Next()
	}
}
