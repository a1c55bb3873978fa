package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kvadrat/estate_go_server/internal/pkg/jwt"
	"github.com/kvadrat/estate_go_server/internal/pkg/response"
)

const (
	AgencyIDKey = "agencyID"
)

// Auth validates the bearer token and stores the agency identity on the
// context. Ownership checks downstream trust this identity.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AuthError(c, "missing credentials")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AuthError(c, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(AgencyIDKey, claims.AgencyID)
		c.Next()
	}
}

// GetAgencyID reads the authenticated agency id off the context.
func GetAgencyID(c *gin.Context) (int64, bool) {
	agencyID, exists := c.Get(AgencyIDKey)
	if !exists {
		return 0, false
	}
	id, ok := agencyID.(int64)
	return id, ok
}
