package middleware

import (
	"net/http"
	"strings"

	userRepo "deskhub/database/repository/user"
	"deskhub/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware validates the bearer token and resolves it to an
// existing user. The user id is stored in the context under "userID".
func JWTAuthMiddleware(users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := utils.ExtractUserIDFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			return
		}

		c.Set("userID", user.ID)
		c.Next()
	}
}

// AuthenticatedUserID reads the user id set by JWTAuthMiddleware.
func AuthenticatedUserID(c *gin.Context) string {
	if id, ok := c.Get("userID"); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
