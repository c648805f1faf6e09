package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// userIDKey is the key used to store the authenticated actor's ID.
const userIDKey = contextKey("userID")

// authMethodKey records which middleware authenticated the request.
const authMethodKey = "authMethod"

const (
	authMethodJWT          = "jwt"
	authMethodServiceToken = "service_token"
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userIDVal, exists := c.Get(string(userIDKey)); exists {
		userID, ok := userIDVal.(string)
		return userID, ok && userID != ""
	}
	// check in the request context as well
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// setActor stores the actor in both the gin and request contexts and tags the request logger.
func setActor(c *gin.Context, actorID, method string) {
	c.Set(string(userIDKey), actorID)
	c.Set(authMethodKey, method)

	ctx := context.WithValue(c.Request.Context(), userIDKey, actorID)
	logger := GetLoggerFromCtx(ctx).With("user_id", actorID, "auth_method", method)
	c.Request = c.Request.WithContext(ContextWithLogger(ctx, logger))
}
