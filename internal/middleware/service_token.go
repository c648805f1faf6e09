package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// ServiceTokenHeader carries "<name>:<secret>" for machine callers such as the membership system.
const ServiceTokenHeader = "x-api-key"

// ServiceTokenAuth authenticates requests carrying a service token. hashes maps a
// token name to the bcrypt hash of its secret. A missing or bad token falls through
// to the JWT middleware, which then rejects the request.
func ServiceTokenAuth(hashes map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(ServiceTokenHeader)
		if raw == "" || len(hashes) == 0 {
			c.Next()
			return
		}

		logger := GetLoggerFromCtx(c.Request.Context())
		name, secret, ok := strings.Cut(raw, ":")
		if !ok || name == "" || secret == "" {
			logger.Warn("Malformed service token")
			c.Next()
			return
		}

		hash, known := hashes[name]
		if !known {
			logger.Warn("Unknown service token", "token_name", name)
			c.Next()
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
			logger.Warn("Service token rejected", "token_name", name)
			c.Next()
			return
		}

		setActor(c, "service:"+name, authMethodServiceToken)
		c.Next()
	}
}
