package middleware

import (
	"errors"
	"log"
	"net/http"

	"taskvault/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

const (
	ContextUserID    = "user_id"
	ContextSessionID = "session_id"
)

// AuthRequired resolves the session cookie against the store and exposes the
// authenticated user id to downstream handlers. Requests without a valid
// session are rejected with 401 before any handler runs.
func AuthRequired(store *session.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cookieName)
		if err != nil || sid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Unauthorized",
			})
			return
		}

		userID, err := store.Get(c.Request.Context(), sid)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"message": "Unauthorized",
				})
				return
			}
			log.Printf("session lookup failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"message": "Internal server error",
			})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextSessionID, sid)
		c.Next()
	}
}

// UserID returns the authenticated user id placed in the context by
// AuthRequired.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}
