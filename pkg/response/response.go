package response

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"unipress.io/engagement/pkg/apperror"
	"unipress.io/engagement/pkg/logger"
)

const (
	// Context keys set by the auth middleware.
	CtxActorID = "actor_id"
	CtxIsGuest = "is_guest"
)

// GetActorID retrieves the resolved actor identity from the context. The
// actor is either an authenticated subject or a guest token; callers that
// must not accept guests use RequireUserID instead.
func GetActorID(c *gin.Context) (string, error) {
	actorID, exists := c.Get(CtxActorID)
	if !exists {
		return "", apperror.ErrUnauthorized
	}
	id, ok := actorID.(string)
	if !ok || id == "" {
		return "", apperror.ErrUnauthorized
	}
	return id, nil
}

// RequireUserID retrieves the actor identity and rejects guest tokens.
// Ownership checks only ever trust authenticated subjects.
func RequireUserID(c *gin.Context) (string, error) {
	id, err := GetActorID(c)
	if err != nil {
		return "", err
	}
	if IsGuestID(id) {
		return "", apperror.ErrUnauthorized
	}
	return id, nil
}

// IsGuestID reports whether an actor id is a guest continuity token rather
// than an authenticated subject.
func IsGuestID(id string) bool {
	return strings.HasPrefix(id, "guest_")
}

// Error writes a standardized error response
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code >= http.StatusInternalServerError {
		logger.L().Error("request failed", "path", c.FullPath(), "err", err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
