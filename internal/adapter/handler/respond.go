package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rivetsoft/filedock/internal/domain/entities"
)

const actorContextKey = "filedock.actor"

// respondError translates a domain error into an HTTP status and a
// gin.H error body. Unclassified errors become opaque 500s.
func respondError(c *gin.Context, err error) {
	var domainErr *entities.Error
	if !errors.As(err, &domainErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch domainErr.Kind {
	case entities.KindNotFound:
		status = http.StatusNotFound
	case entities.KindForbidden:
		status = http.StatusForbidden
	case entities.KindConflict:
		status = http.StatusConflict
	case entities.KindBadRequest:
		status = http.StatusBadRequest
	case entities.KindUnauthenticated:
		status = http.StatusUnauthorized
	}

	c.JSON(status, gin.H{"error": domainErr.Message})
}

func currentActor(c *gin.Context) entities.Actor {
	if v, ok := c.Get(actorContextKey); ok {
		if actor, ok := v.(entities.Actor); ok {
			return actor
		}
	}
	return entities.Actor{}
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid identifier"})
		return uuid.Nil, false
	}
	return id, true
}
