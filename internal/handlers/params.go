package handlers

import (
	"errors"
	"io"
	"strconv"

	"bounty-market/internal/response"
	"bounty-market/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// uuidParam parses a path parameter, writing a VALIDATION_ERROR envelope on failure
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Abort(c, services.CodeValidation, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// matchBodyID checks that a bountyId repeated in the body names the bounty in the path
func matchBodyID(c *gin.Context, pathID uuid.UUID, bodyID string) bool {
	id, err := uuid.Parse(bodyID)
	if err != nil || id != pathID {
		response.Abort(c, services.CodeValidation, "bountyId in body does not match path")
		return false
	}
	return true
}

// bindOptionalJSON binds a body when one was sent. An empty body, chunked or
// not, leaves obj untouched.
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		response.Invalid(c, err)
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
