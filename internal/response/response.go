package response

import (
	"errors"
	"log"
	"net/http"
	"time"

	"bounty-market/internal/services"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key holding the request id
const RequestIDKey = "request_id"

// Envelope is the body of every API response
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

type ErrorBody struct {
	Code    services.ErrorCode `json:"code"`
	Message string             `json:"message"`
}

type Meta struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

var statusByCode = map[services.ErrorCode]int{
	services.CodeUnauthorized:       http.StatusUnauthorized,
	services.CodeForbidden:          http.StatusForbidden,
	services.CodeNotFound:           http.StatusNotFound,
	services.CodeValidation:         http.StatusBadRequest,
	services.CodeInvalidState:       http.StatusConflict,
	services.CodeNoAcceptedProof:    http.StatusUnprocessableEntity,
	services.CodeInsufficientBudget: http.StatusUnprocessableEntity,
	services.CodeConflict:           http.StatusConflict,
	services.CodeInternal:           http.StatusInternalServerError,
}

// StatusFor maps an error code to its HTTP status
func StatusFor(code services.ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func meta(c *gin.Context) Meta {
	return Meta{Timestamp: time.Now().UTC(), RequestID: c.GetString(RequestIDKey)}
}

// OK writes a success envelope
func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data, Meta: meta(c)})
}

// Abort writes an error envelope and stops the handler chain
func Abort(c *gin.Context, code services.ErrorCode, message string) {
	c.AbortWithStatusJSON(StatusFor(code), Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
		Meta:    meta(c),
	})
}

// Fail translates a service error into an error envelope. Errors that are not
// *services.Error are logged and reported as a generic internal error.
func Fail(c *gin.Context, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		Abort(c, svcErr.Code, svcErr.Message)
		return
	}

	log.Printf("[API] %s %s (request %s): %v", c.Request.Method, c.Request.URL.Path, c.GetString(RequestIDKey), err)
	Abort(c, services.CodeInternal, "internal server error")
}

// Invalid reports a request binding failure
func Invalid(c *gin.Context, err error) {
	Abort(c, services.CodeValidation, err.Error())
}
