package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bounty-market/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := map[services.ErrorCode]int{
		services.CodeUnauthorized:       http.StatusUnauthorized,
		services.CodeForbidden:          http.StatusForbidden,
		services.CodeNotFound:           http.StatusNotFound,
		services.CodeValidation:         http.StatusBadRequest,
		services.CodeInvalidState:       http.StatusConflict,
		services.CodeNoAcceptedProof:    http.StatusUnprocessableEntity,
		services.CodeInsufficientBudget: http.StatusUnprocessableEntity,
		services.CodeConflict:           http.StatusConflict,
		services.CodeInternal:           http.StatusInternalServerError,
		"SOMETHING_NEW":                 http.StatusInternalServerError,
	}
	for code, status := range tests {
		assert.Equal(t, status, StatusFor(code), code)
	}
}

func serve(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), Recovery())
	router.GET("/", handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestFailHidesInternalErrors(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Fail(c, fmt.Errorf("complete bounty: %w", errors.New("pq: connection reset by peer")))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INTERNAL_ERROR"`)
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestFailPassesServiceErrors(t *testing.T) {
	w := serve(func(c *gin.Context) {
		Fail(c, fmt.Errorf("wrapped: %w", services.ErrNoAcceptedProof))
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), `"code":"NO_ACCEPTED_PROOF"`)
}

func TestRecoveryWritesEnvelope(t *testing.T) {
	w := serve(func(c *gin.Context) {
		panic("boom")
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INTERNAL_ERROR"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
