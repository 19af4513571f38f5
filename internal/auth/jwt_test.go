package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPubkey = "02c1f0e2a5b3d4f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0c1d2e3f4a5b6c7d8e9f0a1"

func TestTokenRoundTrip(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	token, err := GenerateToken(testPubkey, "Swift_Node_0042")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, testPubkey, claims.Subject)
	assert.Equal(t, "Swift_Node_0042", claims.DisplayName)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	InitJWT("secret-a", time.Hour)
	token, err := GenerateToken(testPubkey, "")
	require.NoError(t, err)

	InitJWT("secret-b", time.Hour)
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsForeignClaims(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	sign := func(claims jwt.RegisteredClaims) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: claims}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return token
	}
	expires := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name  string
		token string
	}{
		{"other issuer", sign(jwt.RegisteredClaims{Issuer: "someone-else", Subject: testPubkey, ExpiresAt: expires})},
		{"no expiry", sign(jwt.RegisteredClaims{Issuer: Issuer, Subject: testPubkey})},
		{"expired", sign(jwt.RegisteredClaims{Issuer: Issuer, Subject: testPubkey, ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))})},
		{"subject not a key", sign(jwt.RegisteredClaims{Issuer: Issuer, Subject: "alice", ExpiresAt: expires})},
		{"uncompressed prefix", sign(jwt.RegisteredClaims{Issuer: Issuer, Subject: "04" + testPubkey[2:], ExpiresAt: expires})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateToken(tt.token)
			assert.Error(t, err)
		})
	}

	_, err := ValidateToken(sign(jwt.RegisteredClaims{Issuer: Issuer, Subject: testPubkey, ExpiresAt: expires}))
	assert.NoError(t, err)
}

func TestGenerateTokenRequiresLinkingKey(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	_, err := GenerateToken("not-a-key", "")
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	InitJWT("test-secret", time.Hour)

	router := gin.New()
	router.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, GetPubkey(c))
	})

	token, err := GenerateToken(testPubkey, "")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, testPubkey, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"code":"UNAUTHORIZED"`)
			}
		})
	}
}
