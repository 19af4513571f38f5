package handlers

import (
	"net/http"

	"bounty-market/internal/auth"
	"bounty-market/internal/models"
	"bounty-market/internal/response"
	"bounty-market/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Challenge issues a single-use k1 for the wallet to sign
// POST /auth/challenge
func (h *AuthHandler) Challenge(c *gin.Context) {
	challenge, err := h.authService.IssueChallenge(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"k1":         challenge.K1,
		"expires_at": challenge.ExpiresAt,
	})
}

// Login verifies the signed challenge and returns a session token
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.Pubkey, req.K1, req.Signature)
	if err != nil {
		response.Fail(c, err)
		return
	}

	token, err := auth.GenerateToken(user.Pubkey, user.DisplayName)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// GetMe returns the currently authenticated user's profile
// GET /auth/me
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, err := h.authService.GetUser(c.Request.Context(), auth.GetPubkey(c))
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"user": user})
}
