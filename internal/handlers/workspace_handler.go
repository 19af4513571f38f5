package handlers

import (
	"net/http"

	"bounty-market/internal/auth"
	"bounty-market/internal/models"
	"bounty-market/internal/response"
	"bounty-market/internal/services"

	"github.com/gin-gonic/gin"
)

type WorkspaceHandler struct {
	workspaceService *services.WorkspaceService
}

func NewWorkspaceHandler(workspaceService *services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
	}
}

// CreateWorkspace creates a workspace owned by the caller
// POST /api/workspaces
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	var req models.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	ws, err := h.workspaceService.CreateWorkspace(c.Request.Context(), auth.GetPubkey(c), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusCreated, ws)
}

// GetWorkspace returns a workspace and its members
// GET /api/workspaces/:id
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	wsID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	ws, err := h.workspaceService.GetWorkspace(c.Request.Context(), auth.GetPubkey(c), wsID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, ws)
}

// AddMember adds a member or changes their role
// POST /api/workspaces/:id/members
func (h *WorkspaceHandler) AddMember(c *gin.Context) {
	wsID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	member, err := h.workspaceService.AddMember(c.Request.Context(), auth.GetPubkey(c), wsID, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, member)
}

// GetBudget returns the workspace ledger
// GET /api/workspaces/:id/budget
func (h *WorkspaceHandler) GetBudget(c *gin.Context) {
	wsID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.workspaceService.GetBudgetSummary(c.Request.Context(), auth.GetPubkey(c), wsID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, summary)
}

// Deposit funds the workspace budget
// POST /api/workspaces/:id/budget/deposit
func (h *WorkspaceHandler) Deposit(c *gin.Context) {
	wsID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	summary, err := h.workspaceService.Deposit(c.Request.Context(), auth.GetPubkey(c), wsID, req.Amount)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, summary)
}
