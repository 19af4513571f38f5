package handlers

import (
	"net/http"

	"bounty-market/internal/auth"
	"bounty-market/internal/models"
	"bounty-market/internal/repository"
	"bounty-market/internal/response"
	"bounty-market/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BountyHandler struct {
	bountyService *services.BountyService
}

func NewBountyHandler(bountyService *services.BountyService) *BountyHandler {
	return &BountyHandler{
		bountyService: bountyService,
	}
}

// bountyCard is a bounty as shown in a list
type bountyCard struct {
	*models.Bounty
	AmountBTC string             `json:"amount_btc"`
	Theme     services.CardTheme `json:"theme"`
}

// ids parses the workspace and bounty path parameters
func ids(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	wsID, ok := uuidParam(c, "id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	bountyID, ok := uuidParam(c, "bountyId")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return wsID, bountyID, true
}

func respond(c *gin.Context, result *services.TransitionResult, err error) {
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, result)
}

// CreateBounty posts a new bounty
// POST /api/workspaces/:id/bounties
func (h *BountyHandler) CreateBounty(c *gin.Context) {
	wsID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateBountyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	result, err := h.bountyService.CreateBounty(c.Request.Context(), auth.GetPubkey(c), wsID, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusCreated, result)
}

// ListBounties lists a workspace's bounties
// GET /api/workspaces/:id/bounties?status=&assignee=&limit=&offset=
func (h *BountyHandler) ListBounties(c *gin.Context) {
	wsID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	filter := repository.BountyFilter{
		Status:   models.BountyStatus(c.Query("status")),
		Assignee: c.Query("assignee"),
		Limit:    queryInt(c, "limit", 20),
		Offset:   queryInt(c, "offset", 0),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		response.Abort(c, services.CodeValidation, "unknown status "+string(filter.Status))
		return
	}

	bounties, total, err := h.bountyService.ListBounties(c.Request.Context(), auth.GetPubkey(c), wsID, filter)
	if err != nil {
		response.Fail(c, err)
		return
	}

	cards := make([]bountyCard, len(bounties))
	for i, b := range bounties {
		cards[i] = bountyCard{Bounty: b, AmountBTC: services.SatsToBTC(b.Amount), Theme: services.ThemeForIndex(i)}
	}

	response.OK(c, http.StatusOK, gin.H{
		"bounties": cards,
		"total":    total,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})
}

// GetBounty returns one bounty with its proofs
// GET /api/workspaces/:id/bounties/:bountyId
func (h *BountyHandler) GetBounty(c *gin.Context) {
	wsID, bountyID, ok := ids(c)
	if !ok {
		return
	}

	detail, err := h.bountyService.GetBounty(c.Request.Context(), auth.GetPubkey(c), wsID, bountyID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, detail)
}

// GetActivity returns the audit trail of a bounty
// GET /api/workspaces/:id/bounties/:bountyId/activity
func (h *BountyHandler) GetActivity(c *gin.Context) {
	wsID, bountyID, ok := ids(c)
	if !ok {
		return
	}

	activities, err := h.bountyService.ListActivity(c.Request.Context(), auth.GetPubkey(c), wsID, bountyID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"activities": activities})
}

// PublishBounty opens a draft for claims
// PATCH /api/workspaces/:id/bounties/:bountyId/publish
func (h *BountyHandler) PublishBounty(c *gin.Context) {
	wsID, bountyID, ok := ids(c)
	if !ok {
		return
	}

	result, err := h.bountyService.PublishBounty(c.Request.Context(), auth.GetPubkey(c), wsID, bountyID)
	respond(c, result, err)
}

// ClaimBounty assigns an open bounty to the caller
// PATCH /api/workspaces/:id/bounties/:bountyId/claim
func (h *BountyHandler) ClaimBounty(c *gin.Context) {
	wsID, bountyID, ok := ids(c)
	if !ok {
		return
	}

	var req models.ClaimBountyRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.bountyService.ClaimBounty(c.Request.Context(), auth.GetPubkey(c), wsID, bountyID, req.Message)
	respond(c, result, err)
}

// UnclaimBounty returns an assigned bounty to OPEN
// PATCH /api/workspaces/:id/bounties/:bountyId/unclaim
func (h *BountyHandler) UnclaimBounty(c *gin.Context) {
	wsID, bountyID, ok := ids(c)
	if !ok {
		return
	}

	var req models.UnclaimBountyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	result, err := h.bountyService.UnclaimBounty(c.Request.Context(), auth.GetPubkey(c), wsID, bountyID, req.Reason)
	respond(c, result, err)
}

// SubmitProof attaches proof of work and moves the bounty to review
// POST /api/workspaces/:id/bounties/:bountyId/proofs
func (h *BountyHandler) SubmitProof(c *gin.Context) {
	wsID, bountyID, ok := ids(c)
	if !ok {
		return
	}

	var req models.SubmitProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	result, err := h.bountyService.SubmitProof(c.Request.Context(), auth.GetPubkey(c), wsID, bountyID, &req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusCreated, result)
}

// ReviewProof accepts, rejects or requests changes on a proof
// PATCH /api/workspaces/:id/bounties/:bountyId/proofs/:proofId/review
func (h *BountyHandler) ReviewProof(c *gin.Context) {
	wsID, bountyID, ok := ids(c)
	if !ok {
		return
	}
	proofID, ok := uuidParam(c, "proofId")
	if !ok {
		return
	}

	var req models.ReviewProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}

	result, err := h.bountyService.ReviewProof(c.Request.Context(), auth.GetPubkey(c), wsID, bountyID, proofID, &req)
	respond(c, result, err)
}

// CompleteBounty closes a reviewed bounty
// PATCH /api/workspaces/:id/bounties/:bountyId/complete
func (h *BountyHandler) CompleteBounty(c *gin.Context) {
	wsID, bountyID, ok := ids(c)
	if !ok {
		return
	}

	var req models.CompleteBountyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	if !matchBodyID(c, bountyID, req.BountyID) {
		return
	}

	result, err := h.bountyService.CompleteBounty(c.Request.Context(), auth.GetPubkey(c), wsID, bountyID)
	respond(c, result, err)
}

// CancelBounty cancels a bounty and releases its reservation
// PATCH /api/workspaces/:id/bounties/:bountyId/cancel
func (h *BountyHandler) CancelBounty(c *gin.Context) {
	wsID, bountyID, ok := ids(c)
	if !ok {
		return
	}

	var req models.CancelBountyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Invalid(c, err)
		return
	}
	if !matchBodyID(c, bountyID, req.BountyID) {
		return
	}

	result, err := h.bountyService.CancelBounty(c.Request.Context(), auth.GetPubkey(c), wsID, bountyID, req.Reason)
	respond(c, result, err)
}

// MarkPaid records the Lightning payout of a completed bounty
// PATCH /api/workspaces/:id/bounties/:bountyId/mark-paid
func (h *BountyHandler) MarkPaid(c *gin.Context) {
	wsID, bountyID, ok := ids(c)
	if !ok {
		return
	}

	var req models.MarkPaidRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.bountyService.MarkPaid(c.Request.Context(), auth.GetPubkey(c), wsID, bountyID, req.PaymentHash)
	respond(c, result, err)
}

// DeleteBounty soft-deletes a draft or cancelled bounty
// DELETE /api/workspaces/:id/bounties/:bountyId
func (h *BountyHandler) DeleteBounty(c *gin.Context) {
	wsID, bountyID, ok := ids(c)
	if !ok {
		return
	}

	if err := h.bountyService.DeleteBounty(c.Request.Context(), auth.GetPubkey(c), wsID, bountyID); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"message": "Bounty deleted"})
}
