package services

import (
	"context"
	"strings"
	"testing"

	"bounty-market/internal/models"
	"bounty-market/internal/repository"
	"bounty-market/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func pubkey(b byte) string {
	return "02" + strings.Repeat(string("0123456789abcdef"[b%16]), 64)
}

var (
	ownerKey       = pubkey(1)
	adminKey       = pubkey(2)
	contributorKey = pubkey(3)
	otherKey       = pubkey(4)
	viewerKey      = pubkey(5)
	outsiderKey    = pubkey(6)
)

// fixture is a workspace with one member per role
type fixture struct {
	t          *testing.T
	ctx        context.Context
	db         *gorm.DB
	repo       *repository.Repository
	workspaces *WorkspaceService
	bounties   *BountyService
	wsID       uuid.UUID
}

func newFixture(t *testing.T, opts BountyOptions) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	repo := repository.NewRepository(db)
	f := &fixture{
		t:          t,
		ctx:        context.Background(),
		db:         db,
		repo:       repo,
		workspaces: NewWorkspaceService(repo),
		bounties:   NewBountyService(repo, opts),
	}

	ws, err := f.workspaces.CreateWorkspace(f.ctx, ownerKey, &models.CreateWorkspaceRequest{Name: "Lightning Devs"})
	require.NoError(t, err)
	f.wsID = ws.ID

	for key, role := range map[string]models.MemberRole{
		adminKey:       models.RoleAdmin,
		contributorKey: models.RoleContributor,
		otherKey:       models.RoleContributor,
		viewerKey:      models.RoleViewer,
	} {
		_, err := f.workspaces.AddMember(f.ctx, ownerKey, f.wsID, &models.AddMemberRequest{Pubkey: key, Role: role})
		require.NoError(t, err)
	}
	return f
}

func (f *fixture) budget() *models.WorkspaceBudget {
	f.t.Helper()
	b, err := f.repo.GetBudget(f.ctx, f.wsID)
	require.NoError(f.t, err)
	return b
}

// setBudget overwrites the ledger directly, bypassing the services
func (f *fixture) setBudget(total, available, reserved, paid int64) {
	f.t.Helper()
	err := f.db.Model(&models.WorkspaceBudget{}).
		Where("workspace_id = ?", f.wsID).
		Updates(map[string]interface{}{
			"total_budget":     total,
			"available_budget": available,
			"reserved_budget":  reserved,
			"paid_budget":      paid,
		}).Error
	require.NoError(f.t, err)
}

func (f *fixture) requireBalanced() {
	f.t.Helper()
	b := f.budget()
	require.Equal(f.t, b.TotalBudget, b.AvailableBudget+b.ReservedBudget+b.PaidBudget,
		"budget out of balance: %+v", b)
}

func (f *fixture) bounty(id uuid.UUID) *models.Bounty {
	f.t.Helper()
	b, err := f.repo.GetBounty(f.ctx, f.wsID, id)
	require.NoError(f.t, err)
	return b
}

func (f *fixture) create(actor string, amount int64, status models.BountyStatus) *models.Bounty {
	f.t.Helper()
	res, err := f.bounties.CreateBounty(f.ctx, actor, f.wsID, &models.CreateBountyRequest{
		Title:  "Add BOLT12 offers to checkout",
		Amount: amount,
		Status: status,
		Tags:   []string{"lightning"},
	})
	require.NoError(f.t, err)
	return res.Bounty
}

func (f *fixture) claimed(amount int64) *models.Bounty {
	f.t.Helper()
	b := f.create(ownerKey, amount, models.BountyStatusOpen)
	_, err := f.bounties.ClaimBounty(f.ctx, contributorKey, f.wsID, b.ID, "")
	require.NoError(f.t, err)
	return b
}

func (f *fixture) inReview(amount int64) (*models.Bounty, *models.BountyProof) {
	f.t.Helper()
	b := f.claimed(amount)
	res, err := f.bounties.SubmitProof(f.ctx, contributorKey, f.wsID, b.ID, &models.SubmitProofRequest{
		ProofURL: "https://github.com/acme/shop/pull/42",
	})
	require.NoError(f.t, err)
	return b, res.Proof
}

func (f *fixture) completed(amount int64) *models.Bounty {
	f.t.Helper()
	b, proof := f.inReview(amount)
	_, err := f.bounties.ReviewProof(f.ctx, adminKey, f.wsID, b.ID, proof.ID, &models.ReviewProofRequest{Status: models.ProofStatusAccepted})
	require.NoError(f.t, err)
	_, err = f.bounties.CompleteBounty(f.ctx, adminKey, f.wsID, b.ID)
	require.NoError(f.t, err)
	return b
}

func requireCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, CodeOf(err), "unexpected error: %v", err)
}
