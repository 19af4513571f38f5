package services

import (
	"testing"

	"bounty-market/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWorkspace(t *testing.T) {
	f := newFixture(t, BountyOptions{})

	ws, err := f.workspaces.GetWorkspace(f.ctx, viewerKey, f.wsID)
	require.NoError(t, err)
	assert.Equal(t, "Lightning Devs", ws.Name)
	assert.Equal(t, ownerKey, ws.OwnerPubkey)
	assert.Len(t, ws.Members, 5)

	budget := f.budget()
	assert.Zero(t, budget.TotalBudget)
	assert.True(t, budget.Balanced())

	_, err = f.workspaces.CreateWorkspace(f.ctx, ownerKey, &models.CreateWorkspaceRequest{Name: " "})
	requireCode(t, err, CodeValidation)

	_, err = f.workspaces.CreateWorkspace(f.ctx, "", &models.CreateWorkspaceRequest{Name: "anon"})
	requireCode(t, err, CodeUnauthorized)

	_, err = f.workspaces.GetWorkspace(f.ctx, outsiderKey, f.wsID)
	requireCode(t, err, CodeForbidden)
}

func TestAddMemberRoleRules(t *testing.T) {
	f := newFixture(t, BountyOptions{})

	_, err := f.workspaces.AddMember(f.ctx, contributorKey, f.wsID, &models.AddMemberRequest{Pubkey: outsiderKey, Role: models.RoleContributor})
	requireCode(t, err, CodeForbidden)

	_, err = f.workspaces.AddMember(f.ctx, adminKey, f.wsID, &models.AddMemberRequest{Pubkey: outsiderKey, Role: models.RoleAdmin})
	requireCode(t, err, CodeForbidden)

	_, err = f.workspaces.AddMember(f.ctx, adminKey, f.wsID, &models.AddMemberRequest{Pubkey: ownerKey, Role: models.RoleViewer})
	requireCode(t, err, CodeForbidden)

	_, err = f.workspaces.AddMember(f.ctx, ownerKey, f.wsID, &models.AddMemberRequest{Pubkey: outsiderKey, Role: "SUPERUSER"})
	requireCode(t, err, CodeValidation)

	member, err := f.workspaces.AddMember(f.ctx, adminKey, f.wsID, &models.AddMemberRequest{Pubkey: outsiderKey, Role: models.RoleContributor})
	require.NoError(t, err)
	assert.Equal(t, models.RoleContributor, member.Role)

	// re-adding changes the role
	_, err = f.workspaces.AddMember(f.ctx, ownerKey, f.wsID, &models.AddMemberRequest{Pubkey: outsiderKey, Role: models.RoleAdmin})
	require.NoError(t, err)
	role, err := f.repo.GetMemberRole(f.ctx, f.wsID, outsiderKey)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	// admins cannot demote other admins
	_, err = f.workspaces.AddMember(f.ctx, adminKey, f.wsID, &models.AddMemberRequest{Pubkey: outsiderKey, Role: models.RoleViewer})
	requireCode(t, err, CodeForbidden)
}

func TestAddMemberKeepsAnOwner(t *testing.T) {
	f := newFixture(t, BountyOptions{})

	_, err := f.workspaces.AddMember(f.ctx, ownerKey, f.wsID, &models.AddMemberRequest{Pubkey: ownerKey, Role: models.RoleAdmin})
	requireCode(t, err, CodeInvalidState)
	role, err := f.repo.GetMemberRole(f.ctx, f.wsID, ownerKey)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, role)

	_, err = f.workspaces.AddMember(f.ctx, ownerKey, f.wsID, &models.AddMemberRequest{Pubkey: adminKey, Role: models.RoleOwner})
	require.NoError(t, err)

	_, err = f.workspaces.AddMember(f.ctx, ownerKey, f.wsID, &models.AddMemberRequest{Pubkey: ownerKey, Role: models.RoleAdmin})
	require.NoError(t, err)

	owners, err := f.repo.CountMembersByRole(f.ctx, f.wsID, models.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), owners)
}

func TestDeposit(t *testing.T) {
	f := newFixture(t, BountyOptions{})

	_, err := f.workspaces.Deposit(f.ctx, adminKey, f.wsID, 1000)
	requireCode(t, err, CodeForbidden)

	_, err = f.workspaces.Deposit(f.ctx, ownerKey, f.wsID, -1)
	requireCode(t, err, CodeValidation)

	summary, err := f.workspaces.Deposit(f.ctx, ownerKey, f.wsID, 250000)
	require.NoError(t, err)
	assert.Equal(t, int64(250000), summary.TotalBudget)
	assert.Equal(t, int64(250000), summary.AvailableBudget)
	assert.Equal(t, "0.00250000", summary.TotalBTC)
	assert.True(t, summary.UtilizationPercent.IsZero())
	assert.True(t, summary.Balanced)

	got, err := f.workspaces.GetBudgetSummary(f.ctx, viewerKey, f.wsID)
	require.NoError(t, err)
	assert.Equal(t, int64(250000), got.TotalBudget)
}

func TestReconcileReportsDrift(t *testing.T) {
	f := newFixture(t, BountyOptions{})

	discrepancies, err := f.workspaces.Reconcile(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, discrepancies)

	f.setBudget(1000, 900, 0, 0)
	discrepancies, err = f.workspaces.Reconcile(f.ctx)
	require.NoError(t, err)
	require.Len(t, discrepancies, 1)
	assert.Equal(t, f.wsID, discrepancies[0].WorkspaceID)
	assert.Equal(t, int64(-100), discrepancies[0].Drift)
	assert.Contains(t, discrepancies[0].Reason, "do not sum")

	// all-zero budget paid out without a reservation: balanced but negative
	f.setBudget(0, 0, -10000, 10000)
	discrepancies, err = f.workspaces.Reconcile(f.ctx)
	require.NoError(t, err)
	require.Len(t, discrepancies, 1)
	assert.Zero(t, discrepancies[0].Drift)
	assert.Equal(t, "negative bucket", discrepancies[0].Reason)
}
