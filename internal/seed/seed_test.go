package seed

import (
	"context"
	"strings"
	"testing"

	"bounty-market/internal/models"
	"bounty-market/internal/repository"
	"bounty-market/internal/services"
	"bounty-market/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureYAML = `
workspaces:
  - name: Lightning Devs
    description: wallet and node tooling
    owner: 02aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa
    deposit: 250000
    members:
      - pubkey: 03cccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc
        role: CONTRIBUTOR
    bounties:
      - title: Add LNURL-withdraw
        amount: 50000
        status: OPEN
        languages: [go]
      - title: Write docs
        amount: 5000
`

func TestParseAndApply(t *testing.T) {
	ctx := context.Background()
	fixture, err := Parse(strings.NewReader(fixtureYAML))
	require.NoError(t, err)
	require.Len(t, fixture.Workspaces, 1)
	assert.Equal(t, models.RoleContributor, fixture.Workspaces[0].Members[0].Role)

	repo := repository.NewRepository(testutil.NewDB(t))
	workspaces := services.NewWorkspaceService(repo)
	bounties := services.NewBountyService(repo, services.BountyOptions{ReserveOnPublish: true})

	created, err := Apply(ctx, fixture, workspaces, bounties)
	require.NoError(t, err)
	require.Len(t, created, 1)

	owner := fixture.Workspaces[0].Owner
	summary, err := workspaces.GetBudgetSummary(ctx, owner, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(250000), summary.TotalBudget)
	assert.Equal(t, int64(200000), summary.AvailableBudget)
	assert.Equal(t, int64(50000), summary.ReservedBudget)

	list, total, err := bounties.ListBounties(ctx, fixture.Workspaces[0].Members[0].Pubkey, created[0].ID, repository.BountyFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)
}

func TestParseRejects(t *testing.T) {
	_, err := Parse(strings.NewReader("workspaces:\n  - name: no owner\n"))
	assert.ErrorContains(t, err, "owner is required")

	_, err = Parse(strings.NewReader("workspaces:\n  - name: x\n    owner: 02aa\n    colour: red\n"))
	assert.Error(t, err)
}
