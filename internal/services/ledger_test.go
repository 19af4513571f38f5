package services

import (
	"testing"

	"bounty-market/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyMove(t *testing.T) {
	tests := []struct {
		name   string
		budget models.WorkspaceBudget
		move   LedgerMove
		want   models.WorkspaceBudget
	}{
		{
			name:   "reserve",
			budget: models.WorkspaceBudget{TotalBudget: 10000, AvailableBudget: 10000},
			move:   reserveMove(2500),
			want:   models.WorkspaceBudget{TotalBudget: 10000, AvailableBudget: 7500, ReservedBudget: 2500},
		},
		{
			name:   "release",
			budget: models.WorkspaceBudget{TotalBudget: 5000, ReservedBudget: 5000},
			move:   releaseMove(5000),
			want:   models.WorkspaceBudget{TotalBudget: 5000, AvailableBudget: 5000},
		},
		{
			name:   "payout",
			budget: models.WorkspaceBudget{TotalBudget: 5000, ReservedBudget: 5000},
			move:   payoutMove(5000),
			want:   models.WorkspaceBudget{TotalBudget: 5000, PaidBudget: 5000},
		},
		{
			name:   "payout without reservation goes negative",
			budget: models.WorkspaceBudget{},
			move:   payoutMove(10000),
			want:   models.WorkspaceBudget{ReservedBudget: -10000, PaidBudget: 10000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.budget
			require.NoError(t, ApplyMove(&b, tt.move))
			assert.Equal(t, tt.want, b)
			assert.True(t, b.Balanced())
		})
	}
}

func TestApplyMoveRejects(t *testing.T) {
	b := models.WorkspaceBudget{TotalBudget: 100, AvailableBudget: 100}

	assert.Error(t, ApplyMove(&b, LedgerMove{From: BucketAvailable, To: BucketReserved, Amount: 0}))
	assert.Error(t, ApplyMove(&b, LedgerMove{From: BucketAvailable, To: BucketReserved, Amount: -5}))
	assert.Error(t, ApplyMove(&b, LedgerMove{From: BucketPaid, To: BucketPaid, Amount: 5}))
	assert.Error(t, ApplyMove(&b, LedgerMove{From: "escrow", To: BucketPaid, Amount: 5}))
	assert.Equal(t, int64(100), b.AvailableBudget)
}

func TestApplyDeposit(t *testing.T) {
	b := models.WorkspaceBudget{TotalBudget: 100, AvailableBudget: 40, ReservedBudget: 60}
	require.NoError(t, ApplyDeposit(&b, 900))
	assert.Equal(t, int64(1000), b.TotalBudget)
	assert.Equal(t, int64(940), b.AvailableBudget)
	assert.True(t, b.Balanced())

	assert.Error(t, ApplyDeposit(&b, 0))
}

func TestSatsToBTC(t *testing.T) {
	assert.Equal(t, "0.00000001", SatsToBTC(1))
	assert.Equal(t, "0.00010000", SatsToBTC(10000))
	assert.Equal(t, "21.00000000", SatsToBTC(2_100_000_000))
}

func TestUtilization(t *testing.T) {
	assert.True(t, Utilization(&models.WorkspaceBudget{}).IsZero())

	u := Utilization(&models.WorkspaceBudget{TotalBudget: 3000, AvailableBudget: 2000, ReservedBudget: 500, PaidBudget: 500})
	assert.Equal(t, "33.33", u.String())
}
