package services

import (
	"fmt"

	"bounty-market/internal/models"

	"github.com/shopspring/decimal"
)

// Bucket names one of the WorkspaceBudget balances
type Bucket string

const (
	BucketAvailable Bucket = "available"
	BucketReserved  Bucket = "reserved"
	BucketPaid      Bucket = "paid"
)

// LedgerMove transfers Amount sats between two buckets of a workspace budget.
// Moves never change the total, so a balanced budget stays balanced.
type LedgerMove struct {
	From   Bucket
	To     Bucket
	Amount int64
}

func reserveMove(amount int64) LedgerMove {
	return LedgerMove{From: BucketAvailable, To: BucketReserved, Amount: amount}
}

func releaseMove(amount int64) LedgerMove {
	return LedgerMove{From: BucketReserved, To: BucketAvailable, Amount: amount}
}

func payoutMove(amount int64) LedgerMove {
	return LedgerMove{From: BucketReserved, To: BucketPaid, Amount: amount}
}

func bucketOf(b *models.WorkspaceBudget, name Bucket) (*int64, error) {
	switch name {
	case BucketAvailable:
		return &b.AvailableBudget, nil
	case BucketReserved:
		return &b.ReservedBudget, nil
	case BucketPaid:
		return &b.PaidBudget, nil
	}
	return nil, fmt.Errorf("unknown budget bucket %q", name)
}

// ApplyMove applies m to budget in memory.
//
// Buckets are not floored at zero: when reservation on publish is disabled a
// payout or release can drive the reserved bucket negative. The reconciler
// reports such budgets.
func ApplyMove(budget *models.WorkspaceBudget, m LedgerMove) error {
	if m.Amount <= 0 {
		return fmt.Errorf("ledger move amount must be positive, got %d", m.Amount)
	}
	if m.From == m.To {
		return fmt.Errorf("ledger move from %s to itself", m.From)
	}
	from, err := bucketOf(budget, m.From)
	if err != nil {
		return err
	}
	to, err := bucketOf(budget, m.To)
	if err != nil {
		return err
	}
	*from -= m.Amount
	*to += m.Amount
	return nil
}

// ApplyDeposit adds fresh sats to the total and the available bucket
func ApplyDeposit(budget *models.WorkspaceBudget, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("deposit amount must be positive, got %d", amount)
	}
	budget.TotalBudget += amount
	budget.AvailableBudget += amount
	return nil
}

var satsPerBTC = decimal.NewFromInt(100_000_000)

// SatsToBTC renders a sats amount as a fixed 8-decimal BTC string
func SatsToBTC(sats int64) string {
	return decimal.NewFromInt(sats).Div(satsPerBTC).StringFixed(8)
}

// Utilization is the share of the total budget that is reserved or paid, in percent
func Utilization(budget *models.WorkspaceBudget) decimal.Decimal {
	if budget.TotalBudget <= 0 {
		return decimal.Zero
	}
	committed := decimal.NewFromInt(budget.ReservedBudget + budget.PaidBudget)
	return committed.Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(budget.TotalBudget)).Round(2)
}
