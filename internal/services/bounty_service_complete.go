package services

import (
	"context"
	"fmt"
	"log"

	"bounty-market/internal/models"
	"bounty-market/internal/repository"

	"github.com/google/uuid"
)

// CompleteBounty closes an IN_REVIEW bounty that has at least one accepted proof
func (s *BountyService) CompleteBounty(ctx context.Context, actor string, workspaceID, bountyID uuid.UUID) (*TransitionResult, error) {
	rule := transitionRule{
		name:     "complete",
		roles:    moderatorRoles,
		statuses: []models.BountyStatus{models.BountyStatusInReview},
	}

	result := &TransitionResult{Message: "Bounty completed"}
	err := s.transact(ctx, "complete bounty", func(tx *repository.Repository) error {
		g, err := guard(ctx, tx, actor, workspaceID, bountyID, rule)
		if err != nil {
			return err
		}
		bounty := g.bounty

		accepted, err := tx.CountProofsByStatus(ctx, bounty.ID, models.ProofStatusAccepted)
		if err != nil {
			return fmt.Errorf("failed to count accepted proofs: %w", err)
		}
		if accepted == 0 {
			return newError(CodeNoAcceptedProof, "bounty has no accepted proof")
		}

		now := s.now()
		bounty.Status = models.BountyStatusCompleted
		bounty.CompletedAt = &now
		bounty.WorkClosedAt = &now
		bounty.UpdatedAt = now
		if err := tx.UpdateBounty(ctx, bounty, "status", "completed_at", "work_closed_at"); err != nil {
			return err
		}

		result.Bounty = bounty
		return s.record(ctx, tx, bounty, actor, models.ActivityCompleted, models.JSONB{
			"accepted_proofs": accepted,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[CompleteBounty] Bounty %s completed by %s", bountyID, actor)
	return result, nil
}

// MarkPaid records the payout of a COMPLETED bounty and moves its amount
// from the reserved bucket to the paid bucket.
func (s *BountyService) MarkPaid(
	ctx context.Context,
	actor string,
	workspaceID, bountyID uuid.UUID,
	paymentHash string,
) (*TransitionResult, error) {
	rule := transitionRule{
		name:     "mark paid",
		roles:    moderatorRoles,
		statuses: []models.BountyStatus{models.BountyStatusCompleted},
	}

	result := &TransitionResult{Message: "Bounty marked as paid"}
	err := s.transact(ctx, "mark bounty paid", func(tx *repository.Repository) error {
		g, err := guard(ctx, tx, actor, workspaceID, bountyID, rule)
		if err != nil {
			return err
		}
		bounty := g.bounty

		now := s.now()
		bounty.Status = models.BountyStatusPaid
		bounty.PaidAt = &now
		bounty.UpdatedAt = now
		if err := tx.UpdateBounty(ctx, bounty, "status", "paid_at"); err != nil {
			return err
		}

		budget, err := s.moveBudget(ctx, tx, workspaceID, payoutMove(bounty.Amount), false)
		if err != nil {
			return err
		}

		result.Bounty = bounty
		result.Budget = budget

		details := models.JSONB{"amount": bounty.Amount}
		if bounty.AssigneePubkey != nil {
			details["recipient"] = *bounty.AssigneePubkey
		}
		if paymentHash != "" {
			details["payment_hash"] = paymentHash
		}
		return s.record(ctx, tx, bounty, actor, models.ActivityPaid, details)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[MarkPaid] Bounty %s paid (%d sats) by %s", bountyID, result.Bounty.Amount, actor)
	return result, nil
}
