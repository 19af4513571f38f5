package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"bounty-market/internal/models"
	"bounty-market/internal/repository"

	"github.com/google/uuid"
)

var cancellableStatuses = []models.BountyStatus{
	models.BountyStatusDraft,
	models.BountyStatusOpen,
	models.BountyStatusAssigned,
	models.BountyStatusInReview,
}

// CancelBounty cancels a bounty that has not been completed and releases its
// reservation back to the available bucket.
func (s *BountyService) CancelBounty(
	ctx context.Context,
	actor string,
	workspaceID, bountyID uuid.UUID,
	reason string,
) (*TransitionResult, error) {
	reason = strings.TrimSpace(reason)
	rule := transitionRule{
		name:         "cancel",
		roles:        moderatorRoles,
		allowCreator: true,
		statuses:     cancellableStatuses,
		validate:     func() error { return checkReason(reason) },
	}

	result := &TransitionResult{Message: "Bounty cancelled"}
	err := s.transact(ctx, "cancel bounty", func(tx *repository.Repository) error {
		g, err := guard(ctx, tx, actor, workspaceID, bountyID, rule)
		if err != nil {
			return err
		}
		bounty := g.bounty
		previous := bounty.Status

		now := s.now()
		bounty.Status = models.BountyStatusCancelled
		bounty.AssigneePubkey = nil
		bounty.WorkClosedAt = &now
		bounty.UpdatedAt = now
		if err := tx.UpdateBounty(ctx, bounty, "status", "assignee_pubkey", "work_closed_at"); err != nil {
			return err
		}

		var released int64
		if previous.HoldsReservation() {
			budget, err := s.moveBudget(ctx, tx, workspaceID, releaseMove(bounty.Amount), false)
			if err != nil {
				return err
			}
			result.Budget = budget
			released = bounty.Amount
		}

		result.Bounty = bounty
		return s.record(ctx, tx, bounty, actor, models.ActivityCancelled, models.JSONB{
			"reason":          reason,
			"previous_status": string(previous),
			"released":        released,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[CancelBounty] Bounty %s cancelled by %s", bountyID, actor)
	return result, nil
}

// DeleteBounty soft-deletes a DRAFT or CANCELLED bounty
func (s *BountyService) DeleteBounty(ctx context.Context, actor string, workspaceID, bountyID uuid.UUID) error {
	rule := transitionRule{
		name:         "delete",
		roles:        moderatorRoles,
		allowCreator: true,
		statuses:     []models.BountyStatus{models.BountyStatusDraft, models.BountyStatusCancelled},
	}

	err := s.transact(ctx, "delete bounty", func(tx *repository.Repository) error {
		g, err := guard(ctx, tx, actor, workspaceID, bountyID, rule)
		if err != nil {
			return err
		}

		if err := s.record(ctx, tx, g.bounty, actor, models.ActivityDeleted, models.JSONB{
			"status": string(g.bounty.Status),
		}); err != nil {
			return err
		}

		if err := tx.SoftDeleteBounty(ctx, g.bounty); err != nil {
			return fmt.Errorf("failed to delete bounty: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("[DeleteBounty] Bounty %s deleted by %s", bountyID, actor)
	return nil
}
