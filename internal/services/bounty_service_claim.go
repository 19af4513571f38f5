package services

import (
	"context"
	"log"
	"strings"

	"bounty-market/internal/models"
	"bounty-market/internal/repository"

	"github.com/google/uuid"
)

const minReasonLength = 10

func checkReason(reason string) error {
	if len([]rune(reason)) < minReasonLength {
		return newError(CodeValidation, "reason must be at least %d characters", minReasonLength)
	}
	return nil
}

// ClaimBounty assigns an OPEN bounty to the caller
func (s *BountyService) ClaimBounty(
	ctx context.Context,
	actor string,
	workspaceID, bountyID uuid.UUID,
	message string,
) (*TransitionResult, error) {
	rule := transitionRule{
		name:     "claim",
		roles:    contributorRoles,
		statuses: []models.BountyStatus{models.BountyStatusOpen},
	}

	result := &TransitionResult{Message: "Bounty claimed"}
	err := s.transact(ctx, "claim bounty", func(tx *repository.Repository) error {
		g, err := guard(ctx, tx, actor, workspaceID, bountyID, rule)
		if err != nil {
			return err
		}
		bounty := g.bounty

		if bounty.AssigneePubkey != nil {
			return newError(CodeInvalidState, "bounty is already assigned")
		}

		now := s.now()
		assignee := actor
		bounty.Status = models.BountyStatusAssigned
		bounty.AssigneePubkey = &assignee
		bounty.AssignedAt = &now
		bounty.WorkStartedAt = &now
		bounty.UpdatedAt = now
		if err := tx.UpdateBounty(ctx, bounty, "status", "assignee_pubkey", "assigned_at", "work_started_at"); err != nil {
			return err
		}

		result.Bounty = bounty
		return s.record(ctx, tx, bounty, actor, models.ActivityAssigned, models.JSONB{
			"message": message,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ClaimBounty] Bounty %s claimed by %s", bountyID, actor)
	return result, nil
}

// UnclaimBounty returns an ASSIGNED bounty to OPEN. The assignee may release
// their own claim; owners and admins may release anyone's.
func (s *BountyService) UnclaimBounty(
	ctx context.Context,
	actor string,
	workspaceID, bountyID uuid.UUID,
	reason string,
) (*TransitionResult, error) {
	reason = strings.TrimSpace(reason)
	rule := transitionRule{
		name:          "unclaim",
		roles:         moderatorRoles,
		allowAssignee: true,
		statuses:      []models.BountyStatus{models.BountyStatusAssigned},
		validate:      func() error { return checkReason(reason) },
	}

	result := &TransitionResult{Message: "Bounty unclaimed"}
	err := s.transact(ctx, "unclaim bounty", func(tx *repository.Repository) error {
		g, err := guard(ctx, tx, actor, workspaceID, bountyID, rule)
		if err != nil {
			return err
		}
		bounty := g.bounty

		previous := ""
		if bounty.AssigneePubkey != nil {
			previous = *bounty.AssigneePubkey
		}

		bounty.Status = models.BountyStatusOpen
		bounty.AssigneePubkey = nil
		bounty.AssignedAt = nil
		bounty.WorkStartedAt = nil
		bounty.UpdatedAt = s.now()
		if err := tx.UpdateBounty(ctx, bounty, "status", "assignee_pubkey", "assigned_at", "work_started_at"); err != nil {
			return err
		}

		result.Bounty = bounty
		return s.record(ctx, tx, bounty, actor, models.ActivityUnassigned, models.JSONB{
			"reason":            reason,
			"previous_assignee": previous,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[UnclaimBounty] Bounty %s released by %s", bountyID, actor)
	return result, nil
}
