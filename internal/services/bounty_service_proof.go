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

// SubmitProof records the assignee's evidence of work and moves the bounty
// from ASSIGNED to IN_REVIEW.
func (s *BountyService) SubmitProof(
	ctx context.Context,
	actor string,
	workspaceID, bountyID uuid.UUID,
	req *models.SubmitProofRequest,
) (*TransitionResult, error) {
	proofURL := strings.TrimSpace(req.ProofURL)
	rule := transitionRule{
		name:          "submit proof for",
		allowAssignee: true,
		statuses:      []models.BountyStatus{models.BountyStatusAssigned},
		validate: func() error {
			if proofURL == "" {
				return newError(CodeValidation, "proofUrl is required")
			}
			return nil
		},
	}

	result := &TransitionResult{Message: "Proof submitted"}
	err := s.transact(ctx, "submit proof", func(tx *repository.Repository) error {
		g, err := guard(ctx, tx, actor, workspaceID, bountyID, rule)
		if err != nil {
			return err
		}
		bounty := g.bounty

		now := s.now()
		proof := &models.BountyProof{
			BountyID:        bounty.ID,
			SubmitterPubkey: actor,
			ProofURL:        proofURL,
			Description:     req.Description,
			Status:          models.ProofStatusPending,
			CreatedAt:       now,
		}
		if err := tx.CreateProof(ctx, proof); err != nil {
			return fmt.Errorf("failed to create proof: %w", err)
		}

		bounty.Status = models.BountyStatusInReview
		bounty.UpdatedAt = now
		if err := tx.UpdateBounty(ctx, bounty, "status"); err != nil {
			return err
		}

		result.Bounty = bounty
		result.Proof = proof
		return s.record(ctx, tx, bounty, actor, models.ActivityProofSubmitted, models.JSONB{
			"proof_id":  proof.ID.String(),
			"proof_url": proofURL,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[SubmitProof] Proof %s submitted for bounty %s by %s", result.Proof.ID, bountyID, actor)
	return result, nil
}

// ReviewProof records an owner/admin decision on a PENDING proof. Rejecting
// or requesting changes hands the bounty back to the assignee (ASSIGNED).
func (s *BountyService) ReviewProof(
	ctx context.Context,
	actor string,
	workspaceID, bountyID, proofID uuid.UUID,
	req *models.ReviewProofRequest,
) (*TransitionResult, error) {
	rule := transitionRule{
		name:     "review proofs of",
		roles:    moderatorRoles,
		statuses: []models.BountyStatus{models.BountyStatusInReview},
		validate: func() error {
			switch req.Status {
			case models.ProofStatusAccepted, models.ProofStatusRejected, models.ProofStatusChangesRequested:
				return nil
			}
			return newError(CodeValidation, "review status must be ACCEPTED, REJECTED or CHANGES_REQUESTED")
		},
	}

	result := &TransitionResult{Message: "Proof reviewed"}
	err := s.transact(ctx, "review proof", func(tx *repository.Repository) error {
		g, err := guard(ctx, tx, actor, workspaceID, bountyID, rule)
		if err != nil {
			return err
		}
		bounty := g.bounty

		proof, err := tx.GetProofForUpdate(ctx, bountyID, proofID)
		if repository.IsNotFound(err) {
			return newError(CodeNotFound, "proof %s not found", proofID)
		}
		if err != nil {
			return fmt.Errorf("failed to load proof: %w", err)
		}
		if proof.Status != models.ProofStatusPending {
			return newError(CodeInvalidState, "proof already reviewed (%s)", proof.Status)
		}
		if proof.SubmitterPubkey == actor {
			return newError(CodeForbidden, "cannot review your own proof")
		}

		now := s.now()
		reviewer := actor
		proof.Status = req.Status
		proof.ReviewerPubkey = &reviewer
		proof.ReviewedAt = &now
		if notes := strings.TrimSpace(req.ReviewNotes); notes != "" {
			proof.ReviewNotes = &notes
		}
		if err := tx.UpdateProofReview(ctx, proof); err != nil {
			return fmt.Errorf("failed to save review: %w", err)
		}

		if req.Status != models.ProofStatusAccepted {
			bounty.Status = models.BountyStatusAssigned
			bounty.UpdatedAt = now
			if err := tx.UpdateBounty(ctx, bounty, "status"); err != nil {
				return err
			}
		}

		result.Bounty = bounty
		result.Proof = proof
		return s.record(ctx, tx, bounty, actor, models.ActivityProofReviewed, models.JSONB{
			"proof_id": proof.ID.String(),
			"decision": string(req.Status),
			"notes":    strings.TrimSpace(req.ReviewNotes),
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ReviewProof] Proof %s on bounty %s marked %s by %s", proofID, bountyID, req.Status, actor)
	return result, nil
}
