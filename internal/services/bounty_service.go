package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"bounty-market/internal/models"
	"bounty-market/internal/repository"

	"github.com/google/uuid"
)

// BountyOptions tunes lifecycle behaviour
type BountyOptions struct {
	// ReserveOnPublish moves the bounty amount from available to reserved
	// when a bounty becomes OPEN and rejects publishing without funds.
	ReserveOnPublish bool
}

// BountyService applies the bounty lifecycle: every transition checks the
// actor and the bounty status, then writes status, ledger and activity in one
// transaction.
type BountyService struct {
	repo *repository.Repository
	opts BountyOptions
	now  func() time.Time
}

func NewBountyService(repo *repository.Repository, opts BountyOptions) *BountyService {
	return &BountyService{
		repo: repo,
		opts: opts,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// TransitionResult is the payload returned by every state-changing operation
type TransitionResult struct {
	Message string                  `json:"message"`
	Bounty  *models.Bounty          `json:"bounty"`
	Proof   *models.BountyProof     `json:"proof,omitempty"`
	Budget  *models.WorkspaceBudget `json:"budget,omitempty"`
}

// BountyDetail is a bounty together with its proofs
type BountyDetail struct {
	*models.Bounty
	AmountBTC string                `json:"amount_btc"`
	Proofs    []*models.BountyProof `json:"proofs"`
}

// transact runs fn in one transaction and normalises its error
func (s *BountyService) transact(ctx context.Context, op string, fn func(tx *repository.Repository) error) error {
	err := s.repo.Transaction(ctx, fn)
	if err == nil {
		return nil
	}

	if errors.Is(err, repository.ErrStaleVersion) {
		return newError(CodeConflict, "bounty was modified concurrently, reload and retry")
	}

	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}

	return fmt.Errorf("%s: %w", op, err)
}

func (s *BountyService) record(ctx context.Context, tx *repository.Repository, bounty *models.Bounty, actor string, action models.ActivityAction, details models.JSONB) error {
	activity := &models.BountyActivity{
		BountyID:   bounty.ID,
		UserPubkey: actor,
		Action:     action,
		Details:    details,
		Timestamp:  s.now(),
	}
	if err := tx.AppendActivity(ctx, activity); err != nil {
		return fmt.Errorf("failed to record %s activity: %w", action, err)
	}
	return nil
}

// moveBudget locks the workspace budget, applies m and writes it back
func (s *BountyService) moveBudget(ctx context.Context, tx *repository.Repository, workspaceID uuid.UUID, m LedgerMove, requireFunds bool) (*models.WorkspaceBudget, error) {
	budget, err := tx.GetBudgetForUpdate(ctx, workspaceID)
	if repository.IsNotFound(err) {
		return nil, newError(CodeNotFound, "budget for workspace %s not found", workspaceID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}

	if requireFunds {
		from, err := bucketOf(budget, m.From)
		if err != nil {
			return nil, err
		}
		if *from < m.Amount {
			return nil, newError(CodeInsufficientBudget, "%s budget %d sats is less than %d sats", m.From, *from, m.Amount)
		}
	}

	if err := ApplyMove(budget, m); err != nil {
		return nil, err
	}
	budget.UpdatedAt = s.now()
	if err := tx.SaveBudget(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}
	return budget, nil
}

// checkCreate validates a create request and resolves the default status
func checkCreate(req *models.CreateBountyRequest) (string, models.BountyStatus, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return "", "", newError(CodeValidation, "title is required")
	}
	if req.Amount <= 0 {
		return "", "", newError(CodeValidation, "amount must be a positive number of sats")
	}

	status := req.Status
	if status == "" {
		status = models.BountyStatusDraft
	}
	if status != models.BountyStatusDraft && status != models.BountyStatusOpen {
		return "", "", newError(CodeValidation, "new bounties must be DRAFT or OPEN, got %s", status)
	}
	return title, status, nil
}

// CreateBounty posts a new bounty as DRAFT (default) or OPEN
func (s *BountyService) CreateBounty(
	ctx context.Context,
	actor string,
	workspaceID uuid.UUID,
	req *models.CreateBountyRequest,
) (*TransitionResult, error) {
	result := &TransitionResult{Message: "Bounty created"}
	err := s.transact(ctx, "create bounty", func(tx *repository.Repository) error {
		if _, err := requireRole(ctx, tx, actor, workspaceID, contributorRoles...); err != nil {
			return err
		}
		title, status, err := checkCreate(req)
		if err != nil {
			return err
		}

		now := s.now()
		bounty := &models.Bounty{
			WorkspaceID:     workspaceID,
			CreatorPubkey:   actor,
			Title:           title,
			Description:     req.Description,
			Amount:          req.Amount,
			Status:          status,
			Tags:            models.StringList(req.Tags),
			CodingLanguages: models.StringList(req.CodingLanguages),
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if status == models.BountyStatusOpen {
			bounty.PublishedAt = &now
			if s.opts.ReserveOnPublish {
				budget, err := s.moveBudget(ctx, tx, workspaceID, reserveMove(req.Amount), true)
				if err != nil {
					return err
				}
				result.Budget = budget
			}
		}

		if err := tx.CreateBounty(ctx, bounty); err != nil {
			return fmt.Errorf("failed to create bounty: %w", err)
		}

		result.Bounty = bounty
		return s.record(ctx, tx, bounty, actor, models.ActivityCreated, models.JSONB{
			"status": string(status),
			"amount": req.Amount,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[CreateBounty] Bounty %s (%d sats, %s) created in workspace %s by %s",
		result.Bounty.ID, result.Bounty.Amount, result.Bounty.Status, workspaceID, actor)
	return result, nil
}

// PublishBounty moves a DRAFT bounty to OPEN
func (s *BountyService) PublishBounty(ctx context.Context, actor string, workspaceID, bountyID uuid.UUID) (*TransitionResult, error) {
	rule := transitionRule{
		name:         "publish",
		roles:        moderatorRoles,
		allowCreator: true,
		statuses:     []models.BountyStatus{models.BountyStatusDraft},
	}

	result := &TransitionResult{Message: "Bounty published"}
	err := s.transact(ctx, "publish bounty", func(tx *repository.Repository) error {
		g, err := guard(ctx, tx, actor, workspaceID, bountyID, rule)
		if err != nil {
			return err
		}
		bounty := g.bounty

		if s.opts.ReserveOnPublish {
			budget, err := s.moveBudget(ctx, tx, workspaceID, reserveMove(bounty.Amount), true)
			if err != nil {
				return err
			}
			result.Budget = budget
		}

		now := s.now()
		bounty.Status = models.BountyStatusOpen
		bounty.PublishedAt = &now
		bounty.UpdatedAt = now
		if err := tx.UpdateBounty(ctx, bounty, "status", "published_at"); err != nil {
			return err
		}

		result.Bounty = bounty
		return s.record(ctx, tx, bounty, actor, models.ActivityPublished, models.JSONB{
			"reserved": s.opts.ReserveOnPublish,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[PublishBounty] Bounty %s published by %s", bountyID, actor)
	return result, nil
}

// GetBounty returns a bounty with its proofs; any member may read
func (s *BountyService) GetBounty(ctx context.Context, actor string, workspaceID, bountyID uuid.UUID) (*BountyDetail, error) {
	if _, err := resolveRole(ctx, s.repo, actor, workspaceID); err != nil {
		return nil, err
	}

	bounty, err := s.repo.GetBounty(ctx, workspaceID, bountyID)
	if repository.IsNotFound(err) {
		return nil, newError(CodeNotFound, "bounty %s not found", bountyID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bounty: %w", err)
	}

	proofs, err := s.repo.ListProofs(ctx, bountyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proofs: %w", err)
	}

	return &BountyDetail{Bounty: bounty, AmountBTC: SatsToBTC(bounty.Amount), Proofs: proofs}, nil
}

// ListBounties lists a workspace's bounties; any member may read
func (s *BountyService) ListBounties(
	ctx context.Context,
	actor string,
	workspaceID uuid.UUID,
	filter repository.BountyFilter,
) ([]*models.Bounty, int64, error) {
	if _, err := resolveRole(ctx, s.repo, actor, workspaceID); err != nil {
		return nil, 0, err
	}

	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	bounties, total, err := s.repo.ListBounties(ctx, workspaceID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bounties: %w", err)
	}
	return bounties, total, nil
}

// ListActivity returns the audit trail of a bounty; any member may read
func (s *BountyService) ListActivity(ctx context.Context, actor string, workspaceID, bountyID uuid.UUID) ([]*models.BountyActivity, error) {
	if _, err := resolveRole(ctx, s.repo, actor, workspaceID); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetBounty(ctx, workspaceID, bountyID); err != nil {
		if repository.IsNotFound(err) {
			return nil, newError(CodeNotFound, "bounty %s not found", bountyID)
		}
		return nil, fmt.Errorf("failed to get bounty: %w", err)
	}

	activities, err := s.repo.ListActivities(ctx, bountyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return activities, nil
}
