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
	"github.com/shopspring/decimal"
)

// WorkspaceService manages workspaces, their members and their budget ledger
type WorkspaceService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewWorkspaceService(repo *repository.Repository) *WorkspaceService {
	return &WorkspaceService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// WorkspaceDetail is a workspace with its members
type WorkspaceDetail struct {
	*models.Workspace
	Members []*models.WorkspaceMember `json:"members"`
}

// BudgetSummary is the ledger plus derived figures for display
type BudgetSummary struct {
	*models.WorkspaceBudget
	TotalBTC           string          `json:"total_btc"`
	AvailableBTC       string          `json:"available_btc"`
	UtilizationPercent decimal.Decimal `json:"utilization_percent"`
	Balanced           bool            `json:"balanced"`
}

// BudgetDiscrepancy describes a budget that breaks the ledger invariant
type BudgetDiscrepancy struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Total       int64     `json:"total"`
	Available   int64     `json:"available"`
	Reserved    int64     `json:"reserved"`
	Paid        int64     `json:"paid"`
	Drift       int64     `json:"drift"`
	Reason      string    `json:"reason"`
}

func (s *WorkspaceService) transact(ctx context.Context, op string, fn func(tx *repository.Repository) error) error {
	err := s.repo.Transaction(ctx, fn)
	if err == nil {
		return nil
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return fmt.Errorf("%s: %w", op, err)
}

// CreateWorkspace creates a workspace owned by actor with an all-zero budget
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, actor string, req *models.CreateWorkspaceRequest) (*WorkspaceDetail, error) {
	if actor == "" {
		return nil, ErrUnauthorized
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, newError(CodeValidation, "name is required")
	}

	detail := &WorkspaceDetail{}
	err := s.transact(ctx, "create workspace", func(tx *repository.Repository) error {
		ws := &models.Workspace{
			Name:        name,
			Description: req.Description,
			OwnerPubkey: actor,
		}
		if err := tx.CreateWorkspace(ctx, ws); err != nil {
			return fmt.Errorf("failed to create workspace: %w", err)
		}

		owner := &models.WorkspaceMember{WorkspaceID: ws.ID, UserPubkey: actor, Role: models.RoleOwner}
		if err := tx.UpsertMember(ctx, owner); err != nil {
			return fmt.Errorf("failed to add owner: %w", err)
		}

		budget := &models.WorkspaceBudget{WorkspaceID: ws.ID, UpdatedAt: s.now()}
		if err := tx.CreateBudget(ctx, budget); err != nil {
			return fmt.Errorf("failed to create budget: %w", err)
		}

		detail.Workspace = ws
		detail.Members = []*models.WorkspaceMember{owner}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Workspace] Created workspace %s (%s) owned by %s", detail.ID, detail.Name, actor)
	return detail, nil
}

// GetWorkspace returns a workspace and its members; any member may read
func (s *WorkspaceService) GetWorkspace(ctx context.Context, actor string, workspaceID uuid.UUID) (*WorkspaceDetail, error) {
	if _, err := resolveRole(ctx, s.repo, actor, workspaceID); err != nil {
		return nil, err
	}

	ws, err := s.repo.GetWorkspace(ctx, workspaceID)
	if repository.IsNotFound(err) {
		return nil, newError(CodeNotFound, "workspace %s not found", workspaceID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	members, err := s.repo.ListMembers(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return &WorkspaceDetail{Workspace: ws, Members: members}, nil
}

// AddMember adds pubkey to the workspace or changes its role.
// OWNER and ADMIN may add members; only an OWNER may grant OWNER or ADMIN or
// change the role of an existing OWNER or ADMIN. The last OWNER cannot be demoted.
func (s *WorkspaceService) AddMember(ctx context.Context, actor string, workspaceID uuid.UUID, req *models.AddMemberRequest) (*models.WorkspaceMember, error) {
	role := req.Role
	member := &models.WorkspaceMember{WorkspaceID: workspaceID, UserPubkey: req.Pubkey, Role: role}

	err := s.transact(ctx, "add member", func(tx *repository.Repository) error {
		actorRole, err := requireRole(ctx, tx, actor, workspaceID, moderatorRoles...)
		if err != nil {
			return err
		}
		if !role.Valid() {
			return newError(CodeValidation, "unknown role %q", req.Role)
		}
		if role.CanModerate() && actorRole != models.RoleOwner {
			return newError(CodeForbidden, "only an owner may grant %s", role)
		}

		existing, err := tx.GetMemberRole(ctx, workspaceID, req.Pubkey)
		if err != nil && !repository.IsNotFound(err) {
			return fmt.Errorf("failed to look up member: %w", err)
		}
		if existing.CanModerate() && actorRole != models.RoleOwner {
			return newError(CodeForbidden, "only an owner may change the role of an %s", existing)
		}

		if existing == models.RoleOwner && role != models.RoleOwner {
			owners, err := tx.CountMembersByRole(ctx, workspaceID, models.RoleOwner)
			if err != nil {
				return fmt.Errorf("failed to count owners: %w", err)
			}
			if owners <= 1 {
				return newError(CodeInvalidState, "workspace must keep at least one owner")
			}
		}

		if err := tx.UpsertMember(ctx, member); err != nil {
			return fmt.Errorf("failed to add member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Workspace] %s set %s as %s in workspace %s", actor, req.Pubkey, role, workspaceID)
	return member, nil
}

// Deposit adds sats to the workspace budget; owner only
func (s *WorkspaceService) Deposit(ctx context.Context, actor string, workspaceID uuid.UUID, amount int64) (*BudgetSummary, error) {
	if amount <= 0 {
		return nil, newError(CodeValidation, "deposit amount must be positive")
	}

	var budget *models.WorkspaceBudget
	err := s.transact(ctx, "deposit", func(tx *repository.Repository) error {
		if _, err := requireRole(ctx, tx, actor, workspaceID, models.RoleOwner); err != nil {
			return err
		}

		b, err := tx.GetBudgetForUpdate(ctx, workspaceID)
		if repository.IsNotFound(err) {
			return newError(CodeNotFound, "budget for workspace %s not found", workspaceID)
		}
		if err != nil {
			return fmt.Errorf("failed to load budget: %w", err)
		}

		if err := ApplyDeposit(b, amount); err != nil {
			return err
		}
		b.UpdatedAt = s.now()
		if err := tx.SaveBudget(ctx, b); err != nil {
			return fmt.Errorf("failed to save budget: %w", err)
		}
		budget = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[Workspace] Deposited %d sats into workspace %s", amount, workspaceID)
	return summarize(budget), nil
}

// GetBudgetSummary returns the ledger of a workspace; any member may read
func (s *WorkspaceService) GetBudgetSummary(ctx context.Context, actor string, workspaceID uuid.UUID) (*BudgetSummary, error) {
	if _, err := resolveRole(ctx, s.repo, actor, workspaceID); err != nil {
		return nil, err
	}

	budget, err := s.repo.GetBudget(ctx, workspaceID)
	if repository.IsNotFound(err) {
		return nil, newError(CodeNotFound, "budget for workspace %s not found", workspaceID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return summarize(budget), nil
}

func summarize(budget *models.WorkspaceBudget) *BudgetSummary {
	return &BudgetSummary{
		WorkspaceBudget:    budget,
		TotalBTC:           SatsToBTC(budget.TotalBudget),
		AvailableBTC:       SatsToBTC(budget.AvailableBudget),
		UtilizationPercent: Utilization(budget),
		Balanced:           budget.Balanced(),
	}
}

// Reconcile scans every budget and reports the ones whose buckets do not add
// up to the total or hold a negative balance. It never rewrites a budget.
func (s *WorkspaceService) Reconcile(ctx context.Context) ([]BudgetDiscrepancy, error) {
	budgets, err := s.repo.ListBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	var out []BudgetDiscrepancy
	for _, b := range budgets {
		var reasons []string
		if !b.Balanced() {
			reasons = append(reasons, "buckets do not sum to total")
		}
		if b.AvailableBudget < 0 || b.ReservedBudget < 0 || b.PaidBudget < 0 {
			reasons = append(reasons, "negative bucket")
		}
		if len(reasons) == 0 {
			continue
		}
		out = append(out, BudgetDiscrepancy{
			WorkspaceID: b.WorkspaceID,
			Total:       b.TotalBudget,
			Available:   b.AvailableBudget,
			Reserved:    b.ReservedBudget,
			Paid:        b.PaidBudget,
			Drift:       b.AvailableBudget + b.ReservedBudget + b.PaidBudget - b.TotalBudget,
			Reason:      strings.Join(reasons, "; "),
		})
	}
	return out, nil
}
