package repository

import (
	"context"

	"bounty-market/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// CreateWorkspace creates a workspace row
func (r *Repository) CreateWorkspace(ctx context.Context, ws *models.Workspace) error {
	return r.db.WithContext(ctx).Create(ws).Error
}

// GetWorkspace retrieves a workspace, excluding soft-deleted ones
func (r *Repository) GetWorkspace(ctx context.Context, id uuid.UUID) (*models.Workspace, error) {
	var ws models.Workspace
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ws).Error
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

// GetMemberRole returns the role pubkey holds in the workspace
func (r *Repository) GetMemberRole(ctx context.Context, workspaceID uuid.UUID, pubkey string) (models.MemberRole, error) {
	var member models.WorkspaceMember
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_pubkey = ?", workspaceID, pubkey).
		First(&member).Error
	if err != nil {
		return "", err
	}
	return member.Role, nil
}

// UpsertMember adds a member or changes the role of an existing one
func (r *Repository) UpsertMember(ctx context.Context, member *models.WorkspaceMember) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "workspace_id"}, {Name: "user_pubkey"}},
		DoUpdates: clause.AssignmentColumns([]string{"role"}),
	}).Create(member).Error
}

// CountMembersByRole counts the members of a workspace holding role
func (r *Repository) CountMembersByRole(ctx context.Context, workspaceID uuid.UUID, role models.MemberRole) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WorkspaceMember{}).
		Where("workspace_id = ? AND role = ?", workspaceID, role).
		Count(&count).Error
	return count, err
}

// ListMembers returns all members of a workspace
func (r *Repository) ListMembers(ctx context.Context, workspaceID uuid.UUID) ([]*models.WorkspaceMember, error) {
	var members []*models.WorkspaceMember
	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// CreateBudget creates the ledger row for a workspace
func (r *Repository) CreateBudget(ctx context.Context, budget *models.WorkspaceBudget) error {
	return r.db.WithContext(ctx).Create(budget).Error
}

// GetBudget retrieves a workspace budget
func (r *Repository) GetBudget(ctx context.Context, workspaceID uuid.UUID) (*models.WorkspaceBudget, error) {
	var budget models.WorkspaceBudget
	err := r.db.WithContext(ctx).Where("workspace_id = ?", workspaceID).First(&budget).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// GetBudgetForUpdate retrieves a workspace budget holding a row lock until the
// surrounding transaction ends. SQLite ignores the locking clause.
func (r *Repository) GetBudgetForUpdate(ctx context.Context, workspaceID uuid.UUID) (*models.WorkspaceBudget, error) {
	var budget models.WorkspaceBudget
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("workspace_id = ?", workspaceID).
		First(&budget).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// SaveBudget writes all four buckets
func (r *Repository) SaveBudget(ctx context.Context, budget *models.WorkspaceBudget) error {
	return r.db.WithContext(ctx).
		Model(budget).
		Select("total_budget", "available_budget", "reserved_budget", "paid_budget", "updated_at").
		Updates(budget).Error
}

// ListBudgets returns every workspace budget
func (r *Repository) ListBudgets(ctx context.Context) ([]*models.WorkspaceBudget, error) {
	var budgets []*models.WorkspaceBudget
	err := r.db.WithContext(ctx).Order("workspace_id ASC").Find(&budgets).Error
	if err != nil {
		return nil, err
	}
	return budgets, nil
}
