package repository

import (
	"context"

	"bounty-market/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateBounty creates a new bounty
func (r *Repository) CreateBounty(ctx context.Context, bounty *models.Bounty) error {
	return r.db.WithContext(ctx).Create(bounty).Error
}

// GetBounty retrieves a bounty scoped to its workspace. Soft-deleted bounties are not found.
func (r *Repository) GetBounty(ctx context.Context, workspaceID, bountyID uuid.UUID) (*models.Bounty, error) {
	var bounty models.Bounty
	err := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", bountyID, workspaceID).
		First(&bounty).Error
	if err != nil {
		return nil, err
	}
	return &bounty, nil
}

// GetBountyForUpdate is GetBounty with a row lock held until the transaction ends
func (r *Repository) GetBountyForUpdate(ctx context.Context, workspaceID, bountyID uuid.UUID) (*models.Bounty, error) {
	var bounty models.Bounty
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND workspace_id = ?", bountyID, workspaceID).
		First(&bounty).Error
	if err != nil {
		return nil, err
	}
	return &bounty, nil
}

// UpdateBounty writes the named columns of bounty, guarded by its version.
// On success bounty.Version is bumped; if the row changed underneath,
// ErrStaleVersion is returned and bounty is left as it was.
func (r *Repository) UpdateBounty(ctx context.Context, bounty *models.Bounty, columns ...string) error {
	prev := bounty.Version
	bounty.Version = prev + 1

	res := r.db.WithContext(ctx).
		Model(bounty).
		Where("version = ?", prev).
		Select(append(columns, "version", "updated_at")).
		Updates(bounty)
	if res.Error != nil {
		bounty.Version = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		bounty.Version = prev
		return ErrStaleVersion
	}
	return nil
}

// SoftDeleteBounty sets deleted_at on the bounty
func (r *Repository) SoftDeleteBounty(ctx context.Context, bounty *models.Bounty) error {
	return r.db.WithContext(ctx).Delete(bounty).Error
}

// BountyFilter narrows ListBounties
type BountyFilter struct {
	Status   models.BountyStatus
	Assignee string
	Limit    int
	Offset   int
}

// ListBounties retrieves bounties for a workspace with a total count
func (r *Repository) ListBounties(ctx context.Context, workspaceID uuid.UUID, filter BountyFilter) ([]*models.Bounty, int64, error) {
	scoped := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.Bounty{}).Where("workspace_id = ?", workspaceID)
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.Assignee != "" {
			query = query.Where("assignee_pubkey = ?", filter.Assignee)
		}
		return query
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bounties []*models.Bounty
	err := scoped().
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&bounties).Error
	if err != nil {
		return nil, 0, err
	}

	return bounties, total, nil
}

// CreateProof creates a new proof
func (r *Repository) CreateProof(ctx context.Context, proof *models.BountyProof) error {
	return r.db.WithContext(ctx).Create(proof).Error
}

// GetProofForUpdate retrieves a proof belonging to bountyID with a row lock
func (r *Repository) GetProofForUpdate(ctx context.Context, bountyID, proofID uuid.UUID) (*models.BountyProof, error) {
	var proof models.BountyProof
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND bounty_id = ?", proofID, bountyID).
		First(&proof).Error
	if err != nil {
		return nil, err
	}
	return &proof, nil
}

// UpdateProofReview writes the review fields of a proof
func (r *Repository) UpdateProofReview(ctx context.Context, proof *models.BountyProof) error {
	return r.db.WithContext(ctx).
		Model(proof).
		Select("status", "reviewer_pubkey", "review_notes", "reviewed_at").
		Updates(proof).Error
}

// ListProofs retrieves all proofs for a bounty, oldest first
func (r *Repository) ListProofs(ctx context.Context, bountyID uuid.UUID) ([]*models.BountyProof, error) {
	var proofs []*models.BountyProof
	err := r.db.WithContext(ctx).
		Where("bounty_id = ?", bountyID).
		Order("created_at ASC").
		Find(&proofs).Error
	if err != nil {
		return nil, err
	}
	return proofs, nil
}

// CountProofsByStatus counts a bounty's proofs in the given status
func (r *Repository) CountProofsByStatus(ctx context.Context, bountyID uuid.UUID, status models.ProofStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BountyProof{}).
		Where("bounty_id = ? AND status = ?", bountyID, status).
		Count(&count).Error
	return count, err
}

// AppendActivity appends an audit record
func (r *Repository) AppendActivity(ctx context.Context, activity *models.BountyActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// ListActivities retrieves the audit trail for a bounty, oldest first
func (r *Repository) ListActivities(ctx context.Context, bountyID uuid.UUID) ([]*models.BountyActivity, error) {
	var activities []*models.BountyActivity
	err := r.db.WithContext(ctx).
		Where("bounty_id = ?", bountyID).
		Order("timestamp ASC").
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}
