package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberRole string

const (
	RoleOwner       MemberRole = "OWNER"
	RoleAdmin       MemberRole = "ADMIN"
	RoleContributor MemberRole = "CONTRIBUTOR"
	RoleViewer      MemberRole = "VIEWER"
)

// Valid reports whether r is one of the known roles
func (r MemberRole) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleContributor, RoleViewer:
		return true
	}
	return false
}

// CanModerate is true for roles allowed to review, complete, pay and cancel any bounty
func (r MemberRole) CanModerate() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Workspace is a team that owns bounties and a budget ledger
type Workspace struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	OwnerPubkey string         `gorm:"size:66;not null;index" json:"owner_pubkey"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Workspace) TableName() string {
	return "workspaces"
}

func (w *Workspace) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// WorkspaceMember grants a user a role within a workspace
type WorkspaceMember struct {
	WorkspaceID uuid.UUID  `gorm:"type:uuid;primaryKey" json:"workspace_id"`
	UserPubkey  string     `gorm:"size:66;primaryKey" json:"user_pubkey"`
	Role        MemberRole `gorm:"size:20;not null" json:"role"`
	JoinedAt    time.Time  `gorm:"autoCreateTime" json:"joined_at"`
}

func (WorkspaceMember) TableName() string {
	return "workspace_members"
}

// WorkspaceBudget is the sats ledger attached 1:1 to a workspace.
// AvailableBudget + ReservedBudget + PaidBudget == TotalBudget.
type WorkspaceBudget struct {
	WorkspaceID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"workspace_id"`
	TotalBudget     int64     `gorm:"not null;default:0" json:"total_budget"`
	AvailableBudget int64     `gorm:"not null;default:0" json:"available_budget"`
	ReservedBudget  int64     `gorm:"not null;default:0" json:"reserved_budget"`
	PaidBudget      int64     `gorm:"not null;default:0" json:"paid_budget"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (WorkspaceBudget) TableName() string {
	return "workspace_budgets"
}

// Balanced reports whether the buckets add up to the total
func (b *WorkspaceBudget) Balanced() bool {
	return b.AvailableBudget+b.ReservedBudget+b.PaidBudget == b.TotalBudget
}
