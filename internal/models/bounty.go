package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BountyStatus string

const (
	BountyStatusDraft     BountyStatus = "DRAFT"
	BountyStatusOpen      BountyStatus = "OPEN"
	BountyStatusAssigned  BountyStatus = "ASSIGNED"
	BountyStatusInReview  BountyStatus = "IN_REVIEW"
	BountyStatusCompleted BountyStatus = "COMPLETED"
	BountyStatusPaid      BountyStatus = "PAID"
	BountyStatusCancelled BountyStatus = "CANCELLED"
)

// Valid reports whether s is a known status
func (s BountyStatus) Valid() bool {
	switch s {
	case BountyStatusDraft, BountyStatusOpen, BountyStatusAssigned, BountyStatusInReview,
		BountyStatusCompleted, BountyStatusPaid, BountyStatusCancelled:
		return true
	}
	return false
}

// HasAssignee reports whether a bounty in status s must carry an assignee
func (s BountyStatus) HasAssignee() bool {
	switch s {
	case BountyStatusAssigned, BountyStatusInReview, BountyStatusCompleted, BountyStatusPaid:
		return true
	}
	return false
}

// HoldsReservation reports whether the bounty amount sits in the reserved bucket
// while the bounty is in status s.
func (s BountyStatus) HoldsReservation() bool {
	switch s {
	case BountyStatusOpen, BountyStatusAssigned, BountyStatusInReview, BountyStatusCompleted:
		return true
	}
	return false
}

type ProofStatus string

const (
	ProofStatusPending          ProofStatus = "PENDING"
	ProofStatusAccepted         ProofStatus = "ACCEPTED"
	ProofStatusRejected         ProofStatus = "REJECTED"
	ProofStatusChangesRequested ProofStatus = "CHANGES_REQUESTED"
)

type ActivityAction string

const (
	ActivityCreated        ActivityAction = "CREATED"
	ActivityPublished      ActivityAction = "PUBLISHED"
	ActivityAssigned       ActivityAction = "ASSIGNED"
	ActivityUnassigned     ActivityAction = "UNASSIGNED"
	ActivityProofSubmitted ActivityAction = "PROOF_SUBMITTED"
	ActivityProofReviewed  ActivityAction = "PROOF_REVIEWED"
	ActivityCompleted      ActivityAction = "COMPLETED"
	ActivityPaid           ActivityAction = "PAID"
	ActivityCancelled      ActivityAction = "CANCELLED"
	ActivityDeleted        ActivityAction = "DELETED"
)

// Bounty is a unit of paid work owned by a workspace
type Bounty struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	WorkspaceID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"workspace_id"`
	CreatorPubkey   string         `gorm:"size:66;not null;index" json:"creator_pubkey"`
	AssigneePubkey  *string        `gorm:"size:66;index" json:"assignee_pubkey"`
	Title           string         `gorm:"size:255;not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	Amount          int64          `gorm:"not null" json:"amount"`
	Status          BountyStatus   `gorm:"size:20;not null;default:DRAFT;index" json:"status"`
	Tags            StringList     `gorm:"type:text" json:"tags"`
	CodingLanguages StringList     `gorm:"type:text" json:"coding_languages"`
	Version         int64          `gorm:"not null;default:1" json:"version"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	PublishedAt     *time.Time     `json:"published_at"`
	AssignedAt      *time.Time     `json:"assigned_at"`
	WorkStartedAt   *time.Time     `json:"work_started_at"`
	WorkClosedAt    *time.Time     `json:"work_closed_at"`
	CompletedAt     *time.Time     `json:"completed_at"`
	PaidAt          *time.Time     `json:"paid_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Bounty) TableName() string {
	return "bounties"
}

func (b *Bounty) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Version == 0 {
		b.Version = 1
	}
	return nil
}

// BountyProof is evidence of completed work submitted by the assignee
type BountyProof struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	BountyID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"bounty_id"`
	SubmitterPubkey string      `gorm:"size:66;not null" json:"submitter_pubkey"`
	ProofURL        string      `gorm:"size:2048;not null" json:"proof_url"`
	Description     string      `gorm:"type:text" json:"description"`
	Status          ProofStatus `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	ReviewerPubkey  *string     `gorm:"size:66" json:"reviewer_pubkey"`
	ReviewNotes     *string     `gorm:"type:text" json:"review_notes"`
	ReviewedAt      *time.Time  `json:"reviewed_at"`
	CreatedAt       time.Time   `json:"created_at"`
}

func (BountyProof) TableName() string {
	return "bounty_proofs"
}

func (p *BountyProof) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BountyActivity is an append-only audit record, one per transition
type BountyActivity struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	BountyID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"bounty_id"`
	UserPubkey string         `gorm:"size:66;not null" json:"user_pubkey"`
	Action     ActivityAction `gorm:"size:32;not null" json:"action"`
	Details    JSONB          `gorm:"type:text" json:"details"`
	Timestamp  time.Time      `gorm:"not null;index" json:"timestamp"`
}

func (BountyActivity) TableName() string {
	return "bounty_activities"
}

func (a *BountyActivity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	return nil
}
