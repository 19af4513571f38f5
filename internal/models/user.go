package models

import (
	"time"
)

// User represents a Lightning identity that has logged in at least once
type User struct {
	Pubkey      string    `gorm:"primaryKey;size:66" json:"pubkey"`
	DisplayName string    `gorm:"size:64;not null" json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// AuthChallenge is a single-use LNURL-auth k1 value
type AuthChallenge struct {
	K1        string     `gorm:"primaryKey;size:64" json:"k1"`
	ExpiresAt time.Time  `gorm:"not null;index" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (AuthChallenge) TableName() string {
	return "auth_challenges"
}
