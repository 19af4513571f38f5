package repository

import (
	"context"
	"time"

	"bounty-market/internal/models"
)

// GetUser retrieves a user by pubkey
func (r *Repository) GetUser(ctx context.Context, pubkey string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("pubkey = ?", pubkey).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a new user
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// CreateChallenge stores a fresh login challenge
func (r *Repository) CreateChallenge(ctx context.Context, challenge *models.AuthChallenge) error {
	return r.db.WithContext(ctx).Create(challenge).Error
}

// ConsumeChallenge marks k1 as used. It reports false when the challenge is
// unknown, expired or already used.
func (r *Repository) ConsumeChallenge(ctx context.Context, k1 string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.AuthChallenge{}).
		Where("k1 = ? AND used_at IS NULL AND expires_at > ?", k1, now).
		Update("used_at", now)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteExpiredChallenges removes challenges that can no longer be used
func (r *Repository) DeleteExpiredChallenges(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ? OR used_at IS NOT NULL", now).
		Delete(&models.AuthChallenge{})
	return res.RowsAffected, res.Error
}
