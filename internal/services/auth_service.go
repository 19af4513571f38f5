package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"bounty-market/internal/models"
	"bounty-market/internal/repository"
	"bounty-market/internal/utils"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// AuthService handles LNURL-auth login: a single-use k1 challenge signed by
// the wallet's linking key.
type AuthService struct {
	repo         *repository.Repository
	challengeTTL time.Duration
	now          func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(repo *repository.Repository, challengeTTL time.Duration) *AuthService {
	return &AuthService{
		repo:         repo,
		challengeTTL: challengeTTL,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// IssueChallenge stores and returns a fresh 32-byte hex k1
func (s *AuthService) IssueChallenge(ctx context.Context) (*models.AuthChallenge, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate challenge: %w", err)
	}

	now := s.now()
	challenge := &models.AuthChallenge{
		K1:        hex.EncodeToString(buf),
		ExpiresAt: now.Add(s.challengeTTL),
		CreatedAt: now,
	}
	if err := s.repo.CreateChallenge(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to store challenge: %w", err)
	}
	return challenge, nil
}

// VerifySignature checks a DER-encoded secp256k1 signature of k1 by pubkey.
// All three arguments are hex.
func VerifySignature(pubkeyHex, k1Hex, sigHex string) error {
	pubBytes, err := hex.DecodeString(pubkeyHex)
	if err != nil {
		return newError(CodeValidation, "pubkey is not hex")
	}
	pub, err := btcec.ParsePubKey(pubBytes)
	if err != nil {
		return newError(CodeValidation, "invalid pubkey: %v", err)
	}

	k1, err := hex.DecodeString(k1Hex)
	if err != nil || len(k1) != 32 {
		return newError(CodeValidation, "k1 must be 32 bytes of hex")
	}

	sigBytes, err := hex.DecodeString(sigHex)
	if err != nil {
		return newError(CodeValidation, "sig is not hex")
	}
	sig, err := ecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return newError(CodeValidation, "invalid signature encoding: %v", err)
	}

	if !sig.Verify(k1, pub) {
		return newError(CodeUnauthorized, "signature does not match pubkey")
	}
	return nil
}

// Login verifies the signed challenge, consumes it and finds or creates the user
func (s *AuthService) Login(ctx context.Context, pubkey, k1, sig string) (*models.User, error) {
	pubkey = strings.ToLower(pubkey)
	k1 = strings.ToLower(k1)

	if err := VerifySignature(pubkey, k1, sig); err != nil {
		return nil, err
	}

	ok, err := s.repo.ConsumeChallenge(ctx, k1, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to consume challenge: %w", err)
	}
	if !ok {
		return nil, newError(CodeUnauthorized, "challenge is unknown, expired or already used")
	}

	user, err := s.repo.GetUser(ctx, pubkey)
	if err == nil {
		log.Printf("[Auth] User logged in: %s", pubkey)
		return user, nil
	}
	if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	name, err := utils.GenerateNickname()
	if err != nil {
		return nil, err
	}
	user = &models.User{Pubkey: pubkey, DisplayName: name}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[Auth] New user created: %s (%s)", pubkey, name)
	return user, nil
}

// GetUser retrieves a user by pubkey
func (s *AuthService) GetUser(ctx context.Context, pubkey string) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, pubkey)
	if repository.IsNotFound(err) {
		return nil, newError(CodeNotFound, "user %s not found", pubkey)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// PurgeChallenges drops expired and used challenges
func (s *AuthService) PurgeChallenges(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpiredChallenges(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge challenges: %w", err)
	}
	return n, nil
}
