package auth

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is stamped into every session token and required on the way back in
const Issuer = "bounty-market"

var (
	jwtSecret []byte
	tokenTTL  = 24 * time.Hour

	errNoSecret   = errors.New("JWT secret not initialized")
	errBadSubject = errors.New("token subject is not a compressed linking key")
)

// InitJWT sets the signing secret and session lifetime
func InitJWT(secret string, ttl time.Duration) {
	jwtSecret = []byte(secret)
	if ttl > 0 {
		tokenTTL = ttl
	}
}

// Claims is a session for one Lightning linking key. Subject is the key in
// compressed hex form.
type Claims struct {
	DisplayName string `json:"display_name,omitempty"`
	jwt.RegisteredClaims
}

// Pubkey returns the linking key the session belongs to
func (c *Claims) Pubkey() string {
	return c.Subject
}

// linkingKey reports whether s looks like a compressed secp256k1 key (33 bytes, 02/03 prefix)
func linkingKey(s string) bool {
	if len(s) != 66 || (s[:2] != "02" && s[:2] != "03") {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// GenerateToken issues a session token for an authenticated linking key
func GenerateToken(pubkey, displayName string) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errNoSecret
	}
	if !linkingKey(pubkey) {
		return "", errBadSubject
	}

	now := time.Now()
	claims := &Claims{
		DisplayName: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   pubkey,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session for %s: %w", pubkey, err)
	}
	return signed, nil
}

// ValidateToken parses a session token. Only HS256 tokens from this issuer,
// with an expiry and a linking-key subject, are accepted.
func ValidateToken(tokenString string) (*Claims, error) {
	if len(jwtSecret) == 0 {
		return nil, errNoSecret
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return jwtSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}
	if !linkingKey(claims.Subject) {
		return nil, errBadSubject
	}
	return claims, nil
}
