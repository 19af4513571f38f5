package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var adjectives = []string{
	"Swift", "Brave", "Clever", "Bold", "Quiet",
	"Lucky", "Sharp", "Golden", "Orange", "Silver",
	"Stacking", "Bright", "Patient", "Humble", "Sovereign",
}

var nouns = []string{
	"Satoshi", "Node", "Channel", "Hodler", "Miner",
	"Block", "Relay", "Invoice", "Peer", "Signer",
	"Builder", "Hacker", "Lantern", "Bolt", "Hash",
}

// GenerateNickname creates a random display name in the format "Adjective_Noun_XXXX"
func GenerateNickname() (string, error) {
	adjIdx, err := rand.Int(rand.Reader, big.NewInt(int64(len(adjectives))))
	if err != nil {
		return "", fmt.Errorf("failed to generate random adjective: %w", err)
	}

	nounIdx, err := rand.Int(rand.Reader, big.NewInt(int64(len(nouns))))
	if err != nil {
		return "", fmt.Errorf("failed to generate random noun: %w", err)
	}

	suffix, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random suffix: %w", err)
	}

	return fmt.Sprintf("%s_%s_%04d", adjectives[adjIdx.Int64()], nouns[nounIdx.Int64()], suffix.Int64()), nil
}
