package hasher

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 12

// Bcrypt over sha256 of the secret
// Pre-hash keeps every byte significant: JWT refresh tokens are far longer than bcrypt 72 bytes limit
type Bcrypt struct {
	cost int
}

func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost must be in [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}

	return &Bcrypt{cost: cost}, nil
}

func (h *Bcrypt) Hash(secret string) (string, error) {
	sum := sha256.Sum256([]byte(secret))
	hash, err := bcrypt.GenerateFromPassword(sum[:], h.cost)
	return string(hash), err
}

func (h *Bcrypt) Verify(secret string, digest string) bool {
	sum := sha256.Sum256([]byte(secret))
	return bcrypt.CompareHashAndPassword([]byte(digest), sum[:]) == nil
}
