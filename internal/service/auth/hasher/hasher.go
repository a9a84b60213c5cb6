package hasher

import (
	"fmt"
)

const (
	AlgBcrypt   = "bcrypt"
	AlgArgon2id = "argon2id"
)

// Hasher creates and checks one-way digests of passwords and opaque tokens
type Hasher interface {
	// Generate digest from secret
	Hash(secret string) (string, error)

	// Check secret against known digest
	// Malformed digest never verifies
	Verify(secret string, digest string) bool
}

// New returns hasher for the algorithm name. Empty name means bcrypt
// Cost is the bcrypt cost and ignored for argon2id
func New(alg string, cost int) (Hasher, error) {
	switch alg {
	case "", AlgBcrypt:
		return NewBcrypt(cost)
	case AlgArgon2id:
		return NewArgon2id(DefaultArgon2idParams), nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", alg)
	}
}
