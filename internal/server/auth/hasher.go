// Package auth contains the credential and token primitives: the keyed
// password hasher, the stored credential codec and the Ed25519 token issuer.
package auth

import (
	"fmt"

	"github.com/dmitrijs2005/kvauth/internal/common"
	"golang.org/x/crypto/blake2b"
)

// HashHexLength is the length of a rendered password hash.
const HashHexLength = blake2b.Size256 * 2

// PasswordHasher derives a reproducible hash from a password and a salt.
type PasswordHasher interface {
	Hash(password, salt string) (string, error)
}

// Blake2bHasher keys BLAKE2b-256 with the salt and hashes the password.
type Blake2bHasher struct{}

// NewBlake2bHasher creates a new Blake2bHasher.
func NewBlake2bHasher() *Blake2bHasher {
	return &Blake2bHasher{}
}

// Hash returns the uppercase hex digest of password under the salt key.
// Salts longer than 64 bytes are rejected by BLAKE2b and reported as
// common.ErrHash.
func (h *Blake2bHasher) Hash(password, salt string) (string, error) {
	mac, err := blake2b.New256([]byte(salt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrHash, err)
	}
	mac.Write([]byte(password))
	return fmt.Sprintf("%X", mac.Sum(nil)), nil
}
