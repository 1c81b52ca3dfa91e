package auth

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/kvauth/internal/common"
)

// CredentialDelimiter separates the hash and the salt in a stored
// password field.
const CredentialDelimiter = "+"

// ComposeCredential joins hash and salt into the stored password field.
// Both parts are checked against their alphabets so that neither can carry
// the delimiter.
func ComposeCredential(hash, salt string) (string, error) {
	if err := checkParts(hash, salt); err != nil {
		return "", err
	}
	return hash + CredentialDelimiter + salt, nil
}

// ParseCredential splits a stored password field into hash and salt.
func ParseCredential(field string) (hash, salt string, err error) {
	hash, salt, ok := strings.Cut(field, CredentialDelimiter)
	if !ok {
		return "", "", fmt.Errorf("%w: missing delimiter", common.ErrMalformedRecord)
	}
	if strings.Contains(salt, CredentialDelimiter) {
		return "", "", fmt.Errorf("%w: more than two parts", common.ErrMalformedRecord)
	}
	if err := checkParts(hash, salt); err != nil {
		return "", "", err
	}
	return hash, salt, nil
}

func checkParts(hash, salt string) error {
	if !isHex(hash) {
		return fmt.Errorf("%w: hash is not hex", common.ErrMalformedRecord)
	}
	if !common.IsAlphanumeric(salt) {
		return fmt.Errorf("%w: salt is not alphanumeric", common.ErrMalformedRecord)
	}
	return nil
}

// isHex reports whether s is non-empty and made of hex digits of either case.
func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'A' <= c && c <= 'F' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}
