package auth

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/kvauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenValidity is the lifetime of an issued token.
const DefaultTokenValidity = 7 * 24 * time.Hour

var errUnknownKeyID = errors.New("unknown key id")

// TokenIssuer signs and verifies compact EdDSA tokens with a keypair
// derived once from a fixed 32-byte seed. It holds no mutable state and is
// safe for concurrent use.
type TokenIssuer struct {
	private  ed25519.PrivateKey
	public   ed25519.PublicKey
	keyID    string
	validity time.Duration
	now      func() time.Time
}

// TokenOption configures a TokenIssuer.
type TokenOption func(*TokenIssuer)

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(i *TokenIssuer) {
		if now != nil {
			i.now = now
		}
	}
}

// ParseSeed decodes a signing seed given as hex or standard base64.
func ParseSeed(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	seed, err := hex.DecodeString(s)
	if err != nil {
		seed, err = base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: neither hex nor base64", common.ErrSeed)
		}
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", common.ErrSeed, ed25519.SeedSize, len(seed))
	}
	return seed, nil
}

// NewTokenIssuer derives the Ed25519 keypair from seed. A non-positive
// validity falls back to DefaultTokenValidity.
func NewTokenIssuer(seed []byte, keyID string, validity time.Duration, opts ...TokenOption) (*TokenIssuer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", common.ErrSeed, ed25519.SeedSize, len(seed))
	}
	if validity <= 0 {
		validity = DefaultTokenValidity
	}

	private := ed25519.NewKeyFromSeed(seed)
	i := &TokenIssuer{
		private:  private,
		public:   private.Public().(ed25519.PublicKey),
		keyID:    keyID,
		validity: validity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue returns a signed token whose subject is username, valid from now
// for the configured validity. Every call carries a fresh jti, so two
// tokens issued within the same second still differ.
func (i *TokenIssuer) Issue(username string) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		ID:        uuid.NewString(),
	})
	token.Header["kid"] = i.keyID

	signed, err := token.SignedString(i.private)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrTokenCreation, err)
	}
	return signed, nil
}

// Verify reports whether token carries a valid signature from this issuer
// and has not expired. It never returns false without an error.
func (i *TokenIssuer) Verify(token string) (bool, error) {
	if _, err := i.parse(token); err != nil {
		return false, err
	}
	return true, nil
}

// Subject verifies token like Verify and returns its sub claim.
func (i *TokenIssuer) Subject(token string) (string, error) {
	claims, err := i.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (i *TokenIssuer) parse(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, i.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) && badSignatureSegment(tokenString) {
			return nil, fmt.Errorf("%w: %v", common.ErrTokenIntegrity, err)
		}
		return nil, classifyTokenError(err)
	}
	return claims, nil
}

func (i *TokenIssuer) keyFunc(t *jwt.Token) (any, error) {
	if kid, _ := t.Header["kid"].(string); kid != i.keyID {
		return nil, errUnknownKeyID
	}
	return i.public, nil
}

// badSignatureSegment reports whether token has a well-formed header and
// payload but a signature segment that is not strict base64url. Such a
// token was altered after signing.
func badSignatureSegment(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	enc := base64.RawURLEncoding.Strict()
	for _, p := range parts[:2] {
		if _, err := enc.DecodeString(p); err != nil {
			return false
		}
	}
	_, err := enc.DecodeString(parts[2])
	return err != nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", common.ErrTokenParse, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", common.ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", common.ErrTokenIntegrity, err)
	}
}
