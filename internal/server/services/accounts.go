package services

import (
	"crypto/subtle"
	"fmt"

	"github.com/dmitrijs2005/kvauth/internal/common"
	"github.com/dmitrijs2005/kvauth/internal/server/auth"
	"github.com/dmitrijs2005/kvauth/internal/server/models"
)

// TokenIssuer is the subset of auth.TokenIssuer used by the services.
type TokenIssuer interface {
	Issue(username string) (string, error)
	Verify(token string) (bool, error)
	Subject(token string) (string, error)
}

// AccountService implements the credential lifecycle: register, login and
// validate. It performs no I/O and keeps no state between calls; storage
// is the caller's job.
type AccountService struct {
	hasher  auth.PasswordHasher
	issuer  TokenIssuer
	newSalt func() (string, error)
}

// NewAccountService wires an AccountService from its collaborators.
func NewAccountService(hasher auth.PasswordHasher, issuer TokenIssuer) *AccountService {
	return &AccountService{
		hasher:  hasher,
		issuer:  issuer,
		newSalt: func() (string, error) { return common.RandomAlphanumeric(common.SaltLength) },
	}
}

// Register builds a fresh credential record for username: new salt, salted
// hash, freshly issued token. It does not check whether the user exists.
func (s *AccountService) Register(username, password string) (*models.CredentialRecord, error) {
	if username == "" {
		return nil, common.ErrInvalidUsername
	}

	salt, err := s.newSalt()
	if err != nil {
		return nil, fmt.Errorf("%w: salt: %v", common.ErrHash, err)
	}

	hash, err := s.hasher.Hash(password, salt)
	if err != nil {
		return nil, err
	}

	field, err := auth.ComposeCredential(hash, salt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrHash, err)
	}

	token, err := s.issuer.Issue(username)
	if err != nil {
		return nil, err
	}

	return &models.CredentialRecord{Username: username, Password: field, Token: token}, nil
}

// Login checks password against the stored record and, on success, returns
// a copy of it carrying a newly issued token. The password field is kept
// byte for byte. On a mismatch it returns common.ErrBadPassword and stored
// is left as is.
func (s *AccountService) Login(username, password string, stored *models.CredentialRecord) (*models.CredentialRecord, error) {
	if stored == nil {
		return nil, common.ErrorNotFound
	}

	hash, salt, err := auth.ParseCredential(stored.Password)
	if err != nil {
		return nil, err
	}

	candidate, err := s.hasher.Hash(password, salt)
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(candidate), []byte(hash)) != 1 {
		return nil, common.ErrBadPassword
	}

	token, err := s.issuer.Issue(username)
	if err != nil {
		return nil, err
	}

	return &models.CredentialRecord{Username: username, Password: stored.Password, Token: token}, nil
}

// Validate checks the token signature and expiry. No record lookup is
// involved.
func (s *AccountService) Validate(token string) (bool, error) {
	return s.issuer.Verify(token)
}

// Subject returns the username a valid token was issued to.
func (s *AccountService) Subject(token string) (string, error) {
	return s.issuer.Subject(token)
}
