// Package services contains server-side business logic. AccountService is
// the pure credential lifecycle; UserService binds it to a credential
// store so that each request costs at most one read and one write.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/kvauth/internal/common"
	"github.com/dmitrijs2005/kvauth/internal/logging"
	"github.com/dmitrijs2005/kvauth/internal/server/models"
	"github.com/dmitrijs2005/kvauth/internal/server/repositories/credentials"
)

// UserService provides the store-backed operations behind the transports:
// - Register: create a credential record if the username is free
// - Login: verify the password and persist a refreshed token
// - Validate / Whoami: check a token without touching the store
type UserService struct {
	repo     credentials.Repository
	accounts *AccountService
	logger   logging.Logger
}

// NewUserService constructs a UserService.
func NewUserService(repo credentials.Repository, accounts *AccountService, logger logging.Logger) *UserService {
	return &UserService{
		repo:     repo,
		accounts: accounts,
		logger:   logger.With("module", "user_service"),
	}
}

// Register creates and stores a credential record for username.
// An existing record yields common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.UserView, error) {
	if _, err := s.repo.Get(ctx, username); err == nil {
		return nil, common.ErrAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error reading record: %w", err)
	}

	rec, err := s.accounts.Register(username, password)
	if err != nil {
		s.logger.Error(ctx, "registration failed", "username", username, "error", err)
		return nil, err
	}

	value, err := models.EncodeRecord(rec)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, username, value); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error storing record: %w", err)
	}

	s.logger.Info(ctx, "user registered", "username", username)
	return rec.View(), nil
}

// Login verifies password against the stored record and writes back the
// record with a fresh token. The read and the write go through a single
// repository Update.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.UserView, error) {
	var updated *models.CredentialRecord

	err := s.repo.Update(ctx, username, func(old string) (string, error) {
		stored, err := models.DecodeRecord(old)
		if err != nil {
			return "", err
		}
		rec, err := s.accounts.Login(username, password, stored)
		if err != nil {
			return "", err
		}
		updated = rec
		return models.EncodeRecord(rec)
	})
	if err != nil {
		if errors.Is(err, common.ErrBadPassword) || errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "login rejected", "username", username, "reason", err.Error())
		} else {
			s.logger.Error(ctx, "login failed", "username", username, "error", err)
		}
		return nil, err
	}

	s.logger.Info(ctx, "user logged in", "username", username)
	return updated.View(), nil
}

// Validate reports whether token is correctly signed and unexpired.
func (s *UserService) Validate(ctx context.Context, token string) (bool, error) {
	ok, err := s.accounts.Validate(token)
	if err != nil {
		s.logger.Debug(ctx, "token rejected", "error", err)
	}
	return ok, err
}

// Whoami returns the username bound to a valid token.
func (s *UserService) Whoami(_ context.Context, token string) (string, error) {
	return s.accounts.Subject(token)
}
