package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/kvauth/internal/common"
	"github.com/dmitrijs2005/kvauth/internal/logging"
	"github.com/dmitrijs2005/kvauth/internal/server/models"
	"github.com/dmitrijs2005/kvauth/internal/server/repositories/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// fakeRepo wraps a MemoryRepository and lets tests inject failures.
type fakeRepo struct {
	*credentials.MemoryRepository
	getErr    error
	createErr error
	updateErr error
}

func (f *fakeRepo) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.MemoryRepository.Get(ctx, key)
}

func (f *fakeRepo) Create(ctx context.Context, key, value string) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.MemoryRepository.Create(ctx, key, value)
}

func (f *fakeRepo) Update(ctx context.Context, key string, fn credentials.UpdateFunc) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.MemoryRepository.Update(ctx, key, fn)
}

func newUserService(t *testing.T) (*UserService, *fakeRepo) {
	t.Helper()
	repo := &fakeRepo{MemoryRepository: credentials.NewMemoryRepository()}
	return NewUserService(repo, newTestAccounts(t), logging.Nop()), repo
}

func storedRecord(t *testing.T, repo credentials.Repository, username string) *models.CredentialRecord {
	t.Helper()
	v, err := repo.Get(context.Background(), username)
	require.NoError(t, err)
	rec, err := models.DecodeRecord(v)
	require.NoError(t, err)
	return rec
}

func TestUserService_RegisterLoginValidate(t *testing.T) {
	ctx := context.Background()
	s, repo := newUserService(t)

	view, err := s.Register(ctx, "alice", "Secr3t!")
	require.NoError(t, err)
	assert.Equal(t, "alice", view.Username)

	registered := storedRecord(t, repo, "alice")
	assert.Equal(t, view.Token, registered.Token)

	loggedIn, err := s.Login(ctx, "alice", "Secr3t!")
	require.NoError(t, err)
	assert.NotEqual(t, view.Token, loggedIn.Token)

	after := storedRecord(t, repo, "alice")
	assert.Equal(t, registered.Password, after.Password)
	assert.Equal(t, loggedIn.Token, after.Token)

	ok, err := s.Validate(ctx, loggedIn.Token)
	require.NoError(t, err)
	assert.True(t, ok)

	who, err := s.Whoami(ctx, loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", who)
}

func TestUserService_RegisterExisting(t *testing.T) {
	ctx := context.Background()
	s, repo := newUserService(t)

	_, err := s.Register(ctx, "alice", "one")
	require.NoError(t, err)
	before := storedRecord(t, repo, "alice")

	_, err = s.Register(ctx, "alice", "two")
	require.ErrorIs(t, err, common.ErrAlreadyExists)
	assert.Equal(t, before, storedRecord(t, repo, "alice"))
}

func TestUserService_RegisterRaceLosesOnCreate(t *testing.T) {
	s, repo := newUserService(t)
	repo.createErr = common.ErrAlreadyExists

	_, err := s.Register(context.Background(), "alice", "pw")
	require.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestUserService_RegisterStoreErrors(t *testing.T) {
	s, repo := newUserService(t)

	repo.getErr = errBoom{}
	_, err := s.Register(context.Background(), "alice", "pw")
	require.ErrorIs(t, err, errBoom{})

	repo.getErr = nil
	repo.createErr = errBoom{}
	_, err = s.Register(context.Background(), "alice", "pw")
	require.ErrorIs(t, err, errBoom{})
}

func TestUserService_LoginWrongPasswordKeepsRecord(t *testing.T) {
	ctx := context.Background()
	s, repo := newUserService(t)

	_, err := s.Register(ctx, "alice", "Secr3t!")
	require.NoError(t, err)
	before := storedRecord(t, repo, "alice")

	_, err = s.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, common.ErrBadPassword)
	assert.Equal(t, before, storedRecord(t, repo, "alice"))
}

func TestUserService_LoginUnknownUser(t *testing.T) {
	s, _ := newUserService(t)

	_, err := s.Login(context.Background(), "ghost", "pw")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUserService_LoginCorruptRecord(t *testing.T) {
	ctx := context.Background()
	s, repo := newUserService(t)

	require.NoError(t, repo.Put(ctx, "alice", "{not json"))
	_, err := s.Login(ctx, "alice", "pw")
	require.ErrorIs(t, err, common.ErrSerialization)

	require.NoError(t, repo.Put(ctx, "bob", `{"username":"bob","password":"nodelimiter","token":""}`))
	_, err = s.Login(ctx, "bob", "pw")
	require.ErrorIs(t, err, common.ErrMalformedRecord)
}

func TestUserService_LoginStoreError(t *testing.T) {
	s, repo := newUserService(t)
	repo.updateErr = common.ErrVersionConflict

	_, err := s.Login(context.Background(), "alice", "pw")
	require.True(t, errors.Is(err, common.ErrVersionConflict))
}

func TestUserService_ValidateGarbage(t *testing.T) {
	s, _ := newUserService(t)

	ok, err := s.Validate(context.Background(), "garbage")
	require.ErrorIs(t, err, common.ErrTokenParse)
	assert.False(t, ok)
}
