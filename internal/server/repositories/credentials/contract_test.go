package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/kvauth/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRepositoryContract exercises the behaviour every backend must share.
func runRepositoryContract(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	_, err := repo.Get(ctx, "alice")
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, repo.Create(ctx, "alice", "v1"))
	require.ErrorIs(t, repo.Create(ctx, "alice", "v2"), common.ErrAlreadyExists)

	got, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	require.NoError(t, repo.Update(ctx, "alice", func(old string) (string, error) {
		assert.Equal(t, "v1", old)
		return "v2", nil
	}))
	got, err = repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	boom := errors.New("boom")
	require.ErrorIs(t, repo.Update(ctx, "alice", func(string) (string, error) { return "v3", boom }), boom)
	got, err = repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "v2", got, "failed update must not write")

	err = repo.Update(ctx, "bob", func(string) (string, error) {
		t.Fatal("fn must not run for a missing key")
		return "", nil
	})
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, repo.Put(ctx, "bob", "b1"))
	require.NoError(t, repo.Put(ctx, "bob", "b2"))
	got, err = repo.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "b2", got)
}
