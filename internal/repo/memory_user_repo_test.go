package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUserRepoCreateAndGet(t *testing.T) {
	r := NewMemoryUserRepo()
	ctx := context.Background()

	created, err := r.Create(ctx, "alice", "hash")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "alice", created.Username)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := r.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created, found)
}

func TestMemoryUserRepoGetAbsent(t *testing.T) {
	r := NewMemoryUserRepo()

	_, err := r.GetByUsername(context.Background(), "nobody")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestMemoryUserRepoDuplicateUsername(t *testing.T) {
	r := NewMemoryUserRepo()
	ctx := context.Background()

	_, err := r.Create(ctx, "bob", "hash1")
	require.NoError(t, err)

	_, err = r.Create(ctx, "bob", "hash2")
	assert.True(t, errors.Is(err, ErrDuplicateUsername))
}
