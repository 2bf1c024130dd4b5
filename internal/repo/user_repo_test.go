package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/stickynote/internal/model"
	appErr "github.com/xxxsen/stickynote/internal/pkg/errors"
	"github.com/xxxsen/stickynote/internal/repo"
	"github.com/xxxsen/stickynote/internal/testutil"
)

func TestUserRepoCreateAndLookup(t *testing.T) {
	ctx := context.Background()
	users := repo.NewUserRepo(testutil.OpenTestDB(t))
	alice := createUser(t, users, "alice")

	byEmail, err := users.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, alice.ID, byEmail.ID)
	require.Equal(t, "alice", byEmail.Username)

	byID, err := users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", byID.Email)

	_, err = users.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	dup := &model.User{Email: "alice@example.com", Username: "other", PasswordHash: "h", CreatedAt: 1, UpdatedAt: 1}
	require.ErrorIs(t, users.Create(ctx, dup), appErr.ErrConflict)
}
