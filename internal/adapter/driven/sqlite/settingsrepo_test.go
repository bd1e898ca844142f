package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepo_GetMissing(t *testing.T) {
	repo := NewSettingsRepo(setupTestDB(t))

	val, err := repo.Get(context.Background(), "selected_account")
	require.NoError(t, err)
	assert.Equal(t, "", val)
}

func TestSettingsRepo_SetOverwritesAndDelete(t *testing.T) {
	repo := NewSettingsRepo(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "selected_account", "111"))
	require.NoError(t, repo.Set(ctx, "selected_account", "222"))

	val, err := repo.Get(ctx, "selected_account")
	require.NoError(t, err)
	assert.Equal(t, "222", val)

	require.NoError(t, repo.Delete(ctx, "selected_account"))
	val, err = repo.Get(ctx, "selected_account")
	require.NoError(t, err)
	assert.Equal(t, "", val)

	assert.NoError(t, repo.Delete(ctx, "selected_account"))
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	version, err := RunMigrations(db.Writer)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
}
