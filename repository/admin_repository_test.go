package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apptesting "github.com/coticket/coticket/testing"
)

func setupAdminRepoTest(t *testing.T) (AdminRepository, *apptesting.TestFixtures) {
	t.Helper()

	tdb, err := apptesting.SetupTestDB()
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = tdb.TeardownTestDB()
	})

	return NewAdminRepository(tdb.DB), apptesting.NewTestFixtures(tdb)
}

func TestAdminRepository_ByEmail(t *testing.T) {
	repo, fixtures := setupAdminRepoTest(t)
	ctx := context.Background()

	created, err := fixtures.CreateTestAdmin("admin@example.com", "SecurePass123!")
	require.NoError(t, err)

	found, err := repo.ByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.NotEmpty(t, found.PasswordHash)

	missing, err := repo.ByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAdminRepository_ByID(t *testing.T) {
	repo, fixtures := setupAdminRepoTest(t)
	ctx := context.Background()

	created, err := fixtures.CreateTestAdmin("admin@example.com", "SecurePass123!")
	require.NoError(t, err)

	found, err := repo.ByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "admin@example.com", found.Email)

	missing, err := repo.ByID(ctx, 999999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
