package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coticket/coticket/models"
	apptesting "github.com/coticket/coticket/testing"
	"github.com/coticket/coticket/utils"
)

// setupTicketRepoTest provisions a throwaway database. Tests are skipped
// when no PostgreSQL instance is reachable via the TEST_DB_* variables.
func setupTicketRepoTest(t *testing.T) (TicketRepository, *apptesting.TestFixtures) {
	t.Helper()

	tdb, err := apptesting.SetupTestDB()
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = tdb.TeardownTestDB()
	})

	return NewTicketRepository(tdb.DB), apptesting.NewTestFixtures(tdb)
}

func TestTicketRepository_ByTicketCode(t *testing.T) {
	repo, fixtures := setupTicketRepoTest(t)
	ctx := context.Background()

	created, err := fixtures.CreateTestTicket("VE-001", "123456789", "guest@example.com")
	require.NoError(t, err)

	found, err := repo.ByTicketCode(ctx, "VE-001")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := repo.ByTicketCode(ctx, "VE-404")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTicketRepository_ByCCCD(t *testing.T) {
	repo, fixtures := setupTicketRepoTest(t)
	ctx := context.Background()

	_, err := fixtures.CreateTestTicket("VE-001", "123456789", "guest@example.com")
	require.NoError(t, err)

	found, err := repo.ByCCCD(ctx, "123456789")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "VE-001", found.TicketCode)
}

func TestTicketRepository_ExistingCodes(t *testing.T) {
	repo, fixtures := setupTicketRepoTest(t)
	ctx := context.Background()

	_, err := fixtures.CreateTestTicket("VE-001", "123456789", "a@example.com")
	require.NoError(t, err)
	_, err = fixtures.CreateTestTicket("VE-002", "987654321", "b@example.com")
	require.NoError(t, err)

	existing, err := repo.ExistingCodes(ctx, []string{"VE-001", "VE-002", "VE-404"})
	require.NoError(t, err)

	assert.Len(t, existing, 2)
	assert.Contains(t, existing, "VE-001")
	assert.Contains(t, existing, "VE-002")
	assert.NotContains(t, existing, "VE-404")

	empty, err := repo.ExistingCodes(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTicketRepository_SaveBatch_DuplicateCode(t *testing.T) {
	repo, fixtures := setupTicketRepoTest(t)
	ctx := context.Background()

	_, err := fixtures.CreateTestTicket("VE-001", "123456789", "a@example.com")
	require.NoError(t, err)

	err = repo.SaveBatch(ctx, []*models.Ticket{
		{Name: "B", CCCD: "987654321", TicketCode: "VE-001"},
	})
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))
}

func TestTicketRepository_UpdateFields(t *testing.T) {
	repo, fixtures := setupTicketRepoTest(t)
	ctx := context.Background()

	created, err := fixtures.CreateTestTicket("VE-001", "123456789", "guest@example.com")
	require.NoError(t, err)

	updated, err := repo.UpdateFields(ctx, created.ID, models.TicketUpdate{
		Name:  utils.ToPtr("Trần Thị B"),
		Email: utils.ToPtr("new@example.com"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Trần Thị B", updated.Name)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "VE-001", updated.TicketCode, "untouched fields are preserved")

	missing, err := repo.UpdateFields(ctx, 999999, models.TicketUpdate{Name: utils.ToPtr("X")})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTicketRepository_UpdateFields_DuplicateCode(t *testing.T) {
	repo, fixtures := setupTicketRepoTest(t)
	ctx := context.Background()

	first, err := fixtures.CreateTestTicket("VE-001", "123456789", "a@example.com")
	require.NoError(t, err)
	_, err = fixtures.CreateTestTicket("VE-002", "987654321", "b@example.com")
	require.NoError(t, err)

	_, err = repo.UpdateFields(ctx, first.ID, models.TicketUpdate{
		TicketCode: utils.ToPtr("VE-002"),
	})
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))
}

func TestTicketRepository_UpdateEmailStatus(t *testing.T) {
	repo, fixtures := setupTicketRepoTest(t)
	ctx := context.Background()

	created, err := fixtures.CreateTestTicket("VE-001", "123456789", "guest@example.com")
	require.NoError(t, err)

	reason := "smtp rejected"
	failed, err := repo.UpdateEmailStatus(ctx, created.ID, models.EmailStatusFailed, &reason)
	require.NoError(t, err)
	require.NotNil(t, failed)
	assert.Equal(t, models.EmailStatusFailed, failed.EmailStatus)
	require.NotNil(t, failed.EmailError)
	assert.Equal(t, "smtp rejected", *failed.EmailError)

	sent, err := repo.UpdateEmailStatus(ctx, created.ID, models.EmailStatusSent, nil)
	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, models.EmailStatusSent, sent.EmailStatus)
	assert.NotNil(t, sent.EmailSentAt)
	assert.Nil(t, sent.EmailError)

	// Sent is terminal: a later failure leaves the record untouched.
	still, err := repo.UpdateEmailStatus(ctx, created.ID, models.EmailStatusFailed, &reason)
	require.NoError(t, err)
	require.NotNil(t, still)
	assert.Equal(t, models.EmailStatusSent, still.EmailStatus)
	assert.Nil(t, still.EmailError)
}

func TestTicketRepository_Delete(t *testing.T) {
	repo, fixtures := setupTicketRepoTest(t)
	ctx := context.Background()

	created, err := fixtures.CreateTestTicket("VE-001", "123456789", "guest@example.com")
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := repo.ByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	again, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, again)
}

func TestTicketRepository_ByFilter_Search(t *testing.T) {
	repo, fixtures := setupTicketRepoTest(t)
	ctx := context.Background()

	_, err := fixtures.CreateTestTicket("VE-001", "123456789", "alice@example.com")
	require.NoError(t, err)
	_, err = fixtures.CreateTestTicket("VE-002", "987654321", "bob@example.com")
	require.NoError(t, err)

	search := "alice"
	results, err := repo.ByFilter(ctx, models.TicketFilter{Search: &search}, "created_at DESC", 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "VE-001", results[0].TicketCode)

	count, err := repo.Count(ctx, models.TicketFilter{Search: &search})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
