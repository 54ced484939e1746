package businessflow

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeTestExcel builds an .xlsx file in a temp dir with the given rows,
// header included, and returns its path.
func writeTestExcel(t *testing.T, rows [][]string) string {
	t.Helper()

	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, file.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "tickets.xlsx")
	require.NoError(t, file.SaveAs(path))
	return path
}

func TestImportFlow_ImportExcel_MixedRows(t *testing.T) {
	repo := newFakeTicketRepo()
	repo.add(ticketFixture("VE-001", "123456789", "stored@example.com"))

	flow := NewImportFlow(repo)

	path := writeTestExcel(t, [][]string{
		{"email", "name", "cccd", "ticketCode"},
		{"a@example.com", "Nguyễn Văn A", "001234567890", "VE-100"},
		{"", "Trần Thị B", "987654321", "VE-101"},
		{"c@example.com", "Lê Văn C", "111222333", "VE-001"},
		{"d@example.com", "", "444555666", "VE-102"},
		{"e@example.com", "Phạm Thị E", "123456789012", "VE-103"},
	})

	summary, err := flow.ImportExcel(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, summary)

	// Row 4 (VE-001) is a stored duplicate and row 5 has no name, so of the
	// five data rows three are imported. Skipped counts every flagged row,
	// including row 3 which is imported with an empty-email warning.
	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 3, summary.Imported)
	assert.Equal(t, 3, summary.Skipped)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Len(t, summary.Tickets, 3)

	// The missing-email row is imported with a warning attached.
	imported, err := repo.ByTicketCode(context.Background(), "VE-101")
	require.NoError(t, err)
	require.NotNil(t, imported)
	assert.Equal(t, "", imported.Email)

	// Leading zeros are stripped before storage.
	normalized, err := repo.ByTicketCode(context.Background(), "VE-100")
	require.NoError(t, err)
	require.NotNil(t, normalized)
	assert.Equal(t, "1234567890", normalized.CCCD)

	var warnings, hard int
	for _, diag := range summary.Errors {
		if diag.Warning {
			warnings++
		} else {
			hard++
		}
	}
	assert.Equal(t, 2, warnings, "empty email and duplicate are warnings")
	assert.Equal(t, 1, hard, "missing name is a hard rejection")
}

func TestImportFlow_ImportExcel_IntraFileDuplicates(t *testing.T) {
	repo := newFakeTicketRepo()
	flow := NewImportFlow(repo)

	path := writeTestExcel(t, [][]string{
		{"email", "name", "cccd", "ticketCode"},
		{"a@example.com", "Nguyễn Văn A", "123456789", "VE-200"},
		{"b@example.com", "Trần Thị B", "987654321", "VE-200"},
	})

	summary, err := flow.ImportExcel(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Duplicates)

	// First occurrence wins.
	ticket, err := repo.ByTicketCode(context.Background(), "VE-200")
	require.NoError(t, err)
	require.NotNil(t, ticket)
	assert.Equal(t, "a@example.com", ticket.Email)
}

func TestImportFlow_ImportExcel_WarningRowsCountAsSkipped(t *testing.T) {
	repo := newFakeTicketRepo()
	flow := NewImportFlow(repo)

	path := writeTestExcel(t, [][]string{
		{"email", "name", "cccd", "ticketCode"},
		{"a@example.com", "Nguyễn Văn A", "123456789", "VE-400"},
		{"", "Trần Thị B", "987654321", "VE-401"},
	})

	summary, err := flow.ImportExcel(context.Background(), path)
	require.NoError(t, err)

	// The empty-email row is imported but still reported as skipped.
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Duplicates)

	imported, err := repo.ByTicketCode(context.Background(), "VE-401")
	require.NoError(t, err)
	assert.NotNil(t, imported)
}

func TestImportFlow_ImportExcel_InvalidCCCDLength(t *testing.T) {
	repo := newFakeTicketRepo()
	flow := NewImportFlow(repo)

	path := writeTestExcel(t, [][]string{
		{"email", "name", "cccd", "ticketCode"},
		{"a@example.com", "Nguyễn Văn A", "12345678", "VE-300"},
		{"b@example.com", "Trần Thị B", "1234567890123", "VE-301"},
	})

	summary, err := flow.ImportExcel(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Imported)
	assert.Equal(t, 2, summary.Skipped)
	assert.Len(t, summary.Errors, 2)
}

func TestImportFlow_ImportExcel_NoDataRows(t *testing.T) {
	repo := newFakeTicketRepo()
	flow := NewImportFlow(repo)

	path := writeTestExcel(t, [][]string{
		{"email", "name", "cccd", "ticketCode"},
	})

	summary, err := flow.ImportExcel(context.Background(), path)
	require.Error(t, err)
	assert.Nil(t, summary)
	assert.True(t, IsNoExcelData(err))
}

func TestImportFlow_ImportExcel_UnreadableFile(t *testing.T) {
	repo := newFakeTicketRepo()
	flow := NewImportFlow(repo)

	path := filepath.Join(t.TempDir(), "not-an-excel.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a spreadsheet"), 0o600))

	summary, err := flow.ImportExcel(context.Background(), path)
	require.Error(t, err)
	assert.Nil(t, summary)
	assert.True(t, IsExcelFileInvalid(err))
}

func TestImportFlow_ImportExcel_AllRowsRejected(t *testing.T) {
	repo := newFakeTicketRepo()
	flow := NewImportFlow(repo)

	path := writeTestExcel(t, [][]string{
		{"email", "name", "cccd", "ticketCode"},
		{"a@example.com", "", "", ""},
	})

	// Zero accepted rows is a normal outcome, not an error.
	summary, err := flow.ImportExcel(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
	assert.Empty(t, summary.Tickets)
}
