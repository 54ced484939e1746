package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/coticket/coticket/app/dto"
	"github.com/coticket/coticket/models"
	"github.com/coticket/coticket/repository"
	"github.com/coticket/coticket/utils"
	"github.com/xuri/excelize/v2"
)

// ImportFlow represents the Excel import flow used by handlers
type ImportFlow interface {
	ImportExcel(ctx context.Context, filePath string) (*dto.ImportSummary, error)
}

// ImportFlowImpl parses an uploaded spreadsheet, reconciles duplicates
// against stored tickets and bulk-inserts the accepted rows
type ImportFlowImpl struct {
	ticketRepo repository.TicketRepository
}

func NewImportFlow(ticketRepo repository.TicketRepository) ImportFlow {
	return &ImportFlowImpl{
		ticketRepo: ticketRepo,
	}
}

// parsedRow is one accepted spreadsheet row awaiting persistence
type parsedRow struct {
	rowNumber  int
	email      string
	name       string
	cccd       string
	ticketCode string
}

// parseResult is the outcome of reading the spreadsheet before any
// database reconciliation
type parseResult struct {
	rows        []parsedRow
	diagnostics []dto.RowDiagnostic
	totalRows   int
}

func (f *ImportFlowImpl) ImportExcel(ctx context.Context, filePath string) (*dto.ImportSummary, error) {
	parsed, err := parseExcelFile(filePath)
	if err != nil {
		return nil, err
	}

	diagnostics := parsed.diagnostics

	// Reconcile against stored tickets. Codes repeated within the upload
	// itself are treated the same way as stored duplicates: first
	// occurrence wins, the rest are skipped.
	codes := make([]string, 0, len(parsed.rows))
	for _, row := range parsed.rows {
		codes = append(codes, row.ticketCode)
	}

	existing, err := f.ticketRepo.ExistingCodes(ctx, codes)
	if err != nil {
		return nil, NewBusinessError("IMPORT_RECONCILE_FAILED", "Failed to check existing ticket codes", err)
	}

	seen := make(map[string]struct{}, len(parsed.rows))
	accepted := make([]parsedRow, 0, len(parsed.rows))
	duplicates := 0
	for _, row := range parsed.rows {
		_, stored := existing[row.ticketCode]
		_, repeated := seen[row.ticketCode]
		if stored || repeated {
			duplicates++
			diagnostics = append(diagnostics, dto.RowDiagnostic{
				Row:     row.rowNumber,
				Message: fmt.Sprintf("Mã vé %q đã tồn tại (bỏ qua)", row.ticketCode),
				Warning: true,
			})
			continue
		}
		seen[row.ticketCode] = struct{}{}
		accepted = append(accepted, row)
	}

	tickets := make([]*models.Ticket, 0, len(accepted))
	for _, row := range accepted {
		tickets = append(tickets, &models.Ticket{
			Email:      row.email,
			Name:       row.name,
			CCCD:       row.cccd,
			TicketCode: row.ticketCode,
		})
	}

	if err := f.ticketRepo.SaveBatch(ctx, tickets); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, NewBusinessError("TICKET_CODE_EXISTS", "Ticket code already exists", ErrTicketCodeExists)
		}
		return nil, NewBusinessError("IMPORT_PERSIST_FAILED", "Failed to insert tickets", err)
	}

	// Skipped counts every flagged row: hard rejections, duplicates and
	// soft warnings alike. A row can be both imported and skipped when it
	// carries only a warning.
	return &dto.ImportSummary{
		Imported:   len(tickets),
		Total:      parsed.totalRows,
		Skipped:    len(diagnostics),
		Duplicates: duplicates,
		Errors:     diagnostics,
		Tickets:    ToTicketDTOs(tickets),
	}, nil
}

// parseExcelFile reads the first sheet of an .xlsx file and validates
// each data row. Hard rejections exclude the row; soft warnings keep it.
func parseExcelFile(filePath string) (*parseResult, error) {
	file, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, NewBusinessError("EXCEL_PARSE_FAILED", "Excel file could not be read", ErrExcelFileInvalid)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewBusinessError("EXCEL_PARSE_FAILED", "Excel file contains no sheets", ErrNoSheetFound)
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, NewBusinessError("EXCEL_PARSE_FAILED", "Excel file could not be read", ErrExcelFileInvalid)
	}
	if len(rows) < 2 {
		return nil, NewBusinessError("EXCEL_NO_DATA", "Excel file contains no data rows", ErrNoExcelData)
	}

	columns := mapHeaderColumns(rows[0])

	result := &parseResult{}
	for i, raw := range rows[1:] {
		// Row 1 is the header, so the first data row reports as row 2.
		rowNumber := i + 2
		result.totalRows++

		email := cellValue(raw, columns["email"])
		name := cellValue(raw, columns["name"])
		cccd := cellValue(raw, columns["cccd"])
		ticketCode := cellValue(raw, columns["ticketcode"])

		var hardErrors []string
		var warnings []string

		if email == "" {
			warnings = append(warnings, "Email trống (không thể gửi email)")
		} else if !utils.IsValidEmail(email) {
			warnings = append(warnings, "Email không đúng định dạng")
		}

		if name == "" {
			hardErrors = append(hardErrors, "Tên không được để trống")
		}

		if cccd == "" {
			hardErrors = append(hardErrors, "CCCD không được để trống")
		} else if len(cccd) < 9 || len(cccd) > 12 {
			hardErrors = append(hardErrors, "CCCD phải có từ 9-12 ký tự")
		}

		if ticketCode == "" {
			hardErrors = append(hardErrors, "Mã vé không được để trống")
		}

		if len(hardErrors) > 0 {
			result.diagnostics = append(result.diagnostics, dto.RowDiagnostic{
				Row:     rowNumber,
				Message: strings.Join(hardErrors, ", "),
			})
			continue
		}

		result.rows = append(result.rows, parsedRow{
			rowNumber:  rowNumber,
			email:      email,
			name:       name,
			cccd:       utils.NormalizeCCCD(cccd),
			ticketCode: ticketCode,
		})

		if len(warnings) > 0 {
			result.diagnostics = append(result.diagnostics, dto.RowDiagnostic{
				Row:     rowNumber,
				Message: strings.Join(warnings, ", "),
				Warning: true,
			})
		}
	}

	return result, nil
}

// mapHeaderColumns resolves the column index of each expected header.
// Matching is case-insensitive so "TicketCode" and "ticketcode" both work.
// Missing headers map to -1 and resolve to empty cells.
func mapHeaderColumns(header []string) map[string]int {
	columns := map[string]int{
		"email":      -1,
		"name":       -1,
		"cccd":       -1,
		"ticketcode": -1,
	}
	for i, cell := range header {
		key := strings.ToLower(strings.TrimSpace(cell))
		if _, ok := columns[key]; ok {
			columns[key] = i
		}
	}
	return columns
}

func cellValue(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
