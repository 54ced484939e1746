package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/coticket/coticket/app/dto"
	"github.com/coticket/coticket/app/middleware"
	businessflow "github.com/coticket/coticket/business_flow"
	"github.com/coticket/coticket/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// TicketHandlerInterface defines the contract for ticket handlers
type TicketHandlerInterface interface {
	UploadExcel(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	SendEmail(c fiber.Ctx) error
	SendEmailAll(c fiber.Ctx) error
}

// TicketHandler handles ticket management HTTP requests
type TicketHandler struct {
	importFlow businessflow.ImportFlow
	ticketFlow businessflow.TicketFlow
	emailFlow  businessflow.EmailFlow
	uploadDir  string
	validator  *validator.Validate
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(importFlow businessflow.ImportFlow, ticketFlow businessflow.TicketFlow, emailFlow businessflow.EmailFlow, uploadDir string) *TicketHandler {
	return &TicketHandler{
		importFlow: importFlow,
		ticketFlow: ticketFlow,
		emailFlow:  emailFlow,
		uploadDir:  uploadDir,
		validator:  validator.New(),
	}
}

func (h *TicketHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *TicketHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// UploadExcel imports tickets from an uploaded spreadsheet
// @Summary Import Tickets
// @Description Upload an .xlsx file and import its rows as tickets
// @Tags Tickets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Excel file"
// @Success 200 {object} dto.APIResponse{data=dto.ImportSummary} "Import summary"
// @Failure 400 {object} dto.APIResponse "Invalid file or no data"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/tickets/upload-excel [post]
func (h *TicketHandler) UploadExcel(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Excel file is required", "FILE_REQUIRED", nil)
	}

	if fileHeader.Size > utils.MaxUploadSize {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "File exceeds the 5MB upload limit", "FILE_TOO_LARGE", nil)
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".xlsx") {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Only .xlsx files are accepted", "INVALID_FILE_TYPE", nil)
	}

	// Uploads are staged on disk under a per-day directory and removed
	// once the import finishes.
	dir := filepath.Join(h.uploadDir, utils.UTCNow().Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Println("Failed to create upload directory", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to store uploaded file", "UPLOAD_FAILED", nil)
	}

	filePath := filepath.Join(dir, fmt.Sprintf("%s.xlsx", uuid.New().String()))
	if err := c.SaveFile(fileHeader, filePath); err != nil {
		log.Println("Failed to save uploaded file", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to store uploaded file", "UPLOAD_FAILED", nil)
	}
	defer func() {
		if err := os.Remove(filePath); err != nil {
			log.Println("Failed to remove uploaded file", err)
		}
	}()

	result, err := h.importFlow.ImportExcel(h.createRequestContext(c, "/api/tickets/upload-excel"), filePath)
	if err != nil {
		if businessflow.IsNoExcelData(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Excel file contains no data rows", "EXCEL_NO_DATA", nil)
		}
		if businessflow.IsExcelFileInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Excel file could not be read", "EXCEL_PARSE_FAILED", nil)
		}
		if businessflow.IsTicketCodeExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Ticket code already exists", "TICKET_CODE_EXISTS", nil)
		}

		log.Println("Excel import failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Excel import failed", "IMPORT_FAILED", nil)
	}

	// Nothing imported means every row was rejected or skipped; report it
	// as a failed import with the per-row diagnostics attached.
	if result.Imported == 0 {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "No tickets could be imported", "IMPORT_NO_ROWS", result)
	}

	middleware.RecordImportedTickets(result.Imported)

	message := fmt.Sprintf("Imported %d/%d tickets", result.Imported, result.Total)
	if result.Skipped > 0 {
		message += fmt.Sprintf(", skipped %d rows", result.Skipped)
	}
	return h.SuccessResponse(c, fiber.StatusOK, message, result)
}

// List returns a paginated ticket listing
// @Summary List Tickets
// @Description List tickets with pagination and optional search
// @Tags Tickets
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Search over name, email, cccd and ticket code"
// @Success 200 {object} dto.APIResponse{data=dto.ListTicketsResponse} "Ticket listing"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /api/tickets [get]
func (h *TicketHandler) List(c fiber.Ctx) error {
	req := dto.ListTicketsRequest{
		Page:   1,
		Limit:  10,
		Search: strings.TrimSpace(c.Query("search")),
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Limit = n
		}
	}

	result, err := h.ticketFlow.List(h.createRequestContext(c, "/api/tickets"), &req)
	if err != nil {
		log.Println("Ticket listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list tickets", "TICKET_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tickets retrieved", result)
}

// Get returns a single ticket by ID
// @Summary Get Ticket
// @Tags Tickets
// @Produce json
// @Param id path int true "Ticket ID"
// @Success 200 {object} dto.APIResponse{data=dto.TicketDTO} "Ticket"
// @Failure 404 {object} dto.APIResponse "Ticket not found"
// @Router /api/tickets/{id} [get]
func (h *TicketHandler) Get(c fiber.Ctx) error {
	id, err := h.parseID(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ticket ID", "INVALID_TICKET_ID", nil)
	}

	result, err := h.ticketFlow.Get(h.createRequestContext(c, "/api/tickets/:id"), id)
	if err != nil {
		if businessflow.IsTicketNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Ticket not found", "TICKET_NOT_FOUND", nil)
		}

		log.Println("Ticket lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load ticket", "TICKET_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Ticket retrieved", result)
}

// Update applies a partial update to a ticket
// @Summary Update Ticket
// @Tags Tickets
// @Accept json
// @Produce json
// @Param id path int true "Ticket ID"
// @Param request body dto.UpdateTicketRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.TicketDTO} "Updated ticket"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 404 {object} dto.APIResponse "Ticket not found"
// @Failure 409 {object} dto.APIResponse "Ticket code already exists"
// @Router /api/tickets/{id} [put]
func (h *TicketHandler) Update(c fiber.Ctx) error {
	id, err := h.parseID(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ticket ID", "INVALID_TICKET_ID", nil)
	}

	var req dto.UpdateTicketRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.ticketFlow.Update(h.createRequestContext(c, "/api/tickets/:id"), id, &req)
	if err != nil {
		if businessflow.IsTicketNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Ticket not found", "TICKET_NOT_FOUND", nil)
		}
		if businessflow.IsTicketCodeExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Ticket code already exists", "TICKET_CODE_EXISTS", nil)
		}
		if errors.Is(err, businessflow.ErrTicketUpdateEmpty) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "At least one field must be provided", "TICKET_UPDATE_EMPTY", nil)
		}

		log.Println("Ticket update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update ticket", "TICKET_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Ticket updated", result)
}

// Delete removes a ticket
// @Summary Delete Ticket
// @Tags Tickets
// @Produce json
// @Param id path int true "Ticket ID"
// @Success 200 {object} dto.APIResponse "Ticket deleted"
// @Failure 404 {object} dto.APIResponse "Ticket not found"
// @Router /api/tickets/{id} [delete]
func (h *TicketHandler) Delete(c fiber.Ctx) error {
	id, err := h.parseID(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ticket ID", "INVALID_TICKET_ID", nil)
	}

	if err := h.ticketFlow.Delete(h.createRequestContext(c, "/api/tickets/:id"), id); err != nil {
		if businessflow.IsTicketNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Ticket not found", "TICKET_NOT_FOUND", nil)
		}

		log.Println("Ticket delete failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete ticket", "TICKET_DELETE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Ticket deleted", nil)
}

// SendEmail dispatches the ticket email for one ticket
// @Summary Send Ticket Email
// @Tags Tickets
// @Produce json
// @Param id path int true "Ticket ID"
// @Success 200 {object} dto.APIResponse{data=dto.TicketDTO} "Email sent"
// @Failure 400 {object} dto.APIResponse "Invalid or empty address"
// @Failure 404 {object} dto.APIResponse "Ticket not found"
// @Failure 502 {object} dto.APIResponse "Gateway delivery failure"
// @Router /api/tickets/send-email/{id} [post]
func (h *TicketHandler) SendEmail(c fiber.Ctx) error {
	id, err := h.parseID(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ticket ID", "INVALID_TICKET_ID", nil)
	}

	result, err := h.emailFlow.SendTicketEmail(h.createRequestContextWithTimeout(c, "/api/tickets/send-email/:id", 60*time.Second), id)
	if err != nil {
		if businessflow.IsTicketNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Ticket not found", "TICKET_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidTicketEmail(err) {
			middleware.RecordEmailDispatch("invalid_address")
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Ticket has no valid email address. Update the email before sending.", "INVALID_TICKET_EMAIL", nil)
		}

		middleware.RecordEmailDispatch("failed")
		log.Println("Ticket email dispatch failed", err)
		return h.ErrorResponse(c, fiber.StatusBadGateway, "Failed to deliver ticket email", "EMAIL_DELIVERY_FAILED", nil)
	}

	middleware.RecordEmailDispatch("sent")
	return h.SuccessResponse(c, fiber.StatusOK, fmt.Sprintf("Email sent to %s", result.Email), result)
}

// SendEmailAll dispatches ticket emails for every ticket sequentially
// @Summary Send All Ticket Emails
// @Tags Tickets
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SendAllResult} "Dispatch report"
// @Failure 400 {object} dto.APIResponse "No tickets to send"
// @Router /api/tickets/send-email-all [post]
func (h *TicketHandler) SendEmailAll(c fiber.Ctx) error {
	result, err := h.emailFlow.SendTicketEmailAll(h.createRequestContextWithTimeout(c, "/api/tickets/send-email-all", 10*time.Minute))
	if err != nil {
		if businessflow.IsNoTicketsToSend(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "No tickets to send", "NO_TICKETS_TO_SEND", nil)
		}

		log.Println("Bulk email dispatch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Bulk email dispatch failed", "EMAIL_DISPATCH_FAILED", nil)
	}

	for i := 0; i < result.Success; i++ {
		middleware.RecordEmailDispatch("sent")
	}
	for i := 0; i < result.Failed; i++ {
		middleware.RecordEmailDispatch("failed")
	}

	message := fmt.Sprintf("Sent %d/%d emails", result.Success, result.Total)
	return h.SuccessResponse(c, fiber.StatusOK, message, result)
}

func (h *TicketHandler) parseID(c fiber.Ctx) (uint, error) {
	raw := c.Params("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

// createRequestContext creates a context with timeout and request-scoped values
func (h *TicketHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

// createRequestContextWithTimeout creates a context with custom timeout and request-scoped values
func (h *TicketHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	ctx = context.WithValue(ctx, "request_id", c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel) // Store cancel function for cleanup

	return ctx
}
