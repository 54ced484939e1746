package handlers

import (
	"context"
	"log"
	"time"

	"github.com/coticket/coticket/app/dto"
	businessflow "github.com/coticket/coticket/business_flow"
	"github.com/gofiber/fiber/v3"
)

// LookupHandlerInterface defines the contract for the public endpoints
type LookupHandlerInterface interface {
	Lookup(c fiber.Ctx) error
	Contact(c fiber.Ctx) error
}

// LookupHandler handles the public self-service endpoints
type LookupHandler struct {
	lookupFlow businessflow.LookupFlow
	contact    dto.ContactResponse
}

// NewLookupHandler creates a new public lookup handler
func NewLookupHandler(lookupFlow businessflow.LookupFlow, contact dto.ContactResponse) *LookupHandler {
	return &LookupHandler{
		lookupFlow: lookupFlow,
		contact:    contact,
	}
}

func (h *LookupHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *LookupHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Lookup resolves a citizen ID to its ticket
// @Summary Public Ticket Lookup
// @Description Look up a ticket by citizen ID and return its public fields with a QR code
// @Tags Public
// @Produce json
// @Param cccd query string true "Citizen ID"
// @Success 200 {object} dto.APIResponse{data=dto.LookupResponse} "Ticket found"
// @Failure 400 {object} dto.APIResponse "Missing cccd"
// @Failure 404 {object} dto.APIResponse "Ticket not found"
// @Router /api/tickets/lookup [get]
func (h *LookupHandler) Lookup(c fiber.Ctx) error {
	cccd := c.Query("cccd")

	result, err := h.lookupFlow.LookupByCCCD(h.createRequestContext(c, "/api/tickets/lookup"), cccd)
	if err != nil {
		if businessflow.IsCCCDRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "CCCD is required", "CCCD_REQUIRED", nil)
		}
		if businessflow.IsTicketNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Ticket not found", "TICKET_NOT_FOUND", nil)
		}

		log.Println("Ticket lookup failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Ticket lookup failed", "TICKET_LOOKUP_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Ticket found", result)
}

// Contact returns the organizer contact channels
// @Summary Organizer Contact
// @Tags Public
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ContactResponse} "Contact channels"
// @Router /api/contact [get]
func (h *LookupHandler) Contact(c fiber.Ctx) error {
	return h.SuccessResponse(c, fiber.StatusOK, "Contact information", h.contact)
}

// createRequestContext creates a context with timeout and request-scoped values
func (h *LookupHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	ctx = context.WithValue(ctx, "request_id", c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, "user_agent", c.Get("User-Agent"))
	ctx = context.WithValue(ctx, "ip_address", c.IP())
	ctx = context.WithValue(ctx, "endpoint", endpoint)
	ctx = context.WithValue(ctx, "cancel_func", cancel) // Store cancel function for cleanup

	return ctx
}
