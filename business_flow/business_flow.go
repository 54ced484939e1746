// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/coticket/coticket/app/dto"
	"github.com/coticket/coticket/models"
)

const RequestIDKey = "X-Request-ID"

// Default pagination bounds for ticket listings
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ClientMetadata holds client-related information for audit logging
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToAdminDTO converts an admin model to its API representation
func ToAdminDTO(admin models.Admin) dto.AdminDTO {
	return dto.AdminDTO{
		ID:    admin.ID,
		Email: admin.Email,
		Name:  admin.Name,
	}
}

// ToTicketDTO converts a ticket model to its API representation
func ToTicketDTO(ticket models.Ticket) dto.TicketDTO {
	t := dto.TicketDTO{
		ID:          ticket.ID,
		Email:       ticket.Email,
		Name:        ticket.Name,
		CCCD:        ticket.CCCD,
		TicketCode:  ticket.TicketCode,
		EmailStatus: ticket.EmailStatus,
		EmailError:  ticket.EmailError,
		CreatedAt:   ticket.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   ticket.UpdatedAt.Format(time.RFC3339),
	}
	if ticket.EmailSentAt != nil {
		sentAt := ticket.EmailSentAt.Format(time.RFC3339)
		t.EmailSentAt = &sentAt
	}
	return t
}

// ToTicketDTOs converts a slice of ticket models
func ToTicketDTOs(tickets []*models.Ticket) []dto.TicketDTO {
	out := make([]dto.TicketDTO, 0, len(tickets))
	for _, ticket := range tickets {
		out = append(out, ToTicketDTO(*ticket))
	}
	return out
}

// normalizePagination clamps page and limit to their allowed ranges
func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}
