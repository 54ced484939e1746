package dto

// TicketDTO represents a ticket in API responses
type TicketDTO struct {
	ID          uint    `json:"id"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	CCCD        string  `json:"cccd"`
	TicketCode  string  `json:"ticket_code"`
	EmailStatus string  `json:"email_status"`
	EmailSentAt *string `json:"email_sent_at,omitempty"`
	EmailError  *string `json:"email_error,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// UpdateTicketRequest represents a partial ticket update
type UpdateTicketRequest struct {
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	CCCD       *string `json:"cccd,omitempty" validate:"omitempty,min=1,max=12"`
	TicketCode *string `json:"ticket_code,omitempty" validate:"omitempty,min=1,max=100"`
}

// ListTicketsRequest captures pagination and search parameters
type ListTicketsRequest struct {
	Page   int    `json:"page" validate:"omitempty,min=1"`
	Limit  int    `json:"limit" validate:"omitempty,min=1,max=100"`
	Search string `json:"search" validate:"omitempty,max=255"`
}

// PaginationDTO describes the paging state of a list response
type PaginationDTO struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// ListTicketsResponse is the paginated ticket listing
type ListTicketsResponse struct {
	Tickets    []TicketDTO   `json:"tickets"`
	Pagination PaginationDTO `json:"pagination"`
}
