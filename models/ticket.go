package models

import (
	"time"

	"github.com/coticket/coticket/utils"
	"gorm.io/gorm"
)

// Email delivery states for a ticket. A ticket starts pending, moves to sent
// on successful delivery and to failed on a rejected attempt. A sent ticket
// never regresses to failed.
const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

// Ticket represents one issued admission right.
// Table: tickets
// Indices: cccd, ticket_code (unique), email
// CCCD is stored normalized (no leading zeros) so lookups match regardless of
// how the identifier was typed. Email may be empty; such tickets are imported
// but cannot receive their code by mail.
type Ticket struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email      string `gorm:"size:255;index:idx_tickets_email" json:"email"`
	Name       string `gorm:"size:255;not null" json:"name"`
	CCCD       string `gorm:"column:cccd;size:50;not null;index:idx_tickets_cccd" json:"cccd"`
	TicketCode string `gorm:"size:100;not null;uniqueIndex:uk_tickets_ticket_code" json:"ticket_code"`

	EmailStatus string     `gorm:"size:20;not null;default:pending" json:"email_status"`
	EmailSentAt *time.Time `gorm:"" json:"email_sent_at,omitempty"`
	EmailError  *string    `gorm:"type:text" json:"email_error,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Ticket) TableName() string { return "tickets" }

// BeforeCreate normalizes timestamps and the default delivery state.
func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.EmailStatus == "" {
		t.EmailStatus = EmailStatusPending
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = utils.UTCNow()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// CanTransitionEmailStatus reports whether moving from the current delivery
// state to the target state is allowed. Sent is terminal for failures:
// pending→sent, pending→failed, failed→sent, failed→failed, sent→sent.
func CanTransitionEmailStatus(current, target string) bool {
	if current == EmailStatusSent {
		return target == EmailStatusSent
	}
	return target == EmailStatusSent || target == EmailStatusFailed
}

// TicketFilter represents filter criteria for ticket queries
type TicketFilter struct {
	ID            *uint      `json:"id,omitempty"`
	Email         *string    `json:"email,omitempty"`
	CCCD          *string    `json:"cccd,omitempty"`
	TicketCode    *string    `json:"ticket_code,omitempty"`
	EmailStatus   *string    `json:"email_status,omitempty"`
	Search        *string    `json:"search,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}

// TicketUpdate carries a partial update; nil fields are left untouched.
type TicketUpdate struct {
	Email      *string
	Name       *string
	CCCD       *string
	TicketCode *string
}
