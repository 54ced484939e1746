// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/coticket/coticket/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// AdminRepository defines operations for admin accounts
type AdminRepository interface {
	Repository[models.Admin, models.AdminFilter]
	ByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// TicketRepository defines operations for tickets
type TicketRepository interface {
	Repository[models.Ticket, models.TicketFilter]
	ByTicketCode(ctx context.Context, code string) (*models.Ticket, error)
	ByCCCD(ctx context.Context, cccd string) (*models.Ticket, error)
	// ExistingCodes returns the subset of the given ticket codes that are
	// already persisted, as a set. One batched query.
	ExistingCodes(ctx context.Context, codes []string) (map[string]struct{}, error)
	// UpdateFields applies a partial update and returns the refreshed row.
	// A unique-constraint violation surfaces as gorm.ErrDuplicatedKey.
	UpdateFields(ctx context.Context, id uint, update models.TicketUpdate) (*models.Ticket, error)
	// UpdateEmailStatus persists a delivery outcome. It stamps email_sent_at
	// and clears email_error on success, and refuses to regress a sent row.
	UpdateEmailStatus(ctx context.Context, id uint, status string, sendErr *string) (*models.Ticket, error)
	Delete(ctx context.Context, id uint) (bool, error)
}
