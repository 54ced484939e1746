package repository

import (
	"context"
	"errors"

	"github.com/coticket/coticket/models"
	"github.com/coticket/coticket/utils"
	"gorm.io/gorm"
)

// TicketRepositoryImpl implements TicketRepository interface
type TicketRepositoryImpl struct {
	*BaseRepository[models.Ticket, models.TicketFilter]
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &TicketRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Ticket, models.TicketFilter](db),
	}
}

// ByTicketCode retrieves a ticket by its unique code
func (r *TicketRepositoryImpl) ByTicketCode(ctx context.Context, code string) (*models.Ticket, error) {
	filter := models.TicketFilter{TicketCode: &code}
	tickets, err := r.ByFilter(ctx, filter, "", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(tickets) == 0 {
		return nil, nil
	}

	return tickets[0], nil
}

// ByCCCD retrieves the first ticket matching a normalized citizen ID
func (r *TicketRepositoryImpl) ByCCCD(ctx context.Context, cccd string) (*models.Ticket, error) {
	filter := models.TicketFilter{CCCD: &cccd}
	tickets, err := r.ByFilter(ctx, filter, "id ASC", 1, 0)
	if err != nil {
		return nil, err
	}

	if len(tickets) == 0 {
		return nil, nil
	}

	return tickets[0], nil
}

// ExistingCodes returns the subset of the given codes already present in the table.
// Codes are looked up in batches to keep the IN clause bounded.
func (r *TicketRepositoryImpl) ExistingCodes(ctx context.Context, codes []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(codes))
	if len(codes) == 0 {
		return existing, nil
	}

	db := r.getDB(ctx)

	const batchSize = 500
	for start := 0; start < len(codes); start += batchSize {
		end := start + batchSize
		if end > len(codes) {
			end = len(codes)
		}

		var found []string
		err := db.Model(&models.Ticket{}).
			Where("ticket_code IN ?", codes[start:end]).
			Pluck("ticket_code", &found).Error
		if err != nil {
			return nil, err
		}

		for _, code := range found {
			existing[code] = struct{}{}
		}
	}

	return existing, nil
}

// UpdateFields applies a partial update and returns the refreshed row.
// Returns nil when the ticket does not exist.
func (r *TicketRepositoryImpl) UpdateFields(ctx context.Context, id uint, update models.TicketUpdate) (*models.Ticket, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return nil, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	updates := make(map[string]interface{})
	if update.Email != nil {
		updates["email"] = *update.Email
	}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.CCCD != nil {
		updates["cccd"] = *update.CCCD
	}
	if update.TicketCode != nil {
		updates["ticket_code"] = *update.TicketCode
	}
	updates["updated_at"] = utils.UTCNow()

	result := db.Model(&models.Ticket{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		err = result.Error
		return nil, err
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	var ticket models.Ticket
	if err = db.First(&ticket, id).Error; err != nil {
		return nil, err
	}

	return &ticket, nil
}

// UpdateEmailStatus persists a dispatch outcome for a ticket. A row already
// marked sent is never moved back to pending or failed.
func (r *TicketRepositoryImpl) UpdateEmailStatus(ctx context.Context, id uint, status string, sendErr *string) (*models.Ticket, error) {
	ticket, err := r.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, nil
	}

	if !models.CanTransitionEmailStatus(ticket.EmailStatus, status) {
		return ticket, nil
	}

	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return nil, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	updates := map[string]interface{}{
		"email_status": status,
		"updated_at":   utils.UTCNow(),
	}
	switch status {
	case models.EmailStatusSent:
		updates["email_sent_at"] = utils.UTCNow()
		updates["email_error"] = nil
	case models.EmailStatusFailed:
		updates["email_error"] = sendErr
	}

	if err = db.Model(&models.Ticket{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}

	var updated models.Ticket
	if err = db.First(&updated, id).Error; err != nil {
		return nil, err
	}

	return &updated, nil
}

// Delete removes a ticket permanently. Returns false when no row matched.
func (r *TicketRepositoryImpl) Delete(ctx context.Context, id uint) (bool, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return false, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	result := db.Where("id = ?", id).Delete(&models.Ticket{})
	if result.Error != nil {
		err = result.Error
		return false, err
	}

	return result.RowsAffected > 0, nil
}

// applyFilter applies filter criteria to a GORM query
func (r *TicketRepositoryImpl) applyFilter(query *gorm.DB, filter models.TicketFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.Email != nil {
		query = query.Where("email = ?", *filter.Email)
	}
	if filter.CCCD != nil {
		query = query.Where("cccd = ?", *filter.CCCD)
	}
	if filter.TicketCode != nil {
		query = query.Where("ticket_code = ?", *filter.TicketCode)
	}
	if filter.EmailStatus != nil {
		query = query.Where("email_status = ?", *filter.EmailStatus)
	}
	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + *filter.Search + "%"
		query = query.Where(
			"name ILIKE ? OR email ILIKE ? OR cccd ILIKE ? OR ticket_code ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves tickets based on filter criteria
func (r *TicketRepositoryImpl) ByFilter(ctx context.Context, filter models.TicketFilter, orderBy string, limit, offset int) ([]*models.Ticket, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Ticket{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var tickets []*models.Ticket
	if err := query.Find(&tickets).Error; err != nil {
		return nil, err
	}

	return tickets, nil
}

// Count returns the number of tickets matching the filter
func (r *TicketRepositoryImpl) Count(ctx context.Context, filter models.TicketFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Ticket{})

	query = r.applyFilter(query, filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any ticket matching the filter exists
func (r *TicketRepositoryImpl) Exists(ctx context.Context, filter models.TicketFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsDuplicateKey reports whether a write failed on the unique ticket code index.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
