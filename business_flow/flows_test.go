package businessflow

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/coticket/coticket/models"
	"github.com/coticket/coticket/utils"
	"gorm.io/gorm"
)

// fakeTicketRepo is an in-memory TicketRepository for flow tests
type fakeTicketRepo struct {
	tickets map[uint]*models.Ticket
	nextID  uint

	saveBatchErr error
	listErr      error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{
		tickets: make(map[uint]*models.Ticket),
		nextID:  1,
	}
}

func (f *fakeTicketRepo) add(ticket *models.Ticket) *models.Ticket {
	ticket.ID = f.nextID
	f.nextID++
	if ticket.EmailStatus == "" {
		ticket.EmailStatus = models.EmailStatusPending
	}
	now := utils.UTCNow()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	f.tickets[ticket.ID] = ticket
	return ticket
}

func (f *fakeTicketRepo) sorted() []*models.Ticket {
	out := make([]*models.Ticket, 0, len(f.tickets))
	for _, t := range f.tickets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeTicketRepo) matches(t *models.Ticket, filter models.TicketFilter) bool {
	if filter.ID != nil && t.ID != *filter.ID {
		return false
	}
	if filter.Email != nil && t.Email != *filter.Email {
		return false
	}
	if filter.CCCD != nil && t.CCCD != *filter.CCCD {
		return false
	}
	if filter.TicketCode != nil && t.TicketCode != *filter.TicketCode {
		return false
	}
	if filter.EmailStatus != nil && t.EmailStatus != *filter.EmailStatus {
		return false
	}
	if filter.Search != nil && *filter.Search != "" {
		s := strings.ToLower(*filter.Search)
		if !strings.Contains(strings.ToLower(t.Name), s) &&
			!strings.Contains(strings.ToLower(t.Email), s) &&
			!strings.Contains(strings.ToLower(t.CCCD), s) &&
			!strings.Contains(strings.ToLower(t.TicketCode), s) {
			return false
		}
	}
	return true
}

func (f *fakeTicketRepo) ByID(ctx context.Context, id uint) (*models.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTicketRepo) ByFilter(ctx context.Context, filter models.TicketFilter, orderBy string, limit, offset int) ([]*models.Ticket, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Ticket
	for _, t := range f.sorted() {
		if f.matches(t, filter) {
			copied := *t
			out = append(out, &copied)
		}
	}
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeTicketRepo) Save(ctx context.Context, entity *models.Ticket) error {
	f.add(entity)
	return nil
}

func (f *fakeTicketRepo) SaveBatch(ctx context.Context, entities []*models.Ticket) error {
	if f.saveBatchErr != nil {
		return f.saveBatchErr
	}
	for _, t := range entities {
		for _, existing := range f.tickets {
			if existing.TicketCode == t.TicketCode {
				return gorm.ErrDuplicatedKey
			}
		}
		f.add(t)
	}
	return nil
}

func (f *fakeTicketRepo) Count(ctx context.Context, filter models.TicketFilter) (int64, error) {
	var count int64
	for _, t := range f.tickets {
		if f.matches(t, filter) {
			count++
		}
	}
	return count, nil
}

func (f *fakeTicketRepo) Exists(ctx context.Context, filter models.TicketFilter) (bool, error) {
	count, err := f.Count(ctx, filter)
	return count > 0, err
}

func (f *fakeTicketRepo) ByTicketCode(ctx context.Context, code string) (*models.Ticket, error) {
	for _, t := range f.sorted() {
		if t.TicketCode == code {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTicketRepo) ByCCCD(ctx context.Context, cccd string) (*models.Ticket, error) {
	for _, t := range f.sorted() {
		if t.CCCD == cccd {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTicketRepo) ExistingCodes(ctx context.Context, codes []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	for _, code := range codes {
		for _, t := range f.tickets {
			if t.TicketCode == code {
				existing[code] = struct{}{}
			}
		}
	}
	return existing, nil
}

func (f *fakeTicketRepo) UpdateFields(ctx context.Context, id uint, update models.TicketUpdate) (*models.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, nil
	}
	if update.TicketCode != nil {
		for _, other := range f.tickets {
			if other.ID != id && other.TicketCode == *update.TicketCode {
				return nil, gorm.ErrDuplicatedKey
			}
		}
		t.TicketCode = *update.TicketCode
	}
	if update.Email != nil {
		t.Email = *update.Email
	}
	if update.Name != nil {
		t.Name = *update.Name
	}
	if update.CCCD != nil {
		t.CCCD = *update.CCCD
	}
	t.UpdatedAt = utils.UTCNow()
	copied := *t
	return &copied, nil
}

func (f *fakeTicketRepo) UpdateEmailStatus(ctx context.Context, id uint, status string, sendErr *string) (*models.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, nil
	}
	if models.CanTransitionEmailStatus(t.EmailStatus, status) {
		t.EmailStatus = status
		switch status {
		case models.EmailStatusSent:
			now := utils.UTCNow()
			t.EmailSentAt = &now
			t.EmailError = nil
		case models.EmailStatusFailed:
			t.EmailError = sendErr
		}
		t.UpdatedAt = utils.UTCNow()
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTicketRepo) Delete(ctx context.Context, id uint) (bool, error) {
	if _, ok := f.tickets[id]; !ok {
		return false, nil
	}
	delete(f.tickets, id)
	return true, nil
}

// ticketFixture builds an unsaved ticket with sensible defaults
func ticketFixture(code, cccd, email string) *models.Ticket {
	return &models.Ticket{
		Email:      email,
		Name:       "Nguyễn Văn Test",
		CCCD:       cccd,
		TicketCode: code,
	}
}

// fakeAdminRepo is an in-memory AdminRepository for flow tests
type fakeAdminRepo struct {
	admins map[uint]*models.Admin
	nextID uint
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[uint]*models.Admin), nextID: 1}
}

func (f *fakeAdminRepo) ByID(ctx context.Context, id uint) (*models.Admin, error) {
	a, ok := f.admins[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAdminRepo) ByEmail(ctx context.Context, email string) (*models.Admin, error) {
	for _, a := range f.admins {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAdminRepo) ByFilter(ctx context.Context, filter models.AdminFilter, orderBy string, limit, offset int) ([]*models.Admin, error) {
	var out []*models.Admin
	for _, a := range f.admins {
		copied := *a
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeAdminRepo) Save(ctx context.Context, entity *models.Admin) error {
	entity.ID = f.nextID
	f.nextID++
	entity.CreatedAt = utils.UTCNow()
	f.admins[entity.ID] = entity
	return nil
}

func (f *fakeAdminRepo) SaveBatch(ctx context.Context, entities []*models.Admin) error {
	for _, a := range entities {
		if err := f.Save(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeAdminRepo) Count(ctx context.Context, filter models.AdminFilter) (int64, error) {
	return int64(len(f.admins)), nil
}

func (f *fakeAdminRepo) Exists(ctx context.Context, filter models.AdminFilter) (bool, error) {
	return len(f.admins) > 0, nil
}

// fakeMailer records deliveries and can be told to fail for specific addresses
type fakeMailer struct {
	sent    []string
	failFor map[string]error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{failFor: make(map[string]error)}
}

func (m *fakeMailer) Send(ctx context.Context, toEmail, toName, subject, html, text string) (string, error) {
	if err, ok := m.failFor[toEmail]; ok {
		return "", err
	}
	m.sent = append(m.sent, toEmail)
	return fmt.Sprintf("msg-%d", len(m.sent)), nil
}
