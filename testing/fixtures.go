package testing

import (
	"fmt"

	"github.com/coticket/coticket/models"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	db *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{db: db}
}

// CreateTestAdmin creates an admin with a bcrypt-hashed password
func (tf *TestFixtures) CreateTestAdmin(email, password string) (*models.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Test Admin",
	}
	if err := tf.db.DB.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create test admin: %w", err)
	}

	return admin, nil
}

// CreateTestTicket creates a ticket with the given code and citizen ID
func (tf *TestFixtures) CreateTestTicket(ticketCode, cccd, email string) (*models.Ticket, error) {
	ticket := &models.Ticket{
		Email:      email,
		Name:       "Test Holder",
		CCCD:       cccd,
		TicketCode: ticketCode,
	}
	if err := tf.db.DB.Create(ticket).Error; err != nil {
		return nil, fmt.Errorf("failed to create test ticket: %w", err)
	}

	return ticket, nil
}

// CreateMultipleTestTickets creates n tickets with sequential codes
func (tf *TestFixtures) CreateMultipleTestTickets(n int) ([]*models.Ticket, error) {
	tickets := make([]*models.Ticket, 0, n)
	for i := 0; i < n; i++ {
		ticket, err := tf.CreateTestTicket(
			fmt.Sprintf("TICKET-%03d", i+1),
			fmt.Sprintf("10000000%d", i+1),
			fmt.Sprintf("holder%d@example.com", i+1),
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}
