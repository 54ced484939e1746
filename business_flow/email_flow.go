package businessflow

import (
	"context"

	"github.com/coticket/coticket/app/dto"
	"github.com/coticket/coticket/app/services"
	"github.com/coticket/coticket/models"
	"github.com/coticket/coticket/repository"
	"github.com/coticket/coticket/utils"
)

// EmailFlow represents the ticket email dispatch flow used by handlers
type EmailFlow interface {
	SendTicketEmail(ctx context.Context, ticketID uint) (*dto.TicketDTO, error)
	SendTicketEmailAll(ctx context.Context) (*dto.SendAllResult, error)
}

// EmailFlowImpl dispatches ticket emails with an embedded QR code through
// the transactional email gateway and persists the per-ticket outcome
type EmailFlowImpl struct {
	ticketRepo repository.TicketRepository
	mailer     services.Mailer
	qrGen      services.QRGenerator
}

func NewEmailFlow(ticketRepo repository.TicketRepository, mailer services.Mailer, qrGen services.QRGenerator) EmailFlow {
	return &EmailFlowImpl{
		ticketRepo: ticketRepo,
		mailer:     mailer,
		qrGen:      qrGen,
	}
}

func (ef *EmailFlowImpl) SendTicketEmail(ctx context.Context, ticketID uint) (*dto.TicketDTO, error) {
	ticket, err := ef.ticketRepo.ByID(ctx, ticketID)
	if err != nil {
		return nil, NewBusinessError("TICKET_LOOKUP_FAILED", "Failed to lookup ticket", err)
	}
	if ticket == nil {
		return nil, NewBusinessError("TICKET_NOT_FOUND", "Ticket not found", ErrTicketNotFound)
	}

	updated, sendErr := ef.dispatch(ctx, ticket)
	if sendErr != nil {
		return nil, sendErr
	}

	ticketDTO := ToTicketDTO(*updated)
	return &ticketDTO, nil
}

func (ef *EmailFlowImpl) SendTicketEmailAll(ctx context.Context) (*dto.SendAllResult, error) {
	tickets, err := ef.ticketRepo.ByFilter(ctx, models.TicketFilter{}, "id ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("TICKET_LIST_FAILED", "Failed to list tickets", err)
	}
	if len(tickets) == 0 {
		return nil, NewBusinessError("NO_TICKETS_TO_SEND", "No tickets to send", ErrNoTicketsToSend)
	}

	// Tickets are processed one at a time in listing order so the report
	// stays deterministic and a single failure cannot mask the rest.
	result := &dto.SendAllResult{Total: len(tickets)}
	for _, ticket := range tickets {
		entry := dto.SendResultEntry{
			ID:         ticket.ID,
			Email:      ticket.Email,
			TicketCode: ticket.TicketCode,
		}

		if _, sendErr := ef.dispatch(ctx, ticket); sendErr != nil {
			entry.Error = sendErr.Error()
			result.Failed++
			result.FailedList = append(result.FailedList, entry)
			continue
		}

		result.Success++
		result.SuccessList = append(result.SuccessList, entry)
	}

	return result, nil
}

// dispatch runs the per-ticket state machine: validate the address,
// generate the QR artifact, render the document, deliver, and persist
// the outcome. The returned ticket reflects the persisted status.
func (ef *EmailFlowImpl) dispatch(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	if !utils.IsValidEmail(ticket.Email) {
		reason := "invalid or empty address"
		if _, err := ef.ticketRepo.UpdateEmailStatus(ctx, ticket.ID, models.EmailStatusFailed, &reason); err != nil {
			return nil, NewBusinessError("EMAIL_STATUS_UPDATE_FAILED", "Failed to persist email status", err)
		}
		return nil, NewBusinessError("INVALID_TICKET_EMAIL", "Ticket has no valid email address", ErrInvalidTicketEmail)
	}

	qrDataURL, err := ef.qrGen.DataURL(ticket.TicketCode)
	if err != nil {
		ef.persistFailure(ctx, ticket.ID, err)
		return nil, NewBusinessError("QR_GENERATION_FAILED", "Failed to generate QR code", err)
	}

	html, err := services.RenderTicketEmail(ticket.Name, ticket.TicketCode, qrDataURL)
	if err != nil {
		ef.persistFailure(ctx, ticket.ID, err)
		return nil, NewBusinessError("EMAIL_RENDER_FAILED", "Failed to render ticket email", err)
	}

	subject := services.TicketEmailSubject(ticket.TicketCode)
	if _, sendErr := ef.mailer.Send(ctx, ticket.Email, ticket.Name, subject, html, ""); sendErr != nil {
		reason := sendErr.Error()
		if _, err := ef.ticketRepo.UpdateEmailStatus(ctx, ticket.ID, models.EmailStatusFailed, &reason); err != nil {
			return nil, NewBusinessError("EMAIL_STATUS_UPDATE_FAILED", "Failed to persist email status", err)
		}
		return nil, NewBusinessError("EMAIL_DELIVERY_FAILED", "Failed to deliver ticket email", sendErr)
	}

	updated, err := ef.ticketRepo.UpdateEmailStatus(ctx, ticket.ID, models.EmailStatusSent, nil)
	if err != nil {
		return nil, NewBusinessError("EMAIL_STATUS_UPDATE_FAILED", "Failed to persist email status", err)
	}

	return updated, nil
}

// persistFailure records a failed attempt without masking the cause.
func (ef *EmailFlowImpl) persistFailure(ctx context.Context, ticketID uint, cause error) {
	reason := cause.Error()
	_, _ = ef.ticketRepo.UpdateEmailStatus(ctx, ticketID, models.EmailStatusFailed, &reason)
}
