package businessflow

import (
	"context"

	"github.com/coticket/coticket/app/dto"
	"github.com/coticket/coticket/models"
	"github.com/coticket/coticket/repository"
	"github.com/coticket/coticket/utils"
)

// TicketFlow represents the ticket management flow used by handlers
type TicketFlow interface {
	List(ctx context.Context, req *dto.ListTicketsRequest) (*dto.ListTicketsResponse, error)
	Get(ctx context.Context, id uint) (*dto.TicketDTO, error)
	Update(ctx context.Context, id uint, req *dto.UpdateTicketRequest) (*dto.TicketDTO, error)
	Delete(ctx context.Context, id uint) error
}

// TicketFlowImpl provides paginated listing and CRUD over tickets
type TicketFlowImpl struct {
	ticketRepo repository.TicketRepository
}

func NewTicketFlow(ticketRepo repository.TicketRepository) TicketFlow {
	return &TicketFlowImpl{
		ticketRepo: ticketRepo,
	}
}

func (tf *TicketFlowImpl) List(ctx context.Context, req *dto.ListTicketsRequest) (*dto.ListTicketsResponse, error) {
	page, limit := DefaultPage, DefaultLimit
	search := ""
	if req != nil {
		page, limit = normalizePagination(req.Page, req.Limit)
		search = req.Search
	}

	filter := models.TicketFilter{}
	if search != "" {
		filter.Search = &search
	}

	total, err := tf.ticketRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("TICKET_LIST_FAILED", "Failed to count tickets", err)
	}

	offset := (page - 1) * limit
	tickets, err := tf.ticketRepo.ByFilter(ctx, filter, "created_at DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("TICKET_LIST_FAILED", "Failed to list tickets", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &dto.ListTicketsResponse{
		Tickets: ToTicketDTOs(tickets),
		Pagination: dto.PaginationDTO{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

func (tf *TicketFlowImpl) Get(ctx context.Context, id uint) (*dto.TicketDTO, error) {
	ticket, err := tf.ticketRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("TICKET_LOOKUP_FAILED", "Failed to lookup ticket", err)
	}
	if ticket == nil {
		return nil, NewBusinessError("TICKET_NOT_FOUND", "Ticket not found", ErrTicketNotFound)
	}

	ticketDTO := ToTicketDTO(*ticket)
	return &ticketDTO, nil
}

func (tf *TicketFlowImpl) Update(ctx context.Context, id uint, req *dto.UpdateTicketRequest) (*dto.TicketDTO, error) {
	if req == nil || (req.Email == nil && req.Name == nil && req.CCCD == nil && req.TicketCode == nil) {
		return nil, NewBusinessError("TICKET_UPDATE_EMPTY", "At least one field must be provided", ErrTicketUpdateEmpty)
	}

	update := models.TicketUpdate{
		Email:      req.Email,
		Name:       req.Name,
		TicketCode: req.TicketCode,
	}
	if req.CCCD != nil {
		// Citizen IDs are stored with leading zeros stripped so lookups
		// match regardless of how the number was typed.
		normalized := utils.NormalizeCCCD(*req.CCCD)
		update.CCCD = &normalized
	}

	ticket, err := tf.ticketRepo.UpdateFields(ctx, id, update)
	if err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, NewBusinessError("TICKET_CODE_EXISTS", "Ticket code already exists", ErrTicketCodeExists)
		}
		return nil, NewBusinessError("TICKET_UPDATE_FAILED", "Failed to update ticket", err)
	}
	if ticket == nil {
		return nil, NewBusinessError("TICKET_NOT_FOUND", "Ticket not found", ErrTicketNotFound)
	}

	ticketDTO := ToTicketDTO(*ticket)
	return &ticketDTO, nil
}

func (tf *TicketFlowImpl) Delete(ctx context.Context, id uint) error {
	deleted, err := tf.ticketRepo.Delete(ctx, id)
	if err != nil {
		return NewBusinessError("TICKET_DELETE_FAILED", "Failed to delete ticket", err)
	}
	if !deleted {
		return NewBusinessError("TICKET_NOT_FOUND", "Ticket not found", ErrTicketNotFound)
	}
	return nil
}
