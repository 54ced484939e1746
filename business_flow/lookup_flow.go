package businessflow

import (
	"context"
	"strings"

	"github.com/coticket/coticket/app/dto"
	"github.com/coticket/coticket/app/services"
	"github.com/coticket/coticket/repository"
	"github.com/coticket/coticket/utils"
)

// LookupFlow represents the public ticket lookup flow
type LookupFlow interface {
	LookupByCCCD(ctx context.Context, cccd string) (*dto.LookupResponse, error)
}

// LookupFlowImpl resolves a citizen ID to its ticket and a fresh QR code
type LookupFlowImpl struct {
	ticketRepo repository.TicketRepository
	qrGen      services.QRGenerator
}

func NewLookupFlow(ticketRepo repository.TicketRepository, qrGen services.QRGenerator) LookupFlow {
	return &LookupFlowImpl{
		ticketRepo: ticketRepo,
		qrGen:      qrGen,
	}
}

func (lf *LookupFlowImpl) LookupByCCCD(ctx context.Context, cccd string) (*dto.LookupResponse, error) {
	if strings.TrimSpace(cccd) == "" {
		return nil, NewBusinessError("CCCD_REQUIRED", "CCCD is required", ErrCCCDRequired)
	}

	normalized := utils.NormalizeCCCD(cccd)

	ticket, err := lf.ticketRepo.ByCCCD(ctx, normalized)
	if err != nil {
		return nil, NewBusinessError("TICKET_LOOKUP_FAILED", "Failed to lookup ticket", err)
	}
	if ticket == nil {
		return nil, NewBusinessError("TICKET_NOT_FOUND", "Ticket not found", ErrTicketNotFound)
	}

	qrDataURL, err := lf.qrGen.DataURL(ticket.TicketCode)
	if err != nil {
		return nil, NewBusinessError("QR_GENERATION_FAILED", "Failed to generate QR code", err)
	}

	return &dto.LookupResponse{
		Name:       ticket.Name,
		Email:      ticket.Email,
		TicketCode: ticket.TicketCode,
		QRCode:     qrDataURL,
	}, nil
}
