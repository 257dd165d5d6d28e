package app

import (
	"context"
	"fmt"

	"github.com/mbakare/eventchain/internal/clock"
	"github.com/mbakare/eventchain/internal/domain"
	"github.com/mbakare/eventchain/internal/settlement"
)

// TicketRepository is the ledger's view of ticket and event state. Event
// records stay owned by the event store; the ticket side only reads them for
// validation and bumps the sold counter through RecordSale.
type TicketRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEvent(ctx context.Context, id int64) (*domain.Event, error)
	GetEventForUpdate(ctx context.Context, id int64) (domain.Event, error)
	RecordSale(ctx context.Context, eventID int64) error
	Get(ctx context.Context, eventID int64, holder domain.Principal) (*domain.Ticket, error)
	GetForUpdate(ctx context.Context, eventID int64, holder domain.Principal) (*domain.Ticket, error)
	Insert(ctx context.Context, ticket domain.Ticket) error
	Move(ctx context.Context, eventID int64, from, to domain.Principal) error
	MarkUsed(ctx context.Context, eventID int64, holder domain.Principal) error
	Delete(ctx context.Context, eventID int64, holder domain.Principal) error
}

// TicketService owns ticket ownership and usage state: purchase, transfer,
// check-in, and refund. Every operation runs as one transaction; a failed
// value transfer aborts the whole call with no state change.
type TicketService struct {
	repo  TicketRepository
	funds settlement.Ledger
	clock clock.Clock
}

func NewTicketService(repo TicketRepository, funds settlement.Ledger, clk clock.Clock) *TicketService {
	return &TicketService{
		repo:  repo,
		funds: funds,
		clock: clk,
	}
}

// Purchase reports a completed ticket sale.
type Purchase struct {
	Ticket domain.Ticket
	Price  int64
	Seller domain.Principal
}

// BuyTicket issues a ticket for eventID to buyer, moving the ticket price
// from the buyer to the event creator. One ticket per holder per event;
// cancelled and sold-out events reject purchases.
func (s *TicketService) BuyTicket(ctx context.Context, buyer domain.Principal, eventID int64) (Purchase, error) {
	var result Purchase

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEventForUpdate(txCtx, eventID)
		if err != nil {
			return err
		}
		existing, err := s.repo.Get(txCtx, eventID, buyer)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyOwnsTicket
		}
		if event.Cancelled {
			return domain.ErrEventCancelled
		}
		if event.SoldOut() {
			return domain.ErrSoldOut
		}

		if event.Price > 0 {
			memo := fmt.Sprintf("ticket purchase, event %d", eventID)
			if err := s.funds.Transfer(txCtx, buyer, event.Creator, event.Price, memo); err != nil {
				return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
			}
		}

		ticket := domain.Ticket{
			EventID:     eventID,
			Holder:      buyer,
			PurchasedAt: s.clock.Now(),
		}
		if err := s.repo.Insert(txCtx, ticket); err != nil {
			return err
		}
		if err := s.repo.RecordSale(txCtx, eventID); err != nil {
			return err
		}

		result = Purchase{Ticket: ticket, Price: event.Price, Seller: event.Creator}
		return nil
	})
	if err != nil {
		return Purchase{}, err
	}
	return result, nil
}

// TransferTicket moves the caller's unused ticket to another holder. The
// recipient must not already hold a ticket for the same event.
func (s *TicketService) TransferTicket(ctx context.Context, caller domain.Principal, eventID int64, to domain.Principal) error {
	if to.IsZero() {
		return domain.ErrPrincipalRequired
	}

	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		ticket, err := s.repo.GetForUpdate(txCtx, eventID, caller)
		if err != nil {
			return err
		}
		if ticket == nil {
			return domain.ErrNoTicketToTransfer
		}
		if ticket.Used {
			return domain.ErrTicketAlreadyUsed
		}

		recipient, err := s.repo.Get(txCtx, eventID, to)
		if err != nil {
			return err
		}
		if recipient != nil {
			return domain.ErrAlreadyOwnsTicket
		}

		return s.repo.Move(txCtx, eventID, caller, to)
	})
}

// CheckInTicket marks the holder's ticket as used. Only the event creator may
// check in tickets, and a used ticket cannot be checked in again.
func (s *TicketService) CheckInTicket(ctx context.Context, caller domain.Principal, eventID int64, holder domain.Principal) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEvent(txCtx, eventID)
		if err != nil {
			return err
		}
		if event == nil {
			return domain.ErrEventNotFound
		}
		if event.Creator != caller {
			return domain.ErrNotEventCreator
		}

		ticket, err := s.repo.GetForUpdate(txCtx, eventID, holder)
		if err != nil {
			return err
		}
		if ticket == nil {
			return domain.ErrNoTicket
		}
		if ticket.Used {
			return domain.ErrAlreadyCheckedIn
		}

		return s.repo.MarkUsed(txCtx, eventID, holder)
	})
}

// Refund reports a completed ticket refund.
type Refund struct {
	EventID int64
	Holder  domain.Principal
	Amount  int64
}

// RefundTicket returns the caller's ticket price and removes the ticket.
// Refunds require a cancelled event, reject used tickets, and are one-shot:
// a second call finds no ticket.
func (s *TicketService) RefundTicket(ctx context.Context, caller domain.Principal, eventID int64) (Refund, error) {
	var result Refund

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetEvent(txCtx, eventID)
		if err != nil {
			return err
		}
		if event == nil || !event.Cancelled {
			return domain.ErrEventNotCancelled
		}

		ticket, err := s.repo.GetForUpdate(txCtx, eventID, caller)
		if err != nil {
			return err
		}
		if ticket == nil {
			return domain.ErrNoTicket
		}
		if ticket.Used {
			return domain.ErrTicketAlreadyUsed
		}

		if event.Price > 0 {
			memo := fmt.Sprintf("ticket refund, event %d", eventID)
			if err := s.funds.Transfer(txCtx, event.Creator, caller, event.Price, memo); err != nil {
				return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
			}
		}

		if err := s.repo.Delete(txCtx, eventID, caller); err != nil {
			return err
		}

		result = Refund{EventID: eventID, Holder: caller, Amount: event.Price}
		return nil
	})
	if err != nil {
		return Refund{}, err
	}
	return result, nil
}

// GetTicket returns the ticket held by holder for eventID, or nil when the
// holder has none.
func (s *TicketService) GetTicket(ctx context.Context, eventID int64, holder domain.Principal) (*domain.Ticket, error) {
	if eventID <= 0 {
		return nil, domain.ErrInvalidID
	}
	return s.repo.Get(ctx, eventID, holder)
}
