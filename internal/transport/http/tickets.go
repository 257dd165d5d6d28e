package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/mbakare/eventchain/internal/app"
	"github.com/mbakare/eventchain/internal/cache"
	"github.com/mbakare/eventchain/internal/domain"
	"github.com/mbakare/eventchain/internal/queue"
)

// TicketBuyer is the minimal interface needed to buy tickets.
type TicketBuyer interface {
	BuyTicket(ctx context.Context, buyer domain.Principal, eventID int64) (app.Purchase, error)
}

// TicketTransferrer is the minimal interface needed to transfer tickets.
type TicketTransferrer interface {
	TransferTicket(ctx context.Context, caller domain.Principal, eventID int64, to domain.Principal) error
}

// TicketCheckIn is the minimal interface needed to check in tickets.
type TicketCheckIn interface {
	CheckInTicket(ctx context.Context, caller domain.Principal, eventID int64, holder domain.Principal) error
}

// TicketRefunder is the minimal interface needed to refund tickets.
type TicketRefunder interface {
	RefundTicket(ctx context.Context, caller domain.Principal, eventID int64) (app.Refund, error)
}

// TicketReader is the minimal interface needed for ticket lookups.
type TicketReader interface {
	GetTicket(ctx context.Context, eventID int64, holder domain.Principal) (*domain.Ticket, error)
}

// HandleBuyTicket returns the handler for POST /events/{id}/tickets.
func HandleBuyTicket(svc TicketBuyer, events *cache.EventCache, notifier Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}
		id, ok := parseEventID(w, r)
		if !ok {
			return
		}

		purchase, err := svc.BuyTicket(r.Context(), caller, id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		events.Invalidate(r.Context(), id)
		if notifier != nil {
			if err := notifier.TicketIssued(r.Context(), queue.TicketIssued{
				EventID: id,
				Holder:  string(caller),
				Price:   purchase.Price,
				Seller:  string(purchase.Seller),
			}); err != nil {
				log.Printf("notify ticket issued: %v", err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toTicketResponse(purchase.Ticket))
	}
}

// HandleTransferTicket returns the handler for POST /events/{id}/tickets/transfer.
func HandleTransferTicket(svc TicketTransferrer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}
		id, ok := parseEventID(w, r)
		if !ok {
			return
		}

		var req transferTicketRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body", 0)
			return
		}

		if err := svc.TransferTicket(r.Context(), caller, id, domain.Principal(req.To)); err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(okResponse{OK: true})
	}
}

// HandleCheckInTicket returns the handler for POST /events/{id}/tickets/check-in.
func HandleCheckInTicket(svc TicketCheckIn, notifier Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}
		id, ok := parseEventID(w, r)
		if !ok {
			return
		}

		var req checkInRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body", 0)
			return
		}
		if req.Holder == "" {
			writeDomainError(w, domain.ErrPrincipalRequired)
			return
		}

		if err := svc.CheckInTicket(r.Context(), caller, id, domain.Principal(req.Holder)); err != nil {
			writeDomainError(w, err)
			return
		}
		if notifier != nil {
			if err := notifier.TicketCheckedIn(r.Context(), queue.TicketCheckedIn{
				EventID: id,
				Holder:  req.Holder,
			}); err != nil {
				log.Printf("notify ticket checked in: %v", err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(okResponse{OK: true})
	}
}

// HandleRefundTicket returns the handler for POST /events/{id}/tickets/refund.
func HandleRefundTicket(svc TicketRefunder, notifier Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}
		id, ok := parseEventID(w, r)
		if !ok {
			return
		}

		refund, err := svc.RefundTicket(r.Context(), caller, id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if notifier != nil {
			if err := notifier.TicketRefunded(r.Context(), queue.TicketRefunded{
				EventID: refund.EventID,
				Holder:  string(refund.Holder),
				Amount:  refund.Amount,
			}); err != nil {
				log.Printf("notify ticket refunded: %v", err)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(refundResponse{OK: true, Amount: refund.Amount})
	}
}

// HandleGetTicket returns the handler for GET /events/{id}/tickets/{holder}.
func HandleGetTicket(svc TicketReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseEventID(w, r)
		if !ok {
			return
		}
		holder := r.PathValue("holder")
		if holder == "" {
			writeDomainError(w, domain.ErrPrincipalRequired)
			return
		}

		ticket, err := svc.GetTicket(r.Context(), id, domain.Principal(holder))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if ticket == nil {
			writeDomainError(w, domain.ErrNoTicket)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toTicketResponse(*ticket))
	}
}

type transferTicketRequest struct {
	To string `json:"to"`
}

type checkInRequest struct {
	Holder string `json:"holder"`
}

type ticketResponse struct {
	EventID     int64     `json:"event_id"`
	Holder      string    `json:"holder"`
	Used        bool      `json:"used"`
	PurchasedAt time.Time `json:"purchased_at"`
}

func toTicketResponse(ticket domain.Ticket) ticketResponse {
	return ticketResponse{
		EventID:     ticket.EventID,
		Holder:      string(ticket.Holder),
		Used:        ticket.Used,
		PurchasedAt: ticket.PurchasedAt,
	}
}

type refundResponse struct {
	OK     bool  `json:"ok"`
	Amount int64 `json:"amount"`
}
