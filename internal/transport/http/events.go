package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/mbakare/eventchain/internal/app"
	"github.com/mbakare/eventchain/internal/cache"
	"github.com/mbakare/eventchain/internal/domain"
	"github.com/mbakare/eventchain/internal/queue"
)

// EventCreator is the minimal interface needed to create events.
type EventCreator interface {
	CreateEvent(ctx context.Context, caller domain.Principal, in app.CreateEventInput) (domain.Event, error)
}

// EventReader is the minimal interface needed for event lookups.
type EventReader interface {
	GetEvent(ctx context.Context, id int64) (*domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
}

// EventCanceller is the minimal interface needed to cancel events.
type EventCanceller interface {
	CancelEvent(ctx context.Context, caller domain.Principal, id int64) error
}

// HandleCreateEvent returns the handler for POST /events.
func HandleCreateEvent(svc EventCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}

		var req createEventRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body", 0)
			return
		}

		event, err := svc.CreateEvent(r.Context(), caller, app.CreateEventInput{
			Name:         req.Name,
			Location:     req.Location,
			StartsAt:     req.StartsAt,
			Price:        req.Price,
			TotalTickets: req.TotalTickets,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toEventResponse(event))
	}
}

// HandleListEvents returns the handler for GET /events.
func HandleListEvents(svc EventReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := svc.ListEvents(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]eventResponse, 0, len(events))
		for _, event := range events {
			resp = append(resp, toEventResponse(event))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleGetEvent returns the handler for GET /events/{id}, read through the
// event cache when one is configured.
func HandleGetEvent(svc EventReader, events *cache.EventCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseEventID(w, r)
		if !ok {
			return
		}

		if event, hit := events.Get(r.Context(), id); hit {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(toEventResponse(*event))
			return
		}

		event, err := svc.GetEvent(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if event == nil {
			writeDomainError(w, domain.ErrEventNotFound)
			return
		}
		events.Put(r.Context(), *event)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(toEventResponse(*event))
	}
}

// HandleCancelEvent returns the handler for POST /events/{id}/cancel.
func HandleCancelEvent(svc EventCanceller, events *cache.EventCache, notifier Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}
		id, ok := parseEventID(w, r)
		if !ok {
			return
		}

		if err := svc.CancelEvent(r.Context(), caller, id); err != nil {
			writeDomainError(w, err)
			return
		}
		events.Invalidate(r.Context(), id)
		notifyEventCancelled(r.Context(), notifier, queue.EventCancelled{
			EventID: id,
			Creator: string(caller),
		})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(okResponse{OK: true})
	}
}

func parseEventID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeDomainError(w, domain.ErrInvalidID)
		return 0, false
	}
	return id, true
}

type createEventRequest struct {
	Name         string `json:"name"`
	Location     string `json:"location"`
	StartsAt     int64  `json:"starts_at"`
	Price        int64  `json:"price"`
	TotalTickets int    `json:"total_tickets"`
}

type eventResponse struct {
	ID           int64     `json:"id"`
	Creator      string    `json:"creator"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	StartsAt     int64     `json:"starts_at"`
	Price        int64     `json:"price"`
	TotalTickets int       `json:"total_tickets"`
	TicketsSold  int       `json:"tickets_sold"`
	Cancelled    bool      `json:"cancelled"`
	CreatedAt    time.Time `json:"created_at"`
}

func toEventResponse(event domain.Event) eventResponse {
	return eventResponse{
		ID:           event.ID,
		Creator:      string(event.Creator),
		Name:         event.Name,
		Location:     event.Location,
		StartsAt:     event.StartsAt,
		Price:        event.Price,
		TotalTickets: event.TotalTickets,
		TicketsSold:  event.TicketsSold,
		Cancelled:    event.Cancelled,
		CreatedAt:    event.CreatedAt,
	}
}

type okResponse struct {
	OK bool `json:"ok"`
}

// Notifier publishes lifecycle notifications after successful operations.
// Publish failures are logged and never fail the request.
type Notifier interface {
	TicketIssued(ctx context.Context, n queue.TicketIssued) error
	TicketCheckedIn(ctx context.Context, n queue.TicketCheckedIn) error
	TicketRefunded(ctx context.Context, n queue.TicketRefunded) error
	EventCancelled(ctx context.Context, n queue.EventCancelled) error
}

func notifyEventCancelled(ctx context.Context, notifier Notifier, n queue.EventCancelled) {
	if notifier == nil {
		return
	}
	if err := notifier.EventCancelled(ctx, n); err != nil {
		log.Printf("notify event cancelled: %v", err)
	}
}
