package http

import (
	"net/http"

	"github.com/mbakare/eventchain/internal/app"
	"github.com/mbakare/eventchain/internal/cache"
	"github.com/mbakare/eventchain/internal/identity"
)

// NewRouter assembles the service's routes. Reads are open; every mutating
// route requires an authenticated caller.
func NewRouter(
	verifier *identity.Verifier,
	registry *app.RegistryService,
	events *app.EventService,
	tickets *app.TicketService,
	eventCache *cache.EventCache,
	notifier Notifier,
) *http.ServeMux {
	authed := func(h http.Handler) http.Handler {
		return Authenticate(verifier, h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", HealthHandler)

	mux.Handle("POST /organizers", authed(HandleAddOrganizer(registry)))
	mux.Handle("GET /organizers/{principal}", HandleIsOrganizer(registry))

	mux.Handle("POST /events", authed(HandleCreateEvent(events)))
	mux.Handle("GET /events", HandleListEvents(events))
	mux.Handle("GET /events/{id}", HandleGetEvent(events, eventCache))
	mux.Handle("POST /events/{id}/cancel", authed(HandleCancelEvent(events, eventCache, notifier)))

	mux.Handle("POST /events/{id}/tickets", authed(HandleBuyTicket(tickets, eventCache, notifier)))
	mux.Handle("POST /events/{id}/tickets/transfer", authed(HandleTransferTicket(tickets)))
	mux.Handle("POST /events/{id}/tickets/check-in", authed(HandleCheckInTicket(tickets, notifier)))
	mux.Handle("POST /events/{id}/tickets/refund", authed(HandleRefundTicket(tickets, notifier)))
	mux.Handle("GET /events/{id}/tickets/{holder}", HandleGetTicket(tickets))

	mux.Handle("/", NotFoundHandler())
	return mux
}
