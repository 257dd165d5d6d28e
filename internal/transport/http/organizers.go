package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mbakare/eventchain/internal/domain"
)

// OrganizerAdder is the minimal interface needed to approve organizers.
type OrganizerAdder interface {
	AddOrganizer(ctx context.Context, caller, candidate domain.Principal) error
}

// OrganizerChecker is the minimal interface needed for the organizer lookup.
type OrganizerChecker interface {
	IsOrganizer(ctx context.Context, p domain.Principal) (bool, error)
}

// HandleAddOrganizer returns the handler for POST /organizers.
func HandleAddOrganizer(svc OrganizerAdder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}

		var req addOrganizerRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body", 0)
			return
		}
		if req.Principal == "" {
			writeDomainError(w, domain.ErrPrincipalRequired)
			return
		}

		if err := svc.AddOrganizer(r.Context(), caller, domain.Principal(req.Principal)); err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(organizerResponse{Principal: req.Principal, Organizer: true})
	}
}

// HandleIsOrganizer returns the handler for GET /organizers/{principal}.
func HandleIsOrganizer(svc OrganizerChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := r.PathValue("principal")
		if principal == "" {
			writeDomainError(w, domain.ErrPrincipalRequired)
			return
		}

		ok, err := svc.IsOrganizer(r.Context(), domain.Principal(principal))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(organizerResponse{Principal: principal, Organizer: ok})
	}
}

type addOrganizerRequest struct {
	Principal string `json:"principal"`
}

type organizerResponse struct {
	Principal string `json:"principal"`
	Organizer bool   `json:"organizer"`
}
