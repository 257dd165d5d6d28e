package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mbakare/eventchain/internal/domain"
	"github.com/mbakare/eventchain/internal/settlement"
)

const (
	codeNotFound           = "not_found"
	codeMethodNotAllowed   = "method_not_allowed"
	codeInvalidRequestBody = "invalid_request_body"
	codeUnauthorized       = "unauthorized"
	codeForbidden          = "forbidden"
	codeInternalError      = "internal_error"

	codeNotAdmin             = "not_admin"
	codeNotApprovedOrganizer = "not_approved_organizer"
	codeNotCreator           = "not_creator"
	codeNotEventCreator      = "not_event_creator"
	codeEventNotFound        = "event_not_found"
	codeNoTicket             = "no_ticket"
	codeNoTicketToTransfer   = "no_ticket_to_transfer"
	codeAlreadyOwnsTicket    = "already_owns_ticket"
	codeTicketAlreadyUsed    = "ticket_already_used"
	codeAlreadyCheckedIn     = "already_checked_in"
	codeEventCancelled       = "event_cancelled"
	codeEventNotCancelled    = "event_not_cancelled"
	codeSoldOut              = "sold_out"
	codeTransferFailed       = "transfer_failed"
	codeInsufficientFunds    = "insufficient_funds"

	codeNameRequired      = "event_name_required"
	codeNameTooLong       = "event_name_too_long"
	codeLocationRequired  = "event_location_required"
	codeLocationTooLong   = "event_location_too_long"
	codeInvalidPrice      = "invalid_price"
	codeInvalidCapacity   = "invalid_capacity"
	codePrincipalRequired = "principal_required"
	codeInvalidID         = "invalid_id"
)

type errorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	LedgerCode int    `json:"ledger_code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string, ledgerCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error:      msg,
		Code:       code,
		LedgerCode: ledgerCode,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps a service error onto an HTTP status, a string code,
// and the numeric code the on-chain contract reports for the same failure.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeError(w, status, code, msg, domain.LedgerCode(err))
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotAdmin):
		return http.StatusForbidden, codeNotAdmin
	case errors.Is(err, domain.ErrNotApprovedOrganizer):
		return http.StatusForbidden, codeNotApprovedOrganizer
	case errors.Is(err, domain.ErrNotCreator):
		return http.StatusForbidden, codeNotCreator
	case errors.Is(err, domain.ErrNotEventCreator):
		return http.StatusForbidden, codeNotEventCreator
	case errors.Is(err, domain.ErrEventNotFound):
		return http.StatusNotFound, codeEventNotFound
	case errors.Is(err, domain.ErrNoTicket):
		return http.StatusNotFound, codeNoTicket
	case errors.Is(err, domain.ErrNoTicketToTransfer):
		return http.StatusNotFound, codeNoTicketToTransfer
	case errors.Is(err, domain.ErrAlreadyOwnsTicket):
		return http.StatusConflict, codeAlreadyOwnsTicket
	case errors.Is(err, domain.ErrTicketAlreadyUsed):
		return http.StatusConflict, codeTicketAlreadyUsed
	case errors.Is(err, domain.ErrAlreadyCheckedIn):
		return http.StatusConflict, codeAlreadyCheckedIn
	case errors.Is(err, domain.ErrEventCancelled):
		return http.StatusConflict, codeEventCancelled
	case errors.Is(err, domain.ErrEventNotCancelled):
		return http.StatusConflict, codeEventNotCancelled
	case errors.Is(err, domain.ErrSoldOut):
		return http.StatusConflict, codeSoldOut
	case errors.Is(err, domain.ErrTransferFailed):
		return http.StatusPaymentRequired, codeTransferFailed
	case errors.Is(err, settlement.ErrInsufficientFunds):
		return http.StatusPaymentRequired, codeInsufficientFunds
	case errors.Is(err, domain.ErrNameRequired):
		return http.StatusBadRequest, codeNameRequired
	case errors.Is(err, domain.ErrNameTooLong):
		return http.StatusBadRequest, codeNameTooLong
	case errors.Is(err, domain.ErrLocationRequired):
		return http.StatusBadRequest, codeLocationRequired
	case errors.Is(err, domain.ErrLocationTooLong):
		return http.StatusBadRequest, codeLocationTooLong
	case errors.Is(err, domain.ErrInvalidPrice):
		return http.StatusBadRequest, codeInvalidPrice
	case errors.Is(err, domain.ErrInvalidCapacity):
		return http.StatusBadRequest, codeInvalidCapacity
	case errors.Is(err, domain.ErrPrincipalRequired):
		return http.StatusBadRequest, codePrincipalRequired
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, codeInvalidID
	default:
		return http.StatusInternalServerError, codeInternalError
	}
}
