package domain

import "errors"

var (
	// Authorization failures. Checked before any state is touched.
	ErrNotAdmin             = errors.New("caller is not the admin")
	ErrNotApprovedOrganizer = errors.New("caller is not an approved organizer")
	ErrNotCreator           = errors.New("only the event creator can cancel it")
	ErrNotEventCreator      = errors.New("only the event creator can check in tickets")

	// Existence failures.
	ErrEventNotFound      = errors.New("event not found")
	ErrNoTicket           = errors.New("no ticket held for this event")
	ErrNoTicketToTransfer = errors.New("caller holds no ticket to transfer")

	// State-conflict failures.
	ErrAlreadyOwnsTicket = errors.New("identity already holds a ticket for this event")
	ErrTicketAlreadyUsed = errors.New("ticket has already been used")
	ErrAlreadyCheckedIn  = errors.New("ticket is already checked in")
	ErrEventCancelled    = errors.New("event is cancelled")
	ErrEventNotCancelled = errors.New("event is not cancelled")

	// Capacity failure.
	ErrSoldOut = errors.New("event is sold out")

	// ErrTransferFailed wraps a settlement failure. The enclosing operation
	// aborts with no state change.
	ErrTransferFailed = errors.New("value transfer failed")

	// Validation failures.
	ErrPrincipalRequired = errors.New("principal is required")
	ErrNameRequired      = errors.New("event name is required")
	ErrNameTooLong       = errors.New("event name exceeds the maximum length")
	ErrLocationRequired  = errors.New("event location is required")
	ErrLocationTooLong   = errors.New("event location exceeds the maximum length")
	ErrInvalidPrice      = errors.New("price must not be negative")
	ErrInvalidCapacity   = errors.New("total tickets must be positive")
	ErrInvalidID         = errors.New("invalid id")
)

// LedgerCode returns the numeric error code the on-chain contract reports for
// err, or 0 when the error has no contract equivalent. The contract reports a
// failed refund payout with the same code as an uncancelled event, so both
// map to 506 on the wire even though they are distinct errors here.
func LedgerCode(err error) int {
	switch {
	case errors.Is(err, ErrAlreadyOwnsTicket):
		return 101
	case errors.Is(err, ErrSoldOut):
		return 102
	case errors.Is(err, ErrEventNotFound):
		return 103
	case errors.Is(err, ErrEventCancelled):
		return 104
	case errors.Is(err, ErrTicketAlreadyUsed):
		return 201
	case errors.Is(err, ErrNoTicketToTransfer):
		return 202
	case errors.Is(err, ErrAlreadyCheckedIn):
		return 301
	case errors.Is(err, ErrNoTicket):
		return 302
	case errors.Is(err, ErrNotEventCreator):
		return 303
	case errors.Is(err, ErrNotAdmin):
		return 401
	case errors.Is(err, ErrNotApprovedOrganizer):
		return 402
	case errors.Is(err, ErrNotCreator):
		return 501
	case errors.Is(err, ErrEventNotCancelled), errors.Is(err, ErrTransferFailed):
		return 506
	default:
		return 0
	}
}
