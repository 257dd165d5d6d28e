package domain

import "time"

// Name and location are bounded the same way the on-chain strings were.
const (
	MaxNameLen     = 100
	MaxLocationLen = 100
)

// Event is a ticketed event on the ledger. IDs are sequential starting at 1
// and never reused. TicketsSold is a cumulative sales counter; it never
// decreases, not even when tickets are refunded. Cancelled transitions one
// way.
type Event struct {
	ID           int64
	Creator      Principal
	Name         string
	Location     string
	StartsAt     int64
	Price        int64
	TotalTickets int
	TicketsSold  int
	Cancelled    bool
	CreatedAt    time.Time
}

func (e Event) SoldOut() bool { return e.TicketsSold >= e.TotalTickets }
