package domain

import "time"

// Ticket binds one holder to one event. The existence of the record is the
// proof of ownership; there is no separate token id. A holder has at most one
// ticket per event, and Used transitions one way.
type Ticket struct {
	EventID     int64
	Holder      Principal
	Used        bool
	PurchasedAt time.Time
}
