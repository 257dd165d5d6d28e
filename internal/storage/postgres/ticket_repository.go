package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbakare/eventchain/internal/domain"
)

type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

func (r *TicketRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *TicketRepository) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	event, err := scanEvent(queryRow(ctx, r.pool, q, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}

func (r *TicketRepository) GetEventForUpdate(ctx context.Context, id int64) (domain.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	event, err := scanEvent(queryRow(ctx, r.pool, q, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event for update: %w", err)
	}
	return event, nil
}

// RecordSale bumps the sold counter. The guard repeats the capacity check so
// the counter can never pass total_tickets even if a caller skips the
// service-level check.
func (r *TicketRepository) RecordSale(ctx context.Context, eventID int64) error {
	const stmt = `
UPDATE events
SET tickets_sold = tickets_sold + 1
WHERE id = $1 AND tickets_sold < total_tickets AND NOT cancelled`
	tag, err := exec(ctx, r.pool, stmt, eventID)
	if err != nil {
		return fmt.Errorf("record sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSoldOut
	}
	return nil
}

func (r *TicketRepository) Get(ctx context.Context, eventID int64, holder domain.Principal) (*domain.Ticket, error) {
	const q = `SELECT event_id, holder, used, purchased_at FROM tickets WHERE event_id = $1 AND holder = $2`
	return r.getTicket(ctx, q, eventID, holder)
}

func (r *TicketRepository) GetForUpdate(ctx context.Context, eventID int64, holder domain.Principal) (*domain.Ticket, error) {
	const q = `SELECT event_id, holder, used, purchased_at FROM tickets WHERE event_id = $1 AND holder = $2 FOR UPDATE`
	return r.getTicket(ctx, q, eventID, holder)
}

func (r *TicketRepository) getTicket(ctx context.Context, q string, eventID int64, holder domain.Principal) (*domain.Ticket, error) {
	var t domain.Ticket
	var h string
	err := queryRow(ctx, r.pool, q, eventID, string(holder)).Scan(&t.EventID, &h, &t.Used, &t.PurchasedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	t.Holder = domain.Principal(h)
	return &t, nil
}

func (r *TicketRepository) Insert(ctx context.Context, ticket domain.Ticket) error {
	const stmt = `
INSERT INTO tickets (event_id, holder, used, purchased_at)
VALUES ($1, $2, $3, $4)`
	_, err := exec(ctx, r.pool, stmt, ticket.EventID, string(ticket.Holder), ticket.Used, ticket.PurchasedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyOwnsTicket
		}
		if isForeignKeyViolation(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

// Move reassigns the ticket from one holder to another in place, preserving
// the used flag and purchase time.
func (r *TicketRepository) Move(ctx context.Context, eventID int64, from, to domain.Principal) error {
	const stmt = `UPDATE tickets SET holder = $3 WHERE event_id = $1 AND holder = $2`
	tag, err := exec(ctx, r.pool, stmt, eventID, string(from), string(to))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyOwnsTicket
		}
		return fmt.Errorf("move ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoTicketToTransfer
	}
	return nil
}

func (r *TicketRepository) MarkUsed(ctx context.Context, eventID int64, holder domain.Principal) error {
	const stmt = `UPDATE tickets SET used = TRUE WHERE event_id = $1 AND holder = $2`
	tag, err := exec(ctx, r.pool, stmt, eventID, string(holder))
	if err != nil {
		return fmt.Errorf("mark ticket used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoTicket
	}
	return nil
}

func (r *TicketRepository) Delete(ctx context.Context, eventID int64, holder domain.Principal) error {
	const stmt = `DELETE FROM tickets WHERE event_id = $1 AND holder = $2`
	tag, err := exec(ctx, r.pool, stmt, eventID, string(holder))
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNoTicket
	}
	return nil
}
