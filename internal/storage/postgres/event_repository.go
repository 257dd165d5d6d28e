package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbakare/eventchain/internal/domain"
)

const eventColumns = `id, creator, name, location, starts_at, price, total_tickets, tickets_sold, cancelled, created_at`

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// Create stores the event and returns its sequential id. IDs start at 1 and
// are never reused.
func (r *EventRepository) Create(ctx context.Context, event domain.Event) (int64, error) {
	const stmt = `
INSERT INTO events (creator, name, location, starts_at, price, total_tickets, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`
	var id int64
	err := queryRow(ctx, r.pool, stmt,
		string(event.Creator),
		event.Name,
		event.Location,
		event.StartsAt,
		event.Price,
		event.TotalTickets,
		event.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create event: %w", err)
	}
	return id, nil
}

func (r *EventRepository) Get(ctx context.Context, id int64) (*domain.Event, error) {
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

func (r *EventRepository) GetForUpdate(ctx context.Context, id int64) (domain.Event, error) {
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

func (r *EventRepository) List(ctx context.Context) ([]domain.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events ORDER BY id ASC`
	rows, err := query(ctx, r.pool, q)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate events: %w", rows.Err())
	}
	return events, nil
}

func (r *EventRepository) MarkCancelled(ctx context.Context, id int64) error {
	const stmt = `UPDATE events SET cancelled = TRUE WHERE id = $1`
	tag, err := exec(ctx, r.pool, stmt, id)
	if err != nil {
		return fmt.Errorf("cancel event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var e domain.Event
	var creator string
	err := row.Scan(
		&e.ID,
		&creator,
		&e.Name,
		&e.Location,
		&e.StartsAt,
		&e.Price,
		&e.TotalTickets,
		&e.TicketsSold,
		&e.Cancelled,
		&e.CreatedAt,
	)
	if err != nil {
		return domain.Event{}, err
	}
	e.Creator = domain.Principal(creator)
	return e, nil
}
