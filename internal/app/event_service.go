package app

import (
	"context"

	"github.com/mbakare/eventchain/internal/clock"
	"github.com/mbakare/eventchain/internal/domain"
)

type EventRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, event domain.Event) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Event, error)
	GetForUpdate(ctx context.Context, id int64) (domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	MarkCancelled(ctx context.Context, id int64) error
}

// OrganizerChecker is the slice of the registry the event service needs.
type OrganizerChecker interface {
	IsOrganizer(ctx context.Context, p domain.Principal) (bool, error)
}

// EventService owns the event lifecycle: creation by approved organizers and
// one-way cancellation by the creator. Events are never deleted.
type EventService struct {
	repo     EventRepository
	registry OrganizerChecker
	clock    clock.Clock
}

func NewEventService(repo EventRepository, registry OrganizerChecker, clk clock.Clock) *EventService {
	return &EventService{
		repo:     repo,
		registry: registry,
		clock:    clk,
	}
}

type CreateEventInput struct {
	Name         string
	Location     string
	StartsAt     int64
	Price        int64
	TotalTickets int
}

func (in CreateEventInput) validate() error {
	if in.Name == "" {
		return domain.ErrNameRequired
	}
	if len(in.Name) > domain.MaxNameLen {
		return domain.ErrNameTooLong
	}
	if in.Location == "" {
		return domain.ErrLocationRequired
	}
	if len(in.Location) > domain.MaxLocationLen {
		return domain.ErrLocationTooLong
	}
	if in.Price < 0 {
		return domain.ErrInvalidPrice
	}
	if in.TotalTickets <= 0 {
		return domain.ErrInvalidCapacity
	}
	return nil
}

// CreateEvent stores a new event and returns it with its assigned id. The
// caller must be an approved organizer.
func (s *EventService) CreateEvent(ctx context.Context, caller domain.Principal, in CreateEventInput) (domain.Event, error) {
	if err := in.validate(); err != nil {
		return domain.Event{}, err
	}

	ok, err := s.registry.IsOrganizer(ctx, caller)
	if err != nil {
		return domain.Event{}, err
	}
	if !ok {
		return domain.Event{}, domain.ErrNotApprovedOrganizer
	}

	event := domain.Event{
		Creator:      caller,
		Name:         in.Name,
		Location:     in.Location,
		StartsAt:     in.StartsAt,
		Price:        in.Price,
		TotalTickets: in.TotalTickets,
		CreatedAt:    s.clock.Now(),
	}

	id, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, err
	}
	event.ID = id
	return event, nil
}

// GetEvent returns the event with the given id, or nil when absent.
func (s *EventService) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidID
	}
	return s.repo.Get(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.repo.List(ctx)
}

// CancelEvent marks the event cancelled. Only the creator may cancel, and
// cancelling an already-cancelled event is a no-op.
func (s *EventService) CancelEvent(ctx context.Context, caller domain.Principal, id int64) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if event.Creator != caller {
			return domain.ErrNotCreator
		}
		if event.Cancelled {
			return nil
		}
		return s.repo.MarkCancelled(txCtx, id)
	})
}
