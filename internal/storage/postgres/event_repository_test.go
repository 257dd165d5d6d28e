package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mbakare/eventchain/internal/domain"
	"github.com/mbakare/eventchain/internal/testutil"
)

func TestEventRepository_CreateAndGet(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewEventRepository(pool)

	event := domain.Event{
		Creator:      "ST2ORGANIZER",
		Name:         "Tech Conference 2025",
		Location:     "Lagos",
		StartsAt:     1750000000,
		Price:        1_000_000,
		TotalTickets: 100,
		CreatedAt:    time.Now().UTC(),
	}

	id, err := repo.Create(ctx, event)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != 1 {
		t.Fatalf("expected first event id 1, got %d", id)
	}

	second, err := repo.Create(ctx, event)
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second != 2 {
		t.Fatalf("expected second event id 2, got %d", second)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatalf("expected event, got nil")
	}
	if got.Name != event.Name || got.Creator != event.Creator || got.TotalTickets != 100 {
		t.Fatalf("unexpected event: %+v", got)
	}
	if got.TicketsSold != 0 || got.Cancelled {
		t.Fatalf("expected fresh event, got %+v", got)
	}

	missing, err := repo.Get(ctx, 999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown id, got %+v", missing)
	}
}

func TestEventRepository_List(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewEventRepository(pool)

	for _, name := range []string{"First", "Second", "Third"} {
		testutil.InsertEvent(t, ctx, pool, domain.Event{
			Creator:      "ST2ORGANIZER",
			Name:         name,
			Location:     "Lagos",
			TotalTickets: 10,
		})
	}

	events, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if events[i].Name != want {
			t.Fatalf("expected event %d to be %q, got %q", i, want, events[i].Name)
		}
		if events[i].ID != int64(i+1) {
			t.Fatalf("expected sequential ids, got %d at index %d", events[i].ID, i)
		}
	}
}

func TestEventRepository_MarkCancelled(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewEventRepository(pool)

	id := testutil.InsertEvent(t, ctx, pool, domain.Event{
		Creator:      "ST2ORGANIZER",
		Name:         "Concert",
		Location:     "Lagos",
		TotalTickets: 10,
	})

	if err := repo.MarkCancelled(ctx, id); err != nil {
		t.Fatalf("mark cancelled: %v", err)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Cancelled {
		t.Fatalf("expected cancelled event")
	}

	if err := repo.MarkCancelled(ctx, 999); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEventRepository_GetForUpdate(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewEventRepository(pool)

	id := testutil.InsertEvent(t, ctx, pool, domain.Event{
		Creator:      "ST2ORGANIZER",
		Name:         "Concert",
		Location:     "Lagos",
		TotalTickets: 10,
	})

	err := repo.WithTx(ctx, func(ctx context.Context) error {
		event, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if event.Name != "Concert" {
			t.Fatalf("unexpected event: %+v", event)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with tx: %v", err)
	}

	err = repo.WithTx(ctx, func(ctx context.Context) error {
		_, err := repo.GetForUpdate(ctx, 999)
		return err
	})
	if !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEventRepository_WithTxRollsBack(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewEventRepository(pool)
	boom := errors.New("boom")

	err := repo.WithTx(ctx, func(ctx context.Context) error {
		if _, err := repo.Create(ctx, domain.Event{
			Creator:      "ST2ORGANIZER",
			Name:         "Doomed",
			Location:     "Lagos",
			TotalTickets: 10,
			CreatedAt:    time.Now().UTC(),
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}

	events, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected rollback to discard the event, got %d", len(events))
	}
}
