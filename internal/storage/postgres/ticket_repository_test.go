package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mbakare/eventchain/internal/domain"
	"github.com/mbakare/eventchain/internal/testutil"
)

func TestTicketRepository_InsertAndGet(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewTicketRepository(pool)
	eventID := testutil.InsertEvent(t, ctx, pool, domain.Event{
		Creator:      "ST2ORGANIZER",
		Name:         "Concert",
		Location:     "Lagos",
		TotalTickets: 10,
	})

	ticket := domain.Ticket{EventID: eventID, Holder: "ST4BUYER", PurchasedAt: time.Now().UTC()}
	if err := repo.Insert(ctx, ticket); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.Get(ctx, eventID, "ST4BUYER")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.Holder != "ST4BUYER" || got.Used {
		t.Fatalf("unexpected ticket: %+v", got)
	}

	// One ticket per wallet per event.
	if err := repo.Insert(ctx, ticket); !errors.Is(err, domain.ErrAlreadyOwnsTicket) {
		t.Fatalf("expected ErrAlreadyOwnsTicket, got %v", err)
	}

	// Tickets only exist against real events.
	if err := repo.Insert(ctx, domain.Ticket{EventID: 999, Holder: "ST4BUYER", PurchasedAt: time.Now().UTC()}); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}

	missing, err := repo.Get(ctx, eventID, "ST6STRANGER")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown holder, got %+v", missing)
	}
}

func TestTicketRepository_RecordSale(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewTicketRepository(pool)
	eventID := testutil.InsertEvent(t, ctx, pool, domain.Event{
		Creator:      "ST2ORGANIZER",
		Name:         "Tiny Show",
		Location:     "Lagos",
		TotalTickets: 2,
	})

	for i := 0; i < 2; i++ {
		if err := repo.RecordSale(ctx, eventID); err != nil {
			t.Fatalf("record sale %d: %v", i, err)
		}
	}

	event, err := repo.GetEvent(ctx, eventID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if event.TicketsSold != 2 {
		t.Fatalf("expected 2 tickets sold, got %d", event.TicketsSold)
	}

	// Counter never passes capacity.
	if err := repo.RecordSale(ctx, eventID); !errors.Is(err, domain.ErrSoldOut) {
		t.Fatalf("expected ErrSoldOut, got %v", err)
	}
}

func TestTicketRepository_RecordSaleCancelledEvent(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewTicketRepository(pool)
	eventID := testutil.InsertEvent(t, ctx, pool, domain.Event{
		Creator:      "ST2ORGANIZER",
		Name:         "Cancelled Show",
		Location:     "Lagos",
		TotalTickets: 10,
		Cancelled:    true,
	})

	if err := repo.RecordSale(ctx, eventID); !errors.Is(err, domain.ErrSoldOut) {
		t.Fatalf("expected ErrSoldOut, got %v", err)
	}
}

func TestTicketRepository_Move(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewTicketRepository(pool)
	eventID := testutil.InsertEvent(t, ctx, pool, domain.Event{
		Creator:      "ST2ORGANIZER",
		Name:         "Concert",
		Location:     "Lagos",
		TotalTickets: 10,
	})
	testutil.InsertTicket(t, ctx, pool, eventID, "ST4BUYER", false)

	if err := repo.Move(ctx, eventID, "ST4BUYER", "ST5FRIEND"); err != nil {
		t.Fatalf("move: %v", err)
	}

	moved, err := repo.Get(ctx, eventID, "ST5FRIEND")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if moved == nil {
		t.Fatalf("expected ticket under new holder")
	}

	old, err := repo.Get(ctx, eventID, "ST4BUYER")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if old != nil {
		t.Fatalf("expected no ticket under previous holder, got %+v", old)
	}

	if err := repo.Move(ctx, eventID, "ST4BUYER", "ST5FRIEND"); !errors.Is(err, domain.ErrNoTicketToTransfer) {
		t.Fatalf("expected ErrNoTicketToTransfer, got %v", err)
	}

	// Moving onto a holder who already has one trips the primary key.
	testutil.InsertTicket(t, ctx, pool, eventID, "ST4BUYER", false)
	if err := repo.Move(ctx, eventID, "ST4BUYER", "ST5FRIEND"); !errors.Is(err, domain.ErrAlreadyOwnsTicket) {
		t.Fatalf("expected ErrAlreadyOwnsTicket, got %v", err)
	}
}

func TestTicketRepository_MarkUsedAndDelete(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewTicketRepository(pool)
	eventID := testutil.InsertEvent(t, ctx, pool, domain.Event{
		Creator:      "ST2ORGANIZER",
		Name:         "Concert",
		Location:     "Lagos",
		TotalTickets: 10,
	})
	testutil.InsertTicket(t, ctx, pool, eventID, "ST4BUYER", false)

	if err := repo.MarkUsed(ctx, eventID, "ST4BUYER"); err != nil {
		t.Fatalf("mark used: %v", err)
	}
	got, err := repo.Get(ctx, eventID, "ST4BUYER")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Used {
		t.Fatalf("expected used ticket")
	}

	if err := repo.MarkUsed(ctx, eventID, "ST6STRANGER"); !errors.Is(err, domain.ErrNoTicket) {
		t.Fatalf("expected ErrNoTicket, got %v", err)
	}

	if err := repo.Delete(ctx, eventID, "ST4BUYER"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, eventID, "ST4BUYER"); !errors.Is(err, domain.ErrNoTicket) {
		t.Fatalf("expected ErrNoTicket after delete, got %v", err)
	}
}
