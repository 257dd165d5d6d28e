package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mbakare/eventchain/internal/domain"
)

type OrganizerRepository struct {
	pool *pgxpool.Pool
}

func NewOrganizerRepository(pool *pgxpool.Pool) *OrganizerRepository {
	return &OrganizerRepository{pool: pool}
}

// Add approves an organizer. Re-adding is a no-op; the set is append-only.
func (r *OrganizerRepository) Add(ctx context.Context, organizer domain.Principal, at time.Time) error {
	const stmt = `
INSERT INTO organizers (principal, added_at)
VALUES ($1, $2)
ON CONFLICT (principal) DO NOTHING`
	if _, err := exec(ctx, r.pool, stmt, string(organizer), at); err != nil {
		return fmt.Errorf("add organizer: %w", err)
	}
	return nil
}

func (r *OrganizerRepository) Exists(ctx context.Context, organizer domain.Principal) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM organizers WHERE principal = $1)`
	var exists bool
	if err := queryRow(ctx, r.pool, q, string(organizer)).Scan(&exists); err != nil {
		return false, fmt.Errorf("check organizer: %w", err)
	}
	return exists, nil
}
