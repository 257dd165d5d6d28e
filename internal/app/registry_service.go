package app

import (
	"context"
	"time"

	"github.com/mbakare/eventchain/internal/clock"
	"github.com/mbakare/eventchain/internal/domain"
)

type OrganizerRepository interface {
	Add(ctx context.Context, organizer domain.Principal, at time.Time) error
	Exists(ctx context.Context, organizer domain.Principal) (bool, error)
}

// RegistryService tracks the fixed admin and the set of approved organizers.
// The admin is fixed at construction, the deployer analog, and is never
// reassigned.
type RegistryService struct {
	admin domain.Principal
	repo  OrganizerRepository
	clock clock.Clock
}

func NewRegistryService(admin domain.Principal, repo OrganizerRepository, clk clock.Clock) *RegistryService {
	return &RegistryService{
		admin: admin,
		repo:  repo,
		clock: clk,
	}
}

func (s *RegistryService) Admin() domain.Principal {
	return s.admin
}

// AddOrganizer approves candidate to create events. Only the admin may call
// it. Re-adding an existing organizer is a no-op.
func (s *RegistryService) AddOrganizer(ctx context.Context, caller, candidate domain.Principal) error {
	if caller != s.admin {
		return domain.ErrNotAdmin
	}
	if candidate.IsZero() {
		return domain.ErrPrincipalRequired
	}
	return s.repo.Add(ctx, candidate, s.clock.Now())
}

// IsOrganizer reports whether p may create events. The admin is implicitly
// approved: the deployer creates events without a prior add-organizer call.
func (s *RegistryService) IsOrganizer(ctx context.Context, p domain.Principal) (bool, error) {
	if p == s.admin {
		return true, nil
	}
	return s.repo.Exists(ctx, p)
}
