package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/musclemeter/musclemeter/internal/domain"
)

// The engine depends on narrow lookups rather than the whole store so the
// state machine can be exercised without a database. The pgx repositories
// satisfy these directly.

type GymProvider interface {
	Get(ctx context.Context, id int64) (*domain.Gym, error)
}

type PlanProvider interface {
	GetForGym(ctx context.Context, planID, gymID int64) (*domain.Plan, error)
}

type PrincipalProvider interface {
	Get(ctx context.Context, id int64) (*domain.Principal, error)
}

type BookingStore interface {
	// Insert persists the booking atomically; a uniqueness violation on the
	// access code surfaces as repository.ErrConflict.
	Insert(ctx context.Context, b *domain.Booking) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	ListForCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error)
}

// Notifier publishes booking-created events after a successful insert.
type Notifier interface {
	PublishBookingCreated(ctx context.Context, bookingID uuid.UUID, gymID int64) error
}

// StatsInvalidator drops cached owner dashboards touched by a new booking.
type StatsInvalidator interface {
	InvalidateOwnerStats(ctx context.Context, ownerID int64) error
}
