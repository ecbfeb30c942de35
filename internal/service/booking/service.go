package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/musclemeter/musclemeter/internal/access"
	"github.com/musclemeter/musclemeter/internal/domain"
	"github.com/musclemeter/musclemeter/internal/payment"
	"github.com/musclemeter/musclemeter/internal/repository"
)

// maxCodeRetries bounds access-code regeneration on uniqueness collisions.
// With ~32 bits of entropy per code, exhausting it means something other
// than bad luck is wrong.
const maxCodeRetries = 5

type Service struct {
	gyms       GymProvider
	plans      PlanProvider
	principals PrincipalProvider
	bookings   BookingStore
	codes      *access.Generator
	notifier   Notifier
	stats      StatsInvalidator
	logger     *slog.Logger
	now        func() time.Time
}

func New(
	gyms GymProvider,
	plans PlanProvider,
	principals PrincipalProvider,
	bookings BookingStore,
	codes *access.Generator,
	notifier Notifier,
	stats StatsInvalidator,
	logger *slog.Logger,
) *Service {
	return &Service{
		gyms:       gyms,
		plans:      plans,
		principals: principals,
		bookings:   bookings,
		codes:      codes,
		notifier:   notifier,
		stats:      stats,
		logger:     logger,
		now:        time.Now,
	}
}

// Create validates a purchase and persists a confirmed booking.
//
// The payment gateway is simulated and always succeeds, so a booking that
// passes validation goes straight to completed. The validity window is
// [today, today+N] in UTC calendar days, N fixed by the plan's duration at
// this moment; the amount is a snapshot of the plan price.
//
// Parameters:
//   - ctx: request-scoped context.
//   - customerID: principal making the purchase.
//   - gymID, planID: the listing being purchased.
//   - card: simulated payment fields.
//
// Returns:
//   - *domain.Booking: the persisted booking, ready for pass rendering.
//   - error: booking.ErrGymNotFound / ErrGymInactive / ErrPlanNotFound /
//     ErrNotACustomer, payment.ErrInvalidCard (with field detail), or
//     booking.ErrAccessCodeExhausted after too many code collisions.
func (s *Service) Create(
	ctx context.Context,
	customerID, gymID, planID int64,
	card payment.Card,
) (*domain.Booking, error) {
	const op = "service.booking.Create"

	gym, err := s.gyms.Get(ctx, gymID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrGymNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !gym.Active {
		return nil, fmt.Errorf("%s: %w", op, ErrGymInactive)
	}

	plan, err := s.plans.GetForGym(ctx, planID, gymID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrPlanNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !plan.Active {
		return nil, fmt.Errorf("%s: %w", op, ErrPlanNotFound)
	}

	principal, err := s.principals.Get(ctx, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotACustomer)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !principal.HasRole(domain.RoleCustomer) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotACustomer)
	}

	if _, err := payment.Validate(card); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	days, err := plan.Duration.Days()
	if err != nil {
		// Unreachable with a constrained plans table; if it happens the
		// data is corrupt and the request must not produce a booking.
		s.logger.Error("plan with invalid duration", "plan_id", plan.ID, "error", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	b := &domain.Booking{
		CustomerID: principal.ID,
		GymID:      gym.ID,
		PlanID:     plan.ID,
		Amount:     plan.Price,
		Status:     domain.PaymentCompleted,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, days),
		CreatedAt:  now,
	}

	for attempt := 0; attempt < maxCodeRetries; attempt++ {
		b.ID = s.codes.NewBookingID()
		b.AccessCode = s.codes.NewAccessCode()

		err := s.bookings.Insert(ctx, b)
		if err == nil {
			if s.stats != nil {
				_ = s.stats.InvalidateOwnerStats(ctx, gym.OwnerID)
			}
			if s.notifier != nil {
				_ = s.notifier.PublishBookingCreated(ctx, b.ID, b.GymID)
			}

			return b, nil
		}

		if errors.Is(err, repository.ErrConflict) {
			s.logger.Warn("access code collision, regenerating",
				"gym_id", gymID, "attempt", attempt+1)
			continue
		}

		s.logger.Error("booking insert failed", "gym_id", gymID, "error", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Error("access code space exhausted", "gym_id", gymID, "retries", maxCodeRetries)
	return nil, fmt.Errorf("%s: %w", op, ErrAccessCodeExhausted)
}

// Get retrieves a booking by its opaque ID.
//
// Returns:
//   - error: booking.ErrBookingNotFound if the booking does not exist.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	const op = "service.booking.Get"

	b, err := s.bookings.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// ListForCustomer returns a customer's bookings, newest first.
func (s *Service) ListForCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	const op = "service.booking.ListForCustomer"

	bookings, err := s.bookings.ListForCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

// GymFor resolves the gym a booking was made at; the pass renderer needs
// its display name and the listing may have gone inactive since purchase.
func (s *Service) GymFor(ctx context.Context, b *domain.Booking) (*domain.Gym, error) {
	const op = "service.booking.GymFor"

	gym, err := s.gyms.Get(ctx, b.GymID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrGymNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return gym, nil
}

// VerifyOwner reports whether principal may view the booking. The verdict is
// advisory: the transport decides what to do with a denial.
//
// Anonymous viewers are allowed (a pass link is shareable); the purchasing
// customer and the owner of the booked gym are allowed; any other
// authenticated principal is denied.
func (s *Service) VerifyOwner(
	ctx context.Context,
	b *domain.Booking,
	principal *domain.Principal,
) (bool, error) {
	const op = "service.booking.VerifyOwner"

	if principal == nil {
		return true, nil
	}

	if principal.ID == b.CustomerID {
		return true, nil
	}

	gym, err := s.gyms.Get(ctx, b.GymID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("%s: %w", op, err)
	}

	return gym.OwnerID == principal.ID, nil
}
