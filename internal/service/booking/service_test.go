package booking

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/musclemeter/musclemeter/internal/access"
	"github.com/musclemeter/musclemeter/internal/domain"
	"github.com/musclemeter/musclemeter/internal/payment"
	"github.com/musclemeter/musclemeter/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGyms struct {
	gyms map[int64]domain.Gym
}

func (s *stubGyms) Get(_ context.Context, id int64) (*domain.Gym, error) {
	g, ok := s.gyms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

type stubPlans struct {
	plans map[int64]domain.Plan
}

func (s *stubPlans) GetForGym(_ context.Context, planID, gymID int64) (*domain.Plan, error) {
	p, ok := s.plans[planID]
	if !ok || p.GymID != gymID {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

type stubPrincipals struct {
	principals map[int64]domain.Principal
}

func (s *stubPrincipals) Get(_ context.Context, id int64) (*domain.Principal, error) {
	p, ok := s.principals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

// stubBookings enforces access-code uniqueness the way the real table's
// unique index does, and can inject extra conflicts up front.
type stubBookings struct {
	byID      map[uuid.UUID]domain.Booking
	byCode    map[string]struct{}
	attempts  int
	conflicts int
}

func newStubBookings() *stubBookings {
	return &stubBookings{
		byID:   make(map[uuid.UUID]domain.Booking),
		byCode: make(map[string]struct{}),
	}
}

func (s *stubBookings) Insert(_ context.Context, b *domain.Booking) error {
	s.attempts++
	if s.conflicts > 0 {
		s.conflicts--
		return fmt.Errorf("insert: %w", repository.ErrConflict)
	}
	if _, dup := s.byCode[b.AccessCode]; dup {
		return fmt.Errorf("insert: %w", repository.ErrConflict)
	}
	s.byID[b.ID] = *b
	s.byCode[b.AccessCode] = struct{}{}
	return nil
}

func (s *stubBookings) Get(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	b, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (s *stubBookings) ListForCustomer(_ context.Context, customerID int64) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range s.byID {
		if b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	return out, nil
}

type fixture struct {
	svc      *Service
	bookings *stubBookings
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gyms := &stubGyms{gyms: map[int64]domain.Gym{
		1: {ID: 1, OwnerID: 100, Name: "Iron Temple", Active: true,
			Location: domain.Coordinate{Lat: 17.43, Lon: 78.40}},
		2: {ID: 2, OwnerID: 100, Name: "Closed Gym", Active: false},
	}}

	plans := &stubPlans{plans: map[int64]domain.Plan{
		10: {ID: 10, GymID: 1, Name: "Day Pass", Duration: domain.DurationDay,
			Price: decimal.RequireFromString("299.00"), Active: true},
		11: {ID: 11, GymID: 1, Name: "Monthly", Duration: domain.DurationMonth,
			Price: decimal.RequireFromString("1499.00"), Active: true},
		12: {ID: 12, GymID: 1, Name: "Retired", Duration: domain.DurationWeek,
			Price: decimal.RequireFromString("500.00"), Active: false},
	}}

	principals := &stubPrincipals{principals: map[int64]domain.Principal{
		7:   {ID: 7, Name: "alice", Roles: []domain.Role{domain.RoleCustomer}},
		8:   {ID: 8, Name: "bob", Roles: []domain.Role{domain.RoleCustomer}},
		100: {ID: 100, Name: "gymboss", Roles: []domain.Role{domain.RoleOwner}},
	}}

	bookings := newStubBookings()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := New(gyms, plans, principals, bookings, access.NewGenerator(), nil, nil, logger)
	svc.now = func() time.Time {
		return time.Date(2025, time.March, 14, 15, 9, 26, 0, time.UTC)
	}

	return &fixture{svc: svc, bookings: bookings}
}

func goodCard() payment.Card {
	return payment.Card{
		Number: "1234 5678 9012 3456",
		Expiry: "12/27",
		CVV:    "123",
		Holder: "ALICE",
	}
}

func TestCreate_DayPassScenario(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.Create(context.Background(), 7, 1, 10, goodCard())
	require.NoError(t, err)

	wantStart := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, wantStart, b.StartDate)
	assert.Equal(t, wantStart.AddDate(0, 0, 1), b.EndDate)
	assert.True(t, b.Amount.Equal(decimal.RequireFromString("299.00")))
	assert.Equal(t, domain.PaymentCompleted, b.Status)
	assert.Equal(t, int64(7), b.CustomerID)
	assert.Equal(t, int64(1), b.GymID)
	assert.Equal(t, int64(10), b.PlanID)
	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Regexp(t, regexp.MustCompile(`^MM-[0-9A-F]{8}$`), b.AccessCode)

	stored, err := f.svc.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.AccessCode, stored.AccessCode)
}

func TestCreate_WindowMatchesDurationTable(t *testing.T) {
	durations := map[domain.PlanDuration]int{
		domain.DurationDay:      1,
		domain.DurationWeek:     7,
		domain.DurationMonth:    30,
		domain.DurationQuarter:  90,
		domain.DurationHalfYear: 180,
		domain.DurationYear:     365,
	}

	for dur, days := range durations {
		t.Run(string(dur), func(t *testing.T) {
			f := newFixture(t)

			plans := f.svc.plans.(*stubPlans)
			plans.plans[10] = domain.Plan{
				ID: 10, GymID: 1, Duration: dur,
				Price: decimal.NewFromInt(100), Active: true,
			}

			b, err := f.svc.Create(context.Background(), 7, 1, 10, goodCard())
			require.NoError(t, err)
			assert.Equal(t, days, int(b.EndDate.Sub(b.StartDate).Hours()/24))
			assert.True(t, b.EndDate.After(b.StartDate))
		})
	}
}

func TestCreate_InactiveGym(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.Create(context.Background(), 7, 2, 10, goodCard())
	assert.ErrorIs(t, err, ErrGymInactive)
	assert.Nil(t, b)
	assert.Zero(t, f.bookings.attempts, "no insert may be attempted")
}

func TestCreate_UnknownGym(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), 7, 999, 10, goodCard())
	assert.ErrorIs(t, err, ErrGymNotFound)
}

func TestCreate_PlanChecks(t *testing.T) {
	f := newFixture(t)

	// Plan of another gym.
	_, err := f.svc.Create(context.Background(), 7, 1, 999, goodCard())
	assert.ErrorIs(t, err, ErrPlanNotFound)

	// Inactive plan.
	_, err = f.svc.Create(context.Background(), 7, 1, 12, goodCard())
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestCreate_OwnerOnlyPrincipalRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), 100, 1, 10, goodCard())
	assert.ErrorIs(t, err, ErrNotACustomer)

	_, err = f.svc.Create(context.Background(), 404, 1, 10, goodCard())
	assert.ErrorIs(t, err, ErrNotACustomer)
}

func TestCreate_BadCardLeavesNoRecord(t *testing.T) {
	f := newFixture(t)

	card := goodCard()
	card.Number = "123"

	_, err := f.svc.Create(context.Background(), 7, 1, 10, card)
	assert.ErrorIs(t, err, payment.ErrInvalidCard)
	assert.Zero(t, f.bookings.attempts)
}

func TestCreate_RetriesOnCodeCollision(t *testing.T) {
	f := newFixture(t)
	f.bookings.conflicts = 2

	b, err := f.svc.Create(context.Background(), 7, 1, 10, goodCard())
	require.NoError(t, err)
	assert.Equal(t, 3, f.bookings.attempts)
	assert.Len(t, f.bookings.byID, 1)
	assert.NotEmpty(t, b.AccessCode)
}

func TestCreate_CodeSpaceExhausted(t *testing.T) {
	f := newFixture(t)
	f.bookings.conflicts = maxCodeRetries

	_, err := f.svc.Create(context.Background(), 7, 1, 10, goodCard())
	assert.ErrorIs(t, err, ErrAccessCodeExhausted)
	assert.Empty(t, f.bookings.byID)
}

func TestCreate_BulkCodesAndIDsDistinct(t *testing.T) {
	f := newFixture(t)

	const n = 200
	for i := 0; i < n; i++ {
		_, err := f.svc.Create(context.Background(), 7, 1, 10, goodCard())
		require.NoError(t, err)
	}

	assert.Len(t, f.bookings.byID, n)
	assert.Len(t, f.bookings.byCode, n)
}

func TestCreate_AmountFrozenAgainstPlanEdits(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.Create(context.Background(), 7, 1, 10, goodCard())
	require.NoError(t, err)

	// Owner reprices the plan after the purchase.
	plans := f.svc.plans.(*stubPlans)
	p := plans.plans[10]
	p.Price = decimal.RequireFromString("999.00")
	plans.plans[10] = p

	stored, err := f.svc.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(decimal.RequireFromString("299.00")))
}

func TestVerifyOwner(t *testing.T) {
	f := newFixture(t)

	b, err := f.svc.Create(context.Background(), 7, 1, 10, goodCard())
	require.NoError(t, err)

	ctx := context.Background()

	ok, err := f.svc.VerifyOwner(ctx, b, nil)
	require.NoError(t, err)
	assert.True(t, ok, "anonymous view allowed")

	ok, err = f.svc.VerifyOwner(ctx, b, &domain.Principal{ID: 7, Roles: []domain.Role{domain.RoleCustomer}})
	require.NoError(t, err)
	assert.True(t, ok, "purchasing customer allowed")

	ok, err = f.svc.VerifyOwner(ctx, b, &domain.Principal{ID: 100, Roles: []domain.Role{domain.RoleOwner}})
	require.NoError(t, err)
	assert.True(t, ok, "gym owner allowed")

	ok, err = f.svc.VerifyOwner(ctx, b, &domain.Principal{ID: 8, Roles: []domain.Role{domain.RoleCustomer}})
	require.NoError(t, err)
	assert.False(t, ok, "unrelated customer denied")
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
