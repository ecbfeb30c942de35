package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coordinate is a geographic point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", c.Lat)
	}

	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", c.Lon)
	}

	return nil
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
)

// Principal is an authenticated actor. It may hold the customer role,
// the owner role, both, or neither (pre-role-assignment).
type Principal struct {
	ID           int64
	Name         string
	Roles        []Role
	LastLocation *Coordinate
	LastCity     string
}

func (p *Principal) HasRole(r Role) bool {
	if p == nil {
		return false
	}

	for _, have := range p.Roles {
		if have == r {
			return true
		}
	}

	return false
}

type Gym struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"owner_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	Location    Coordinate `json:"location"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	OpensAt     string     `json:"opens_at"`
	ClosesAt    string     `json:"closes_at"`
	Active      bool       `json:"active"`
}

type PlanDuration string

const (
	DurationDay      PlanDuration = "day"
	DurationWeek     PlanDuration = "week"
	DurationMonth    PlanDuration = "month"
	DurationQuarter  PlanDuration = "quarter"
	DurationHalfYear PlanDuration = "half_year"
	DurationYear     PlanDuration = "year"
)

// Days resolves the duration category into a fixed number of calendar days.
// The mapping is frozen at booking time: later plan edits never alter the
// window of an existing booking.
func (d PlanDuration) Days() (int, error) {
	switch d {
	case DurationDay:
		return 1, nil
	case DurationWeek:
		return 7, nil
	case DurationMonth:
		return 30, nil
	case DurationQuarter:
		return 90, nil
	case DurationHalfYear:
		return 180, nil
	case DurationYear:
		return 365, nil
	default:
		return 0, fmt.Errorf("unknown plan duration %q", string(d))
	}
}

type Plan struct {
	ID       int64           `json:"id"`
	GymID    int64           `json:"gym_id"`
	Name     string          `json:"name"`
	Duration PlanDuration    `json:"duration"`
	Price    decimal.Decimal `json:"price"`
	Features string          `json:"features"`
	Popular  bool            `json:"popular"`
	Active   bool            `json:"active"`
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Booking is a confirmed purchase of a Plan by a customer. Everything except
// Status is immutable after creation: Amount is a snapshot of the plan price
// at purchase time and the validity window is fixed by the plan duration at
// purchase time.
type Booking struct {
	ID         uuid.UUID       `json:"booking_id"`
	AccessCode string          `json:"access_code"`
	CustomerID int64           `json:"customer_id"`
	GymID      int64           `json:"gym_id"`
	PlanID     int64           `json:"plan_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     PaymentStatus   `json:"payment_status"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	CreatedAt  time.Time       `json:"created_at"`
}

// RankedGym pairs a gym with its distance from the search origin in
// kilometers, rounded to one decimal. Distance is nil when no origin was
// given.
type RankedGym struct {
	Gym      Gym      `json:"gym"`
	Distance *float64 `json:"distance,omitempty"`
}

// OwnerStats aggregates bookings across all gyms of one owner.
type OwnerStats struct {
	Gyms          int64           `json:"gyms"`
	TotalBookings int64           `json:"total_bookings"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}
