package postgresrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/musclemeter/musclemeter/internal/domain"
)

type BookingRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *BookingRepo) With(db DB) *BookingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BookingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Insert persists a booking as a single row. The unique indexes on id and
// access_code are the uniqueness authority: a duplicate surfaces as
// repository.ErrConflict, which the booking engine treats as a signal to
// regenerate the access code and retry.
func (r *BookingRepo) Insert(ctx context.Context, b *domain.Booking) error {
	const op = "postgresrepo.BookingRepo.Insert"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO bookings (id, access_code, customer_id, gym_id, plan_id,
		        amount, payment_status, start_date, end_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.AccessCode, b.CustomerID, b.GymID, b.PlanID,
		b.Amount, b.Status, b.StartDate, b.EndDate, b.CreatedAt,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *BookingRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.Get"

	db := r.handle()

	var b domain.Booking
	err := db.QueryRow(ctx,
		`SELECT id, access_code, customer_id, gym_id, plan_id,
		        amount, payment_status, start_date, end_date, created_at
		 FROM bookings WHERE id = $1`,
		id,
	).Scan(
		&b.ID, &b.AccessCode, &b.CustomerID, &b.GymID, &b.PlanID,
		&b.Amount, &b.Status, &b.StartDate, &b.EndDate, &b.CreatedAt,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &b, nil
}

func (r *BookingRepo) ListForCustomer(ctx context.Context, customerID int64) ([]domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.ListForCustomer"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, access_code, customer_id, gym_id, plan_id,
		        amount, payment_status, start_date, end_date, created_at
		 FROM bookings WHERE customer_id = $1
		 ORDER BY created_at DESC`,
		customerID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID, &b.AccessCode, &b.CustomerID, &b.GymID, &b.PlanID,
			&b.Amount, &b.Status, &b.StartDate, &b.EndDate, &b.CreatedAt,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return bookings, nil
}
