package postgresrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/musclemeter/musclemeter/internal/domain"
)

type StatsRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *StatsRepo) With(db DB) *StatsRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *StatsRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// OwnerStats aggregates bookings and completed revenue across every gym
// the owner lists.
func (r *StatsRepo) OwnerStats(ctx context.Context, ownerID int64) (*domain.OwnerStats, error) {
	const op = "postgresrepo.StatsRepo.OwnerStats"

	db := r.handle()

	var s domain.OwnerStats
	err := db.QueryRow(ctx,
		`SELECT count(DISTINCT g.id),
		        count(b.id),
		        coalesce(sum(b.amount) FILTER (WHERE b.payment_status = 'completed'), 0)
		 FROM gyms g
		 LEFT JOIN bookings b ON b.gym_id = g.id
		 WHERE g.owner_id = $1`,
		ownerID,
	).Scan(&s.Gyms, &s.TotalBookings, &s.TotalRevenue)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &s, nil
}
