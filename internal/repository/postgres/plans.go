package postgresrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/musclemeter/musclemeter/internal/domain"
)

type PlanRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *PlanRepo) With(db DB) *PlanRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *PlanRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const planColumns = `id, gym_id, name, duration, price, features, is_popular, is_active`

// GetForGym returns the plan only when it belongs to the given gym; a plan
// attached to a different gym is repository.ErrNotFound, not a leak.
func (r *PlanRepo) GetForGym(ctx context.Context, planID, gymID int64) (*domain.Plan, error) {
	const op = "postgresrepo.PlanRepo.GetForGym"

	db := r.handle()

	var p domain.Plan
	err := db.QueryRow(ctx,
		`SELECT `+planColumns+` FROM plans WHERE id = $1 AND gym_id = $2`,
		planID, gymID,
	).Scan(
		&p.ID, &p.GymID, &p.Name, &p.Duration, &p.Price,
		&p.Features, &p.Popular, &p.Active,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &p, nil
}

func (r *PlanRepo) ListActiveForGym(ctx context.Context, gymID int64) ([]domain.Plan, error) {
	const op = "postgresrepo.PlanRepo.ListActiveForGym"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+planColumns+` FROM plans
		 WHERE gym_id = $1 AND is_active
		 ORDER BY price`,
		gymID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		var p domain.Plan
		if err := rows.Scan(
			&p.ID, &p.GymID, &p.Name, &p.Duration, &p.Price,
			&p.Features, &p.Popular, &p.Active,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return plans, nil
}

func (r *PlanRepo) Create(ctx context.Context, p *domain.Plan) (int64, error) {
	const op = "postgresrepo.PlanRepo.Create"

	db := r.handle()

	var id int64
	err := db.QueryRow(ctx,
		`INSERT INTO plans (gym_id, name, duration, price, features, is_popular, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		p.GymID, p.Name, p.Duration, p.Price, p.Features, p.Popular, p.Active,
	).Scan(&id)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}
