package postgresrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/musclemeter/musclemeter/internal/domain"
)

type GymRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *GymRepo) With(db DB) *GymRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *GymRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const gymColumns = `id, owner_id, name, description, address, city,
       latitude, longitude, phone, email, opens_at, closes_at, is_active`

// Get retrieves a gym by ID regardless of its active flag; callers decide
// what an inactive gym means for them.
func (r *GymRepo) Get(ctx context.Context, id int64) (*domain.Gym, error) {
	const op = "postgresrepo.GymRepo.Get"

	db := r.handle()

	var g domain.Gym
	err := db.QueryRow(ctx,
		`SELECT `+gymColumns+` FROM gyms WHERE id = $1`,
		id,
	).Scan(
		&g.ID, &g.OwnerID, &g.Name, &g.Description, &g.Address, &g.City,
		&g.Location.Lat, &g.Location.Lon, &g.Phone, &g.Email,
		&g.OpensAt, &g.ClosesAt, &g.Active,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &g, nil
}

// ListActive returns the full active catalog in insertion order. The catalog
// stays small enough for a linear scan; ranking happens in memory.
func (r *GymRepo) ListActive(ctx context.Context) ([]domain.Gym, error) {
	const op = "postgresrepo.GymRepo.ListActive"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+gymColumns+` FROM gyms WHERE is_active ORDER BY id`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var gyms []domain.Gym
	for rows.Next() {
		var g domain.Gym
		if err := rows.Scan(
			&g.ID, &g.OwnerID, &g.Name, &g.Description, &g.Address, &g.City,
			&g.Location.Lat, &g.Location.Lon, &g.Phone, &g.Email,
			&g.OpensAt, &g.ClosesAt, &g.Active,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}
		gyms = append(gyms, g)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return gyms, nil
}

// Create inserts a gym and returns its generated ID.
func (r *GymRepo) Create(ctx context.Context, g *domain.Gym) (int64, error) {
	const op = "postgresrepo.GymRepo.Create"

	db := r.handle()

	var id int64
	err := db.QueryRow(ctx,
		`INSERT INTO gyms (owner_id, name, description, address, city,
		        latitude, longitude, phone, email, opens_at, closes_at, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		g.OwnerID, g.Name, g.Description, g.Address, g.City,
		g.Location.Lat, g.Location.Lon, g.Phone, g.Email,
		g.OpensAt, g.ClosesAt, g.Active,
	).Scan(&id)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}
