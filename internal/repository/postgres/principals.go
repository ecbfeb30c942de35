package postgresrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/musclemeter/musclemeter/internal/domain"
	"github.com/musclemeter/musclemeter/internal/repository"
)

type PrincipalRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *PrincipalRepo) With(db DB) *PrincipalRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *PrincipalRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Get loads a principal with its explicit role set. Roles are stored as
// flags on the row; the closed set {customer, owner} maps to two columns.
func (r *PrincipalRepo) Get(ctx context.Context, id int64) (*domain.Principal, error) {
	const op = "postgresrepo.PrincipalRepo.Get"

	db := r.handle()

	var (
		p          domain.Principal
		isCustomer bool
		isOwner    bool
		lat, lon   *float64
	)
	err := db.QueryRow(ctx,
		`SELECT id, name, is_customer, is_owner, last_latitude, last_longitude, last_city
		 FROM principals WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &isCustomer, &isOwner, &lat, &lon, &p.LastCity)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	if isCustomer {
		p.Roles = append(p.Roles, domain.RoleCustomer)
	}
	if isOwner {
		p.Roles = append(p.Roles, domain.RoleOwner)
	}
	if lat != nil && lon != nil {
		p.LastLocation = &domain.Coordinate{Lat: *lat, Lon: *lon}
	}

	return &p, nil
}

// UpdateLocation stores a customer's last known position for later searches.
func (r *PrincipalRepo) UpdateLocation(
	ctx context.Context,
	id int64,
	loc domain.Coordinate,
	city string,
) error {
	const op = "postgresrepo.PrincipalRepo.UpdateLocation"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE principals
		 SET last_latitude = $2, last_longitude = $3, last_city = $4
		 WHERE id = $1`,
		id, loc.Lat, loc.Lon, city,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}
