package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/musclemeter/musclemeter/internal/domain"
	"github.com/musclemeter/musclemeter/internal/repository"
	postgresrepo "github.com/musclemeter/musclemeter/internal/repository/postgres"
	redisrepo "github.com/musclemeter/musclemeter/internal/repository/redis"
	"github.com/musclemeter/musclemeter/internal/uow"
	"github.com/shopspring/decimal"
)

type Config struct {
	OwnerStatsTTL time.Duration
}

type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	uow   *uow.UoW
	cfg   Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.OwnerStatsTTL <= 0 {
		cfg.OwnerStatsTTL = 30 * time.Second
	}

	return &Service{
		store: store,
		cache: cache,
		uow:   uow.NewUoW(store),
		cfg:   cfg,
	}
}

// CreateGym registers a gym together with its initial plans in one
// transaction: a listing never appears in the catalog without its pricing.
//
// Parameters:
//   - ctx: request-scoped context.
//   - owner: the registering principal; must hold the owner role.
//   - gym: the listing; its coordinate is range-checked here.
//   - plans: initial plans, validated for duration and non-negative price.
//
// Returns:
//   - int64: the created gym ID.
//   - error: catalog.ErrNotAnOwner, ErrInvalidLocation or ErrInvalidPlan.
func (s *Service) CreateGym(
	ctx context.Context,
	owner *domain.Principal,
	gym domain.Gym,
	plans []domain.Plan,
) (int64, error) {
	const op = "service.catalog.CreateGym"

	if !owner.HasRole(domain.RoleOwner) {
		return 0, fmt.Errorf("%s: %w", op, ErrNotAnOwner)
	}

	if err := gym.Location.Validate(); err != nil {
		return 0, fmt.Errorf("%s: %w: %s", op, ErrInvalidLocation, err)
	}

	for _, p := range plans {
		if err := validatePlan(p); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	gym.OwnerID = owner.ID
	gym.Active = true

	var gymID int64

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		id, err := s.store.Gyms().With(tx).Create(ctx, &gym)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		gymID = id

		for _, p := range plans {
			p.GymID = id
			p.Active = true
			if _, err := s.store.Plans().With(tx).Create(ctx, &p); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateGym(ctx, gymID)
		})

		return nil
	})
	if err != nil {
		return 0, err
	}

	return gymID, nil
}

// AddPlan attaches another plan to an existing gym owned by the caller.
//
// Returns:
//   - error: catalog.ErrGymNotFound, ErrNotGymOwner or ErrInvalidPlan.
func (s *Service) AddPlan(
	ctx context.Context,
	owner *domain.Principal,
	gymID int64,
	plan domain.Plan,
) (int64, error) {
	const op = "service.catalog.AddPlan"

	if !owner.HasRole(domain.RoleOwner) {
		return 0, fmt.Errorf("%s: %w", op, ErrNotAnOwner)
	}

	if err := validatePlan(plan); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	gym, err := s.store.Gyms().Get(ctx, gymID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%s: %w", op, ErrGymNotFound)
		}

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if gym.OwnerID != owner.ID {
		return 0, fmt.Errorf("%s: %w", op, ErrNotGymOwner)
	}

	plan.GymID = gymID
	plan.Active = true

	id, err := s.store.Plans().Create(ctx, &plan)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	_ = s.cache.InvalidateGym(ctx, gymID)

	return id, nil
}

// OwnerStats returns the owner's dashboard aggregates through a short-lived
// cache; booking creation invalidates it.
func (s *Service) OwnerStats(ctx context.Context, ownerID int64) (*domain.OwnerStats, error) {
	const op = "service.catalog.OwnerStats"

	stats, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyOwnerStats(ownerID),
		s.cfg.OwnerStatsTTL,
		func(ctx context.Context) (domain.OwnerStats, error) {
			st, err := s.store.Stats().OwnerStats(ctx, ownerID)
			if err != nil {
				return domain.OwnerStats{}, err
			}

			return *st, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &stats, nil
}

func validatePlan(p domain.Plan) error {
	if _, err := p.Duration.Days(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPlan, err)
	}

	if p.Price.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: price must be non-negative", ErrInvalidPlan)
	}

	return nil
}
