package discovery

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/musclemeter/musclemeter/internal/domain"
	"github.com/musclemeter/musclemeter/internal/geo"
	"github.com/musclemeter/musclemeter/internal/repository"
	postgresrepo "github.com/musclemeter/musclemeter/internal/repository/postgres"
	redisrepo "github.com/musclemeter/musclemeter/internal/repository/redis"
)

type Config struct {
	CatalogTTL    time.Duration
	GymSummaryTTL time.Duration
}

type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.CatalogTTL <= 0 {
		cfg.CatalogTTL = 60 * time.Second
	}

	if cfg.GymSummaryTTL <= 0 {
		cfg.GymSummaryTTL = 60 * time.Second
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

// Explore returns the active gym catalog ranked by distance from origin.
// The catalog snapshot is served through the cache; ranking itself is
// recomputed per request (no distance caching — a known, accepted limit at
// this catalog size).
//
// Parameters:
//   - ctx: request-scoped context.
//   - origin: optional searcher location; nil means "no location shared".
//
// Returns:
//   - []domain.RankedGym: active gyms, nearest first when origin is given,
//     insertion order otherwise.
func (s *Service) Explore(ctx context.Context, origin *domain.Coordinate) ([]domain.RankedGym, error) {
	const op = "service.discovery.Explore"

	gyms, err := s.catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return Rank(gyms, origin), nil
}

// GymDetail retrieves one active gym with its active plans, with the
// distance from origin attached when an origin is given.
//
// Returns:
//   - error: discovery.ErrGymNotFound when the gym is missing or inactive.
func (s *Service) GymDetail(
	ctx context.Context,
	gymID int64,
	origin *domain.Coordinate,
) (*domain.RankedGym, []domain.Plan, error) {
	const op = "service.discovery.GymDetail"

	key := redisrepo.KeyGymSummary(gymID)

	gym, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.GymSummaryTTL,
		func(ctx context.Context) (domain.Gym, error) {
			g, err := s.store.Gyms().Get(ctx, gymID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.Gym{}, ErrGymNotFound
				}

				return domain.Gym{}, err
			}

			return *g, nil
		},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if !gym.Active {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrGymNotFound)
	}

	plans, err := s.store.Plans().ListActiveForGym(ctx, gymID)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	entry := domain.RankedGym{Gym: gym}
	if origin != nil {
		d := geo.Distance(origin.Lat, origin.Lon, gym.Location.Lat, gym.Location.Lon)
		d = math.Round(d*10) / 10
		entry.Distance = &d
	}

	return &entry, plans, nil
}

func (s *Service) catalog(ctx context.Context) ([]domain.Gym, error) {
	return redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		redisrepo.KeyGymCatalog(),
		s.cfg.CatalogTTL,
		func(ctx context.Context) ([]domain.Gym, error) {
			return s.store.Gyms().ListActive(ctx)
		},
	)
}
