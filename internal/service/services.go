package service

import (
	"log/slog"

	"github.com/musclemeter/musclemeter/internal/access"
	postgresrepo "github.com/musclemeter/musclemeter/internal/repository/postgres"
	redisrepo "github.com/musclemeter/musclemeter/internal/repository/redis"
	"github.com/musclemeter/musclemeter/internal/service/account"
	"github.com/musclemeter/musclemeter/internal/service/booking"
	"github.com/musclemeter/musclemeter/internal/service/catalog"
	"github.com/musclemeter/musclemeter/internal/service/discovery"
	"github.com/musclemeter/musclemeter/internal/service/pass"
)

type Services struct {
	Discovery *discovery.Service
	Booking   *booking.Service
	Catalog   *catalog.Service
	Account   *account.Service
	Pass      *pass.Renderer
}

type Config struct {
	Discovery discovery.Config
	Catalog   catalog.Config
}

func NewServices(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.BookingsPubSub,
	logger *slog.Logger,
	cfg Config,
) *Services {
	return &Services{
		Discovery: discovery.New(store, cache, cfg.Discovery),
		Booking: booking.New(
			store.Gyms(),
			store.Plans(),
			store.Principals(),
			store.Bookings(),
			access.NewGenerator(),
			pubsub,
			cache,
			logger,
		),
		Catalog: catalog.New(store, cache, cfg.Catalog),
		Account: account.New(store),
		Pass:    pass.NewRenderer(),
	}
}
