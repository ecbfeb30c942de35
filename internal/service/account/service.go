// Package account is the boundary to the external identity collaborator:
// it resolves authenticated principal references into principals with their
// role set, and keeps a customer's last known location.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/musclemeter/musclemeter/internal/domain"
	"github.com/musclemeter/musclemeter/internal/repository"
	postgresrepo "github.com/musclemeter/musclemeter/internal/repository/postgres"
)

type Service struct {
	store *postgresrepo.Store
}

func New(store *postgresrepo.Store) *Service {
	return &Service{store: store}
}

// GetPrincipal resolves an authenticated identity into a principal.
//
// Returns:
//   - error: account.ErrPrincipalNotFound for an unknown identity.
func (s *Service) GetPrincipal(ctx context.Context, id int64) (*domain.Principal, error) {
	const op = "service.account.GetPrincipal"

	p, err := s.store.Principals().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrPrincipalNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// UpdateLocation stores a customer's last reported position so later
// searches can default to it.
//
// Returns:
//   - error: account.ErrNotACustomer when the principal lacks the customer
//     role, account.ErrInvalidLocation for out-of-range coordinates.
func (s *Service) UpdateLocation(
	ctx context.Context,
	principal *domain.Principal,
	loc domain.Coordinate,
	city string,
) error {
	const op = "service.account.UpdateLocation"

	if !principal.HasRole(domain.RoleCustomer) {
		return fmt.Errorf("%s: %w", op, ErrNotACustomer)
	}

	if err := loc.Validate(); err != nil {
		return fmt.Errorf("%s: %w: %s", op, ErrInvalidLocation, err)
	}

	if err := s.store.Principals().UpdateLocation(ctx, principal.ID, loc, city); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrPrincipalNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
