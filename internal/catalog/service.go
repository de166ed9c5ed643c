// Package catalog decides which product fetch a visitor's browsing state
// calls for and applies the client-side filter pass where the remote API
// cannot filter for us.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/NozadzeJaba/restorani/internal/domain"
	"github.com/NozadzeJaba/restorani/internal/session"
	apperrors "github.com/NozadzeJaba/restorani/pkg/errors"
)

// Client is the subset of the restaurant API the catalog service needs.
type Client interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	FilteredProducts(ctx context.Context, filters domain.FilterState) ([]domain.Product, error)
	GetCategory(ctx context.Context, id int) (*domain.Category, error)
}

// SessionReader reads the current state of a visitor session.
type SessionReader interface {
	Get(ctx context.Context, sessionID string) (*session.State, error)
}

// Service implements catalog browsing.
type Service struct {
	api    Client
	logger *slog.Logger
}

// NewService creates a catalog service.
func NewService(api Client, logger *slog.Logger) *Service {
	return &Service{
		api:    api,
		logger: logger,
	}
}

// Browse fetches the products the given state describes.
//
// With a category selected the category endpoint is used and any active
// filters are applied locally, because that endpoint accepts no filter
// parameters. Without a category, non-trivial filters go to the filter
// endpoint; otherwise the full menu is fetched. A category with no products
// yields an empty list, not an error.
func (s *Service) Browse(ctx context.Context, state *session.State) ([]domain.Product, error) {
	if state.CategoryID != nil {
		category, err := s.api.GetCategory(ctx, *state.CategoryID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return []domain.Product{}, nil
			}
			return nil, fmt.Errorf("browse category %d: %w", *state.CategoryID, err)
		}
		return state.Filters.Apply(category.Products), nil
	}

	if !state.Filters.IsZero() {
		products, err := s.api.FilteredProducts(ctx, state.Filters)
		if err != nil {
			return nil, fmt.Errorf("browse filtered products: %w", err)
		}
		return products, nil
	}

	products, err := s.api.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("browse all products: %w", err)
	}
	return products, nil
}

// BrowseSession loads the session state, browses under it, and guards against
// a concurrent state change: if the session's generation moved while the fetch
// was in flight, the stale result is discarded and the browse runs once more
// under the fresh state. The state used for the final result is returned so
// the caller renders exactly what was fetched.
func (s *Service) BrowseSession(ctx context.Context, sessions SessionReader, sessionID string) (*session.State, []domain.Product, error) {
	state, err := sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("load session state: %w", err)
	}

	products, err := s.Browse(ctx, state)
	if err != nil {
		return nil, nil, err
	}

	current, err := sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("reload session state: %w", err)
	}

	if current.Generation != state.Generation {
		s.logger.DebugContext(ctx, "discarding stale browse result",
			slog.Uint64("fetched_generation", state.Generation),
			slog.Uint64("current_generation", current.Generation),
		)

		products, err = s.Browse(ctx, current)
		if err != nil {
			return nil, nil, err
		}
		state = current
	}

	return state, products, nil
}
