package catalog

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/NozadzeJaba/restorani/internal/domain"
	"github.com/NozadzeJaba/restorani/internal/session"
	apperrors "github.com/NozadzeJaba/restorani/pkg/errors"
)

// ============================================================================
// Mock Client
// ============================================================================

type mockClient struct {
	mock.Mock
}

func (m *mockClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockClient) FilteredProducts(ctx context.Context, filters domain.FilterState) ([]domain.Product, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockClient) GetCategory(ctx context.Context, id int) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

// fakeSessionReader returns queued states in order, repeating the last one.
type fakeSessionReader struct {
	states []*session.State
	calls  int
}

func (f *fakeSessionReader) Get(ctx context.Context, sessionID string) (*session.State, error) {
	i := f.calls
	if i >= len(f.states) {
		i = len(f.states) - 1
	}
	f.calls++
	return f.states[i], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testService(api *mockClient) *Service {
	return NewService(api, testLogger())
}

// ============================================================================
// Browse
// ============================================================================

func TestBrowse_NoStateFetchesFullMenu(t *testing.T) {
	api := new(mockClient)
	menu := []domain.Product{{ID: 1}, {ID: 2}}
	api.On("ListProducts", mock.Anything).Return(menu, nil)

	products, err := testService(api).Browse(context.Background(), session.NewState())
	require.NoError(t, err)

	assert.Equal(t, menu, products)
	api.AssertNotCalled(t, "FilteredProducts", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "GetCategory", mock.Anything, mock.Anything)
}

func TestBrowse_FiltersWithoutCategoryUseFilterEndpoint(t *testing.T) {
	api := new(mockClient)
	filters := domain.FilterState{Vegeterian: true, Spiciness: 1}
	api.On("FilteredProducts", mock.Anything, filters).Return([]domain.Product{{ID: 3}}, nil)

	state := session.NewState()
	state.SetFilters(filters)

	products, err := testService(api).Browse(context.Background(), state)
	require.NoError(t, err)

	assert.Len(t, products, 1)
	api.AssertNotCalled(t, "ListProducts", mock.Anything)
}

func TestBrowse_CategoryWithFiltersAppliesThemLocally(t *testing.T) {
	api := new(mockClient)
	api.On("GetCategory", mock.Anything, 3).Return(&domain.Category{
		ID: 3,
		Products: []domain.Product{
			{ID: 1, Vegeterian: true},
			{ID: 2, Vegeterian: false},
			{ID: 3, Vegeterian: true},
		},
	}, nil)

	state := session.NewState()
	state.SetCategory(3)
	state.SetFilters(domain.FilterState{Vegeterian: true})

	products, err := testService(api).Browse(context.Background(), state)
	require.NoError(t, err)

	// Only category 3 products that are vegeterian survive.
	require.Len(t, products, 2)
	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, 3, products[1].ID)

	// The filter endpoint is never consulted when a category is selected.
	api.AssertNotCalled(t, "FilteredProducts", mock.Anything, mock.Anything)
}

func TestBrowse_UnknownCategoryYieldsEmptyList(t *testing.T) {
	api := new(mockClient)
	api.On("GetCategory", mock.Anything, 42).Return(nil, apperrors.NotFound("category", "42"))

	state := session.NewState()
	state.SetCategory(42)

	products, err := testService(api).Browse(context.Background(), state)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestBrowse_TransportErrorPropagates(t *testing.T) {
	api := new(mockClient)
	api.On("ListProducts", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := testService(api).Browse(context.Background(), session.NewState())
	assert.Error(t, err)
}

// ============================================================================
// BrowseSession
// ============================================================================

func TestBrowseSession_StableGenerationFetchesOnce(t *testing.T) {
	api := new(mockClient)
	api.On("ListProducts", mock.Anything).Return([]domain.Product{{ID: 1}}, nil).Once()

	state, products, err := testService(api).BrowseSession(context.Background(), &fakeSessionReader{
		states: []*session.State{session.NewState()},
	}, "sid-1")
	require.NoError(t, err)

	assert.Len(t, products, 1)
	assert.Zero(t, state.Generation)
	api.AssertExpectations(t)
}

func TestBrowseSession_StaleGenerationRefetchesUnderFreshState(t *testing.T) {
	api := new(mockClient)
	api.On("ListProducts", mock.Anything).Return([]domain.Product{{ID: 1}, {ID: 2}}, nil).Once()
	api.On("GetCategory", mock.Anything, 3).Return(&domain.Category{
		ID:       3,
		Products: []domain.Product{{ID: 9}},
	}, nil).Once()

	// The session switches to category 3 while the first fetch is in flight.
	newer := session.NewState()
	newer.SetCategory(3)

	state, products, err := testService(api).BrowseSession(context.Background(), &fakeSessionReader{
		states: []*session.State{session.NewState(), newer},
	}, "sid-1")
	require.NoError(t, err)

	// The stale full-menu result is discarded; the category result wins.
	require.Len(t, products, 1)
	assert.Equal(t, 9, products[0].ID)
	assert.Equal(t, newer.Generation, state.Generation)
	api.AssertExpectations(t)
}
