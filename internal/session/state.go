// Package session owns the per-visitor browsing state that a browser client
// would keep in page globals: the selected category, the active filters, and
// the theme preference. Holding it in one struct behind a store keeps
// mutation explicit and testable.
package session

import "github.com/NozadzeJaba/restorani/internal/domain"

// Theme values persisted per visitor.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// State is the browsing state of one visitor session.
//
// Generation increments on every mutation. A fetch that started under an
// older generation is stale; its result must be discarded rather than
// rendered (last state wins, not last response).
type State struct {
	Theme      string             `json:"theme"`
	CategoryID *int               `json:"category_id,omitempty"`
	Filters    domain.FilterState `json:"filters"`
	Generation uint64             `json:"generation"`
}

// NewState returns the default state for a fresh session.
func NewState() *State {
	return &State{Theme: ThemeLight}
}

// SetCategory selects the given category exclusively; at most one category is
// active at a time.
func (s *State) SetCategory(id int) {
	s.CategoryID = &id
	s.Generation++
}

// SetFilters records a new filter selection.
func (s *State) SetFilters(filters domain.FilterState) {
	s.Filters = filters
	s.Generation++
}

// ResetFilters clears the filters and the category selection back to the
// default view of the full menu.
func (s *State) ResetFilters() {
	s.Filters = domain.FilterState{}
	s.CategoryID = nil
	s.Generation++
}

// ToggleTheme flips between light and dark.
func (s *State) ToggleTheme() {
	if s.Theme == ThemeDark {
		s.Theme = ThemeLight
	} else {
		s.Theme = ThemeDark
	}
}
