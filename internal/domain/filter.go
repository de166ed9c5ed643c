package domain

// FilterState holds the dietary and spice constraints a visitor has selected.
// The zero value means "no constraint": every product matches.
type FilterState struct {
	Vegeterian bool `json:"vegeterian"`
	Nuts       bool `json:"nuts"`
	Spiciness  int  `json:"spiciness"`
}

// IsZero reports whether no constraint is active.
func (f FilterState) IsZero() bool {
	return !f.Vegeterian && !f.Nuts && f.Spiciness == 0
}

// Matches reports whether the product satisfies every active constraint.
// The vegeterian constraint requires the product to be vegeterian; the nuts
// constraint excludes products that contain nuts; a spiciness constraint above
// zero requires an exact spiciness match.
func (f FilterState) Matches(p Product) bool {
	if f.Vegeterian && !p.Vegeterian {
		return false
	}
	if f.Nuts && p.Nuts {
		return false
	}
	if f.Spiciness > 0 && p.Spiciness != f.Spiciness {
		return false
	}
	return true
}

// Apply filters the given products, keeping only those that match. The input
// slice is not modified. Applying the same filter twice yields the same result.
func (f FilterState) Apply(products []Product) []Product {
	if f.IsZero() {
		return products
	}

	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Matches(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
