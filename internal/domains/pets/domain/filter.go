package domain

// Filter is a set of optional predicates combined with logical AND. A nil field
// leaves that dimension unconstrained.
type Filter struct {
	Type      *string
	Color     *string
	PriceFrom *int64
	PriceTo   *int64
}

// IsEmpty reports whether no predicate is set.
func (f Filter) IsEmpty() bool {
	return f.Type == nil && f.Color == nil && f.PriceFrom == nil && f.PriceTo == nil
}

// Matches reports whether p satisfies every predicate. Price bounds are inclusive.
func (f Filter) Matches(p *Pet) bool {
	if p == nil {
		return false
	}
	if f.Type != nil && p.Type != *f.Type {
		return false
	}
	if f.Color != nil && p.Color != *f.Color {
		return false
	}
	if f.PriceFrom != nil && p.Price < *f.PriceFrom {
		return false
	}
	if f.PriceTo != nil && p.Price > *f.PriceTo {
		return false
	}
	return true
}
