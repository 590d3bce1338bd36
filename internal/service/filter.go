package service

import (
	"time"

	"github.com/msomdec/campus-market/internal/domain"
)

// ListingFilter narrows the catalog. Zero values match everything. The
// housing fields only apply to Housing listings; setting any of them drops
// listings from other categories.
type ListingFilter struct {
	Category  domain.Category
	Type      domain.ListingType
	MinPrice  *float64
	MaxPrice  *float64
	Query     string
	HideSold  bool
	HideEnded bool

	Unit     domain.UnitKind
	Bathroom domain.BathroomKind
	Roommate domain.RoommateIntent
	MaxRent  *float64
}

func (f ListingFilter) wantsHousing() bool {
	return f.Unit != "" || f.Bathroom != "" || f.Roommate != "" || f.MaxRent != nil
}

// Filter returns the listings matching f in their original order. Price
// bounds compare against Listing.Amount. The input is not modified.
func Filter(listings []domain.Listing, f ListingFilter, now time.Time) []domain.Listing {
	out := make([]domain.Listing, 0, len(listings))
	for i := range listings {
		if f.matches(&listings[i], now) {
			out = append(out, listings[i])
		}
	}
	return out
}

func (f ListingFilter) matches(l *domain.Listing, now time.Time) bool {
	if f.Category != "" && l.Category != f.Category {
		return false
	}
	if f.Type != "" && l.Type != f.Type {
		return false
	}
	amount := l.Amount()
	if f.MinPrice != nil && amount < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && amount > *f.MaxPrice {
		return false
	}
	if !l.MatchesQuery(f.Query) {
		return false
	}
	status := l.Status(now)
	if f.HideSold && status == domain.StatusSold {
		return false
	}
	if f.HideEnded && status == domain.StatusEnded {
		return false
	}

	if !f.wantsHousing() {
		return true
	}
	h := l.Housing
	if h == nil {
		return false
	}
	switch {
	case f.Unit != "" && h.Unit != f.Unit:
		return false
	case f.Bathroom != "" && h.Bathroom != f.Bathroom:
		return false
	case f.Roommate != "" && h.Roommate != f.Roommate:
		return false
	case f.MaxRent != nil && h.Rent > *f.MaxRent:
		return false
	}
	return true
}
