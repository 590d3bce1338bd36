package view

import "github.com/msomdec/campus-market/internal/domain"

// Card is a listing prepared for display. Owned cards get edit and delete
// controls.
type Card struct {
	Listing    domain.Listing
	Status     domain.ListingStatus
	Amount     string
	TimeLeft   string
	MinimumBid string
	SignedIn   bool
	Owned      bool
	Message    string
}

// ExploreFilter echoes the active filter back into the form.
type ExploreFilter struct {
	Category  string
	Type      string
	Query     string
	MinPrice  string
	MaxPrice  string
	HideSold  bool
	HideEnded bool
	Unit      string
	Bathroom  string
	Roommate  string
	MaxRent   string
}

// CardID is the element id of a listing card.
func CardID(listingID string) string {
	return "listing-" + listingID
}
