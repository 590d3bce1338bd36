package view

import (
	"net/url"

	"github.com/msomdec/campus-market/internal/domain"
)

// EditorForm seeds the listing editor. ID is empty for a new listing.
type EditorForm struct {
	ID            string
	Title         string
	Category      domain.Category
	Type          domain.ListingType
	Price         float64
	StartBid      float64
	DurationHours float64
	Images        []string
	Housing       domain.HousingDetails
}

// NewEditorForm is a blank buy-now listing.
func NewEditorForm() EditorForm {
	return EditorForm{
		Category:      domain.CategoryOther,
		Type:          domain.ListingTypeBuy,
		DurationHours: domain.DefaultAuctionDuration.Hours(),
		Housing: domain.HousingDetails{
			Unit:     domain.UnitStudio,
			Bathroom: domain.BathroomPrivate,
			Roommate: domain.RoommateNone,
		},
	}
}

// EditorFormFor seeds the editor from an existing listing.
func EditorFormFor(l *domain.Listing) EditorForm {
	f := NewEditorForm()
	f.ID = l.ID
	f.Title = l.Title
	f.Category = l.Category
	f.Type = l.Type
	f.Images = l.Images
	if l.Price != nil {
		f.Price = *l.Price
	}
	if l.StartBid != nil {
		f.StartBid = *l.StartBid
	}
	if l.Housing != nil {
		f.Housing = *l.Housing
	}
	return f
}

func (f EditorForm) heading() string {
	if f.ID == "" {
		return "New listing"
	}
	return "Edit listing"
}

func (f EditorForm) saveAction() string {
	if f.ID == "" {
		return action("post", "/api/listings")
	}
	return action("put", "/api/listings/"+url.PathEscape(f.ID))
}

// signals is the editor's signal store. The listing API reads the same
// names back from datastar requests.
func (f EditorForm) signals() map[string]any {
	images := f.Images
	if images == nil {
		images = []string{}
	}
	return map[string]any{
		"title":         f.Title,
		"category":      f.Category,
		"type":          f.Type,
		"price":         f.Price,
		"startBid":      f.StartBid,
		"durationHours": f.DurationHours,
		"images":        images,
		"upload":        "",
		"rent":          f.Housing.Rent,
		"unit":          f.Housing.Unit,
		"bathroom":      f.Housing.Bathroom,
		"roommate":      f.Housing.Roommate,
	}
}
