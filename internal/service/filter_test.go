package service_test

import (
	"testing"
	"time"

	"github.com/msomdec/campus-market/internal/domain"
	"github.com/msomdec/campus-market/internal/service"
	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func filterFixture() []domain.Listing {
	ends := t0.Add(time.Hour)
	return []domain.Listing{
		{ID: "desk", Title: "Oak Desk", Category: domain.CategoryDormFurniture, Type: domain.ListingTypeBuy, Price: f64(40)},
		{ID: "lamp", Title: "Desk lamp", Category: domain.CategoryDormFurniture, Type: domain.ListingTypeBuy, Price: f64(12), Sold: true},
		{ID: "bike", Title: "Road bike", Category: domain.CategoryBikesScooters, Type: domain.ListingTypeAuction,
			StartBid: f64(10), CurrentBid: f64(55), EndsAt: &ends},
		{ID: "room", Title: "Room near campus", Category: domain.CategoryHousing, Type: domain.ListingTypeBuy, Price: f64(900),
			Housing: &domain.HousingDetails{Rent: 900, Unit: domain.UnitPrivateRoom, Bathroom: domain.BathroomShared, Roommate: domain.RoommateOffering}},
		{ID: "studio", Title: "Studio", Category: domain.CategoryHousing, Type: domain.ListingTypeBuy, Price: f64(1400),
			Housing: &domain.HousingDetails{Rent: 1400, Unit: domain.UnitStudio, Bathroom: domain.BathroomPrivate, Roommate: domain.RoommateNone}},
	}
}

func ids(listings []domain.Listing) []string {
	out := []string{}
	for _, l := range listings {
		out = append(out, l.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter service.ListingFilter
		now    time.Time
		want   []string
	}{
		{"zero filter keeps everything", service.ListingFilter{}, t0, []string{"desk", "lamp", "bike", "room", "studio"}},
		{"category", service.ListingFilter{Category: domain.CategoryDormFurniture}, t0, []string{"desk", "lamp"}},
		{"type", service.ListingFilter{Type: domain.ListingTypeAuction}, t0, []string{"bike"}},
		{"auction uses current bid", service.ListingFilter{MinPrice: f64(50), MaxPrice: f64(60)}, t0, []string{"bike"}},
		{"price bounds inclusive", service.ListingFilter{MinPrice: f64(12), MaxPrice: f64(40)}, t0, []string{"desk", "lamp"}},
		{"query ignores case", service.ListingFilter{Query: "  desk "}, t0, []string{"desk", "lamp"}},
		{"hide sold", service.ListingFilter{HideSold: true, Category: domain.CategoryDormFurniture}, t0, []string{"desk"}},
		{"hide ended before end", service.ListingFilter{HideEnded: true, Type: domain.ListingTypeAuction}, t0, []string{"bike"}},
		{"hide ended after end", service.ListingFilter{HideEnded: true, Type: domain.ListingTypeAuction}, t0.Add(time.Hour), []string{}},
		{"housing facet drops other categories", service.ListingFilter{Bathroom: domain.BathroomShared}, t0, []string{"room"}},
		{"max rent", service.ListingFilter{MaxRent: f64(1000)}, t0, []string{"room"}},
		{"unit", service.ListingFilter{Unit: domain.UnitStudio}, t0, []string{"studio"}},
		{"roommate", service.ListingFilter{Roommate: domain.RoommateLooking}, t0, []string{}},
		{"combined", service.ListingFilter{Category: domain.CategoryHousing, MaxPrice: f64(1000), Query: "campus"}, t0, []string{"room"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(service.Filter(filterFixture(), tt.filter, tt.now)))
		})
	}
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	in := filterFixture()
	out := service.Filter(in, service.ListingFilter{Category: domain.CategoryHousing}, t0)
	assert.Len(t, in, 5)
	assert.Equal(t, []string{"desk", "lamp", "bike", "room", "studio"}, ids(in))

	out[0].Title = "changed"
	assert.Equal(t, "Room near campus", in[3].Title)
}
