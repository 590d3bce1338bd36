package view_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/msomdec/campus-market/internal/domain"
	"github.com/msomdec/campus-market/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func TestHomePage(t *testing.T) {
	out := render(t, view.HomePage("", "@student.csulb.edu"))
	assert.Contains(t, out, "@student.csulb.edu")
	assert.Contains(t, out, `href="/explore"`)
	assert.Contains(t, out, `type="password"`)
	assert.Contains(t, out, "/api/auth/login")
	assert.Contains(t, out, "/api/auth/register")
	assert.Contains(t, out, "/api/auth/logout", "account controls render hidden until sign-in")
	assert.Contains(t, out, `class="logout"`)
	assert.Contains(t, out, `&#34;user&#34;:&#34;&#34;`)

	out = render(t, view.HomePage("a@student.csulb.edu", "@student.csulb.edu"))
	assert.Contains(t, out, "Welcome back, <span")
	assert.Contains(t, out, ">a@student.csulb.edu</span>")
	assert.Contains(t, out, `href="/listings/new"`)
}

func TestListingCard_EscapesAndShowsControls(t *testing.T) {
	ends := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	card := view.Card{
		Listing: domain.Listing{
			ID:         "abc",
			Title:      `<script>alert("x")</script>`,
			Category:   domain.CategoryElectronics,
			Type:       domain.ListingTypeAuction,
			StartBid:   ptr(10.0),
			CurrentBid: ptr(10.0),
			EndsAt:     &ends,
			Images:     []string{"/images/k"},
		},
		Status:     domain.StatusOpen,
		Amount:     "10.00",
		TimeLeft:   "24h 0m",
		MinimumBid: "10.00",
		SignedIn:   true,
	}

	out := render(t, view.ListingCard(card))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, `id="listing-abc"`)
	assert.Contains(t, out, "/explore/listings/abc/bid")
	assert.Contains(t, out, "24h 0m")

	card.SignedIn = false
	out = render(t, view.ListingCard(card))
	assert.NotContains(t, out, "/bid")
}

func TestListingCard_SoldHasNoBuyButton(t *testing.T) {
	card := view.Card{
		Listing: domain.Listing{ID: "d", Title: "Desk", Type: domain.ListingTypeBuy, Price: ptr(40.0), Sold: true},
		Status:   domain.StatusSold,
		Amount:   "40.00",
		SignedIn: true,
		Message:  "Purchased",
	}
	out := render(t, view.ListingCard(card))
	assert.NotContains(t, out, "/buy")
	assert.Contains(t, out, "Purchased")
}

func TestExplorePage_Empty(t *testing.T) {
	out := render(t, view.ExplorePage("", nil, view.ExploreFilter{Category: string(domain.CategoryHousing), HideSold: true}))
	assert.Contains(t, out, "No listings match.")
	assert.Contains(t, out, `<option value="Housing" selected>`)
	assert.Contains(t, out, `name="hideSold" checked`)
	assert.Contains(t, out, "Dorm &amp; Furniture")
}

func TestListingCard_OwnerControls(t *testing.T) {
	card := view.Card{
		Listing: domain.Listing{
			ID:       "room 1",
			Title:    "Room near campus",
			Category: domain.CategoryHousing,
			Type:     domain.ListingTypeBuy,
			Price:    ptr(900.0),
			Images:   []string{"javascript:alert(1)"},
			Housing: &domain.HousingDetails{
				Rent:     900,
				Unit:     domain.UnitPrivateRoom,
				Bathroom: domain.BathroomShared,
				Roommate: domain.RoommateOffering,
			},
		},
		Status:   domain.StatusAvailable,
		Amount:   "900.00",
		SignedIn: true,
		Owned:    true,
	}

	out := render(t, view.ListingCard(card))
	assert.Contains(t, out, `href="/listings/room%201/edit"`)
	assert.Contains(t, out, "@delete(&#34;/api/listings/room%201&#34;)")
	assert.Contains(t, out, "$900/mo &middot; Private room &middot; Shared bath &middot; Offering a room")
	assert.Contains(t, out, `src="about:invalid#TemplFailedSanitizationURL"`)
	assert.NotContains(t, out, "javascript:")

	card.Owned = false
	out = render(t, view.ListingCard(card))
	assert.NotContains(t, out, "/edit")
	assert.NotContains(t, out, "@delete")
}

func TestExplorePage_HousingFacets(t *testing.T) {
	f := view.ExploreFilter{Unit: string(domain.UnitStudio), Roommate: string(domain.RoommateLooking), MaxRent: "1200"}
	out := render(t, view.ExplorePage("a@student.csulb.edu", nil, f))
	assert.Contains(t, out, `name="unit"`)
	assert.Contains(t, out, `name="bathroom"`)
	assert.Contains(t, out, `name="roommate"`)
	assert.Contains(t, out, `<option value="studio" selected>`)
	assert.Contains(t, out, `<option value="looking" selected>`)
	assert.Contains(t, out, `name="maxRent" placeholder="Max rent" value="1200"`)
}

func TestListingEditor(t *testing.T) {
	out := render(t, view.ListingEditor("a@student.csulb.edu", view.NewEditorForm()))
	assert.Contains(t, out, "New listing")
	assert.Contains(t, out, "@post(&#34;/api/listings&#34;)")
	assert.Contains(t, out, "@post('/api/images', {contentType: 'form'})")
	assert.Contains(t, out, `id="photo-list"`)
	assert.Contains(t, out, `&#34;type&#34;:&#34;buy&#34;`)
	assert.Contains(t, out, `&#34;images&#34;:[]`)

	l := &domain.Listing{
		ID:       "abc",
		Title:    "Bike",
		Category: domain.CategoryBikesScooters,
		Type:     domain.ListingTypeAuction,
		StartBid: ptr(10.0),
		Images:   []string{"/images/one", "/images/two"},
	}
	out = render(t, view.ListingEditor("a@student.csulb.edu", view.EditorFormFor(l)))
	assert.Contains(t, out, "Edit listing")
	assert.Contains(t, out, "@put(&#34;/api/listings/abc&#34;)")
	assert.Contains(t, out, `&#34;startBid&#34;:10`)
	assert.Equal(t, 2, strings.Count(out, `class="thumb"`))
}

func TestPhotoThumb(t *testing.T) {
	out := render(t, view.PhotoThumb("/images/one"))
	assert.Contains(t, out, `src="/images/one"`)
	assert.Contains(t, out, "/images/one&#34;")
	assert.Contains(t, out, "Remove")
}

func ptr[T any](v T) *T { return &v }
