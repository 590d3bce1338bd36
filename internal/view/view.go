// Package view renders the server's HTML as templ components. The
// *_templ.go files are generated from the .templ sources by templ generate.
package view

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/msomdec/campus-market/internal/domain"
)

// PhotoListID is the element id of the editor's photo list.
const PhotoListID = "photo-list"

// choice is one option of a closed select.
type choice struct {
	Value string
	Label string
}

var unitChoices = []choice{
	{string(domain.UnitStudio), "Studio"},
	{string(domain.UnitPrivateRoom), "Private room"},
	{string(domain.UnitSharedRoom), "Shared room"},
	{string(domain.UnitApartment), "Apartment"},
	{string(domain.UnitHouse), "House"},
}

var bathroomChoices = []choice{
	{string(domain.BathroomPrivate), "Private bath"},
	{string(domain.BathroomShared), "Shared bath"},
}

var roommateChoices = []choice{
	{string(domain.RoommateLooking), "Looking for roommates"},
	{string(domain.RoommateOffering), "Offering a room"},
	{string(domain.RoommateNone), "No roommates"},
}

func choiceLabel(choices []choice, value string) string {
	for _, c := range choices {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}

func formatRent(rent float64) string {
	return strconv.FormatFloat(rent, 'f', 0, 64)
}

// pageSignals seeds the signals every page shares.
func pageSignals(email string) map[string]any {
	return map[string]any{"bid": "", "flash": "", "user": email}
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// action is a datastar backend action against path.
func action(method, path string) string {
	return fmt.Sprintf("@%s(%s)", method, jsString(path))
}

func bidAction(listingID string) string {
	return action("post", "/explore/listings/"+url.PathEscape(listingID)+"/bid")
}

func buyAction(listingID string) string {
	return action("post", "/explore/listings/"+url.PathEscape(listingID)+"/buy")
}

func deleteAction(listingID string) string {
	return action("delete", "/api/listings/"+url.PathEscape(listingID))
}

func removePhotoAction(ref string) string {
	return fmt.Sprintf("$images = $images.filter(r => r !== %s); el.closest('li').remove()", jsString(ref))
}

// EditPath is the editor page of a listing.
func EditPath(listingID string) string {
	return "/listings/" + url.PathEscape(listingID) + "/edit"
}
