package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/msomdec/campus-market/internal/domain"
	"github.com/starfederation/datastar-go/datastar"
)

// isDatastar reports whether r was sent by a datastar action. The JSON API
// answers those requests with server-sent events so the pages can drive it
// directly.
func isDatastar(r *http.Request) bool {
	return r.Header.Get("Datastar-Request") == "true"
}

// patchSignals merges signals into the page's store.
func patchSignals(sse *datastar.ServerSentEventGenerator, signals map[string]any) {
	if err := sse.MarshalAndPatchSignals(signals); err != nil {
		slog.Error("patch signals", "error", err)
	}
}

// patchFlash shows the user-facing text of err in the page's flash slot.
func patchFlash(sse *datastar.ServerSentEventGenerator, op string, err error) {
	logServiceError(op, err)
	patchSignals(sse, map[string]any{"flash": userMessage(err)})
}

func redirect(sse *datastar.ServerSentEventGenerator, url string) {
	if err := sse.Redirect(url); err != nil {
		slog.Error("redirect", "url", url, "error", err)
	}
}

// signalFloat reads a number signal. Bound inputs may send the value as a
// string or a number.
func signalFloat(v any, field string) (float64, error) {
	switch v := v.(type) {
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: enter a %s", domain.ErrInvalidInput, field)
}

// editorSignals is the signal store posted by the listing editor. Housing
// fields are flat and only read for Housing listings.
type editorSignals struct {
	Title         string   `json:"title"`
	Category      string   `json:"category"`
	Type          string   `json:"type"`
	Price         any      `json:"price"`
	StartBid      any      `json:"startBid"`
	DurationHours any      `json:"durationHours"`
	Images        []string `json:"images"`
	Rent          any      `json:"rent"`
	Unit          string   `json:"unit"`
	Bathroom      string   `json:"bathroom"`
	Roommate      string   `json:"roommate"`
}

func (s editorSignals) draft() (domain.ListingDraft, error) {
	d := domain.ListingDraft{
		Title:    s.Title,
		Category: domain.Category(s.Category),
		Type:     domain.ListingType(s.Type),
		Images:   s.Images,
		Duration: domain.DefaultAuctionDuration,
	}

	var err error
	switch d.Type {
	case domain.ListingTypeBuy:
		if d.Price, err = signalFloat(s.Price, "price"); err != nil {
			return d, err
		}
	case domain.ListingTypeAuction:
		if d.StartBid, err = signalFloat(s.StartBid, "starting bid"); err != nil {
			return d, err
		}
		if s.DurationHours != nil && s.DurationHours != "" {
			hours, err := signalFloat(s.DurationHours, "duration in hours")
			if err != nil {
				return d, err
			}
			d.Duration = time.Duration(hours * float64(time.Hour))
		}
	}

	if d.Category == domain.CategoryHousing {
		rent, err := signalFloat(s.Rent, "monthly rent")
		if err != nil {
			return d, err
		}
		d.Housing = &domain.HousingDetails{
			Rent:     rent,
			Unit:     domain.UnitKind(s.Unit),
			Bathroom: domain.BathroomKind(s.Bathroom),
			Roommate: domain.RoommateIntent(s.Roommate),
		}
	}
	return d, nil
}
