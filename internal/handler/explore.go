package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/msomdec/campus-market/internal/domain"
	"github.com/msomdec/campus-market/internal/service"
	"github.com/msomdec/campus-market/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

// PageHandler renders the HTML pages and the datastar actions behind the
// explore grid.
type PageHandler struct {
	accounts *service.AccountService
	catalog  *service.CatalogService
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(accounts *service.AccountService, catalog *service.CatalogService) *PageHandler {
	return &PageHandler{accounts: accounts, catalog: catalog}
}

// HandleHome renders the home page.
// GET /
func (h *PageHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	view.HomePage(sessionEmail(r.Context()), h.accounts.EmailSuffix()).Render(r.Context(), w)
}

// HandleExplore renders the filtered listing grid.
// GET /explore
func (h *PageHandler) HandleExplore(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := parseListingFilter(q)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	listings, err := h.catalog.Search(r.Context(), filter)
	if err != nil {
		slog.Error("search listings", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	now := h.catalog.Now()
	session := SessionFromContext(r.Context())
	cards := make([]view.Card, len(listings))
	for i := range listings {
		cards[i] = newCard(&listings[i], now, session, "")
	}

	echo := view.ExploreFilter{
		Category:  q.Get("category"),
		Type:      q.Get("type"),
		Query:     q.Get("q"),
		MinPrice:  q.Get("minPrice"),
		MaxPrice:  q.Get("maxPrice"),
		HideSold:  filter.HideSold,
		HideEnded: filter.HideEnded,
		Unit:      q.Get("unit"),
		Bathroom:  q.Get("bathroom"),
		Roommate:  q.Get("roommate"),
		MaxRent:   q.Get("maxRent"),
	}
	view.ExplorePage(sessionEmail(r.Context()), cards, echo).Render(r.Context(), w)
}

// HandleNewListing renders an empty listing editor.
// GET /listings/new
func (h *PageHandler) HandleNewListing(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/#signin", http.StatusSeeOther)
		return
	}
	view.ListingEditor(session.Email, view.NewEditorForm()).Render(r.Context(), w)
}

// HandleEditListing renders the editor for a listing the user owns.
// GET /listings/{id}/edit
func (h *PageHandler) HandleEditListing(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/#signin", http.StatusSeeOther)
		return
	}

	l, err := h.catalog.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("load listing for edit", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !l.IsOwnedBy(session.Email) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	view.ListingEditor(session.Email, view.EditorFormFor(l)).Render(r.Context(), w)
}

// bidSignals is the datastar signal store posted by a card's bid button.
type bidSignals struct {
	Bid any `json:"bid"`
}

func (s bidSignals) amount() (float64, error) {
	return signalFloat(s.Bid, "bid amount")
}

// HandleBid places a bid from the explore grid and patches the card.
// POST /explore/listings/{id}/bid
func (h *PageHandler) HandleBid(w http.ResponseWriter, r *http.Request) {
	var signals bidSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	id := r.PathValue("id")
	session := SessionFromContext(r.Context())
	amount, err := signals.amount()
	if err == nil {
		_, err = h.catalog.PlaceBid(r.Context(), session, id, amount)
	}

	message := "Bid placed."
	if err != nil {
		message = userMessage(err)
	}
	patchCard(w, r, h.catalog, id, message, err == nil)
}

// HandleBuy buys from the explore grid and patches the card.
// POST /explore/listings/{id}/buy
func (h *PageHandler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	_, err := h.catalog.BuyNow(r.Context(), SessionFromContext(r.Context()), id)

	message := "Purchased. Contact the seller to arrange pickup."
	if err != nil {
		message = userMessage(err)
	}
	patchCard(w, r, h.catalog, id, message, false)
}

// patchCard re-renders a listing card with message. A listing that no
// longer exists loses its card.
func patchCard(w http.ResponseWriter, r *http.Request, catalog *service.CatalogService, id, message string, clearBid bool) {
	l, err := catalog.Get(r.Context(), id)
	sse := datastar.NewSSE(w, r)
	if errors.Is(err, domain.ErrNotFound) {
		if err := sse.RemoveElementByID(view.CardID(id)); err != nil {
			slog.Error("remove listing card", "id", id, "error", err)
		}
		return
	}
	if err != nil {
		patchFlash(sse, "reload listing card", err)
		return
	}

	card := newCard(l, catalog.Now(), SessionFromContext(r.Context()), message)
	if err := sse.PatchElementTempl(view.ListingCard(card)); err != nil {
		slog.Error("patch listing card", "id", id, "error", err)
		return
	}
	if clearBid {
		patchSignals(sse, map[string]any{"bid": ""})
	}
}

func newCard(l *domain.Listing, now time.Time, session *domain.Session, message string) view.Card {
	c := view.Card{
		Listing:  *l,
		Status:   l.Status(now),
		Amount:   service.FormatCurrency(l.Amount()),
		SignedIn: session != nil,
		Owned:    session != nil && l.IsOwnedBy(session.Email),
		Message:  message,
	}
	if l.Type == domain.ListingTypeAuction {
		c.MinimumBid = service.FormatCurrency(l.BidFloor())
		c.TimeLeft = service.TimeLeft(0)
		if l.EndsAt != nil {
			c.TimeLeft = service.TimeLeftUntil(*l.EndsAt, now)
		}
	}
	return c
}

func sessionEmail(ctx context.Context) string {
	if s := SessionFromContext(ctx); s != nil {
		return s.Email
	}
	return ""
}
