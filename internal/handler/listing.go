package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/msomdec/campus-market/internal/domain"
	"github.com/msomdec/campus-market/internal/service"
	"github.com/msomdec/campus-market/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

// ListingHandler serves the listing JSON API.
type ListingHandler struct {
	catalog *service.CatalogService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(catalog *service.CatalogService) *ListingHandler {
	return &ListingHandler{catalog: catalog}
}

// HandleList returns the filtered catalog.
// GET /api/listings?category=&type=&minPrice=&maxPrice=&q=&hideSold=&hideEnded=&unit=&bathroom=&roommate=&maxRent=
func (h *ListingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListingFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	listings, err := h.catalog.Search(r.Context(), filter)
	if err != nil {
		writeServiceError(w, "search listings", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listings": toListingDTOs(listings, h.catalog.Now())})
}

// HandleCreate creates a listing owned by the signed-in user.
// POST /api/listings
func (h *ListingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if isDatastar(r) {
		h.saveFromEditor(w, r, "")
		return
	}

	var req listingRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	l, err := h.catalog.Create(r.Context(), SessionFromContext(r.Context()), req.draft())
	if err != nil {
		writeServiceError(w, "create listing", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"listing": toListingDTO(l, h.catalog.Now())})
}

// HandleGet returns one listing.
// GET /api/listings/{id}
func (h *ListingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	l, err := h.catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, "get listing", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listing": toListingDTO(l, h.catalog.Now())})
}

// HandleUpdate edits a listing owned by the signed-in user.
// PUT /api/listings/{id}
func (h *ListingHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if isDatastar(r) {
		h.saveFromEditor(w, r, r.PathValue("id"))
		return
	}

	var req listingRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	l, err := h.catalog.Update(r.Context(), SessionFromContext(r.Context()), r.PathValue("id"), req.draft())
	if err != nil {
		writeServiceError(w, "update listing", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listing": toListingDTO(l, h.catalog.Now())})
}

// HandleDelete removes a listing owned by the signed-in user. A datastar
// caller gets the card dropped from the grid, or patched with the reason.
// DELETE /api/listings/{id}
// Response: 204 No Content
func (h *ListingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := h.catalog.Delete(r.Context(), SessionFromContext(r.Context()), id)
	if isDatastar(r) {
		if err != nil {
			logServiceError("delete listing", err)
			patchCard(w, r, h.catalog, id, userMessage(err), false)
			return
		}
		sse := datastar.NewSSE(w, r)
		if err := sse.RemoveElementByID(view.CardID(id)); err != nil {
			slog.Error("remove listing card", "id", id, "error", err)
		}
		return
	}
	if err != nil {
		writeServiceError(w, "delete listing", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// saveFromEditor creates a listing (empty id) or updates one from the
// editor's signals, then sends the browser to the explore grid.
func (h *ListingHandler) saveFromEditor(w http.ResponseWriter, r *http.Request, id string) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	var signals editorSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	session := SessionFromContext(r.Context())
	draft, err := signals.draft()
	if err == nil {
		if id == "" {
			_, err = h.catalog.Create(r.Context(), session, draft)
		} else {
			_, err = h.catalog.Update(r.Context(), session, id, draft)
		}
	}

	sse := datastar.NewSSE(w, r)
	if err != nil {
		patchFlash(sse, "save listing", err)
		return
	}
	redirect(sse, "/explore")
}

// HandleBid places a bid.
// POST /api/listings/{id}/bid
// Request: {"amount": 12.5}
func (h *ListingHandler) HandleBid(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount *float64 `json:"amount"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusUnprocessableEntity, "amount is required")
		return
	}

	l, err := h.catalog.PlaceBid(r.Context(), SessionFromContext(r.Context()), r.PathValue("id"), *req.Amount)
	if err != nil {
		writeServiceError(w, "place bid", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listing": toListingDTO(l, h.catalog.Now())})
}

// HandleBuy marks a buy listing sold.
// POST /api/listings/{id}/buy
func (h *ListingHandler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	l, err := h.catalog.BuyNow(r.Context(), SessionFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, "buy listing", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listing": toListingDTO(l, h.catalog.Now())})
}

// parseListingFilter reads the shared filter query parameters used by the
// API and the explore page.
func parseListingFilter(q url.Values) (service.ListingFilter, error) {
	f := service.ListingFilter{
		Category: domain.Category(q.Get("category")),
		Type:     domain.ListingType(q.Get("type")),
		Query:    q.Get("q"),
		Unit:     domain.UnitKind(q.Get("unit")),
		Bathroom: domain.BathroomKind(q.Get("bathroom")),
		Roommate: domain.RoommateIntent(q.Get("roommate")),
	}

	var err error
	if f.MinPrice, err = optionalFloat(q, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = optionalFloat(q, "maxPrice"); err != nil {
		return f, err
	}
	if f.MaxRent, err = optionalFloat(q, "maxRent"); err != nil {
		return f, err
	}
	if f.HideSold, err = optionalBool(q, "hideSold"); err != nil {
		return f, err
	}
	if f.HideEnded, err = optionalBool(q, "hideEnded"); err != nil {
		return f, err
	}
	return f, nil
}

func optionalFloat(q url.Values, key string) (*float64, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", key, v)
	}
	return &f, nil
}

func optionalBool(q url.Values, key string) (bool, error) {
	v := q.Get(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, v)
	}
	return b, nil
}
