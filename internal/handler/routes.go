package handler

import (
	"net/http"

	"github.com/msomdec/campus-market/internal/service"
)

// Services bundles what the HTTP layer depends on.
type Services struct {
	Accounts     *service.AccountService
	Catalog      *service.CatalogService
	Images       *service.ImageService
	Tokens       *service.ProfileTokens
	AuthLimiter  *service.TokenBucket
	CookieSecure bool
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, s Services) {
	authHandler := NewAuthHandler(s.Accounts)
	listingHandler := NewListingHandler(s.Catalog)
	imageHandler := NewImageHandler(s.Images)
	pageHandler := NewPageHandler(s.Accounts, s.Catalog)

	profiled := func(h http.HandlerFunc) http.Handler {
		return WithProfile(s.Tokens, s.Accounts, s.CookieSecure, h)
	}
	limited := func(h http.HandlerFunc) http.Handler {
		return RateLimit(s.AuthLimiter, profiled(h))
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)

	// Account API (rate limited per client IP).
	mux.Handle("POST /api/auth/register", limited(authHandler.HandleRegister))
	mux.Handle("POST /api/auth/login", limited(authHandler.HandleLogin))
	mux.Handle("POST /api/auth/logout", profiled(authHandler.HandleLogout))
	mux.Handle("GET /api/auth/me", profiled(authHandler.HandleMe))

	// Listing API.
	mux.Handle("GET /api/listings", profiled(listingHandler.HandleList))
	mux.Handle("POST /api/listings", profiled(listingHandler.HandleCreate))
	mux.Handle("GET /api/listings/{id}", profiled(listingHandler.HandleGet))
	mux.Handle("PUT /api/listings/{id}", profiled(listingHandler.HandleUpdate))
	mux.Handle("DELETE /api/listings/{id}", profiled(listingHandler.HandleDelete))
	mux.Handle("POST /api/listings/{id}/bid", profiled(listingHandler.HandleBid))
	mux.Handle("POST /api/listings/{id}/buy", profiled(listingHandler.HandleBuy))

	// Photos.
	mux.Handle("POST /api/images", profiled(imageHandler.HandleUpload))
	mux.HandleFunc("GET /images/{key}", imageHandler.HandleServe)

	// Pages and datastar actions. The forms on these pages also post to the
	// JSON API above, which answers datastar requests with events.
	mux.Handle("GET /{$}", profiled(pageHandler.HandleHome))
	mux.Handle("GET /explore", profiled(pageHandler.HandleExplore))
	mux.Handle("GET /listings/new", profiled(pageHandler.HandleNewListing))
	mux.Handle("GET /listings/{id}/edit", profiled(pageHandler.HandleEditListing))
	mux.Handle("POST /explore/listings/{id}/bid", profiled(pageHandler.HandleBid))
	mux.Handle("POST /explore/listings/{id}/buy", profiled(pageHandler.HandleBuy))
}
