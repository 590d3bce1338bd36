package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/campus-market/internal/domain"
)

// statusFor maps a service error to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrWeakCredential),
		errors.Is(err, domain.ErrDomainMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrDuplicateAccount):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownAccount),
		errors.Is(err, domain.ErrBadCredential),
		errors.Is(err, domain.ErrNotSignedIn):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsAuctionError(err), domain.IsSaleError(err):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// userMessage is the text shown to the user for a service error.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotSignedIn):
		return "Please sign in first."
	case errors.Is(err, domain.ErrUnauthorized):
		return "You can only change your own listings."
	case errors.Is(err, domain.ErrNotFound):
		return "Listing not found."
	case errors.Is(err, domain.ErrUnknownAccount):
		return "No account with that email. Register first."
	case errors.Is(err, domain.ErrBadCredential):
		return "Incorrect password."
	case errors.Is(err, domain.ErrDuplicateAccount):
		return "An account with that email already exists."
	case errors.Is(err, domain.ErrNotAnAuction):
		return "This listing is not an auction."
	case errors.Is(err, domain.ErrAuctionEnded):
		return "This auction has ended."
	case errors.Is(err, domain.ErrNotBuyable):
		return "This item is no longer available."
	case statusFor(err) == http.StatusInternalServerError:
		return "An unexpected error occurred. Please try again."
	}
	// Validation and bid-floor errors carry their own detail.
	return err.Error()
}

// logServiceError logs err when it maps to a 500.
func logServiceError(op string, err error) {
	if statusFor(err) == http.StatusInternalServerError {
		slog.Error(op, "error", err)
	}
}

// writeServiceError writes err as a JSON error with its mapped status.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	logServiceError(op, err)
	writeError(w, statusFor(err), userMessage(err))
}
