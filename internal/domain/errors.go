package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotSignedIn  = errors.New("not signed in")
	ErrUnauthorized = errors.New("unauthorized")

	ErrDomainMismatch   = errors.New("email is not a student address")
	ErrWeakCredential   = errors.New("password is too short")
	ErrDuplicateAccount = errors.New("account already exists")
	ErrUnknownAccount   = errors.New("no account found")
	ErrBadCredential    = errors.New("incorrect password")

	ErrNotAnAuction = errors.New("listing is not an auction")
	ErrAuctionEnded = errors.New("auction has ended")
	ErrBidTooLow    = errors.New("bid is too low")

	ErrNotBuyable = errors.New("listing is not available to buy")
)

// IsAuthError reports whether err belongs to the registration/login family.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrDomainMismatch) ||
		errors.Is(err, ErrWeakCredential) ||
		errors.Is(err, ErrDuplicateAccount) ||
		errors.Is(err, ErrUnknownAccount) ||
		errors.Is(err, ErrBadCredential)
}

// IsAuctionError reports whether err was raised by a rejected bid.
func IsAuctionError(err error) bool {
	return errors.Is(err, ErrNotAnAuction) ||
		errors.Is(err, ErrAuctionEnded) ||
		errors.Is(err, ErrBidTooLow)
}

// IsSaleError reports whether err was raised by a rejected purchase.
func IsSaleError(err error) bool {
	return errors.Is(err, ErrNotBuyable)
}
