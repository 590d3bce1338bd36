package domain

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

type ListingType string

const (
	ListingTypeAuction ListingType = "auction"
	ListingTypeBuy     ListingType = "buy"
)

type Category string

const (
	CategoryTextbooks     Category = "Textbooks"
	CategoryDormFurniture Category = "Dorm & Furniture"
	CategoryElectronics   Category = "Electronics"
	CategoryClothing      Category = "Clothing"
	CategoryBikesScooters Category = "Bikes & Scooters"
	CategoryTickets       Category = "Tickets"
	CategoryServices      Category = "Services"
	CategoryHousing       Category = "Housing"
	CategoryOther         Category = "Other"
)

// Categories lists the closed category set in display order.
var Categories = []Category{
	CategoryTextbooks,
	CategoryDormFurniture,
	CategoryElectronics,
	CategoryClothing,
	CategoryBikesScooters,
	CategoryTickets,
	CategoryServices,
	CategoryHousing,
	CategoryOther,
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type UnitKind string

const (
	UnitStudio      UnitKind = "studio"
	UnitPrivateRoom UnitKind = "private-room"
	UnitSharedRoom  UnitKind = "shared-room"
	UnitApartment   UnitKind = "apartment"
	UnitHouse       UnitKind = "house"
)

type BathroomKind string

const (
	BathroomPrivate BathroomKind = "private"
	BathroomShared  BathroomKind = "shared"
)

type RoommateIntent string

const (
	RoommateLooking  RoommateIntent = "looking"
	RoommateOffering RoommateIntent = "offering"
	RoommateNone     RoommateIntent = "none"
)

// HousingDetails carries the extra attributes of a Housing listing.
type HousingDetails struct {
	Rent     float64        `json:"rent"`
	Unit     UnitKind       `json:"unit"`
	Bathroom BathroomKind   `json:"bathroom"`
	Roommate RoommateIntent `json:"roommate"`
}

const (
	MaxImages              = 8
	MinAuctionDuration     = time.Hour
	DefaultAuctionDuration = 24 * time.Hour
)

// Listing is a single marketplace item. Price is set for buy listings;
// StartBid, CurrentBid and EndsAt are set for auctions.
type Listing struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Category   Category        `json:"category"`
	Housing    *HousingDetails `json:"housing,omitempty"`
	Type       ListingType     `json:"type"`
	Price      *float64        `json:"price,omitempty"`
	StartBid   *float64        `json:"startBid,omitempty"`
	CurrentBid *float64        `json:"currentBid,omitempty"`
	EndsAt     *time.Time      `json:"endsAt,omitempty"`
	Images     []string        `json:"images"`
	Owner      string          `json:"owner"`
	CreatedAt  time.Time       `json:"createdAt"`
	Sold       bool            `json:"sold,omitempty"`
}

// ListingDraft is the caller-supplied part of a listing. Only the fields
// matching Type are read.
type ListingDraft struct {
	Title    string
	Category Category
	Housing  *HousingDetails
	Type     ListingType
	Price    float64
	StartBid float64
	Duration time.Duration
	Images   []string
}

type ListingStatus string

const (
	StatusOpen      ListingStatus = "open"
	StatusEnded     ListingStatus = "ended"
	StatusAvailable ListingStatus = "available"
	StatusSold      ListingStatus = "sold"
)

// ListingRepository loads and saves the whole ordered catalog at once.
type ListingRepository interface {
	Load(ctx context.Context) ([]Listing, error)
	Save(ctx context.Context, listings []Listing) error
}

// Status derives the display state at the given instant. Auctions end by
// elapsed time only; nothing resolves a winner.
func (l *Listing) Status(now time.Time) ListingStatus {
	if l.Type == ListingTypeAuction {
		if l.EndsAt == nil || !now.Before(*l.EndsAt) {
			return StatusEnded
		}
		return StatusOpen
	}
	if l.Sold {
		return StatusSold
	}
	return StatusAvailable
}

// BidFloor is the amount a new bid has to exceed.
func (l *Listing) BidFloor() float64 {
	var floor float64
	if l.StartBid != nil {
		floor = *l.StartBid
	}
	if l.CurrentBid != nil && *l.CurrentBid > floor {
		floor = *l.CurrentBid
	}
	return floor
}

// HasBids reports whether an auction received at least one accepted bid.
// Bids must exceed the start bid, so an untouched auction has equal values.
func (l *Listing) HasBids() bool {
	return l.Type == ListingTypeAuction && l.CurrentBid != nil && l.StartBid != nil && *l.CurrentBid > *l.StartBid
}

// Amount is the figure shown and filtered on: the price of a buy listing or
// the current bid floor of an auction.
func (l *Listing) Amount() float64 {
	if l.Type == ListingTypeBuy {
		if l.Price == nil {
			return 0
		}
		return *l.Price
	}
	return l.BidFloor()
}

// IsOwnedBy compares the owner case-insensitively.
func (l *Listing) IsOwnedBy(email string) bool {
	return l.Owner == NormalizeEmail(email)
}

// PlaceBid accepts amount as the new current bid when the auction is open
// and amount is strictly greater than the bid floor.
func (l *Listing) PlaceBid(amount float64, now time.Time) error {
	if l.Type != ListingTypeAuction {
		return ErrNotAnAuction
	}
	if l.Status(now) == StatusEnded {
		return ErrAuctionEnded
	}
	if !finite(amount) {
		return fmt.Errorf("%w: bid must be a number", ErrInvalidInput)
	}
	floor := l.BidFloor()
	if amount <= floor {
		return fmt.Errorf("%w: bid must be more than %.2f", ErrBidTooLow, floor)
	}
	l.CurrentBid = &amount
	return nil
}

// MarkSold confirms a buy-now purchase.
func (l *Listing) MarkSold() error {
	if l.Type != ListingTypeBuy || l.Sold {
		return ErrNotBuyable
	}
	l.Sold = true
	return nil
}

// MatchesQuery reports whether the title contains q, ignoring case.
func (l *Listing) MatchesQuery(q string) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Title), strings.ToLower(q))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ValidateDraft reports the first unmet constraint of a draft, wrapped in
// ErrInvalidInput.
func ValidateDraft(d ListingDraft) error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !d.Category.Valid() {
		return fmt.Errorf("%w: category %q is not one of the listed categories", ErrInvalidInput, d.Category)
	}
	if err := validateHousing(d.Category, d.Housing); err != nil {
		return err
	}
	if len(d.Images) == 0 {
		return fmt.Errorf("%w: at least one photo is required", ErrInvalidInput)
	}
	if len(d.Images) > MaxImages {
		return fmt.Errorf("%w: at most %d photos are allowed", ErrInvalidInput, MaxImages)
	}
	for i, ref := range d.Images {
		if strings.TrimSpace(ref) == "" {
			return fmt.Errorf("%w: photo %d is empty", ErrInvalidInput, i+1)
		}
	}

	switch d.Type {
	case ListingTypeBuy:
		if !finite(d.Price) || d.Price <= 0 {
			return fmt.Errorf("%w: enter a valid price", ErrInvalidInput)
		}
	case ListingTypeAuction:
		if !finite(d.StartBid) || d.StartBid < 0 {
			return fmt.Errorf("%w: enter a valid starting bid", ErrInvalidInput)
		}
		if d.Duration < MinAuctionDuration {
			return fmt.Errorf("%w: auction must run for at least %s", ErrInvalidInput, MinAuctionDuration)
		}
	default:
		return fmt.Errorf("%w: type must be 'auction' or 'buy'", ErrInvalidInput)
	}
	return nil
}

func validateHousing(category Category, h *HousingDetails) error {
	if category != CategoryHousing {
		if h != nil {
			return fmt.Errorf("%w: housing details only apply to Housing listings", ErrInvalidInput)
		}
		return nil
	}
	if h == nil {
		return fmt.Errorf("%w: housing listings need rent, unit, bathroom and roommate details", ErrInvalidInput)
	}
	if !finite(h.Rent) || h.Rent <= 0 {
		return fmt.Errorf("%w: enter a valid monthly rent", ErrInvalidInput)
	}
	switch h.Unit {
	case UnitStudio, UnitPrivateRoom, UnitSharedRoom, UnitApartment, UnitHouse:
	default:
		return fmt.Errorf("%w: unknown unit kind %q", ErrInvalidInput, h.Unit)
	}
	switch h.Bathroom {
	case BathroomPrivate, BathroomShared:
	default:
		return fmt.Errorf("%w: unknown bathroom kind %q", ErrInvalidInput, h.Bathroom)
	}
	switch h.Roommate {
	case RoommateLooking, RoommateOffering, RoommateNone:
	default:
		return fmt.Errorf("%w: unknown roommate intent %q", ErrInvalidInput, h.Roommate)
	}
	return nil
}
