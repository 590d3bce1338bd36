package handler

import (
	"time"

	"github.com/msomdec/campus-market/internal/domain"
	"github.com/msomdec/campus-market/internal/service"
)

type userDTO struct {
	Email string `json:"email"`
}

func toUserDTO(s *domain.Session) userDTO {
	return userDTO{Email: s.Email}
}

type listingDTO struct {
	ID         string                 `json:"id"`
	Title      string                 `json:"title"`
	Category   domain.Category        `json:"category"`
	Housing    *domain.HousingDetails `json:"housing,omitempty"`
	Type       domain.ListingType     `json:"type"`
	Price      *float64               `json:"price,omitempty"`
	StartBid   *float64               `json:"startBid,omitempty"`
	CurrentBid *float64               `json:"currentBid,omitempty"`
	EndsAt     *time.Time             `json:"endsAt,omitempty"`
	Images     []string               `json:"images"`
	Owner      string                 `json:"owner"`
	CreatedAt  time.Time              `json:"createdAt"`
	Sold       bool                   `json:"sold"`
	Status     domain.ListingStatus   `json:"status"`
	Amount     string                 `json:"amount"`
	TimeLeft   string                 `json:"timeLeft,omitempty"`
	MinimumBid string                 `json:"minimumBid,omitempty"`
}

func toListingDTO(l *domain.Listing, now time.Time) listingDTO {
	dto := listingDTO{
		ID:         l.ID,
		Title:      l.Title,
		Category:   l.Category,
		Housing:    l.Housing,
		Type:       l.Type,
		Price:      l.Price,
		StartBid:   l.StartBid,
		CurrentBid: l.CurrentBid,
		EndsAt:     l.EndsAt,
		Images:     l.Images,
		Owner:      l.Owner,
		CreatedAt:  l.CreatedAt,
		Sold:       l.Sold,
		Status:     l.Status(now),
		Amount:     service.FormatCurrency(l.Amount()),
	}
	if dto.Images == nil {
		dto.Images = []string{}
	}
	if l.Type == domain.ListingTypeAuction {
		if l.EndsAt != nil {
			dto.TimeLeft = service.TimeLeftUntil(*l.EndsAt, now)
		} else {
			dto.TimeLeft = service.TimeLeft(0)
		}
		dto.MinimumBid = service.FormatCurrency(l.BidFloor())
	}
	return dto
}

func toListingDTOs(listings []domain.Listing, now time.Time) []listingDTO {
	out := make([]listingDTO, len(listings))
	for i := range listings {
		out[i] = toListingDTO(&listings[i], now)
	}
	return out
}

// listingRequest is the body of create and update calls. DurationHours
// defaults to 24 for auctions.
type listingRequest struct {
	Title         string                 `json:"title"`
	Category      domain.Category        `json:"category"`
	Housing       *domain.HousingDetails `json:"housing"`
	Type          domain.ListingType     `json:"type"`
	Price         float64                `json:"price"`
	StartBid      float64                `json:"startBid"`
	DurationHours float64                `json:"durationHours"`
	Images        []string               `json:"images"`
}

func (req listingRequest) draft() domain.ListingDraft {
	d := domain.ListingDraft{
		Title:    req.Title,
		Category: req.Category,
		Housing:  req.Housing,
		Type:     req.Type,
		Price:    req.Price,
		StartBid: req.StartBid,
		Images:   req.Images,
		Duration: time.Duration(req.DurationHours * float64(time.Hour)),
	}
	if req.DurationHours == 0 {
		d.Duration = domain.DefaultAuctionDuration
	}
	return d
}
