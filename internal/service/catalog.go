package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/campus-market/internal/domain"
)

// CatalogService owns the listing catalog. Every mutation loads the whole
// catalog, changes it and saves it back. The mutex serializes those cycles
// within one process; separate processes sharing a store still race and the
// last writer wins.
type CatalogService struct {
	mu       sync.Mutex
	listings domain.ListingRepository
	now      func() time.Time
	newID    func() (string, error)
}

// CatalogOption configures a CatalogService.
type CatalogOption func(*CatalogService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CatalogOption {
	return func(s *CatalogService) { s.now = now }
}

// WithIDGenerator replaces the UUIDv7 listing id generator.
func WithIDGenerator(newID func() (string, error)) CatalogOption {
	return func(s *CatalogService) { s.newID = newID }
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(listings domain.ListingRepository, opts ...CatalogOption) *CatalogService {
	s := &CatalogService{
		listings: listings,
		now:      time.Now,
		newID:    newListingID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newListingID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Now returns the service clock's current time.
func (s *CatalogService) Now() time.Time {
	return s.now()
}

// List returns the catalog, newest first.
func (s *CatalogService) List(ctx context.Context) ([]domain.Listing, error) {
	return s.listings.Load(ctx)
}

// Search returns the listings matching f in catalog order.
func (s *CatalogService) Search(ctx context.Context, f ListingFilter) ([]domain.Listing, error) {
	listings, err := s.listings.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(listings, f, s.now()), nil
}

// Get returns a listing by id.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	listings, err := s.listings.Load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(listings, id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	l := listings[i]
	return &l, nil
}

// Create validates a draft and prepends the new listing to the catalog.
func (s *CatalogService) Create(ctx context.Context, actor *domain.Session, draft domain.ListingDraft) (*domain.Listing, error) {
	if actor == nil {
		return nil, domain.ErrNotSignedIn
	}
	if err := domain.ValidateDraft(draft); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Ids and creation times are taken under the lock so catalog order
	// matches both.
	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("generate listing id: %w", err)
	}
	now := s.timestamp()

	l := baseListing(draft)
	l.ID = id
	l.Owner = domain.NormalizeEmail(actor.Email)
	l.CreatedAt = now
	switch draft.Type {
	case domain.ListingTypeBuy:
		l.Price = ptr(draft.Price)
	case domain.ListingTypeAuction:
		l.StartBid = ptr(draft.StartBid)
		l.CurrentBid = ptr(draft.StartBid)
		l.EndsAt = ptr(now.Add(draft.Duration))
	}

	listings, err := s.listings.Load(ctx)
	if err != nil {
		return nil, err
	}
	listings = slices.Insert(listings, 0, l)
	if err := s.listings.Save(ctx, listings); err != nil {
		return nil, fmt.Errorf("save listings: %w", err)
	}

	slog.Info("listing created", "id", l.ID, "type", l.Type, "owner", l.Owner)
	return &l, nil
}

// Update replaces the editable fields of a listing owned by actor. The id,
// owner and creation time never change. An auction keeps its end time and
// any accepted bid; a buy listing keeps its sold flag.
func (s *CatalogService) Update(ctx context.Context, actor *domain.Session, id string, draft domain.ListingDraft) (*domain.Listing, error) {
	if actor == nil {
		return nil, domain.ErrNotSignedIn
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	listings, err := s.listings.Load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(listings, id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	existing := listings[i]
	if !existing.IsOwnedBy(actor.Email) {
		return nil, domain.ErrUnauthorized
	}
	if err := domain.ValidateDraft(draft); err != nil {
		return nil, err
	}

	l := baseListing(draft)
	l.ID = existing.ID
	l.Owner = existing.Owner
	l.CreatedAt = existing.CreatedAt

	switch draft.Type {
	case domain.ListingTypeBuy:
		l.Price = ptr(draft.Price)
		if existing.Type == domain.ListingTypeBuy {
			l.Sold = existing.Sold
		}
	case domain.ListingTypeAuction:
		if existing.Type == domain.ListingTypeBuy && existing.Sold {
			return nil, fmt.Errorf("%w: a sold listing cannot become an auction", domain.ErrInvalidInput)
		}
		l.StartBid = ptr(draft.StartBid)
		switch {
		case existing.Type != domain.ListingTypeAuction:
			l.CurrentBid = ptr(draft.StartBid)
			l.EndsAt = ptr(s.timestamp().Add(draft.Duration))
		case existing.HasBids():
			if draft.StartBid > *existing.CurrentBid {
				return nil, fmt.Errorf("%w: starting bid cannot exceed the current bid of %s",
					domain.ErrInvalidInput, FormatCurrency(*existing.CurrentBid))
			}
			l.CurrentBid = ptr(*existing.CurrentBid)
			l.EndsAt = s.keepEndsAt(existing, draft.Duration)
		default:
			l.CurrentBid = ptr(draft.StartBid)
			l.EndsAt = s.keepEndsAt(existing, draft.Duration)
		}
	}

	listings[i] = l
	if err := s.listings.Save(ctx, listings); err != nil {
		return nil, fmt.Errorf("save listings: %w", err)
	}

	slog.Info("listing updated", "id", l.ID, "type", l.Type, "owner", l.Owner)
	return &l, nil
}

// Delete removes a listing owned by actor.
func (s *CatalogService) Delete(ctx context.Context, actor *domain.Session, id string) error {
	if actor == nil {
		return domain.ErrNotSignedIn
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	listings, err := s.listings.Load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(listings, id)
	if i < 0 {
		return domain.ErrNotFound
	}
	if !listings[i].IsOwnedBy(actor.Email) {
		return domain.ErrUnauthorized
	}

	listings = slices.Delete(listings, i, i+1)
	if err := s.listings.Save(ctx, listings); err != nil {
		return fmt.Errorf("save listings: %w", err)
	}

	slog.Info("listing deleted", "id", id, "owner", actor.Email)
	return nil
}

// PlaceBid records amount as the auction's current bid. Bidder identity is
// not stored and sellers may bid on their own auctions.
func (s *CatalogService) PlaceBid(ctx context.Context, actor *domain.Session, id string, amount float64) (*domain.Listing, error) {
	return s.mutate(ctx, actor, id, func(l *domain.Listing) error {
		return l.PlaceBid(amount, s.now())
	})
}

// BuyNow marks a buy listing sold. No payment is taken.
func (s *CatalogService) BuyNow(ctx context.Context, actor *domain.Session, id string) (*domain.Listing, error) {
	return s.mutate(ctx, actor, id, func(l *domain.Listing) error {
		return l.MarkSold()
	})
}

func (s *CatalogService) mutate(ctx context.Context, actor *domain.Session, id string, apply func(*domain.Listing) error) (*domain.Listing, error) {
	if actor == nil {
		return nil, domain.ErrNotSignedIn
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	listings, err := s.listings.Load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(listings, id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	if err := apply(&listings[i]); err != nil {
		return nil, err
	}
	if err := s.listings.Save(ctx, listings); err != nil {
		return nil, fmt.Errorf("save listings: %w", err)
	}

	l := listings[i]
	slog.Info("listing changed", "id", id, "status", l.Status(s.now()), "amount", l.Amount(), "by", actor.Email)
	return &l, nil
}

// keepEndsAt returns the auction's existing end time, deriving one from
// duration only for records that lost it.
func (s *CatalogService) keepEndsAt(existing domain.Listing, duration time.Duration) *time.Time {
	if existing.EndsAt != nil {
		return ptr(*existing.EndsAt)
	}
	return ptr(s.timestamp().Add(duration))
}

// timestamp is the clock reading stored on listings: UTC, millisecond precision.
func (s *CatalogService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func indexOf(listings []domain.Listing, id string) int {
	return slices.IndexFunc(listings, func(l domain.Listing) bool { return l.ID == id })
}

func baseListing(draft domain.ListingDraft) domain.Listing {
	l := domain.Listing{
		Title:    strings.TrimSpace(draft.Title),
		Category: draft.Category,
		Type:     draft.Type,
		Images:   slices.Clone(draft.Images),
	}
	if draft.Category == domain.CategoryHousing && draft.Housing != nil {
		h := *draft.Housing
		l.Housing = &h
	}
	return l
}

func ptr[T any](v T) *T { return &v }
