package store

import (
	"context"

	"github.com/msomdec/campus-market/internal/domain"
)

// Listings implements domain.ListingRepository as one ordered JSON array.
type Listings struct {
	kv domain.KeyValueStore
}

var _ domain.ListingRepository = (*Listings)(nil)

func NewListings(kv domain.KeyValueStore) *Listings {
	return &Listings{kv: kv}
}

func (s *Listings) Load(ctx context.Context) ([]domain.Listing, error) {
	return load[[]domain.Listing](ctx, s.kv, KeyListings)
}

func (s *Listings) Save(ctx context.Context, listings []domain.Listing) error {
	if listings == nil {
		listings = []domain.Listing{}
	}
	return save(ctx, s.kv, KeyListings, listings)
}
