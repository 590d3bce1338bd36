package store_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/msomdec/campus-market/internal/domain"
	"github.com/msomdec/campus-market/internal/repository/memory"
	"github.com/msomdec/campus-market/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func sampleCatalog() []domain.Listing {
	created := time.Date(2026, 3, 1, 12, 0, 0, 123_000_000, time.UTC)
	ends := created.Add(24 * time.Hour)
	return []domain.Listing{
		{
			ID:         "0195f7a0-0000-7000-8000-000000000002",
			Title:      "Road bike",
			Category:   domain.CategoryBikesScooters,
			Type:       domain.ListingTypeAuction,
			StartBid:   ptr(10.0),
			CurrentBid: ptr(12.5),
			EndsAt:     &ends,
			Images:     []string{"/images/a", "/images/b"},
			Owner:      "seller@student.csulb.edu",
			CreatedAt:  created,
		},
		{
			ID:       "0195f7a0-0000-7000-8000-000000000001",
			Title:    "Room near campus",
			Category: domain.CategoryHousing,
			Housing: &domain.HousingDetails{
				Rent:     900,
				Unit:     domain.UnitPrivateRoom,
				Bathroom: domain.BathroomShared,
				Roommate: domain.RoommateOffering,
			},
			Type:      domain.ListingTypeBuy,
			Price:     ptr(900.0),
			Images:    []string{"x"},
			Owner:     "host@student.csulb.edu",
			CreatedAt: created.Add(-time.Hour),
			Sold:      true,
		},
	}
}

func TestListings_RoundTrip(t *testing.T) {
	kv := memory.New()
	repo := store.NewListings(kv)
	ctx := context.Background()

	want := sampleCatalog()
	require.NoError(t, repo.Save(ctx, want))
	first, err := kv.Get(ctx, store.KeyListings)
	require.NoError(t, err)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("catalog changed across save/load (-want +got):\n%s", diff)
	}

	require.NoError(t, repo.Save(ctx, got))
	second, err := kv.Get(ctx, store.KeyListings)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second), "re-serialized catalog differs:\n%s\n%s", first, second)
}

func TestListings_EmptyAndCorrupt(t *testing.T) {
	kv := memory.New()
	repo := store.NewListings(kv)
	ctx := context.Background()

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, kv.Set(ctx, store.KeyListings, []byte("{not json")))
	got, err = repo.Load(ctx)
	require.NoError(t, err, "corrupt catalog must degrade to empty")
	assert.Empty(t, got)

	require.NoError(t, repo.Save(ctx, nil))
	raw, err := kv.Get(ctx, store.KeyListings)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestAccounts_LoadDefaultsAndCorrupt(t *testing.T) {
	kv := memory.New()
	repo := store.NewAccounts(kv)
	ctx := context.Background()

	accounts, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, accounts)
	assert.Empty(t, accounts)

	accounts["a@student.csulb.edu"] = "hash"
	require.NoError(t, repo.Save(ctx, accounts))

	reloaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Accounts{"a@student.csulb.edu": "hash"}, reloaded)

	for _, raw := range []string{"[1,2,3]", "null", ""} {
		require.NoError(t, kv.Set(ctx, store.KeyAccounts, []byte(raw)))
		accounts, err := repo.Load(ctx)
		require.NoError(t, err, "raw=%q", raw)
		require.NotNil(t, accounts, "raw=%q", raw)
		assert.Empty(t, accounts, "raw=%q", raw)
	}
}

func TestSessions_PerProfile(t *testing.T) {
	kv := memory.New()
	repo := store.NewSessions(kv)
	ctx := context.Background()

	s, err := repo.Load(ctx, "laptop")
	require.NoError(t, err)
	assert.Nil(t, s)

	require.NoError(t, repo.Save(ctx, "laptop", &domain.Session{Email: "a@student.csulb.edu"}))

	s, err = repo.Load(ctx, "laptop")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "a@student.csulb.edu", s.Email)

	other, err := repo.Load(ctx, "phone")
	require.NoError(t, err)
	assert.Nil(t, other, "sessions must not leak across profiles")

	require.NoError(t, repo.Clear(ctx, "laptop"))
	require.NoError(t, repo.Clear(ctx, "laptop"))
	s, err = repo.Load(ctx, "laptop")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSessions_Corrupt(t *testing.T) {
	kv := memory.New()
	repo := store.NewSessions(kv)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, store.SessionKey(domain.DefaultProfile), []byte(`"oops"`)))
	s, err := repo.Load(ctx, domain.DefaultProfile)
	require.NoError(t, err)
	assert.Nil(t, s)

	require.NoError(t, kv.Set(ctx, store.SessionKey(domain.DefaultProfile), []byte(`{"email":""}`)))
	s, err = repo.Load(ctx, domain.DefaultProfile)
	require.NoError(t, err)
	assert.Nil(t, s)
}
