package main

import (
	"fmt"
	"os"
	"time"

	"github.com/msomdec/campus-market/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout read by `marketctl seed`:
//
//	listings:
//	  - title: Desk
//	    category: Dorm & Furniture
//	    type: buy
//	    price: 40
//	    images: [/images/desk]
//	  - title: Road bike
//	    category: Bikes & Scooters
//	    type: auction
//	    startBid: 10
//	    duration: 48h
//	    images: [/images/bike]
type seedFile struct {
	Listings []seedListing `yaml:"listings"`
}

type seedListing struct {
	Title    string       `yaml:"title"`
	Category string       `yaml:"category"`
	Type     string       `yaml:"type"`
	Price    float64      `yaml:"price"`
	StartBid float64      `yaml:"startBid"`
	Duration string       `yaml:"duration"`
	Images   []string     `yaml:"images"`
	Housing  *seedHousing `yaml:"housing"`
}

type seedHousing struct {
	Rent     float64 `yaml:"rent"`
	Unit     string  `yaml:"unit"`
	Bathroom string  `yaml:"bathroom"`
	Roommate string  `yaml:"roommate"`
}

func (s seedListing) draft() (domain.ListingDraft, error) {
	d := domain.ListingDraft{
		Title:    s.Title,
		Category: domain.Category(s.Category),
		Type:     domain.ListingType(s.Type),
		Price:    s.Price,
		StartBid: s.StartBid,
		Images:   s.Images,
		Duration: domain.DefaultAuctionDuration,
	}
	if s.Duration != "" {
		dur, err := time.ParseDuration(s.Duration)
		if err != nil {
			return d, fmt.Errorf("%w: duration %q: %v", domain.ErrInvalidInput, s.Duration, err)
		}
		d.Duration = dur
	}
	if h := s.Housing; h != nil {
		d.Housing = &domain.HousingDetails{
			Rent:     h.Rent,
			Unit:     domain.UnitKind(h.Unit),
			Bathroom: domain.BathroomKind(h.Bathroom),
			Roommate: domain.RoommateIntent(h.Roommate),
		}
	}
	return d, nil
}

func (a *app) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Create listings from a YAML file as the signed-in account",
		Long: `Create every listing in a YAML file as the signed-in account.

All entries are validated before any is created, so a bad file creates
nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var file seedFile
			if err := yaml.Unmarshal(raw, &file); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			if len(file.Listings) == 0 {
				return fmt.Errorf("%s has no listings", args[0])
			}

			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if s == nil {
				return domain.ErrNotSignedIn
			}

			drafts := make([]domain.ListingDraft, len(file.Listings))
			for i, entry := range file.Listings {
				if drafts[i], err = entry.draft(); err != nil {
					return fmt.Errorf("listing %d: %w", i+1, err)
				}
				if err := domain.ValidateDraft(drafts[i]); err != nil {
					return fmt.Errorf("listing %d (%s): %w", i+1, entry.Title, err)
				}
			}

			// Oldest first so the file's first entry ends up newest.
			for i := len(drafts) - 1; i >= 0; i-- {
				if _, err := a.catalog.Create(cmd.Context(), s, drafts[i]); err != nil {
					return fmt.Errorf("listing %d: %w", i+1, err)
				}
			}
			fmt.Fprintf(a.out, "Seeded %d listings\n", len(drafts))
			return nil
		},
	}
}
