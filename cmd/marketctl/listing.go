package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/msomdec/campus-market/internal/domain"
	"github.com/msomdec/campus-market/internal/service"
	"github.com/spf13/cobra"
)

func (a *app) listCmd() *cobra.Command {
	var (
		f                           service.ListingFilter
		category, typ               string
		unit, bathroom, roommate    string
		minPrice, maxPrice, maxRent float64
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List listings, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			f.Category = domain.Category(category)
			f.Type = domain.ListingType(typ)
			f.Unit = domain.UnitKind(unit)
			f.Bathroom = domain.BathroomKind(bathroom)
			f.Roommate = domain.RoommateIntent(roommate)
			if flags.Changed("min") {
				f.MinPrice = &minPrice
			}
			if flags.Changed("max") {
				f.MaxPrice = &maxPrice
			}
			if flags.Changed("max-rent") {
				f.MaxRent = &maxRent
			}

			listings, err := a.catalog.Search(cmd.Context(), f)
			if err != nil {
				return err
			}
			if len(listings) == 0 {
				fmt.Fprintln(a.out, "No listings match.")
				return nil
			}
			return printTable(a.out, listings, a.catalog.Now())
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&category, "category", "", "only this category")
	flags.StringVar(&typ, "type", "", "auction or buy")
	flags.Float64Var(&minPrice, "min", 0, "minimum price or current bid")
	flags.Float64Var(&maxPrice, "max", 0, "maximum price or current bid")
	flags.StringVarP(&f.Query, "query", "q", "", "title contains")
	flags.BoolVar(&f.HideSold, "hide-sold", false, "hide sold items")
	flags.BoolVar(&f.HideEnded, "hide-ended", false, "hide ended auctions")
	flags.StringVar(&unit, "unit", "", "housing unit kind")
	flags.StringVar(&bathroom, "bathroom", "", "housing bathroom kind")
	flags.StringVar(&roommate, "roommate", "", "housing roommate intent")
	flags.Float64Var(&maxRent, "max-rent", 0, "maximum monthly rent")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.catalog.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printListing(a.out, l, a.catalog.Now())
			return nil
		},
	}
}

func (a *app) createCmd() *cobra.Command {
	var (
		d        domain.ListingDraft
		category string
		typ      string
		housing  domain.HousingDetails
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a listing as the signed-in account",
		Example: `  marketctl create --title Desk --category "Dorm & Furniture" --type buy --price 40 --image /images/abc
  marketctl create --title Bike --category "Bikes & Scooters" --type auction --start-bid 10 --duration 48h --image x`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			d.Category = domain.Category(category)
			d.Type = domain.ListingType(typ)
			if d.Category == domain.CategoryHousing {
				d.Housing = &housing
			}
			l, err := a.catalog.Create(cmd.Context(), s, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created %s\n", l.ID)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&d.Title, "title", "", "listing title")
	flags.StringVar(&category, "category", "", "one of: "+categoryList())
	flags.StringVar(&typ, "type", string(domain.ListingTypeBuy), "auction or buy")
	flags.Float64Var(&d.Price, "price", 0, "buy-now price")
	flags.Float64Var(&d.StartBid, "start-bid", 0, "auction starting bid")
	flags.DurationVar(&d.Duration, "duration", domain.DefaultAuctionDuration, "auction length, at least 1h")
	flags.StringArrayVar(&d.Images, "image", nil, "photo reference (repeatable, 1 to 8)")
	flags.Float64Var(&housing.Rent, "rent", 0, "monthly rent (Housing)")
	flags.StringVar((*string)(&housing.Unit), "unit", "", "studio, private-room, shared-room, apartment or house (Housing)")
	flags.StringVar((*string)(&housing.Bathroom), "bathroom", "", "private or shared (Housing)")
	flags.StringVar((*string)(&housing.Roommate), "roommate", string(domain.RoommateNone), "looking, offering or none (Housing)")
	return cmd
}

// updateCmd edits a listing in place. Flags left unset keep the listing's
// current values.
func (a *app) updateCmd() *cobra.Command {
	var (
		title, category, typ     string
		price, startBid, rent    float64
		duration                 time.Duration
		images                   []string
		unit, bathroom, roommate string
	)
	cmd := &cobra.Command{
		Use:     "update <id>",
		Short:   "Edit one of your listings",
		Example: `  marketctl update 9f3c --price 35
  marketctl update 9f3c --type auction --start-bid 20 --duration 72h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if s == nil {
				return domain.ErrNotSignedIn
			}
			l, err := a.catalog.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			d := draftOf(l)
			flags := cmd.Flags()
			if flags.Changed("title") {
				d.Title = title
			}
			if flags.Changed("category") {
				d.Category = domain.Category(category)
			}
			if flags.Changed("type") {
				d.Type = domain.ListingType(typ)
			}
			if flags.Changed("price") {
				d.Price = price
			}
			if flags.Changed("start-bid") {
				d.StartBid = startBid
			}
			if flags.Changed("duration") {
				d.Duration = duration
			}
			if flags.Changed("image") {
				d.Images = images
			}

			if d.Category != domain.CategoryHousing {
				d.Housing = nil
			} else {
				h := domain.HousingDetails{Roommate: domain.RoommateNone}
				if d.Housing != nil {
					h = *d.Housing
				}
				if flags.Changed("rent") {
					h.Rent = rent
				}
				if flags.Changed("unit") {
					h.Unit = domain.UnitKind(unit)
				}
				if flags.Changed("bathroom") {
					h.Bathroom = domain.BathroomKind(bathroom)
				}
				if flags.Changed("roommate") {
					h.Roommate = domain.RoommateIntent(roommate)
				}
				d.Housing = &h
			}

			updated, err := a.catalog.Update(cmd.Context(), s, l.ID, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated %s\n", updated.ID)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&title, "title", "", "listing title")
	flags.StringVar(&category, "category", "", "one of: "+categoryList())
	flags.StringVar(&typ, "type", "", "auction or buy")
	flags.Float64Var(&price, "price", 0, "buy-now price")
	flags.Float64Var(&startBid, "start-bid", 0, "auction starting bid")
	flags.DurationVar(&duration, "duration", 0, "auction length when the listing becomes an auction")
	flags.StringArrayVar(&images, "image", nil, "photo reference, replaces every photo (repeatable)")
	flags.Float64Var(&rent, "rent", 0, "monthly rent (Housing)")
	flags.StringVar(&unit, "unit", "", "housing unit kind")
	flags.StringVar(&bathroom, "bathroom", "", "housing bathroom kind")
	flags.StringVar(&roommate, "roommate", "", "housing roommate intent")
	return cmd
}

// draftOf is the draft that would recreate l as it stands.
func draftOf(l *domain.Listing) domain.ListingDraft {
	d := domain.ListingDraft{
		Title:    l.Title,
		Category: l.Category,
		Type:     l.Type,
		Duration: domain.DefaultAuctionDuration,
		Images:   l.Images,
	}
	if l.Price != nil {
		d.Price = *l.Price
	}
	if l.StartBid != nil {
		d.StartBid = *l.StartBid
	}
	if l.Housing != nil {
		h := *l.Housing
		d.Housing = &h
	}
	return d
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of your listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.catalog.Delete(cmd.Context(), s, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted %s\n", args[0])
			return nil
		},
	}
}

func (a *app) bidCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bid <id> <amount>",
		Short: "Bid on an auction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("%w: amount %q is not a number", domain.ErrInvalidInput, args[1])
			}
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			l, err := a.catalog.PlaceBid(cmd.Context(), s, args[0], amount)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Bid placed. Current bid %s\n", service.FormatCurrency(*l.CurrentBid))
			return nil
		},
	}
}

func (a *app) buyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy <id>",
		Short: "Buy a listing now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			l, err := a.catalog.BuyNow(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Purchased %q. Contact %s to arrange pickup.\n", l.Title, l.Owner)
			return nil
		},
	}
}

func categoryList() string {
	names := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func printTable(w io.Writer, listings []domain.Listing, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tSTATUS\tAMOUNT\tLEFT\tTITLE")
	for i := range listings {
		l := &listings[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, l.Type, l.Status(now), service.FormatCurrency(l.Amount()), timeLeft(l, now), l.Title)
	}
	return tw.Flush()
}

func printListing(w io.Writer, l *domain.Listing, now time.Time) {
	fmt.Fprintf(w, "%s\n", l.Title)
	fmt.Fprintf(w, "  id:       %s\n", l.ID)
	fmt.Fprintf(w, "  category: %s\n", l.Category)
	fmt.Fprintf(w, "  seller:   %s\n", l.Owner)
	fmt.Fprintf(w, "  status:   %s\n", l.Status(now))
	switch l.Type {
	case domain.ListingTypeAuction:
		fmt.Fprintf(w, "  bid:      %s (next bid must be more)\n", service.FormatCurrency(l.BidFloor()))
		fmt.Fprintf(w, "  ends in:  %s\n", timeLeft(l, now))
	case domain.ListingTypeBuy:
		fmt.Fprintf(w, "  price:    %s\n", service.FormatCurrency(l.Amount()))
	}
	if h := l.Housing; h != nil {
		fmt.Fprintf(w, "  housing:  %s/mo, %s, %s bath, roommate %s\n",
			service.FormatCurrency(h.Rent), h.Unit, h.Bathroom, h.Roommate)
	}
	for _, img := range l.Images {
		fmt.Fprintf(w, "  photo:    %s\n", img)
	}
}

func timeLeft(l *domain.Listing, now time.Time) string {
	if l.Type != domain.ListingTypeAuction {
		return "-"
	}
	if l.EndsAt == nil {
		return service.TimeLeft(0)
	}
	return service.TimeLeftUntil(*l.EndsAt, now)
}
