package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/msomdec/campus-market/internal/domain"
	"github.com/msomdec/campus-market/internal/repository/sqlite"
	"github.com/msomdec/campus-market/internal/service"
	"github.com/msomdec/campus-market/internal/store"
	"github.com/spf13/cobra"
)

// app holds the flags and services shared by every subcommand.
type app struct {
	dbPath      string
	profile     string
	emailSuffix string
	bcryptCost  int

	in  io.Reader
	out io.Writer

	db       *sqlite.DB
	accounts *service.AccountService
	catalog  *service.CatalogService
}

func newApp(in io.Reader, out io.Writer) *app {
	return &app{in: in, out: out}
}

// execute runs one invocation and closes the database whether or not the
// command succeeded.
func (a *app) execute(args []string, errOut io.Writer) error {
	root := a.rootCmd()
	root.SetErr(errOut)
	if args != nil {
		root.SetArgs(args)
	}
	err := root.Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "marketctl",
		Short: "Campus marketplace from the command line",
		Long: `marketctl registers accounts, lists items and places bids against the
same database the web server uses.

Each --profile keeps its own session, like a separate browser.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
	}
	root.SetIn(a.in)
	root.SetOut(a.out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.dbPath, "db", envOr("DATABASE_PATH", "campus-market.db"), "path to the SQLite database")
	flags.StringVar(&a.profile, "profile", envOr("MARKET_PROFILE", string(domain.DefaultProfile)), "session profile name")
	flags.StringVar(&a.emailSuffix, "email-suffix", os.Getenv("EMAIL_SUFFIX"), "required account email suffix")
	flags.IntVar(&a.bcryptCost, "bcrypt-cost", 12, "bcrypt cost for new accounts")
	flags.MarkHidden("bcrypt-cost")

	root.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.listCmd(),
		a.showCmd(),
		a.createCmd(),
		a.updateCmd(),
		a.deleteCmd(),
		a.bidCmd(),
		a.buyCmd(),
		a.seedCmd(),
	)
	return root
}

func (a *app) open(cmd *cobra.Command, args []string) error {
	// Keep service logs off the command's output.
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	db, err := sqlite.New(a.dbPath)
	if err != nil {
		return err
	}
	if err := db.Migrate(cmd.Context()); err != nil {
		db.Close()
		return fmt.Errorf("migrate: %w", err)
	}
	a.db = db

	kv := db.KV()
	a.accounts = service.NewAccountService(store.NewAccounts(kv), store.NewSessions(kv), service.BcryptHasher{Cost: a.bcryptCost}, a.emailSuffix)
	a.catalog = service.NewCatalogService(store.NewListings(kv))
	return nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func (a *app) profileID() domain.ProfileID {
	return domain.ProfileID(a.profile)
}

// session returns the profile's session, which may be nil.
func (a *app) session(ctx context.Context) (*domain.Session, error) {
	return a.accounts.CurrentUser(ctx, a.profileID())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
