package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"bellashop/internal/catalog"
	"bellashop/internal/config"
	"bellashop/internal/domain"
	"bellashop/internal/repos"
	"bellashop/internal/services"
	"bellashop/internal/validate"
)

type options struct {
	dsn      string
	mongoURI string
	mongoDB  string
	json     bool
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "bellactl",
		Short:         "Maintenance commands for the Bella shop catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// config.Load logs its resolved values; keep CLI output clean
			log.SetOutput(io.Discard)
			cfg := config.Load()
			log.SetOutput(cmd.ErrOrStderr())
			if !cmd.Flags().Changed("db") {
				o.dsn = cfg.DBDSN
			}
			o.mongoURI, o.mongoDB = cfg.MongoURI, cfg.MongoDB
		},
	}
	root.PersistentFlags().StringVar(&o.dsn, "db", "bellashop.db", "sqlite database (defaults to DB_DSN)")
	root.PersistentFlags().BoolVar(&o.json, "json", false, "print JSON instead of a table")

	root.AddCommand(newSweepCmd(o), newStatsCmd(o), newListCmd(o), newCategoriesCmd(o), newToggleCmd(o), newAdminCmd(o))
	return root
}

// open wires the catalog service the same way the server does.
func (o *options) open(ctx context.Context) (*services.CatalogService, *sqlx.DB, func(), error) {
	db, err := repos.OpenDB(o.dsn)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open %s: %w", o.dsn, err)
	}
	closers := []func(){func() { db.Close() }}
	history := repos.NopHistory()
	if o.mongoURI != "" {
		client, err := repos.ConnectMongo(ctx, o.mongoURI)
		if err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		closers = append(closers, func() { client.Disconnect(context.Background()) })
		history = repos.NewMongoHistory(client.Database(o.mongoDB))
	}
	svc := services.NewCatalogService(repos.NewProductRepo(db), repos.NewCategoryRepo(db), repos.NewPoolRepo(db), history)
	return svc, db, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}, nil
}

func (o *options) printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func newSweepCmd(o *options) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete sold products older than the retention window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, done, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			if dryRun {
				sold, err := svc.ListSold(cmd.Context())
				if err != nil {
					return err
				}
				now := time.Now().UTC()
				expired := make([]domain.Product, 0, len(sold))
				for _, p := range sold {
					if catalog.Expired(p.SoldAt, now) {
						expired = append(expired, p)
					}
				}
				if o.json {
					return o.printJSON(cmd.OutOrStdout(), expired)
				}
				renderProducts(cmd.OutOrStdout(), expired)
				return nil
			}
			res, err := svc.SweepOldSold(cmd.Context())
			if err != nil {
				return err
			}
			if o.json {
				return o.printJSON(cmd.OutOrStdout(), res)
			}
			cutoff := catalog.RetentionCutoff(time.Now().UTC())
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d sold product(s) sold before %s\n", res.DeletedCount, cutoff.Format(time.DateOnly))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only list what would be deleted")
	return cmd
}

func newStatsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show product counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, done, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			st, err := svc.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if o.json {
				return o.printJSON(cmd.OutOrStdout(), st)
			}
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Total", "Available", "Sold"})
			t.AppendRow(table.Row{st.Total, st.Available, st.Sold})
			t.Render()
			return nil
		},
	}
}

func newListCmd(o *options) *cobra.Command {
	var view, category, search, sort string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products (available, featured, bestsellers, highlighted, sold or all)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, done, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			ps, err := listView(cmd.Context(), svc, view)
			if err != nil {
				return err
			}
			ps = catalog.Apply(ps, catalog.Query{Category: category, Search: strings.TrimSpace(search), Sort: catalog.ParseSort(sort)})
			if o.json {
				return o.printJSON(cmd.OutOrStdout(), ps)
			}
			renderProducts(cmd.OutOrStdout(), ps)
			return nil
		},
	}
	cmd.Flags().StringVar(&view, "view", "available", "listing to show")
	cmd.Flags().StringVar(&category, "category", "", "exact category filter")
	cmd.Flags().StringVarP(&search, "query", "q", "", "search name or category")
	cmd.Flags().StringVar(&sort, "sort", "default", "default, price-asc or price-desc")
	return cmd
}

// listView loads one of the named listings.
func listView(ctx context.Context, svc *services.CatalogService, view string) ([]domain.Product, error) {
	views := map[string]func(context.Context) ([]domain.Product, error){
		"available":   svc.ListAvailable,
		"featured":    svc.ListFeatured,
		"bestsellers": svc.ListBestsellers,
		"highlighted": svc.ListHighlighted,
		"sold":        svc.ListSold,
		"all":         svc.ListAll,
	}
	list, ok := views[view]
	if !ok {
		return nil, fmt.Errorf("unknown view %q", view)
	}
	return list(ctx)
}

func newCategoriesCmd(o *options) *cobra.Command {
	var view string
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the distinct categories of a listing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, done, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			ps, err := listView(cmd.Context(), svc, view)
			if err != nil {
				return err
			}
			cats := catalog.Categories(ps)
			if o.json {
				return o.printJSON(cmd.OutOrStdout(), cats)
			}
			for _, c := range cats {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&view, "view", "available", "listing to read categories from")
	return cmd
}

func newToggleCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id> <featured|bestseller|highlighted|sold>",
		Short: "Flip a placement flag or the sold status of a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := validate.ID(args[0])
			if !ok {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			what := strings.ToLower(strings.TrimSpace(args[1]))
			f, isFlag := domain.ParseFlag(what)
			if !isFlag && what != "sold" {
				return fmt.Errorf("unknown flag %q", args[1])
			}

			svc, _, done, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			var p domain.Product
			if isFlag {
				p, err = svc.ToggleFlag(cmd.Context(), id, f)
			} else {
				p, err = svc.ToggleSold(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			if o.json {
				return o.printJSON(cmd.OutOrStdout(), p)
			}
			renderProducts(cmd.OutOrStdout(), []domain.Product{p})
			return nil
		},
	}
}

func renderProducts(w io.Writer, ps []domain.Product) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "Category", "Price", "Status", "Tags", "Created", "Sold"})
	for _, p := range ps {
		tags := make([]string, 0, 3)
		for _, f := range p.Tags() {
			tags = append(tags, string(f))
		}
		sold := ""
		if p.SoldAt != nil {
			sold = p.SoldAt.Format(time.DateOnly)
		}
		t.AppendRow(table.Row{p.ID, p.Name, p.Category, fmt.Sprintf("%.2f", p.Price), p.Status, strings.Join(tags, ","), p.CreatedAt.Format(time.DateOnly), sold})
	}
	st := catalog.Tally(ps)
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d shown", st.Total), "", "", fmt.Sprintf("%d sold", st.Sold)})
	t.Render()
}

func newAdminCmd(o *options) *cobra.Command {
	var name, email, password string
	admin := &cobra.Command{Use: "admin", Short: "Admin account tasks"}
	ensure := &cobra.Command{
		Use:   "ensure",
		Short: "Create the admin account if none exists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			_, db, done, err := o.open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()
			created, err := repos.EnsureAdmin(cmd.Context(), db, name, email, password, time.Now())
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s\n", strings.ToLower(email))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "an admin already exists; nothing to do")
			}
			return nil
		},
	}
	ensure.Flags().StringVar(&name, "name", "Admin", "display name")
	ensure.Flags().StringVar(&email, "email", "", "login email")
	ensure.Flags().StringVar(&password, "password", "", "login password")
	admin.AddCommand(ensure)
	return admin
}
