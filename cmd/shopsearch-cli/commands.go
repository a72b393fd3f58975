package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"shopsearch/internal/apis/shopping/mapper"
	"shopsearch/internal/apis/shopping/usecases"
	"shopsearch/internal/appstate"
	"shopsearch/internal/notice"
	"shopsearch/internal/repository"
	jsonfile "shopsearch/internal/repository/json"
	"shopsearch/internal/repository/xlsx"
)

type queryFlags struct {
	query   string
	country string
}

func (f *queryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "search query")
	cmd.Flags().StringVarP(&f.country, "country", "c", "", "geolocation code, see `geolocations`")
}

func (f *queryFlags) context() usecases.QueryContext {
	return usecases.QueryContext{Query: f.query, Geolocation: f.country}
}

func newGeolocationsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "geolocations",
		Short: "List the countries a search can target",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			cat, err := a.search.Geolocations(ctx)
			if err != nil {
				a.log.Error("load geolocations", "err", err)
				return fail(notice.CountriesFailed())
			}
			renderGeolocations(a.out, cat.Sorted())
			return nil
		},
	}
}

func newTranslateCommand(a *app) *cobra.Command {
	var (
		qf  queryFlags
		raw bool
	)

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate a query into the language of a country",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			tr, err := a.search.Translate(ctx, qf.context())
			if err != nil {
				return fail(notice.TranslationFailed(err))
			}

			if raw {
				if tr.TranslatedQuery == "" {
					return fail(notice.NoTranslation())
				}
				fmt.Fprintln(a.out, tr.TranslatedQuery)
				return nil
			}

			renderTranslation(a.out, mapper.ToTranslationView(tr))
			a.notify(notice.TranslationDone())
			return nil
		},
	}
	qf.bind(cmd)
	cmd.Flags().BoolVar(&raw, "raw", false, "print only the translated text")
	return cmd
}

func newSearchCommand(a *app) *cobra.Command {
	var (
		qf        queryFlags
		out       string
		tab       string
		translate bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run the multiple-source and single-source searches",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var tabs []appstate.Tab
			switch tab {
			case "", "all":
				tabs = []appstate.Tab{appstate.TabMultiple, appstate.TabSingle}
			default:
				t, ok := appstate.ParseTab(tab)
				if !ok {
					return fmt.Errorf("unknown --tab %q (expected multiple-source|single-source|all)", tab)
				}
				tabs = []appstate.Tab{t}
			}

			qc := qf.context()
			if translate {
				tr, err := a.translateFirst(cmd.Context(), qc)
				if err != nil {
					return err
				}
				qc.Query = tr
			}

			res, err := a.runSearch(cmd.Context(), qc)
			if err != nil {
				return err
			}

			renderResultsHeader(a.out, res)
			for _, t := range tabs {
				renderCards(a.out, t, res)
			}

			if out != "" {
				snap := repository.SearchSnapshot{
					FetchedAt:     time.Now().UTC().Format(time.RFC3339),
					Query:         res.Query,
					OriginalQuery: res.OriginalQuery,
					Geolocation:   repository.NewGeoMeta(res.Geo),
					Multiple:      res.Multi,
					Single:        res.Single,
					Count:         res.Total(),
				}
				if err := jsonfile.New(out, nil).SaveSearch(cmd.Context(), snap); err != nil {
					return fmt.Errorf("save snapshot: %w", err)
				}
			}

			a.notify(notice.SearchFound(res))
			return nil
		},
	}
	qf.bind(cmd)
	cmd.Flags().StringVar(&out, "out", "", "write the results to a JSON file")
	cmd.Flags().StringVar(&tab, "tab", "all", "multiple-source|single-source|all")
	cmd.Flags().BoolVar(&translate, "translate", false, "translate the query for the country first")
	return cmd
}

func (a *app) translateFirst(ctx context.Context, qc usecases.QueryContext) (string, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	tr, err := a.search.Translate(ctx, qc)
	if err != nil {
		return "", fail(notice.TranslationFailed(err))
	}
	renderTranslation(a.errOut, mapper.ToTranslationView(tr))
	if tr.TranslatedQuery == "" {
		return qc.Query, nil
	}
	return tr.TranslatedQuery, nil
}

func (a *app) runSearch(ctx context.Context, qc usecases.QueryContext) (usecases.SearchResult, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	res, err := a.search.Search(ctx, qc)
	if err != nil {
		return usecases.SearchResult{}, fail(notice.SearchFailed(err))
	}
	return res, nil
}

func newDetailsCommand(a *app) *cobra.Command {
	var (
		id      string
		country string
		image   int
		save    bool
		query   string
		out     string
	)

	cmd := &cobra.Command{
		Use:   "details",
		Short: "Show a product with all its sellers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			res, err := a.search.FetchDetail(ctx, id, country)
			if err != nil {
				if n, ok := notice.Validation(err, notice.Error); ok {
					return fail(n)
				}
				return fail(notice.DetailFailed(err))
			}

			g := mapper.NewGallery(mapper.DetailImages(res.Detail))
			g.Select(image)
			renderDetail(a.out, mapper.ToDetail(res.Detail, res.Geo), g)

			if !save && out == "" {
				return nil
			}

			rows := mapper.DeriveRows(res.Detail, res.Geo, query)
			renderRows(a.out, rows)

			if out != "" {
				snap := repository.RowsSnapshot{
					FetchedAt: time.Now().UTC().Format(time.RFC3339),
					ProductID: res.Detail.ProductID.String(),
					Rows:      rows,
					Count:     len(rows),
				}
				if err := jsonfile.New(out, nil).SaveRows(cmd.Context(), snap); err != nil {
					return fmt.Errorf("save rows: %w", err)
				}
			}
			if !save {
				return nil
			}

			saved, err := a.export.SaveDetail(ctx, res.Detail, res.Geo, query)
			if err != nil {
				return fail(notice.SaveProductsFailed(err))
			}
			a.notify(notice.SellerRowsSaved(saved))
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "product id")
	cmd.Flags().StringVarP(&country, "country", "c", "", "geolocation code")
	cmd.Flags().IntVar(&image, "image", 0, "gallery image to mark as shown")
	cmd.Flags().BoolVar(&save, "save", false, "save one spreadsheet row per seller")
	cmd.Flags().StringVarP(&query, "query", "q", "", "query text stored with the rows")
	cmd.Flags().StringVar(&out, "out", "", "also write the rows to a JSON file")
	return cmd
}

func newSaveCardCommand(a *app) *cobra.Command {
	var (
		qf    queryFlags
		index int
		tab   string
	)

	cmd := &cobra.Command{
		Use:   "save-card",
		Short: "Search, then save one result as a single spreadsheet entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, ok := appstate.ParseTab(tab)
			if !ok {
				return fmt.Errorf("unknown --tab %q (expected multiple-source|single-source)", tab)
			}

			res, err := a.runSearch(cmd.Context(), qf.context())
			if err != nil {
				return err
			}

			st := appstate.New()
			ticket, _ := st.BeginSearch(cmd.Context())
			st.CompleteSearch(ticket, res)

			p, geo, ok := st.Product(t, index)
			if !ok {
				return fmt.Errorf("no %s result at index %d", t, index)
			}
			renderRows(a.out, []mapper.Row{mapper.DeriveSingleRow(p, geo, res.Query)})

			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			saved, err := a.export.SaveCard(ctx, p, geo)
			if err != nil {
				return fail(notice.SaveProductFailed(err))
			}
			a.notify(notice.ProductSaved(saved))
			return nil
		},
	}
	qf.bind(cmd)
	cmd.Flags().IntVar(&index, "index", 0, "0-based position in the tab")
	cmd.Flags().StringVar(&tab, "tab", string(appstate.TabMultiple), "multiple-source|single-source")
	return cmd
}

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show how many entries the spreadsheet holds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			st, err := a.export.Count(ctx)
			if err != nil {
				return err
			}
			renderStatus(a.out, st)
			return nil
		},
	}
}

func newExportCommand(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the spreadsheet and summarize its sheets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				dir = a.cfg.CLI.OutputDir
			}

			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			name := usecases.ExportFilename(time.Now())
			path, _, err := xlsx.New(dir, nil).Save(ctx, name, a.export.Export)
			if err != nil {
				return fail(notice.ExportFailed(err))
			}

			sum, err := xlsx.Inspect(path)
			if err != nil {
				return fmt.Errorf("inspect %s: %w", filepath.Base(path), err)
			}
			renderWorkbook(a.out, path, sum)
			a.notify(notice.Exported())
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "out", "", "target directory (default cli.output_dir)")
	return cmd
}

func newClearCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved spreadsheet entry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				n := notice.ClearNotConfirmed()
				n.Message += " Re-run with --yes."
				return fail(n)
			}

			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			if err := a.export.Clear(ctx); err != nil {
				return fail(notice.ClearFailed(err))
			}
			a.notify(notice.Cleared())
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}
