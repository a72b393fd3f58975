package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shopsearch/internal/apis/shopping/usecases"
	"shopsearch/internal/bootstrap"
	"shopsearch/internal/config"
	"shopsearch/internal/logger"
	"shopsearch/internal/notice"
)

// app is what every subcommand needs; it is built once the flags are parsed.
type app struct {
	cfg    *config.Config
	search *usecases.SearchService
	export *usecases.ExportService
	log    *slog.Logger
	out    io.Writer
	errOut io.Writer
}

// noticeError is a failure already phrased for the user.
type noticeError struct {
	n notice.Notice
}

func (e noticeError) Error() string { return e.n.Message }

func fail(n notice.Notice) error { return noticeError{n: n} }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		var ne noticeError
		if errors.As(err, &ne) {
			printNotice(os.Stderr, ne.n)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		logLevel   string
		a          = &app{}
	)

	root := &cobra.Command{
		Use:           "shopsearch",
		Short:         "Search products across sellers and collect them into a spreadsheet",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}

			log := logger.New(logger.Options{
				Level:     cfg.Log.Level,
				Format:    cfg.Log.Format,
				AddSource: cfg.Log.AddSource,
				Env:       cfg.Env,
				Writer:    cmd.ErrOrStderr(),
			})

			shop, err := bootstrap.BuildService(cfg, log)
			if err != nil {
				return fmt.Errorf("build backend client: %w", err)
			}

			a.cfg = cfg
			a.search = usecases.NewSearchService(shop, log)
			a.export = usecases.NewExportService(shop, log)
			a.log = log
			a.out = cmd.OutOrStdout()
			a.errOut = cmd.ErrOrStderr()
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (optional, SHOPSEARCH_* env works alone)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (default log.level from config)")

	root.AddCommand(
		newGeolocationsCommand(a),
		newTranslateCommand(a),
		newSearchCommand(a),
		newDetailsCommand(a),
		newSaveCardCommand(a),
		newStatusCommand(a),
		newExportCommand(a),
		newClearCommand(a),
	)
	return root
}

// withTimeout bounds one command by the configured HTTP timeout.
func (a *app) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.cfg.Timeout())
}

func (a *app) notify(n notice.Notice) {
	printNotice(a.errOut, n)
}
