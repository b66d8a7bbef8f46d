package main

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	appctx "github.com/bassista/go_library/internal/app"
	"github.com/bassista/go_library/internal/catalog"
	"github.com/bassista/go_library/internal/clock"
	"github.com/bassista/go_library/internal/config"
	"github.com/bassista/go_library/internal/logger"
	"github.com/bassista/go_library/internal/menu"
)

type rootOptions struct {
	configFile string
	dataFile   string
	logLevel   string

	app *appctx.App
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "library",
		Short: "Personal library catalog",
		Long: `library keeps a catalog of books in a local file and tracks which
are issued, when they are due and the fine owed on late returns.

Run without a subcommand to open the interactive menu.`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: opts.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.menu(cmd).Run()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.dataFile, "data-file", "", "catalog file (overrides data.file_path)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "add TITLE AUTHOR",
			Short: "Add a book",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				opts.menu(cmd).Add(args[0], args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List all books",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				opts.menu(cmd).View()
				return nil
			},
		},
		&cobra.Command{
			Use:   "search [KEYWORD...]",
			Short: "Find books whose title contains KEYWORD",
			RunE: func(cmd *cobra.Command, args []string) error {
				opts.menu(cmd).Search(strings.Join(args, " "))
				return nil
			},
		},
		&cobra.Command{
			Use:   "issue TITLE...",
			Short: "Issue a book for two weeks",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				opts.menu(cmd).Issue(strings.Join(args, " "))
				return nil
			},
		},
		&cobra.Command{
			Use:   "return TITLE...",
			Short: "Return an issued book and report any fine",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				opts.menu(cmd).Return(strings.Join(args, " "))
				return nil
			},
		},
		newWatchCommand(opts),
	)

	return rootCmd
}

// setup loads configuration, applies flag overrides and opens the catalog.
func (o *rootOptions) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if o.dataFile != "" {
		cfg.Data.FilePath = o.dataFile
	}
	if o.logLevel != "" {
		cfg.Misc.LogLevel = o.logLevel
	}

	if err := logger.SetLevel(cfg.Misc.LogLevel); err != nil {
		logger.WithComponent("main").Warnf("invalid log level '%s', using 'info': %v", cfg.Misc.LogLevel, err)
	}
	logger.WithComponent("main").Debugf("catalog file: %s", cfg.Data.FilePath)

	app, err := appctx.New(cfg, clock.System{})
	if err != nil {
		return err
	}
	o.app = app
	return nil
}

func (o *rootOptions) menu(cmd *cobra.Command) *menu.Menu {
	return menu.New(o.app.Library, cmd.InOrStdin(), cmd.OutOrStdout(), o.app.Config.Loan.Currency)
}

func newWatchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the catalog again whenever its file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			seq, _ := opts.app.Library.List()

			var mu sync.Mutex
			last := slices.Collect(seq)
			show := func(books []catalog.Book) {
				if len(books) == 0 {
					fmt.Fprintln(out, "No books in the library.")
					return
				}
				if err := menu.RenderBooks(out, slices.Values(books)); err != nil {
					logger.WithComponent("watch").Errorf("render: %v", err)
				}
			}
			show(last)

			err := opts.app.Repo.StartWatcher(cmd.Context(), func(res catalog.LoadResult) {
				mu.Lock()
				defer mu.Unlock()
				if res.Fallback() {
					logger.WithComponent("watch").Warnf("catalog file %s: %v", res.Outcome, res.Err)
				}
				if catalog.Equal(last, res.Books) {
					logger.WithComponent("watch").Debug("catalog unchanged, skipping")
					return
				}
				last = res.Books
				fmt.Fprintln(out)
				show(last)
			})
			if err != nil {
				return fmt.Errorf("cannot start catalog file watcher: %w", err)
			}

			logger.WithComponent("watch").Infof("watching %s", opts.app.Config.Data.FilePath)
			<-cmd.Context().Done()
			return nil
		},
	}
}
