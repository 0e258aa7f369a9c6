package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/arcanaland/decktech/internal/config"
	"github.com/arcanaland/decktech/internal/decklist"
	"github.com/arcanaland/decktech/internal/viewer"
	"github.com/arcanaland/decktech/internal/watch"
)

var viewCmd = &cobra.Command{
	Use:   "view [decklist]",
	Short: "Open the interactive card viewer",
	Long: `View shows the cards of a decklist four per page. Use the left and right arrow
keys to move between pages.

Without a decklist argument a file picker is shown first.

Examples:
  decktech view
  decktech view ./burn.txt
  decktech view --watch ./burn.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		watchFlag, _ := cmd.Flags().GetBool("watch")

		var path string
		if len(args) == 1 {
			path = args[0]
			if _, err := os.Stat(path); os.IsNotExist(err) {
				return fmt.Errorf("decklist not found: %s", path)
			}
		} else if watchFlag {
			return fmt.Errorf("--watch needs a decklist argument")
		}

		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("view needs an interactive terminal, use 'decktech list' instead")
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// The viewer owns the terminal, so diagnostics go to a file
		log, err := newLogger(cfg, config.GetLogFilePath())
		if err != nil {
			return err
		}
		defer log.Sync()

		client := newCatalogClient(cfg, log)
		parser := decklist.NewParser(client, log)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		model := viewer.New(ctx, parser, client, viewer.Options{
			Path: path,
			Dir:  filepath.Dir(path),
			Presenter: viewer.PresenterOptions{
				FadeDelay: cfg.FadeDelay.Duration,
				ArtWidth:  cfg.ArtWidth,
				ArtHeight: cfg.ArtHeight,
			},
		}, log)

		g, gctx := errgroup.WithContext(ctx)
		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx))

		g.Go(func() error {
			defer cancel()
			_, err := program.Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		})

		if watchFlag {
			g.Go(func() error {
				return watch.File(gctx, path, watch.DefaultDebounce, func(p string) {
					program.Send(viewer.FileSelectedMsg{Path: p})
				}, log)
			})
		}

		return g.Wait()
	},
}

func init() {
	RootCmd.AddCommand(viewCmd)

	viewCmd.Flags().BoolP("watch", "w", false, "reload the decklist when it changes on disk")
}
