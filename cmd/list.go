package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/arcanaland/decktech/internal/card"
	"github.com/arcanaland/decktech/internal/decklist"
)

// page is the serialized form of one card group
type page struct {
	Page  int          `json:"page" yaml:"page"`
	Cards []card.Entry `json:"cards" yaml:"cards"`
}

var listCmd = &cobra.Command{
	Use:   "list [decklist]",
	Short: "Resolve a decklist and print its pages",
	Long: `List runs the same lookup and grouping as the viewer and prints the result,
one page of up to four cards at a time.

Examples:
  decktech list ./burn.txt
  decktech list --format json ./burn.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		format, _ := cmd.Flags().GetString("format")

		switch format {
		case "text", "json", "yaml":
		default:
			return fmt.Errorf("unknown format %q (supported: text, json, yaml)", format)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		log, err := newLogger(cfg, "")
		if err != nil {
			return err
		}
		defer log.Sync()

		parser := decklist.NewParser(newCatalogClient(cfg, log), log)
		groups, err := parser.ProcessFile(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("error processing decklist: %w", err)
		}

		pages := make([]page, 0, len(groups))
		for i, g := range groups {
			pages = append(pages, page{Page: i + 1, Cards: g})
		}

		out := cmd.OutOrStdout()
		switch format {
		case "json":
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(pages)
		case "yaml":
			encoder := yaml.NewEncoder(out)
			defer encoder.Close()
			return encoder.Encode(pages)
		default:
			printPages(out, pages, terminalWidth())
			return nil
		}
	},
}

func init() {
	RootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("format", "f", "text", "output format: text, json or yaml")
}

// terminalWidth returns the stdout width, or 80 when it is not a terminal
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func printPages(w io.Writer, pages []page, width int) {
	if len(pages) == 0 {
		fmt.Fprintln(w, "No cards found.")
		return
	}

	for _, p := range pages {
		fmt.Fprintln(w, colorize.CyanString("Page %d", p.Page))
		for _, c := range p.Cards {
			count := colorize.HiWhiteString("%3d", c.Count)
			if c.Image.Empty() {
				fmt.Fprintf(w, "  %s  %s\n", count, colorize.RedString("(no image)"))
				continue
			}
			fmt.Fprintf(w, "  %s  %s\n", count, truncate(c.Image.FullImageURL, width-7))
			if c.Image.CropImageURL != "" {
				fmt.Fprintf(w, "       %s\n", colorize.HiBlackString(truncate(c.Image.CropImageURL, width-7)))
			}
		}
		fmt.Fprintln(w)
	}
}

func truncate(s string, width int) string {
	if width < 10 || len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}
