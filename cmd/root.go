package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcanaland/decktech/internal/catalog"
	"github.com/arcanaland/decktech/internal/config"
	"github.com/arcanaland/decktech/internal/logging"
)

var (
	configPath string
	debug      bool
	catalogURL string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "decktech",
	Short: "Page through a decklist's card art, four cards at a time",
	Long: `Decktech reads a plain-text decklist ("4 Lightning Bolt" per line), looks each
card up in the card catalog, and shows the artwork four cards per page.

A blank line in the decklist starts a new page.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/decktech/config.toml)")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable diagnostic logging")
	RootCmd.PersistentFlags().StringVar(&catalogURL, "catalog-url", "", "card catalog base URL")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// loadConfig reads the config file and applies command-line overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.GetConfigFilePath()
	}

	cfg, err := config.LoadConfigFrom(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("debug") {
		cfg.Debug = debug
	}
	if catalogURL != "" {
		cfg.CatalogURL = catalogURL
	}

	return cfg, nil
}

// newLogger builds the diagnostic logger. logPath is empty for stderr.
func newLogger(cfg *config.Config, logPath string) (*logging.Logger, error) {
	log, err := logging.New(logging.Options{
		Enabled: cfg.Debug,
		Verbose: cfg.Debug,
		Path:    logPath,
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing logger: %w", err)
	}
	return log, nil
}

func newCatalogClient(cfg *config.Config, log *logging.Logger) *catalog.Client {
	return catalog.NewClient(catalog.Options{
		BaseURL:   cfg.CatalogURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout.Duration,
	}, log)
}
