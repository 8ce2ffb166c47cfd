// Package cli provides the command-line interface for shelf-admin.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shelfware/shelf-admin/internal/config"
	"github.com/shelfware/shelf-admin/internal/logging"
)

var (
	// Global flags
	cfgFile    string
	token      string
	tokenType  string
	apiBaseURL string
	verbose    bool

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// Version information - set by main package at startup. The canonical value
// lives in internal/version and is injected via LDFLAGS by the Makefile.
var (
	Version   = "v1.2.0-dev"
	BuildTime = "unknown"
)

// NewRootCmd creates the root command for the CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shelf-admin",
		Short: "Operator tooling for shelf item storage",
		Long: `shelf-admin ` + Version + ` - Built: ` + BuildTime + `
Explore the storage behind shelf items: object trees, reconciled
metadata, and media previews, straight from the platform API.

Items are addressed as CONTAINER/ITEM, e.g.:

  shelf-admin tree books/alg-101
  shelf-admin metadata books/alg-101
  shelf-admin preview books/alg-101 assets/cover.png`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewDefaultLogger()
			if verbose {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Admin access token (overrides config and SHELF_PLATFORM_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&tokenType, "token-type", "", "Authorization scheme, Bearer or Token (overrides config)")
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api-url", "", "Platform API base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")

	rootCmd.Version = Version + " (" + BuildTime + ")"

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	// Create a context that can be cancelled by signals
	rootContext, cancelFunc = context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nReceived signal %v, cancelling...\n", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	err := rootCmd.Execute()

	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(newMetadataCmd())
	rootCmd.AddCommand(newPreviewCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return logger
}

// GetContext returns the global CLI context with signal handling. It is
// cancelled when the user presses Ctrl+C.
func GetContext() context.Context {
	if rootContext == nil {
		return context.Background()
	}
	return rootContext
}

// loadConfig loads the configuration and layers the global flags on top.
// Priority: flags > environment > config file > defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Read(cfgFile)
	if err != nil {
		return nil, err
	}

	mergeFlags(cfg)
	config.ApplyDefaults(cfg)

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeFlags(cfg *config.Config) {
	if token != "" {
		cfg.Platform.Token = token
	}
	if tokenType != "" {
		cfg.Platform.TokenType = tokenType
	}
	if apiBaseURL != "" {
		cfg.Platform.URL = apiBaseURL
	}
	if verbose {
		cfg.Logging.Level = "DEBUG"
	}
}

// splitItemRef parses a CONTAINER/ITEM argument.
func splitItemRef(ref string) (container, item string, err error) {
	container, item, ok := strings.Cut(ref, "/")
	if !ok || container == "" || item == "" {
		return "", "", fmt.Errorf("invalid item reference %q: expected CONTAINER/ITEM", ref)
	}
	return container, item, nil
}
