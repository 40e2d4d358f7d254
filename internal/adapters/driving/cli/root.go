// Package cli implements the askdoc command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corvid-labs/askdoc/internal/config"
	"github.com/corvid-labs/askdoc/internal/core/ports/driving"
	"github.com/corvid-labs/askdoc/internal/logger"
)

var version = "dev"

var (
	configPath string
	verbose    bool
)

// Services bundles the application core handed to the CLI by main.
type Services struct {
	Assistant driving.AssistantService
	Auth      driving.AuthService
	Export    driving.ExportService

	// Cleanup releases adapter resources. Optional.
	Cleanup func() error
}

// WireFunc builds the application services from loaded configuration.
// Wiring is deferred until a command actually needs services, so
// commands like version run without touching the data directory.
type WireFunc func(cfg *config.Config) (*Services, error)

var (
	wireServices WireFunc
	services     *Services
)

var rootCmd = &cobra.Command{
	Use:   "askdoc",
	Short: "Ask questions about your documents",
	Long: `askdoc ingests PDF, Markdown and plain text documents and answers
questions grounded in their content. Answers cite the documents they
came from; what the documents don't cover, askdoc won't invent.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.askdoc/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the CLI. The wire function is called at most once, the
// first time a command needs the application services.
func Execute(v string, wire WireFunc) error {
	version = v
	wireServices = wire

	err := rootCmd.Execute()
	if services != nil && services.Cleanup != nil {
		if cerr := services.Cleanup(); cerr != nil {
			logger.Warn("Cleanup failed: %v", cerr)
		}
	}
	return err
}

// ensureServices loads configuration and wires the application core.
func ensureServices() (*Services, error) {
	if services != nil {
		return services, nil
	}
	if wireServices == nil {
		return nil, fmt.Errorf("services not configured")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose || cfg.Verbose {
		logger.SetVerbose(true)
	}

	services, err = wireServices(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialise services: %w", err)
	}
	return services, nil
}
