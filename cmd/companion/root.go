package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/companion/internal/adapters/api"
	"github.com/felixgeelhaar/companion/internal/adapters/credentials"
	"github.com/felixgeelhaar/companion/internal/adapters/logging"
	"github.com/felixgeelhaar/companion/internal/config"
	"github.com/felixgeelhaar/companion/internal/ports"
)

var (
	// Global flags
	cfgFile    string
	apiURLFlag string
	profile    string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "companion",
	Short: "Register as a hospital companion",
	Long: `Companion registers you as a hospital companion: a person who
accompanies patients to appointments.

The register command walks through five steps:
  휴대폰 인증 → 이름 → 자기소개 → 활동 지역 → 자격증`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.companion/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "backend base URL (overrides config and "+config.EnvAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "credentials profile (default: \"default\")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	registerFlagCompletions()

	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies environment and flag
// overrides on top of it.
func loadConfig() (*config.Config, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return loadConfigFrom(cfgFile, dir, os.Getenv)
}

func loadConfigFrom(path, dir string, getenv func(string) string) (*config.Config, error) {
	cfg, err := config.Load(path, dir)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(getenv)
	cfg.Apply(config.Overrides{
		APIURL:  apiURLFlag,
		Profile: profile,
		Verbose: verbose,
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newConsoleLogger logs to w in the configured format.
func newConsoleLogger(cfg *config.Config, w io.Writer) *logging.ConsoleLogger {
	return logging.NewConsoleLogger(
		logging.WithOutput(w),
		logging.WithLevel(cfg.LogLevel()),
		logging.WithJSONFormat(cfg.Log.Format == "json"),
	)
}

// newFileLogger logs to the configured log file. It is used while a
// terminal UI owns stdout. An empty log file discards logs.
func newFileLogger(cfg *config.Config) (ports.Logger, func(), error) {
	if cfg.Log.File == "" {
		return logging.NewNopLogger(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	logger, err := logging.NewProductionLogger(cfg.LogLevel(), cfg.Log.File)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// currentSession returns the signed-in session of the selected profile.
func currentSession(cfg *config.Config) (ports.Session, error) {
	return credentials.NewStore(cfg.CredentialsPath, cfg.Profile).Current()
}

// newAPIClient creates a backend client authenticated as session.
func newAPIClient(cfg *config.Config, session ports.Session, logger ports.Logger) *api.Client {
	cc := api.DefaultClientConfig()
	cc.BaseURL = cfg.API.BaseURL
	cc.Timeout = cfg.API.Timeout.Std()
	cc.UserAgent = cfg.API.UserAgent
	cc.AccessToken = session.AccessToken
	return api.NewClient(cc, api.WithLogger(logger))
}

// formatError returns a user-friendly error message.
// With verbose=false: shows only the user message and suggestion.
// With verbose=true: also shows the underlying technical error.
func formatError(err error) string {
	var userErr *config.UserError
	if errors.As(err, &userErr) {
		msg := userErr.Message
		if userErr.Context != "" {
			msg += fmt.Sprintf(" (at %s)", userErr.Context)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		if verbose && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		return msg
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg := apiErr.Message
		if verbose {
			msg += fmt.Sprintf("\n\nTechnical details: %v", err)
		}
		return msg
	}
	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}

// registerFlagCompletions sets up custom completions for global flags.
func registerFlagCompletions() {
	_ = rootCmd.RegisterFlagCompletionFunc("config", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"yaml", "yml", "toml"}, cobra.ShellCompDirectiveFilterFileExt
	})

	// Complete --profile with the sections of the credentials file
	_ = rootCmd.RegisterFlagCompletionFunc("profile", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		cfg, err := loadConfig()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		profiles, err := credentials.NewStore(cfg.CredentialsPath, cfg.Profile).Profiles()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return profiles, cobra.ShellCompDirectiveNoFileComp
	})
}
