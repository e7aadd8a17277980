package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/companion/internal/domain/catalog"
	"github.com/felixgeelhaar/companion/internal/domain/preferences"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change UI preferences",
	Long: `Show or change the preferences used by the registration wizard.

  scale   small, medium or large content width
  region  region whose areas are listed first (empty to clear)

Examples:
  companion prefs show
  companion prefs set scale large
  companion prefs set region 서울`,
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := prefsStore()
		if err != nil {
			return err
		}
		prefs, err := store.Load()
		if err != nil {
			return err
		}
		showPreferences(cmd.OutOrStdout(), prefs)
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:       "set <scale|region> [value]",
	Short:     "Change a preference",
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{"scale", "region"},
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := prefsStore()
		if err != nil {
			return err
		}
		cat, err := catalog.Default()
		if err != nil {
			return err
		}
		value := ""
		if len(args) == 2 {
			value = args[1]
		}
		if err := setPreference(store, cat, args[0], value); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", args[0])
		return nil
	},
}

func init() {
	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	rootCmd.AddCommand(prefsCmd)
}

func prefsStore() (*preferences.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return preferences.NewStore(cfg.PreferencesPath), nil
}

func showPreferences(w io.Writer, prefs *preferences.Preferences) {
	region := prefs.Region
	if region == "" {
		region = "(none)"
	}
	_, _ = fmt.Fprintf(w, "scale:  %s (%d columns)\n", prefs.Scale, prefs.Scale.Width())
	_, _ = fmt.Fprintf(w, "region: %s\n", region)
}

// setPreference validates and persists one preference. Regions must exist
// in cat.
func setPreference(store *preferences.Store, cat *catalog.Catalog, key, value string) error {
	prefs, err := store.Load()
	if err != nil {
		return err
	}

	switch key {
	case "scale":
		if err := prefs.SetScale(value); err != nil {
			return validationError("scale", err.Error(), "Use small, medium or large.")
		}
	case "region":
		value = strings.TrimSpace(value)
		regions := cat.Regions()
		if value != "" && !slices.Contains(regions, value) {
			return validationError("region", fmt.Sprintf("unknown region %q", value),
				"Use one of: "+strings.Join(regions, ", "))
		}
		prefs.SetRegion(value)
	default:
		return validationError("key", fmt.Sprintf("unknown preference %q", key), "Use scale or region.")
	}

	return store.Save(prefs)
}
