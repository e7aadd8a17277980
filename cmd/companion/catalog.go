package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/companion/internal/domain/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List service areas and certifications",
	Long: `List the codes accepted by 'companion register --from-file'.

The embedded catalog is used unless --remote is given.

Examples:
  companion catalog areas
  companion catalog areas --region 서울
  companion catalog certifications --remote`,
}

var catalogAreasCmd = &cobra.Command{
	Use:   "areas",
	Short: "List service areas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, err := catalogFor(cmd)
		if err != nil {
			return err
		}
		return listEntries(cmd.OutOrStdout(), cat, catalog.KindArea, catalogRegion)
	},
}

var catalogCertificationsCmd = &cobra.Command{
	Use:     "certifications",
	Aliases: []string{"certs"},
	Short:   "List certifications",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, err := catalogFor(cmd)
		if err != nil {
			return err
		}
		return listEntries(cmd.OutOrStdout(), cat, catalog.KindCertification, "")
	},
}

// Flags
var (
	catalogRemote bool
	catalogRegion string
)

func init() {
	catalogCmd.PersistentFlags().BoolVar(&catalogRemote, "remote", false, "fetch the catalog from the backend")
	catalogAreasCmd.Flags().StringVar(&catalogRegion, "region", "", "only list areas in this region")

	catalogCmd.AddCommand(catalogAreasCmd)
	catalogCmd.AddCommand(catalogCertificationsCmd)
	rootCmd.AddCommand(catalogCmd)
}

func catalogFor(cmd *cobra.Command) (*catalog.Catalog, error) {
	if !catalogRemote {
		return catalog.Default()
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	// The catalog endpoints accept anonymous requests.
	session, _ := currentSession(cfg)
	client := newAPIClient(cfg, session, newConsoleLogger(cfg, cmd.ErrOrStderr()))
	return catalog.Fetch(cmd.Context(), client)
}

func listEntries(w io.Writer, cat *catalog.Catalog, kind catalog.Kind, region string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if kind == catalog.KindArea {
		_, _ = fmt.Fprintln(tw, "CODE\tLABEL\tREGION")
	} else {
		_, _ = fmt.Fprintln(tw, "CODE\tLABEL")
	}

	n := 0
	for _, e := range cat.Entries(kind) {
		if region != "" && e.Region != region {
			continue
		}
		n++
		if kind == catalog.KindArea {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Code, e.Label, e.Region)
		} else {
			_, _ = fmt.Fprintf(tw, "%s\t%s\n", e.Code, e.Label)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if n == 0 && region != "" {
		return validationError("region", fmt.Sprintf("no areas in region %q", region), "")
	}
	return nil
}
