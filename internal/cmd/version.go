package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamancini/skylift/internal/buildinfo"
	"github.com/adamancini/skylift/internal/config"
	"github.com/adamancini/skylift/internal/output"
	"github.com/adamancini/skylift/internal/update"
)

var checkOnly bool

// VersionReport is the result of `skylift version --check`.
type VersionReport struct {
	Current   string    `json:"current" yaml:"current"`
	Latest    string    `json:"latest" yaml:"latest"`
	Available bool      `json:"available" yaml:"available"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	PubDate   time.Time `json:"pub_date,omitzero" yaml:"pub_date,omitempty"`
	Target    string    `json:"target" yaml:"target"`
	URL       string    `json:"url,omitempty" yaml:"url,omitempty"`
}

func (r VersionReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current version: %s\n", r.Current)
	if !r.Available {
		b.WriteString("Already running latest version")
		return b.String()
	}

	fmt.Fprintf(&b, "Latest version: %s available for %s\n", r.Latest, r.Target)
	if !r.PubDate.IsZero() {
		fmt.Fprintf(&b, "Published: %s\n", r.PubDate.Format("2006-01-02 15:04:05"))
	}
	if r.Notes != "" {
		fmt.Fprintf(&b, "\nRelease notes:\n%s\n", r.Notes)
	}
	b.WriteString("\nRun 'skylift check' to install")
	return b.String()
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information and check for updates",
		Long: `Display the current skylift version and optionally check for updates.

Examples:
  skylift version              # Show current version
  skylift version --check      # Check if update is available
  skylift version --check -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd)
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "Check for updates without installing")

	return cmd
}

func runVersion(cmd *cobra.Command) error {
	// If no flags, just show version
	if !checkOnly {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		return err
	}

	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	report, err := checkVersion(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	return output.NewWriter(cmd.OutOrStdout(), format).Write(report)
}

// checkVersion queries the manifest without downloading anything.
func checkVersion(ctx context.Context, cfg *config.Config) (*VersionReport, error) {
	checker, err := newChecker(cfg)
	if err != nil {
		return nil, err
	}

	rel, err := checker.Check(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}

	current := update.NormalizeVersion(buildinfo.Version())
	report := &VersionReport{
		Current: current,
		Latest:  current,
		Target:  checker.Target(),
	}
	if rel != nil {
		report.Latest = rel.Version
		report.Available = true
		report.Notes = rel.Notes
		report.PubDate = rel.PubDate
		report.URL = rel.Asset.URL
	}
	return report, nil
}
