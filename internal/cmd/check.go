package cmd

import (
	"github.com/spf13/cobra"

	"github.com/adamancini/skylift/internal/orchestrator"
	"github.com/adamancini/skylift/internal/presenter"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check for updates now",
		Long: `Check queries the configured endpoints and installs a newer release if one
is available, then relaunches. Unlike the startup check it also reports when
the application is already up to date, and when the check itself failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd)
		},
	}
}

func runCheck(cmd *cobra.Command) error {
	kind, err := presenterKind()
	if err != nil {
		return err
	}

	return withSurface(cfg, kind, func(s presenter.Surface, r orchestrator.Restarter) error {
		return newOrchestrator(cfg, s, r).CheckForUpdates(cmd.Context())
	})
}
