package cmd

import (
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/adamancini/skylift/internal/buildinfo"
	"github.com/adamancini/skylift/internal/config"
	"github.com/adamancini/skylift/internal/logging"
	"github.com/adamancini/skylift/internal/orchestrator"
	"github.com/adamancini/skylift/internal/presenter"
	"github.com/adamancini/skylift/internal/types"
)

var (
	// Global flags
	outputFormat  string
	configPath    string
	presenterName string
	skipUpdate    bool
	verbose       bool
	quiet         bool

	// cfg is resolved once per invocation before any command runs
	cfg *config.Config
)

func Execute(version, commit, date string) error {
	buildinfo.Set(version, commit, date)
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "skylift [flags] [-- app args]",
		Short: "Keep a desktop application up to date",
		Long: `skylift checks a release manifest on startup, installs newer builds in place
and relaunches, then starts the configured application.

Arguments after -- are passed to the application unchanged.`,
		Version:           buildinfo.Version(),
		SilenceUsage:      true,
		Args:              cobra.ArbitraryArgs,
		PersistentPreRunE: loadConfig,
		RunE:              runRoot,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&presenterName, "presenter", "", "Progress surface: auto, panel, dialog, terminal, log, none")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	rootCmd.PersistentFlags().BoolVar(&skipUpdate, "skip-update", false, "Skip the startup update check")
	_ = rootCmd.PersistentFlags().MarkHidden("skip-update")

	// Add subcommands
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newBackupsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Register completion functions
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("presenter", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var kinds []string
		for _, k := range types.AllPresenterKinds() {
			kinds = append(kinds, string(k))
		}
		return kinds, cobra.ShellCompDirectiveNoFileComp
	})

	return rootCmd
}

// loadConfig resolves the configuration and sets up logging.
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Resolve(configPath)
	if err != nil {
		return err
	}

	level := c.Log.Level
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "error"
	}
	if err := logging.Init(level, c.Log.File); err != nil {
		return err
	}

	if c.Path != "" {
		log.Debugf("loaded config from %s", c.Path)
	}
	cfg = c
	return nil
}

// presenterKind returns the --presenter override or the configured kind.
func presenterKind() (types.PresenterKind, error) {
	if presenterName != "" {
		return types.ParsePresenterKind(presenterName)
	}
	return cfg.Presenter, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	kind, err := presenterKind()
	if err != nil {
		return err
	}
	if orchestrator.ShouldSkip(buildinfo.IsDebug(), processArgs()) {
		kind = types.PresenterNone
	}

	proceed := true
	err = withSurface(cfg, kind, func(s presenter.Surface, r orchestrator.Restarter) error {
		o := newOrchestrator(cfg, s, r)
		var err error
		proceed, err = o.CheckOnStartup(cmd.Context())
		return err
	})
	switch {
	case errors.Is(err, orchestrator.ErrRestart):
		return err
	case err != nil:
		// The installed binary is unchanged, so the app still starts.
		log.Errorf("startup update check: %v", err)
		proceed = true
	}
	if !proceed {
		return nil
	}

	return launchApp(cmd, cfg.Launch.Command, args)
}
