package cmd

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/adamancini/skylift/internal/config"
	"github.com/adamancini/skylift/internal/interactive"
	"github.com/adamancini/skylift/internal/output"
	"github.com/adamancini/skylift/internal/templates"
)

const redacted = "<redacted>"

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the skylift configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Long: `Show prints the configuration after discovery, defaults, environment
expansion and the SKYLIFT_ENDPOINT fallback. Header values are redacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout(), cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the path of the config file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigPath(cmd.OutOrStdout(), cfg)
		},
	})

	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		templateName string
		path         string
		force        bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long: `Init writes a config file from a built-in template.

Examples:
  skylift config init                      # minimal template in the default location
  skylift config init --template full      # every option with its default
  skylift config init --path ./skylift.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompter := interactive.NewPrompterWithIO(cmd.InOrStdin(), cmd.OutOrStdout())
			return runConfigInit(cmd.OutOrStdout(), prompter, templateName, path, force)
		},
	}

	cmd.Flags().StringVarP(&templateName, "template", "t", "minimal", "Template name")
	cmd.Flags().StringVar(&path, "path", "", "Output path (default $XDG_CONFIG_HOME/skylift/skylift.yaml)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	_ = cmd.RegisterFlagCompletionFunc("template", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var completions []string
		for _, name := range templates.List() {
			completions = append(completions, fmt.Sprintf("%s\t%s", name, templates.Description(name)))
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// defaultConfigPath returns where config init writes when no path is given.
func defaultConfigPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "skylift", "skylift.yaml"), nil
}

func runConfigInit(out io.Writer, prompter *interactive.Prompter, templateName, path string, force bool) error {
	tmpl, err := templates.Get(templateName)
	if err != nil {
		return err
	}
	if _, err := config.Parse(tmpl.Content); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}

	if path == "" {
		path, err = defaultConfigPath()
		if err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !force {
		if !prompter.Confirm("%s already exists. Overwrite?", path) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, tmpl.Content, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(out, "Created %s from the %s template\n", path, tmpl.Name)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Point endpoints at your release manifest")
	fmt.Fprintln(out, "  2. Run 'skylift version --check' to try it")
	return nil
}

func runConfigShow(out io.Writer, c *config.Config) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	shown := *c
	shown.Headers = maps.Clone(c.Headers)
	for k := range shown.Headers {
		shown.Headers[k] = redacted
	}

	if format == output.FormatText {
		if c.Path != "" {
			fmt.Fprintf(out, "# %s\n", c.Path)
		} else {
			fmt.Fprintln(out, "# defaults (no config file found)")
		}
		format = output.FormatYAML
	}
	return output.NewWriter(out, format).Write(shown)
}

func runConfigPath(out io.Writer, c *config.Config) error {
	if c.Path == "" {
		_, err := fmt.Fprintln(out, "no config file found, using defaults")
		return err
	}
	_, err := fmt.Fprintln(out, c.Path)
	return err
}
