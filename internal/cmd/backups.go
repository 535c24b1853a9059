package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/adamancini/skylift/internal/backup"
	"github.com/adamancini/skylift/internal/interactive"
	"github.com/adamancini/skylift/internal/output"
)

const timeLayout = "2006-01-02 15:04:05"

// backupTable renders backups as columns in text output
type backupTable []backup.Backup

func (t backupTable) Header() []string {
	return []string{"ID", "Created", "Version", "Note", "Size"}
}

func (t backupTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, b := range t {
		note := b.Note
		if note == "" {
			note = "-"
		}
		rows = append(rows, []string{
			b.ID,
			b.CreatedAt.Format(timeLayout),
			b.Version,
			note,
			formatSize(b.Size),
		})
	}
	return rows
}

func newBackupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backups",
		Aliases: []string{"backup"},
		Short:   "Manage copies of replaced binaries",
		Long: `Before every update skylift copies the running binary into
~/.cache/skylift/backups/ (or $XDG_CACHE_HOME/skylift/backups/).

Use 'skylift backups restore' to go back to a previous build.`,
	}

	cmd.AddCommand(newBackupsListCmd())
	cmd.AddCommand(newBackupsRestoreCmd())
	cmd.AddCommand(newBackupsDeleteCmd())
	cmd.AddCommand(newBackupsPruneCmd())

	return cmd
}

func newBackupsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all backups",
		Long:  `List displays all available backups with their creation time, version, note and size.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupsList(cmd.OutOrStdout())
		},
	}
}

func newBackupsRestoreCmd() *cobra.Command {
	var (
		yes    bool
		target string
	)

	cmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore a previous binary",
		Long: `Restore writes the binary from a backup over the path it was taken from,
or over --target.

Use 'latest' as the ID to restore the most recent backup.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && cmd.InOrStdin() == os.Stdin && !interactive.IsTerminal() {
				return fmt.Errorf("stdin is not a terminal; pass --yes to restore without confirmation")
			}
			prompter := interactive.NewPrompterWithIO(cmd.InOrStdin(), cmd.OutOrStdout())
			return runBackupsRestore(cmd.OutOrStdout(), prompter, args[0], target, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	cmd.Flags().StringVar(&target, "target", "", "Write the binary here instead of its original path")

	return cmd
}

func newBackupsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a backup",
		Long:  `Delete removes a backup by its ID.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupsDelete(cmd.OutOrStdout(), args[0])
		},
	}
}

func newBackupsPruneCmd() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove old backups",
		Long: fmt.Sprintf(`Prune deletes old backups, keeping only the most recent N backups.

By default, keeps the %d most recent backups.`, backup.DefaultKeepCount),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupsPrune(cmd.OutOrStdout(), keep)
		},
	}

	cmd.Flags().IntVar(&keep, "keep", backup.DefaultKeepCount, "Number of backups to keep")

	return cmd
}

// runBackupsList lists all backups.
func runBackupsList(out io.Writer) error {
	manager, err := backup.NewManager()
	if err != nil {
		return err
	}

	backups, err := manager.List()
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	if format == output.FormatText {
		if len(backups) == 0 {
			fmt.Fprintln(out, "No backups found.")
			fmt.Fprintf(out, "Backup directory: %s\n", manager.BackupDir())
			return nil
		}
		fmt.Fprintf(out, "Backups stored in %s:\n\n", manager.BackupDir())
		return output.NewWriter(out, format).Write(backupTable(backups))
	}

	if backups == nil {
		backups = []backup.Backup{}
	}
	return output.NewWriter(out, format).Write(backups)
}

// runBackupsRestore restores a binary from a backup after confirmation.
func runBackupsRestore(out io.Writer, prompter *interactive.Prompter, id, target string, skipConfirm bool) error {
	manager, err := backup.NewManager()
	if err != nil {
		return err
	}

	bak, err := manager.Get(id)
	if err != nil {
		return err
	}

	dest := target
	if dest == "" {
		dest = bak.SourcePath
	}

	fmt.Fprintf(out, "Restoring from backup: %s\n", bak.ID)
	fmt.Fprintf(out, "Created: %s\n", bak.CreatedAt.Format(timeLayout))
	fmt.Fprintf(out, "Version: %s\n", bak.Version)
	if bak.Note != "" {
		fmt.Fprintf(out, "Note: %s\n", bak.Note)
	}
	fmt.Fprintf(out, "Target: %s\n\n", dest)

	if !skipConfirm && !prompter.Confirm("Replace %s?", dest) {
		fmt.Fprintln(out, "Restore cancelled.")
		return nil
	}

	if _, err := manager.Restore(bak.ID, dest); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	fmt.Fprintf(out, "Restored version %s to %s\n", bak.Version, dest)
	return nil
}

// runBackupsDelete deletes a backup.
func runBackupsDelete(out io.Writer, id string) error {
	manager, err := backup.NewManager()
	if err != nil {
		return err
	}

	if err := manager.Delete(id); err != nil {
		return err
	}

	fmt.Fprintf(out, "Backup deleted: %s\n", id)
	return nil
}

// runBackupsPrune removes old backups.
func runBackupsPrune(out io.Writer, keep int) error {
	manager, err := backup.NewManager()
	if err != nil {
		return err
	}

	result, err := manager.Prune(keep)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	if format != output.FormatText {
		return output.NewWriter(out, format).Write(result)
	}

	if len(result.Deleted) == 0 {
		fmt.Fprintf(out, "No backups to prune. Keeping %d backups.\n", result.Kept)
		return nil
	}

	fmt.Fprintf(out, "Pruned %d backup(s), keeping %d, freed %s:\n", len(result.Deleted), result.Kept, formatSize(result.Freed))
	for _, b := range result.Deleted {
		fmt.Fprintf(out, "  - %s (%s)\n", b.ID, b.CreatedAt.Format(timeLayout))
	}
	return nil
}

// formatSize formats a byte size as a human-readable string.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
