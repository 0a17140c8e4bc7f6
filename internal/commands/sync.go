// internal/commands/sync.go
package benchdash

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/solverlab/benchdash/internal/syncjob"
)

var okCount = color.New(color.FgGreen).SprintFunc()
var badCount = color.New(color.FgRed).SprintFunc()

// syncCmd mirrors the benchmark result trees into the servable data
// directory, rewrites each class manifest, and refreshes the badge files.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror benchmark results and refresh manifests and badges",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		report, err := syncjob.Run(cmd.Context(), cfg, time.Now().UTC())
		if err != nil {
			return err
		}
		if DebugEnabled() {
			pp.Println(report)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "files copied:      %s\n", okCount(report.FilesCopied))
		if report.FilesInvalid > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "files invalid:     %s\n", badCount(report.FilesInvalid))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "manifests written: %s\n", okCount(report.ManifestsWritten))
		fmt.Fprintf(cmd.OutOrStdout(), "badges fetched:    %s\n", okCount(report.BadgesFetched))
		if report.BadgesPlaceholder > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "badge placeholders: %s\n", badCount(report.BadgesPlaceholder))
		}
		return nil
	},
}

// syncCronCmd installs the sync as a nightly crontab entry.
var syncCronCmd = &cobra.Command{
	Use:   "cron",
	Short: "Install the nightly sync crontab entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		schedule, _ := cmd.Flags().GetString("schedule")

		binary, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve binary path: %w", err)
		}

		if err := syncjob.InstallCron(schedule, binary, GetConfig().ConfigPath); err != nil {
			return err
		}
		log.Printf("cron entry: %s", syncjob.CronLine(schedule, binary, GetConfig().ConfigPath))
		return nil
	},
}

func init() {
	syncCronCmd.Flags().String("schedule", "", "cron schedule (default \""+syncjob.DefaultSchedule+"\")")
	syncCmd.AddCommand(syncCronCmd)
	rootCmd.AddCommand(syncCmd)
}
