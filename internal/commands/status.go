// internal/commands/status.go
package benchdash

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/solverlab/benchdash/internal/ghstatus"
	"github.com/solverlab/benchdash/internal/tui"
	"github.com/solverlab/benchdash/internal/util"
)

var passCell = color.New(color.FgGreen).SprintFunc()
var failCell = color.New(color.FgRed).SprintFunc()
var pendCell = color.New(color.FgYellow).SprintFunc()

// statusCmd prints the pull-request status matrix once, or keeps it on
// screen with --watch.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show CI status for open pull requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			return tui.Watch(cmd.Context(), cfg)
		}

		gh := cfg.GitHub
		client := ghstatus.NewClient(gh.APIBase, gh.Token, cfg.RequestTimeout())
		matrix, err := ghstatus.BuildMatrix(cmd.Context(), client, gh.Owner, gh.Repo,
			gh.StatusDelay(), gh.DocsColumnPattern())
		if err != nil {
			return err
		}
		if DebugEnabled() {
			pp.Println(matrix.Columns)
		}

		if len(matrix.Rows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No open pull requests.")
			return nil
		}
		printMatrix(cmd, matrix)
		return nil
	},
}

func printMatrix(cmd *cobra.Command, matrix ghstatus.Matrix) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%-6s %-40s", "PR", "Title")
	for _, col := range matrix.Columns {
		fmt.Fprintf(out, " %s", util.TruncateRunes(col.Name, 14))
	}
	fmt.Fprintln(out)

	for _, row := range matrix.Rows {
		fmt.Fprintf(out, "#%-5d %-40s", row.PR.Number, util.TruncateRunes(row.PR.Title, 40))
		for _, col := range matrix.Columns {
			width := len([]rune(util.TruncateRunes(col.Name, 14))) + 1
			fmt.Fprintf(out, "%*s", width, cellText(row.State(col)))
		}
		fmt.Fprintln(out)
	}
}

func cellText(s ghstatus.State) string {
	switch s {
	case ghstatus.StateSuccess:
		return passCell(s.Label())
	case ghstatus.StateFailure, ghstatus.StateError:
		return failCell(s.Label())
	case ghstatus.StatePending:
		return pendCell(s.Label())
	default:
		return s.Label()
	}
}

func init() {
	statusCmd.Flags().Bool("watch", false, "keep the matrix on screen and refresh it periodically")
	rootCmd.AddCommand(statusCmd)
}
