// internal/commands/render.go
package benchdash

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/solverlab/benchdash/internal/dashboard"
)

// renderCmd writes the dashboard pages out as static HTML files.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the dashboard pages to static HTML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		outDir := cfg.OutputDirPath()
		if out, _ := cmd.Flags().GetString("output"); out != "" {
			outDir = out
		}

		if err := dashboard.New(cfg).RenderStatic(cmd.Context(), outDir); err != nil {
			return err
		}
		log.Printf("static dashboard written to %s", outDir)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringP("output", "o", "", "output directory for the rendered pages")
	rootCmd.AddCommand(renderCmd)
}
