// internal/commands/serve.go
package benchdash

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/solverlab/benchdash/internal/dashboard"
)

// serveCmd runs the dashboard HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the benchmark dashboard over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			cfg.Listen = listen
		}
		log.Printf("serving dashboard on %s", cfg.ListenAddr())
		return dashboard.New(cfg).ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (e.g., :8080)")
	_ = viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
	rootCmd.AddCommand(serveCmd)
}
