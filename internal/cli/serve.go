package cli

import (
	"github.com/spf13/cobra"

	transport "github.com/fleshka4/polyswap/internal/transport/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	srv := transport.NewServer(a.Service, a.Config, a.Logger)
	return srv.ListenAndServe(cmd.Context(), a.Config.ListenAddr)
}
