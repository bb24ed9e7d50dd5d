// Package cli implements the polyswap command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fleshka4/polyswap/internal/app"
	"github.com/fleshka4/polyswap/internal/config"
	"github.com/fleshka4/polyswap/internal/logger"
)

const defaultConfigPath = "cfg/config.yaml"

var rootCmd = &cobra.Command{
	Use:   "polyswap",
	Short: "Best-price token swaps across Polygon DEXes",
	Long: `polyswap quotes a swap on every configured DEX, picks the best output and
executes it from the configured wallet.

Examples:
  polyswap quote 100 USDC WMATIC
  polyswap quote 100 USDC to WMATIC --all
  polyswap swap 100 USDC to WMATIC --slippage 0.5
  polyswap tokens
  polyswap serve`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	rootCmd.PersistentFlags().StringP("config", "c", path, "Path to the YAML config (env CONFIG_PATH)")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func loadApp(cmd *cobra.Command) (*app.App, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, errors.Wrap(err, "config.Load")
	}

	l, err := logger.New(cfg.Log)
	if err != nil {
		return nil, errors.Wrap(err, "logger.New")
	}

	return app.New(cfg, l)
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "json.MarshalIndent")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
