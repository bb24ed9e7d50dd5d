package cli

import (
	"github.com/spf13/cobra"

	"github.com/fleshka4/polyswap/internal/service/dto"
	httpdto "github.com/fleshka4/polyswap/internal/transport/http/dto"
)

var quoteAll bool

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <token-in> [to] <token-out>",
	Short: "Show the best quote without swapping",
	Long: `Quote an exact input amount on every configured DEX. Tokens are configured
symbols or addresses.

Examples:
  polyswap quote 100 USDC WMATIC
  polyswap quote 0.5 WETH to USDC --all`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().BoolVarP(&quoteAll, "all", "a", false, "Show every backend's result")
}

func runQuote(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	t, err := parseTrade(args, a.Config.TokenAddresses())
	if err != nil {
		return err
	}
	req := dto.QuoteRequest{TokenIn: t.tokenIn, TokenOut: t.tokenOut, AmountIn: t.amount}

	asJSON := jsonOutput(cmd)
	w := cmd.OutOrStdout()

	if quoteAll {
		stop := startSpinner(asJSON, "Fetching quotes...")
		results, err := a.Service.Quotes(cmd.Context(), req)
		stop()
		if err != nil {
			return err
		}

		if asJSON {
			out := make([]httpdto.QuoteResult, 0, len(results))
			for _, r := range results {
				qr := httpdto.QuoteResult{Backend: r.Backend, Quote: r.Quote, DurationMs: r.Duration.Milliseconds()}
				if r.Err != nil {
					qr.Error = r.Err.Error()
				}
				out = append(out, qr)
			}
			return printJSON(w, out)
		}
		displayResults(w, results, t.out)
		return nil
	}

	stop := startSpinner(asJSON, "Fetching quote...")
	q, err := a.Service.RequestBestQuote(cmd.Context(), req)
	stop()
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(w, q)
	}
	displayQuote(w, q, t.in, t.out)
	return nil
}
