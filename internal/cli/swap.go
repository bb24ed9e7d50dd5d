package cli

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/fleshka4/polyswap/internal/domain"
	"github.com/fleshka4/polyswap/internal/service/dto"
)

type swapFlags struct {
	recipient string
	slippage  string
	deadline  time.Duration
	noConfirm bool
}

var swapOpts swapFlags

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <token-in> [to] <token-out>",
	Short: "Swap through the DEX with the best quote",
	Long: `Quote every configured DEX, approve the winner's router if needed and swap.
The signing key is read from POLYSWAP_PRIVATE_KEY.

Examples:
  polyswap swap 100 USDC to WMATIC
  polyswap swap 100 USDC WMATIC --slippage 1 --deadline 5m --recipient 0x...
  polyswap swap 100 USDC WMATIC --yes`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().StringVar(&swapOpts.recipient, "recipient", "", "Recipient address (defaults to the wallet)")
	swapCmd.Flags().StringVar(&swapOpts.slippage, "slippage", "", "Slippage tolerance in percent (defaults to config)")
	swapCmd.Flags().DurationVar(&swapOpts.deadline, "deadline", 0, "Deadline relative to now (defaults to config)")
	swapCmd.Flags().BoolVarP(&swapOpts.noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runSwap(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	t, err := parseTrade(args, a.Config.TokenAddresses())
	if err != nil {
		return err
	}

	req, err := swapRequest(t, swapOpts, a.Chain.Address(), a.Service.DefaultSlippage(), time.Now())
	if err != nil {
		return err
	}

	asJSON := jsonOutput(cmd)
	w := cmd.OutOrStdout()

	if !swapOpts.noConfirm && !asJSON {
		stop := startSpinner(false, "Fetching quote...")
		q, err := a.Service.RequestBestQuote(cmd.Context(), dto.QuoteRequest{
			TokenIn:  t.tokenIn,
			TokenOut: t.tokenOut,
			AmountIn: t.amount,
		})
		stop()
		if err != nil {
			return err
		}

		displayQuote(w, q, t.in, t.out)
		fmt.Fprintf(w, "  Slippage:      %s%%\n", req.SlippageTolerance.String())
		fmt.Fprintf(w, "  Recipient:     %s\n", color.CyanString(req.Recipient.Hex()))

		if !confirm(cmd.InOrStdin(), w, "Proceed with swap?") {
			fmt.Fprintln(w, "\nSwap cancelled.")
			return nil
		}
	}

	stop := startSpinner(asJSON, "Swapping...")
	receipt := a.Service.ExecuteSwap(cmd.Context(), req)
	stop()

	if asJSON {
		if err := printJSON(w, receipt); err != nil {
			return err
		}
	} else {
		displayReceipt(w, receipt, t.out)
	}

	if !receipt.Success {
		return errors.Errorf("swap %s: %s", receipt.State, receipt.Reason)
	}
	return nil
}

// swapRequest applies flag defaults. The recipient falls back to the wallet.
func swapRequest(t trade, f swapFlags, wallet common.Address, defaultSlippage decimal.Decimal, now time.Time) (domain.SwapRequest, error) {
	recipient := wallet
	if f.recipient != "" {
		if !common.IsHexAddress(f.recipient) {
			return domain.SwapRequest{}, errors.Errorf("bad recipient address %q", f.recipient)
		}
		recipient = common.HexToAddress(f.recipient)
	}
	if recipient == (common.Address{}) {
		return domain.SwapRequest{}, errors.New("no recipient: pass --recipient or configure a signing key")
	}

	slippage := defaultSlippage
	if f.slippage != "" {
		var err error
		slippage, err = decimal.NewFromString(f.slippage)
		if err != nil {
			return domain.SwapRequest{}, errors.Errorf("bad slippage %q", f.slippage)
		}
	}

	var deadline time.Time
	if f.deadline > 0 {
		deadline = now.Add(f.deadline)
	}

	return domain.SwapRequest{
		TokenIn:           t.tokenIn,
		TokenOut:          t.tokenOut,
		AmountIn:          t.amount,
		SlippageTolerance: slippage,
		Recipient:         recipient,
		Deadline:          deadline,
	}, nil
}
