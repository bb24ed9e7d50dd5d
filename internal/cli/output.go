package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/fleshka4/polyswap/internal/aggregator"
	"github.com/fleshka4/polyswap/internal/domain"
)

const rule = 60

// startSpinner returns a stop func. Nothing is drawn in JSON mode.
func startSpinner(quiet bool, suffix string) func() {
	if quiet {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + suffix
	s.Start()
	return s.Stop
}

func displayQuote(w io.Writer, q *domain.Quote, in, out string) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", rule))
	fmt.Fprintln(w, color.GreenString("                      BEST QUOTE"))
	fmt.Fprintln(w, strings.Repeat("=", rule))

	fmt.Fprintf(w, "\n  Backend:       %s\n", color.CyanString(q.Backend))
	fmt.Fprintf(w, "  From:          %s %s\n", q.AmountIn, color.YellowString(in))
	fmt.Fprintf(w, "  To:            ~%s %s\n", q.AmountOut, color.YellowString(out))
	fmt.Fprintf(w, "  Price impact:  %s%%\n", q.PriceImpact.String())
	fmt.Fprintf(w, "  Gas estimate:  %d\n", q.GasEstimate)
	if q.FeeTier != 0 {
		fmt.Fprintf(w, "  Fee tier:      %d\n", q.FeeTier)
	}
	fmt.Fprintf(w, "  Route:         %d hop(s)\n", len(q.Route)-1)

	fmt.Fprintln(w, "\n"+strings.Repeat("=", rule)+"\n")
}

func displayResults(w io.Writer, results []aggregator.Result, out string) {
	fmt.Fprintln(w)
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "  %-16s %s\n", r.Backend, color.RedString(r.Err.Error()))
			continue
		}
		fmt.Fprintf(w, "  %-16s %s %s  %s\n",
			r.Backend, r.Quote.AmountOut, color.YellowString(out), color.HiBlackString(r.Duration.Round(time.Millisecond).String()))
	}
	fmt.Fprintln(w)
}

func displayReceipt(w io.Writer, r domain.SwapReceipt, out string) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", rule))
	if r.Success {
		fmt.Fprintln(w, color.GreenString("                    SWAP CONFIRMED"))
	} else {
		fmt.Fprintln(w, color.RedString("                     SWAP FAILED"))
	}
	fmt.Fprintln(w, strings.Repeat("=", rule))

	fmt.Fprintf(w, "\n  State:         %s\n", r.State)
	if r.Backend != "" {
		fmt.Fprintf(w, "  Backend:       %s\n", color.CyanString(r.Backend))
	}
	if r.TxHash != "" {
		fmt.Fprintf(w, "  Tx hash:       %s\n", color.CyanString(r.TxHash))
	}
	if r.AmountOut != "" {
		fmt.Fprintf(w, "  Received:      %s %s\n", r.AmountOut, color.YellowString(out))
	}
	if r.MinAmountOut != "" {
		fmt.Fprintf(w, "  Min output:    %s %s\n", r.MinAmountOut, color.YellowString(out))
	}
	if r.GasUsed != 0 {
		fmt.Fprintf(w, "  Gas used:      %d (block %d)\n", r.GasUsed, r.BlockNumber)
	}
	if r.Reason != domain.ReasonNone {
		fmt.Fprintf(w, "  Reason:        %s\n", color.RedString(string(r.Reason)))
	}
	if r.Error != "" {
		fmt.Fprintf(w, "  Error:         %s\n", r.Error)
	}
	if r.PendingTxHash != "" {
		fmt.Fprintf(w, "  Pending tx:    %s\n", color.YellowString(r.PendingTxHash))
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", rule)+"\n")
}

func confirm(r io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprintf(w, "\n%s (y/N): ", prompt)

	response, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
