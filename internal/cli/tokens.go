package cli

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fleshka4/polyswap/internal/units"
)

const (
	// Concurrent metadata reads per tokens invocation.
	tokenReadLimit = 8

	nativeDecimals = 18
)

type tokenRow struct {
	Name     string         `json:"name"`
	Address  common.Address `json:"address"`
	Symbol   string         `json:"symbol"`
	Decimals uint8          `json:"decimals"`
	Balance  string         `json:"balance,omitempty"`
	Native   bool           `json:"native,omitempty"`
}

// tokenReader is the subset of the token resolver the tokens command needs.
type tokenReader interface {
	Decimals(ctx context.Context, token common.Address) (uint8, error)
	Symbol(ctx context.Context, token common.Address) (string, error)
	BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error)
}

type nativeBalancer interface {
	NativeBalance(ctx context.Context) (*big.Int, error)
}

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List configured tokens with on-chain metadata and wallet balances",
	Args:  cobra.NoArgs,
	RunE:  runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	asJSON := jsonOutput(cmd)

	stop := startSpinner(asJSON, "Reading tokens...")
	rows, err := readTokens(cmd.Context(), a.Tokens, a.Config.TokenAddresses(), a.Chain.Address())
	if err == nil && a.Chain.Address() != (common.Address{}) {
		var native tokenRow
		native, err = readNative(cmd.Context(), a.Chain, a.Config.NativeSymbol)
		rows = append([]tokenRow{native}, rows...)
	}
	stop()
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(cmd.OutOrStdout(), rows)
	}
	displayTokens(cmd.OutOrStdout(), rows)
	return nil
}

// readTokens returns one row per token sorted by name. Balances are read only
// when owner is set.
func readTokens(ctx context.Context, r tokenReader, tokens map[string]common.Address, owner common.Address) ([]tokenRow, error) {
	names := make([]string, 0, len(tokens))
	for name := range tokens {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]tokenRow, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(tokenReadLimit)

	for i, name := range names {
		addr := tokens[name]
		g.Go(func() error {
			row := tokenRow{Name: name, Address: addr}

			symbol, err := r.Symbol(ctx, addr)
			if err != nil {
				return err
			}
			row.Symbol = symbol

			decimals, err := r.Decimals(ctx, addr)
			if err != nil {
				return err
			}
			row.Decimals = decimals

			if owner != (common.Address{}) {
				balance, err := r.BalanceOf(ctx, addr, owner)
				if err != nil {
					return err
				}
				row.Balance = units.FromBaseUnits(balance, decimals)
			}

			rows[i] = row
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return rows, nil
}

// readNative reads the wallet's gas token balance, which every swap and
// approval spends.
func readNative(ctx context.Context, n nativeBalancer, symbol string) (tokenRow, error) {
	balance, err := n.NativeBalance(ctx)
	if err != nil {
		return tokenRow{}, errors.Wrap(err, "native balance")
	}

	return tokenRow{
		Name:     symbol,
		Symbol:   symbol,
		Decimals: nativeDecimals,
		Balance:  units.FromBaseUnits(balance, nativeDecimals),
		Native:   true,
	}, nil
}

func displayTokens(w io.Writer, rows []tokenRow) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", rule))
	fmt.Fprintln(w, color.GreenString("                        TOKENS"))
	fmt.Fprintln(w, strings.Repeat("=", rule))
	fmt.Fprintln(w)

	for _, row := range rows {
		addr := row.Address.Hex()
		if row.Native {
			addr = "native"
		}
		fmt.Fprintf(w, "  %-8s %-44s %3d", color.YellowString(row.Name), color.CyanString(addr), row.Decimals)
		if row.Balance != "" {
			fmt.Fprintf(w, "  %s", row.Balance)
		}
		if !strings.EqualFold(row.Name, row.Symbol) {
			fmt.Fprintf(w, "  (%s)", row.Symbol)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", rule)+"\n")
}
