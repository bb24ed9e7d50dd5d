// Package uniswapv2 integrates Uniswap V2 style routers such as QuickSwap and
// SushiSwap.
package uniswapv2

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fleshka4/polyswap/internal/chain"
	"github.com/fleshka4/polyswap/internal/contracts"
	"github.com/fleshka4/polyswap/internal/dex"
	"github.com/fleshka4/polyswap/internal/domain"
	"github.com/fleshka4/polyswap/internal/units"
)

// DefaultGasPerHop is the gas estimate of a single hop swap.
const DefaultGasPerHop = 120000

// Config describes one V2 deployment.
type Config struct {
	ID      string
	Router  common.Address
	Factory common.Address

	// Intermediates are tried as the middle token of two hop routes.
	Intermediates []common.Address

	// GasPerHop is the gas of a one hop swap, each extra hop adds half of it.
	GasPerHop uint64
}

// Adapter quotes through the router's getAmountsOut and swaps with
// swapExactTokensForTokens.
type Adapter struct {
	cfg    Config
	chain  chain.Chain
	tokens dex.TokenResolver
	pairs  *PairReader
	logger *logrus.Logger
}

var _ dex.Backend = (*Adapter)(nil)

// New creates an Adapter.
func New(cfg Config, c chain.Chain, tokens dex.TokenResolver, logger *logrus.Logger) *Adapter {
	if cfg.GasPerHop == 0 {
		cfg.GasPerHop = DefaultGasPerHop
	}

	return &Adapter{
		cfg:    cfg,
		chain:  c,
		tokens: tokens,
		pairs:  NewPairReader(c, cfg.Factory),
		logger: logger,
	}
}

func (a *Adapter) ID() string {
	return a.cfg.ID
}

func (a *Adapter) Spender() common.Address {
	return a.cfg.Router
}

type pathResult struct {
	path   []common.Address
	amount *big.Int
	err    error
}

// Quote returns the best output over the direct path and every configured
// two hop path.
func (a *Adapter) Quote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn string) (*domain.Quote, error) {
	in, err := dex.PrepareQuote(ctx, a.tokens, tokenIn, tokenOut, amountIn)
	if err != nil {
		return nil, err
	}
	rawIn := in.AmountInRaw

	paths := a.candidatePaths(tokenIn, tokenOut)
	results := make([]pathResult, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path []common.Address) {
			defer wg.Done()
			amount, err := a.amountOut(ctx, rawIn, path)
			results[i] = pathResult{path: path, amount: amount, err: err}
		}(i, path)
	}
	wg.Wait()

	var (
		best *pathResult
		errs []error
	)
	for i := range results {
		r := &results[i]
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		if r.amount.Sign() <= 0 {
			continue
		}
		if best == nil || r.amount.Cmp(best.amount) > 0 {
			best = r
		}
	}
	if best == nil {
		return nil, dex.NoRouteError(a.cfg.ID, errs)
	}

	hops := uint64(len(best.path) - 1)

	return &domain.Quote{
		Backend:      a.cfg.ID,
		TokenIn:      tokenIn,
		TokenOut:     tokenOut,
		AmountIn:     amountIn,
		AmountInRaw:  rawIn,
		AmountOut:    units.FromBaseUnits(best.amount, in.DecimalsOut),
		AmountOutRaw: best.amount,
		PriceImpact:  PriceImpact(rawIn, a.hopReserves(ctx, best.path)),
		GasEstimate:  a.cfg.GasPerHop + (hops-1)*a.cfg.GasPerHop/2,
		Route:        best.path,
	}, nil
}

func (a *Adapter) candidatePaths(tokenIn, tokenOut common.Address) [][]common.Address {
	paths := [][]common.Address{{tokenIn, tokenOut}}
	for _, mid := range a.cfg.Intermediates {
		if mid == tokenIn || mid == tokenOut {
			continue
		}
		paths = append(paths, []common.Address{tokenIn, mid, tokenOut})
	}
	return paths
}

func (a *Adapter) amountOut(ctx context.Context, amountIn *big.Int, path []common.Address) (*big.Int, error) {
	data, err := contracts.UniswapV2Router.Pack("getAmountsOut", amountIn, path)
	if err != nil {
		return nil, errors.Wrap(err, "contracts.UniswapV2Router.Pack")
	}

	res, err := a.chain.Call(ctx, a.cfg.Router, data)
	if err != nil {
		return nil, errors.Wrap(err, "getAmountsOut")
	}

	out, err := contracts.UniswapV2Router.Unpack("getAmountsOut", res)
	if err != nil {
		return nil, errors.Wrap(err, "contracts.UniswapV2Router.Unpack")
	}

	amounts, ok := out[0].([]*big.Int)
	if !ok || len(amounts) != len(path) {
		return nil, errors.New("unexpected getAmountsOut result")
	}

	return amounts[len(amounts)-1], nil
}

// hopReserves returns nil when any hop cannot be read, which yields a zero
// price impact.
func (a *Adapter) hopReserves(ctx context.Context, path []common.Address) []Reserves {
	hops := make([]Reserves, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		r, err := a.pairs.HopReserves(ctx, path[i], path[i+1])
		if err != nil {
			a.logger.WithError(err).WithField("backend", a.cfg.ID).Debug("price impact unavailable")
			return nil
		}
		hops = append(hops, r)
	}
	return hops
}

// Swap executes swapExactTokensForTokens along the quoted route.
func (a *Adapter) Swap(ctx context.Context, params dex.SwapParams) domain.SwapReceipt {
	q := params.Quote

	decOut, err := a.tokens.Decimals(ctx, q.TokenOut)
	if err != nil {
		return dex.FailedReceipt(a.cfg.ID, q, domain.ReasonTransport, err)
	}

	data, err := contracts.UniswapV2Router.Pack(
		"swapExactTokensForTokens",
		q.AmountInRaw,
		params.MinAmountOut,
		q.Route,
		params.Request.Recipient,
		big.NewInt(params.Deadline.Unix()),
	)
	if err != nil {
		return dex.FailedReceipt(a.cfg.ID, q, domain.ReasonInvalidRequest, errors.Wrap(err, "contracts.UniswapV2Router.Pack"))
	}

	return dex.Execute(ctx, a.chain, dex.Execution{
		Backend:     a.cfg.ID,
		Router:      a.cfg.Router,
		Data:        data,
		Params:      params,
		DecimalsOut: decOut,
	}, a.logger)
}
