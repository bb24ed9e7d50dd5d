// Package uniswapv3 integrates Uniswap V3 through QuoterV2 and SwapRouter02.
package uniswapv3

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fleshka4/polyswap/internal/apperrors"
	"github.com/fleshka4/polyswap/internal/chain"
	"github.com/fleshka4/polyswap/internal/contracts"
	"github.com/fleshka4/polyswap/internal/dex"
	"github.com/fleshka4/polyswap/internal/domain"
	"github.com/fleshka4/polyswap/internal/units"
)

// DefaultFeeTiers are the fee tiers of the canonical V3 factory, in hundredths
// of a bip.
var DefaultFeeTiers = []uint32{100, 500, 3000, 10000}

// Config describes one V3 deployment.
type Config struct {
	ID       string
	Router   common.Address
	Factory  common.Address
	Quoter   common.Address
	FeeTiers []uint32
}

// Adapter quotes every fee tier with an existing pool and swaps through the
// tier with the best output.
type Adapter struct {
	cfg    Config
	chain  chain.Chain
	tokens dex.TokenResolver
	logger *logrus.Logger
}

var _ dex.Backend = (*Adapter)(nil)

// New creates an Adapter.
func New(cfg Config, c chain.Chain, tokens dex.TokenResolver, logger *logrus.Logger) *Adapter {
	if len(cfg.FeeTiers) == 0 {
		cfg.FeeTiers = DefaultFeeTiers
	}

	return &Adapter{
		cfg:    cfg,
		chain:  c,
		tokens: tokens,
		logger: logger,
	}
}

func (a *Adapter) ID() string {
	return a.cfg.ID
}

func (a *Adapter) Spender() common.Address {
	return a.cfg.Router
}

// quoteParams mirrors IQuoterV2.QuoteExactInputSingleParams.
type quoteParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	AmountIn          *big.Int
	Fee               *big.Int
	SqrtPriceLimitX96 *big.Int
}

// exactInputSingleParams mirrors IV3SwapRouter.ExactInputSingleParams.
type exactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int
}

type tierResult struct {
	fee    uint32
	pool   common.Address
	amount *big.Int
	gas    uint64
	err    error
}

// Quote returns the best single pool output over the configured fee tiers.
func (a *Adapter) Quote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn string) (*domain.Quote, error) {
	in, err := dex.PrepareQuote(ctx, a.tokens, tokenIn, tokenOut, amountIn)
	if err != nil {
		return nil, err
	}

	results := make([]tierResult, len(a.cfg.FeeTiers))

	var wg sync.WaitGroup
	for i, fee := range a.cfg.FeeTiers {
		wg.Add(1)
		go func(i int, fee uint32) {
			defer wg.Done()
			results[i] = a.quoteTier(ctx, tokenIn, tokenOut, in.AmountInRaw, fee)
		}(i, fee)
	}
	wg.Wait()

	var (
		best *tierResult
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

	return &domain.Quote{
		Backend:      a.cfg.ID,
		TokenIn:      tokenIn,
		TokenOut:     tokenOut,
		AmountIn:     amountIn,
		AmountInRaw:  in.AmountInRaw,
		AmountOut:    units.FromBaseUnits(best.amount, in.DecimalsOut),
		AmountOutRaw: best.amount,
		PriceImpact:  a.priceImpact(ctx, best, tokenIn, in.AmountInRaw),
		GasEstimate:  best.gas,
		Route:        []common.Address{tokenIn, tokenOut},
		FeeTier:      best.fee,
	}, nil
}

func (a *Adapter) quoteTier(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int, fee uint32) tierResult {
	res := tierResult{fee: fee}
	feeArg := big.NewInt(int64(fee))

	out, err := a.call(ctx, contracts.UniswapV3Factory, a.cfg.Factory, "getPool", tokenIn, tokenOut, feeArg)
	if err != nil {
		res.err = errors.Wrapf(err, "getPool fee %d", fee)
		return res
	}
	pool, ok := out[0].(common.Address)
	if !ok {
		res.err = errors.New("failed to cast getPool result to address")
		return res
	}
	if pool == (common.Address{}) {
		res.err = errors.Wrapf(apperrors.ErrQuoteUnavailable, "no pool for fee %d", fee)
		return res
	}
	res.pool = pool

	out, err = a.call(ctx, contracts.UniswapV3QuoterV2, a.cfg.Quoter, "quoteExactInputSingle", quoteParams{
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		AmountIn:          amountIn,
		Fee:               feeArg,
		SqrtPriceLimitX96: new(big.Int),
	})
	if err != nil {
		res.err = errors.Wrapf(err, "quoteExactInputSingle fee %d", fee)
		return res
	}

	const outputs = 4
	if len(out) < outputs {
		res.err = errors.Errorf("insufficient outputs from quoteExactInputSingle: expected %d, got %d", outputs, len(out))
		return res
	}
	amount, ok := out[0].(*big.Int)
	if !ok {
		res.err = errors.New("failed to cast amountOut to *big.Int")
		return res
	}
	gas, ok := out[3].(*big.Int)
	if !ok {
		res.err = errors.New("failed to cast gasEstimate to *big.Int")
		return res
	}

	res.amount = amount
	res.gas = gas.Uint64()
	return res
}

// priceImpact compares the output with the pool's slot0 price. It is zero
// when the pool state cannot be read.
func (a *Adapter) priceImpact(ctx context.Context, r *tierResult, tokenIn common.Address, amountIn *big.Int) (impact decimal.Decimal) {
	log := a.logger.WithFields(logrus.Fields{"backend": a.cfg.ID, "pool": r.pool.Hex()})

	out, err := a.call(ctx, contracts.UniswapV3Pool, r.pool, "token0")
	if err != nil {
		log.WithError(err).Debug("price impact unavailable")
		return impact
	}
	token0, ok := out[0].(common.Address)
	if !ok {
		return impact
	}

	out, err = a.call(ctx, contracts.UniswapV3Pool, r.pool, "slot0")
	if err != nil {
		log.WithError(err).Debug("price impact unavailable")
		return impact
	}
	sqrtPrice, ok := out[0].(*big.Int)
	if !ok {
		return impact
	}

	mid := MidAmountOut(amountIn, sqrtPrice, token0 == tokenIn, r.fee)
	return PriceImpact(mid, r.amount)
}

func (a *Adapter) call(ctx context.Context, contract abi.ABI, to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contract.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrap(err, "contract.Pack")
	}

	res, err := a.chain.Call(ctx, to, data)
	if err != nil {
		return nil, errors.Wrap(err, "a.chain.Call")
	}

	out, err := contract.Unpack(method, res)
	if err != nil {
		return nil, errors.Wrap(err, "contract.Unpack")
	}
	if len(out) == 0 {
		return nil, errors.Errorf("%s returned no outputs", method)
	}

	return out, nil
}

// Swap executes exactInputSingle on the quoted fee tier wrapped in a
// deadline-checked multicall.
func (a *Adapter) Swap(ctx context.Context, params dex.SwapParams) domain.SwapReceipt {
	q := params.Quote

	decOut, err := a.tokens.Decimals(ctx, q.TokenOut)
	if err != nil {
		return dex.FailedReceipt(a.cfg.ID, q, domain.ReasonTransport, err)
	}

	single, err := contracts.UniswapV3Router.Pack("exactInputSingle", exactInputSingleParams{
		TokenIn:           q.TokenIn,
		TokenOut:          q.TokenOut,
		Fee:               big.NewInt(int64(q.FeeTier)),
		Recipient:         params.Request.Recipient,
		AmountIn:          q.AmountInRaw,
		AmountOutMinimum:  params.MinAmountOut,
		SqrtPriceLimitX96: new(big.Int),
	})
	if err != nil {
		return dex.FailedReceipt(a.cfg.ID, q, domain.ReasonInvalidRequest, errors.Wrap(err, "contracts.UniswapV3Router.Pack"))
	}

	data, err := contracts.UniswapV3Router.Pack("multicall", big.NewInt(params.Deadline.Unix()), [][]byte{single})
	if err != nil {
		return dex.FailedReceipt(a.cfg.ID, q, domain.ReasonInvalidRequest, errors.Wrap(err, "contracts.UniswapV3Router.Pack"))
	}

	return dex.Execute(ctx, a.chain, dex.Execution{
		Backend:     a.cfg.ID,
		Router:      a.cfg.Router,
		Data:        data,
		Params:      params,
		DecimalsOut: decOut,
	}, a.logger)
}
