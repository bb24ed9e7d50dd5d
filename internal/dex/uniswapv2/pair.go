package uniswapv2

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/fleshka4/polyswap/internal/chain"
	"github.com/fleshka4/polyswap/internal/contracts"
)

var errNoPair = errors.New("pair does not exist")

// PairReader reads pair addresses, tokens and reserves of a V2 factory.
type PairReader struct {
	caller  chain.Caller
	factory common.Address
}

// NewPairReader creates a PairReader for the given factory.
func NewPairReader(caller chain.Caller, factory common.Address) *PairReader {
	return &PairReader{
		caller:  caller,
		factory: factory,
	}
}

func (p *PairReader) call(ctx context.Context, contract abi.ABI, to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contract.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrap(err, "contract.Pack")
	}

	res, err := p.caller.Call(ctx, to, data)
	if err != nil {
		return nil, errors.Wrap(err, "p.caller.Call")
	}

	out, err := contract.Unpack(method, res)
	if err != nil {
		return nil, errors.Wrap(err, "contract.Unpack")
	}

	return out, nil
}

// GetPair returns the pair of tokenA and tokenB, or errNoPair.
func (p *PairReader) GetPair(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error) {
	out, err := p.call(ctx, contracts.UniswapV2Factory, p.factory, "getPair", tokenA, tokenB)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "p.call")
	}

	pair, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, errors.New("failed to cast getPair result to address")
	}
	if pair == (common.Address{}) {
		return common.Address{}, errNoPair
	}

	return pair, nil
}

// PairTokens returns the addresses of token0 and token1 for a given pair contract.
func (p *PairReader) PairTokens(ctx context.Context, pair common.Address) (common.Address, common.Address, error) {
	const (
		numTokens    = 2
		token0Method = "token0"
		token1Method = "token1"
	)

	type tokenResult struct {
		token common.Address
		err   error
		name  string
	}

	var wg sync.WaitGroup
	ch := make(chan tokenResult, numTokens)

	getToken := func(method string) {
		defer wg.Done()

		out, err := p.call(ctx, contracts.UniswapV2Pair, pair, method)
		if err != nil {
			ch <- tokenResult{err: errors.Wrapf(err, "failed to call %s", method)}
			return
		}

		addr, ok := out[0].(common.Address)
		if !ok {
			ch <- tokenResult{err: errors.Errorf("failed to cast %s result to address", method)}
			return
		}

		ch <- tokenResult{token: addr, name: method}
	}

	wg.Add(numTokens)
	go getToken(token0Method)
	go getToken(token1Method)

	go func() {
		wg.Wait()
		close(ch)
	}()

	var (
		token0, token1 common.Address
		combinedErr    error
	)

	for result := range ch {
		if result.err != nil {
			combinedErr = multierr.Append(combinedErr, result.err)
			continue
		}

		switch result.name {
		case token0Method:
			token0 = result.token
		case token1Method:
			token1 = result.token
		}
	}

	if combinedErr != nil {
		return common.Address{}, common.Address{}, errors.Wrap(combinedErr, "failed to get pair tokens")
	}

	return token0, token1, nil
}

// PairReserves returns the current reserves of token0 and token1 for a given pair contract.
func (p *PairReader) PairReserves(ctx context.Context, pair common.Address) (*big.Int, *big.Int, error) {
	out, err := p.call(ctx, contracts.UniswapV2Pair, pair, "getReserves")
	if err != nil {
		return nil, nil, errors.Wrap(err, "p.call")
	}

	const requiredSize = 2
	if len(out) < requiredSize {
		return nil, nil, errors.Errorf("insufficient outputs from getReserves call: expected %d, got %d", requiredSize, len(out))
	}

	reserves := make([]*big.Int, requiredSize)
	reserveNames := []string{"reserve0", "reserve1"}

	for i := 0; i < requiredSize; i++ {
		reserve, ok := out[i].(*big.Int)
		if !ok {
			return nil, nil, errors.Errorf("failed to cast %s to *big.Int", reserveNames[i])
		}
		reserves[i] = reserve
	}

	return reserves[0], reserves[1], nil
}

// HopReserves returns the reserves of the tokenIn/tokenOut pair oriented in
// the swap direction.
func (p *PairReader) HopReserves(ctx context.Context, tokenIn, tokenOut common.Address) (Reserves, error) {
	pair, err := p.GetPair(ctx, tokenIn, tokenOut)
	if err != nil {
		return Reserves{}, err
	}

	token0, token1, err := p.PairTokens(ctx, pair)
	if err != nil {
		return Reserves{}, err
	}

	r0, r1, err := p.PairReserves(ctx, pair)
	if err != nil {
		return Reserves{}, err
	}

	switch {
	case token0 == tokenIn && token1 == tokenOut:
		return Reserves{In: r0, Out: r1}, nil
	case token1 == tokenIn && token0 == tokenOut:
		return Reserves{In: r1, Out: r0}, nil
	default:
		return Reserves{}, errors.Errorf("pair %s does not trade %s/%s", pair.Hex(), tokenIn.Hex(), tokenOut.Hex())
	}
}
