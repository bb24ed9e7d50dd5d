// Package tokens resolves ERC20 metadata and caches it for the process lifetime.
package tokens

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"

	"github.com/fleshka4/polyswap/internal/apperrors"
	"github.com/fleshka4/polyswap/internal/chain"
	"github.com/fleshka4/polyswap/internal/contracts"
)

// Resolver reads token decimals and symbols. Concurrent lookups of the same
// uncached token share a single remote read. Failures are not cached.
type Resolver struct {
	caller chain.Caller

	mu       sync.RWMutex
	decimals map[common.Address]uint8
	symbols  map[common.Address]string

	group singleflight.Group
}

// NewResolver creates a Resolver reading through caller.
func NewResolver(caller chain.Caller) *Resolver {
	return &Resolver{
		caller:   caller,
		decimals: make(map[common.Address]uint8),
		symbols:  make(map[common.Address]string),
	}
}

// Decimals returns the token's decimal count.
func (r *Resolver) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	r.mu.RLock()
	d, ok := r.decimals[token]
	r.mu.RUnlock()
	if ok {
		return d, nil
	}

	v, err := r.shared(ctx, "decimals:"+token.Hex(), func(ctx context.Context) (interface{}, error) {
		out, err := r.call(ctx, token, "decimals")
		if err != nil {
			return nil, err
		}
		d, ok := out[0].(uint8)
		if !ok {
			return nil, errors.Wrapf(apperrors.ErrMetadataUnavailable, "token %s: failed to cast decimals", token.Hex())
		}

		r.mu.Lock()
		r.decimals[token] = d
		r.mu.Unlock()

		return d, nil
	})
	if err != nil {
		return 0, err
	}

	return v.(uint8), nil
}

// Symbol returns the token's symbol.
func (r *Resolver) Symbol(ctx context.Context, token common.Address) (string, error) {
	r.mu.RLock()
	s, ok := r.symbols[token]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}

	v, err := r.shared(ctx, "symbol:"+token.Hex(), func(ctx context.Context) (interface{}, error) {
		out, err := r.call(ctx, token, "symbol")
		if err != nil {
			return nil, err
		}
		s, ok := out[0].(string)
		if !ok {
			return nil, errors.Wrapf(apperrors.ErrMetadataUnavailable, "token %s: failed to cast symbol", token.Hex())
		}

		r.mu.Lock()
		r.symbols[token] = s
		r.mu.Unlock()

		return s, nil
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

// BalanceOf returns owner's balance of token in base units. Balances are never
// cached.
func (r *Resolver) BalanceOf(ctx context.Context, token, owner common.Address) (*big.Int, error) {
	out, err := r.call(ctx, token, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrMetadataUnavailable, "token %s: failed to cast balance", token.Hex())
	}
	return balance, nil
}

// shared runs read once per key across concurrent callers. The read itself is
// detached from any single caller, each caller stops waiting when its own ctx
// is done.
func (r *Resolver) shared(ctx context.Context, key string, read func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	detached := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (interface{}, error) {
		return read(detached)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, multierr.Append(errors.Wrap(apperrors.ErrMetadataUnavailable, key), ctx.Err())
	}
}

func (r *Resolver) call(ctx context.Context, token common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contracts.ERC20.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrap(err, "contracts.ERC20.Pack")
	}

	res, err := r.caller.Call(ctx, token, data)
	if err != nil {
		return nil, errors.Wrapf(apperrors.ErrMetadataUnavailable, "token %s: %s: %v", token.Hex(), method, err)
	}

	out, err := contracts.ERC20.Unpack(method, res)
	if err != nil || len(out) == 0 {
		return nil, errors.Wrapf(apperrors.ErrMetadataUnavailable, "token %s: %s: unexpected result", token.Hex(), method)
	}

	return out, nil
}
