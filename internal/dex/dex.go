// Package dex defines the capability every integrated DEX backend provides.
package dex

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fleshka4/polyswap/internal/domain"
)

//go:generate mockgen -source=dex.go -destination=mock/backend.go -package=mock

// Backend quotes and executes exact-input swaps on one DEX deployment.
type Backend interface {
	// ID is the stable backend identifier reported in quotes and receipts.
	ID() string

	// Spender is the contract that pulls the input token during a swap.
	Spender() common.Address

	// Quote estimates the output for amountIn (human readable) of tokenIn.
	Quote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn string) (*domain.Quote, error)

	// Swap executes the quoted swap. Failures are reported in the receipt.
	Swap(ctx context.Context, params SwapParams) domain.SwapReceipt
}

// SwapParams is everything a backend needs to execute a swap. Quote must come
// from the same orchestration pass.
type SwapParams struct {
	Request      domain.SwapRequest
	Quote        *domain.Quote
	MinAmountOut *big.Int
	Deadline     time.Time
}
