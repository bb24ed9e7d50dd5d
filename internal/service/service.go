package service

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fleshka4/polyswap/internal/aggregator"
	"github.com/fleshka4/polyswap/internal/dex"
	"github.com/fleshka4/polyswap/internal/domain"
	"github.com/fleshka4/polyswap/internal/service/dto"
)

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock

// Service represents interface for business logic.
type Service interface {
	// RequestBestQuote returns the best quote across all backends.
	RequestBestQuote(ctx context.Context, req dto.QuoteRequest) (*domain.Quote, error)

	// Quotes returns every backend's quote or error in priority order.
	Quotes(ctx context.Context, req dto.QuoteRequest) ([]aggregator.Result, error)

	// ExecuteSwap quotes, approves and swaps. It never returns an error, the
	// receipt reports the state reached.
	ExecuteSwap(ctx context.Context, req domain.SwapRequest) domain.SwapReceipt

	// DefaultSlippage is the tolerance applied when the caller gives none.
	DefaultSlippage() decimal.Decimal
}

// Aggregator ranks backend quotes.
type Aggregator interface {
	BestQuote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn string) (*domain.Quote, error)
	Quotes(ctx context.Context, tokenIn, tokenOut common.Address, amountIn string) []aggregator.Result
	Backend(id string) (dex.Backend, bool)
}

// AllowanceManager raises allowances before a swap.
type AllowanceManager interface {
	EnsureAllowance(ctx context.Context, owner, spender, token common.Address, required *big.Int) error
}

// Options are the swap defaults and step bounds.
type Options struct {
	// Owner is the wallet that pays the input token.
	Owner common.Address

	DefaultSlippage decimal.Decimal
	DefaultDeadline time.Duration

	// InclusionTimeout bounds the swap step once the request is detached from
	// the caller.
	InclusionTimeout time.Duration
}

// SwapService orchestrates a swap through Idle, Quoting, Approving, Executing
// and a terminal state.
type SwapService struct {
	aggregator Aggregator
	allowance  AllowanceManager
	tokens     dex.TokenResolver
	opts       Options
	logger     *logrus.Logger

	now func() time.Time
}

// NewSwapService creates SwapService.
func NewSwapService(agg Aggregator, allowance AllowanceManager, tokens dex.TokenResolver, opts Options, logger *logrus.Logger) *SwapService {
	return &SwapService{
		aggregator: agg,
		allowance:  allowance,
		tokens:     tokens,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}
}

// DefaultSlippage is the tolerance applied when the caller gives none.
func (s *SwapService) DefaultSlippage() decimal.Decimal {
	return s.opts.DefaultSlippage
}
