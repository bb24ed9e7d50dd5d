package service

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fleshka4/polyswap/internal/apperrors"
	"github.com/fleshka4/polyswap/internal/dex"
	"github.com/fleshka4/polyswap/internal/domain"
	"github.com/fleshka4/polyswap/internal/metrics"
	"github.com/fleshka4/polyswap/internal/service/validate"
	"github.com/fleshka4/polyswap/internal/units"
)

var hundred = decimal.NewFromInt(100)

// MinAmountOut is floor(amountOut * (100 - slippage) / 100).
func MinAmountOut(amountOut *big.Int, slippage decimal.Decimal) *big.Int {
	return decimal.NewFromBigInt(amountOut, 0).
		Mul(hundred.Sub(slippage)).
		Div(hundred).
		Floor().
		BigInt()
}

// ExecuteSwap runs one swap request to a terminal state. Caller cancellation
// is honored while quoting. Once approval starts the request runs detached
// from the caller and every step is bounded by the inclusion timeout.
func (s *SwapService) ExecuteSwap(ctx context.Context, req domain.SwapRequest) (receipt domain.SwapReceipt) {
	log := s.logger.WithFields(logrus.Fields{
		"tokenIn":  req.TokenIn.Hex(),
		"tokenOut": req.TokenOut.Hex(),
		"amountIn": req.AmountIn,
	})
	state := domain.StateIdle

	defer func() {
		metrics.SwapCounter.WithLabelValues(receipt.Backend, string(receipt.State), string(receipt.Reason)).Inc()

		entry := log.WithFields(logrus.Fields{"state": receipt.State, "backend": receipt.Backend})
		if receipt.Success {
			entry.WithField("txHash", receipt.TxHash).Info("swap finished")
			return
		}
		entry.WithFields(logrus.Fields{
			"reason":    receipt.Reason,
			"lastState": state,
			"error":     receipt.Error,
		}).Warn("swap failed")
	}()

	if err := validate.SwapRequestValidate(req); err != nil {
		return domain.Failed(domain.ReasonInvalidRequest, err)
	}
	if s.opts.Owner == (common.Address{}) {
		return domain.Failed(domain.ReasonInvalidRequest,
			errors.Wrap(apperrors.ErrInvalidArgument, "signer not configured, swaps are disabled"))
	}

	deadline := req.Deadline
	if deadline.IsZero() {
		deadline = s.now().Add(s.opts.DefaultDeadline)
	}
	if !deadline.After(s.now()) {
		return domain.Failed(domain.ReasonInvalidRequest,
			errors.Wrapf(apperrors.ErrInvalidArgument, "deadline %s is in the past", deadline))
	}

	state = domain.StateQuoting
	quote, err := s.aggregator.BestQuote(ctx, req.TokenIn, req.TokenOut, req.AmountIn)
	if err != nil {
		reason := domain.ReasonNoLiquidity
		switch {
		case ctx.Err() != nil:
			reason = domain.ReasonTransport
		case errors.Is(err, apperrors.ErrPrecisionExceeded):
			reason = domain.ReasonInvalidRequest
		}
		return domain.Failed(reason, err)
	}

	backend, ok := s.aggregator.Backend(quote.Backend)
	if !ok {
		return dex.FailedReceipt(quote.Backend, quote, domain.ReasonNoLiquidity,
			errors.Wrapf(apperrors.ErrNoQuoteAvailable, "backend %s is not registered", quote.Backend))
	}

	minOut := MinAmountOut(quote.AmountOutRaw, req.SlippageTolerance)
	log = log.WithFields(logrus.Fields{
		"backend":   backend.ID(),
		"amountOut": quote.AmountOut,
		"minOut":    minOut.String(),
	})

	// The quote is final, from here the request no longer follows the caller.
	detached := context.WithoutCancel(ctx)

	state = domain.StateApproving
	approveCtx, cancel := s.stepContext(detached)
	err = s.allowance.EnsureAllowance(approveCtx, s.opts.Owner, backend.Spender(), req.TokenIn, quote.AmountInRaw)
	cancel()
	if err != nil {
		return dex.FailedReceipt(backend.ID(), quote, domain.ReasonApprovalFailed, err)
	}

	state = domain.StateExecuting
	swapCtx, cancel := s.stepContext(detached)
	defer cancel()

	receipt = backend.Swap(swapCtx, dex.SwapParams{
		Request:      req,
		Quote:        quote,
		MinAmountOut: minOut,
		Deadline:     deadline,
	})

	receipt.Backend = backend.ID()
	receipt.Quote = quote
	receipt.MinAmountOut = minOut.String()
	if decOut, err := s.tokens.Decimals(swapCtx, req.TokenOut); err == nil {
		receipt.MinAmountOut = units.FromBaseUnits(minOut, decOut)
	}
	if receipt.State == "" {
		if receipt.Success {
			receipt.State = domain.StateConfirmed
		} else {
			receipt.State = domain.StateFailed
		}
	}

	return receipt
}

func (s *SwapService) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.InclusionTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.InclusionTimeout)
}
