package dex

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/fleshka4/polyswap/internal/apperrors"
	"github.com/fleshka4/polyswap/internal/chain"
	"github.com/fleshka4/polyswap/internal/domain"
	"github.com/fleshka4/polyswap/internal/units"
)

// QuoteInput is a quote request converted to base units.
type QuoteInput struct {
	AmountInRaw *big.Int
	DecimalsOut uint8
}

// PrepareQuote checks the pair, resolves decimals of both tokens and converts
// amountIn to base units of tokenIn.
func PrepareQuote(ctx context.Context, tokens TokenResolver, tokenIn, tokenOut common.Address, amountIn string) (QuoteInput, error) {
	if tokenIn == tokenOut {
		return QuoteInput{}, errors.Wrap(apperrors.ErrInvalidArgument, "tokenIn and tokenOut must differ")
	}

	decIn, err := tokens.Decimals(ctx, tokenIn)
	if err != nil {
		return QuoteInput{}, err
	}
	decOut, err := tokens.Decimals(ctx, tokenOut)
	if err != nil {
		return QuoteInput{}, err
	}

	raw, err := units.ToBaseUnits(amountIn, decIn)
	if err != nil {
		return QuoteInput{}, err
	}
	if raw.Sign() == 0 {
		return QuoteInput{}, errors.Wrap(apperrors.ErrInvalidAmount, "amount must be positive")
	}

	return QuoteInput{AmountInRaw: raw, DecimalsOut: decOut}, nil
}

// NoRouteError builds the error of a quote where no candidate route produced
// an output. Reverts and missing pools mean ErrQuoteUnavailable, anything else
// is a transport failure.
func NoRouteError(backend string, errs []error) error {
	combined := multierr.Combine(errs...)
	for _, err := range errs {
		if err == nil || chain.IsRevert(err) || errors.Is(err, apperrors.ErrQuoteUnavailable) {
			continue
		}
		return errors.Wrapf(apperrors.ErrRemoteCallFailed, "%s: %v", backend, combined)
	}

	if combined == nil {
		return errors.Wrapf(apperrors.ErrQuoteUnavailable, "%s: zero output", backend)
	}
	return errors.Wrapf(apperrors.ErrQuoteUnavailable, "%s: %v", backend, combined)
}

// FailedReceipt is a receipt for a swap that failed before submission.
func FailedReceipt(backend string, quote *domain.Quote, reason domain.FailureReason, err error) domain.SwapReceipt {
	r := domain.Failed(reason, err)
	r.Backend = backend
	r.Quote = quote
	return r
}
