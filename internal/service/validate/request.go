package validate

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/fleshka4/polyswap/internal/apperrors"
	"github.com/fleshka4/polyswap/internal/domain"
	"github.com/fleshka4/polyswap/internal/service/dto"
	"github.com/fleshka4/polyswap/internal/units"
)

var maxSlippage = decimal.NewFromInt(100)

// QuoteRequestValidate validates business logic request.
func QuoteRequestValidate(req dto.QuoteRequest) error {
	return validatePair(req.TokenIn, req.TokenOut, req.AmountIn)
}

// SwapRequestValidate validates a swap request. A zero deadline is allowed and
// means the default.
func SwapRequestValidate(req domain.SwapRequest) error {
	if err := validatePair(req.TokenIn, req.TokenOut, req.AmountIn); err != nil {
		return err
	}

	if req.Recipient == (common.Address{}) {
		return errors.Wrap(apperrors.ErrInvalidArgument, "recipient cannot be empty")
	}

	if req.SlippageTolerance.IsNegative() || req.SlippageTolerance.GreaterThanOrEqual(maxSlippage) {
		return errors.Wrapf(apperrors.ErrInvalidArgument, "slippage %s must be in [0, 100)", req.SlippageTolerance)
	}

	return nil
}

func validatePair(tokenIn, tokenOut common.Address, amountIn string) error {
	var zeroAddress = common.Address{}

	if tokenIn == zeroAddress || tokenOut == zeroAddress {
		return errors.Wrap(apperrors.ErrInvalidArgument, "token address cannot be empty")
	}

	if tokenIn == tokenOut {
		return errors.Wrap(apperrors.ErrInvalidArgument, "output token cannot be the same as input token")
	}

	amount, err := units.Parse(amountIn)
	if err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errors.Wrap(apperrors.ErrInvalidAmount, "amount must be positive")
	}

	return nil
}
