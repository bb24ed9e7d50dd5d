// Package units converts between human readable token amounts and integer
// base units.
package units

import (
	"math/big"
	"regexp"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/fleshka4/polyswap/internal/apperrors"
)

// Only plain non-negative decimals: no sign, exponent, spaces or bare dots.
var plainDecimal = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// Parse validates the syntax of a human readable amount and returns its value.
func Parse(amount string) (decimal.Decimal, error) {
	if !plainDecimal.MatchString(amount) {
		return decimal.Decimal{}, errors.Wrapf(apperrors.ErrInvalidAmount, "%q is not a plain decimal", amount)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(apperrors.ErrInvalidAmount, "decimal.NewFromString: %v", err)
	}
	return d, nil
}

// ToBaseUnits converts amount to base units of a token with the given number of
// decimals. Fractional digits beyond the precision are rejected unless they are
// trailing zeros.
func ToBaseUnits(amount string, decimals uint8) (*big.Int, error) {
	d, err := Parse(amount)
	if err != nil {
		return nil, err
	}

	shifted := d.Shift(int32(decimals))
	if !shifted.IsInteger() {
		return nil, errors.Wrapf(apperrors.ErrPrecisionExceeded, "%q has more than %d fractional digits", amount, decimals)
	}

	return shifted.BigInt(), nil
}

// FromBaseUnits renders base units as the shortest decimal string.
func FromBaseUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}
