package uniswapv2

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Uniswap V2 fee: 0.3% = 997/1000.
var (
	feeMul = big.NewInt(997)
	feeDen = big.NewInt(1000)

	hundred = decimal.NewFromInt(100)
)

// Reserves of one hop, oriented in the swap direction.
type Reserves struct {
	In  *big.Int
	Out *big.Int
}

// GetAmountOut computes the output of one hop with the V2 constant product
// formula:
// amountOut = (amountIn*997 * reserveOut) / (reserveIn*1000 + amountIn*997)
// Returns ok=false on empty reserves or zero input.
func GetAmountOut(amountIn, reserveIn, reserveOut *big.Int) (*big.Int, bool) {
	if amountIn.Sign() <= 0 || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return big.NewInt(0), false
	}

	ainFee := new(big.Int).Mul(amountIn, feeMul)
	num := new(big.Int).Mul(ainFee, reserveOut)
	den := new(big.Int).Mul(reserveIn, feeDen)
	den.Add(den, ainFee)

	return new(big.Int).Quo(num, den), true
}

// PriceImpact returns the percentage by which the constant product output
// along hops falls short of the output at the current reserve ratios after LP
// fees, i.e. the loss caused by pool depth alone. Both sides come from the
// same reserve snapshot. No hops or empty reserves give zero.
func PriceImpact(amountIn *big.Int, hops []Reserves) decimal.Decimal {
	if len(hops) == 0 || amountIn == nil || amountIn.Sign() <= 0 {
		return decimal.Zero
	}

	mid := decimal.NewFromBigInt(amountIn, 0)
	fee := decimal.NewFromBigInt(feeMul, 0).Div(decimal.NewFromBigInt(feeDen, 0))
	out := amountIn
	for _, h := range hops {
		if h.In == nil || h.Out == nil {
			return decimal.Zero
		}
		var ok bool
		out, ok = GetAmountOut(out, h.In, h.Out)
		if !ok {
			return decimal.Zero
		}
		mid = mid.Mul(fee).Mul(decimal.NewFromBigInt(h.Out, 0)).Div(decimal.NewFromBigInt(h.In, 0))
	}
	if mid.Sign() <= 0 {
		return decimal.Zero
	}

	impact := mid.Sub(decimal.NewFromBigInt(out, 0)).Div(mid).Mul(hundred)
	if impact.IsNegative() {
		return decimal.Zero
	}

	return impact.Round(4)
}
