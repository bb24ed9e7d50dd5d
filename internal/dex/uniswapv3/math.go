package uniswapv3

import (
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	q192       = new(big.Int).Lsh(big.NewInt(1), 192)
	feeDenom   = big.NewInt(1_000_000)
	hundred    = decimal.NewFromInt(100)
	impactDigs = int32(4)
)

// MidAmountOut is the output of amountIn at the pool's current price after the
// LP fee, ignoring depth. zeroForOne is true when the input is token0.
func MidAmountOut(amountIn, sqrtPriceX96 *big.Int, zeroForOne bool, fee uint32) *big.Int {
	if amountIn == nil || sqrtPriceX96 == nil || sqrtPriceX96.Sign() <= 0 {
		return new(big.Int)
	}

	priceX192 := new(big.Int).Mul(sqrtPriceX96, sqrtPriceX96)

	out := new(big.Int)
	if zeroForOne {
		out.Mul(amountIn, priceX192)
		out.Quo(out, q192)
	} else {
		out.Mul(amountIn, q192)
		out.Quo(out, priceX192)
	}

	out.Mul(out, new(big.Int).Sub(feeDenom, big.NewInt(int64(fee))))
	return out.Quo(out, feeDenom)
}

// PriceImpact returns by how many percent amountOut falls short of mid.
func PriceImpact(mid, amountOut *big.Int) decimal.Decimal {
	if mid == nil || amountOut == nil || mid.Sign() <= 0 {
		return decimal.Zero
	}

	m := decimal.NewFromBigInt(mid, 0)
	impact := m.Sub(decimal.NewFromBigInt(amountOut, 0)).Div(m).Mul(hundred)
	if impact.IsNegative() {
		return decimal.Zero
	}

	return impact.Round(impactDigs)
}
