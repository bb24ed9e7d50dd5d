package uniswapv2

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func bi(s string) *big.Int {
	z, _ := new(big.Int).SetString(s, 10)
	return z
}

func TestGetAmountOut_Basic(t *testing.T) {
	t.Parallel()

	out, ok := GetAmountOut(bi("100"), bi("1000"), bi("1000"))
	require.True(t, ok)
	require.Equal(t, "90", out.String()) // 90.6... -> 90
}

func TestGetAmountOut_Zeroes(t *testing.T) {
	t.Parallel()

	_, ok := GetAmountOut(bi("0"), bi("1"), bi("1"))
	require.False(t, ok, "zero amountIn")
	_, ok = GetAmountOut(bi("1"), bi("0"), bi("1"))
	require.False(t, ok, "zero reserveIn")
	_, ok = GetAmountOut(bi("1"), bi("1"), bi("0"))
	require.False(t, ok, "zero reserveOut")
}

func TestPriceImpact(t *testing.T) {
	t.Parallel()

	t.Run("single hop", func(t *testing.T) {
		t.Parallel()

		in, rIn, rOut := bi("10000"), bi("1000000"), bi("1000000")

		// mid = 10000 * 0.997 = 9970, out = 9871
		impact := PriceImpact(in, []Reserves{{In: rIn, Out: rOut}})
		require.True(t, impact.Equal(decimal.RequireFromString("0.993")), impact.String())
	})

	t.Run("tiny trade in deep pool", func(t *testing.T) {
		t.Parallel()

		in := bi("1000000000000000000")
		rIn, rOut := bi("1000000000000000000000000000"), bi("500000000000000")

		impact := PriceImpact(in, []Reserves{{In: rIn, Out: rOut}})
		require.True(t, impact.LessThan(decimal.RequireFromString("0.01")), impact.String())
	})

	t.Run("two hops compound", func(t *testing.T) {
		t.Parallel()

		in := bi("100000")
		h1 := Reserves{In: bi("1000000"), Out: bi("2000000")}
		h2 := Reserves{In: bi("3000000"), Out: bi("1500000")}

		single := PriceImpact(in, []Reserves{h1})
		double := PriceImpact(in, []Reserves{h1, h2})
		require.True(t, double.GreaterThan(single))
	})

	t.Run("degenerate reserves", func(t *testing.T) {
		t.Parallel()

		require.True(t, PriceImpact(bi("1"), []Reserves{{In: bi("0"), Out: bi("1")}}).IsZero())
		require.True(t, PriceImpact(bi("0"), []Reserves{{In: bi("1"), Out: bi("1")}}).IsZero())
		require.True(t, PriceImpact(bi("1"), []Reserves{{In: nil, Out: bi("1")}}).IsZero())
	})

	t.Run("unread reserves give zero", func(t *testing.T) {
		t.Parallel()

		require.True(t, PriceImpact(bi("1000000000000000000"), nil).IsZero())
		require.True(t, PriceImpact(bi("1000000000000000000"), []Reserves{}).IsZero())
	})
}

func BenchmarkGetAmountOut(b *testing.B) {
	ain := bi("1000000000000000000")
	rIn := bi("1234567890000000000000")
	rOut := bi("987654321000000000000000")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, ok := GetAmountOut(ain, rIn, rOut); !ok {
			b.Fatal("unexpected false")
		}
	}
}
