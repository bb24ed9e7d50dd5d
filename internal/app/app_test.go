package app

import (
	"io"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fleshka4/polyswap/internal/chain/mock"
	"github.com/fleshka4/polyswap/internal/config"
	"github.com/fleshka4/polyswap/internal/dex/uniswapv2"
	"github.com/fleshka4/polyswap/internal/dex/uniswapv3"
	"github.com/fleshka4/polyswap/internal/tokens"
)

func TestBackends(t *testing.T) {
	t.Parallel()

	l := logrus.New()
	l.SetOutput(io.Discard)

	c := mock.NewMockChain(gomock.NewController(t))

	cfgs := config.DefaultPolygonBackends()
	backends, err := Backends(cfgs, c, tokens.NewResolver(c), l)
	require.NoError(t, err)
	require.Len(t, backends, 3)

	require.Equal(t, "uniswap_v3", backends[0].ID())
	require.IsType(t, &uniswapv3.Adapter{}, backends[0])
	require.Equal(t, common.HexToAddress(cfgs[0].Router), backends[0].Spender())

	require.Equal(t, "quickswap_v2", backends[1].ID())
	require.IsType(t, &uniswapv2.Adapter{}, backends[1])

	require.Equal(t, "sushiswap", backends[2].ID())
	require.Equal(t, common.HexToAddress(cfgs[2].Router), backends[2].Spender())
}

func TestBackendsUnknownKind(t *testing.T) {
	t.Parallel()

	l := logrus.New()
	l.SetOutput(io.Discard)

	c := mock.NewMockChain(gomock.NewController(t))

	_, err := Backends([]config.Backend{{ID: "curve", Kind: "stableswap"}}, c, tokens.NewResolver(c), l)
	require.ErrorContains(t, err, "unknown kind")
}
