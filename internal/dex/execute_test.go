package dex_test

import (
	"context"
	"io"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fleshka4/polyswap/internal/chain"
	"github.com/fleshka4/polyswap/internal/chain/mock"
	"github.com/fleshka4/polyswap/internal/contracts"
	"github.com/fleshka4/polyswap/internal/dex"
	"github.com/fleshka4/polyswap/internal/domain"
)

var (
	router    = common.HexToAddress("0xa5E0829CaCEd8fFDD4De3c43696c57F7D7A678ff")
	tokenOut  = common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
	recipient = common.HexToAddress("0x0000000000000000000000000000000000000abc")
	hash      = common.HexToHash("0xfeed")
)

func transferLog(token, to common.Address, value int64) *types.Log {
	return &types.Log{
		Address: token,
		Topics: []common.Hash{
			contracts.TransferTopic,
			common.BytesToHash(common.HexToAddress("0x0000000000000000000000000000000000000def").Bytes()),
			common.BytesToHash(to.Bytes()),
		},
		Data: common.LeftPadBytes(big.NewInt(value).Bytes(), 32),
	}
}

func execution() dex.Execution {
	return dex.Execution{
		Backend: "quickswap_v2",
		Router:  router,
		Data:    []byte{0x38, 0xed, 0x17, 0x39},
		Params: dex.SwapParams{
			Request: domain.SwapRequest{TokenOut: tokenOut, Recipient: recipient},
			Quote: &domain.Quote{
				Backend:   "quickswap_v2",
				TokenOut:  tokenOut,
				AmountOut: "0.45",
			},
			MinAmountOut: big.NewInt(447750),
		},
		DecimalsOut: 6,
	}
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestExecute(t *testing.T) {
	t.Parallel()

	t.Run("confirmed with realized output", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		c := mock.NewMockChain(ctrl)
		c.EXPECT().SendTransaction(gomock.Any(), router, gomock.Any(), gomock.Nil()).Return(hash, nil)
		c.EXPECT().WaitForInclusion(gomock.Any(), hash).Return(&chain.Inclusion{
			Status:      types.ReceiptStatusSuccessful,
			GasUsed:     120000,
			BlockNumber: 42,
			Logs: []*types.Log{
				transferLog(common.HexToAddress("0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270"), router, 1),
				transferLog(tokenOut, recipient, 451000),
			},
		}, nil)

		r := dex.Execute(context.Background(), c, execution(), testLogger())
		require.True(t, r.Success)
		require.Equal(t, domain.StateConfirmed, r.State)
		require.Equal(t, hash.Hex(), r.TxHash)
		require.Equal(t, "0.451", r.AmountOut)
		require.Equal(t, uint64(120000), r.GasUsed)
		require.Equal(t, uint64(42), r.BlockNumber)
		require.Empty(t, r.Error)
	})

	t.Run("confirmed without transfer log uses quote", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		c := mock.NewMockChain(ctrl)
		c.EXPECT().SendTransaction(gomock.Any(), router, gomock.Any(), gomock.Nil()).Return(hash, nil)
		c.EXPECT().WaitForInclusion(gomock.Any(), hash).Return(&chain.Inclusion{Status: types.ReceiptStatusSuccessful}, nil)

		r := dex.Execute(context.Background(), c, execution(), testLogger())
		require.True(t, r.Success)
		require.Equal(t, "0.45", r.AmountOut)
	})

	t.Run("slippage revert at submission", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		c := mock.NewMockChain(ctrl)
		c.EXPECT().SendTransaction(gomock.Any(), router, gomock.Any(), gomock.Nil()).
			Return(common.Hash{}, errors.New("execution reverted: UniswapV2Router: INSUFFICIENT_OUTPUT_AMOUNT"))

		r := dex.Execute(context.Background(), c, execution(), testLogger())
		require.False(t, r.Success)
		require.Empty(t, r.TxHash)
		require.Equal(t, domain.ReasonSlippageExceeded, r.Reason)
		require.Contains(t, r.Error, "slippage")
	})

	t.Run("other revert at submission", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		c := mock.NewMockChain(ctrl)
		c.EXPECT().SendTransaction(gomock.Any(), router, gomock.Any(), gomock.Nil()).
			Return(common.Hash{}, errors.New("execution reverted: TransferHelper: TRANSFER_FROM_FAILED"))

		r := dex.Execute(context.Background(), c, execution(), testLogger())
		require.Equal(t, domain.ReasonExecutionReverted, r.Reason)
		require.Contains(t, r.Error, "TRANSFER_FROM_FAILED")
	})

	t.Run("transport error", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		c := mock.NewMockChain(ctrl)
		c.EXPECT().SendTransaction(gomock.Any(), router, gomock.Any(), gomock.Nil()).
			Return(common.Hash{}, errors.New("dial tcp: connection refused"))

		r := dex.Execute(context.Background(), c, execution(), testLogger())
		require.Equal(t, domain.ReasonTransport, r.Reason)
	})

	t.Run("reverted on chain", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		c := mock.NewMockChain(ctrl)
		c.EXPECT().SendTransaction(gomock.Any(), router, gomock.Any(), gomock.Nil()).Return(hash, nil)
		c.EXPECT().WaitForInclusion(gomock.Any(), hash).Return(&chain.Inclusion{Status: types.ReceiptStatusFailed, GasUsed: 90000}, nil)

		r := dex.Execute(context.Background(), c, execution(), testLogger())
		require.False(t, r.Success)
		require.Empty(t, r.TxHash)
		require.Equal(t, domain.ReasonExecutionReverted, r.Reason)
		require.Equal(t, uint64(90000), r.GasUsed)
	})

	t.Run("inclusion not observed", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		c := mock.NewMockChain(ctrl)
		c.EXPECT().SendTransaction(gomock.Any(), router, gomock.Any(), gomock.Nil()).Return(hash, nil)
		c.EXPECT().WaitForInclusion(gomock.Any(), hash).Return(nil, context.DeadlineExceeded)

		r := dex.Execute(context.Background(), c, execution(), testLogger())
		require.False(t, r.Success)
		require.Equal(t, domain.ReasonPending, r.Reason)
		require.Equal(t, hash.Hex(), r.PendingTxHash)
		require.Empty(t, r.TxHash)
	})
}

func TestTransferredTo(t *testing.T) {
	t.Parallel()

	logs := []*types.Log{
		transferLog(tokenOut, recipient, 100),
		transferLog(tokenOut, recipient, 50),
		transferLog(tokenOut, router, 1000),
		nil,
	}

	got, ok := dex.TransferredTo(logs, tokenOut, recipient)
	require.True(t, ok)
	require.Equal(t, big.NewInt(150), got)

	_, ok = dex.TransferredTo(nil, tokenOut, recipient)
	require.False(t, ok)
}
