package aggregator

import (
	"context"
	"io"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fleshka4/polyswap/internal/apperrors"
	"github.com/fleshka4/polyswap/internal/dex"
	"github.com/fleshka4/polyswap/internal/dex/mock"
	"github.com/fleshka4/polyswap/internal/domain"
)

var (
	wmatic = common.HexToAddress("0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270")
	usdc   = common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func quote(backend, amountOut string, raw int64) *domain.Quote {
	return &domain.Quote{
		Backend:      backend,
		TokenIn:      wmatic,
		TokenOut:     usdc,
		AmountIn:     "1",
		AmountOut:    amountOut,
		AmountOutRaw: big.NewInt(raw),
	}
}

type stub struct {
	id    string
	quote *domain.Quote
	err   error
	delay time.Duration
}

func backends(ctrl *gomock.Controller, stubs ...stub) []dex.Backend {
	out := make([]dex.Backend, 0, len(stubs))
	for _, s := range stubs {
		s := s
		b := mock.NewMockBackend(ctrl)
		b.EXPECT().ID().Return(s.id).AnyTimes()
		b.EXPECT().
			Quote(gomock.Any(), wmatic, usdc, "1").
			DoAndReturn(func(ctx context.Context, _, _ common.Address, _ string) (*domain.Quote, error) {
				if s.delay > 0 {
					select {
					case <-time.After(s.delay):
					case <-ctx.Done():
						return nil, errors.Wrap(ctx.Err(), "quote")
					}
				}
				return s.quote, s.err
			}).
			AnyTimes()
		out = append(out, b)
	}
	return out
}

func TestBestQuote(t *testing.T) {
	t.Parallel()

	unavailable := errors.Wrap(apperrors.ErrQuoteUnavailable, "no pool")
	transport := errors.Wrap(apperrors.ErrRemoteCallFailed, "connection reset")

	tests := []struct {
		name        string
		stubs       []stub
		wantBackend string
		wantErr     error
		wantFailed  int
	}{
		{
			name: "greatest output wins",
			stubs: []stub{
				{id: "a", quote: quote("a", "100", 100_000)},
				{id: "b", quote: quote("b", "102.5", 102_500)},
				{id: "c", quote: quote("c", "101.9", 101_900)},
			},
			wantBackend: "b",
		},
		{
			name: "tie goes to the earlier backend",
			stubs: []stub{
				{id: "a", quote: quote("a", "0.45", 450_000)},
				{id: "b", quote: quote("b", "0.45", 450_000)},
			},
			wantBackend: "a",
		},
		{
			name: "partial failure is tolerated",
			stubs: []stub{
				{id: "a", err: unavailable},
				{id: "b", err: transport},
				{id: "c", quote: quote("c", "0.44", 440_000)},
			},
			wantBackend: "c",
		},
		{
			name: "all backends fail",
			stubs: []stub{
				{id: "a", err: unavailable},
				{id: "b", err: transport},
				{id: "c", err: unavailable},
			},
			wantErr:    apperrors.ErrNoQuoteAvailable,
			wantFailed: 3,
		},
		{
			name:       "no backends",
			wantErr:    apperrors.ErrNoQuoteAvailable,
			wantFailed: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			agg := New(backends(ctrl, tt.stubs...), time.Second, testLogger())

			q, err := agg.BestQuote(context.Background(), wmatic, usdc, "1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, q)

				var noQuote *NoQuoteError
				require.ErrorAs(t, err, &noQuote)
				require.Len(t, noQuote.Failures, tt.wantFailed)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantBackend, q.Backend)
		})
	}
}

func TestNoQuoteErrorListsCauses(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	agg := New(backends(ctrl,
		stub{id: "uniswap_v3", err: errors.Wrap(apperrors.ErrQuoteUnavailable, "no pool for fee 500")},
		stub{id: "quickswap_v2", err: errors.Wrap(apperrors.ErrRemoteCallFailed, "503")},
	), time.Second, testLogger())

	_, err := agg.BestQuote(context.Background(), wmatic, usdc, "1")
	require.ErrorIs(t, err, apperrors.ErrNoQuoteAvailable)
	require.ErrorIs(t, err, apperrors.ErrQuoteUnavailable)
	require.ErrorIs(t, err, apperrors.ErrRemoteCallFailed)
	require.Contains(t, err.Error(), "uniswap_v3: no pool for fee 500")
	require.Contains(t, err.Error(), "quickswap_v2: 503")
}

func TestQuotesTimeout(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	agg := New(backends(ctrl,
		stub{id: "slow", quote: quote("slow", "1000", 1_000_000), delay: time.Minute},
		stub{id: "fast", quote: quote("fast", "0.44", 440_000)},
	), 50*time.Millisecond, testLogger())

	start := time.Now()
	results := agg.Quotes(context.Background(), wmatic, usdc, "1")
	require.Less(t, time.Since(start), 10*time.Second)

	require.Len(t, results, 2)
	require.Equal(t, "slow", results[0].Backend)
	require.ErrorIs(t, results[0].Err, context.DeadlineExceeded)
	require.Equal(t, "fast", results[1].Backend)
	require.NoError(t, results[1].Err)

	best, failures := Best(results)
	require.Equal(t, "fast", best.Backend)
	require.Len(t, failures, 1)
}

func TestBackendLookup(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	agg := New(backends(ctrl, stub{id: "a"}, stub{id: "b"}), 0, testLogger())

	b, ok := agg.Backend("b")
	require.True(t, ok)
	require.Equal(t, "b", b.ID())

	_, ok = agg.Backend("missing")
	require.False(t, ok)
	require.Len(t, agg.Backends(), 2)
}
