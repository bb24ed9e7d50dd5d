package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fleshka4/polyswap/internal/aggregator"
	"github.com/fleshka4/polyswap/internal/apperrors"
	"github.com/fleshka4/polyswap/internal/config"
	"github.com/fleshka4/polyswap/internal/domain"
	svcdto "github.com/fleshka4/polyswap/internal/service/dto"
	"github.com/fleshka4/polyswap/internal/service/mock"
)

var (
	wmatic = common.HexToAddress("0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270")
	usdc   = common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
)

func testConfig() config.Config {
	return config.Config{
		RequestTimeout: time.Minute,
		Tokens: map[string]string{
			"wmatic": wmatic.Hex(),
			"USDC":   usdc.Hex(),
		},
	}
}

func testLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	return l
}

func serve(server *Server, req *http.Request) *http.Response {
	w := httptest.NewRecorder()
	server.mux.ServeHTTP(w, req)
	return w.Result()
}

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		log.Printf("Body.Close: %v", err)
	}
}

func TestPingHandler(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	server := NewServer(mock.NewMockService(ctrl), config.Config{}, testLogger(io.Discard))

	resp := serve(server, httptest.NewRequest("GET", "/ping", nil))
	defer closeBody(resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "pong", string(body))
}

func TestMetricsHandler(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	server := NewServer(mock.NewMockService(ctrl), config.Config{}, testLogger(io.Discard))

	resp := serve(server, httptest.NewRequest("GET", "/metrics", nil))
	defer closeBody(resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "go_goroutines")
}

func TestQuoteHandler(t *testing.T) {
	t.Parallel()

	quote := &domain.Quote{
		Backend:      "quickswap_v2",
		TokenIn:      wmatic,
		TokenOut:     usdc,
		AmountIn:     "1",
		AmountOut:    "0.45",
		AmountOutRaw: big.NewInt(450000),
		PriceImpact:  decimal.RequireFromString("0.12"),
	}

	t.Run("success with symbols", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().
			RequestBestQuote(gomock.Any(), svcdto.QuoteRequest{TokenIn: wmatic, TokenOut: usdc, AmountIn: "1"}).
			Return(quote, nil)
		server := NewServer(svc, testConfig(), testLogger(io.Discard))

		resp := serve(server, httptest.NewRequest("GET", "/quote?token_in=WMATIC&token_out=usdc&amount_in=1", nil))
		defer closeBody(resp)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var got map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Equal(t, "quickswap_v2", got["backend"])
		require.Equal(t, "0.45", got["amount_out"])
		require.Equal(t, "0.12", got["price_impact"])
	})

	t.Run("all backends", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().
			Quotes(gomock.Any(), gomock.Any()).
			Return([]aggregator.Result{
				{Backend: "uniswap_v3", Err: errors.New("no pool"), Duration: 20 * time.Millisecond},
				{Backend: "quickswap_v2", Quote: quote, Duration: 30 * time.Millisecond},
			}, nil)
		server := NewServer(svc, testConfig(), testLogger(io.Discard))

		req := httptest.NewRequest("GET", "/quote?token_in="+wmatic.Hex()+"&token_out="+usdc.Hex()+"&amount_in=1&all=1", nil)
		resp := serve(server, req)
		defer closeBody(resp)

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got []map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Len(t, got, 2)
		require.Equal(t, "uniswap_v3", got[0]["backend"])
		require.Equal(t, "no pool", got[0]["error"])
		require.Equal(t, float64(30), got[1]["duration_ms"])
	})

	t.Run("validation error - missing params", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		server := NewServer(mock.NewMockService(ctrl), testConfig(), testLogger(io.Discard))

		resp := serve(server, httptest.NewRequest("GET", "/quote?token_in=WMATIC", nil))
		defer closeBody(resp)

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("validation error - unknown symbol", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		server := NewServer(mock.NewMockService(ctrl), testConfig(), testLogger(io.Discard))

		resp := serve(server, httptest.NewRequest("GET", "/quote?token_in=DOGE&token_out=USDC&amount_in=1", nil))
		defer closeBody(resp)

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	testServiceError := func(t *testing.T, serviceError error, expectedStatusCode int) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().
			RequestBestQuote(gomock.Any(), gomock.Any()).
			Return(nil, serviceError)
		server := NewServer(svc, testConfig(), testLogger(io.Discard))

		resp := serve(server, httptest.NewRequest("GET", "/quote?token_in=WMATIC&token_out=USDC&amount_in=1", nil))
		defer closeBody(resp)

		require.Equal(t, expectedStatusCode, resp.StatusCode)
	}

	t.Run("service error - invalid amount", func(t *testing.T) {
		t.Parallel()
		testServiceError(t, errors.Wrap(apperrors.ErrInvalidAmount, "1e3"), http.StatusBadRequest)
	})

	t.Run("service error - no quote", func(t *testing.T) {
		t.Parallel()
		testServiceError(t, &aggregator.NoQuoteError{}, http.StatusUnprocessableEntity)
	})

	t.Run("service error - remote call failed", func(t *testing.T) {
		t.Parallel()
		testServiceError(t, errors.Wrap(apperrors.ErrRemoteCallFailed, "503"), http.StatusBadGateway)
	})

	t.Run("service error - unknown error", func(t *testing.T) {
		t.Parallel()
		testServiceError(t, errors.New("unknown error"), http.StatusInternalServerError)
	})

	t.Run("wrong http method", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		server := NewServer(mock.NewMockService(ctrl), testConfig(), testLogger(io.Discard))

		resp := serve(server, httptest.NewRequest("POST", "/quote", nil))
		defer closeBody(resp)

		require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestSwapHandler(t *testing.T) {
	t.Parallel()

	recipient := "0x0000000000000000000000000000000000000abc"

	newSwapServer := func(t *testing.T, receipt domain.SwapReceipt, check func(domain.SwapRequest)) *Server {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().DefaultSlippage().Return(decimal.RequireFromString("0.5")).AnyTimes()
		svc.EXPECT().
			ExecuteSwap(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req domain.SwapRequest) domain.SwapReceipt {
				if check != nil {
					check(req)
				}
				return receipt
			}).
			AnyTimes()
		return NewServer(svc, testConfig(), testLogger(io.Discard))
	}

	t.Run("confirmed", func(t *testing.T) {
		t.Parallel()

		server := newSwapServer(t, domain.SwapReceipt{
			Success:   true,
			TxHash:    "0xabc",
			AmountOut: "0.45",
			State:     domain.StateConfirmed,
		}, func(req domain.SwapRequest) {
			require.Equal(t, wmatic, req.TokenIn)
			require.Equal(t, usdc, req.TokenOut)
			require.Equal(t, "1", req.AmountIn)
			require.True(t, req.SlippageTolerance.Equal(decimal.RequireFromString("0.5")))
			require.Equal(t, common.HexToAddress(recipient), req.Recipient)
			require.True(t, req.Deadline.IsZero())
		})

		body := `{"token_in":"WMATIC","token_out":"USDC","amount_in":"1","recipient":"` + recipient + `"}`
		resp := serve(server, httptest.NewRequest("POST", "/swap", strings.NewReader(body)))
		defer closeBody(resp)

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got domain.SwapReceipt
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.True(t, got.Success)
		require.Equal(t, "0.45", got.AmountOut)
		require.Equal(t, domain.StateConfirmed, got.State)
	})

	t.Run("explicit slippage and deadline", func(t *testing.T) {
		t.Parallel()

		before := time.Now()
		server := newSwapServer(t, domain.SwapReceipt{State: domain.StateConfirmed, Success: true}, func(req domain.SwapRequest) {
			require.True(t, req.SlippageTolerance.Equal(decimal.RequireFromString("1.25")))
			require.False(t, req.Deadline.Before(before.Add(60*time.Second)))
		})

		body := `{"token_in":"WMATIC","token_out":"USDC","amount_in":"1","slippage":"1.25","recipient":"` + recipient + `","deadline_seconds":60}`
		resp := serve(server, httptest.NewRequest("POST", "/swap", strings.NewReader(body)))
		defer closeBody(resp)

		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("failed execution is still 200", func(t *testing.T) {
		t.Parallel()

		server := newSwapServer(t, domain.SwapReceipt{
			State:  domain.StateFailed,
			Reason: domain.ReasonSlippageExceeded,
			Error:  "price moved beyond slippage tolerance",
		}, nil)

		body := `{"token_in":"WMATIC","token_out":"USDC","amount_in":"1","recipient":"` + recipient + `"}`
		resp := serve(server, httptest.NewRequest("POST", "/swap", strings.NewReader(body)))
		defer closeBody(resp)

		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("no quote", func(t *testing.T) {
		t.Parallel()

		server := newSwapServer(t, domain.SwapReceipt{State: domain.StateFailed, Reason: domain.ReasonNoLiquidity}, nil)

		body := `{"token_in":"WMATIC","token_out":"USDC","amount_in":"1","recipient":"` + recipient + `"}`
		resp := serve(server, httptest.NewRequest("POST", "/swap", strings.NewReader(body)))
		defer closeBody(resp)

		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("bad bodies", func(t *testing.T) {
		t.Parallel()

		server := newSwapServer(t, domain.SwapReceipt{}, nil)

		for _, body := range []string{
			`not json`,
			`{"token_in":"WMATIC","token_out":"USDC","amount_in":"1"}`,
			`{"token_in":"WMATIC","token_out":"USDC","amount_in":"1","recipient":"nope"}`,
			`{"token_in":"WMATIC","token_out":"USDC","amount_in":"1","recipient":"` + recipient + `","slippage":"lots"}`,
			`{"token_in":"WMATIC","token_out":"USDC","amount_in":"1","recipient":"` + recipient + `","extra":true}`,
		} {
			resp := serve(server, httptest.NewRequest("POST", "/swap", strings.NewReader(body)))
			require.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
			closeBody(resp)
		}
	})
}

func TestLogMiddleware(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)

	var logOutput bytes.Buffer
	server := NewServer(mock.NewMockService(ctrl), config.Config{}, testLogger(&logOutput))

	req := httptest.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()

	handler := server.logMiddleware(server.mux)
	handler.ServeHTTP(w, req)

	logContent := logOutput.String()
	require.Contains(t, logContent, "method=GET")
	require.Contains(t, logContent, "path=/ping")
	require.Contains(t, logContent, "status=200")
}

func TestServer_ListenAndServe(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	server := NewServer(mock.NewMockService(ctrl), config.Config{
		ReadHeaderTimeout: 5 * time.Second,
		GraceTimeout:      5 * time.Second,
	}, testLogger(io.Discard))

	const addr = "localhost:0"

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)

	go func() {
		errCh <- server.ListenAndServe(ctx, addr)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}
