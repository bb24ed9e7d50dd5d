package validate

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/fleshka4/polyswap/internal/domain"
	svcdto "github.com/fleshka4/polyswap/internal/service/dto"
	"github.com/fleshka4/polyswap/internal/transport/http/dto"
)

// maxBodyBytes caps POST bodies.
const maxBodyBytes = 1 << 16

// Token accepts a hex address or a symbol from tokens.
func Token(s string, tokens map[string]common.Address) (common.Address, error) {
	if common.IsHexAddress(s) {
		return common.HexToAddress(s), nil
	}
	if addr, ok := tokens[strings.ToUpper(s)]; ok {
		return addr, nil
	}
	return common.Address{}, errors.Errorf("unknown token %q", s)
}

// QuoteRequestValidate parses /quote query parameters.
func QuoteRequestValidate(r *http.Request, tokens map[string]common.Address) (*svcdto.QuoteRequest, error) {
	q := r.URL.Query()
	in := q.Get("token_in")
	out := q.Get("token_out")
	amt := q.Get("amount_in")
	if in == "" || out == "" || amt == "" {
		return nil, errors.New("missing params")
	}

	tokenIn, err := Token(in, tokens)
	if err != nil {
		return nil, err
	}
	tokenOut, err := Token(out, tokens)
	if err != nil {
		return nil, err
	}

	return &svcdto.QuoteRequest{
		TokenIn:  tokenIn,
		TokenOut: tokenOut,
		AmountIn: amt,
	}, nil
}

// SwapRequestValidate decodes a /swap body. Amount and slippage ranges are
// checked by the service.
func SwapRequestValidate(r *http.Request, tokens map[string]common.Address, defaultSlippage decimal.Decimal, now time.Time) (*domain.SwapRequest, error) {
	var body dto.SwapRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return nil, errors.Wrap(err, "bad json body")
	}

	if body.TokenIn == "" || body.TokenOut == "" || body.AmountIn == "" || body.Recipient == "" {
		return nil, errors.New("missing fields")
	}

	tokenIn, err := Token(body.TokenIn, tokens)
	if err != nil {
		return nil, err
	}
	tokenOut, err := Token(body.TokenOut, tokens)
	if err != nil {
		return nil, err
	}
	if !common.IsHexAddress(body.Recipient) {
		return nil, errors.New("bad recipient address")
	}

	slippage := defaultSlippage
	if body.Slippage != nil {
		slippage, err = decimal.NewFromString(*body.Slippage)
		if err != nil {
			return nil, errors.Errorf("bad slippage %q", *body.Slippage)
		}
	}

	if body.DeadlineSeconds < 0 {
		return nil, errors.New("deadline_seconds cannot be negative")
	}
	var deadline time.Time
	if body.DeadlineSeconds > 0 {
		deadline = now.Add(time.Duration(body.DeadlineSeconds) * time.Second)
	}

	return &domain.SwapRequest{
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		AmountIn:          body.AmountIn,
		SlippageTolerance: slippage,
		Recipient:         common.HexToAddress(body.Recipient),
		Deadline:          deadline,
	}, nil
}
