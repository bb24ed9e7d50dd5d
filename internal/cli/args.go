package cli

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/polyswap/internal/transport/http/validate"
)

type trade struct {
	amount   string
	in, out  string
	tokenIn  common.Address
	tokenOut common.Address
}

// parseTrade accepts "<amount> <in> <out>" or "<amount> <in> to <out>".
func parseTrade(args []string, tokens map[string]common.Address) (trade, error) {
	if len(args) == 4 && strings.EqualFold(args[2], "to") {
		args = []string{args[0], args[1], args[3]}
	}
	if len(args) != 3 {
		return trade{}, errors.New("expected <amount> <token-in> [to] <token-out>")
	}

	tokenIn, err := validate.Token(args[1], tokens)
	if err != nil {
		return trade{}, err
	}
	tokenOut, err := validate.Token(args[2], tokens)
	if err != nil {
		return trade{}, err
	}

	return trade{
		amount:   args[0],
		in:       args[1],
		out:      args[2],
		tokenIn:  tokenIn,
		tokenOut: tokenOut,
	}, nil
}
