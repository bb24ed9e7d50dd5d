package dex

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// TokenResolver provides token decimals to adapters.
type TokenResolver interface {
	Decimals(ctx context.Context, token common.Address) (uint8, error)
}
