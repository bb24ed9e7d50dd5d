package dto

import "github.com/ethereum/go-ethereum/common"

// QuoteRequest represents a request to quote an exact input swap.
type QuoteRequest struct {
	TokenIn  common.Address
	TokenOut common.Address

	// AmountIn is human readable, in whole tokens.
	AmountIn string
}
