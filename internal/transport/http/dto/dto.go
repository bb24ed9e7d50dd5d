package dto

import "github.com/fleshka4/polyswap/internal/domain"

// SwapRequest is the JSON body of POST /swap. Tokens are addresses or
// configured symbols.
type SwapRequest struct {
	TokenIn  string `json:"token_in"`
	TokenOut string `json:"token_out"`
	AmountIn string `json:"amount_in"`

	// Slippage is a percentage, the service default applies when omitted.
	Slippage  *string `json:"slippage,omitempty"`
	Recipient string  `json:"recipient"`

	// DeadlineSeconds is relative to now, the service default applies when zero.
	DeadlineSeconds int64 `json:"deadline_seconds,omitempty"`
}

// QuoteResult is one backend's outcome in GET /quote?all=1.
type QuoteResult struct {
	Backend    string        `json:"backend"`
	Quote      *domain.Quote `json:"quote,omitempty"`
	Error      string        `json:"error,omitempty"`
	DurationMs int64         `json:"duration_ms"`
}

// Error is the JSON error body.
type Error struct {
	Error string `json:"error"`
}
