package service

import (
	"context"

	"github.com/fleshka4/polyswap/internal/aggregator"
	"github.com/fleshka4/polyswap/internal/domain"
	"github.com/fleshka4/polyswap/internal/service/dto"
	"github.com/fleshka4/polyswap/internal/service/validate"
)

// RequestBestQuote validates the request and returns the best quote across
// all backends. Nothing is cached: every call reads fresh chain state.
func (s *SwapService) RequestBestQuote(ctx context.Context, req dto.QuoteRequest) (*domain.Quote, error) {
	if err := validate.QuoteRequestValidate(req); err != nil {
		return nil, err
	}

	return s.aggregator.BestQuote(ctx, req.TokenIn, req.TokenOut, req.AmountIn)
}

// Quotes validates the request and returns every backend's outcome.
func (s *SwapService) Quotes(ctx context.Context, req dto.QuoteRequest) ([]aggregator.Result, error) {
	if err := validate.QuoteRequestValidate(req); err != nil {
		return nil, err
	}

	return s.aggregator.Quotes(ctx, req.TokenIn, req.TokenOut, req.AmountIn), nil
}
