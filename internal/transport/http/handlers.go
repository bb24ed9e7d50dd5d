package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/fleshka4/polyswap/internal/apperrors"
	"github.com/fleshka4/polyswap/internal/domain"
	"github.com/fleshka4/polyswap/internal/transport/http/dto"
	"github.com/fleshka4/polyswap/internal/transport/http/validate"
)

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	req, err := validate.QuoteRequestValidate(r, s.tokens)
	if err != nil {
		s.writeError(w, err, http.StatusBadRequest)
		return
	}

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	if all := r.URL.Query().Get("all"); all == "1" || all == "true" {
		results, err := s.svc.Quotes(ctx, *req)
		if err != nil {
			s.writeError(w, err, statusFor(err))
			return
		}

		out := make([]dto.QuoteResult, 0, len(results))
		for _, res := range results {
			item := dto.QuoteResult{
				Backend:    res.Backend,
				Quote:      res.Quote,
				DurationMs: res.Duration.Milliseconds(),
			}
			if res.Err != nil {
				item.Error = res.Err.Error()
			}
			out = append(out, item)
		}
		s.writeJSON(w, http.StatusOK, out)
		return
	}

	quote, err := s.svc.RequestBestQuote(ctx, *req)
	if err != nil {
		s.writeError(w, err, statusFor(err))
		return
	}

	s.writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	req, err := validate.SwapRequestValidate(r, s.tokens, s.svc.DefaultSlippage(), time.Now())
	if err != nil {
		s.writeError(w, err, http.StatusBadRequest)
		return
	}

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	receipt := s.svc.ExecuteSwap(ctx, *req)

	code := http.StatusOK
	switch receipt.Reason {
	case domain.ReasonInvalidRequest:
		code = http.StatusBadRequest
	case domain.ReasonNoLiquidity:
		code = http.StatusUnprocessableEntity
	}

	s.writeJSON(w, code, receipt)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidArgument),
		errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrPrecisionExceeded):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNoQuoteAvailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrMetadataUnavailable),
		errors.Is(err, apperrors.ErrRemoteCallFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error, code int) {
	msg := err.Error()
	if code == http.StatusInternalServerError {
		s.logger.WithError(err).Error("request failed")
		msg = "internal error"
	}
	s.writeJSON(w, code, dto.Error{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("response write error")
	}
}
