// Package aggregator fans a quote request out to every backend and ranks the
// answers.
package aggregator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/fleshka4/polyswap/internal/apperrors"
	"github.com/fleshka4/polyswap/internal/dex"
	"github.com/fleshka4/polyswap/internal/domain"
	"github.com/fleshka4/polyswap/internal/metrics"
)

// Result is the outcome of one backend's quote.
type Result struct {
	Backend  string        `json:"backend"`
	Quote    *domain.Quote `json:"quote,omitempty"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// NoQuoteError is returned when no backend produced a quote. It matches
// apperrors.ErrNoQuoteAvailable.
type NoQuoteError struct {
	Failures []Result
}

func (e *NoQuoteError) Error() string {
	if len(e.Failures) == 0 {
		return apperrors.ErrNoQuoteAvailable.Error() + ": no backends configured"
	}

	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Backend, f.Err))
	}
	return apperrors.ErrNoQuoteAvailable.Error() + ": " + strings.Join(parts, "; ")
}

func (e *NoQuoteError) Is(target error) bool {
	return target == apperrors.ErrNoQuoteAvailable
}

// Unwrap exposes the backend errors so errors.Is can match their causes.
func (e *NoQuoteError) Unwrap() error {
	var combined error
	for _, f := range e.Failures {
		combined = multierr.Append(combined, f.Err)
	}
	return combined
}

// Aggregator queries backends concurrently. Registration order is priority
// order and breaks ties.
type Aggregator struct {
	backends []dex.Backend
	timeout  time.Duration
	logger   *logrus.Logger
}

// New creates an Aggregator. quoteTimeout bounds each backend's quote, zero
// means no bound beyond the caller's context.
func New(backends []dex.Backend, quoteTimeout time.Duration, logger *logrus.Logger) *Aggregator {
	return &Aggregator{
		backends: backends,
		timeout:  quoteTimeout,
		logger:   logger,
	}
}

// Backends returns the backends in priority order.
func (a *Aggregator) Backends() []dex.Backend {
	return a.backends
}

// Backend returns the backend registered under id.
func (a *Aggregator) Backend(id string) (dex.Backend, bool) {
	for _, b := range a.backends {
		if b.ID() == id {
			return b, true
		}
	}
	return nil, false
}

// Quotes asks every backend and returns their results in priority order. It
// waits for all of them.
func (a *Aggregator) Quotes(ctx context.Context, tokenIn, tokenOut common.Address, amountIn string) []Result {
	results := make([]Result, len(a.backends))

	var wg sync.WaitGroup
	for i, b := range a.backends {
		wg.Add(1)
		go func(i int, b dex.Backend) {
			defer wg.Done()
			results[i] = a.quote(ctx, b, tokenIn, tokenOut, amountIn)
		}(i, b)
	}
	wg.Wait()

	return results
}

func (a *Aggregator) quote(ctx context.Context, b dex.Backend, tokenIn, tokenOut common.Address, amountIn string) Result {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	q, err := b.Quote(ctx, tokenIn, tokenOut, amountIn)
	elapsed := time.Since(start)

	if err == nil && (q == nil || q.AmountOutRaw == nil) {
		err = errors.Wrap(apperrors.ErrQuoteUnavailable, "empty quote")
	}

	metrics.BackendQuoteDuration.WithLabelValues(b.ID()).Observe(elapsed.Seconds())
	metrics.BackendQuoteCounter.WithLabelValues(b.ID(), outcome(err)).Inc()

	log := a.logger.WithFields(logrus.Fields{
		"backend":  b.ID(),
		"tokenIn":  tokenIn.Hex(),
		"tokenOut": tokenOut.Hex(),
		"amountIn": amountIn,
		"duration": elapsed,
	})
	if err != nil {
		log.WithError(err).Debug("backend quote failed")
		return Result{Backend: b.ID(), Err: err, Duration: elapsed}
	}
	log.WithField("amountOut", q.AmountOut).Debug("backend quoted")

	return Result{Backend: b.ID(), Quote: q, Duration: elapsed}
}

// BestQuote returns the quote with the strictly greatest output. Ties go to
// the backend registered first. Individual backend failures are tolerated.
func (a *Aggregator) BestQuote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn string) (*domain.Quote, error) {
	results := a.Quotes(ctx, tokenIn, tokenOut, amountIn)

	best, failures := Best(results)
	if best == nil {
		return nil, &NoQuoteError{Failures: failures}
	}

	a.logger.WithFields(logrus.Fields{
		"backend":   best.Backend,
		"amountOut": best.AmountOut,
		"failed":    len(failures),
	}).Info("best quote selected")

	return best, nil
}

// Best picks the winning quote of results in priority order and returns the
// failed results.
func Best(results []Result) (*domain.Quote, []Result) {
	var (
		best     *domain.Quote
		failures []Result
	)
	for _, r := range results {
		if r.Err != nil {
			failures = append(failures, r)
			continue
		}
		if best == nil || r.Quote.AmountOutRaw.Cmp(best.AmountOutRaw) > 0 {
			best = r.Quote
		}
	}
	return best, failures
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, apperrors.ErrQuoteUnavailable):
		return "unavailable"
	case errors.Is(err, apperrors.ErrMetadataUnavailable):
		return "metadata"
	case errors.Is(err, apperrors.ErrRemoteCallFailed):
		return "transport"
	default:
		return "error"
	}
}
