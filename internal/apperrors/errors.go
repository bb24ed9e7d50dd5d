package apperrors

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is returned when the request parameters are invalid.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidAmount is returned when an amount is not a non-negative plain decimal.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrPrecisionExceeded is returned when an amount has more fractional digits
	// than the token supports.
	ErrPrecisionExceeded = errors.New("precision exceeded")

	// ErrMetadataUnavailable is returned when token metadata cannot be read.
	ErrMetadataUnavailable = errors.New("token metadata unavailable")

	// ErrQuoteUnavailable is returned when a backend has no route or liquidity
	// for the requested pair.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrRemoteCallFailed is returned on transport or node errors.
	ErrRemoteCallFailed = errors.New("remote call failed")

	// ErrNoQuoteAvailable is returned when every backend failed to quote.
	ErrNoQuoteAvailable = errors.New("no quote available")

	// ErrApprovalFailed is returned when the approval transaction could not be
	// sent, reverted, or was not included in time.
	ErrApprovalFailed = errors.New("approval failed")

	// ErrSwapExecutionFailed is returned when the swap transaction failed.
	ErrSwapExecutionFailed = errors.New("swap execution failed")

	// ErrSlippageExceeded is returned when the swap reverted because the output
	// fell below the requested minimum.
	ErrSlippageExceeded = errors.New("price moved beyond slippage tolerance")
)
