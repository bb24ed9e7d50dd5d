package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Quote is a non-binding output estimate from one backend. It is only valid
// for the orchestration pass that produced it.
type Quote struct {
	Backend string `json:"backend"`

	TokenIn     common.Address `json:"token_in"`
	TokenOut    common.Address `json:"token_out"`
	AmountIn    string         `json:"amount_in"`
	AmountInRaw *big.Int       `json:"amount_in_raw"`

	AmountOut    string   `json:"amount_out"`
	AmountOutRaw *big.Int `json:"amount_out_raw"`

	// PriceImpact is a percentage, e.g. 0.25 for 0.25%.
	PriceImpact decimal.Decimal `json:"price_impact"`
	GasEstimate uint64          `json:"gas_estimate"`

	// Route starts with TokenIn and ends with TokenOut.
	Route []common.Address `json:"route"`

	// FeeTier is the pool fee in hundredths of a bip, zero for backends
	// without fee tiers.
	FeeTier uint32 `json:"fee_tier,omitempty"`
}

// SwapRequest is a caller's request to swap an exact input amount.
type SwapRequest struct {
	TokenIn  common.Address
	TokenOut common.Address
	AmountIn string

	// SlippageTolerance is a percentage in [0, 100).
	SlippageTolerance decimal.Decimal
	Recipient         common.Address

	// Deadline is optional, the service default applies when zero.
	Deadline time.Time
}

// State is a step of the swap state machine.
type State string

const (
	StateIdle      State = "idle"
	StateQuoting   State = "quoting"
	StateApproving State = "approving"
	StateExecuting State = "executing"
	StateConfirmed State = "confirmed"
	StateFailed    State = "failed"
)

// FailureReason tells the caller what kind of action a failure calls for.
type FailureReason string

const (
	ReasonNone              FailureReason = ""
	ReasonInvalidRequest    FailureReason = "invalid_request"
	ReasonNoLiquidity       FailureReason = "no_liquidity"
	ReasonApprovalFailed    FailureReason = "approval_failed"
	ReasonSlippageExceeded  FailureReason = "slippage_exceeded"
	ReasonExecutionReverted FailureReason = "execution_reverted"
	ReasonTransport         FailureReason = "transport"
	ReasonPending           FailureReason = "pending"
)

// SwapReceipt is the terminal result of a swap request.
type SwapReceipt struct {
	Success bool   `json:"success"`
	TxHash  string `json:"tx_hash,omitempty"`

	// AmountOut is the realized output when it could be read from the receipt
	// logs, otherwise the quoted output.
	AmountOut   string `json:"amount_out,omitempty"`
	GasUsed     uint64 `json:"gas_used,omitempty"`
	BlockNumber uint64 `json:"block_number,omitempty"`

	Backend      string `json:"backend,omitempty"`
	Quote        *Quote `json:"quote,omitempty"`
	MinAmountOut string `json:"min_amount_out,omitempty"`

	State  State         `json:"state"`
	Reason FailureReason `json:"reason,omitempty"`
	Error  string        `json:"error,omitempty"`

	// PendingTxHash is set when a transaction was submitted but its inclusion
	// could not be observed. It may still be mined.
	PendingTxHash string `json:"pending_tx_hash,omitempty"`
}

// Failed builds a failed receipt.
func Failed(reason FailureReason, err error) SwapReceipt {
	return SwapReceipt{
		State:  StateFailed,
		Reason: reason,
		Error:  err.Error(),
	}
}
