package dex

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fleshka4/polyswap/internal/apperrors"
	"github.com/fleshka4/polyswap/internal/chain"
	"github.com/fleshka4/polyswap/internal/contracts"
	"github.com/fleshka4/polyswap/internal/domain"
	"github.com/fleshka4/polyswap/internal/units"
)

// Revert reasons routers emit when the output is below the minimum.
var slippageReasons = []string{
	"INSUFFICIENT_OUTPUT_AMOUNT", // Uniswap V2 and forks
	"Too little received",        // Uniswap V3 SwapRouter
}

// Execution is a prepared swap call.
type Execution struct {
	Backend     string
	Router      common.Address
	Data        []byte
	Params      SwapParams
	DecimalsOut uint8
}

// Execute submits the call, waits for inclusion and builds the receipt. It
// never returns an error: every failure is folded into the receipt.
func Execute(ctx context.Context, c chain.Chain, ex Execution, logger *logrus.Logger) domain.SwapReceipt {
	log := logger.WithFields(logrus.Fields{
		"backend": ex.Backend,
		"router":  ex.Router.Hex(),
	})

	receipt := domain.SwapReceipt{
		Backend: ex.Backend,
		Quote:   ex.Params.Quote,
		State:   domain.StateFailed,
	}

	hash, err := c.SendTransaction(ctx, ex.Router, ex.Data, nil)
	if err != nil {
		receipt.Reason, err = classifySendError(err)
		receipt.Error = errors.Wrapf(err, "%s swap failed", ex.Backend).Error()
		log.WithError(err).Warn("swap not submitted")
		return receipt
	}
	log = log.WithField("txHash", hash.Hex())

	inclusion, err := c.WaitForInclusion(ctx, hash)
	if err != nil {
		receipt.Reason = domain.ReasonPending
		receipt.PendingTxHash = hash.Hex()
		receipt.Error = errors.Wrapf(apperrors.ErrSwapExecutionFailed,
			"%s swap %s submitted but inclusion not observed, it may still be mined: %v", ex.Backend, hash.Hex(), err).Error()
		log.WithError(err).Warn("swap inclusion not observed")
		return receipt
	}

	receipt.GasUsed = inclusion.GasUsed
	receipt.BlockNumber = inclusion.BlockNumber

	if !inclusion.Succeeded() {
		receipt.Reason = domain.ReasonExecutionReverted
		receipt.Error = errors.Wrapf(apperrors.ErrSwapExecutionFailed, "%s swap %s reverted on-chain", ex.Backend, hash.Hex()).Error()
		log.Warn("swap reverted")
		return receipt
	}

	receipt.Success = true
	receipt.State = domain.StateConfirmed
	receipt.TxHash = hash.Hex()
	receipt.AmountOut = ex.Params.Quote.AmountOut
	if realized, ok := TransferredTo(inclusion.Logs, ex.Params.Quote.TokenOut, ex.Params.Request.Recipient); ok {
		receipt.AmountOut = units.FromBaseUnits(realized, ex.DecimalsOut)
	}

	log.WithFields(logrus.Fields{
		"amountOut": receipt.AmountOut,
		"gasUsed":   receipt.GasUsed,
	}).Info("swap confirmed")

	return receipt
}

func classifySendError(err error) (domain.FailureReason, error) {
	if !chain.IsRevert(err) {
		return domain.ReasonTransport, errors.Wrap(apperrors.ErrRemoteCallFailed, err.Error())
	}

	reason := chain.RevertReason(err)
	for _, r := range slippageReasons {
		if strings.Contains(reason, r) {
			return domain.ReasonSlippageExceeded, errors.Wrap(apperrors.ErrSlippageExceeded, reason)
		}
	}
	if reason == "" {
		reason = err.Error()
	}

	return domain.ReasonExecutionReverted, errors.Wrapf(apperrors.ErrSwapExecutionFailed, "execution reverted: %s", reason)
}

// TransferredTo sums ERC20 Transfer events of token to recipient.
func TransferredTo(logs []*types.Log, token, recipient common.Address) (*big.Int, bool) {
	total := new(big.Int)
	found := false
	for _, l := range logs {
		if l == nil || l.Address != token || len(l.Topics) != 3 || l.Topics[0] != contracts.TransferTopic {
			continue
		}
		if common.BytesToAddress(l.Topics[2].Bytes()) != recipient {
			continue
		}
		total.Add(total, new(big.Int).SetBytes(l.Data))
		found = true
	}
	return total, found
}
