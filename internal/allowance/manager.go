// Package allowance makes sure a spender may move enough of the owner's tokens
// before a swap is submitted.
package allowance

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fleshka4/polyswap/internal/apperrors"
	"github.com/fleshka4/polyswap/internal/chain"
	"github.com/fleshka4/polyswap/internal/contracts"
	"github.com/fleshka4/polyswap/internal/metrics"
)

// Manager checks and raises ERC20 allowances.
type Manager struct {
	chain  chain.Chain
	logger *logrus.Logger

	inclusionTimeout time.Duration
}

// NewManager creates a Manager. inclusionTimeout bounds the wait for an
// approval to be mined.
func NewManager(c chain.Chain, inclusionTimeout time.Duration, logger *logrus.Logger) *Manager {
	return &Manager{
		chain:            c,
		logger:           logger,
		inclusionTimeout: inclusionTimeout,
	}
}

// Allowance reads the current allowance. It is never cached: other actors may
// change it at any time.
func (m *Manager) Allowance(ctx context.Context, owner, spender, token common.Address) (*big.Int, error) {
	data, err := contracts.ERC20.Pack("allowance", owner, spender)
	if err != nil {
		return nil, errors.Wrap(err, "contracts.ERC20.Pack")
	}

	res, err := m.chain.Call(ctx, token, data)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrRemoteCallFailed, err.Error())
	}

	out, err := contracts.ERC20.Unpack("allowance", res)
	if err != nil || len(out) == 0 {
		return nil, errors.Wrapf(apperrors.ErrRemoteCallFailed, "token %s: unexpected allowance result", token.Hex())
	}
	current, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("failed to cast allowance to *big.Int")
	}

	return current, nil
}

// EnsureAllowance approves exactly required if the current allowance is lower.
// It returns once the approval is mined. Any failure wraps ErrApprovalFailed.
func (m *Manager) EnsureAllowance(ctx context.Context, owner, spender, token common.Address, required *big.Int) error {
	log := m.logger.WithFields(logrus.Fields{
		"token":   token.Hex(),
		"spender": spender.Hex(),
	})

	current, err := m.Allowance(ctx, owner, spender, token)
	if err != nil {
		metrics.ApprovalCounter.WithLabelValues("failed").Inc()
		return errors.Wrapf(apperrors.ErrApprovalFailed, "read allowance: %v", err)
	}

	if current.Cmp(required) >= 0 {
		metrics.ApprovalCounter.WithLabelValues("sufficient").Inc()
		log.WithField("allowance", current.String()).Debug("allowance sufficient")
		return nil
	}

	data, err := contracts.ERC20.Pack("approve", spender, required)
	if err != nil {
		return errors.Wrap(err, "contracts.ERC20.Pack")
	}

	hash, err := m.chain.SendTransaction(ctx, token, data, nil)
	if err != nil {
		metrics.ApprovalCounter.WithLabelValues("failed").Inc()
		return errors.Wrapf(apperrors.ErrApprovalFailed, "send approve: %v", err)
	}
	log = log.WithField("txHash", hash.Hex())
	log.WithField("amount", required.String()).Info("approval submitted")

	waitCtx, cancel := context.WithTimeout(ctx, m.inclusionTimeout)
	defer cancel()

	inclusion, err := m.chain.WaitForInclusion(waitCtx, hash)
	if err != nil {
		metrics.ApprovalCounter.WithLabelValues("failed").Inc()
		return errors.Wrapf(apperrors.ErrApprovalFailed, "approve %s not included: %v", hash.Hex(), err)
	}
	if !inclusion.Succeeded() {
		metrics.ApprovalCounter.WithLabelValues("failed").Inc()
		return errors.Wrapf(apperrors.ErrApprovalFailed, "approve %s reverted", hash.Hex())
	}

	metrics.ApprovalCounter.WithLabelValues("approved").Inc()
	log.Info("approval included")

	return nil
}
