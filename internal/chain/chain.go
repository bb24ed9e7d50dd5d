// Package chain is the connection to the EVM node: read calls, signed
// state-changing transactions and inclusion tracking.
package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

//go:generate mockgen -source=chain.go -destination=mock/chain.go -package=mock

// Caller performs read-only contract calls.
type Caller interface {
	// Call executes an eth_call of data against the contract at to and returns
	// the raw result.
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// Chain is the full chain collaborator used by the swap flow.
type Chain interface {
	Caller

	// Address returns the wallet address transactions are sent from.
	Address() common.Address

	// SendTransaction signs and submits a transaction calling to with data and value.
	SendTransaction(ctx context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error)

	// WaitForInclusion blocks until the transaction has a receipt or ctx is done.
	WaitForInclusion(ctx context.Context, hash common.Hash) (*Inclusion, error)
}

// Inclusion describes a mined transaction.
type Inclusion struct {
	Status      uint64
	GasUsed     uint64
	BlockNumber uint64
	Logs        []*types.Log
}

// Succeeded reports whether the transaction executed without revert.
func (i *Inclusion) Succeeded() bool {
	return i != nil && i.Status == types.ReceiptStatusSuccessful
}

// EthClient is the subset of ethclient.Client used by EVM.
type EthClient interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	BlockNumber(ctx context.Context) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}
