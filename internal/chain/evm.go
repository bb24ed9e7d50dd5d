package chain

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Gas limit is the node estimate plus 10%.
const (
	gasLimitNum = 110
	gasLimitDen = 100
)

// Options configures an EVM connection.
type Options struct {
	ChainID       uint64
	EIP1559       bool
	CallTimeout   time.Duration
	PollInterval  time.Duration
	Confirmations uint64
}

// EVM implements Chain over a JSON-RPC node.
type EVM struct {
	client EthClient
	logger *logrus.Logger

	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
	opts    Options

	// nonceMu serializes nonce lookup and submission so concurrent requests
	// from the same wallet do not reuse a nonce.
	nonceMu sync.Mutex
}

// NewEVM dials rpcURL. privateKeyHex may be empty, in which case the
// connection is read-only and SendTransaction fails.
func NewEVM(rpcURL, privateKeyHex string, opts Options, logger *logrus.Logger) (*EVM, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "ethclient.Dial")
	}

	var key *ecdsa.PrivateKey
	if privateKeyHex != "" {
		key, err = crypto.HexToECDSA(trimHexPrefix(privateKeyHex))
		if err != nil {
			return nil, errors.Wrap(err, "crypto.HexToECDSA")
		}
	}

	return newEVMWithClient(client, key, opts, logger), nil
}

func newEVMWithClient(client EthClient, key *ecdsa.PrivateKey, opts Options, logger *logrus.Logger) *EVM {
	e := &EVM{
		client:  client,
		logger:  logger,
		key:     key,
		chainID: new(big.Int).SetUint64(opts.ChainID),
		opts:    opts,
	}
	if key != nil {
		e.address = crypto.PubkeyToAddress(key.PublicKey)
	}
	if e.opts.PollInterval == 0 {
		e.opts.PollInterval = time.Second
	}
	return e
}

// Address returns the wallet address, or the zero address in read-only mode.
func (e *EVM) Address() common.Address {
	return e.address
}

// Call executes an eth_call from the wallet address against the latest block.
func (e *EVM) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	ctx, cancel := e.withCallTimeout(ctx)
	defer cancel()

	res, err := e.client.CallContract(ctx, ethereum.CallMsg{
		From: e.address,
		To:   &to,
		Data: data,
	}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "e.client.CallContract")
	}

	return res, nil
}

// NativeBalance returns the wallet's balance of the gas token in wei.
func (e *EVM) NativeBalance(ctx context.Context) (*big.Int, error) {
	if e.key == nil {
		return nil, errors.New("signer not configured")
	}

	ctx, cancel := e.withCallTimeout(ctx)
	defer cancel()

	balance, err := e.client.BalanceAt(ctx, e.address, nil)
	if err != nil {
		return nil, errors.Wrap(err, "e.client.BalanceAt")
	}

	return balance, nil
}

// SendTransaction estimates gas, prices, signs and submits a transaction.
func (e *EVM) SendTransaction(ctx context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error) {
	if e.key == nil {
		return common.Hash{}, errors.New("signer not configured")
	}
	if value == nil {
		value = new(big.Int)
	}

	e.nonceMu.Lock()
	defer e.nonceMu.Unlock()

	callCtx, cancel := e.withCallTimeout(ctx)
	defer cancel()

	nonce, err := e.client.PendingNonceAt(callCtx, e.address)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "e.client.PendingNonceAt")
	}

	estimated, err := e.client.EstimateGas(callCtx, ethereum.CallMsg{
		From:  e.address,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "e.client.EstimateGas")
	}
	gasLimit := estimated * gasLimitNum / gasLimitDen

	tx, err := e.buildTx(callCtx, nonce, to, value, gasLimit, data)
	if err != nil {
		return common.Hash{}, err
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(e.chainID), e.key)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "types.SignTx")
	}

	if err := e.client.SendTransaction(callCtx, signed); err != nil {
		e.logger.WithError(err).WithField("to", to.Hex()).Error("failed to send transaction")
		return common.Hash{}, errors.Wrap(err, "e.client.SendTransaction")
	}

	e.logger.WithFields(logrus.Fields{
		"txHash": signed.Hash().Hex(),
		"to":     to.Hex(),
		"nonce":  nonce,
		"gas":    gasLimit,
	}).Info("transaction submitted")

	return signed.Hash(), nil
}

func (e *EVM) buildTx(ctx context.Context, nonce uint64, to common.Address, value *big.Int, gasLimit uint64, data []byte) (*types.Transaction, error) {
	if e.opts.EIP1559 {
		tip, err := e.client.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "e.client.SuggestGasTipCap")
		}
		head, err := e.client.HeaderByNumber(ctx, nil)
		if err != nil {
			return nil, errors.Wrap(err, "e.client.HeaderByNumber")
		}
		if head.BaseFee == nil {
			return nil, errors.New("chain has no base fee, use legacy tx_type")
		}
		feeCap := new(big.Int).Add(tip, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))

		return types.NewTx(&types.DynamicFeeTx{
			ChainID:   e.chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gasLimit,
			To:        &to,
			Value:     value,
			Data:      data,
		}), nil
	}

	gasPrice, err := e.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "e.client.SuggestGasPrice")
	}

	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    value,
		Data:     data,
	}), nil
}

// WaitForInclusion polls for the receipt until it is Confirmations blocks deep.
func (e *EVM) WaitForInclusion(ctx context.Context, hash common.Hash) (*Inclusion, error) {
	ticker := time.NewTicker(e.opts.PollInterval)
	defer ticker.Stop()

	for {
		inclusion, err := e.checkReceipt(ctx, hash)
		if err != nil {
			return nil, err
		}
		if inclusion != nil {
			return inclusion, nil
		}

		select {
		case <-ctx.Done():
			e.logger.WithField("txHash", hash.Hex()).Warn("WaitForInclusion: context done")
			return nil, errors.Wrap(ctx.Err(), "transaction not included")
		case <-ticker.C:
		}
	}
}

// checkReceipt returns nil without error while the receipt is missing or not
// deep enough.
func (e *EVM) checkReceipt(ctx context.Context, hash common.Hash) (*Inclusion, error) {
	callCtx, cancel := e.withCallTimeout(ctx)
	defer cancel()

	receipt, err := e.client.TransactionReceipt(callCtx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "e.client.TransactionReceipt")
	}

	if e.opts.Confirmations > 0 {
		head, err := e.client.BlockNumber(callCtx)
		if err != nil {
			return nil, errors.Wrap(err, "e.client.BlockNumber")
		}
		if head < receipt.BlockNumber.Uint64()+e.opts.Confirmations {
			return nil, nil
		}
	}

	return &Inclusion{
		Status:      receipt.Status,
		GasUsed:     receipt.GasUsed,
		BlockNumber: receipt.BlockNumber.Uint64(),
		Logs:        receipt.Logs,
	}, nil
}

func (e *EVM) withCallTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.opts.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.opts.CallTimeout)
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
