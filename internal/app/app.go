// Package app wires configuration into a running swap service.
package app

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fleshka4/polyswap/internal/aggregator"
	"github.com/fleshka4/polyswap/internal/allowance"
	"github.com/fleshka4/polyswap/internal/chain"
	"github.com/fleshka4/polyswap/internal/config"
	"github.com/fleshka4/polyswap/internal/dex"
	"github.com/fleshka4/polyswap/internal/dex/uniswapv2"
	"github.com/fleshka4/polyswap/internal/dex/uniswapv3"
	"github.com/fleshka4/polyswap/internal/service"
	"github.com/fleshka4/polyswap/internal/tokens"
)

// App holds the wired components.
type App struct {
	Config     config.Config
	Logger     *logrus.Logger
	Chain      *chain.EVM
	Tokens     *tokens.Resolver
	Aggregator *aggregator.Aggregator
	Service    *service.SwapService
}

// New dials the node and builds every component from cfg.
func New(cfg config.Config, logger *logrus.Logger) (*App, error) {
	evm, err := chain.NewEVM(cfg.RPCURL, cfg.PrivateKey, chain.Options{
		ChainID:       cfg.ChainID,
		EIP1559:       cfg.TxType == config.TxTypeEIP1559,
		CallTimeout:   cfg.CallTimeout,
		PollInterval:  cfg.PollInterval,
		Confirmations: cfg.Confirmations,
	}, logger)
	if err != nil {
		return nil, errors.Wrap(err, "chain.NewEVM")
	}
	if evm.Address() == (common.Address{}) {
		logger.Warnf("%s is not set, swaps are disabled", config.PrivateKeyEnv)
	}

	resolver := tokens.NewResolver(evm)

	backends, err := Backends(cfg.Backends, evm, resolver, logger)
	if err != nil {
		return nil, err
	}

	agg := aggregator.New(backends, cfg.QuoteTimeout, logger)
	svc := service.NewSwapService(
		agg,
		allowance.NewManager(evm, cfg.InclusionTimeout, logger),
		resolver,
		service.Options{
			Owner:            evm.Address(),
			DefaultSlippage:  *cfg.DefaultSlippage,
			DefaultDeadline:  cfg.DefaultDeadline,
			InclusionTimeout: cfg.InclusionTimeout,
		},
		logger,
	)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Chain:      evm,
		Tokens:     resolver,
		Aggregator: agg,
		Service:    svc,
	}, nil
}

// Backends builds one adapter per configured deployment, keeping the
// configured order.
func Backends(cfgs []config.Backend, c chain.Chain, resolver dex.TokenResolver, logger *logrus.Logger) ([]dex.Backend, error) {
	backends := make([]dex.Backend, 0, len(cfgs))
	for _, b := range cfgs {
		switch b.Kind {
		case config.KindUniswapV2:
			intermediates := make([]common.Address, 0, len(b.Intermediates))
			for _, addr := range b.Intermediates {
				intermediates = append(intermediates, common.HexToAddress(addr))
			}
			backends = append(backends, uniswapv2.New(uniswapv2.Config{
				ID:            b.ID,
				Router:        common.HexToAddress(b.Router),
				Factory:       common.HexToAddress(b.Factory),
				Intermediates: intermediates,
				GasPerHop:     b.GasPerHop,
			}, c, resolver, logger))
		case config.KindUniswapV3:
			backends = append(backends, uniswapv3.New(uniswapv3.Config{
				ID:       b.ID,
				Router:   common.HexToAddress(b.Router),
				Factory:  common.HexToAddress(b.Factory),
				Quoter:   common.HexToAddress(b.Quoter),
				FeeTiers: b.FeeTiers,
			}, c, resolver, logger))
		default:
			return nil, errors.Errorf("backend %s: unknown kind %q", b.ID, b.Kind)
		}
		logger.WithFields(logrus.Fields{"backend": b.ID, "kind": b.Kind}).Debug("backend registered")
	}

	return backends, nil
}
