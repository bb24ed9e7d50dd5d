package config

import (
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// PrivateKeyEnv is the environment variable holding the hex encoded signing key.
const PrivateKeyEnv = "POLYSWAP_PRIVATE_KEY"

// Backend kinds.
const (
	KindUniswapV2 = "uniswap_v2"
	KindUniswapV3 = "uniswap_v3"
)

// Transaction types.
const (
	TxTypeLegacy  = "legacy"
	TxTypeEIP1559 = "eip1559"
)

// Config holds application configuration loaded from file.
type Config struct {
	RPCURL     string `yaml:"rpc_url"`
	ChainID    uint64 `yaml:"chain_id"`
	TxType     string `yaml:"tx_type"`
	PrivateKey string `yaml:"-"`

	ListenAddr        string        `yaml:"listen_addr"`
	GraceTimeout      time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`

	CallTimeout      time.Duration `yaml:"call_timeout"`
	QuoteTimeout     time.Duration `yaml:"quote_timeout"`
	InclusionTimeout time.Duration `yaml:"inclusion_timeout"`
	PollInterval     time.Duration `yaml:"poll_interval"`
	Confirmations    uint64        `yaml:"confirmations"`

	// DefaultSlippage is nil only when the key is absent, an explicit 0 is kept.
	DefaultSlippage *decimal.Decimal `yaml:"default_slippage"`
	DefaultDeadline time.Duration   `yaml:"default_deadline"`

	Log Log `yaml:"log"`

	// NativeSymbol names the gas token in CLI output.
	NativeSymbol string `yaml:"native_symbol"`

	// Tokens maps a symbol to its address, used by the CLI to accept symbols.
	Tokens map[string]string `yaml:"tokens"`

	// Backends is ordered by priority: on equal output the earlier one wins.
	Backends []Backend `yaml:"backends"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Backend describes one DEX deployment.
type Backend struct {
	ID            string   `yaml:"id"`
	Kind          string   `yaml:"kind"`
	Router        string   `yaml:"router"`
	Factory       string   `yaml:"factory"`
	Quoter        string   `yaml:"quoter"`
	FeeTiers      []uint32 `yaml:"fee_tiers"`
	Intermediates []string `yaml:"intermediates"`
	GasPerHop     uint64   `yaml:"gas_per_hop"`
}

// Load reads the config from a YAML file path and the signing key from the
// environment (optionally populated from a .env file).
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "os.Open")
	}
	defer func() { _ = f.Close() }()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoder.Decode")
	}

	// .env is optional.
	_ = godotenv.Load()
	cfg.PrivateKey = os.Getenv(PrivateKeyEnv)

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	const defaultTimeout = 5 * time.Second
	if c.ListenAddr == "" {
		c.ListenAddr = ":1337"
	}
	if c.GraceTimeout == 0 {
		c.GraceTimeout = defaultTimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 3 * time.Minute
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = defaultTimeout
	}
	if c.CallTimeout == 0 {
		c.CallTimeout = defaultTimeout
	}
	if c.QuoteTimeout == 0 {
		c.QuoteTimeout = 10 * time.Second
	}
	if c.InclusionTimeout == 0 {
		c.InclusionTimeout = 2 * time.Minute
	}
	if c.PollInterval == 0 {
		c.PollInterval = time.Second
	}
	if c.TxType == "" {
		c.TxType = TxTypeEIP1559
	}
	if c.DefaultSlippage == nil {
		slippage := decimal.RequireFromString("0.5")
		c.DefaultSlippage = &slippage
	}
	if c.DefaultDeadline == 0 {
		c.DefaultDeadline = 20 * time.Minute
	}
	if c.NativeSymbol == "" {
		c.NativeSymbol = "MATIC"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if len(c.Backends) == 0 {
		c.Backends = DefaultPolygonBackends()
	}
	for i := range c.Backends {
		b := &c.Backends[i]
		if b.Kind == KindUniswapV3 && len(b.FeeTiers) == 0 {
			b.FeeTiers = []uint32{100, 500, 3000, 10000}
		}
		if b.Kind == KindUniswapV2 && b.GasPerHop == 0 {
			b.GasPerHop = 120000
		}
	}
}

// Validate checks required fields and address syntax.
func (c *Config) Validate() error {
	if c.RPCURL == "" {
		return errors.New("rpc_url is required in config")
	}
	if c.ChainID == 0 {
		return errors.New("chain_id is required in config")
	}
	if c.TxType != TxTypeLegacy && c.TxType != TxTypeEIP1559 {
		return errors.Errorf("unknown tx_type %q", c.TxType)
	}
	if c.DefaultSlippage != nil &&
		(c.DefaultSlippage.IsNegative() || c.DefaultSlippage.GreaterThanOrEqual(decimal.NewFromInt(100))) {
		return errors.Errorf("default_slippage %s out of range [0, 100)", c.DefaultSlippage)
	}
	for symbol, addr := range c.Tokens {
		if !common.IsHexAddress(addr) {
			return errors.Errorf("token %s: bad address %q", symbol, addr)
		}
	}

	seen := make(map[string]struct{}, len(c.Backends))
	for _, b := range c.Backends {
		if b.ID == "" {
			return errors.New("backend id is required")
		}
		if _, ok := seen[b.ID]; ok {
			return errors.Errorf("duplicate backend id %q", b.ID)
		}
		seen[b.ID] = struct{}{}

		required := []string{b.Router, b.Factory}
		switch b.Kind {
		case KindUniswapV2:
		case KindUniswapV3:
			required = append(required, b.Quoter)
		default:
			return errors.Errorf("backend %s: unknown kind %q", b.ID, b.Kind)
		}
		for _, addr := range append(required, b.Intermediates...) {
			if !common.IsHexAddress(addr) {
				return errors.Errorf("backend %s: bad address %q", b.ID, addr)
			}
		}
	}

	return nil
}

// TokenAddresses returns the token table keyed by upper case symbol.
func (c *Config) TokenAddresses() map[string]common.Address {
	out := make(map[string]common.Address, len(c.Tokens))
	for symbol, addr := range c.Tokens {
		out[strings.ToUpper(symbol)] = common.HexToAddress(addr)
	}
	return out
}

// DefaultPolygonBackends returns the Uniswap V3, QuickSwap V2 and SushiSwap
// deployments on Polygon mainnet, in priority order.
func DefaultPolygonBackends() []Backend {
	const (
		wmatic = "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270"
		usdc   = "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"
	)
	return []Backend{
		{
			ID:       "uniswap_v3",
			Kind:     KindUniswapV3,
			Router:   "0x68b3465833fb72A70ecDF485E0e4C7bD8665Fc45",
			Factory:  "0x1F98431c8aD98523631AE4a59f267346ea31F984",
			Quoter:   "0x61fFE014bA17989E743c5F6cB21bF9697530B21e",
			FeeTiers: []uint32{100, 500, 3000, 10000},
		},
		{
			ID:            "quickswap_v2",
			Kind:          KindUniswapV2,
			Router:        "0xa5E0829CaCEd8fFDD4De3c43696c57F7D7A678ff",
			Factory:       "0x5757371414417b8C6CAad45bAeF941aBc7d3Ab32",
			Intermediates: []string{wmatic, usdc},
			GasPerHop:     120000,
		},
		{
			ID:            "sushiswap",
			Kind:          KindUniswapV2,
			Router:        "0x1b02dA8Cb0d097eB8D57A175b88c7D8b47997506",
			Factory:       "0xc35DADB65012eC5796536bD9864eD8773aBc74C4",
			Intermediates: []string{wmatic, usdc},
			GasPerHop:     120000,
		},
	}
}
