package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(PrivateKeyEnv, "0xabc")

	cfg, err := Load(writeConfig(t, "rpc_url: http://localhost:8545\nchain_id: 137\n"))
	require.NoError(t, err)

	require.Equal(t, "0xabc", cfg.PrivateKey)
	require.Equal(t, ":1337", cfg.ListenAddr)
	require.Equal(t, TxTypeEIP1559, cfg.TxType)
	require.Equal(t, 10*time.Second, cfg.QuoteTimeout)
	require.Equal(t, 2*time.Minute, cfg.InclusionTimeout)
	require.Equal(t, 20*time.Minute, cfg.DefaultDeadline)
	require.True(t, decimal.RequireFromString("0.5").Equal(*cfg.DefaultSlippage))
	require.Equal(t, "MATIC", cfg.NativeSymbol)
	require.Equal(t, "info", cfg.Log.Level)

	require.Len(t, cfg.Backends, 3)
	require.Equal(t, "uniswap_v3", cfg.Backends[0].ID)
	require.Equal(t, []uint32{100, 500, 3000, 10000}, cfg.Backends[0].FeeTiers)
	require.Equal(t, uint64(120000), cfg.Backends[1].GasPerHop)
}

func TestLoadFile(t *testing.T) {
	t.Setenv(PrivateKeyEnv, "")

	cfg, err := Load(writeConfig(t, `
rpc_url: http://localhost:8545
chain_id: 80002
tx_type: legacy
quote_timeout: 3s
default_slippage: "1.5"
tokens:
  usdc: "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"
backends:
  - id: v2
    kind: uniswap_v2
    router: "0xa5E0829CaCEd8fFDD4De3c43696c57F7D7A678ff"
    factory: "0x5757371414417b8C6CAad45bAeF941aBc7d3Ab32"
    gas_per_hop: 90000
`))
	require.NoError(t, err)

	require.Empty(t, cfg.PrivateKey)
	require.Equal(t, TxTypeLegacy, cfg.TxType)
	require.Equal(t, 3*time.Second, cfg.QuoteTimeout)
	require.True(t, decimal.RequireFromString("1.5").Equal(*cfg.DefaultSlippage))
	require.Len(t, cfg.Backends, 1)
	require.Equal(t, uint64(90000), cfg.Backends[0].GasPerHop)

	require.Equal(t, map[string]common.Address{
		"USDC": common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"),
	}, cfg.TokenAddresses())
}

func TestLoadExplicitZeroSlippage(t *testing.T) {
	t.Setenv(PrivateKeyEnv, "")

	cfg, err := Load(writeConfig(t, "rpc_url: http://localhost:8545\nchain_id: 137\ndefault_slippage: \"0\"\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.DefaultSlippage)
	require.True(t, cfg.DefaultSlippage.IsZero(), cfg.DefaultSlippage.String())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "os.Open")

	_, err = Load(writeConfig(t, "rpc_url: [\n"))
	require.ErrorContains(t, err, "decoder.Decode")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		c := Config{RPCURL: "http://localhost:8545", ChainID: 137}
		c.applyDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "ok", mutate: func(*Config) {}},
		{name: "no rpc", mutate: func(c *Config) { c.RPCURL = "" }, wantErr: "rpc_url"},
		{name: "no chain id", mutate: func(c *Config) { c.ChainID = 0 }, wantErr: "chain_id"},
		{name: "tx type", mutate: func(c *Config) { c.TxType = "blob" }, wantErr: "tx_type"},
		{name: "slippage", mutate: func(c *Config) { v := decimal.NewFromInt(100); c.DefaultSlippage = &v }, wantErr: "default_slippage"},
		{name: "token", mutate: func(c *Config) { c.Tokens = map[string]string{"X": "nope"} }, wantErr: "token X"},
		{name: "duplicate backend", mutate: func(c *Config) { c.Backends[2].ID = c.Backends[1].ID }, wantErr: "duplicate"},
		{name: "empty backend id", mutate: func(c *Config) { c.Backends[0].ID = "" }, wantErr: "id is required"},
		{name: "unknown kind", mutate: func(c *Config) { c.Backends[0].Kind = "curve" }, wantErr: "unknown kind"},
		{name: "v3 without quoter", mutate: func(c *Config) { c.Backends[0].Quoter = "" }, wantErr: "bad address"},
		{name: "bad intermediate", mutate: func(c *Config) { c.Backends[1].Intermediates = []string{"0x1"} }, wantErr: "bad address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
