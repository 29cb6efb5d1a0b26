package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Pilatuz/bigz/uint128"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/nervosnetwork/ckb-sdk-go/v2/types"
	"github.com/stretchr/testify/require"
	"perun.network/perun-ckb-sudt/backend"
	"perun.network/perun-ckb-sudt/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))
	return file
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Validate())

	params, err := cfg.Params()
	require.NoError(t, err)
	require.Equal(t, types.NetworkTest, params.Network)
	require.Equal(t, uint128.From64(100_000_000), params.Amount)
	require.Equal(t, uint64(20_000_000_000_000), params.TokenCellCapacity)
	require.Equal(t, uint64(100_000_000), params.Fee)
	require.Nil(t, params.DeployTxHash)
	require.Equal(t, backend.WellKnownScriptsOnly, params.Validator)
	require.Equal(t, time.Second, params.PollingInterval)
	require.Zero(t, params.MaxAttempts)

	sender, recipient, err := cfg.Accounts()
	require.NoError(t, err)
	require.False(t, sender.PubKey().IsEqual(recipient.PubKey()))
}

func TestLoad(t *testing.T) {
	file := writeConfig(t, `
[Node]
URL = "http://10.0.0.1:8114"

[Contract]
DeployTxHash = "0x8277d74d33850581f8d843613ded0c2a1722dec0e87e748f45c115dfb14210f1"
DeployIndex = 1

[Issue]
Amount = "340282366920938463463374607431768211455"

[Submit]
OutputsValidator = "passthrough"
PollingInterval = "250ms"
MaxAttempts = 30
`)
	cfg := config.DefaultConfig()
	require.NoError(t, config.Load(file, &cfg))
	require.Equal(t, "http://10.0.0.1:8114", cfg.Node.URL)
	require.Equal(t, config.DefaultNetwork, cfg.Node.Network, "missing values keep their defaults")
	require.Equal(t, config.DefaultBinaryPath, cfg.Contract.BinaryPath)

	params, err := cfg.Params()
	require.NoError(t, err)
	require.Equal(t, uint128.Max(), params.Amount)
	require.Equal(t, "0x8277d74d33850581f8d843613ded0c2a1722dec0e87e748f45c115dfb14210f1", hexutil.Encode(params.DeployTxHash.Bytes()))
	require.Equal(t, uint32(1), params.DeployIndex)
	require.Equal(t, backend.Passthrough, params.Validator)
	require.Equal(t, 250*time.Millisecond, params.PollingInterval)
	require.Equal(t, uint(30), params.MaxAttempts)

	t.Run("UnknownField", func(t *testing.T) {
		file := writeConfig(t, "[Node]\nPort = 8114\n")
		cfg := config.DefaultConfig()
		require.Error(t, config.Load(file, &cfg))
	})

	t.Run("MissingFile", func(t *testing.T) {
		cfg := config.DefaultConfig()
		require.Error(t, config.Load(filepath.Join(t.TempDir(), "missing.toml"), &cfg))
	})

	t.Run("Dump", func(t *testing.T) {
		out, err := config.Dump(&cfg)
		require.NoError(t, err)
		loaded := config.DefaultConfig()
		require.NoError(t, config.Load(writeConfig(t, string(out)), &loaded))
		require.Equal(t, cfg, loaded)
	})
}

func TestValidate(t *testing.T) {
	for name, mod := range map[string]func(*config.Config){
		"URL":              func(c *config.Config) { c.Node.URL = "" },
		"Network":          func(c *config.Config) { c.Node.Network = "devnet" },
		"SenderKey":        func(c *config.Config) { c.Keys.Sender = "0x1234" },
		"RecipientKey":     func(c *config.Config) { c.Keys.Recipient = "" },
		"BinaryPath":       func(c *config.Config) { c.Contract.BinaryPath = "" },
		"DeployTxHash":     func(c *config.Config) { c.Contract.DeployTxHash = "0xabcd" },
		"Amount":           func(c *config.Config) { c.Issue.Amount = "-1" },
		"AmountOverflow":   func(c *config.Config) { c.Issue.Amount = "340282366920938463463374607431768211456" },
		"TokenCell":        func(c *config.Config) { c.Issue.TokenCellCapacity = 0 },
		"OutputsValidator": func(c *config.Config) { c.Submit.OutputsValidator = "none" },
		"PollingInterval":  func(c *config.Config) { c.Submit.PollingInterval = 0 },
	} {
		mod := mod
		t.Run(name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			mod(&cfg)
			require.ErrorIs(t, cfg.Validate(), config.ErrInvalidConfig)
			_, err := cfg.Params()
			require.Error(t, err)
		})
	}
}
