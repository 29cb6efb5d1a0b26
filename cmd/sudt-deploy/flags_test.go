package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/urfave/cli.v1"
	"perun.network/perun-ckb-sudt/config"
)

func runWithFlags(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()
	var (
		cfg config.Config
		err error
	)
	app := cli.NewApp()
	app.Flags = deployFlags
	app.Action = func(ctx *cli.Context) error {
		cfg, err = makeConfig(ctx)
		return nil
	}
	require.NoError(t, app.Run(append([]string{"sudt-deploy"}, args...)))
	return cfg, err
}

func TestMakeConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := runWithFlags(t)
		require.NoError(t, err)
		require.Equal(t, config.DefaultConfig(), cfg)
	})

	t.Run("Flags", func(t *testing.T) {
		cfg, err := runWithFlags(t,
			"--rpc", "http://node:8114",
			"--validator", "passthrough",
			"--maxattempts", "3",
			"--amount", "6543421",
		)
		require.NoError(t, err)
		require.Equal(t, "http://node:8114", cfg.Node.URL)
		require.Equal(t, "passthrough", cfg.Submit.OutputsValidator)
		require.Equal(t, uint(3), cfg.Submit.MaxAttempts)
		require.Equal(t, "6543421", cfg.Issue.Amount)
	})

	t.Run("FlagsOverrideFile", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(file, []byte("[Node]\nURL = \"http://file:8114\"\n\n[Issue]\nFee = 42\n"), 0o600))
		cfg, err := runWithFlags(t, "--config", file, "--rpc", "http://flag:8114")
		require.NoError(t, err)
		require.Equal(t, "http://flag:8114", cfg.Node.URL)
		require.Equal(t, uint64(42), cfg.Issue.Fee)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := runWithFlags(t, "--validator", "none")
		require.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}
