package main

import (
	"gopkg.in/urfave/cli.v1"
	"perun.network/perun-ckb-sudt/config"
)

var ConfigFileFlag = cli.StringFlag{
	Name:  "config",
	Usage: "TOML configuration file",
}

var RPCFlag = cli.StringFlag{
	Name:  "rpc",
	Usage: "CKB node RPC endpoint",
	Value: config.DefaultURL,
}

var NetworkFlag = cli.StringFlag{
	Name:  "network",
	Usage: "Address format of the chain (mainnet or testnet)",
	Value: config.DefaultNetwork,
}

var BinaryFlag = cli.StringFlag{
	Name:  "binary",
	Usage: "Path of the compiled sUDT contract",
	Value: config.DefaultBinaryPath,
}

var DeployTxFlag = cli.StringFlag{
	Name:  "deploytx",
	Usage: "Hash of an existing deployment of the contract, skips deploying it",
}

var AmountFlag = cli.StringFlag{
	Name:  "amount",
	Usage: "Number of tokens to issue",
	Value: config.DefaultAmount,
}

var ValidatorFlag = cli.StringFlag{
	Name:  "validator",
	Usage: "Outputs validator passed to send_transaction (well_known_scripts_only or passthrough)",
	Value: "well_known_scripts_only",
}

var MaxAttemptsFlag = cli.UintFlag{
	Name:  "maxattempts",
	Usage: "Maximum number of status polls per transaction, 0 polls until interrupted",
}

var LogLevelFlag = cli.StringFlag{
	Name:  "loglevel",
	Usage: "Log level (trace, debug, info, warn, error)",
	Value: "info",
}

var deployFlags = []cli.Flag{
	ConfigFileFlag,
	RPCFlag,
	NetworkFlag,
	BinaryFlag,
	DeployTxFlag,
	AmountFlag,
	ValidatorFlag,
	MaxAttemptsFlag,
	LogLevelFlag,
}

// applyFlags overrides the values of cfg with all explicitly set flags.
func applyFlags(ctx *cli.Context, cfg *config.Config) {
	if ctx.GlobalIsSet(RPCFlag.Name) {
		cfg.Node.URL = ctx.GlobalString(RPCFlag.Name)
	}
	if ctx.GlobalIsSet(NetworkFlag.Name) {
		cfg.Node.Network = ctx.GlobalString(NetworkFlag.Name)
	}
	if ctx.GlobalIsSet(BinaryFlag.Name) {
		cfg.Contract.BinaryPath = ctx.GlobalString(BinaryFlag.Name)
	}
	if ctx.GlobalIsSet(DeployTxFlag.Name) {
		cfg.Contract.DeployTxHash = ctx.GlobalString(DeployTxFlag.Name)
	}
	if ctx.GlobalIsSet(AmountFlag.Name) {
		cfg.Issue.Amount = ctx.GlobalString(AmountFlag.Name)
	}
	if ctx.GlobalIsSet(ValidatorFlag.Name) {
		cfg.Submit.OutputsValidator = ctx.GlobalString(ValidatorFlag.Name)
	}
	if ctx.GlobalIsSet(MaxAttemptsFlag.Name) {
		cfg.Submit.MaxAttempts = ctx.GlobalUint(MaxAttemptsFlag.Name)
	}
}

// makeConfig returns the defaults overridden by the config file and flags.
func makeConfig(ctx *cli.Context) (config.Config, error) {
	cfg := config.DefaultConfig()
	if file := ctx.GlobalString(ConfigFileFlag.Name); file != "" {
		if err := config.Load(file, &cfg); err != nil {
			return cfg, err
		}
	}
	applyFlags(ctx, &cfg)
	return cfg, cfg.Validate()
}
