package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"
	"perun.network/go-perun/log"
	plogrus "perun.network/go-perun/log/logrus"
	"perun.network/perun-ckb-sudt/client"
	"perun.network/perun-ckb-sudt/config"
	"perun.network/perun-ckb-sudt/deployer"
)

func main() {
	app := cli.NewApp()
	app.Name = "sudt-deploy"
	app.Usage = "deploy the simple UDT contract and issue tokens on a CKB chain"
	app.Flags = deployFlags
	app.Action = deploy
	app.Commands = []cli.Command{
		{
			Name:      "dumpconfig",
			Usage:     "Show configuration values",
			ArgsUsage: "",
			Action:    dumpConfig,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(ctx *cli.Context) error {
	level, err := logrus.ParseLevel(ctx.GlobalString(LogLevelFlag.Name))
	if err != nil {
		return err
	}
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.Set(plogrus.FromLogrus(logger))
	return nil
}

func deploy(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	params, err := cfg.Params()
	if err != nil {
		return err
	}
	sender, recipient, err := cfg.Accounts()
	if err != nil {
		return err
	}
	binary, err := os.ReadFile(cfg.Contract.BinaryPath)
	if err != nil {
		return fmt.Errorf("reading contract binary: %w", err)
	}

	c, err := client.Dial(cfg.Node.URL)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	record, err := deployer.New(c, sender, recipient, params).Run(runCtx, binary)
	if err != nil {
		return err
	}
	log.WithField("deployTx", *record.DeployTxHash).
		WithField("typeScriptHash", record.SUDTTypeScript.Hash()).
		WithField("issueTx", *record.IssueTxHash).
		Info("Done")
	return nil
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	out, err := config.Dump(&cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}
