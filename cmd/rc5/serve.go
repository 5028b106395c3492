package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"rc5-go/pkg/api"
	"rc5-go/pkg/log"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "serve the encode/decode HTTP API until interrupted",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "listen",
			Aliases: []string{"l"},
			Usage:   "listen `ADDRESS`, overrides listen_address",
		},
	},
	Action: serveCmd,
}

func serveCmd(c *cli.Context) error {
	if c.IsSet("listen") {
		cfg.ListenAddr = c.String("listen")
	}
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("version", Version).Stringer("params", cfg.Params()).
		Float64("rate_limit", cfg.RateLimit).Msg("starting api")
	if err := api.New(cfg).Run(ctx); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return nil
}
