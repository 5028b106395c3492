package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"rc5-go/pkg/config"
	"rc5-go/pkg/log"
)

// Set at build time with -ldflags "-X main.Version=... -X main.BuildTime=...".
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// cfg is loaded once in the app's Before hook.
var cfg *config.Config

func newApp() *cli.App {
	return &cli.App{
		Name:    "rc5",
		Usage:   "encrypt and decrypt with the RC5 block cipher",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "configuration `FILE` (default rc5.yaml in ., /etc/rc5-go, ~/.rc5-go)",
			},
			&cli.StringFlag{
				Name:  "log-db",
				Usage: "also store logs in the SQLite database `FILE`",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "minimum log `LEVEL` (debug, info, warn, error)",
			},
			&cli.IntFlag{
				Name:    "word-size",
				Aliases: []string{"w"},
				Usage:   "word size in `BITS` (8, 16, 32, 64 or 128)",
			},
			&cli.IntFlag{
				Name:    "rounds",
				Aliases: []string{"r"},
				Usage:   "number of `ROUNDS` (0-255)",
			},
			&cli.IntFlag{
				Name:  "key-size",
				Usage: "required key length in `BYTES`, 0 accepts any",
			},
			&cli.StringFlag{
				Name:    "encoding",
				Aliases: []string{"e"},
				Usage:   "text `ENCODING` of keys and messages (hex or base64)",
			},
		},
		Before: setup,
		After: func(*cli.Context) error {
			return log.Close()
		},
		Commands: []*cli.Command{
			encodeCommand,
			decodeCommand,
			serveCommand,
			logsCommand,
			selftestCommand,
			benchCommand,
		},
	}
}

// flagKeys maps global flags to configuration keys.
var flagKeys = map[string]string{
	"log-db":    "log_db",
	"log-level": "log_level",
	"word-size": "word_size",
	"rounds":    "rounds",
	"key-size":  "key_size",
	"encoding":  "encoding",
}

func setup(c *cli.Context) error {
	var overrides []config.Override
	for flag, key := range flagKeys {
		if c.IsSet(flag) {
			overrides = append(overrides, config.Set(key, c.Value(flag)))
		}
	}
	loaded, err := config.Load(c.String("config"), overrides...)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	cfg = loaded

	log.SetStd()
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if cfg.LogDB != "" {
		if err := log.Init(cfg.LogDB); err != nil {
			return cli.Exit(err.Error(), 2)
		}
	}
	log.Debug().Str("config", cfg.ConfigFile).Stringer("params", cfg.Params()).Msg("configuration loaded")
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Error().Err(err).Msg("rc5 failed")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
