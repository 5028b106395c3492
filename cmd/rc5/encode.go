package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"rc5-go/pkg/log"
	"rc5-go/pkg/rc5"
	"rc5-go/pkg/transform"
)

var keyFlag = &cli.StringFlag{
	Name:    "key",
	Aliases: []string{"k"},
	Usage:   "key as `HEX`, prompted for when omitted",
}

var (
	encodeCommand = &cli.Command{
		Name:      "encode",
		Usage:     "encrypt a message",
		UsageText: "rc5 encode [--key HEX] --plaintext TEXT",
		Flags: []cli.Flag{
			keyFlag,
			&cli.StringFlag{
				Name:     "plaintext",
				Aliases:  []string{"p"},
				Usage:    "message `TEXT` in the configured encoding, - reads stdin",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			return cipherCmd(c, "encode", c.String("plaintext"))
		},
	}

	decodeCommand = &cli.Command{
		Name:      "decode",
		Usage:     "decrypt a message",
		UsageText: "rc5 decode [--key HEX] --ciphertext TEXT",
		Flags: []cli.Flag{
			keyFlag,
			&cli.StringFlag{
				Name:     "ciphertext",
				Aliases:  []string{"c"},
				Usage:    "ciphertext `TEXT` in the configured encoding, - reads stdin",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			return cipherCmd(c, "decode", c.String("ciphertext"))
		},
	}
)

// checkPlaintext refuses messages of one word or less and messages that are
// not a whole number of words.
func checkPlaintext(wordBytes int) func([]byte) error {
	return func(raw []byte) error {
		if len(raw) <= wordBytes {
			return fmt.Errorf("please provide input longer than %d bytes", wordBytes)
		}
		if len(raw)%wordBytes != 0 {
			return fmt.Errorf("please provide an input multiple of %d bytes", wordBytes)
		}
		return nil
	}
}

func readInput(c *cli.Context, text string) ([]byte, error) {
	if text != "-" {
		return []byte(text), nil
	}
	b, err := io.ReadAll(c.App.Reader)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return []byte(strings.TrimSpace(string(b))), nil
}

func cipherCmd(c *cli.Context, op, text string) error {
	start := time.Now()
	params := cfg.Params()

	input, err := readInput(c, text)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	key, err := readKey(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer key.Destroy()

	cipher, err := transform.NewCipher(params, key, cfg.Encoding)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	var out []byte
	if op == "encode" {
		cipher.CheckPlaintext = checkPlaintext(params.WordSize.Bytes())
		out, err = cipher.EncodeText(input)
	} else {
		out, err = cipher.DecodeText(input)
	}
	if err != nil {
		log.Warn().Str("op", op).Stringer("params", params).Err(err).Msg("rejected")
		if errors.Is(err, rc5.ErrWrongInputSize) {
			return cli.Exit(fmt.Sprintf("error while %s: input must be a multiple of %d bytes", op, params.BlockSize()), 1)
		}
		return cli.Exit(fmt.Sprintf("error while %s: %v", op, err), 1)
	}

	log.Info().Str("op", op).Stringer("params", params).
		Str("size", humanize.Bytes(uint64(len(input)))).
		Dur("took", time.Since(start)).Msg("done")
	fmt.Fprintln(c.App.Writer, string(out))
	return nil
}
