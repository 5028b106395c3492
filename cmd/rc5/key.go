package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"rc5-go/pkg/secret"
)

// readKey takes the key from --key or, on a terminal, prompts for it without
// echo. The configured key size is enforced when non-zero.
func readKey(c *cli.Context) (*secret.Key, error) {
	var (
		key *secret.Key
		err error
	)
	if c.IsSet("key") {
		key, err = secret.FromHex(c.String("key"))
	} else {
		key, err = promptKey()
	}
	if err != nil {
		return nil, err
	}
	if cfg.KeySize > 0 {
		if err := key.RequireSize(cfg.KeySize); err != nil {
			size := key.SizeHint()
			key.Destroy()
			return nil, fmt.Errorf("wrong key size %d, expected %d", size, cfg.KeySize)
		}
	}
	return key, nil
}

func promptKey() (*secret.Key, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("--key is required when stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, "Key (hex): ")
	text, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}
	defer clear(text)

	raw := make([]byte, hex.DecodedLen(len(text)))
	defer clear(raw)
	n, err := hex.Decode(raw, text)
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	return secret.New(raw[:n])
}
