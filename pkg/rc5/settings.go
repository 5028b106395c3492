package rc5

import (
	"errors"
	"fmt"
)

// DefaultRounds is the round count of the nominal RC5-32/12/b.
const DefaultRounds = 12

// DefaultWord is the nominal word width.
type DefaultWord = Word32

// Settings carries the round count for a word width chosen at compile time.
type Settings[W Word[W]] struct {
	Rounds uint8
}

func NewSettings[W Word[W]](rounds uint8) Settings[W] {
	return Settings[W]{Rounds: rounds}
}

// DefaultSettings is RC5-32/12.
func DefaultSettings() Settings[DefaultWord] {
	return Settings[DefaultWord]{Rounds: DefaultRounds}
}

// WordSize selects a word width at run time, in bits.
type WordSize uint8

const (
	WordSize8   WordSize = 8
	WordSize16  WordSize = 16
	WordSize32  WordSize = 32
	WordSize64  WordSize = 64
	WordSize128 WordSize = 128
)

var ErrUnsupportedWordSize = errors.New("rc5: unsupported word size")

// ParseWordSize accepts 8, 16, 32, 64 or 128.
func ParseWordSize(bits int) (WordSize, error) {
	if ws := WordSize(bits); bits >= 0 && bits <= 255 && ws.Valid() {
		return ws, nil
	}
	return 0, fmt.Errorf("%w: %d bits", ErrUnsupportedWordSize, bits)
}

func (ws WordSize) Valid() bool {
	switch ws {
	case WordSize8, WordSize16, WordSize32, WordSize64, WordSize128:
		return true
	}
	return false
}

// Bytes is w/8.
func (ws WordSize) Bytes() int { return int(ws) / 8 }

func (ws WordSize) String() string { return fmt.Sprintf("%d", uint8(ws)) }

// Params is the run-time counterpart of Settings.
type Params struct {
	WordSize WordSize
	Rounds   uint8
}

// DefaultParams is RC5-32/12.
func DefaultParams() Params {
	return Params{WordSize: WordSize32, Rounds: DefaultRounds}
}

// BlockSize is the size of one two-word block in bytes.
func (p Params) BlockSize() int { return 2 * p.WordSize.Bytes() }

func (p Params) String() string {
	return fmt.Sprintf("RC5-%d/%d", p.WordSize, p.Rounds)
}
