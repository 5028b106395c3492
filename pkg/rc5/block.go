package rc5

import (
	"errors"
	"fmt"
)

// ErrWrongInputSize is returned when the input cannot be split into whole
// two-word blocks.
var ErrWrongInputSize = errors.New("rc5: wrong input size")

// encodeBlock runs the forward rounds over one block.
func encodeBlock[W Word[W]](a, b W, s []W, rounds uint8) (W, W) {
	a = a.Add(s[0])
	b = b.Add(s[1])
	for i := 1; i <= int(rounds); i++ {
		a = a.Xor(b).RotateLeft(b).Add(s[2*i])
		b = b.Xor(a).RotateLeft(a).Add(s[2*i+1])
	}
	return a, b
}

// decodeBlock undoes encodeBlock for the same table and round count.
func decodeBlock[W Word[W]](a, b W, s []W, rounds uint8) (W, W) {
	for i := int(rounds); i >= 1; i-- {
		b = b.Sub(s[2*i+1]).RotateRight(a).Xor(a)
		a = a.Sub(s[2*i]).RotateRight(b).Xor(b)
	}
	b = b.Sub(s[1])
	a = a.Sub(s[0])
	return a, b
}

// processBlocks splits input into little-endian words, hands each pair to fn
// in order and concatenates the results. Blocks are independent.
func processBlocks[W Word[W]](input []byte, fn func(a, b W) (W, W)) ([]byte, error) {
	var zero W
	size := zero.Size()
	if len(input)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of the %d-byte word", ErrWrongInputSize, len(input), size)
	}
	if (len(input)/size)%2 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is an odd number of %d-byte words", ErrWrongInputSize, len(input), size)
	}

	out := make([]byte, 0, len(input))
	for off := 0; off < len(input); off += 2 * size {
		a, b := fn(zero.FromLE(input[off:]), zero.FromLE(input[off+size:]))
		out = a.AppendLE(out)
		out = b.AppendLE(out)
	}
	return out, nil
}

func encodeBlocks[W Word[W]](input []byte, key Key, rounds uint8) ([]byte, error) {
	secret, err := keySecret(key)
	if err != nil {
		return nil, err
	}
	s := mixKey[W](KeyBytes(secret), rounds)
	defer clear(s)
	return processBlocks(input, func(a, b W) (W, W) {
		return encodeBlock(a, b, s, rounds)
	})
}

func decodeBlocks[W Word[W]](input []byte, key Key, rounds uint8) ([]byte, error) {
	secret, err := keySecret(key)
	if err != nil {
		return nil, err
	}
	s := mixKey[W](KeyBytes(secret), rounds)
	defer clear(s)
	return processBlocks(input, func(a, b W) (W, W) {
		return decodeBlock(a, b, s, rounds)
	})
}
