package rc5

import (
	"errors"
	"fmt"
)

// MaxKeySize is the longest secret RC5 accepts, in bytes.
const MaxKeySize = 255

var (
	ErrKeyTooLong  = errors.New("rc5: key longer than 255 bytes")
	ErrKeyMismatch = errors.New("rc5: key length differs from its size hint")
)

// Key gives the cipher read access to a secret for the duration of one call.
// Secret must return exactly SizeHint bytes.
type Key interface {
	SizeHint() uint8
	Secret() []byte
}

// KeyBytes is a Key over a plain byte slice. Build it with NewKey, or
// convert directly when the length is known to fit. A converted slice longer
// than MaxKeySize is rejected by the cipher with ErrKeyMismatch.
type KeyBytes []byte

// NewKey wraps b without copying it.
func NewKey(b []byte) (KeyBytes, error) {
	if len(b) > MaxKeySize {
		return nil, fmt.Errorf("%w: got %d", ErrKeyTooLong, len(b))
	}
	return KeyBytes(b), nil
}

func (k KeyBytes) SizeHint() uint8 { return uint8(len(k)) }
func (k KeyBytes) Secret() []byte  { return k }

// keySecret reads the secret once and checks it against the size hint.
func keySecret(key Key) ([]byte, error) {
	secret := key.Secret()
	if hint := int(key.SizeHint()); len(secret) != hint {
		return nil, fmt.Errorf("%w: %d bytes, hint %d", ErrKeyMismatch, len(secret), hint)
	}
	return secret, nil
}

// expandKey copies the secret into c = max(1, ceil(b/u)) words, u = w/8,
// walking the key backwards so that each word ends up holding its bytes in
// little-endian order. An empty key gives a single zero word.
func expandKey[W Word[W]](key Key) []W {
	var zero W
	size := zero.Size()
	secret := key.Secret()
	n := len(secret)

	words := make([]W, max(1, (n+size-1)/size))
	eight := zero.FromByte(8)
	for i := n - 1; i >= 0; i-- {
		j := i / size
		words[j] = words[j].RotateLeft(eight).Add(zero.FromByte(secret[i]))
	}
	return words
}

// mixKey derives the subkey table S of 2(r+1) words: the key words are
// stirred into the pseudo-random table over 3*max(t, c) steps so that every
// subkey depends on every key byte.
func mixKey[W Word[W]](key Key, rounds uint8) []W {
	var zero W
	s := keyTable[W](rounds)
	l := expandKey[W](key)
	defer clear(l)

	three := zero.FromByte(3)
	var a, b W
	i, j := 0, 0
	for k := 3 * max(len(s), len(l)); k > 0; k-- {
		a = s[i].Add(a).Add(b).RotateLeft(three)
		s[i] = a
		b = l[j].Add(a).Add(b).RotateLeft(a.Add(b))
		l[j] = b
		i = (i + 1) % len(s)
		j = (j + 1) % len(l)
	}
	return s
}
