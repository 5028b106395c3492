// Package secret holds RC5 keys in memory that is locked against swapping
// where the platform allows it, and wiped when the key is destroyed.
package secret

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"rc5-go/pkg/rc5"
)

var (
	ErrDestroyed = errors.New("secret: key already destroyed")
	ErrKeySize   = errors.New("secret: wrong key size")
)

// Key is an rc5.Key whose bytes live in a private, locked buffer. Destroy
// must not run while a cipher call is still using the key: the call sees
// either the whole key, a wiped buffer or ErrKeyMismatch from the cipher.
type Key struct {
	mu     sync.RWMutex
	buf    []byte
	locked bool
}

var _ rc5.Key = (*Key)(nil)

// New copies b into a locked buffer. The caller keeps ownership of b.
func New(b []byte) (*Key, error) {
	if len(b) > rc5.MaxKeySize {
		return nil, fmt.Errorf("%w: got %d", rc5.ErrKeyTooLong, len(b))
	}
	buf := make([]byte, len(b))
	copy(buf, b)
	return &Key{buf: buf, locked: lock(buf)}, nil
}

// FromHex decodes s straight into a new Key and wipes the scratch buffer.
func FromHex(s string) (*Key, error) {
	raw := make([]byte, hex.DecodedLen(len(s)))
	defer clear(raw)
	n, err := hex.Decode(raw, []byte(s))
	if err != nil {
		return nil, fmt.Errorf("secret: decode hex key: %w", err)
	}
	return New(raw[:n])
}

func (k *Key) SizeHint() uint8 {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return uint8(len(k.buf))
}

// Secret exposes the key bytes, nil once destroyed. They must not be
// retained past the call that asked for them.
func (k *Key) Secret() []byte {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.buf
}

// Locked reports whether the buffer is pinned in RAM.
func (k *Key) Locked() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.locked
}

func (k *Key) Destroyed() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.buf == nil
}

// RequireSize fails with ErrKeySize unless the key is exactly n bytes long.
func (k *Key) RequireSize(n int) error {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.buf == nil {
		return ErrDestroyed
	}
	if len(k.buf) != n {
		return fmt.Errorf("%w: got %d bytes, expected %d", ErrKeySize, len(k.buf), n)
	}
	return nil
}

// Destroy zeroes and unlocks the buffer. It is safe to call more than once.
func (k *Key) Destroy() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.buf == nil {
		return
	}
	clear(k.buf)
	if k.locked {
		unlock(k.buf)
		k.locked = false
	}
	k.buf = nil
}
