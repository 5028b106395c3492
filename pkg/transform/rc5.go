package transform

import (
	"fmt"

	"rc5-go/pkg/rc5"
)

type rc5Transform struct {
	params rc5.Params
	key    rc5.Key
}

// NewRC5Transform encrypts on Apply and decrypts on Reverse. The key is
// borrowed; the caller destroys it once the transform is no longer used.
func NewRC5Transform(params rc5.Params, key rc5.Key) (Transform, error) {
	if !params.WordSize.Valid() {
		return nil, fmt.Errorf("rc5 transform: %w: %d", rc5.ErrUnsupportedWordSize, params.WordSize)
	}
	return &rc5Transform{params: params, key: key}, nil
}

func (t *rc5Transform) Apply(data []byte) ([]byte, error) {
	out, err := t.params.Encode(data, t.key)
	if err != nil {
		return nil, fmt.Errorf("rc5 apply (encode): %w", err)
	}
	return out, nil
}

func (t *rc5Transform) Reverse(data []byte) ([]byte, error) {
	out, err := t.params.Decode(data, t.key)
	if err != nil {
		return nil, fmt.Errorf("rc5 reverse (decode): %w", err)
	}
	return out, nil
}

// Cipher is the [rc5, text] pipeline used by the command line and the HTTP
// API: messages travel as text on both sides.
type Cipher struct {
	// CheckPlaintext, when set, vets the parsed plaintext before EncodeText
	// encrypts it.
	CheckPlaintext func(raw []byte) error

	text Transform
	proc *PayloadProcessor
}

func NewCipher(params rc5.Params, key rc5.Key, encoding string) (*Cipher, error) {
	cipher, err := NewRC5Transform(params, key)
	if err != nil {
		return nil, err
	}
	text, err := NewTextTransform(encoding)
	if err != nil {
		return nil, err
	}
	proc, err := NewPayloadProcessor(cipher, text)
	if err != nil {
		return nil, err
	}
	return &Cipher{text: text, proc: proc}, nil
}

// EncodeText parses plaintext, encrypts it and renders the ciphertext.
func (c *Cipher) EncodeText(plaintext []byte) ([]byte, error) {
	raw, err := c.text.Reverse(plaintext)
	if err != nil {
		return nil, err
	}
	defer clear(raw)
	if c.CheckPlaintext != nil {
		if err := c.CheckPlaintext(raw); err != nil {
			return nil, err
		}
	}
	return c.proc.PrepareOutput(raw)
}

// DecodeText parses ciphertext, decrypts it and renders the plaintext.
func (c *Cipher) DecodeText(ciphertext []byte) ([]byte, error) {
	raw, err := c.proc.ParseInput(ciphertext)
	if err != nil {
		return nil, err
	}
	defer clear(raw)
	return c.text.Apply(raw)
}
