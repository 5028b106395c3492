package transform

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownEncoding = errors.New("transform: unknown text encoding")

const (
	EncodingHex    = "hex"
	EncodingBase64 = "base64"
)

// Text transforms render bytes as text on Apply and parse it on Reverse.
type hexTransform struct{}

func NewHexTransform() Transform { return hexTransform{} }

func (hexTransform) Apply(data []byte) ([]byte, error) {
	return hex.AppendEncode(nil, data), nil
}

func (hexTransform) Reverse(data []byte) ([]byte, error) {
	out, err := hex.AppendDecode(nil, trimText(data))
	if err != nil {
		return nil, fmt.Errorf("hex reverse (decode): %w", err)
	}
	return out, nil
}

type base64Transform struct{ enc *base64.Encoding }

func NewBase64Transform() Transform { return base64Transform{enc: base64.StdEncoding} }

func (t base64Transform) Apply(data []byte) ([]byte, error) {
	return t.enc.AppendEncode(nil, data), nil
}

func (t base64Transform) Reverse(data []byte) ([]byte, error) {
	out, err := t.enc.AppendDecode(nil, trimText(data))
	if err != nil {
		return nil, fmt.Errorf("base64 reverse (decode): %w", err)
	}
	return out, nil
}

// NewTextTransform picks the transform for an encoding name.
func NewTextTransform(encoding string) (Transform, error) {
	switch strings.ToLower(encoding) {
	case EncodingHex, "":
		return NewHexTransform(), nil
	case EncodingBase64:
		return NewBase64Transform(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, encoding)
}

func trimText(data []byte) []byte { return bytes.TrimSpace(data) }
