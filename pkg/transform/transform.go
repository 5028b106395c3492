// Package transform chains reversible byte transforms: the cipher itself and
// the text encodings used to carry keys and messages.
package transform

type Transform interface {
	Apply(data []byte) ([]byte, error)
	Reverse(data []byte) ([]byte, error)
}

type noOpTransform struct{}

func NewNoOpTransform() Transform                         { return noOpTransform{} }
func (noOpTransform) Apply(data []byte) ([]byte, error)   { return data, nil }
func (noOpTransform) Reverse(data []byte) ([]byte, error) { return data, nil }
