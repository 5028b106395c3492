package transform

import (
	"errors"
	"fmt"
)

var ErrEmptyPipeline = errors.New("transform: pipeline requires at least one transform, use NewNoOpTransform() for an empty one")

// PayloadProcessor runs a pipeline forward (0..N) on output and backward
// (N..0) on input.
type PayloadProcessor struct {
	transforms []Transform
}

func NewPayloadProcessor(pipeline ...Transform) (*PayloadProcessor, error) {
	if len(pipeline) == 0 {
		return nil, ErrEmptyPipeline
	}
	return &PayloadProcessor{transforms: append([]Transform(nil), pipeline...)}, nil
}

// PrepareOutput turns plaintext into its transmitted form.
func (p *PayloadProcessor) PrepareOutput(payload []byte) ([]byte, error) {
	var err error
	for i, t := range p.transforms {
		payload, err = t.Apply(payload)
		if err != nil {
			return nil, fmt.Errorf("prepare output: transform %d (%T): %w", i, t, err)
		}
	}
	return payload, nil
}

// ParseInput undoes PrepareOutput.
func (p *PayloadProcessor) ParseInput(payload []byte) ([]byte, error) {
	var err error
	for i := len(p.transforms) - 1; i >= 0; i-- {
		t := p.transforms[i]
		payload, err = t.Reverse(payload)
		if err != nil {
			return nil, fmt.Errorf("parse input: transform %d (%T): %w", i, t, err)
		}
	}
	return payload, nil
}
