package buffers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetReturnsSizedZeroedBuffer(t *testing.T) {
	p := NewBufferPool(64)
	assert.Equal(t, 64, p.Size())

	buf := p.Get()
	assert.Len(t, buf, 64)
	for i := range buf {
		buf[i] = 0xaa
	}
	p.Put(buf)

	again := p.Get()
	assert.Len(t, again, 64)
	assert.Equal(t, make([]byte, 64), again)
}

func TestPutWipesCallerCopy(t *testing.T) {
	p := NewBufferPool(8)
	buf := p.Get()
	copy(buf, "plaintxt")
	p.Put(buf)
	assert.Equal(t, make([]byte, 8), buf)
}

func TestPutDropsUndersized(t *testing.T) {
	p := NewBufferPool(32)
	small := []byte{1, 2, 3}
	assert.NotPanics(t, func() { p.Put(small) })
	assert.Equal(t, []byte{1, 2, 3}, small)
	assert.Len(t, p.Get(), 32)
}
