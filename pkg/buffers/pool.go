// Package buffers pools byte slices that may hold plaintext. Buffers are
// wiped when they go back to the pool.
package buffers

import "sync"

// BufferPool hands out slices of one fixed size.
type BufferPool struct {
	pool sync.Pool
	size int
}

func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() any {
				buf := make([]byte, size)
				return &buf
			},
		},
		size: size,
	}
}

func (p *BufferPool) Size() int { return p.size }

// Get returns a zeroed buffer of Size bytes.
func (p *BufferPool) Get() []byte {
	buf := *(p.pool.Get().(*[]byte))
	if cap(buf) < p.size {
		return make([]byte, p.size)
	}
	return buf[:p.size]
}

// Put wipes buf and returns it to the pool. Undersized buffers are dropped.
func (p *BufferPool) Put(buf []byte) {
	if cap(buf) < p.size {
		return
	}
	buf = buf[:p.size]
	clear(buf)
	p.pool.Put(&buf)
}
