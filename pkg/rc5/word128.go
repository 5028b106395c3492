package rc5

import (
	"encoding/binary"
	"math/bits"
)

// Word128 is a 128-bit word held as two 64-bit halves.
type Word128 struct {
	Hi, Lo uint64
}

var (
	p128 = Word128{Hi: 0xb7e151628aed2a6a, Lo: 0xbf7158809cf4f3c7}
	q128 = Word128{Hi: 0x9e3779b97f4a7c15, Lo: 0xf39cc0605cedc835}
)

func (w Word128) Add(o Word128) Word128 {
	lo, carry := bits.Add64(w.Lo, o.Lo, 0)
	hi, _ := bits.Add64(w.Hi, o.Hi, carry)
	return Word128{Hi: hi, Lo: lo}
}

func (w Word128) Sub(o Word128) Word128 {
	lo, borrow := bits.Sub64(w.Lo, o.Lo, 0)
	hi, _ := bits.Sub64(w.Hi, o.Hi, borrow)
	return Word128{Hi: hi, Lo: lo}
}

func (w Word128) Xor(o Word128) Word128 {
	return Word128{Hi: w.Hi ^ o.Hi, Lo: w.Lo ^ o.Lo}
}

// RotateLeft only looks at the low 7 bits of n.
func (w Word128) RotateLeft(n Word128) Word128 {
	return w.rotl(uint(n.Lo & 127))
}

func (w Word128) RotateRight(n Word128) Word128 {
	return w.rotl(uint(128-n.Lo&127) & 127)
}

func (w Word128) rotl(k uint) Word128 {
	if k >= 64 {
		w.Hi, w.Lo = w.Lo, w.Hi
		k -= 64
	}
	if k == 0 {
		return w
	}
	return Word128{
		Hi: w.Hi<<k | w.Lo>>(64-k),
		Lo: w.Lo<<k | w.Hi>>(64-k),
	}
}

func (Word128) Bits() int               { return 128 }
func (Word128) Size() int               { return 16 }
func (Word128) P() Word128              { return p128 }
func (Word128) Q() Word128              { return q128 }
func (Word128) FromByte(b byte) Word128 { return Word128{Lo: uint64(b)} }
func (Word128) FromLE(b []byte) Word128 {
	_ = b[15]
	return Word128{
		Lo: binary.LittleEndian.Uint64(b[0:8]),
		Hi: binary.LittleEndian.Uint64(b[8:16]),
	}
}

func (w Word128) AppendLE(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint64(dst, w.Lo)
	return binary.LittleEndian.AppendUint64(dst, w.Hi)
}
