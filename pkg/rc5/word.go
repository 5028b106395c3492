// Package rc5 implements the RC5 block cipher as described in Ronald Rivest's
// 1994 paper "The RC5 Encryption Algorithm".
// RC5 is parameterized by the word size w (8, 16, 32, 64 or 128 bits here),
// the number of rounds r (0..255) and a secret key of 0..255 bytes.
// A block is two words, so RC5-32/12/16 works on 8-byte blocks.
//
// Every Encode/Decode call derives its own subkey table from the key and
// drops it on return; nothing is cached between calls.
package rc5

import (
	"encoding/binary"
	"math/bits"
)

// Word is the arithmetic a word width must provide to run the cipher.
// Methods are called on values of the width, constants and constructors on
// its zero value.
type Word[W any] interface {
	comparable

	// Add and Sub wrap around modulo 2^w.
	Add(W) W
	Sub(W) W
	Xor(W) W
	// RotateLeft and RotateRight rotate by n mod w bits.
	RotateLeft(n W) W
	RotateRight(n W) W

	// Bits is w.
	Bits() int
	// Size is w/8, the length of the little-endian encoding.
	Size() int
	// P and Q are the magic constants of the width.
	P() W
	Q() W
	FromByte(b byte) W
	// FromLE reads exactly Size() bytes.
	FromLE(b []byte) W
	AppendLE(dst []byte) []byte
}

type (
	Word8  uint8
	Word16 uint16
	Word32 uint32
	Word64 uint64
)

// Magic constants: P = Odd((e-2)*2^w), Q = Odd((phi-1)*2^w).
const (
	p8  Word8  = 0xb7
	q8  Word8  = 0x9f
	p16 Word16 = 0xb7e1
	q16 Word16 = 0x9e37
	p32 Word32 = 0xb7e15163
	q32 Word32 = 0x9e3779b9
	p64 Word64 = 0xb7e151628aed2a6b
	q64 Word64 = 0x9e3779b97f4a7c15
)

func (w Word8) Add(o Word8) Word8         { return w + o }
func (w Word8) Sub(o Word8) Word8         { return w - o }
func (w Word8) Xor(o Word8) Word8         { return w ^ o }
func (w Word8) RotateLeft(n Word8) Word8  { return Word8(bits.RotateLeft8(uint8(w), int(n&7))) }
func (w Word8) RotateRight(n Word8) Word8 { return Word8(bits.RotateLeft8(uint8(w), -int(n&7))) }
func (Word8) Bits() int                   { return 8 }
func (Word8) Size() int                   { return 1 }
func (Word8) P() Word8                    { return p8 }
func (Word8) Q() Word8                    { return q8 }
func (Word8) FromByte(b byte) Word8       { return Word8(b) }
func (Word8) FromLE(b []byte) Word8       { return Word8(b[0]) }
func (w Word8) AppendLE(dst []byte) []byte {
	return append(dst, byte(w))
}

func (w Word16) Add(o Word16) Word16         { return w + o }
func (w Word16) Sub(o Word16) Word16         { return w - o }
func (w Word16) Xor(o Word16) Word16         { return w ^ o }
func (w Word16) RotateLeft(n Word16) Word16  { return Word16(bits.RotateLeft16(uint16(w), int(n&15))) }
func (w Word16) RotateRight(n Word16) Word16 { return Word16(bits.RotateLeft16(uint16(w), -int(n&15))) }
func (Word16) Bits() int                     { return 16 }
func (Word16) Size() int                     { return 2 }
func (Word16) P() Word16                     { return p16 }
func (Word16) Q() Word16                     { return q16 }
func (Word16) FromByte(b byte) Word16        { return Word16(b) }
func (Word16) FromLE(b []byte) Word16        { return Word16(binary.LittleEndian.Uint16(b)) }
func (w Word16) AppendLE(dst []byte) []byte {
	return binary.LittleEndian.AppendUint16(dst, uint16(w))
}

func (w Word32) Add(o Word32) Word32         { return w + o }
func (w Word32) Sub(o Word32) Word32         { return w - o }
func (w Word32) Xor(o Word32) Word32         { return w ^ o }
func (w Word32) RotateLeft(n Word32) Word32  { return Word32(bits.RotateLeft32(uint32(w), int(n&31))) }
func (w Word32) RotateRight(n Word32) Word32 { return Word32(bits.RotateLeft32(uint32(w), -int(n&31))) }
func (Word32) Bits() int                     { return 32 }
func (Word32) Size() int                     { return 4 }
func (Word32) P() Word32                     { return p32 }
func (Word32) Q() Word32                     { return q32 }
func (Word32) FromByte(b byte) Word32        { return Word32(b) }
func (Word32) FromLE(b []byte) Word32        { return Word32(binary.LittleEndian.Uint32(b)) }
func (w Word32) AppendLE(dst []byte) []byte {
	return binary.LittleEndian.AppendUint32(dst, uint32(w))
}

func (w Word64) Add(o Word64) Word64         { return w + o }
func (w Word64) Sub(o Word64) Word64         { return w - o }
func (w Word64) Xor(o Word64) Word64         { return w ^ o }
func (w Word64) RotateLeft(n Word64) Word64  { return Word64(bits.RotateLeft64(uint64(w), int(n&63))) }
func (w Word64) RotateRight(n Word64) Word64 { return Word64(bits.RotateLeft64(uint64(w), -int(n&63))) }
func (Word64) Bits() int                     { return 64 }
func (Word64) Size() int                     { return 8 }
func (Word64) P() Word64                     { return p64 }
func (Word64) Q() Word64                     { return q64 }
func (Word64) FromByte(b byte) Word64        { return Word64(b) }
func (Word64) FromLE(b []byte) Word64        { return Word64(binary.LittleEndian.Uint64(b)) }
func (w Word64) AppendLE(dst []byte) []byte {
	return binary.LittleEndian.AppendUint64(dst, uint64(w))
}
