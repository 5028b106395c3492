package rc5

import "fmt"

// EncodeWithSettings encrypts data block by block under key. The length of
// data must split into whole blocks of 2*w/8 bytes, otherwise
// ErrWrongInputSize is returned.
func EncodeWithSettings[W Word[W]](data []byte, key Key, settings Settings[W]) ([]byte, error) {
	return encodeBlocks[W](data, key, settings.Rounds)
}

// DecodeWithSettings is the inverse of EncodeWithSettings.
func DecodeWithSettings[W Word[W]](data []byte, key Key, settings Settings[W]) ([]byte, error) {
	return decodeBlocks[W](data, key, settings.Rounds)
}

// Encode encrypts with RC5-32/12.
func Encode(data []byte, key Key) ([]byte, error) {
	return EncodeWithSettings(data, key, DefaultSettings())
}

// Decode decrypts with RC5-32/12.
func Decode(data []byte, key Key) ([]byte, error) {
	return DecodeWithSettings(data, key, DefaultSettings())
}

// Encode runs the cipher over data with the word type selected by
// p.WordSize, the same way EncodeWithSettings does for a compile-time width.
func (p Params) Encode(data []byte, key Key) ([]byte, error) {
	switch p.WordSize {
	case WordSize8:
		return encodeBlocks[Word8](data, key, p.Rounds)
	case WordSize16:
		return encodeBlocks[Word16](data, key, p.Rounds)
	case WordSize32:
		return encodeBlocks[Word32](data, key, p.Rounds)
	case WordSize64:
		return encodeBlocks[Word64](data, key, p.Rounds)
	case WordSize128:
		return encodeBlocks[Word128](data, key, p.Rounds)
	}
	return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedWordSize, p.WordSize)
}

// Decode is the inverse of Params.Encode.
func (p Params) Decode(data []byte, key Key) ([]byte, error) {
	switch p.WordSize {
	case WordSize8:
		return decodeBlocks[Word8](data, key, p.Rounds)
	case WordSize16:
		return decodeBlocks[Word16](data, key, p.Rounds)
	case WordSize32:
		return decodeBlocks[Word32](data, key, p.Rounds)
	case WordSize64:
		return decodeBlocks[Word64](data, key, p.Rounds)
	case WordSize128:
		return decodeBlocks[Word128](data, key, p.Rounds)
	}
	return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedWordSize, p.WordSize)
}
