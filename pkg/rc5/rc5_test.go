package rc5

import (
	"bytes"
	"encoding/hex"
	"errors"
	"sync"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

func TestPublishedVectors(t *testing.T) {
	tests := []struct {
		key, plain, cipher string
	}{
		{"00000000000000000000000000000000", "0000000000000000", "21a5dbee154b8f6d"},
		{"915f4619be41b2516355a50110a9ce91", "21a5dbee154b8f6d", "f7c013ac5b2b8952"},
	}
	for _, tt := range tests {
		key := KeyBytes(mustHex(t, tt.key))
		got, err := Encode(mustHex(t, tt.plain), key)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if hex.EncodeToString(got) != tt.cipher {
			t.Errorf("key %s: expected %s, got %x", tt.key, tt.cipher, got)
		}
		back, err := Decode(got, key)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if hex.EncodeToString(back) != tt.plain {
			t.Errorf("key %s: decode expected %s, got %x", tt.key, tt.plain, back)
		}
	}
}

func TestKnownVectorsAllWidths(t *testing.T) {
	tests := []struct {
		params Params
		key    KeyBytes
		plain  []byte
		cipher string
	}{
		{Params{WordSize8, 12}, seqKey(16), seqKey(4), "806f08e7"},
		{Params{WordSize16, 12}, seqKey(16), seqKey(8), "d8238da55ea1f4e1"},
		{Params{WordSize32, 12}, seqKey(5), seqKey(16), "f6cf1a5d515471b8d2b0627237471749"},
		{Params{WordSize16, 0}, KeyBytes{}, seqKey(16), "6579f636697dfa3a6d81fe3e71850243"},
		{Params{WordSize64, 12}, seqKey(16), seqKey(32), "75da0d750094184e218622c0bfc16df0f8999ff53650abc12d31448f9d33055c"},
		{Params{WordSize128, 12}, seqKey(16), seqKey(64), "c980d45c0be7f8a6f48b0c12de86a2edc7c4d5be727e1f64eb5f06094f1fa3a4" +
			"fd236244a1bab55f0cf1072cd5af582fbca7bf583b613316ad500f0be128a867"},
	}
	for _, tt := range tests {
		t.Run(tt.params.String(), func(t *testing.T) {
			got, err := tt.params.Encode(tt.plain, tt.key)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if hex.EncodeToString(got) != tt.cipher {
				t.Fatalf("expected %s, got %x", tt.cipher, got)
			}
			back, err := tt.params.Decode(got, tt.key)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !bytes.Equal(back, tt.plain) {
				t.Fatalf("round trip: expected %x, got %x", tt.plain, back)
			}
		})
	}
}

func roundTrip[W Word[W]](t *testing.T) {
	t.Helper()
	var zero W
	block := 2 * zero.Size()
	plain := make([]byte, 3*block)
	for i := range plain {
		plain[i] = byte(i*7 + 1)
	}
	for _, r := range []uint8{0, 1, 12, 33, 255} {
		for _, n := range []int{0, 1, 3, 8, 16, 17, 64, 255} {
			settings := NewSettings[W](r)
			key := seqKey(n)
			ct, err := EncodeWithSettings(plain, key, settings)
			if err != nil {
				t.Fatalf("w=%d r=%d b=%d: encode: %v", zero.Bits(), r, n, err)
			}
			if len(ct) != len(plain) {
				t.Fatalf("w=%d r=%d b=%d: ciphertext has %d bytes", zero.Bits(), r, n, len(ct))
			}
			if bytes.Equal(ct, plain) {
				t.Errorf("w=%d r=%d b=%d: ciphertext equals plaintext", zero.Bits(), r, n)
			}
			pt, err := DecodeWithSettings(ct, key, settings)
			if err != nil {
				t.Fatalf("w=%d r=%d b=%d: decode: %v", zero.Bits(), r, n, err)
			}
			if !bytes.Equal(pt, plain) {
				t.Fatalf("w=%d r=%d b=%d: round trip mismatch", zero.Bits(), r, n)
			}
		}
	}
}

func TestRoundTrip(t *testing.T) {
	t.Run("8", roundTrip[Word8])
	t.Run("16", roundTrip[Word16])
	t.Run("32", roundTrip[Word32])
	t.Run("64", roundTrip[Word64])
	t.Run("128", roundTrip[Word128])
}

func TestParamsMatchGeneric(t *testing.T) {
	key := KeyBytes("0123456789abcdef")
	plain := seqKey(32)

	want, err := EncodeWithSettings(plain, key, NewSettings[Word64](20))
	if err != nil {
		t.Fatal(err)
	}
	got, err := Params{WordSize: WordSize64, Rounds: 20}.Encode(plain, key)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Params.Encode %x differs from EncodeWithSettings %x", got, want)
	}

	def, err := DefaultParams().Encode(plain, key)
	if err != nil {
		t.Fatal(err)
	}
	viaDefault, err := Encode(plain, key)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(def, viaDefault) {
		t.Fatal("DefaultParams and Encode disagree")
	}
}

func TestWrongInputSize(t *testing.T) {
	key := KeyBytes("key")
	for _, n := range []int{1, 3, 4, 7, 12} {
		if _, err := Encode(make([]byte, n), key); !errors.Is(err, ErrWrongInputSize) {
			t.Errorf("encode %d bytes: expected ErrWrongInputSize, got %v", n, err)
		}
		if _, err := Decode(make([]byte, n), key); !errors.Is(err, ErrWrongInputSize) {
			t.Errorf("decode %d bytes: expected ErrWrongInputSize, got %v", n, err)
		}
	}
	out, err := Encode(nil, key)
	if err != nil || len(out) != 0 {
		t.Errorf("empty input: got %x, %v", out, err)
	}
}

func TestUnsupportedWordSize(t *testing.T) {
	p := Params{WordSize: 24, Rounds: 12}
	if _, err := p.Encode(make([]byte, 6), KeyBytes{}); !errors.Is(err, ErrUnsupportedWordSize) {
		t.Errorf("expected ErrUnsupportedWordSize, got %v", err)
	}
	if _, err := p.Decode(make([]byte, 6), KeyBytes{}); !errors.Is(err, ErrUnsupportedWordSize) {
		t.Errorf("expected ErrUnsupportedWordSize, got %v", err)
	}
}

func TestParseWordSize(t *testing.T) {
	for _, bits := range []int{8, 16, 32, 64, 128} {
		ws, err := ParseWordSize(bits)
		if err != nil || int(ws) != bits {
			t.Errorf("ParseWordSize(%d) = %d, %v", bits, ws, err)
		}
		if ws.Bytes() != bits/8 {
			t.Errorf("%d bits: expected %d bytes, got %d", bits, bits/8, ws.Bytes())
		}
	}
	for _, bits := range []int{-8, 0, 7, 24, 256, 264} {
		if _, err := ParseWordSize(bits); !errors.Is(err, ErrUnsupportedWordSize) {
			t.Errorf("ParseWordSize(%d): expected ErrUnsupportedWordSize, got %v", bits, err)
		}
	}
	if bs := DefaultParams().BlockSize(); bs != 8 {
		t.Errorf("default block size: expected 8, got %d", bs)
	}
}

func TestBlocksAreIndependent(t *testing.T) {
	key := KeyBytes("independent")
	block := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	one, err := Encode(block, key)
	if err != nil {
		t.Fatal(err)
	}
	two, err := Encode(append(append([]byte{}, block...), block...), key)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(two[:8], one) || !bytes.Equal(two[8:], one) {
		t.Fatalf("identical blocks encoded differently: %x vs %x", one, two)
	}
}

func TestConcurrentCalls(t *testing.T) {
	key := KeyBytes("shared key across goroutines")
	plain := seqKey(64)
	want, err := Encode(plain, key)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Encode(plain, key)
			if err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(got, want) {
				errs <- errors.New("concurrent result differs")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

// skewedKey reports a size hint that disagrees with its bytes.
type skewedKey struct {
	hint   uint8
	secret []byte
}

func (k skewedKey) SizeHint() uint8 { return k.hint }
func (k skewedKey) Secret() []byte  { return k.secret }

func TestKeyLengthMustMatchHint(t *testing.T) {
	block := make([]byte, 8)
	keys := []Key{
		KeyBytes(make([]byte, MaxKeySize+1)),
		skewedKey{hint: 16},
		skewedKey{hint: 2, secret: []byte{1, 2, 3}},
	}
	for _, key := range keys {
		if _, err := Encode(block, key); !errors.Is(err, ErrKeyMismatch) {
			t.Errorf("encode with hint %d and %d bytes: expected ErrKeyMismatch, got %v", key.SizeHint(), len(key.Secret()), err)
		}
		if _, err := (Params{WordSize16, 12}).Decode(block, key); !errors.Is(err, ErrKeyMismatch) {
			t.Errorf("decode with hint %d and %d bytes: expected ErrKeyMismatch, got %v", key.SizeHint(), len(key.Secret()), err)
		}
	}

	if _, err := Encode(block, KeyBytes(make([]byte, MaxKeySize))); err != nil {
		t.Errorf("255-byte key: %v", err)
	}
}
