package rc5

import (
	"slices"
	"testing"
)

func TestKeyTableSize(t *testing.T) {
	for r := 0; r <= 255; r++ {
		if got, want := len(keyTable[Word16](uint8(r))), 2*(r+1); got != want {
			t.Fatalf("rounds %d: expected %d words, got %d", r, want, got)
		}
	}
}

func TestKeySequenceStart(t *testing.T) {
	p, q := Word64(0).P(), Word64(0).Q()
	want := []Word64{p, p + q, p + q + q, p + q + q + q}

	var got []Word64
	for w := range KeySequence[Word64]() {
		got = append(got, w)
		if len(got) == len(want) {
			break
		}
	}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestKeySequenceRestarts(t *testing.T) {
	seq := KeySequence[Word128]()
	take := func() []Word128 {
		var out []Word128
		for w := range seq {
			out = append(out, w)
			if len(out) == 5 {
				break
			}
		}
		return out
	}
	first, second := take(), take()
	if !slices.Equal(first, second) {
		t.Fatalf("sequence did not restart: %v vs %v", first, second)
	}
	if first[0] != (Word128{}).P() {
		t.Errorf("sequence does not start at P: %+v", first[0])
	}
	if first[1] != first[0].Add((Word128{}).Q()) {
		t.Errorf("second term is not P+Q: %+v", first[1])
	}
}

func TestKeySequenceWraps(t *testing.T) {
	// 0xb7 + 0x9f overflows a byte.
	table := keyTable[Word8](1)
	want := []Word8{0xb7, 0x56, 0xf5, 0x94}
	if !slices.Equal(table, want) {
		t.Fatalf("expected %x, got %x", want, table)
	}
}
