package rc5

import "iter"

// KeySequence yields the arithmetic progression P, P+Q, P+2Q, ... modulo 2^w.
// It never ends; every range over it starts again at P.
func KeySequence[W Word[W]]() iter.Seq[W] {
	return func(yield func(W) bool) {
		var zero W
		next, q := zero.P(), zero.Q()
		for yield(next) {
			next = next.Add(q)
		}
	}
}

// tableSize is the subkey table length for the given round count, 2(r+1).
func tableSize(rounds uint8) int {
	return 2 * (int(rounds) + 1)
}

// keyTable collects the first 2(r+1) terms of KeySequence.
func keyTable[W Word[W]](rounds uint8) []W {
	table := make([]W, 0, tableSize(rounds))
	for w := range KeySequence[W]() {
		if len(table) == cap(table) {
			break
		}
		table = append(table, w)
	}
	return table
}
