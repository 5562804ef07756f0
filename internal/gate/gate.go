// Package gate implements the ternary-logic gate evaluator: 19,683
// dyadic functions and 27 monadic functions over trits, dispatched via
// lookup table, plus algebraic-property derivation (commutativity,
// associativity, identity element, value-preservation, and a Post-class
// tag).
//
// The tables are built once, deterministically, by enumerating each
// function id's mixed-radix digits over {-1,0,+1} rather than being
// hand-written.
package gate

import (
	"sync"

	"t3/internal/terrors"
	"t3/internal/trit"
)

const (
	// DyadicCount is 3^9: the number of distinct two-argument trit functions.
	DyadicCount = 19683
	// MonadicCount is 3^3: the number of distinct one-argument trit functions.
	MonadicCount = 27
)

var (
	dyadic  [DyadicCount][9]trit.Trit
	monadic [MonadicCount][3]trit.Trit
	once    sync.Once
	inputs3 = [3]trit.Trit{trit.Negative, trit.Zero, trit.Positive}
)

// dyadicIndex is this module's input-pair indexing: (a+1)*3+(b+1).
func dyadicIndex(a, b trit.Trit) int {
	return int(a+1)*3 + int(b+1)
}

// monadicIndex is the analogous single-input indexing: a+1.
func monadicIndex(a trit.Trit) int {
	return int(a + 1)
}

func digitsOf(id, n int) []int8 {
	digits := make([]int8, n)
	for i := 0; i < n; i++ {
		digits[i] = int8(id % 3)
		id /= 3
	}
	return digits
}

// EncodeDyadic builds the function id whose truth table is exactly f,
// evaluated over all 9 input pairs in dyadicIndex order ((a+1)*3+(b+1),
// which is what looping a then b over {-1,0,+1} produces directly). It
// is the inverse of table lookup, used to pin the well-known gate ids
// below.
func EncodeDyadic(f func(a, b trit.Trit) trit.Trit) int {
	id := 0
	mul := 1
	for _, a := range inputs3 {
		for _, b := range inputs3 {
			v := f(a, b)
			id += int(v+1) * mul
			mul *= 3
		}
	}
	return id
}

// EncodeMonadic is EncodeDyadic's one-argument analogue.
func EncodeMonadic(f func(a trit.Trit) trit.Trit) int {
	id := 0
	mul := 1
	for _, a := range inputs3 {
		v := f(a)
		id += int(v+1) * mul
		mul *= 3
	}
	return id
}

func init() {
	buildTables()
}

func buildTables() {
	once.Do(func() {
		for id := 0; id < DyadicCount; id++ {
			digits := digitsOf(id, 9)
			var row [9]trit.Trit
			for i, d := range digits {
				row[i] = trit.Trit(d) - 1
			}
			dyadic[id] = row
		}
		for id := 0; id < MonadicCount; id++ {
			digits := digitsOf(id, 3)
			var row [3]trit.Trit
			for i, d := range digits {
				row[i] = trit.Trit(d) - 1
			}
			monadic[id] = row
		}
	})
}

// Eval evaluates the dyadic function id at (a,b). An invalid id or an
// Unknown/invalid trit input yields Unknown.
func Eval(id int, a, b trit.Trit) trit.Trit {
	if id < 0 || id >= DyadicCount || !a.Valid() || !b.Valid() {
		return trit.Unknown
	}
	return dyadic[id][dyadicIndex(a, b)]
}

// EvalMonadic evaluates the monadic function id at a.
func EvalMonadic(id int, a trit.Trit) trit.Trit {
	if id < 0 || id >= MonadicCount || !a.Valid() {
		return trit.Unknown
	}
	return monadic[id][monadicIndex(a)]
}

// TruthTable returns the 9 output cells of dyadic function id in
// dyadicIndex order, or an InvalidArgument error if id is out of range.
func TruthTable(id int) ([9]trit.Trit, error) {
	if id < 0 || id >= DyadicCount {
		return [9]trit.Trit{}, terrors.New(terrors.InvalidArgument, "gate id out of range").With("id", id)
	}
	return dyadic[id], nil
}

// MonadicTruthTable returns the 3 output cells of monadic function id.
func MonadicTruthTable(id int) ([3]trit.Trit, error) {
	if id < 0 || id >= MonadicCount {
		return [3]trit.Trit{}, terrors.New(terrors.InvalidArgument, "monadic gate id out of range").With("id", id)
	}
	return monadic[id], nil
}
