// Package trit implements the primitive value of the balanced-ternary
// execution substrate: a trit in {-1, 0, +1}, plus little-endian trit
// arrays and their conversions to/from signed integers and text.
package trit

import (
	"t3/internal/terrors"

	"golang.org/x/exp/constraints"
)

// Trit is a balanced-ternary digit. Negative, Zero, and Positive are the
// three valid values; Unknown is an out-of-band sentinel used only as a
// computation-result marker — it is never stored in memory or a register
// of a running machine. New and NewArray reject it; String and
// Array.String render it as '?', a character ParseArray does not accept.
type Trit int8

const (
	Negative Trit = -1
	Zero     Trit = 0
	Positive Trit = 1
	Unknown  Trit = 2
)

// New validates v and returns it as a Trit, or InvalidArgument if v is
// not one of -1, 0, +1.
func New(v int8) (Trit, error) {
	t := Trit(v)
	if !t.Valid() {
		return Unknown, terrors.New(terrors.InvalidArgument, "trit value out of range").With("value", v)
	}
	return t, nil
}

// Valid reports whether t is one of Negative, Zero, Positive.
func (t Trit) Valid() bool {
	return t == Negative || t == Zero || t == Positive
}

// Negate returns -1<->+1, 0->0. Negating Unknown yields Unknown.
func (t Trit) Negate() Trit {
	if t == Unknown {
		return Unknown
	}
	return -t
}

func (t Trit) String() string {
	switch t {
	case Negative:
		return "-"
	case Zero:
		return "0"
	case Positive:
		return "+"
	default:
		return "?"
	}
}

// AddWithCarry adds two trits per the 5-way balanced-ternary carry
// mapping: sum = a+b in {-2,...,2} maps to (result, carry) as
// -2->(+1,-1), -1->(-1,0), 0->(0,0), +1->(+1,0), +2->(-1,+1).
// Unknown propagates to both outputs.
func AddWithCarry(a, b Trit) (sum, carry Trit) {
	if a == Unknown || b == Unknown {
		return Unknown, Unknown
	}
	switch a + b {
	case -2:
		return Positive, Negative
	case -1:
		return Negative, Zero
	case 0:
		return Zero, Zero
	case 1:
		return Positive, Zero
	case 2:
		return Negative, Positive
	}
	return Unknown, Unknown
}

// Multiply returns a*b, clamped into {-1,0,1} (the product of two trits
// is always within that range). Unknown propagates.
func Multiply(a, b Trit) Trit {
	if a == Unknown || b == Unknown {
		return Unknown
	}
	return a * b
}

// Equal reports value equality; Unknown is equal only to Unknown.
func Equal(a, b Trit) bool {
	return a == b
}

// weight returns 3^n for non-negative n, generic over the integer type
// so both the array-index path (int) and the 32-bit conversion path
// (int32) share one implementation.
func weight[T constraints.Integer](n T) int64 {
	w := int64(1)
	for i := T(0); i < n; i++ {
		w *= 3
	}
	return w
}

// WeightAt returns the positional weight 3^i carried by index i of an
// Array (§3: "index i carries weight 3^i").
func WeightAt(i int) int64 {
	return weight(i)
}

// WeightAt32 is the int32-indexed variant of WeightAt, sharing the same
// generic weight implementation.
func WeightAt32(i int32) int64 {
	return weight(i)
}
