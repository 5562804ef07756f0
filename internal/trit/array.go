package trit

import (
	"strings"

	"t3/internal/terrors"
)

// Array is an ordered, little-endian sequence of Valid trits: index i
// carries weight 3^i. Size is bounded only by memory.
type Array []Trit

// NewArray validates every trit and returns the array, or
// InvalidArgument on the first Unknown/invalid entry.
func NewArray(trits ...Trit) (Array, error) {
	for i, t := range trits {
		if !t.Valid() {
			return nil, terrors.New(terrors.InvalidArgument, "invalid trit in array").With("index", i)
		}
	}
	out := make(Array, len(trits))
	copy(out, trits)
	return out, nil
}

// Append returns a new array with t appended at the high end.
func (a Array) Append(t Trit) (Array, error) {
	if !t.Valid() {
		return nil, terrors.New(terrors.InvalidArgument, "invalid trit appended")
	}
	out := make(Array, len(a)+1)
	copy(out, a)
	out[len(a)] = t
	return out, nil
}

// Get returns the trit at index i, or InvalidArgument if out of range.
func (a Array) Get(i int) (Trit, error) {
	if i < 0 || i >= len(a) {
		return Unknown, terrors.New(terrors.InvalidArgument, "array index out of range").With("index", i)
	}
	return a[i], nil
}

// Size returns the number of trits in the array.
func (a Array) Size() int {
	return len(a)
}

// trimHigh drops trailing (high-order) zero trits, keeping at least one
// trit so the zero array always prints as "0".
func trimHigh(a Array) Array {
	n := len(a)
	for n > 1 && a[n-1] == Zero {
		n--
	}
	return a[:n]
}

// FromInt32 converts a signed 32-bit integer to its balanced-ternary
// array via repeated divmod by 3: remainder 0 -> 0, remainder 1 -> +1,
// remainder 2 -> -1 with a carry into the running quotient. The result
// has at most 21 trits. If n is negative every digit is negated at the
// end.
func FromInt32(n int32) Array {
	if n == 0 {
		return Array{Zero}
	}
	neg := n < 0
	v := int64(n)
	if neg {
		v = -v
	}
	var digits Array
	for v != 0 {
		r := v % 3
		v /= 3
		switch r {
		case 0:
			digits = append(digits, Zero)
		case 1:
			digits = append(digits, Positive)
		case 2:
			digits = append(digits, Negative)
			v++
		}
	}
	if neg {
		for i := range digits {
			digits[i] = digits[i].Negate()
		}
	}
	return trimHigh(digits)
}

// Int32 converts the array back to a signed 32-bit integer. Overflow of
// the 32-bit range is the caller's concern for the array form but is
// reported here as an Overflow error since this method commits to int32.
func (a Array) Int32() (int32, error) {
	var val int64
	for i := len(a) - 1; i >= 0; i-- {
		if !a[i].Valid() {
			return 0, terrors.New(terrors.InvalidArgument, "invalid trit in array").With("index", i)
		}
		val = val*3 + int64(a[i])
	}
	if val > (1<<31)-1 || val < -(1<<31) {
		return 0, terrors.New(terrors.Overflow, "balanced-ternary value does not fit in int32").With("value", val)
	}
	return int32(val), nil
}

const alphabet = "-0+"

// String renders the array high-to-low using the alphabet '-','0','+'.
func (a Array) String() string {
	var sb strings.Builder
	for i := len(a) - 1; i >= 0; i-- {
		switch a[i] {
		case Negative:
			sb.WriteByte('-')
		case Zero:
			sb.WriteByte('0')
		case Positive:
			sb.WriteByte('+')
		default:
			sb.WriteByte('?')
		}
	}
	return sb.String()
}

// ParseArray parses a string over {'-','0','+'} (high-to-low, the same
// order String produces) back into an Array.
func ParseArray(s string) (Array, error) {
	if s == "" {
		return nil, terrors.New(terrors.InvalidArgument, "empty trit string")
	}
	out := make(Array, len(s))
	for i, r := range s {
		pos := len(s) - 1 - i
		switch r {
		case '-':
			out[pos] = Negative
		case '0':
			out[pos] = Zero
		case '+':
			out[pos] = Positive
		default:
			return nil, terrors.New(terrors.InvalidArgument, "invalid character in trit string").With("char", string(r))
		}
	}
	return out, nil
}

// ShiftLeft multiplies by 3^k by prepending k zero trits at the low end.
func (a Array) ShiftLeft(k int) Array {
	if k <= 0 {
		return append(Array(nil), a...)
	}
	out := make(Array, k, k+len(a))
	for i := 0; i < k; i++ {
		out[i] = Zero
	}
	out = append(out, a...)
	return out
}

// ShiftRight divides by 3^k by dropping the low k trits.
func (a Array) ShiftRight(k int) Array {
	if k <= 0 {
		return append(Array(nil), a...)
	}
	if k >= len(a) {
		return Array{Zero}
	}
	return append(Array(nil), a[k:]...)
}

// Add adds two trit arrays low-to-high, threading the carry; a final
// non-zero carry is appended as a new high trit.
func Add(a, b Array) Array {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(Array, 0, n+1)
	carry := Zero
	for i := 0; i < n; i++ {
		var av, bv Trit
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		s1, c1 := AddWithCarry(av, bv)
		s2, c2 := AddWithCarry(s1, carry)
		out = append(out, s2)
		carry, _ = AddWithCarry(c1, c2)
	}
	if carry != Zero {
		out = append(out, carry)
	}
	if len(out) == 0 {
		out = Array{Zero}
	}
	return trimHigh(out)
}

// Mul multiplies two trit arrays by shift-and-add: for each non-zero
// digit b[i], add (a * b[i]) shifted left by i positions.
func Mul(a, b Array) Array {
	result := Array{Zero}
	for i, d := range b {
		if d == Zero {
			continue
		}
		row := make(Array, len(a))
		for j, av := range a {
			row[j] = Multiply(av, d)
		}
		result = Add(result, row.ShiftLeft(i))
	}
	return result
}

// Compare returns -1, 0, or 1 by converting both arrays to their signed
// integer value and comparing.
func Compare(a, b Array) int {
	av, _ := a.Int32()
	bv, _ := b.Int32()
	switch {
	case av < bv:
		return -1
	case av > bv:
		return 1
	default:
		return 0
	}
}

// Chunks splits a into consecutive groups of n trits (low to high),
// the last group padded conceptually but returned short if a does not
// divide evenly.
func (a Array) Chunks(n int) []Array {
	if n <= 0 {
		return nil
	}
	var out []Array
	for i := 0; i < len(a); i += n {
		end := i + n
		if end > len(a) {
			end = len(a)
		}
		out = append(out, append(Array(nil), a[i:end]...))
	}
	return out
}
