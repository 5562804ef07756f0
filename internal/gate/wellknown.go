package gate

import "t3/internal/trit"

// Well-known dyadic function ids, pinned by encoding their truth tables
// with EncodeDyadic so the numeric id always matches the semantics named
// here regardless of table-building order.
var (
	// KleeneAND is Kleene's strong three-valued AND: min(a,b) under the
	// order Negative(false) < Zero(unknown) < Positive(true).
	KleeneAND = EncodeDyadic(func(a, b trit.Trit) trit.Trit {
		if a < b {
			return a
		}
		return b
	})

	// KleeneOR is Kleene's strong three-valued OR: max(a,b).
	KleeneOR = EncodeDyadic(func(a, b trit.Trit) trit.Trit {
		if a > b {
			return a
		}
		return b
	})

	// Consensus returns a when a==b, else Zero (the "no agreement"
	// value) — the standard ternary consensus operator.
	Consensus = EncodeDyadic(func(a, b trit.Trit) trit.Trit {
		if a == b {
			return a
		}
		return trit.Zero
	})

	// Minority returns the negation of Consensus: -a when a==b, else
	// Zero. It is the ternary analogue of a binary minority/NAND-style
	// gate (disagreement-biased negation).
	Minority = EncodeDyadic(func(a, b trit.Trit) trit.Trit {
		if a == b {
			return a.Negate()
		}
		return trit.Zero
	})

	// Plus is the non-carry addition result, the same function the TVM's
	// ADD opcode computes: the low trit of AddWithCarry(a,b), discarding
	// the carry.
	Plus = EncodeDyadic(func(a, b trit.Trit) trit.Trit {
		s, _ := trit.AddWithCarry(a, b)
		return s
	})

	// Times is trit multiplication, the same function the TVM's MUL
	// opcode computes.
	Times = EncodeDyadic(func(a, b trit.Trit) trit.Trit {
		return trit.Multiply(a, b)
	})

	// XOR is the fixed gate id referenced by the TVM's XOR opcode
	// (§4.C: "a fixed XOR gate id"). Balanced-ternary addition mod 3 is
	// the natural ternary generalization of binary XOR (both are the
	// group operation of the underlying Z_n), so XOR reuses Plus's
	// truth table under its own name for callers that look it up by
	// the XOR constant rather than the Plus constant.
	XOR = Plus
)

// Well-known monadic function ids.
var (
	// Not is trit negation: -1<->+1, 0->0.
	Not = EncodeMonadic(func(a trit.Trit) trit.Trit { return a.Negate() })

	// Identity is the monadic identity function f(a)=a.
	Identity = EncodeMonadic(func(a trit.Trit) trit.Trit { return a })
)
