package gate

import "t3/internal/trit"

// PostClass is a 6-bit mask over {P0, P1, P_1, Self-dual, Monotone,
// Linear}. Only the first three bits are mandatory per the contract; the
// remaining three are derived here too since the brute-force checks are
// cheap over a 9- or 27-cell table.
type PostClass uint8

const (
	PreservesZero PostClass = 1 << iota // f(0,...,0) == 0
	PreservesOne                        // f(1,...,1) == 1
	PreservesNegOne
	SelfDual
	Monotone
	Linear
)

// NoIdentity is the sentinel returned by Properties.Identity when the
// dyadic function has no identity element.
const NoIdentity trit.Trit = -2

// Properties holds the derived algebraic properties of a dyadic gate.
type Properties struct {
	ID            int
	Commutative   bool
	Associative   bool
	Identity      trit.Trit // NoIdentity if none
	PostClassMask PostClass
}

var values = [3]trit.Trit{trit.Negative, trit.Zero, trit.Positive}

// PropertiesOf derives the algebraic properties of dyadic function id.
func PropertiesOf(id int) Properties {
	p := Properties{ID: id, Identity: NoIdentity}

	p.Commutative = true
	for _, a := range values {
		for _, b := range values {
			if Eval(id, a, b) != Eval(id, b, a) {
				p.Commutative = false
			}
		}
	}

	p.Associative = true
	for _, a := range values {
		for _, b := range values {
			for _, c := range values {
				if Eval(id, Eval(id, a, b), c) != Eval(id, a, Eval(id, b, c)) {
					p.Associative = false
				}
			}
		}
	}

	for _, e := range values {
		ok := true
		for _, x := range values {
			if Eval(id, e, x) != x || Eval(id, x, e) != x {
				ok = false
				break
			}
		}
		if ok {
			p.Identity = e
			break
		}
	}

	p.PostClassMask = postClassOf(id)
	return p
}

// PreservesV reports whether f(v,v)=v for the given dyadic function.
func PreservesV(id int, v trit.Trit) bool {
	return Eval(id, v, v) == v
}

func postClassOf(id int) PostClass {
	var mask PostClass
	if PreservesV(id, trit.Zero) {
		mask |= PreservesZero
	}
	if PreservesV(id, trit.Positive) {
		mask |= PreservesOne
	}
	if PreservesV(id, trit.Negative) {
		mask |= PreservesNegOne
	}

	selfDual := true
	for _, a := range values {
		for _, b := range values {
			if Eval(id, a.Negate(), b.Negate()) != Eval(id, a, b).Negate() {
				selfDual = false
			}
		}
	}
	if selfDual {
		mask |= SelfDual
	}

	monotone := true
	for _, a1 := range values {
		for _, b1 := range values {
			for _, a2 := range values {
				for _, b2 := range values {
					if a1 <= a2 && b1 <= b2 {
						if Eval(id, a1, b1) > Eval(id, a2, b2) {
							monotone = false
						}
					}
				}
			}
		}
	}
	if monotone {
		mask |= Monotone
	}

	if isLinear(id) {
		mask |= Linear
	}
	return mask
}

// isLinear brute-forces whether f(a,b) = c0 + c1*a + c2*b (mod 3, in
// balanced representation) for some coefficients c0,c1,c2 in {-1,0,+1}.
func isLinear(id int) bool {
	for _, c0 := range values {
		for _, c1 := range values {
			for _, c2 := range values {
				match := true
				for _, a := range values {
					for _, b := range values {
						lhs := Eval(id, a, b)
						rhs := affine(c0, c1, c2, a, b)
						if lhs != rhs {
							match = false
						}
					}
				}
				if match {
					return true
				}
			}
		}
	}
	return false
}

// affine computes c0 + c1*a + c2*b in balanced-ternary (mod 3) form,
// i.e. each addition discards its carry the same way the TVM's ADD
// opcode does (§4.C).
func affine(c0, c1, c2, a, b trit.Trit) trit.Trit {
	t1, _ := trit.AddWithCarry(c0, trit.Multiply(c1, a))
	t2, _ := trit.AddWithCarry(t1, trit.Multiply(c2, b))
	return t2
}
