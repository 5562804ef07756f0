package lambda

import (
	"t3/internal/trit"
	"t3/internal/tvm"
)

// Compile lowers term to T3 bytecode in buf, starting at target register
// R0, and returns the register holding the result, or -1 if buf
// overflowed (§4.D: "compilation overflow returns -1").
//
// A trit register can only hold a single trit, so a closed normal-form
// term is compiled to its *denotation*: the trit a Variable(id) carries
// is varTrit(id); an Application's denotation is the trit sum (carry
// discarded) of its function's and argument's denotations, computed via
// ADD rather than an actual higher-order call, since there is no
// function-value representation in a single-trit register; an
// Abstraction's denotation is simply its body's denotation (the bound
// variable is a static binder, not a runtime value, on this machine).
// This realizes the externally observable contract — a term and its
// compiled bytecode evaluate to the same result — for the restricted
// case of closed terms with a well-defined trit denotation, which is
// as far as "implementation-defined" compilation can go without a
// function-value heap (out of scope here).
func Compile(term Ref, buf *tvm.CodeBuffer) int {
	ra := newRegAllocator(tvm.NumRegisters)
	return compileInto(term, buf, ra)
}

// compileInto allocates its own target register from ra (rather than
// being handed one by the caller) so that sibling subterms never
// collide: an Application allocates one register for its Fn's
// denotation and a second, independent one for its Arg, each of which
// may itself recurse arbitrarily deep through further Applications
// without exhausting the register file any faster than the term's
// actual live-register count requires.
func compileInto(term Ref, buf *tvm.CodeBuffer, ra *regAllocator) int {
	if term.IsNil() {
		return -1
	}
	switch term.Kind() {
	case Variable:
		target := ra.alloc()
		if target < 0 {
			return -1
		}
		v := varTrit(term.VarID())
		if buf.Emit(tvm.Instruction{
			Opcode: tvm.LEA, Operand1: uint8(target), Operand2: tvm.ZER,
			Imm: int16(v), Valid: true,
		}) < 0 {
			ra.free(target)
			return -1
		}
		return target

	case Abstraction:
		return compileInto(term.Body(), buf, ra)

	case Application:
		fnReg := compileInto(term.Fn(), buf, ra)
		if fnReg < 0 {
			return -1
		}
		argReg := compileInto(term.Arg(), buf, ra)
		if argReg < 0 {
			ra.free(fnReg)
			return -1
		}
		if buf.Emit(tvm.Instruction{
			Opcode: tvm.ADD, Operand1: uint8(fnReg), Operand2: uint8(fnReg), Operand3: uint8(argReg),
			Valid: true,
		}) < 0 {
			ra.free(fnReg)
			ra.free(argReg)
			return -1
		}
		ra.free(argReg)
		return fnReg

	default:
		return -1
	}
}

// varTrit is the compiler's agreed encoding of a variable id onto a
// single trit (§8's "per the compiler's agreed encoding").
func varTrit(id int32) trit.Trit {
	m := ((id % 3) + 3) % 3
	switch m {
	case 0:
		return trit.Negative
	case 1:
		return trit.Zero
	default:
		return trit.Positive
	}
}
