package tvm

import "fmt"

// Disassemble renders a single instruction in the §6 textual syntax.
// It is lossless for everything Assemble can produce except label
// names, which are not recoverable from bytecode: jump/call targets
// render as absolute `#<addr>` immediates rather than `@label`.
func Disassemble(inst Instruction) string {
	shape, ok := disasmShapes[inst.Opcode]
	if !ok {
		return fmt.Sprintf("; invalid opcode %d", inst.Opcode)
	}
	regs := []uint8{inst.Operand1, inst.Operand2, inst.Operand3}
	var operands []string
	regIdx := 0
	for _, kind := range shape {
		switch kind {
		case dasReg:
			operands = append(operands, fmt.Sprintf("R%d", regs[regIdx]))
			regIdx++
		case dasImm:
			operands = append(operands, fmt.Sprintf("#%d", inst.Imm))
		}
	}
	if len(operands) == 0 {
		return inst.Opcode.String()
	}
	line := inst.Opcode.String() + " " + operands[0]
	for _, o := range operands[1:] {
		line += "," + o
	}
	return line
}

type disasmOperand int

const (
	dasReg disasmOperand = iota
	dasImm
)

var disasmShapes = map[OpCode][]disasmOperand{
	LOAD: {dasReg, dasImm}, STORE: {dasReg, dasImm}, MOV: {dasReg, dasReg},
	ADD: {dasReg, dasReg, dasReg}, SUB: {dasReg, dasReg, dasReg},
	MUL: {dasReg, dasReg, dasReg}, DIV: {dasReg, dasReg, dasReg},
	AND: {dasReg, dasReg, dasReg}, OR: {dasReg, dasReg, dasReg}, XOR: {dasReg, dasReg, dasReg},
	NOT: {dasReg, dasReg}, CMP: {dasReg, dasReg, dasReg},
	JMP: {dasImm}, JZ: {dasReg, dasImm}, JNZ: {dasReg, dasImm},
	CALL: {dasImm}, RET: {}, PUSH: {dasReg}, POP: {dasReg},
	HALT: {}, NOP: {}, SYSCALL: {}, IRET: {}, CLI: {}, STI: {},
	CPUID: {dasReg}, RDTSC: {dasReg}, INT: {},
	LEA: {dasReg, dasReg, dasImm}, TST: {dasReg},
	TGATE: {dasReg, dasReg, dasReg, dasImm},
}

// DisassembleProgram renders a full instruction stream, one line per
// instruction, prefixed with its index for readability in CLI output.
func DisassembleProgram(insts []Instruction) []string {
	out := make([]string, len(insts))
	for i, inst := range insts {
		out[i] = fmt.Sprintf("%4d: %s", i, Disassemble(inst))
	}
	return out
}
