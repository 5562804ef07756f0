package tvm

import "t3/internal/terrors"

// Instruction is a decoded T3-ISA instruction (§3). Operand1/2/3 are
// register indices in [0,16); Immediate is a signed 16-bit value.
type Instruction struct {
	Opcode   OpCode
	Operand1 uint8
	Operand2 uint8
	Operand3 uint8
	Imm      int16
	Valid    bool
}

// InstructionSize is the §6 wire-format record size: 1 byte opcode + 3
// operand bytes + 2-byte signed little-endian immediate.
const InstructionSize = 6

// Encode renders inst into the 6-byte §6 wire layout.
func Encode(inst Instruction) [InstructionSize]byte {
	var buf [InstructionSize]byte
	buf[0] = byte(inst.Opcode)
	buf[1] = inst.Operand1
	buf[2] = inst.Operand2
	buf[3] = inst.Operand3
	u := uint16(inst.Imm)
	buf[4] = byte(u)
	buf[5] = byte(u >> 8)
	return buf
}

// Decode parses a 6-byte §6 wire record into an Instruction.
func Decode(buf [InstructionSize]byte) Instruction {
	imm := int16(uint16(buf[4]) | uint16(buf[5])<<8)
	return Instruction{
		Opcode:   OpCode(buf[0]),
		Operand1: buf[1],
		Operand2: buf[2],
		Operand3: buf[3],
		Imm:      imm,
		Valid:    true,
	}
}

// EncodeStream encodes a slice of instructions back-to-back with no
// padding, per §6 ("instructions may be concatenated without padding").
func EncodeStream(insts []Instruction) []byte {
	out := make([]byte, 0, len(insts)*InstructionSize)
	for _, inst := range insts {
		b := Encode(inst)
		out = append(out, b[:]...)
	}
	return out
}

// DecodeStream parses a byte slice whose length must be a multiple of
// InstructionSize (§6) into instructions.
func DecodeStream(data []byte) ([]Instruction, error) {
	if len(data)%InstructionSize != 0 {
		return nil, terrors.New(terrors.InvalidArgument, "bytecode length is not a multiple of the instruction size").
			With("length", len(data))
	}
	out := make([]Instruction, 0, len(data)/InstructionSize)
	for i := 0; i < len(data); i += InstructionSize {
		var buf [InstructionSize]byte
		copy(buf[:], data[i:i+InstructionSize])
		out = append(out, Decode(buf))
	}
	return out, nil
}

// CodeBuffer is the growable instruction-stream target the lambda
// compiler (internal/lambda) emits into, bounded by a fixed capacity
// (§4.D: "compile to a T3 bytecode buffer of given capacity").
type CodeBuffer struct {
	insts []Instruction
	cap   int
}

// NewCodeBuffer creates a buffer that rejects writes once it holds
// capacity instructions.
func NewCodeBuffer(capacity int) *CodeBuffer {
	return &CodeBuffer{insts: make([]Instruction, 0, capacity), cap: capacity}
}

// Emit appends inst, returning its index, or -1 if the buffer is full
// (§4.D: "compilation overflow returns -1").
func (b *CodeBuffer) Emit(inst Instruction) int {
	if len(b.insts) >= b.cap {
		return -1
	}
	b.insts = append(b.insts, inst)
	return len(b.insts) - 1
}

// Patch overwrites the instruction at index i (used to backpatch jump
// targets once a label's address is known).
func (b *CodeBuffer) Patch(i int, inst Instruction) {
	b.insts[i] = inst
}

// Len returns the number of instructions emitted so far.
func (b *CodeBuffer) Len() int {
	return len(b.insts)
}

// Instructions returns the emitted instruction stream.
func (b *CodeBuffer) Instructions() []Instruction {
	return b.insts
}
