package tvm

import (
	"github.com/google/uuid"

	"t3/internal/collab"
	"t3/internal/diag"
	"t3/internal/gate"
	"t3/internal/terrors"
	"t3/internal/trit"
)

// Config configures a TVM instance at construction: a plain field
// struct rather than a functional-options API.
type Config struct {
	MemorySize    int // must be <= 65536 (§3)
	ICacheSize    int // power of two
	PredictorSize int // power of two, same size as the i-cache (§3)
	Ticks         collab.Ticks
	Sink          collab.Sink
	Alloc         collab.Allocator
}

const maxMemorySize = 65536

// DefaultConfig returns a Config with the standard defaults used
// across this repo's tests and CLI.
func DefaultConfig() Config {
	return Config{
		MemorySize:    maxMemorySize,
		ICacheSize:    256,
		PredictorSize: 256,
	}
}

// TVM is the Ternary Virtual Machine: registers, memory, stack, i-cache,
// branch predictor, and execution counters (§3).
//
// The general-purpose registers (R0-R7), ACC, TMP, and CR hold a single
// trit each, per §3. PC, SP, FP, and LR conceptually address up to
// 65,536 memory cells, which does not fit in one trit; this
// implementation keeps those four as ordinary 32-bit fields (pc, sp,
// fp, lr) rather than forcing an address into a trit, and Register/
// SetRegister expose them as the sign of the address for callers that
// address the register file uniformly by index. Control flow inside
// execute() manipulates the wide fields directly.
type TVM struct {
	id uuid.UUID

	memory    []trit.Trit
	registers [8]trit.Trit // R0..R7
	acc       trit.Trit
	tmp       trit.Trit
	cr        trit.Trit

	pc        int32
	sp        int32
	fp        int32
	lr        int32
	program   []Instruction
	callStack []int32

	icache *ICache
	bp     *BranchPredictor

	halted bool
	err    *terrors.Error

	instructionsExecuted uint64

	ticks collab.Ticks
	log   *diag.Logger
}

// New constructs a TVM with SP initialized to memorySize-1 (§4.C: "SP
// starts at memory_size-1 and grows downward").
func New(cfg Config) *TVM {
	if cfg.MemorySize <= 0 || cfg.MemorySize > maxMemorySize {
		cfg.MemorySize = maxMemorySize
	}
	if cfg.ICacheSize == 0 {
		cfg.ICacheSize = 256
	}
	if cfg.PredictorSize == 0 {
		cfg.PredictorSize = cfg.ICacheSize
	}
	m := &TVM{
		id:     uuid.New(),
		memory: make([]trit.Trit, cfg.MemorySize),
		icache: NewICache(cfg.ICacheSize),
		bp:     NewBranchPredictor(cfg.PredictorSize),
		ticks:  cfg.Ticks,
		log:    diag.New(cfg.Sink, cfg.Alloc),
	}
	m.sp = int32(cfg.MemorySize) - 1
	return m
}

// ID returns the instance's diagnostic identifier (DOMAIN STACK: used
// only to tell TVM instances apart in an interleaved log, per §5's "no
// ordering between instances" model).
func (m *TVM) ID() uuid.UUID { return m.id }

// Halted reports whether the machine has halted (via HALT or an error).
func (m *TVM) Halted() bool { return m.halted }

// Err returns the machine's sticky error state, or nil.
func (m *TVM) Err() *terrors.Error { return m.err }

// InstructionsExecuted returns the execution counter.
func (m *TVM) InstructionsExecuted() uint64 { return m.instructionsExecuted }

// CacheStats returns the i-cache hit/miss counters.
func (m *TVM) CacheStats() (hits, misses uint64) { return m.icache.Stats() }

// BranchStats returns the branch predictor's prediction/misprediction
// counters.
func (m *TVM) BranchStats() (predictions, mispredictions uint64) { return m.bp.Stats() }

// Register reads register r, or InvalidArgument if out of range. R15
// (ZERO) always reads as Zero; PC/SP/FP/LR read back as the sign of
// their (wider) address value.
func (m *TVM) Register(r int) (trit.Trit, error) {
	switch {
	case r >= R0 && r <= R7:
		return m.registers[r], nil
	case r == PC:
		return trit.Trit(sign(int(m.pc))), nil
	case r == SP:
		return trit.Trit(sign(int(m.sp))), nil
	case r == FP:
		return trit.Trit(sign(int(m.fp))), nil
	case r == LR:
		return trit.Trit(sign(int(m.lr))), nil
	case r == CR:
		return m.cr, nil
	case r == ACC:
		return m.acc, nil
	case r == TMP:
		return m.tmp, nil
	case r == ZER:
		return trit.Zero, nil
	default:
		return trit.Unknown, terrors.New(terrors.InvalidArgument, "register index out of range").With("register", r)
	}
}

// SetRegister writes register r, ignoring writes to R15 (ZERO). Writing
// PC/SP/FP/LR sets the corresponding wide field to +1/0/-1 scaled
// trivially from the trit (these registers are normally only mutated by
// control-flow opcodes operating on the wide fields directly, not via
// SetRegister; this path exists so the register file remains
// addressable uniformly for introspection and tests).
func (m *TVM) SetRegister(r int, v trit.Trit) error {
	switch {
	case r >= R0 && r <= R7:
		m.registers[r] = v
	case r == PC:
		m.pc = int32(v)
	case r == SP:
		m.sp = int32(v)
	case r == FP:
		m.fp = int32(v)
	case r == LR:
		m.lr = int32(v)
	case r == CR:
		m.cr = v
	case r == ACC:
		m.acc = v
	case r == TMP:
		m.tmp = v
	case r == ZER:
		// read-only, writes ignored
	default:
		return terrors.New(terrors.InvalidArgument, "register index out of range").With("register", r)
	}
	return nil
}

// MemoryAt reads memory[addr].
func (m *TVM) MemoryAt(addr int) (trit.Trit, error) {
	if addr < 0 || addr >= len(m.memory) {
		return trit.Unknown, terrors.New(terrors.InvalidArgument, "memory address out of range").With("address", addr)
	}
	return m.memory[addr], nil
}

// SetMemoryAt writes memory[addr] and invalidates any i-cache line that
// covers it, since the contract requires code-memory writes to
// invalidate affected decoded-instruction cache entries (§3).
func (m *TVM) SetMemoryAt(addr int, v trit.Trit) error {
	if addr < 0 || addr >= len(m.memory) {
		return terrors.New(terrors.InvalidArgument, "memory address out of range").With("address", addr)
	}
	m.memory[addr] = v
	m.icache.Invalidate(uint32(addr))
	return nil
}

// LoadProgram installs insts as the machine's program and resets PC to 0.
// The decoded program lives in a side table addressed in instruction
// units, separate from trit memory, which is what PC/JMP/CALL targets
// index into. Any i-cache lines from a previous program are dropped
// since they decode against program indices, not memory addresses.
func (m *TVM) LoadProgram(insts []Instruction) {
	m.program = insts
	m.pc = 0
	m.icache = NewICache(len(m.icache.lines))
}

func (m *TVM) setError(err *terrors.Error) {
	m.err = err
	m.halted = true
	m.log.Dump(diag.Warn, "halted on error", diag.Fields{
		"id": m.id, "pc": m.pc, "error": err,
	})
}

// decodeAt decodes the instruction at program-counter address pc,
// consulting the i-cache first (§4.C step 1).
func (m *TVM) decodeAt(pc uint32) Instruction {
	return m.icache.Lookup(pc, func(addr uint32) Instruction {
		if int(addr) >= len(m.program) {
			return Instruction{}
		}
		return m.program[addr]
	})
}

// Step executes exactly one fetch-decode-execute cycle (§4.C). It is the
// building block Run loops over; exposed separately so callers (and the
// REPL) can single-step.
func (m *TVM) Step() {
	if m.halted || m.err != nil {
		return
	}
	if m.pc < 0 || int(m.pc) >= len(m.program) {
		m.setError(terrors.New(terrors.InvalidArgument, "program counter out of range").With("pc", m.pc))
		return
	}
	inst := m.decodeAt(uint32(m.pc))
	m.log.Debugf("pc=%d opcode=%d", m.pc, inst.Opcode)
	m.execute(inst)
	if !m.halted && m.err == nil {
		m.pc++
	}
	m.instructionsExecuted++
}

// Run executes instructions until the machine halts or errors.
func (m *TVM) Run() {
	for !m.halted && m.err == nil {
		m.Step()
	}
}

func (m *TVM) reg(idx uint8) (trit.Trit, error) {
	return m.Register(int(idx))
}

func (m *TVM) setReg(idx uint8, v trit.Trit) error {
	return m.SetRegister(int(idx), v)
}

// regOK reads register idx, setting the machine's sticky error and
// halting if idx is out of range (§4.C/§7: "out-of-range register
// index -> set error, halt"). The bool return tells the caller whether
// it is still safe to proceed.
func (m *TVM) regOK(idx uint8) (trit.Trit, bool) {
	v, err := m.reg(idx)
	if err != nil {
		m.setError(err.(*terrors.Error))
		return trit.Unknown, false
	}
	return v, true
}

// setRegOK writes register idx, setting the machine's sticky error and
// halting if idx is out of range. The bool return tells the caller
// whether the write succeeded.
func (m *TVM) setRegOK(idx uint8, v trit.Trit) bool {
	if err := m.setReg(idx, v); err != nil {
		m.setError(err.(*terrors.Error))
		return false
	}
	return true
}

func (m *TVM) execute(inst Instruction) {
	switch inst.Opcode {
	case NOP:
		// no-op

	case LOAD:
		v, err := m.MemoryAt(int(inst.Imm))
		if err != nil {
			m.setError(err.(*terrors.Error))
			return
		}
		m.setRegOK(inst.Operand1, v)

	case STORE:
		v, ok := m.regOK(inst.Operand1)
		if !ok {
			return
		}
		if err := m.SetMemoryAt(int(inst.Imm), v); err != nil {
			m.setError(err.(*terrors.Error))
		}

	case MOV:
		v, ok := m.regOK(inst.Operand2)
		if !ok {
			return
		}
		m.setRegOK(inst.Operand1, v)

	case ADD:
		a, ok := m.regOK(inst.Operand2)
		if !ok {
			return
		}
		b, ok := m.regOK(inst.Operand3)
		if !ok {
			return
		}
		s, _ := trit.AddWithCarry(a, b)
		m.setRegOK(inst.Operand1, s)

	case SUB:
		a, ok := m.regOK(inst.Operand2)
		if !ok {
			return
		}
		b, ok := m.regOK(inst.Operand3)
		if !ok {
			return
		}
		s, _ := trit.AddWithCarry(a, b.Negate())
		m.setRegOK(inst.Operand1, s)

	case MUL:
		a, ok := m.regOK(inst.Operand2)
		if !ok {
			return
		}
		b, ok := m.regOK(inst.Operand3)
		if !ok {
			return
		}
		m.setRegOK(inst.Operand1, trit.Multiply(a, b))

	case DIV:
		a, ok := m.regOK(inst.Operand2)
		if !ok {
			return
		}
		b, ok := m.regOK(inst.Operand3)
		if !ok {
			return
		}
		if b == trit.Zero {
			m.setError(terrors.New(terrors.DivideByZero, "division by zero trit"))
			return
		}
		m.setRegOK(inst.Operand1, divTrit(a, b))

	case AND:
		a, ok := m.regOK(inst.Operand2)
		if !ok {
			return
		}
		b, ok := m.regOK(inst.Operand3)
		if !ok {
			return
		}
		m.setRegOK(inst.Operand1, gate.Eval(gate.KleeneAND, a, b))

	case OR:
		a, ok := m.regOK(inst.Operand2)
		if !ok {
			return
		}
		b, ok := m.regOK(inst.Operand3)
		if !ok {
			return
		}
		m.setRegOK(inst.Operand1, gate.Eval(gate.KleeneOR, a, b))

	case XOR:
		a, ok := m.regOK(inst.Operand2)
		if !ok {
			return
		}
		b, ok := m.regOK(inst.Operand3)
		if !ok {
			return
		}
		m.setRegOK(inst.Operand1, gate.Eval(gate.XOR, a, b))

	case NOT:
		a, ok := m.regOK(inst.Operand2)
		if !ok {
			return
		}
		m.setRegOK(inst.Operand1, a.Negate())

	case CMP:
		a, ok := m.regOK(inst.Operand2)
		if !ok {
			return
		}
		b, ok := m.regOK(inst.Operand3)
		if !ok {
			return
		}
		m.setRegOK(inst.Operand1, trit.Trit(sign(int(a)-int(b))))

	case JMP:
		m.pc = int32(inst.Imm) - 1 // Step() will pc++ after execute

	case JZ:
		a, ok := m.regOK(inst.Operand1)
		if !ok {
			return
		}
		taken := a == trit.Zero
		m.bp.Resolve(uint32(m.pc), taken)
		if taken {
			m.pc = int32(inst.Imm) - 1
		}

	case JNZ:
		a, ok := m.regOK(inst.Operand1)
		if !ok {
			return
		}
		taken := a != trit.Zero
		m.bp.Resolve(uint32(m.pc), taken)
		if taken {
			m.pc = int32(inst.Imm) - 1
		}

	case CALL:
		if err := m.pushAddr(m.pc + 1); err != nil {
			m.setError(err)
			return
		}
		m.pc = int32(inst.Imm) - 1

	case RET:
		addr, err := m.popAddr()
		if err != nil {
			m.setError(err)
			return
		}
		m.pc = addr - 1

	case PUSH:
		v, ok := m.regOK(inst.Operand1)
		if !ok {
			return
		}
		if m.sp <= 0 {
			m.setError(terrors.New(terrors.Overflow, "stack overflow"))
			return
		}
		if err := m.SetMemoryAt(int(m.sp), v); err != nil {
			m.setError(err.(*terrors.Error))
			return
		}
		m.sp--

	case POP:
		m.sp++
		if int(m.sp) >= len(m.memory) {
			m.setError(terrors.New(terrors.Underflow, "stack underflow"))
			return
		}
		v, err := m.MemoryAt(int(m.sp))
		if err != nil {
			m.setError(err.(*terrors.Error))
			return
		}
		m.setRegOK(inst.Operand1, v)

	case HALT:
		m.halted = true

	case SYSCALL, IRET, CLI, STI, INT:
		// No hosted OS sits beneath this machine (§1 non-goals); these
		// privileged opcodes only toggle CR to record that a trap was
		// requested, since there is nothing to trap into.
		m.cr = trit.Positive

	case CPUID:
		m.setRegOK(inst.Operand1, trit.Positive)

	case RDTSC:
		var ticks uint64
		if m.ticks != nil {
			ticks = m.ticks()
		}
		m.setRegOK(inst.Operand1, trit.Trit(sign(int(ticks%3)-1)))

	case LEA:
		a, ok := m.regOK(inst.Operand2)
		if !ok {
			return
		}
		sum, _ := trit.AddWithCarry(a, trit.Trit(sign(int(inst.Imm))))
		m.setRegOK(inst.Operand1, sum)

	case TST:
		a, ok := m.regOK(inst.Operand1)
		if !ok {
			return
		}
		m.cr = trit.Trit(sign(int(a)))

	case TGATE:
		a, ok := m.regOK(inst.Operand2)
		if !ok {
			return
		}
		b, ok := m.regOK(inst.Operand3)
		if !ok {
			return
		}
		m.setRegOK(inst.Operand1, gate.Eval(int(inst.Imm), a, b))

	default:
		m.setError(terrors.New(terrors.InvalidArgument, "invalid opcode").With("opcode", inst.Opcode))
	}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

// divTrit implements DIV's Rd <- sign(Ra/Rb) contract over trit values.
func divTrit(a, b trit.Trit) trit.Trit {
	return trit.Trit(sign(int(a) / int(b)))
}

func (m *TVM) pushAddr(addr int32) *terrors.Error {
	if m.sp < 1 {
		return terrors.New(terrors.Overflow, "stack overflow")
	}
	// Encoding a return address across several trit memory cells would
	// be overkill for a fixed 32-bit PC, so the return-address stack is
	// a dedicated slice alongside trit memory rather than being folded
	// into it.
	m.callStack = append(m.callStack, addr)
	m.sp--
	return nil
}

func (m *TVM) popAddr() (int32, *terrors.Error) {
	if len(m.callStack) == 0 {
		return 0, terrors.New(terrors.StructuralInvariant, "RET with empty call stack")
	}
	addr := m.callStack[len(m.callStack)-1]
	m.callStack = m.callStack[:len(m.callStack)-1]
	m.sp++
	return addr, nil
}
