package tvm

import (
	"testing"

	"t3/internal/terrors"
	"t3/internal/trit"
)

func newTestVM(memSize int) *TVM {
	cfg := DefaultConfig()
	cfg.MemorySize = memSize
	cfg.ICacheSize = 8
	cfg.PredictorSize = 8
	return New(cfg)
}

// Scenario 6: LOAD R0,#1; LOAD R1,#1; ADD R2,R0,R1; HALT
func TestRunAddProgram(t *testing.T) {
	m := newTestVM(64)
	if err := m.SetMemoryAt(1, trit.Positive); err != nil {
		t.Fatalf("SetMemoryAt: %v", err)
	}
	m.LoadProgram([]Instruction{
		{Opcode: LOAD, Operand1: R0, Imm: 1},
		{Opcode: LOAD, Operand1: R1, Imm: 1},
		{Opcode: ADD, Operand1: R2, Operand2: R0, Operand3: R1},
		{Opcode: HALT},
	})
	m.Run()

	if !m.Halted() {
		t.Fatalf("expected halted")
	}
	if m.Err() != nil {
		t.Fatalf("unexpected error: %v", m.Err())
	}
	r2, err := m.Register(R2)
	if err != nil {
		t.Fatalf("Register(R2): %v", err)
	}
	if r2 != trit.Negative {
		t.Fatalf("R2 = %v, want %v (sum component of +1+1)", r2, trit.Negative)
	}
	if m.InstructionsExecuted() != 4 {
		t.Fatalf("InstructionsExecuted = %d, want 4", m.InstructionsExecuted())
	}
}

func TestPushOverflowAtSPZero(t *testing.T) {
	m := newTestVM(64)
	m.sp = 0
	m.LoadProgram([]Instruction{
		{Opcode: PUSH, Operand1: R0},
	})
	m.Run()

	if !m.Halted() {
		t.Fatalf("expected halted after overflow")
	}
	if m.Err() == nil || m.Err().Kind != terrors.Overflow {
		t.Fatalf("Err() = %v, want Overflow", m.Err())
	}
}

func TestDivisionByZeroHaltsWithError(t *testing.T) {
	m := newTestVM(64)
	m.LoadProgram([]Instruction{
		{Opcode: DIV, Operand1: R2, Operand2: R0, Operand3: R1},
	})
	m.Run()

	if !m.Halted() {
		t.Fatalf("expected halted")
	}
	if m.Err() == nil || m.Err().Kind != terrors.DivideByZero {
		t.Fatalf("Err() = %v, want DivideByZero", m.Err())
	}
}

func TestCallIntoAddressBeyondMemorySizeIsInvalidArgument(t *testing.T) {
	m := newTestVM(64)
	m.LoadProgram([]Instruction{
		{Opcode: CALL, Imm: 1000},
	})
	m.Run()

	if !m.Halted() {
		t.Fatalf("expected halted")
	}
	if m.Err() == nil || m.Err().Kind != terrors.InvalidArgument {
		t.Fatalf("Err() = %v, want InvalidArgument", m.Err())
	}
}

func TestRetWithEmptyCallStackIsStructuralInvariant(t *testing.T) {
	m := newTestVM(64)
	m.LoadProgram([]Instruction{
		{Opcode: RET},
	})
	m.Run()

	if m.Err() == nil || m.Err().Kind != terrors.StructuralInvariant {
		t.Fatalf("Err() = %v, want StructuralInvariant", m.Err())
	}
}

// i-cache warm vs cold execution must produce identical final state; only
// the hit/miss counters differ (§8).
func TestICacheWarmVsColdIdenticalFinalState(t *testing.T) {
	program := []Instruction{
		{Opcode: LOAD, Operand1: R0, Imm: 1},
		{Opcode: LOAD, Operand1: R1, Imm: 1},
		{Opcode: ADD, Operand1: R2, Operand2: R0, Operand3: R1},
		{Opcode: JMP, Imm: 0},
	}

	run := func(steps int) *TVM {
		m := newTestVM(64)
		m.SetMemoryAt(1, trit.Positive)
		m.LoadProgram(program)
		for i := 0; i < steps; i++ {
			m.Step()
		}
		return m
	}

	cold := run(4)
	warm := run(8) // loops back via JMP, re-fetching from a warm cache

	r2Cold, _ := cold.Register(R2)
	r2Warm, _ := warm.Register(R2)
	if r2Cold != r2Warm {
		t.Fatalf("R2 diverged between cold (%v) and warm (%v) execution", r2Cold, r2Warm)
	}

	hits, misses := warm.CacheStats()
	if hits == 0 {
		t.Fatalf("expected at least one i-cache hit on the warm run, got hits=%d misses=%d", hits, misses)
	}
}

func TestSetRegisterAndRegisterRoundTripForTritRegisters(t *testing.T) {
	m := newTestVM(32)
	for _, r := range []int{R0, R3, R7, ACC, TMP, CR} {
		if err := m.SetRegister(r, trit.Negative); err != nil {
			t.Fatalf("SetRegister(%d): %v", r, err)
		}
		v, err := m.Register(r)
		if err != nil {
			t.Fatalf("Register(%d): %v", r, err)
		}
		if v != trit.Negative {
			t.Fatalf("register %d = %v, want %v", r, v, trit.Negative)
		}
	}
}

func TestZeroRegisterAlwaysReadsZeroAndIgnoresWrites(t *testing.T) {
	m := newTestVM(32)
	if err := m.SetRegister(ZER, trit.Positive); err != nil {
		t.Fatalf("SetRegister(ZER): %v", err)
	}
	v, err := m.Register(ZER)
	if err != nil {
		t.Fatalf("Register(ZER): %v", err)
	}
	if v != trit.Zero {
		t.Fatalf("ZER = %v, want Zero", v)
	}
}

func TestInvalidRegisterIndexIsInvalidArgument(t *testing.T) {
	m := newTestVM(32)
	if _, err := m.Register(99); err == nil {
		t.Fatalf("expected error for out-of-range register")
	}
}

func TestOutOfRangeOperandHaltsDuringExecute(t *testing.T) {
	m := newTestVM(64)
	m.LoadProgram([]Instruction{
		{Opcode: ADD, Operand1: R0, Operand2: 99, Operand3: R1},
	})
	m.Run()

	if !m.Halted() {
		t.Fatalf("expected halted on out-of-range operand")
	}
	if m.Err() == nil {
		t.Fatalf("expected an error")
	}
	if m.Err().Kind != terrors.InvalidArgument {
		t.Fatalf("Err().Kind = %v, want InvalidArgument", m.Err().Kind)
	}
}

func TestOutOfRangeDestinationOperandHaltsDuringExecute(t *testing.T) {
	m := newTestVM(64)
	m.LoadProgram([]Instruction{
		{Opcode: NOT, Operand1: 200, Operand2: R0},
	})
	m.Run()

	if !m.Halted() {
		t.Fatalf("expected halted on out-of-range destination operand")
	}
	if m.Err() == nil {
		t.Fatalf("expected an error")
	}
}

func TestBranchPredictorStatsUpdateOnConditionalJump(t *testing.T) {
	m := newTestVM(64)
	m.LoadProgram([]Instruction{
		{Opcode: JZ, Operand1: ZER, Imm: 2},
		{Opcode: HALT},
		{Opcode: HALT},
	})
	m.Run()

	predictions, _ := m.BranchStats()
	if predictions == 0 {
		t.Fatalf("expected at least one recorded branch resolution")
	}
}

func TestCallThenRetReturnsToInstructionAfterCall(t *testing.T) {
	m := newTestVM(64)
	m.LoadProgram([]Instruction{
		{Opcode: CALL, Imm: 3},     // 0: call subroutine at 3
		{Opcode: LOAD, Operand1: R0, Imm: 0}, // 1: return lands here
		{Opcode: HALT},             // 2
		{Opcode: RET},              // 3: subroutine body
	})
	m.Run()

	if !m.Halted() {
		t.Fatalf("expected halted")
	}
	if m.Err() != nil {
		t.Fatalf("unexpected error: %v", m.Err())
	}
	if m.InstructionsExecuted() != 4 {
		t.Fatalf("InstructionsExecuted = %d, want 4 (CALL, RET, LOAD, HALT)", m.InstructionsExecuted())
	}
}
