package asm

import (
	"t3/internal/terrors"
	"t3/internal/tvm"
)

// operandKind classifies one operand slot; operandShapes lists, per
// opcode, the register/immediate operands a mnemonic expects, in source
// order, so the parser can validate each line without a bespoke rule per
// opcode.
type operandKind int

const (
	opReg operandKind = iota
	opImm
)

var operandShapes = map[tvm.OpCode][]operandKind{
	tvm.LOAD:    {opReg, opImm},
	tvm.STORE:   {opReg, opImm},
	tvm.MOV:     {opReg, opReg},
	tvm.ADD:     {opReg, opReg, opReg},
	tvm.SUB:     {opReg, opReg, opReg},
	tvm.MUL:     {opReg, opReg, opReg},
	tvm.DIV:     {opReg, opReg, opReg},
	tvm.AND:     {opReg, opReg, opReg},
	tvm.OR:      {opReg, opReg, opReg},
	tvm.XOR:     {opReg, opReg, opReg},
	tvm.NOT:     {opReg, opReg},
	tvm.CMP:     {opReg, opReg, opReg},
	tvm.JMP:     {opImm},
	tvm.JZ:      {opReg, opImm},
	tvm.JNZ:     {opReg, opImm},
	tvm.CALL:    {opImm},
	tvm.RET:     {},
	tvm.PUSH:    {opReg},
	tvm.POP:     {opReg},
	tvm.HALT:    {},
	tvm.NOP:     {},
	tvm.SYSCALL: {},
	tvm.IRET:    {},
	tvm.CLI:     {},
	tvm.STI:     {},
	tvm.CPUID:   {opReg},
	tvm.RDTSC:   {opReg},
	tvm.INT:     {},
	tvm.LEA:     {opReg, opReg, opImm},
	tvm.TST:     {opReg},
	tvm.TGATE:   {opReg, opReg, opReg, opImm},
}

// Parser turns a token stream into a resolved instruction stream, over
// a flat, one-instruction-per-line grammar with no expression
// precedence to track.
type Parser struct {
	tokens  []Token
	current int
}

// NewParser creates a parser over tokens (as produced by Lexer.ScanTokens).
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) peek() Token  { return p.tokens[p.current] }
func (p *Parser) atEnd() bool  { return p.peek().Type == TokenEOF }
func (p *Parser) advance() Token {
	t := p.tokens[p.current]
	if !p.atEnd() {
		p.current++
	}
	return t
}

// Parse produces the fully resolved instruction stream: a first pass
// records label addresses by instruction index, a second pass resolves
// @label immediates against that table.
func (p *Parser) Parse() ([]tvm.Instruction, error) {
	type pendingLine struct {
		mnemonic Token
		operands []Token
	}
	var lines []pendingLine
	labels := map[string]int{}

	for !p.atEnd() {
		for p.peek().Type == TokenNewline {
			p.advance()
		}
		if p.atEnd() {
			break
		}
		if p.peek().Type == TokenLabelDef {
			lbl := p.advance()
			labels[lbl.Lexeme] = len(lines)
			continue
		}
		if p.peek().Type != TokenMnemonic {
			return nil, terrors.New(terrors.InvalidArgument, "expected mnemonic or label").
				With("token", p.peek().Lexeme).With("line", p.peek().Line)
		}
		mnemonic := p.advance()
		var operands []Token
		for p.peek().Type != TokenNewline && p.peek().Type != TokenEOF {
			if p.peek().Type == TokenComma {
				p.advance()
				continue
			}
			operands = append(operands, p.advance())
		}
		lines = append(lines, pendingLine{mnemonic: mnemonic, operands: operands})
	}

	insts := make([]tvm.Instruction, 0, len(lines))
	for _, ln := range lines {
		op, ok := tvm.LookupMnemonic(ln.mnemonic.Lexeme)
		if !ok {
			return nil, terrors.New(terrors.InvalidArgument, "unknown mnemonic").
				With("mnemonic", ln.mnemonic.Lexeme).With("line", ln.mnemonic.Line)
		}
		shape, ok := operandShapes[op]
		if !ok {
			return nil, terrors.New(terrors.InvalidArgument, "opcode has no defined operand shape").
				With("mnemonic", ln.mnemonic.Lexeme)
		}
		if len(ln.operands) != len(shape) {
			return nil, terrors.New(terrors.InvalidArgument, "wrong operand count").
				With("mnemonic", ln.mnemonic.Lexeme).With("want", len(shape)).
				With("got", len(ln.operands)).With("line", ln.mnemonic.Line)
		}

		inst := tvm.Instruction{Opcode: op, Valid: true}
		var regs []uint8
		for i, kind := range shape {
			tok := ln.operands[i]
			switch kind {
			case opReg:
				r, err := parseRegister(tok)
				if err != nil {
					return nil, err
				}
				regs = append(regs, r)
			case opImm:
				v, err := resolveImmediate(tok, labels)
				if err != nil {
					return nil, err
				}
				inst.Imm = v
			}
		}
		if len(regs) > 0 {
			inst.Operand1 = regs[0]
		}
		if len(regs) > 1 {
			inst.Operand2 = regs[1]
		}
		if len(regs) > 2 {
			inst.Operand3 = regs[2]
		}
		insts = append(insts, inst)
	}
	return insts, nil
}

func parseRegister(tok Token) (uint8, error) {
	if tok.Type != TokenRegister {
		return 0, terrors.New(terrors.InvalidArgument, "expected register operand").
			With("token", tok.Lexeme).With("line", tok.Line)
	}
	n := 0
	for _, c := range tok.Lexeme[1:] {
		n = n*10 + int(c-'0')
	}
	if n < 0 || n >= tvm.NumRegisters {
		return 0, terrors.New(terrors.InvalidArgument, "register index out of range").
			With("register", tok.Lexeme).With("line", tok.Line)
	}
	return uint8(n), nil
}

func resolveImmediate(tok Token, labels map[string]int) (int16, error) {
	switch tok.Type {
	case TokenImm:
		return int16(tok.Value), nil
	case TokenLabelRef:
		addr, ok := labels[tok.Lexeme]
		if !ok {
			return 0, terrors.New(terrors.InvalidArgument, "undefined label").
				With("label", tok.Lexeme).With("line", tok.Line)
		}
		return int16(addr), nil
	default:
		return 0, terrors.New(terrors.InvalidArgument, "expected immediate or label reference").
			With("token", tok.Lexeme).With("line", tok.Line)
	}
}

// Assemble is the package's one-call entry point: lex then parse source
// into a resolved instruction stream.
func Assemble(source string) ([]tvm.Instruction, error) {
	lx := NewLexer(source)
	tokens, err := lx.ScanTokens()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}
