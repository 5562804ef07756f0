package main

import (
	"flag"
	"fmt"
	"os"

	"t3/internal/asm"
	"t3/internal/tvm"
)

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	verbose := fs.Bool("verbose", false, "dump per-instruction and error diagnostics to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) < 1 {
		return fmt.Errorf("usage: t3 run [-verbose] <file.t3|file.t3s>")
	}
	path := rest[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	insts, err := loadProgram(path, data)
	if err != nil {
		return err
	}

	cfg := tvm.DefaultConfig()
	if *verbose {
		cfg.Sink = os.Stderr
	}
	m := tvm.New(cfg)
	m.LoadProgram(insts)
	m.Run()

	fmt.Printf("halted=%v instructions=%d\n", m.Halted(), m.InstructionsExecuted())
	if e := m.Err(); e != nil {
		fmt.Printf("error: %v\n", e)
	}
	for r := 0; r < tvm.NumRegisters; r++ {
		v, _ := m.Register(r)
		fmt.Printf("  R%-2d = %s\n", r, v)
	}
	hits, misses := m.CacheStats()
	predictions, mispredicts := m.BranchStats()
	fmt.Printf("icache hits=%d misses=%d; branches predicted=%d mispredicted=%d\n",
		hits, misses, predictions, mispredicts)
	return nil
}

// loadProgram assembles .t3s text source or decodes .t3 wire bytecode,
// dispatching on the file's well-formedness as text assembly first.
func loadProgram(path string, data []byte) ([]tvm.Instruction, error) {
	if insts, err := asm.Assemble(string(data)); err == nil {
		return insts, nil
	}
	insts, err := tvm.DecodeStream(data)
	if err != nil {
		return nil, fmt.Errorf("%s is neither valid assembly text nor valid bytecode: %w", path, err)
	}
	return insts, nil
}
