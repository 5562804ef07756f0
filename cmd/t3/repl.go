package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"t3/internal/asm"
	"t3/internal/tvm"
)

// replCommand is an interactive assemble-one-line/execute-one-line
// loop: prompt, read a line, assemble, run, repeat, 'exit' quits. A
// single TVM stays alive across lines so registers and memory persist,
// which is the natural mental model for poking at a small machine
// interactively.
func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	verbose := fs.Bool("verbose", false, "dump per-instruction and error diagnostics to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	prompt := ">>> "
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		prompt = ""
	}

	fmt.Println("t3 repl | one instruction per line, 'exit' to quit")
	scanner := bufio.NewScanner(os.Stdin)
	cfg := tvm.DefaultConfig()
	if *verbose {
		cfg.Sink = os.Stderr
	}
	m := tvm.New(cfg)

	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "exit" || line == "quit" {
			break
		}
		if line == "" {
			continue
		}

		insts, err := asm.Assemble(line + "\n")
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
			continue
		}
		if len(insts) != 1 {
			fmt.Fprintln(os.Stderr, "enter exactly one instruction per line")
			continue
		}

		m.LoadProgram(insts)
		m.Step()

		if err := m.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
			continue
		}
		printRegisters(m)
	}
	return nil
}

func printRegisters(m *tvm.TVM) {
	for r := 0; r < 8; r++ {
		v, _ := m.Register(r)
		fmt.Printf("R%d=%s ", r, v)
	}
	acc, _ := m.Register(tvm.ACC)
	fmt.Printf("ACC=%s\n", acc)
}
