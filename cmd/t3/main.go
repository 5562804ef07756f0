// cmd/t3/main.go
package main

import (
	"fmt"
	"os"
	"time"
)

const version = "0.1.0"

// Build variables, settable with ldflags at build time.
var (
	buildDate = time.Now().Format("2006-01-02")
	gitCommit = "unknown"
)

var commandAliases = map[string]string{
	"r": "run",
	"a": "asm",
	"d": "disasm",
	"i": "repl",
	"g": "gates",
	"v": "version",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		os.Exit(1)
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}
	rest := args[1:]

	var err error
	switch cmd {
	case "--help", "-h", "help":
		showUsage()
		return
	case "--version", "version":
		showVersion()
		return
	case "run":
		err = runCommand(rest)
	case "asm":
		err = asmCommand(rest)
	case "disasm":
		err = disasmCommand(rest)
	case "repl":
		err = replCommand(rest)
	case "gates":
		err = gatesCommand(rest)
	case "bench":
		err = benchCommand(rest)
	case "init":
		err = initCommand(rest)
	default:
		fmt.Fprintf(os.Stderr, "t3: unknown command %q\n", cmd)
		showUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "t3: %v\n", err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`t3 — balanced-ternary execution substrate

Usage:
  t3 run [-verbose] <file.t3>   assemble (if text) or load bytecode and execute
  t3 asm <file.t3s> -o <out>    assemble T3 assembly text to bytecode
  t3 disasm <file.t3>           disassemble bytecode to assembly text
  t3 repl [-verbose]            interactive assemble-one-line/execute-one-line loop
  t3 gates --id <n> [--monadic] print a gate's truth table and derived properties
  t3 bench -n <N>               run N independent TVM instances concurrently
  t3 init <name>                scaffold a new .t3s assembly source file
  t3 version                    build metadata`)
}

func showVersion() {
	fmt.Printf("t3 version %s (commit %s, built %s)\n", version, gitCommit, buildDate)
}
