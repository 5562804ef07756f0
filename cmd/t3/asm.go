package main

import (
	"fmt"
	"os"

	"t3/internal/asm"
	"t3/internal/tvm"
)

func asmCommand(args []string) error {
	var in, out string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o":
			if i+1 >= len(args) {
				return fmt.Errorf("-o requires an argument")
			}
			out = args[i+1]
			i++
		default:
			if in == "" {
				in = args[i]
			}
		}
	}
	if in == "" {
		return fmt.Errorf("usage: t3 asm <file.t3s> -o <file.t3>")
	}
	if out == "" {
		out = in + ".bin"
	}

	src, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", in, err)
	}
	insts, err := asm.Assemble(string(src))
	if err != nil {
		return fmt.Errorf("assembling %s: %w", in, err)
	}
	if err := os.WriteFile(out, tvm.EncodeStream(insts), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("assembled %d instructions -> %s\n", len(insts), out)
	return nil
}

func disasmCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: t3 disasm <file.t3>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	insts, err := tvm.DecodeStream(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", args[0], err)
	}
	for _, line := range tvm.DisassembleProgram(insts) {
		fmt.Println(line)
	}
	return nil
}
