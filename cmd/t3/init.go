package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// initCommand scaffolds a single new assembly-source file. A T3
// program is one assembly-text file rather than a multi-file project,
// so there is no directory tree to generate.
func initCommand(args []string) error {
	name := "main"
	if len(args) > 0 {
		name = args[0]
	}
	path := name
	if filepath.Ext(path) == "" {
		path += ".t3s"
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	const skeleton = `; entry point
LEA R0,R15,#1
LEA R1,R15,#1
ADD R2,R0,R1
HALT
`
	if err := os.WriteFile(path, []byte(skeleton), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
