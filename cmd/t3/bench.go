package main

import (
	"context"
	"flag"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"t3/internal/tvm"
)

// benchProgram is a small fixed workload (load two trit operands via
// LEA, add them, branch back to the top with JZ on their zero sum) chosen
// to exercise the i-cache
// and branch predictor the way a hot inner loop would, rather than a
// single straight-line run. It never reaches HALT on its own; the
// caller bounds execution with -steps.
var benchProgram = []tvm.Instruction{
	{Opcode: tvm.LEA, Operand1: 0, Operand2: tvm.ZER, Imm: 1, Valid: true},
	{Opcode: tvm.LEA, Operand1: 1, Operand2: tvm.ZER, Imm: -1, Valid: true},
	{Opcode: tvm.ADD, Operand1: 2, Operand2: 0, Operand3: 1, Valid: true},
	{Opcode: tvm.TST, Operand1: 2, Valid: true},
	{Opcode: tvm.JZ, Operand1: 2, Imm: 0, Valid: true},
}

// benchCommand runs -n independent TVM instances concurrently via an
// errgroup. There is no single file this fan-out shape is modeled on
// directly (the register VM this machine is modeled on runs
// single-threaded), but this module's dependency set already carries
// errgroup for exactly this shape of fan-out.
func benchCommand(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	n := fs.Int("n", 100, "number of independent TVM instances to run")
	steps := fs.Int("steps", 1000, "max steps per instance before it is considered stuck")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *n <= 0 {
		return fmt.Errorf("-n must be positive")
	}

	start := time.Now()

	var mu sync.Mutex
	var totalInstructions uint64
	var totalHits, totalMisses uint64
	var totalPredicted, totalMispredicted uint64

	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < *n; i++ {
		g.Go(func() error {
			m := tvm.New(tvm.DefaultConfig())
			m.LoadProgram(benchProgram)
			for s := 0; s < *steps && !m.Halted() && m.Err() == nil; s++ {
				m.Step()
			}

			hits, misses := m.CacheStats()
			predicted, mispredicted := m.BranchStats()

			mu.Lock()
			totalInstructions += m.InstructionsExecuted()
			totalHits += hits
			totalMisses += misses
			totalPredicted += predicted
			totalMispredicted += mispredicted
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	elapsed := time.Since(start)
	fmt.Printf("ran %s instances in %s\n", humanize.Comma(int64(*n)), elapsed)
	fmt.Printf("total instructions executed: %s\n", humanize.Comma(int64(totalInstructions)))
	fmt.Printf("icache hits=%s misses=%s\n", humanize.Comma(int64(totalHits)), humanize.Comma(int64(totalMisses)))
	fmt.Printf("branches predicted=%s mispredicted=%s\n",
		humanize.Comma(int64(totalPredicted)), humanize.Comma(int64(totalMispredicted)))
	if totalInstructions > 0 {
		fmt.Printf("throughput: %s instructions/sec\n",
			humanize.Comma(int64(float64(totalInstructions)/elapsed.Seconds())))
	}
	return nil
}
