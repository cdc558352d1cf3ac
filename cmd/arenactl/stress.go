package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/arena"
	"github.com/joshuapare/heapkit/arena/printer"
	"github.com/joshuapare/heapkit/arena/trace"
)

var (
	stressOps      int
	stressSeed     int64
	stressCapacity int
	stressMaxSize  int
	stressMaxLive  int
	stressMmap     bool
	stressSave     string
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressOps, "ops", 10000, "Number of operations")
	cmd.Flags().Int64Var(&stressSeed, "seed", 1, "Random seed (0 = time based)")
	cmd.Flags().IntVar(&stressCapacity, "capacity", arena.DefaultCapacity, "Arena capacity in bytes")
	cmd.Flags().IntVar(&stressMaxSize, "max-size", 4096, "Largest allocation size")
	cmd.Flags().IntVar(&stressMaxLive, "max-live", 256, "Most allocations live at once")
	cmd.Flags().BoolVar(&stressMmap, "mmap", false, "Back the arena with an anonymous mapping")
	cmd.Flags().StringVar(&stressSave, "save", "", "Write the generated trace to this file")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run a random workload with invariant checks",
		Long: `The stress command generates a random alloc/free/realloc workload,
replays it with a full heap verification after every operation, and prints
allocator counters. A failing run can be saved with --save and replayed.

Example:
  arenactl stress
  arenactl stress --ops 100000 --seed 7 --capacity 65536
  arenactl stress --seed 42 --save failing.trace`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStress()
		},
	}
	return cmd
}

func runStress() error {
	seed := stressSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	printVerbose("Seed: %d\n", seed)

	ops := trace.Generate(trace.GenerateOptions{
		Ops:     stressOps,
		MaxSize: stressMaxSize,
		MaxLive: stressMaxLive,
		Seed:    seed,
	})

	if stressSave != "" {
		if err := saveTrace(stressSave, ops); err != nil {
			return err
		}
		printVerbose("Saved trace: %s\n", stressSave)
	}

	a, err := newArena(stressCapacity, stressMmap)
	if err != nil {
		return err
	}
	defer a.Close()

	start := time.Now()
	res, err := trace.Replay(a, ops, trace.ReplayOptions{Verify: true, Logger: logger})
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("stress (seed %d): %w", seed, err)
	}

	if !jsonOut {
		printInfo("Stress: %d operations, seed %d, %s\n", res.Ops, seed, elapsed.Round(time.Millisecond))
		printInfo("  %d out of space, peak %s in %d live allocations\n\n",
			res.Failures, formatBytes(res.PeakUsed), res.PeakLive)
	}
	if quiet {
		return nil
	}
	return printer.New(os.Stdout, printerOptions(false)).PrintStats(a.Stats())
}

func saveTrace(path string, ops []trace.Op) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	if err := trace.Write(f, ops); err != nil {
		f.Close()
		return fmt.Errorf("write trace: %w", err)
	}
	return f.Close()
}
