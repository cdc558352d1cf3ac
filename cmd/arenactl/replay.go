package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/arena"
	"github.com/joshuapare/heapkit/arena/printer"
	"github.com/joshuapare/heapkit/arena/trace"
)

var (
	replayCapacity  int
	replayMmap      bool
	replayVerify    bool
	replayStopOOM   bool
	replayBlocks    bool
	replayShowStats bool
)

func init() {
	cmd := newReplayCmd()
	cmd.Flags().IntVar(&replayCapacity, "capacity", arena.DefaultCapacity, "Arena capacity in bytes")
	cmd.Flags().BoolVar(&replayMmap, "mmap", false, "Back the arena with an anonymous mapping")
	cmd.Flags().BoolVar(&replayVerify, "verify", false, "Check heap invariants after every operation")
	cmd.Flags().BoolVar(&replayStopOOM, "stop-on-oom", false, "Fail on the first allocation that runs out of space")
	cmd.Flags().BoolVar(&replayBlocks, "blocks", false, "Include every block in physical order")
	cmd.Flags().BoolVar(&replayShowStats, "stats", false, "Print allocator counters after the state dump")
	rootCmd.AddCommand(cmd)
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace>",
		Short: "Replay an allocation trace",
		Long: `The replay command applies an alloc/free/realloc trace to a fresh arena
and prints the resulting heap state.

Trace format, one operation per line ('#' starts a comment):
  alloc   <id> <size>
  free    <id>
  realloc <id> <size>

Example:
  arenactl replay workload.trace
  arenactl replay workload.trace --capacity 65536 --verify
  arenactl replay workload.trace --json --stats`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args)
		},
	}
	return cmd
}

func runReplay(args []string) error {
	tracePath := args[0]

	printVerbose("Reading trace: %s\n", tracePath)
	f, err := os.Open(tracePath)
	if err != nil {
		return fmt.Errorf("failed to open trace: %w", err)
	}
	defer f.Close()

	ops, err := trace.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", tracePath, err)
	}
	printVerbose("Parsed %d operations\n", len(ops))

	a, err := newArena(replayCapacity, replayMmap)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := trace.Replay(a, ops, trace.ReplayOptions{
		Verify:        replayVerify,
		StopOnNoSpace: replayStopOOM,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("replay %s: %w", tracePath, err)
	}

	if !jsonOut {
		printInfo("Replayed %d operations (%d alloc, %d free, %d realloc), %d out of space\n",
			res.Ops, res.Allocs, res.Frees, res.Reallocs, res.Failures)
		printInfo("Peak: %s in %d live allocations; %d still live\n\n",
			formatBytes(res.PeakUsed), res.PeakLive, res.Live)
	}

	if quiet {
		return nil
	}
	p := printer.New(os.Stdout, printerOptions(replayBlocks))
	if err := p.PrintState(a.DumpState()); err != nil {
		return err
	}
	if replayShowStats {
		if !jsonOut {
			fmt.Println()
		}
		return p.PrintStats(a.Stats())
	}
	return nil
}

// formatBytes formats a byte count in human-readable form.
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
