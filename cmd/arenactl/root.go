package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/arena"
	"github.com/joshuapare/heapkit/arena/printer"
)

var (
	// Global flags
	verbose  bool
	quiet    bool
	jsonOut  bool
	logLevel string
	logFile  string
)

var rootCmd = &cobra.Command{
	Use:   "arenactl",
	Short: "Exercise and inspect the heapkit arena allocator",
	Long: `arenactl drives a fixed-size arena allocator with recorded or random
workloads. Every run can check the heap's structural invariants after each
operation and prints the final free list and allocation registry.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger(logLevel, logFile)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogger()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "", "Allocator log level (debug, info, warn, error); empty disables logging")
	rootCmd.PersistentFlags().
		StringVar(&logFile, "log-file", "", "Write allocator logs as JSON to this file instead of stderr")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printerOptions returns printer options honouring the global flags.
func printerOptions(showBlocks bool) printer.Options {
	opts := printer.DefaultOptions()
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	opts.ShowBlocks = showBlocks
	return opts
}

// newArena builds an arena from command flags.
func newArena(capacity int, mmap bool) (*arena.Arena, error) {
	opts := arena.DefaultOptions()
	opts.Capacity = capacity
	if mmap {
		opts.Backing = arena.BackingMmap
	}
	opts.Logger = logger
	a, err := arena.New(opts)
	if err != nil {
		return nil, fmt.Errorf("create arena: %w", err)
	}
	printVerbose("Arena: %d bytes, %s backing\n", a.Capacity(), opts.Backing)
	return a, nil
}
