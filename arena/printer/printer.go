// Package printer formats arena snapshots and counters for humans and
// tools. The arena itself never formats anything; callers take a State or
// Stats value and hand it to a Printer.
package printer

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/arena"
)

const DefaultIndentSize = 2

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs human-readable text with grouped numbers.
	FormatText Format = "text"

	// FormatJSON outputs a single JSON document.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// IndentSize is the number of spaces per indent level.
	// Default: 2
	IndentSize int

	// ShowFreeList includes the free list in list order.
	// Default: true
	ShowFreeList bool

	// ShowAllocated includes the allocation registry.
	// Default: true
	ShowAllocated bool

	// ShowBlocks includes every block in physical order.
	// Default: false
	ShowBlocks bool

	// Language selects digit grouping for text output.
	// Default: language.English
	Language language.Tag
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:        FormatText,
		IndentSize:    DefaultIndentSize,
		ShowFreeList:  true,
		ShowAllocated: true,
		ShowBlocks:    false,
		Language:      language.English,
	}
}

// Printer writes arena diagnostics to an io.Writer.
type Printer struct {
	opts   Options
	writer io.Writer
	num    *message.Printer
}

// New creates a new Printer.
//
// Example:
//
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintState(a.DumpState())
func New(w io.Writer, opts Options) *Printer {
	if opts.IndentSize <= 0 {
		opts.IndentSize = DefaultIndentSize
	}
	return &Printer{
		opts:   opts,
		writer: w,
		num:    message.NewPrinter(opts.Language),
	}
}

// PrintState prints an arena snapshot.
func (p *Printer) PrintState(st arena.State) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printStateJSON(st)
	case FormatText:
		return p.printStateText(st)
	default:
		return p.printStateText(st)
	}
}

// PrintStats prints allocator counters.
func (p *Printer) PrintStats(s arena.Stats) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printStatsJSON(s)
	case FormatText:
		return p.printStatsText(s)
	default:
		return p.printStatsText(s)
	}
}
