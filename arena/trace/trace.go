// Package trace reads, writes and replays allocation workloads against an
// arena.
//
// A trace is a text file with one operation per line:
//
//	# comment
//	alloc   <id> <size>
//	free    <id>
//	realloc <id> <size>
//
// Ids are arbitrary tokens naming a live allocation. Blank lines and lines
// starting with '#' are ignored.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrSyntax indicates a malformed trace line.
	ErrSyntax = errors.New("trace: syntax error")

	// ErrUnknownID indicates an operation on an id that is not live.
	ErrUnknownID = errors.New("trace: unknown id")

	// ErrDuplicateID indicates an alloc for an id that is already live.
	ErrDuplicateID = errors.New("trace: id already live")

	// ErrCorrupted indicates a payload whose contents changed behind the
	// replayer's back.
	ErrCorrupted = errors.New("trace: payload corrupted")
)

// Kind is the operation type of a trace line.
type Kind uint8

const (
	KindAlloc Kind = iota + 1
	KindFree
	KindRealloc
)

func (k Kind) String() string {
	switch k {
	case KindAlloc:
		return "alloc"
	case KindFree:
		return "free"
	case KindRealloc:
		return "realloc"
	default:
		return "unknown"
	}
}

// Op is a single trace operation.
type Op struct {
	Kind Kind
	ID   string
	Size int // unused for KindFree
	Line int // 1-based source line, 0 for generated ops
}

func (op Op) String() string {
	if op.Kind == KindFree {
		return fmt.Sprintf("%s %s", op.Kind, op.ID)
	}
	return fmt.Sprintf("%s %s %d", op.Kind, op.ID, op.Size)
}

// Parse reads a trace from r.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		op, err := parseLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		op.Line = line
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}
	return ops, nil
}

func parseLine(text string) (Op, error) {
	fields := strings.Fields(text)
	var op Op
	switch fields[0] {
	case "alloc":
		op.Kind = KindAlloc
	case "free":
		op.Kind = KindFree
	case "realloc":
		op.Kind = KindRealloc
	default:
		return Op{}, fmt.Errorf("%w: unknown operation %q", ErrSyntax, fields[0])
	}

	want := 3
	if op.Kind == KindFree {
		want = 2
	}
	if len(fields) != want {
		return Op{}, fmt.Errorf("%w: %s takes %d arguments, got %d", ErrSyntax, op.Kind, want-1, len(fields)-1)
	}
	op.ID = fields[1]

	if op.Kind != KindFree {
		size, err := strconv.Atoi(fields[2])
		if err != nil || size < 0 {
			return Op{}, fmt.Errorf("%w: bad size %q", ErrSyntax, fields[2])
		}
		op.Size = size
	}
	return op, nil
}

// Write serializes ops in the format Parse reads.
func Write(w io.Writer, ops []Op) error {
	bw := bufio.NewWriter(w)
	for _, op := range ops {
		if _, err := fmt.Fprintln(bw, op.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
