package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/arena/trace"
)

const testTrace = `# small workload
alloc a 100
alloc b 250
realloc a 600
free b
alloc c 40
`

func TestReplayCommand(t *testing.T) {
	tests := []struct {
		name        string
		json        bool
		blocks      bool
		stats       bool
		wantContain []string
	}{
		{
			name:        "text",
			wantContain: []string{"Replayed 5 operations", "Free list", "Allocated (2):"},
		},
		{
			name:        "text with blocks and stats",
			blocks:      true,
			stats:       true,
			wantContain: []string{"Blocks (", "Stats", "Realloc moved:"},
		},
		{
			name:        "json",
			json:        true,
			wantContain: []string{`"capacity"`, `"free_list"`, `"allocated"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			replayCapacity = 8192
			replayVerify = true
			jsonOut, replayBlocks, replayShowStats = tt.json, tt.blocks, tt.stats

			path := writeTrace(t, testTrace)
			out, err := captureOutput(t, func() error { return runReplay([]string{path}) })
			require.NoError(t, err)
			for _, want := range tt.wantContain {
				assert.Contains(t, out, want)
			}
			if tt.json {
				doc := assertJSON(t, out)
				assert.EqualValues(t, 8192, doc["capacity"])
			}
		})
	}
}

func TestReplayCommand_Errors(t *testing.T) {
	resetFlags(t)

	_, err := captureOutput(t, func() error {
		return runReplay([]string{filepath.Join(t.TempDir(), "missing.trace")})
	})
	require.Error(t, err)

	bad := writeTrace(t, "alloc a 10\nbogus\n")
	_, err = captureOutput(t, func() error { return runReplay([]string{bad}) })
	require.ErrorIs(t, err, trace.ErrSyntax)
	assert.Contains(t, err.Error(), "line 2")

	replayCapacity = 1024
	replayStopOOM = true
	oom := writeTrace(t, "alloc a 4000\n")
	_, err = captureOutput(t, func() error { return runReplay([]string{oom}) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no free block")
}

func TestReplayCommand_Quiet(t *testing.T) {
	resetFlags(t)
	quiet = true

	path := writeTrace(t, testTrace)
	out, err := captureOutput(t, func() error { return runReplay([]string{path}) })
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestStressCommand(t *testing.T) {
	resetFlags(t)
	stressOps = 500
	stressSeed = 3
	stressCapacity = 32 * 1024
	stressMaxSize = 1024
	stressSave = filepath.Join(t.TempDir(), "stress.trace")

	out, err := captureOutput(t, runStress)
	require.NoError(t, err)
	assert.Contains(t, out, "Stress: 500 operations, seed 3")
	assert.Contains(t, out, "Alloc calls:")

	// The saved trace replays to the same result.
	f, err := os.Open(stressSave)
	require.NoError(t, err)
	defer f.Close()
	ops, err := trace.Parse(f)
	require.NoError(t, err)
	assert.Len(t, ops, 500)
}

func TestStressCommand_JSON(t *testing.T) {
	resetFlags(t)
	stressOps = 200
	jsonOut = true

	out, err := captureOutput(t, runStress)
	require.NoError(t, err)
	doc := assertJSON(t, out)
	assert.Contains(t, doc, "alloc_calls")
}

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { _ = initLogger("", "") })

	require.NoError(t, initLogger("", ""))
	assert.False(t, logger.Enabled(t.Context(), -4))

	require.Error(t, initLogger("loud", ""))

	path := filepath.Join(t.TempDir(), "arena.log")
	require.NoError(t, initLogger("debug", path))
	logger.Info("hello")
	require.NoError(t, closeLogger())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1 << 20, "1.0 MiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := captureOutput(t, func() error {
		versionCmd.Run(versionCmd, nil)
		return nil
	})
	require.NoError(t, err)
	assert.Contains(t, out, "arenactl dev")
}
