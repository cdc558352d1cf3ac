package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.Bytes()
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	return string(<-done), fnErr
}

// writeTrace writes a trace file into a temp dir and returns its path.
func writeTrace(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.trace")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) map[string]any {
	t.Helper()
	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &result), "output is not valid JSON:\n%s", output)
	return result
}

// resetFlags restores global flags to their defaults after a test.
func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		verbose, quiet, jsonOut = false, false, false
		logLevel, logFile = "", ""
		replayCapacity, replayMmap, replayVerify = 1<<20, false, false
		replayStopOOM, replayBlocks, replayShowStats = false, false, false
		stressOps, stressSeed, stressCapacity = 10000, 1, 1<<20
		stressMaxSize, stressMaxLive, stressMmap, stressSave = 4096, 256, false, ""
	})
}
