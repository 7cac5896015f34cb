package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Drain concurrently so large tables cannot fill the pipe
	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		defer close(done)
		_, _ = buf.ReadFrom(r)
	}()

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout
	<-done

	return buf.String(), fnErr
}

// withGlobals sets the global output flags for one test.
func withGlobals(t *testing.T, json bool) {
	t.Helper()
	prevJSON, prevQuiet, prevVerbose := jsonOut, quiet, verbose
	jsonOut, quiet, verbose = json, false, false
	t.Cleanup(func() {
		jsonOut, quiet, verbose = prevJSON, prevQuiet, prevVerbose
	})
}

// decodeJSON checks that output is valid JSON and decodes it into v
func decodeJSON(t *testing.T, output string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(output), v); err != nil {
		t.Fatalf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
