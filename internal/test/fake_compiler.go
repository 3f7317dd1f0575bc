// Package test provides shared fixtures for pipeline tests. The fake
// compilers stand in for pdflatex so render behavior can be exercised
// without a TeX installation.
package test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFakeCompiler installs a shell script in a fresh temp dir and returns
// its path, suitable as the renderer's compiler binary.
func WriteFakeCompiler(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fakelatex")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

// FakeCompilerOK succeeds and writes a small PDF-like output file.
func FakeCompilerOK(t *testing.T) string {
	return WriteFakeCompiler(t, `printf '%%PDF-1.4 fake document' > output.pdf`)
}

// FakeCompilerFailing prints a typical compiler error and exits non-zero
// without producing output.
func FakeCompilerFailing(t *testing.T) string {
	return WriteFakeCompiler(t, `echo '! LaTeX Error: something went wrong.'; exit 1`)
}

// FakeCompilerNoOutput exits cleanly but never writes the output file.
func FakeCompilerNoOutput(t *testing.T) string {
	return WriteFakeCompiler(t, `echo 'nothing to see'; exit 0`)
}

// FakeCompilerSleeping blocks for the given number of seconds, long enough
// to trip a short pass timeout.
func FakeCompilerSleeping(t *testing.T, seconds int) string {
	return WriteFakeCompiler(t, fmt.Sprintf("sleep %d", seconds))
}
