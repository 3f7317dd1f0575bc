package render_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sealdoc/sealdoc/internal/config"
	"github.com/sealdoc/sealdoc/internal/infra/compose"
	"github.com/sealdoc/sealdoc/internal/infra/render"
	"github.com/sealdoc/sealdoc/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(compilerBin string, passTimeout time.Duration) *render.Renderer {
	return render.NewRenderer(config.Render{
		CompilerBin: compilerBin,
		PassTimeout: passTimeout,
		MarkupFile:  "output.tex",
		OutputFile:  "output.pdf",
	})
}

func newWorkspace(t *testing.T) *compose.Workspace {
	t.Helper()
	ws, err := compose.NewWorkspace(t.TempDir())
	require.NoError(t, err)
	return ws
}

func TestRenderSuccess(t *testing.T) {
	r := newRenderer(test.FakeCompilerOK(t), time.Minute)
	ws := newWorkspace(t)

	result, err := r.Render(context.Background(), `\documentclass{article}`, ws)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, render.FailureNone, result.Failure)
	assert.Contains(t, string(result.Binary), "%PDF-1.4")
	assert.NoDirExists(t, ws.Root(), "workspace must be destroyed after rendering")
}

func TestRenderNonZeroExit(t *testing.T) {
	r := newRenderer(test.FakeCompilerFailing(t), time.Minute)
	ws := newWorkspace(t)

	result, err := r.Render(context.Background(), "broken", ws)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, render.FailureNonZeroExit, result.Failure)
	assert.Nil(t, result.Binary)
	assert.Contains(t, result.Diagnostics, "LaTeX Error")
	assert.NoDirExists(t, ws.Root())
}

func TestRenderMissingOutput(t *testing.T) {
	r := newRenderer(test.FakeCompilerNoOutput(t), time.Minute)
	ws := newWorkspace(t)

	result, err := r.Render(context.Background(), "ok but empty", ws)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, render.FailureMissingOutput, result.Failure)
	assert.NotEmpty(t, result.Diagnostics)
	assert.NoDirExists(t, ws.Root())
}

func TestRenderTimeoutKillsCompiler(t *testing.T) {
	r := newRenderer(test.FakeCompilerSleeping(t, 30), 200*time.Millisecond)
	ws := newWorkspace(t)

	start := time.Now()
	result, err := r.Render(context.Background(), "slow", ws)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, render.FailureTimeout, result.Failure)
	assert.NotEmpty(t, result.Diagnostics)
	assert.Less(t, time.Since(start), 5*time.Second, "timed-out process must be killed, not awaited")
	assert.NoDirExists(t, ws.Root())
}

func TestRenderMissingCompilerIsAnError(t *testing.T) {
	r := newRenderer("/nonexistent/compiler-binary", time.Minute)
	ws := newWorkspace(t)

	_, err := r.Render(context.Background(), "x", ws)
	require.Error(t, err)
	assert.NoDirExists(t, ws.Root(), "workspace is cleaned up even on unexpected errors")
}

func TestRenderDiagnosticsBounded(t *testing.T) {
	// The compiler floods stdout; the failure excerpt stays bounded.
	bin := test.WriteFakeCompiler(t, `head -c 10000 /dev/zero | tr '\0' 'x'; exit 1`)
	r := newRenderer(bin, time.Minute)
	ws := newWorkspace(t)

	result, err := r.Render(context.Background(), "noisy", ws)
	require.NoError(t, err)
	assert.Equal(t, render.FailureNonZeroExit, result.Failure)
	assert.LessOrEqual(t, len(result.Diagnostics), 500)
	assert.NotEmpty(t, result.Diagnostics)
}

func TestConcurrentRendersUseDistinctWorkspaces(t *testing.T) {
	r := newRenderer(test.FakeCompilerOK(t), time.Minute)

	first := newWorkspace(t)
	second := newWorkspace(t)
	require.NotEqual(t, first.Root(), second.Root())

	var wg sync.WaitGroup
	results := make([]render.Result, 2)
	for i, ws := range []*compose.Workspace{first, second} {
		wg.Add(1)
		go func(i int, ws *compose.Workspace) {
			defer wg.Done()
			result, err := r.Render(context.Background(), "doc", ws)
			assert.NoError(t, err)
			results[i] = result
		}(i, ws)
	}
	wg.Wait()

	for _, result := range results {
		assert.True(t, result.Success)
		assert.NotEmpty(t, result.Binary)
	}
	assert.NoDirExists(t, first.Root())
	assert.NoDirExists(t, second.Root())
}
