// Package render drives the external typesetting compiler over a composed
// workspace and returns the resulting binary document.
package render

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sealdoc/sealdoc/internal/config"
	"github.com/sealdoc/sealdoc/internal/infra/compose"
	"github.com/sealdoc/sealdoc/internal/metrics"
)

// FailureKind classifies an expected render failure.
type FailureKind string

const (
	FailureNone          FailureKind = ""
	FailureTimeout       FailureKind = "timeout"
	FailureNonZeroExit   FailureKind = "non_zero_exit"
	FailureMissingOutput FailureKind = "missing_output"
)

// diagnosticsLimit bounds the compiler-output excerpt carried by a failure.
const diagnosticsLimit = 500

// Result is the outcome of one render. Binary is set only on success;
// Diagnostics carries a bounded compiler-output excerpt on failure.
type Result struct {
	Success     bool
	Binary      []byte
	Diagnostics string
	Failure     FailureKind
}

// Renderer compiles markup with a fixed two-pass convention. The second pass
// resolves cross-references such as a table of contents; the pass count never
// adapts to the document.
type Renderer struct {
	compilerBin string
	passTimeout time.Duration
	markupFile  string
	outputFile  string
}

func NewRenderer(cfg config.Render) *Renderer {
	return &Renderer{
		compilerBin: cfg.CompilerBin,
		passTimeout: cfg.PassTimeout,
		markupFile:  cfg.MarkupFile,
		outputFile:  cfg.OutputFile,
	}
}

// Render writes markup into the workspace, runs the compiler twice and reads
// back the output document. The workspace is destroyed before Render returns
// on every path. Expected compiler failures come back inside the Result; the
// error return is reserved for unexpected conditions such as an unwritable
// workspace or a missing compiler binary.
func (r *Renderer) Render(ctx context.Context, markup string, ws *compose.Workspace) (Result, error) {
	defer ws.Cleanup()

	start := time.Now()
	defer func() {
		metrics.RenderDuration.Observe(time.Since(start).Seconds())
	}()

	if err := os.WriteFile(ws.Path(r.markupFile), []byte(markup), 0o600); err != nil {
		return Result{}, errors.Wrap(err, "write markup file")
	}

	var combined bytes.Buffer
	nonZeroExit := false
	for pass := 1; pass <= 2; pass++ {
		metrics.RenderPasses.Inc()

		timedOut, err := r.runPass(ctx, ws, &combined)
		if timedOut {
			log.Warn().Int("pass", pass).Dur("timeout", r.passTimeout).Msg("Compiler pass timed out")
			return failure(FailureTimeout, &combined), nil
		}
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				nonZeroExit = true
				continue
			}
			return Result{}, errors.Wrapf(err, "run compiler %q", r.compilerBin)
		}
	}

	if nonZeroExit {
		return failure(FailureNonZeroExit, &combined), nil
	}

	binary, err := os.ReadFile(ws.Path(r.outputFile))
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("output_file", r.outputFile).Msg("Compiler exited cleanly but produced no output")
			return failure(FailureMissingOutput, &combined), nil
		}
		return Result{}, errors.Wrap(err, "read output file")
	}

	log.Info().Int("bytes", len(binary)).Dur("duration", time.Since(start)).Msg("Rendered document")
	return Result{Success: true, Binary: binary}, nil
}

// runPass executes one compiler invocation bounded by the pass timeout. The
// process is killed when the timeout fires.
func (r *Renderer) runPass(ctx context.Context, ws *compose.Workspace, combined *bytes.Buffer) (timedOut bool, err error) {
	passCtx, cancel := context.WithTimeout(ctx, r.passTimeout)
	defer cancel()

	cmd := exec.CommandContext(passCtx, r.compilerBin, "-interaction=nonstopmode", r.markupFile)
	cmd.Dir = ws.Root()
	// Orphaned children of a killed compiler keep the output pipe open;
	// without a wait delay CombinedOutput would block until they exit.
	cmd.WaitDelay = time.Second
	out, err := cmd.CombinedOutput()
	combined.Write(out)

	if errors.Is(passCtx.Err(), context.DeadlineExceeded) {
		return true, nil
	}
	return false, err
}

func failure(kind FailureKind, combined *bytes.Buffer) Result {
	return Result{Failure: kind, Diagnostics: excerpt(combined.Bytes(), kind)}
}

// excerpt bounds diagnostics to the leading bytes of the captured output and
// guarantees a non-empty message per failure kind.
func excerpt(out []byte, kind FailureKind) string {
	if len(out) > diagnosticsLimit {
		out = out[:diagnosticsLimit]
	}
	if len(out) > 0 {
		return string(out)
	}
	switch kind {
	case FailureTimeout:
		return "compiler pass exceeded its timeout"
	case FailureMissingOutput:
		return "compiler produced no output document"
	default:
		return "compiler exited with a non-zero status"
	}
}
