// Package export orchestrates one project export: normalize and compose the
// markup, render it, return exactly one success-or-failure result.
package export

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sealdoc/sealdoc/internal/config"
	"github.com/sealdoc/sealdoc/internal/infra/compose"
	"github.com/sealdoc/sealdoc/internal/infra/render"
	"github.com/sealdoc/sealdoc/internal/infra/signature"
	"github.com/sealdoc/sealdoc/internal/metrics"
	"github.com/sealdoc/sealdoc/internal/models"
)

// Result is the single outcome of an export. Expected failures (compiler
// errors, timeouts, missing output) carry a human-readable Message instead
// of an error.
type Result struct {
	Success bool
	Binary  []byte
	Message string
}

// Pipeline wires the signing service, composer and renderer together. One
// Pipeline value serves concurrent Export calls: every call works in its own
// workspace, and the shared key material is read-only after first use.
type Pipeline struct {
	signer   *signature.Service
	composer *compose.Composer
	renderer *render.Renderer
}

func NewPipeline(cfg config.Service) *Pipeline {
	signer := signature.New(cfg.Signature)
	return &Pipeline{
		signer:   signer,
		composer: compose.NewComposer(cfg.Compose, signer),
		renderer: render.NewRenderer(cfg.Render),
	}
}

// Signer exposes the pipeline's signature service, shared so that embedded
// signatures verify against the same key state that attests exports.
func (p *Pipeline) Signer() *signature.Service {
	return p.signer
}

// Export runs the full pipeline for one project. The workspace backing the
// export is destroyed on every path before Export returns.
func (p *Pipeline) Export(ctx context.Context, project models.Project) Result {
	log.Info().Str("project_id", project.ID).Str("project_name", project.Name).
		Int("artifacts", len(project.Artifacts)).Msg("Starting export")

	markup, ws, err := p.composer.Compose(project)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues(metrics.OutcomeComposeFailed).Inc()
		log.Error().Err(err).Str("project_id", project.ID).Msg("Composition failed")
		return Result{Message: fmt.Sprintf("document composition failed: %s", err)}
	}

	result, err := p.renderer.Render(ctx, markup, ws)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues(metrics.OutcomeRenderFailed).Inc()
		log.Error().Err(err).Str("project_id", project.ID).Msg("Render failed unexpectedly")
		return Result{Message: fmt.Sprintf("render failed: %s", err)}
	}
	if !result.Success {
		metrics.ExportsTotal.WithLabelValues(metrics.OutcomeRenderFailed).Inc()
		log.Warn().Str("project_id", project.ID).Str("failure", string(result.Failure)).
			Msg("Render failed")
		return Result{Message: fmt.Sprintf("render failed (%s): %s", result.Failure, result.Diagnostics)}
	}

	metrics.ExportsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	log.Info().Str("project_id", project.ID).Int("bytes", len(result.Binary)).Msg("Export finished")
	return Result{Success: true, Binary: result.Binary}
}

// ExportToFile runs Export and writes the binary to path. The suggested
// download name for delivery elsewhere is models.Project.DownloadName.
func (p *Pipeline) ExportToFile(ctx context.Context, project models.Project, path string) error {
	result := p.Export(ctx, project)
	if !result.Success {
		return errors.New(result.Message)
	}
	return errors.Wrap(os.WriteFile(path, result.Binary, 0o644), "write exported document")
}

// ComposeMarkup assembles and returns the markup without invoking the
// compiler, a debugging aid for inspecting the generated source. Side files
// are staged and immediately discarded with the workspace.
func (p *Pipeline) ComposeMarkup(project models.Project) (string, error) {
	markup, ws, err := p.composer.Compose(project)
	if err != nil {
		return "", err
	}
	ws.Cleanup()
	return markup, nil
}
