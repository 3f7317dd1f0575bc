// Package compose assembles the LaTeX source for one project export and
// stages binary side files into an ephemeral workspace.
package compose

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"regexp"
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sealdoc/sealdoc/internal/config"
	"github.com/sealdoc/sealdoc/internal/infra/richtext"
	"github.com/sealdoc/sealdoc/internal/infra/signature"
	"github.com/sealdoc/sealdoc/internal/latex"
	"github.com/sealdoc/sealdoc/internal/metrics"
	"github.com/sealdoc/sealdoc/internal/models"
)

const (
	noDescription = "No description provided."
	noContent     = "No content available."

	generationSignerID = "DocumentSystem"
)

// Markers stamped into artifact text by the signing service. Matches feed the
// provenance list of the trailing signatures section; the marker is not a
// security boundary.
var signatureMarker = regexp.MustCompile(`\[Signed: (.+?) at ([^\]]+)\]`)

// Composer builds the markup source of a project export. Every piece of
// artifact-derived text passes through the escape table before insertion.
type Composer struct {
	signer          *signature.Service
	workspaceParent string
}

func NewComposer(cfg config.Compose, signer *signature.Service) *Composer {
	return &Composer{
		signer:          signer,
		workspaceParent: cfg.WorkspaceParent,
	}
}

// Compose assembles the markup for project and stages its side files into a
// fresh workspace. On success the caller owns the returned workspace and must
// clean it up; on error no workspace is left behind.
func (c *Composer) Compose(project models.Project) (string, *Workspace, error) {
	ws, err := NewWorkspace(c.workspaceParent)
	if err != nil {
		return "", nil, err
	}

	artifacts := make([]models.Artifact, len(project.Artifacts))
	copy(artifacts, project.Artifacts)
	// Newest content first, stable on ties.
	sort.SliceStable(artifacts, func(i, j int) bool {
		return artifacts[i].LastModified.After(artifacts[j].LastModified)
	})

	data := templateData{
		Title:    latex.Escape(project.Name),
		Abstract: latex.Escape(orDefault(project.Description, noDescription)),
	}

	var plainTexts []string
	for _, artifact := range artifacts {
		switch artifact.Kind {
		case models.KindText, models.KindRichText:
			plain, _ := richtext.Normalize(artifact.Content)
			plainTexts = append(plainTexts, plain)
			data.Sections = append(data.Sections, templateSection{
				Title:   latex.Escape(artifact.Filename),
				Content: latex.Escape(orDefault(plain, noContent)),
				Updated: latex.Escape(formatUpdated(artifact)),
			})
		case models.KindImage:
			safe := models.SafeFilename(artifact.Filename)
			if err := stageFile(artifact, ws.ImagePath(safe)); err != nil {
				skipArtifact(artifact, err)
				continue
			}
			data.Images = append(data.Images, templateImage{
				Path:    path.Join(imagesDir, safe),
				Caption: latex.Escape(artifact.Filename),
			})
		case models.KindEmbeddedDocument:
			safe := models.SafeFilename(artifact.Filename)
			if err := stageFile(artifact, ws.DocumentPath(safe)); err != nil {
				skipArtifact(artifact, err)
				continue
			}
			data.Documents = append(data.Documents, templateDocument{
				Path:  path.Join(documentsDir, safe),
				Title: latex.Escape(artifact.Filename),
			})
		default:
			log.Debug().Str("artifact_id", artifact.ID).Str("filename", artifact.Filename).
				Msg("Skipping binary artifact without export representation")
		}
	}

	data.Signatures = collectSignatureMarkers(plainTexts)

	generation := c.signer.Sign(generationSignerID, c.signer.Timestamp(), signature.ContextMap{
		{Key: "document", Value: project.Name},
		{Key: "artifactCount", Value: len(artifacts)},
	})
	data.GenerationBlock = c.signer.FormatForLatex(generation)

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		ws.Cleanup()
		return "", nil, errors.Wrap(err, "render document template")
	}

	log.Info().Str("project_id", project.ID).Int("sections", len(data.Sections)).
		Int("images", len(data.Images)).Int("documents", len(data.Documents)).
		Msg("Composed document markup")
	return buf.String(), ws, nil
}

// collectSignatureMarkers scans artifact plain text for embedded-signature
// markers and formats one provenance line per match.
func collectSignatureMarkers(plainTexts []string) []string {
	var collected []string
	for _, text := range plainTexts {
		for _, match := range signatureMarker.FindAllStringSubmatch(text, -1) {
			collected = append(collected,
				latex.Escape(fmt.Sprintf("Signed by %s at %s", match[1], match[2])))
		}
	}
	return collected
}

// stageFile copies an artifact's bytes to dest, preferring its source path
// over inline content.
func stageFile(artifact models.Artifact, dest string) error {
	var raw []byte
	switch {
	case artifact.Path != "":
		var err error
		raw, err = os.ReadFile(artifact.Path)
		if err != nil {
			return errors.Wrap(err, "read artifact source")
		}
	case artifact.Content != "":
		raw = []byte(artifact.Content)
	default:
		return errors.New("artifact has neither source path nor inline content")
	}
	return errors.Wrap(os.WriteFile(dest, raw, 0o600), "write side file")
}

func skipArtifact(artifact models.Artifact, err error) {
	metrics.ArtifactsSkipped.Inc()
	log.Warn().Err(err).Str("artifact_id", artifact.ID).Str("filename", artifact.Filename).
		Msg("Skipping artifact, staging failed")
}

func formatUpdated(artifact models.Artifact) string {
	if artifact.LastModified.IsZero() {
		return "unknown"
	}
	return artifact.LastModified.UTC().Format("2006-01-02 15:04")
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
