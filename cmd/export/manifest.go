package export

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sealdoc/sealdoc/internal/models"
	"gopkg.in/yaml.v3"
)

// manifest is the YAML description of one project export: project metadata
// plus the artifact files to assemble. Relative file paths resolve against
// the manifest's directory.
type manifest struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Artifacts   []manifestArtifact `yaml:"artifacts"`
}

type manifestArtifact struct {
	File         string     `yaml:"file"`
	Kind         string     `yaml:"kind"`
	LastModified *time.Time `yaml:"last_modified"`
}

// loadProject reads a manifest and materializes the project it describes,
// classifying artifacts whose kind is not declared.
func loadProject(manifestPath string) (models.Project, error) {
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return models.Project{}, errors.Wrap(err, "read manifest")
	}

	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return models.Project{}, errors.Wrap(err, "parse manifest")
	}

	baseDir := filepath.Dir(manifestPath)
	project := models.Project{
		ID:          uuid.New().String(),
		Name:        m.Name,
		Description: m.Description,
	}

	for _, entry := range m.Artifacts {
		artifact, err := loadArtifact(baseDir, entry)
		if err != nil {
			return models.Project{}, errors.Wrapf(err, "artifact %q", entry.File)
		}
		project.Artifacts = append(project.Artifacts, artifact)
	}
	return project, nil
}

func loadArtifact(baseDir string, entry manifestArtifact) (models.Artifact, error) {
	path := entry.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return models.Artifact{}, errors.Wrap(err, "read artifact file")
	}

	kind := models.ArtifactKind(entry.Kind)
	if kind == "" {
		kind = models.DetectKind(entry.File, raw)
	}

	lastModified := time.Time{}
	if entry.LastModified != nil {
		lastModified = *entry.LastModified
	} else if info, err := os.Stat(path); err == nil {
		lastModified = info.ModTime()
	}

	artifact := models.Artifact{
		ID:           uuid.New().String(),
		Filename:     filepath.Base(entry.File),
		Kind:         kind,
		LastModified: lastModified,
	}
	switch kind {
	case models.KindText, models.KindRichText:
		artifact.Content = string(raw)
	default:
		artifact.Path = path
	}
	return artifact, nil
}
