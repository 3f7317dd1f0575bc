package compose

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	imagesDir    = "images"
	documentsDir = "documents"
)

// Workspace is the exclusively-owned directory backing one export. It holds
// the markup file, staged side files and the compiler's output, and is never
// shared across exports.
type Workspace struct {
	root string
}

// NewWorkspace creates a fresh workspace directory under parent, including
// the subdirectories for staged images and embedded documents.
func NewWorkspace(parent string) (*Workspace, error) {
	root := filepath.Join(parent, "sealdoc-export-"+uuid.New().String())
	for _, dir := range []string{root, filepath.Join(root, imagesDir), filepath.Join(root, documentsDir)} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			_ = os.RemoveAll(root)
			return nil, errors.Wrap(err, "create workspace")
		}
	}
	return &Workspace{root: root}, nil
}

func (w *Workspace) Root() string {
	return w.root
}

// Path joins elements onto the workspace root.
func (w *Workspace) Path(elem ...string) string {
	return filepath.Join(append([]string{w.root}, elem...)...)
}

// ImagePath returns the staging path of an image side file.
func (w *Workspace) ImagePath(name string) string {
	return filepath.Join(w.root, imagesDir, name)
}

// DocumentPath returns the staging path of an embedded-document side file.
func (w *Workspace) DocumentPath(name string) string {
	return filepath.Join(w.root, documentsDir, name)
}

// Cleanup removes the workspace tree. Removal is idempotent, so deferring it
// on multiple layers is safe.
func (w *Workspace) Cleanup() {
	if err := os.RemoveAll(w.root); err != nil {
		log.Warn().Err(err).Str("workspace", w.root).Msg("Workspace cleanup failed")
	}
}
