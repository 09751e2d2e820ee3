package convert

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workdir is the temporary directory layout owned exclusively by one
// conversion run: encoded chapter audio under aac/, extracted images under
// images/, plus the transient concat list and chapter metadata files.
type Workdir struct {
	root string
}

// NewWorkdir creates a uniquely named working directory under base (the OS
// temp dir when base is empty) and its subdirectories.
func NewWorkdir(base string) (*Workdir, error) {
	if base == "" {
		base = os.TempDir()
	}
	w := &Workdir{root: filepath.Join(base, "bookvoice-"+uuid.NewString())}
	for _, dir := range []string{w.AudioDir(), w.ImagesDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create working directory %s: %w", dir, err)
		}
	}
	return w, nil
}

// Root returns the workdir root path.
func (w *Workdir) Root() string { return w.root }

// AudioDir returns the directory holding one encoded file per chapter.
func (w *Workdir) AudioDir() string { return filepath.Join(w.root, "aac") }

// ImagesDir returns the directory holding one file per book image.
func (w *Workdir) ImagesDir() string { return filepath.Join(w.root, "images") }

// ChapterAudioPath returns the encoded audio path for the i-th chapter
// (zero-indexed).
func (w *Workdir) ChapterAudioPath(i int) string {
	return filepath.Join(w.AudioDir(), fmt.Sprintf("chapter_%04d.aac", i+1))
}

// ImagePath returns the extraction path for an image file name.
func (w *Workdir) ImagePath(fileName string) string {
	return filepath.Join(w.ImagesDir(), filepath.Base(fileName))
}

// ConcatListPath returns the transient concat-demuxer list path.
func (w *Workdir) ConcatListPath() string { return filepath.Join(w.root, "chapters.txt") }

// MetadataPath returns the transient ffmetadata chapters file path.
func (w *Workdir) MetadataPath() string { return filepath.Join(w.root, "ffmetadata.txt") }

// Cleanup removes the whole working directory tree.
func (w *Workdir) Cleanup() error {
	return os.RemoveAll(w.root)
}
