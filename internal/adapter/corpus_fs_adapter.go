// Package adapter contains filesystem and persistence adapters for the
// ambigen CLI.
package adapter

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	m "ambigen.dev/pkg/ambigen/internal/model"
)

// CorpusFSAdapter abstracts the filesystem operations the domain layer needs
// when writing a corpus. It hides direct `os` access so the workflow logic can
// be tested without touching the disk.
type CorpusFSAdapter interface {
	// EnsureDir creates the directory (and parents) if it does not exist.
	EnsureDir(path m.Path) error

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// Exists reports whether the path exists.
	Exists(path m.Path) bool

	// ListFiles returns the files directly under dir with the given
	// extension, sorted by name.
	ListFiles(dir m.Path, ext string) ([]m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalCorpusFSAdapter is the os-backed CorpusFSAdapter implementation.
type LocalCorpusFSAdapter struct{}

// NewLocalCorpusFSAdapter constructs a LocalCorpusFSAdapter ready to be wired
// into the workflow.
func NewLocalCorpusFSAdapter() *LocalCorpusFSAdapter {
	return &LocalCorpusFSAdapter{}
}

// EnsureDir creates the directory and any missing parents.
func (a *LocalCorpusFSAdapter) EnsureDir(path m.Path) error {
	return os.MkdirAll(string(path), 0o750)
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalCorpusFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// ReadFile loads file contents from disk.
func (a *LocalCorpusFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// Exists reports whether the path exists.
func (a *LocalCorpusFSAdapter) Exists(path m.Path) bool {
	_, err := os.Stat(string(path))
	return err == nil
}

// ListFiles returns the files directly under dir with the given extension.
func (a *LocalCorpusFSAdapter) ListFiles(dir m.Path, ext string) ([]m.Path, error) {
	entries, err := os.ReadDir(string(dir))
	if err != nil {
		return nil, err
	}

	paths := make([]m.Path, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}

		paths = append(paths, m.Path(filepath.Join(string(dir), entry.Name())))
	}

	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	return paths, nil
}

// JoinPath joins path elements into a single path.
func (a *LocalCorpusFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
