package adapter

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	m "ambigen.dev/pkg/ambigen/internal/model"
)

// ManifestStore persists run manifests next to the corpus they describe.
type ManifestStore interface {
	Save(path m.Path, manifest m.Manifest) error
	Load(path m.Path) (m.Manifest, error)
}

type yamlManifestStore struct{}

// NewManifestStore creates a YAML-backed ManifestStore.
func NewManifestStore() ManifestStore {
	return &yamlManifestStore{}
}

// Save writes the manifest as YAML.
func (s *yamlManifestStore) Save(path m.Path, manifest m.Manifest) error {
	data, err := yaml.Marshal(manifest)
	if err != nil {
		slog.Error("failed to marshal manifest", "path", path, "error", err)
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(string(path), data, 0o600); err != nil {
		slog.Error("failed to write manifest", "path", path, "error", err)
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	slog.Debug("saved manifest", "path", path, "entries", len(manifest.Entries))

	return nil
}

// Load reads a manifest previously written with Save.
func (s *yamlManifestStore) Load(path m.Path) (m.Manifest, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.Manifest{}, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest m.Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		slog.Error("failed to unmarshal manifest", "path", path, "error", err)
		return m.Manifest{}, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	slog.Debug("loaded manifest", "path", path, "entries", len(manifest.Entries))

	return manifest, nil
}
