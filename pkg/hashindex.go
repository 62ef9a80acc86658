// Package pkg is a package that provides utilities for ambigen.
package pkg

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
)

// HashIndex is a concurrency-safe set of content hashes used to reject
// duplicate programs. It can persist itself to disk so later runs can extend
// an existing corpus without re-emitting identical files.
type HashIndex interface {
	Admit(hash string) bool
	Has(hash string) bool
	Len() int
	Save(path string) error
}

type hashIndexImpl struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// Admit implements HashIndex. It records the hash and reports whether it was
// new; a false return means a duplicate.
func (h *hashIndexImpl) Admit(hash string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.seen[hash]; ok {
		slog.Debug("rejected duplicate hash", "hash", hash)
		return false
	}

	h.seen[hash] = struct{}{}

	return true
}

// Has implements HashIndex.
func (h *hashIndexImpl) Has(hash string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, ok := h.seen[hash]

	return ok
}

// Len implements HashIndex.
func (h *hashIndexImpl) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.seen)
}

// Save implements HashIndex.
func (h *hashIndexImpl) Save(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create index file", "path", path, "error", err)
		return fmt.Errorf("failed to create index file: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close index file", "path", path, "error", err)
		}
	}()

	// Hashes are sorted before encoding so identical runs write a
	// byte-identical index file.
	hashes := make([]string, 0, len(h.seen))
	for hash := range h.seen {
		hashes = append(hashes, hash)
	}

	sort.Strings(hashes)

	if err := gob.NewEncoder(file).Encode(hashes); err != nil {
		slog.Error("failed to encode index", "path", path, "error", err)
		return fmt.Errorf("failed to encode index: %w", err)
	}

	slog.Debug("saved hash index", "path", path, "count", len(hashes))

	return nil
}

// NewHashIndex creates an empty HashIndex.
func NewHashIndex() HashIndex {
	return &hashIndexImpl{seen: make(map[string]struct{})}
}

// LoadHashIndex reads an index previously written with Save. A missing file
// yields an empty index so first runs need no special casing.
func LoadHashIndex(path string) (HashIndex, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("no hash index on disk, starting empty", "path", path)
			return NewHashIndex(), nil
		}

		slog.Error("failed to open index file", "path", path, "error", err)

		return nil, fmt.Errorf("failed to open index file: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close index file", "path", path, "error", err)
		}
	}()

	var hashes []string
	if err := gob.NewDecoder(file).Decode(&hashes); err != nil {
		slog.Error("failed to decode index", "path", path, "error", err)
		return nil, fmt.Errorf("failed to decode index: %w", err)
	}

	seen := make(map[string]struct{}, len(hashes))
	for _, hash := range hashes {
		seen[hash] = struct{}{}
	}

	slog.Debug("loaded hash index", "path", path, "count", len(seen))

	return &hashIndexImpl{seen: seen}, nil
}
