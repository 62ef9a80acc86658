package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"ambigen.dev/pkg/ambigen/internal/domain/patterns"
	m "ambigen.dev/pkg/ambigen/internal/model"
)

// Synthesizer renders variant specs into finished programs: source files,
// oracle expectation and the content hash used for dedup and file naming.
type Synthesizer interface {
	Render(spec m.VariantSpec) (m.Program, error)
}

type synthesizer struct{}

// NewSynthesizer creates a Synthesizer.
func NewSynthesizer() Synthesizer {
	return &synthesizer{}
}

func (s *synthesizer) Render(spec m.VariantSpec) (m.Program, error) {
	files, expect, err := patterns.Render(spec)
	if err != nil {
		return m.Program{}, err
	}

	for _, f := range files {
		if err := CheckPython(f.Content); err != nil {
			return m.Program{}, fmt.Errorf("%s/%s variant %d: %w", spec.Pattern, spec.Form, spec.Index, err)
		}
	}

	hash := contentHash(files)

	// Single-file programs carry the hash in the file name so distinct runs
	// can share an output directory without collisions. Multi-file sets keep
	// the renderer's fixed stems: their import statements name the modules,
	// so the names must be known before the content (and thus the hash)
	// exists.
	if len(files) == 1 && files[0].Name == "" {
		files[0].Name = fmt.Sprintf("%s_%04d_%s.py",
			strings.ReplaceAll(string(spec.Pattern), "-", "_"), spec.Index, hash[:8])
	}

	return m.Program{
		Spec:   spec,
		Files:  files,
		Hash:   hash,
		Expect: expect,
	}, nil
}

// contentHash hashes the normalized concatenation of a program's files. File
// names participate for multi-file sets, where the import graph is part of the
// program's identity; at hashing time single-file programs have no name yet.
func contentHash(files []m.ProgramFile) string {
	h := sha256.New()

	for _, f := range files {
		h.Write([]byte(f.Name))
		h.Write([]byte{0})
		h.Write([]byte(f.Content))
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil))
}
