package domain

import (
	"strings"
	"testing"

	m "ambigen.dev/pkg/ambigen/internal/model"
)

// TestSynthesizer_FullCatalogRenders walks every variant of every form and
// checks that each one renders structurally valid Python.
func TestSynthesizer_FullCatalogRenders(t *testing.T) {
	c := NewComposer()
	s := NewSynthesizer()

	for _, pattern := range Catalog() {
		specs, deficit := c.Compose(pattern, pattern.Space(), 0xDE9713A)
		if deficit != 0 {
			t.Fatalf("pattern %s reported deficit %d for its own space", pattern.ID, deficit)
		}

		for _, spec := range specs {
			program, err := s.Render(spec)
			if err != nil {
				t.Fatalf("render %s/%s variant %d: %v", spec.Pattern, spec.Form, spec.Index, err)
			}

			if len(program.Files) == 0 {
				t.Fatalf("render %s/%s produced no files", spec.Pattern, spec.Form)
			}

			if program.Hash == "" || program.Expect == "" {
				t.Fatalf("render %s/%s missing hash or expectation", spec.Pattern, spec.Form)
			}

			for _, file := range program.Files {
				if file.Name == "" {
					t.Fatalf("render %s/%s produced unnamed file", spec.Pattern, spec.Form)
				}

				if !strings.HasSuffix(file.Name, ".py") {
					t.Fatalf("file %q is not a .py file", file.Name)
				}
			}
		}
	}
}

func TestSynthesizer_Deterministic(t *testing.T) {
	s := NewSynthesizer()
	spec := m.VariantSpec{
		Pattern:  m.PatternLiteralTrap,
		Form:     "homogeneous_literal",
		Index:    3,
		Key:      m.KeyStr,
		Branches: 2,
		Ident:    "homo_abcd",
	}

	first, err := s.Render(spec)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	second, err := s.Render(spec)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if first.Hash != second.Hash {
		t.Fatalf("hashes differ: %s != %s", first.Hash, second.Hash)
	}

	if first.Files[0].Content != second.Files[0].Content {
		t.Fatal("contents differ between renders of the same spec")
	}
}

func TestSynthesizer_SingleFileNameEmbedsHash(t *testing.T) {
	s := NewSynthesizer()
	spec := m.VariantSpec{
		Pattern:  m.PatternFlowGap,
		Form:     "generator_yield",
		Index:    7,
		Branches: 2,
		Ident:    "gene_wxyz",
	}

	program, err := s.Render(spec)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	name := program.Primary()
	if !strings.HasPrefix(name, "flow_gap_0007_") {
		t.Fatalf("unexpected file name %q", name)
	}

	if !strings.Contains(name, program.Hash[:8]) {
		t.Fatalf("file name %q does not embed hash prefix %s", name, program.Hash[:8])
	}
}

func TestSynthesizer_ModuleBoundaryNames(t *testing.T) {
	s := NewSynthesizer()
	spec := m.VariantSpec{
		Pattern:  m.PatternModuleBoundary,
		Form:     "reexport_chain",
		Index:    2,
		Branches: 3,
		Ident:    "reex_abcd",
	}

	program, err := s.Render(spec)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if len(program.Files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(program.Files))
	}

	wantNames := []string{
		"module_boundary_0002_a.py",
		"module_boundary_0002_b.py",
		"module_boundary_0002_c.py",
	}

	for i, file := range program.Files {
		if file.Name != wantNames[i] {
			t.Fatalf("file %d named %q, want %q", i, file.Name, wantNames[i])
		}
	}

	// The consumer modules must import their producers by stem.
	if !strings.Contains(program.Files[1].Content, "module_boundary_0002_a") {
		t.Fatal("part b does not import part a")
	}

	if !strings.Contains(program.Files[2].Content, "module_boundary_0002_b") {
		t.Fatal("part c does not import part b")
	}
}

func TestSynthesizer_UnknownPatternFails(t *testing.T) {
	s := NewSynthesizer()

	if _, err := s.Render(m.VariantSpec{Pattern: "bogus", Form: "nope"}); err == nil {
		t.Fatal("expected error for unknown pattern")
	}
}

func TestSynthesizer_UnknownFormFails(t *testing.T) {
	s := NewSynthesizer()

	if _, err := s.Render(m.VariantSpec{Pattern: m.PatternLiteralTrap, Form: "nope"}); err == nil {
		t.Fatal("expected error for unknown form")
	}
}

func TestSynthesizer_DistinctSpecsDistinctHashes(t *testing.T) {
	c := NewComposer()
	s := NewSynthesizer()

	hashes := make(map[string]m.VariantSpec)

	for _, pattern := range Catalog() {
		specs, _ := c.Compose(pattern, pattern.Space(), 0xDE9713A)

		for _, spec := range specs {
			program, err := s.Render(spec)
			if err != nil {
				t.Fatalf("render %s/%s: %v", spec.Pattern, spec.Form, err)
			}

			if prev, dup := hashes[program.Hash]; dup {
				t.Fatalf("hash collision between %+v and %+v", prev, spec)
			}

			hashes[program.Hash] = spec
		}
	}
}
