package adapter

import (
	"path/filepath"
	"reflect"
	"testing"

	m "ambigen.dev/pkg/ambigen/internal/model"
)

func TestManifestStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewManifestStore()
	path := m.Path(filepath.Join(t.TempDir(), "manifest.yaml"))

	manifest := m.Manifest{
		Seed:      0xDE9713A,
		Requested: 10,
		Accepted:  9,
		Counts: map[m.PatternID]int{
			m.PatternLiteralTrap: 5,
			m.PatternFlowGap:     4,
		},
		Deficits: map[m.PatternID]int{
			m.PatternModuleBoundary: 1,
		},
		Entries: []m.ManifestEntry{
			{
				File: "literal_trap_0000_deadbeef.py",
				Spec: m.VariantSpec{
					Pattern:  m.PatternLiteralTrap,
					Form:     "homogeneous_literal",
					Key:      m.KeyStr,
					Branches: 2,
					Ident:    "homo_abcd",
				},
				Hash:   "deadbeef",
				Expect: m.ExpectStringKeyed,
			},
			{
				File:  "module_boundary_0000_a.py",
				Files: []string{"module_boundary_0000_a.py", "module_boundary_0000_b.py"},
				Spec: m.VariantSpec{
					Pattern:  m.PatternModuleBoundary,
					Form:     "shared_definition",
					Key:      m.KeyMixed,
					Branches: 3,
					Ident:    "shar_wxyz",
				},
				Hash:   "cafebabe",
				Expect: m.ExpectMixed,
			},
		},
	}

	if err := store.Save(path, manifest); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !reflect.DeepEqual(manifest, loaded) {
		t.Fatalf("round trip mismatch:\nsaved:  %+v\nloaded: %+v", manifest, loaded)
	}
}

func TestManifestStore_LoadMissingFile(t *testing.T) {
	store := NewManifestStore()

	if _, err := store.Load(m.Path(filepath.Join(t.TempDir(), "nope.yaml"))); err == nil {
		t.Fatal("expected error for missing manifest")
	}
}
