package domain

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ambigen.dev/pkg/ambigen/internal/adapter"
	"ambigen.dev/pkg/ambigen/internal/controller"
	m "ambigen.dev/pkg/ambigen/internal/model"
	"github.com/spf13/cobra"
)

func newTestWorkflow(t *testing.T) Workflow {
	t.Helper()

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	return NewWorkflow(
		adapter.NewLocalCorpusFSAdapter(),
		adapter.NewManifestStore(),
		controller.NewSimpleUI(cmd),
		NewComposer(),
		NewSynthesizer(),
	)
}

func readDirContents(t *testing.T, dir string) map[string][]byte {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}

	contents := make(map[string][]byte, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			t.Fatalf("read %s: %v", entry.Name(), err)
		}

		contents[entry.Name()] = data
	}

	return contents
}

func TestWorkflow_Generate_Deterministic(t *testing.T) {
	w := newTestWorkflow(t)

	first := t.TempDir()
	second := t.TempDir()

	for _, dir := range []string{first, second} {
		summary, err := w.Generate(context.Background(), GenerateRequest{
			Output: m.Path(dir),
			Count:  40,
			Seed:   0xDE9713A,
		})
		if err != nil {
			t.Fatalf("generate into %s: %v", dir, err)
		}

		if summary.Accepted == 0 {
			t.Fatal("no programs accepted")
		}
	}

	firstFiles := readDirContents(t, first)
	secondFiles := readDirContents(t, second)

	if len(firstFiles) != len(secondFiles) {
		t.Fatalf("runs produced different file counts: %d != %d", len(firstFiles), len(secondFiles))
	}

	for name, content := range firstFiles {
		other, ok := secondFiles[name]
		if !ok {
			t.Fatalf("second run missing %s", name)
		}

		if !bytes.Equal(content, other) {
			t.Fatalf("file %s differs between runs", name)
		}
	}
}

func TestWorkflow_Generate_InvalidCount(t *testing.T) {
	w := newTestWorkflow(t)

	_, err := w.Generate(context.Background(), GenerateRequest{
		Output: m.Path(t.TempDir()),
		Count:  0,
		Seed:   1,
	})
	if !errors.Is(err, ErrInvalidCount) {
		t.Fatalf("expected ErrInvalidCount, got %v", err)
	}
}

func TestWorkflow_Generate_UnknownPattern(t *testing.T) {
	w := newTestWorkflow(t)

	_, err := w.Generate(context.Background(), GenerateRequest{
		Output:   m.Path(t.TempDir()),
		Count:    4,
		Seed:     1,
		Patterns: []m.PatternID{"no-such-pattern"},
	})
	if !errors.Is(err, ErrUnknownPattern) {
		t.Fatalf("expected ErrUnknownPattern, got %v", err)
	}
}

func TestWorkflow_Generate_CoversAllPatterns(t *testing.T) {
	w := newTestWorkflow(t)

	summary, err := w.Generate(context.Background(), GenerateRequest{
		Output: m.Path(t.TempDir()),
		Count:  4,
		Seed:   0xDE9713A,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, id := range m.AllPatterns {
		if summary.Counts[id] != 1 {
			t.Fatalf("pattern %s got %d programs, want 1", id, summary.Counts[id])
		}
	}
}

func TestPlanQuotas(t *testing.T) {
	patterns := Catalog()

	combined := 0
	for _, pattern := range patterns {
		combined += pattern.Space()
	}

	t.Run("even split", func(t *testing.T) {
		quotas := planQuotas(4, patterns)

		for _, pattern := range patterns {
			if quotas[pattern.ID] != 1 {
				t.Fatalf("pattern %s quota %d, want 1", pattern.ID, quotas[pattern.ID])
			}
		}
	})

	t.Run("redistributes saturated share", func(t *testing.T) {
		quotas := planQuotas(100, patterns)

		total := 0

		for _, pattern := range patterns {
			if quotas[pattern.ID] > pattern.Space() {
				t.Fatalf("pattern %s quota %d exceeds its space %d",
					pattern.ID, quotas[pattern.ID], pattern.Space())
			}

			total += quotas[pattern.ID]
		}

		if total != 100 {
			t.Fatalf("quotas sum to %d, want 100", total)
		}

		boundary, ok := CatalogPattern(m.PatternModuleBoundary)
		if !ok {
			t.Fatal("module-boundary not in catalog")
		}

		if quotas[m.PatternModuleBoundary] != boundary.Space() {
			t.Fatalf("smallest pattern quota %d, want its full space %d",
				quotas[m.PatternModuleBoundary], boundary.Space())
		}
	})

	t.Run("over-request spreads deficit", func(t *testing.T) {
		quotas := planQuotas(combined+8, patterns)

		for _, pattern := range patterns {
			if quotas[pattern.ID] != pattern.Space()+2 {
				t.Fatalf("pattern %s quota %d, want %d",
					pattern.ID, quotas[pattern.ID], pattern.Space()+2)
			}
		}
	})
}

func TestWorkflow_Generate_FillsRequestFromRemainingSpace(t *testing.T) {
	w := newTestWorkflow(t)

	// 100 exceeds an even per-pattern share of the smallest category, so the
	// run only conserves the count if the surplus moves to larger categories.
	summary, err := w.Generate(context.Background(), GenerateRequest{
		Output: m.Path(t.TempDir()),
		Count:  100,
		Seed:   0xDE9713A,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if summary.Accepted != 100 {
		t.Fatalf("accepted %d of 100 despite sufficient combined space", summary.Accepted)
	}

	if len(summary.Deficits) != 0 {
		t.Fatalf("unexpected deficits %v", summary.Deficits)
	}
}

func TestWorkflow_Generate_OverRequestReportsDeficit(t *testing.T) {
	w := newTestWorkflow(t)

	pattern, ok := CatalogPattern(m.PatternModuleBoundary)
	if !ok {
		t.Fatal("module-boundary not in catalog")
	}

	want := pattern.Space() + 5

	summary, err := w.Generate(context.Background(), GenerateRequest{
		Output:   m.Path(t.TempDir()),
		Count:    want,
		Seed:     2,
		Patterns: []m.PatternID{m.PatternModuleBoundary},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if summary.Accepted != pattern.Space() {
		t.Fatalf("accepted %d, want the full space %d", summary.Accepted, pattern.Space())
	}

	if summary.Deficits[m.PatternModuleBoundary] != 5 {
		t.Fatalf("deficit %d, want 5", summary.Deficits[m.PatternModuleBoundary])
	}
}

func TestWorkflow_Generate_WritesManifest(t *testing.T) {
	w := newTestWorkflow(t)
	dir := t.TempDir()

	summary, err := w.Generate(context.Background(), GenerateRequest{
		Output: m.Path(dir),
		Count:  12,
		Seed:   0xDE9713A,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	store := adapter.NewManifestStore()

	manifest, err := store.Load(m.Path(filepath.Join(dir, ManifestFileName)))
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}

	if manifest.Seed != 0xDE9713A {
		t.Fatalf("manifest seed 0x%X", manifest.Seed)
	}

	if manifest.Accepted != summary.Accepted || len(manifest.Entries) != summary.Accepted {
		t.Fatalf("manifest has %d entries for %d accepted", len(manifest.Entries), summary.Accepted)
	}

	for _, entry := range manifest.Entries {
		if entry.File == "" || entry.Hash == "" || entry.Expect == "" {
			t.Fatalf("incomplete manifest entry %+v", entry)
		}

		if _, err := os.Stat(filepath.Join(dir, entry.File)); err != nil {
			t.Fatalf("manifest names missing file %s: %v", entry.File, err)
		}

		for _, extra := range entry.Files {
			if _, err := os.Stat(filepath.Join(dir, extra)); err != nil {
				t.Fatalf("manifest names missing file %s: %v", extra, err)
			}
		}
	}
}

func TestWorkflow_Generate_ResumeSkipsExisting(t *testing.T) {
	w := newTestWorkflow(t)
	dir := t.TempDir()

	req := GenerateRequest{
		Output: m.Path(dir),
		Count:  10,
		Seed:   0xDE9713A,
	}

	first, err := w.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}

	req.Resume = true

	second, err := w.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("resumed generate: %v", err)
	}

	if second.Accepted != 0 {
		t.Fatalf("resumed run accepted %d new programs, want 0", second.Accepted)
	}

	if second.Duplicates != first.Accepted {
		t.Fatalf("resumed run saw %d duplicates, want %d", second.Duplicates, first.Accepted)
	}
}

func TestWorkflow_Generate_ResumeExtendsManifest(t *testing.T) {
	w := newTestWorkflow(t)
	dir := t.TempDir()

	first, err := w.Generate(context.Background(), GenerateRequest{
		Output: m.Path(dir),
		Count:  6,
		Seed:   0xDE9713A,
	})
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}

	second, err := w.Generate(context.Background(), GenerateRequest{
		Output: m.Path(dir),
		Count:  10,
		Seed:   0xDE9713A,
		Resume: true,
	})
	if err != nil {
		t.Fatalf("resumed generate: %v", err)
	}

	if second.Accepted == 0 {
		t.Fatal("resumed run with a larger count added nothing")
	}

	store := adapter.NewManifestStore()

	manifest, err := store.Load(m.Path(filepath.Join(dir, ManifestFileName)))
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}

	wantAccepted := first.Accepted + second.Accepted

	if manifest.Accepted != wantAccepted {
		t.Fatalf("manifest accepted %d, want %d across both runs", manifest.Accepted, wantAccepted)
	}

	if len(manifest.Entries) != wantAccepted {
		t.Fatalf("manifest has %d entries for %d accepted programs", len(manifest.Entries), wantAccepted)
	}

	counted := 0
	for _, n := range manifest.Counts {
		counted += n
	}

	if counted != wantAccepted {
		t.Fatalf("manifest counts sum to %d, want %d", counted, wantAccepted)
	}

	for _, entry := range manifest.Entries {
		if _, err := os.Stat(filepath.Join(dir, entry.File)); err != nil {
			t.Fatalf("manifest names missing file %s: %v", entry.File, err)
		}
	}
}

type unwritableFS struct {
	adapter.CorpusFSAdapter
}

func (f unwritableFS) WriteFile(_ m.Path, _ []byte, _ os.FileMode) error {
	return errors.New("no space left on device")
}

func TestWorkflow_Generate_WriteFailuresDoNotFailRun(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	w := NewWorkflow(
		unwritableFS{adapter.NewLocalCorpusFSAdapter()},
		adapter.NewManifestStore(),
		controller.NewSimpleUI(cmd),
		NewComposer(),
		NewSynthesizer(),
	)

	summary, err := w.Generate(context.Background(), GenerateRequest{
		Output: m.Path(t.TempDir()),
		Count:  4,
		Seed:   1,
	})
	if err != nil {
		t.Fatalf("write failures should not fail the run: %v", err)
	}

	if summary.WriteFailures != 4 {
		t.Fatalf("write failures %d, want 4", summary.WriteFailures)
	}

	if summary.Accepted != 0 {
		t.Fatalf("accepted %d programs despite failing writes", summary.Accepted)
	}
}

func TestWorkflow_Verify_CleanCorpus(t *testing.T) {
	w := newTestWorkflow(t)
	dir := t.TempDir()

	if _, err := w.Generate(context.Background(), GenerateRequest{
		Output: m.Path(dir),
		Count:  16,
		Seed:   3,
	}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	report, err := w.Verify(context.Background(), m.Path(dir), 4)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if !report.Clean() {
		t.Fatalf("fresh corpus reported unclean: %+v", report)
	}

	if report.Checked == 0 {
		t.Fatal("verify checked nothing")
	}
}

func TestWorkflow_Verify_DetectsDriftAndMissing(t *testing.T) {
	w := newTestWorkflow(t)
	dir := t.TempDir()

	if _, err := w.Generate(context.Background(), GenerateRequest{
		Output: m.Path(dir),
		Count:  8,
		Seed:   4,
	}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	store := adapter.NewManifestStore()

	manifest, err := store.Load(m.Path(filepath.Join(dir, ManifestFileName)))
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}

	if len(manifest.Entries) < 2 {
		t.Fatalf("need at least 2 entries, got %d", len(manifest.Entries))
	}

	tampered := filepath.Join(dir, manifest.Entries[0].File)
	if err := os.WriteFile(tampered, []byte("# edited by hand\nx = {}\n"), 0o600); err != nil {
		t.Fatalf("tamper: %v", err)
	}

	removed := manifest.Entries[1].File
	if err := os.Remove(filepath.Join(dir, removed)); err != nil {
		t.Fatalf("remove: %v", err)
	}

	report, err := w.Verify(context.Background(), m.Path(dir), 2)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if report.Clean() {
		t.Fatal("tampered corpus reported clean")
	}

	if len(report.Drifted) != 1 {
		t.Fatalf("expected 1 drifted file, got %d", len(report.Drifted))
	}

	if !strings.Contains(report.Drifted[0].Diff, "edited by hand") {
		t.Fatalf("diff does not show the tampered content:\n%s", report.Drifted[0].Diff)
	}

	foundMissing := false

	for _, name := range report.Missing {
		if name == removed {
			foundMissing = true
		}
	}

	if !foundMissing {
		t.Fatalf("missing list %v does not include %s", report.Missing, removed)
	}
}

func TestWorkflow_Verify_ReadErrorIsNotMissing(t *testing.T) {
	w := newTestWorkflow(t)
	dir := t.TempDir()

	if _, err := w.Generate(context.Background(), GenerateRequest{
		Output: m.Path(dir),
		Count:  8,
		Seed:   5,
	}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	store := adapter.NewManifestStore()

	manifest, err := store.Load(m.Path(filepath.Join(dir, ManifestFileName)))
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}

	// A directory in place of the file makes reads fail without the file
	// being absent.
	blocked := filepath.Join(dir, manifest.Entries[0].File)
	if err := os.Remove(blocked); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if err := os.Mkdir(blocked, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if _, err := w.Verify(context.Background(), m.Path(dir), 1); err == nil {
		t.Fatal("unreadable file should surface as an error, not a missing entry")
	}
}
