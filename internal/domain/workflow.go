package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"

	"ambigen.dev/pkg/ambigen/internal/adapter"
	"ambigen.dev/pkg/ambigen/internal/controller"
	m "ambigen.dev/pkg/ambigen/internal/model"
	"ambigen.dev/pkg/ambigen/pkg"
)

const (
	// ManifestFileName is the manifest written next to the corpus.
	ManifestFileName = "manifest.yaml"

	// indexFileName persists the dedup index for --resume runs.
	indexFileName = ".ambigen.idx"

	corpusFilePerm = 0o600
)

// ErrInvalidCount reports a non-positive requested corpus size.
var ErrInvalidCount = fmt.Errorf("requested count must be positive")

// ErrUnknownPattern reports a pattern filter naming no catalog entry.
var ErrUnknownPattern = fmt.Errorf("unknown pattern")

// GenerateRequest carries the parameters of one generation run.
type GenerateRequest struct {
	Output   m.Path
	Count    int
	Seed     uint64
	Patterns []m.PatternID
	Resume   bool
}

// VerifyDrift is one corpus file whose on-disk content no longer matches its
// re-rendered form.
type VerifyDrift struct {
	File string
	Diff string
}

// VerifyReport is the outcome of re-rendering a corpus against its manifest.
type VerifyReport struct {
	Checked int
	Missing []string
	Drifted []VerifyDrift
}

// Clean reports whether the corpus matched its manifest exactly.
func (r VerifyReport) Clean() bool {
	return len(r.Missing) == 0 && len(r.Drifted) == 0
}

// Workflow coordinates composing, rendering and persisting a corpus.
type Workflow interface {
	Generate(ctx context.Context, req GenerateRequest) (m.Summary, error)
	Verify(ctx context.Context, dir m.Path, parallel int) (VerifyReport, error)
}

type workflow struct {
	fs        adapter.CorpusFSAdapter
	manifests adapter.ManifestStore
	ui        controller.UI
	composer  Composer
	synth     Synthesizer
}

// NewWorkflow creates a Workflow wired to the given adapters.
func NewWorkflow(
	fs adapter.CorpusFSAdapter,
	manifests adapter.ManifestStore,
	ui controller.UI,
	composer Composer,
	synth Synthesizer,
) Workflow {
	return &workflow{
		fs:        fs,
		manifests: manifests,
		ui:        ui,
		composer:  composer,
		synth:     synth,
	}
}

// Generate produces the corpus described by the request. The run continues
// past individual defects, duplicates and write failures; synthesis defects
// still fail the returned error so CI notices, while duplicates and write
// failures only show up in the summary.
func (w *workflow) Generate(ctx context.Context, req GenerateRequest) (m.Summary, error) {
	if req.Count <= 0 {
		return m.Summary{}, fmt.Errorf("%w: got %d", ErrInvalidCount, req.Count)
	}

	patterns, err := resolvePatterns(req.Patterns)
	if err != nil {
		return m.Summary{}, err
	}

	if err := w.fs.EnsureDir(req.Output); err != nil {
		return m.Summary{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	index, err := w.openIndex(req)
	if err != nil {
		return m.Summary{}, err
	}

	quotas := planQuotas(req.Count, patterns)

	summary := m.Summary{
		Requested: req.Count,
		Counts:    make(map[m.PatternID]int),
		Deficits:  make(map[m.PatternID]int),
	}

	manifest, err := w.openManifest(req)
	if err != nil {
		return m.Summary{}, err
	}

	manifest.Seed = req.Seed
	manifest.Requested = req.Count
	manifest.Deficits = summary.Deficits

	w.ui.DisplayPlan(ctx, req.Seed, quotas)

	if err := w.ui.Start(ctx, req.Count); err != nil {
		return summary, err
	}

	for _, pattern := range patterns {
		if err := w.generatePattern(ctx, pattern, quotas[pattern.ID], req, index, &summary, &manifest); err != nil {
			return summary, err
		}
	}

	manifest.Accepted += summary.Accepted

	if err := w.manifests.Save(w.fs.JoinPath(string(req.Output), ManifestFileName), manifest); err != nil {
		return summary, err
	}

	if err := index.Save(string(w.fs.JoinPath(string(req.Output), indexFileName))); err != nil {
		return summary, err
	}

	w.ui.Close(ctx)
	w.ui.Wait(ctx)

	if err := w.ui.DisplaySummary(ctx, summary); err != nil {
		return summary, err
	}

	slog.Info("generation complete",
		"requested", summary.Requested,
		"accepted", summary.Accepted,
		"duplicates", summary.Duplicates,
		"defects", summary.Defects,
		"deficit", summary.Deficit())

	// Write failures are recoverable rejections: they are logged, counted in
	// the summary and left to the operator. Only synthesis defects fail the
	// run once files exist on disk.
	if summary.Defects > 0 {
		return summary, fmt.Errorf("generation finished with %d defect(s)", summary.Defects)
	}

	return summary, nil
}

func (w *workflow) generatePattern(
	ctx context.Context,
	pattern Pattern,
	quota int,
	req GenerateRequest,
	index pkg.HashIndex,
	summary *m.Summary,
	manifest *m.Manifest,
) error {
	specs, deficit := w.composer.Compose(pattern, quota, req.Seed)
	if deficit > 0 {
		summary.Deficits[pattern.ID] = deficit
		slog.Warn("pattern space exhausted", "pattern", pattern.ID, "requested", quota, "deficit", deficit)
	}

	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return err
		}

		program, err := w.synth.Render(spec)
		if err != nil {
			summary.Defects++

			slog.Error("renderer defect", "pattern", spec.Pattern, "form", spec.Form, "error", err)
			w.ui.DisplayDefect(ctx, spec, err)

			continue
		}

		if !index.Admit(program.Hash) {
			summary.Duplicates++

			slog.Debug("skipped duplicate program", "pattern", spec.Pattern, "form", spec.Form, "hash", program.Hash)

			continue
		}

		if err := w.writeProgram(req.Output, program); err != nil {
			summary.WriteFailures++

			slog.Error("failed to write program", "file", program.Primary(), "error", err)

			continue
		}

		summary.Accepted++
		summary.Counts[pattern.ID]++
		manifest.Counts[pattern.ID]++
		manifest.Entries = append(manifest.Entries, manifestEntry(program))

		w.ui.DisplayAccepted(ctx, program)
	}

	return nil
}

func (w *workflow) writeProgram(output m.Path, program m.Program) error {
	for _, file := range program.Files {
		path := w.fs.JoinPath(string(output), file.Name)
		if err := w.fs.WriteFile(path, []byte(file.Content), corpusFilePerm); err != nil {
			return err
		}
	}

	return nil
}

// openManifest returns the manifest the run extends. Without --resume it is
// fresh; with --resume the previous run's entries and counts are carried over
// so the manifest keeps describing the whole corpus on disk.
func (w *workflow) openManifest(req GenerateRequest) (m.Manifest, error) {
	manifest := m.Manifest{Counts: make(map[m.PatternID]int)}
	if !req.Resume {
		return manifest, nil
	}

	path := w.fs.JoinPath(string(req.Output), ManifestFileName)
	if !w.fs.Exists(path) {
		return manifest, nil
	}

	prior, err := w.manifests.Load(path)
	if err != nil {
		return m.Manifest{}, fmt.Errorf("failed to load existing manifest: %w", err)
	}

	manifest.Accepted = prior.Accepted
	manifest.Entries = prior.Entries

	for id, n := range prior.Counts {
		manifest.Counts[id] = n
	}

	return manifest, nil
}

func (w *workflow) openIndex(req GenerateRequest) (pkg.HashIndex, error) {
	if !req.Resume {
		return pkg.NewHashIndex(), nil
	}

	index, err := pkg.LoadHashIndex(string(w.fs.JoinPath(string(req.Output), indexFileName)))
	if err != nil {
		return nil, fmt.Errorf("failed to load dedup index: %w", err)
	}

	slog.Info("resuming against existing corpus", "known_hashes", index.Len())

	return index, nil
}

// Verify re-renders every manifest entry and diffs it against the corpus on
// disk. Entries are independent, so they are checked concurrently.
func (w *workflow) Verify(ctx context.Context, dir m.Path, parallel int) (VerifyReport, error) {
	manifest, err := w.manifests.Load(w.fs.JoinPath(string(dir), ManifestFileName))
	if err != nil {
		return VerifyReport{}, err
	}

	if parallel < 1 {
		parallel = 1
	}

	var (
		mu     sync.Mutex
		report VerifyReport
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(parallel)

	for _, entry := range manifest.Entries {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			missing, drifted, err := w.verifyEntry(dir, entry)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()

			report.Checked++
			report.Missing = append(report.Missing, missing...)
			report.Drifted = append(report.Drifted, drifted...)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return report, err
	}

	slog.Info("verification complete",
		"checked", report.Checked, "missing", len(report.Missing), "drifted", len(report.Drifted))

	return report, nil
}

func (w *workflow) verifyEntry(dir m.Path, entry m.ManifestEntry) ([]string, []VerifyDrift, error) {
	program, err := w.synth.Render(entry.Spec)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to re-render %s: %w", entry.File, err)
	}

	var (
		missing []string
		drifted []VerifyDrift
	)

	for _, file := range program.Files {
		disk, err := w.fs.ReadFile(w.fs.JoinPath(string(dir), file.Name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				missing = append(missing, file.Name)
				continue
			}

			return nil, nil, fmt.Errorf("failed to read %s: %w", file.Name, err)
		}

		if string(disk) == file.Content {
			continue
		}

		diff, diffErr := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(disk)),
			B:        difflib.SplitLines(file.Content),
			FromFile: file.Name + " (disk)",
			ToFile:   file.Name + " (rendered)",
			Context:  3,
		})
		if diffErr != nil {
			diff = diffErr.Error()
		}

		drifted = append(drifted, VerifyDrift{File: file.Name, Diff: diff})
	}

	return missing, drifted, nil
}

// manifestEntry builds the manifest record for one accepted program.
func manifestEntry(program m.Program) m.ManifestEntry {
	entry := m.ManifestEntry{
		File:   program.Primary(),
		Spec:   program.Spec,
		Hash:   program.Hash,
		Expect: program.Expect,
	}

	if len(program.Files) > 1 {
		for _, file := range program.Files {
			entry.Files = append(entry.Files, file.Name)
		}
	}

	return entry
}

// resolvePatterns maps the requested ids to catalog entries, defaulting to the
// full catalog.
func resolvePatterns(ids []m.PatternID) ([]Pattern, error) {
	if len(ids) == 0 {
		return Catalog(), nil
	}

	patterns := make([]Pattern, 0, len(ids))

	for _, id := range ids {
		pattern, ok := CatalogPattern(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, id)
		}

		patterns = append(patterns, pattern)
	}

	return patterns, nil
}

// planQuotas splits the requested count across the selected patterns. The
// split starts even, remainder to the earliest catalog entries; any share a
// saturated pattern cannot absorb is redistributed to patterns with spare
// variant space, so the corpus only falls short of the request when the
// combined space does.
func planQuotas(count int, patterns []Pattern) map[m.PatternID]int {
	quotas := make(map[m.PatternID]int, len(patterns))

	remaining := count
	for remaining > 0 {
		open := make([]Pattern, 0, len(patterns))

		for _, pattern := range patterns {
			if quotas[pattern.ID] < pattern.Space() {
				open = append(open, pattern)
			}
		}

		if len(open) == 0 {
			break
		}

		base := remaining / len(open)
		extra := remaining % len(open)

		for i, pattern := range open {
			share := base
			if i < extra {
				share++
			}

			if room := pattern.Space() - quotas[pattern.ID]; share > room {
				share = room
			}

			quotas[pattern.ID] += share
			remaining -= share
		}
	}

	// Combined space exhausted. Spread the shortfall so each pattern's
	// composer reports its slice of the deficit.
	if remaining > 0 {
		base := remaining / len(patterns)
		extra := remaining % len(patterns)

		for i, pattern := range patterns {
			share := base
			if i < extra {
				share++
			}

			quotas[pattern.ID] += share
		}
	}

	return quotas
}
