package controller

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	m "ambigen.dev/pkg/ambigen/internal/model"
)

func newTestSimpleUI() (*SimpleUI, *bytes.Buffer) {
	out := &bytes.Buffer{}

	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})

	return NewSimpleUI(cmd), out
}

func TestSimpleUI_DisplaySummary(t *testing.T) {
	ui, out := newTestSimpleUI()

	summary := m.Summary{
		Requested:  10,
		Accepted:   8,
		Duplicates: 1,
		Defects:    1,
		Counts: map[m.PatternID]int{
			m.PatternLiteralTrap: 5,
			m.PatternFlowGap:     3,
		},
		Deficits: map[m.PatternID]int{
			m.PatternFlowGap: 2,
		},
	}

	if err := ui.DisplaySummary(context.Background(), summary); err != nil {
		t.Fatalf("DisplaySummary() error = %v", err)
	}

	output := out.String()

	for _, want := range []string{"literal-trap", "flow-gap", "Duplicates: 1", "Defects: 1", "WARNING"} {
		if !strings.Contains(output, want) {
			t.Fatalf("summary output missing %q:\n%s", want, output)
		}
	}
}

func TestSimpleUI_DisplaySummaryCleanRunHasNoWarning(t *testing.T) {
	ui, out := newTestSimpleUI()

	summary := m.Summary{
		Requested: 4,
		Accepted:  4,
		Counts:    map[m.PatternID]int{m.PatternMethodClash: 4},
		Deficits:  map[m.PatternID]int{},
	}

	if err := ui.DisplaySummary(context.Background(), summary); err != nil {
		t.Fatalf("DisplaySummary() error = %v", err)
	}

	if strings.Contains(out.String(), "WARNING") {
		t.Fatalf("clean run should not warn:\n%s", out.String())
	}
}

func TestSimpleUI_DisplayCatalog(t *testing.T) {
	ui, out := newTestSimpleUI()

	rows := []CatalogRow{
		{Pattern: m.PatternLiteralTrap, Form: "homogeneous_literal", Space: 24},
		{Pattern: m.PatternModuleBoundary, Form: "shared_definition", Space: 9, MultiFile: true},
	}

	if err := ui.DisplayCatalog(context.Background(), rows); err != nil {
		t.Fatalf("DisplayCatalog() error = %v", err)
	}

	output := out.String()

	for _, want := range []string{"homogeneous_literal", "shared_definition", "24", "2+", "33"} {
		if !strings.Contains(output, want) {
			t.Fatalf("catalog output missing %q:\n%s", want, output)
		}
	}
}

func TestSimpleUI_DisplayDefect(t *testing.T) {
	ui, out := newTestSimpleUI()

	spec := m.VariantSpec{Pattern: m.PatternFlowGap, Form: "call_chain", Index: 3}
	ui.DisplayDefect(context.Background(), spec, context.Canceled)

	if !strings.Contains(out.String(), "DEFECT flow-gap/call_chain variant 3") {
		t.Fatalf("defect output unexpected:\n%s", out.String())
	}
}

func TestSimpleUI_CancelledContextSuppressesOutput(t *testing.T) {
	ui, out := newTestSimpleUI()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ui.DisplayAccepted(ctx, m.Program{})
	ui.DisplayPlan(ctx, 1, nil)

	if err := ui.DisplaySummary(ctx, m.Summary{}); err == nil {
		t.Fatal("expected context error from DisplaySummary")
	}

	if out.Len() != 0 {
		t.Fatalf("cancelled context still produced output: %q", out.String())
	}
}
