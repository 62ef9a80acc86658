package controller

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "ambigen.dev/pkg/ambigen/internal/model"
)

// SimpleUI implements UI using cobra Command's Println.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayPlan prints the per-category quotas for the run.
func (s *SimpleUI) DisplayPlan(ctx context.Context, seed uint64, quotas map[m.PatternID]int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Generating with seed 0x%X\n", seed)

	for _, id := range sortedPatterns(quotas) {
		s.printf("  %s: %d requested\n", id, quotas[id])
	}
}

// DisplayAccepted prints one line per accepted program.
func (s *SimpleUI) DisplayAccepted(ctx context.Context, program m.Program) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Wrote %s (%s/%s)\n", program.Primary(), program.Spec.Pattern, program.Spec.Form)
}

// DisplayDefect reports a renderer defect without stopping the run.
func (s *SimpleUI) DisplayDefect(ctx context.Context, spec m.VariantSpec, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return
	}

	s.printf("DEFECT %s/%s variant %d: %v\n", spec.Pattern, spec.Form, spec.Index, err)
}

// DisplaySummary renders the run outcome as a table.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderSummaryTable(summary))

	if deficit := summary.Deficit(); deficit > 0 {
		s.printf("WARNING: %d variant(s) short of the request; the pattern space is exhausted\n", deficit)
	}

	return nil
}

// DisplayCatalog renders the pattern catalog as a table.
func (s *SimpleUI) DisplayCatalog(ctx context.Context, rows []CatalogRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s", renderCatalogTable(rows))

	return nil
}

// DisplayDrift prints a unified diff for one drifted corpus file.
func (s *SimpleUI) DisplayDrift(ctx context.Context, file string, diff string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("DRIFT %s\n%s\n", file, diff)
}

func renderSummaryTable(summary m.Summary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Pattern", "Accepted", "Deficit"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER})

	for _, id := range sortedPatterns(summary.Counts) {
		table.Append([]string{
			string(id),
			fmt.Sprintf("%d", summary.Counts[id]),
			fmt.Sprintf("%d", summary.Deficits[id]),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Requested %d", summary.Requested),
		fmt.Sprintf("%d", summary.Accepted),
		fmt.Sprintf("%d", summary.Deficit()),
	})

	table.Render()

	result := tableBuffer.String()
	result += fmt.Sprintf("Duplicates: %d | Write failures: %d | Defects: %d\n",
		summary.Duplicates, summary.WriteFailures, summary.Defects)

	return result
}

func renderCatalogTable(rows []CatalogRow) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Pattern", "Form", "Space", "Files"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
	})

	total := 0

	for _, row := range rows {
		files := "1"
		if row.MultiFile {
			files = "2+"
		}

		table.Append([]string{string(row.Pattern), row.Form, fmt.Sprintf("%d", row.Space), files})

		total += row.Space
	}

	table.SetFooter([]string{"", "Total", fmt.Sprintf("%d", total), ""})
	table.Render()

	return tableBuffer.String()
}

func sortedPatterns[V any](byPattern map[m.PatternID]V) []m.PatternID {
	ids := make([]m.PatternID, 0, len(byPattern))
	for id := range byPattern {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
