// Package controller provides output adapters for displaying corpus
// generation progress and results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "ambigen.dev/pkg/ambigen/internal/model"
)

// CatalogRow is one row of the pattern catalog listing.
type CatalogRow struct {
	Pattern   m.PatternID
	Form      string
	Space     int
	MultiFile bool
}

// UI defines the interface for displaying generation progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, total int) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayPlan(ctx context.Context, seed uint64, quotas map[m.PatternID]int)
	DisplayAccepted(ctx context.Context, program m.Program)
	DisplayDefect(ctx context.Context, spec m.VariantSpec, err error)
	DisplaySummary(ctx context.Context, summary m.Summary) error
	DisplayCatalog(ctx context.Context, rows []CatalogRow) error
	DisplayDrift(ctx context.Context, file string, diff string)
}

// NewUI picks the TUI on interactive terminals and the plain printer
// otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether the writer is an interactive terminal.
func IsTTY(output *os.File) bool {
	fd := output.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
