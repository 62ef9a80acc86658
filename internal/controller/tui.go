package controller

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "ambigen.dev/pkg/ambigen/internal/model"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	fileStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	defectStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the progress display in the background.
func (p *TUI) Start(ctx context.Context, total int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	model := newGenerationModel(total)
	p.program = tea.NewProgram(model, tea.WithOutput(p.output))
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)

		_, _ = p.program.Run()
	}()

	return nil
}

// Close tells the progress display to finish.
func (p *TUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}

	if p.program != nil {
		p.program.Send(finishedMsg{})
	}
}

// Wait blocks until the progress display has shut down.
func (p *TUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}

	if p.done != nil {
		<-p.done
	}
}

// DisplayPlan prints the per-category quotas before the progress bar starts.
func (p *TUI) DisplayPlan(ctx context.Context, seed uint64, quotas map[m.PatternID]int) {
	if err := ctx.Err(); err != nil {
		return
	}

	fmt.Fprintln(p.output, titleStyle.Render(fmt.Sprintf("ambigen - seed 0x%X", seed)))

	for _, id := range sortedPatterns(quotas) {
		fmt.Fprintf(p.output, "  %s: %d requested\n", id, quotas[id])
	}
}

// DisplayAccepted advances the progress bar.
func (p *TUI) DisplayAccepted(ctx context.Context, program m.Program) {
	if err := ctx.Err(); err != nil {
		return
	}

	if p.program != nil {
		p.program.Send(acceptedMsg{file: program.Primary()})
	}
}

// DisplayDefect surfaces a renderer defect inside the progress display.
func (p *TUI) DisplayDefect(ctx context.Context, spec m.VariantSpec, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return
	}

	if p.program != nil {
		p.program.Send(defectMsg{desc: fmt.Sprintf("%s/%s variant %d: %v", spec.Pattern, spec.Form, spec.Index, err)})
	}
}

// DisplaySummary renders the run outcome once the progress display is done.
func (p *TUI) DisplaySummary(ctx context.Context, summary m.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(p.output, "\n%s", renderSummaryTable(summary))
	if err != nil {
		return err
	}

	if deficit := summary.Deficit(); deficit > 0 {
		_, err = fmt.Fprintf(p.output,
			"%s\n", defectStyle.Render(fmt.Sprintf("WARNING: %d variant(s) short of the request", deficit)))
	}

	return err
}

// DisplayCatalog renders the pattern catalog as a table.
func (p *TUI) DisplayCatalog(ctx context.Context, rows []CatalogRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprint(p.output, renderCatalogTable(rows))

	return err
}

// DisplayDrift prints a unified diff for one drifted corpus file.
func (p *TUI) DisplayDrift(ctx context.Context, file string, diff string) {
	if err := ctx.Err(); err != nil {
		return
	}

	fmt.Fprintf(p.output, "%s\n%s\n", defectStyle.Render("DRIFT "+file), diff)
}

type acceptedMsg struct {
	file string
}

type defectMsg struct {
	desc string
}

type finishedMsg struct{}

// generationModel is the Bubble Tea model behind the generation progress bar.
type generationModel struct {
	bar      progress.Model
	total    int
	accepted int
	lastFile string
	defects  []string
	finished bool
}

func newGenerationModel(total int) generationModel {
	return generationModel{
		bar:   progress.New(progress.WithDefaultGradient()),
		total: total,
	}
}

func (gm generationModel) Init() tea.Cmd {
	return nil
}

func (gm generationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		gm.bar.Width = msg.Width - 4
		return gm, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			gm.finished = true
			return gm, tea.Quit
		}

		return gm, nil

	case acceptedMsg:
		gm.accepted++
		gm.lastFile = msg.file

		return gm, nil

	case defectMsg:
		gm.defects = append(gm.defects, msg.desc)
		return gm, nil

	case finishedMsg:
		gm.finished = true
		return gm, tea.Quit
	}

	return gm, nil
}

func (gm generationModel) View() string {
	var b strings.Builder

	ratio := 0.0
	if gm.total > 0 {
		ratio = float64(gm.accepted) / float64(gm.total)
	}

	fmt.Fprintf(&b, "%s %d/%d\n", gm.bar.ViewAs(ratio), gm.accepted, gm.total)

	if gm.lastFile != "" {
		fmt.Fprintf(&b, "%s\n", fileStyle.Render(gm.lastFile))
	}

	for _, desc := range gm.defects {
		fmt.Fprintf(&b, "%s\n", defectStyle.Render("DEFECT "+desc))
	}

	return b.String()
}
