package patterns

import (
	"fmt"

	m "ambigen.dev/pkg/ambigen/internal/model"
)

// renderFunc turns a fully resolved variant spec into the program's files and
// its expected key-type resolution.
type renderFunc func(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation)

var formsByPattern = map[m.PatternID]map[string]renderFunc{
	m.PatternLiteralTrap:    literalTrapForms,
	m.PatternFlowGap:        flowGapForms,
	m.PatternMethodClash:    methodClashForms,
	m.PatternModuleBoundary: moduleBoundaryForms,
}

// Render dispatches a variant spec to its form renderer.
func Render(spec m.VariantSpec) ([]m.ProgramFile, m.Expectation, error) {
	forms, ok := formsByPattern[spec.Pattern]
	if !ok {
		return nil, "", fmt.Errorf("unknown pattern %q", spec.Pattern)
	}

	render, ok := forms[spec.Form]
	if !ok {
		return nil, "", fmt.Errorf("pattern %q has no form %q", spec.Pattern, spec.Form)
	}

	files, expect := render(spec)

	return files, expect, nil
}

// Forms lists the renderable form names of a pattern, for catalog display.
func Forms(id m.PatternID) []string {
	forms := formsByPattern[id]

	names := make([]string, 0, len(forms))
	for name := range forms {
		names = append(names, name)
	}

	return names
}
