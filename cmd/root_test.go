package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "ambigen.dev/pkg/ambigen/internal/model"
)

func TestParsePatterns(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []m.PatternID
	}{
		{"empty", []string{}, []m.PatternID{}},
		{"single", []string{"literal-trap"}, []m.PatternID{m.PatternLiteralTrap}},
		{
			"multiple",
			[]string{"flow-gap", "method-clash"},
			[]m.PatternID{m.PatternFlowGap, m.PatternMethodClash},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePatterns(tt.args)
			require.Len(t, got, len(tt.want))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBaseRootCmd(t *testing.T) {
	cmd := baseRootCmd()
	assert.Equal(t, "ambigen", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, rootLongDescription, cmd.Long)
}

func TestRootCmd_HelpListsSubcommands(t *testing.T) {
	output, err := execRoot(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, output, "generate")
	assert.Contains(t, output, "catalog")
	assert.Contains(t, output, "verify")
	assert.Contains(t, output, "version")
	assert.Contains(t, output, "init")
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs([]string{"frobnicate"})

	err := rootCmd.Execute()
	require.Error(t, err)
}
