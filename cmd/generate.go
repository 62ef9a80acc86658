package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ambigen.dev/pkg/ambigen/internal/domain"
	m "ambigen.dev/pkg/ambigen/internal/model"
)

var generateCountFlag int
var generatePatternFlags []string
var generateResumeFlag bool

const generateLongDescription = `Generate a corpus of Python programs with ambiguous dict key types.

The requested count is split evenly across the selected patterns. When a
pattern's variant space is smaller than its share, every distinct variant is
emitted once and the shortfall is reported; duplicates are never written.`

// generateCmd represents the generate command.
var generateCmd = newGenerateCmd()

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the ambiguity corpus",
		Long:  generateLongDescription,
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := workflow.Generate(context.Background(), domain.GenerateRequest{
				Output:   m.Path(viper.GetString(outputFlagName)),
				Count:    viper.GetInt(countConfigKey),
				Seed:     viper.GetUint64(seedConfigKey),
				Patterns: parsePatterns(viper.GetStringSlice(patternsConfigKey)),
				Resume:   viper.GetBool(resumeConfigKey),
			})

			return err
		},
	}

	configureGenerateFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func configureGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&generateCountFlag, countFlagName, "n", viper.GetInt(countConfigKey), "total number of programs to generate")
	bindFlagToConfig(cmd.Flags().Lookup(countFlagName), countConfigKey)

	cmd.Flags().StringArrayVarP(&generatePatternFlags, patternFlagName, "p", viper.GetStringSlice(patternsConfigKey), "restrict generation to a pattern (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(patternFlagName), patternsConfigKey)

	cmd.Flags().BoolVar(&generateResumeFlag, resumeFlagName, viper.GetBool(resumeConfigKey), "extend an existing corpus, skipping programs it already contains")
	bindFlagToConfig(cmd.Flags().Lookup(resumeFlagName), resumeConfigKey)
}
