package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "ambigen.dev/pkg/ambigen/internal/model"
)

var verifyParallelFlag int

// verifyCmd represents the verify command.
var verifyCmd = newVerifyCmd()

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a corpus against its manifest",
		Long: `Re-render every manifest entry and compare it with the corpus on disk.
Missing files and content drift are reported with unified diffs.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			dir := m.Path(viper.GetString(outputFlagName))

			report, err := workflow.Verify(ctx, dir, viper.GetInt(verifyParallelConfigKey))
			if err != nil {
				return err
			}

			for _, file := range report.Missing {
				cmd.Printf("MISSING %s\n", file)
			}

			for _, drift := range report.Drifted {
				ui.DisplayDrift(ctx, drift.File, drift.Diff)
			}

			if !report.Clean() {
				return fmt.Errorf("corpus does not match manifest: %d missing, %d drifted",
					len(report.Missing), len(report.Drifted))
			}

			cmd.Printf("Verified %d program(s), corpus matches manifest\n", report.Checked)

			return nil
		},
	}

	configureVerifyFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func configureVerifyFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&verifyParallelFlag, verifyParallelFlagName, "p", viper.GetInt(verifyParallelConfigKey), "number of concurrent verification workers")
	bindFlagToConfig(cmd.Flags().Lookup(verifyParallelFlagName), verifyParallelConfigKey)
}
