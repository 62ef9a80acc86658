// Package cmd provides the root command and CLI setup for ambigen.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ambigen.dev/pkg/ambigen/internal/adapter"
	"ambigen.dev/pkg/ambigen/internal/controller"
	"ambigen.dev/pkg/ambigen/internal/domain"
	m "ambigen.dev/pkg/ambigen/internal/model"
)

var fsAdapter adapter.CorpusFSAdapter
var manifestStore adapter.ManifestStore
var composer domain.Composer
var synthesizer domain.Synthesizer
var workflow domain.Workflow
var ui controller.UI

// outputDirFlag is a root-level flag shared by commands that read/write the corpus.
var outputDirFlag string

// seedFlag fixes the generator seed for the run.
var seedFlag uint64

// verboseFlag raises the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalCorpusFSAdapter()
	manifestStore = adapter.NewManifestStore()
	composer = domain.NewComposer()
	synthesizer = domain.NewSynthesizer()
	workflow = domain.NewWorkflow(fsAdapter, manifestStore, ui, composer, synthesizer)
}

const rootLongDescription = `Ambigen synthesizes small Python programs that probe how a transpiler
infers dict key types. Each generated file exercises one ambiguity pattern
(conflicting literals, untyped flow, method clashes or cross-module
mappings) and records the expected resolution in a manifest.

Generation is fully deterministic: the same seed and count always produce
byte-identical corpora.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ambigen",
		Short: "Adversarial dict-inference corpus generator",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&outputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for the generated corpus",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().Uint64Var(&seedFlag, seedFlagName, viper.GetUint64(seedConfigKey), "deterministic generator seed")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(seedFlagName), seedConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePatterns(values []string) []m.PatternID {
	ids := make([]m.PatternID, 0, len(values))
	for _, value := range values {
		ids = append(ids, m.PatternID(value))
	}

	return ids
}
