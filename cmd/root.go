// Package cmd provides the root command and CLI setup for arrowcheck.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"arrowcheck.dev/pkg/arrowcheck/internal/adapter"
	"arrowcheck.dev/pkg/arrowcheck/internal/controller"
	"arrowcheck.dev/pkg/arrowcheck/internal/domain"
	m "arrowcheck.dev/pkg/arrowcheck/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var fixtureAdapter adapter.FixtureFileAdapter
var jsAdapter adapter.JSRuntimeAdapter
var reportStore adapter.ReportStore
var loader domain.FixtureLoader
var orchestrator domain.Orchestrator
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// noCacheFlag disables reuse of reports for unchanged fixture files.
var noCacheFlag bool

// excludePatterns is a root-level flag that filters fixture files.
var excludePatterns []string

var verboseFlag bool
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	fixtureAdapter = adapter.NewLocalFixtureFileAdapter()
	jsAdapter = adapter.NewGojaRuntimeAdapter()
	reportStore = adapter.NewLocalReportStore()
	loader = domain.NewFixtureLoader(fsAdapter, fixtureAdapter)
	orchestrator = domain.NewOrchestrator(jsAdapter)
	workflow = domain.NewWorkflow(
		loader,
		reportStore,
		ui,
		orchestrator,
	)
}

const pathPatternsHelp = `Supports Go-style path patterns for fixture files (.yaml, .yml, .toml):
  - ./...              recursively scan current directory
  - ./fixtures/...     recursively scan fixtures directory
  - ./a ./b/arrows.yaml  scan a directory and a single file`

const rootLongDescription = `Arrowcheck classifies JavaScript functions as arrow or non-arrow functions
by inspecting the text produced by the intrinsic Function.prototype.toString,
and verifies that classification against fixture files.

` + pathPatternsHelp

const runLongDescription = `Evaluate every fixture in the given paths (default: current directory)
and compare the verdict with the expected one.

` + pathPatternsHelp

const listLongDescription = `List fixture files and the number of fixtures they declare.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "arrowcheck",
		Short:        "JavaScript arrow function classifier",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for classification reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVar(&noCacheFlag, noCacheFlagName, viper.GetBool(noCacheFlagName), "disable cached incremental runs (re-check everything)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(noCacheFlagName), noCacheFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude fixture files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "log at debug level")
	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file path (default from log.filename)")
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
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
