package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"arrowcheck.dev/pkg/arrowcheck/internal/domain"
	m "arrowcheck.dev/pkg/arrowcheck/internal/model"
)

var runParallelFlag int
var runTimeoutFlag string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Classify fixtures and compare with expectations",
		Long:  runLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			useCache := !viper.GetBool(noCacheFlagName)
			reportsPath := m.Path(viper.GetString(outputFlagName))

			return workflow.Run(cmd.Context(), domain.RunArgs{
				ListArgs: domain.ListArgs{
					Paths:   parsePaths(args),
					Exclude: viper.GetStringSlice(excludeConfigKey),
				},
				Reports:  reportsPath,
				UseCache: useCache,
				Threads:  viper.GetInt(runParallelConfigKey),
				Timeout:  fixtureTimeout(),
			})
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of fixtures evaluated in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().StringVar(&runTimeoutFlag, timeoutFlagName, viper.GetString(runTimeoutConfigKey), "evaluation timeout per fixture (e.g. 5s, 500ms)")
	bindFlagToConfig(cmd.Flags().Lookup(timeoutFlagName), runTimeoutConfigKey)
}
