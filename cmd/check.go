package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"arrowcheck.dev/pkg/arrowcheck/internal/domain"
)

const stdinArg = "-"

const checkLongDescription = `Classify JavaScript expressions given on the command line.

Each argument is evaluated in a fresh JavaScript runtime and the resulting
value is classified. With --raw the arguments are treated as function source
text and classified without evaluation. An argument of "-" reads one input
per line from standard input.`

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <expression|-> [expression...]",
		Short: "Classify ad-hoc JavaScript expressions",
		Long:  checkLongDescription,
		Example: `  arrowcheck check '(a, b) => a + b'
  arrowcheck check --raw 'async x => x'
  cat sources.txt | arrowcheck check --raw -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := collectSources(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			raw, err := cmd.Flags().GetBool("raw")
			if err != nil {
				return err
			}

			return workflow.Check(cmd.Context(), domain.CheckArgs{
				Sources: sources,
				Raw:     raw,
				Timeout: fixtureTimeout(),
			})
		},
	}

	cmd.Flags().Bool("raw", false, "classify arguments as function source text without evaluating them")

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// collectSources expands "-" into the non-blank lines of in.
func collectSources(in io.Reader, args []string) ([]string, error) {
	sources := make([]string, 0, len(args))
	readStdin := false

	for _, arg := range args {
		if arg != stdinArg {
			sources = append(sources, arg)
			continue
		}

		if readStdin {
			continue
		}

		readStdin = true

		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := scanner.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}

			sources = append(sources, line)
		}

		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	}

	return sources, nil
}
