/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sempr/cph-go/internal/compare"
	"github.com/sempr/cph-go/internal/executor"
	"github.com/sempr/cph-go/internal/runner"
	"github.com/sempr/cph-go/pkg/models"
	"github.com/spf13/cobra"
)

var runArgs models.RunArgs

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the solution against the saved test cases",
	Long: `run executes solution.<ext> once per TestCases/input_N.txt, in ascending N,
and compares the trimmed output with output_N.txt. A manual input given with
--input, --input-file or --prompt is run afterwards and its output printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manual, err := readManualInput(&runArgs, cmd.Flags().Changed("input"), cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return runSolution(cmd.Context(), &runArgs, manual, executor.NewShell(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// readManualInput returns nil when no manual run was requested. An empty
// --prompt answer counts as dismissing the prompt.
func readManualInput(args *models.RunArgs, inputSet bool, stdin io.Reader, prompt io.Writer) (*string, error) {
	switch {
	case inputSet:
		s := args.Input
		return &s, nil
	case args.InputFile != "":
		data, err := os.ReadFile(args.InputFile)
		if err != nil {
			return nil, fmt.Errorf("read manual input: %w", err)
		}
		s := string(data)
		return &s, nil
	case args.Prompt:
		fmt.Fprintln(prompt, "Enter input for the manual run, end with EOF:")
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read manual input: %w", err)
		}
		if len(data) == 0 {
			return nil, nil
		}
		s := string(data)
		return &s, nil
	}
	return nil, nil
}

func runSolution(ctx context.Context, args *models.RunArgs, manual *string, exec executor.Executor, stdout, stderr io.Writer) error {
	mode, err := compare.ParseMode(args.Compare)
	if err != nil {
		return err
	}

	var notify runner.Notifier = &runner.WriterNotifier{Out: stdout, Err: stderr}
	if args.JSON {
		// 只输出 JSON 报告
		notify = runner.Discard{}
	}
	r := runner.New(exec, notify, runner.Options{
		Timeout: args.Timeout,
		Compare: mode,
	})

	report, err := r.Run(ctx, runner.Request{
		Language:  args.Language,
		Workspace: args.Workspace,
		Manual:    manual,
	})
	if report == nil {
		return err
	}
	if args.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil {
			return fmt.Errorf("encode report: %w", encErr)
		}
	}
	if err != nil {
		return err
	}
	if args.Strict && !report.AllStoredCasesPassed {
		return errNotAllPassed
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runArgs.Language, "lang", "l", "", "solution language (cpp, py, java, js or a langs.toml entry)")
	runCmd.Flags().StringVarP(&runArgs.Workspace, "workspace", "w", ".", "workspace folder")
	runCmd.Flags().StringVarP(&runArgs.Input, "input", "i", "", "manual input text")
	runCmd.Flags().StringVar(&runArgs.InputFile, "input-file", "", "read manual input from a file")
	runCmd.Flags().BoolVar(&runArgs.Prompt, "prompt", false, "read manual input from stdin")
	runCmd.Flags().DurationVarP(&runArgs.Timeout, "timeout", "t", 0, "limit per command, 0 for none")
	runCmd.Flags().StringVar(&runArgs.Compare, "compare", "exact", "comparison mode: exact, lines or visible")
	runCmd.Flags().BoolVar(&runArgs.JSON, "json", false, "print the report as JSON")
	runCmd.Flags().BoolVar(&runArgs.Strict, "strict", false, "exit non-zero unless all saved cases pass")
	runCmd.MarkFlagRequired("lang")
	runCmd.MarkFlagsMutuallyExclusive("input", "input-file", "prompt")
}
