package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/spf13/cobra"
)

var (
	generateCount int
	runFormat     string
	runOutput     string
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Generate and run evaluation test sets",
}

var evalGenerateCmd = &cobra.Command{
	Use:   "generate [organization] [file-name]",
	Short: "Generate test questions from an ingested document",
	Long: `Asks the language model for a diverse set of questions about one ingested
document and prints them as JSON, ready for "eval run".`,
	Args: cobra.ExactArgs(2),
	RunE: runEvalGenerate,
}

var evalRunCmd = &cobra.Command{
	Use:   "run [organization] [cases.json]",
	Short: "Run test cases through search and score the answers",
	Args:  cobra.ExactArgs(2),
	RunE:  runEvalRun,
}

func init() {
	evalGenerateCmd.Flags().IntVarP(&generateCount, "count", "c", 10, "number of questions to generate")
	evalRunCmd.Flags().StringVarP(&runFormat, "format", "f", string(entity.FormatJSON), "report format (json, md, pdf, docx)")
	evalRunCmd.Flags().StringVarP(&runOutput, "output", "o", "", "write the report to this file instead of stdout")

	evalCmd.AddCommand(evalGenerateCmd, evalRunCmd)
	rootCmd.AddCommand(evalCmd)
}

func runEvalGenerate(cmd *cobra.Command, args []string) error {
	if evaluationService == nil {
		return errNotConfigured
	}

	cases, err := evaluationService.GenerateTestQueries(commandContext(cmd), &entity.GenerateQueriesRequest{
		OrganizationID: args[0],
		FileName:       args[1],
		Count:          generateCount,
	})
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}

	data, err := json.MarshalIndent(cases, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal test cases: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runEvalRun(cmd *cobra.Command, args []string) error {
	if evaluationService == nil {
		return errNotConfigured
	}

	format := entity.ResultFormat(runFormat)
	if !format.Valid() {
		return fmt.Errorf("%w: format %q", entity.ErrInvalidFormat, runFormat)
	}

	raw, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read test cases: %w", err)
	}

	var cases []entity.TestCase
	if err := json.Unmarshal(raw, &cases); err != nil {
		return fmt.Errorf("parse test cases: %w", err)
	}

	result, err := evaluationService.RunSearchTests(commandContext(cmd), &entity.RunTestsRequest{
		OrganizationID: args[0],
		TestCases:      cases,
	})
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	var data []byte
	if format == entity.FormatJSON {
		data, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
	} else {
		report, err := evaluationService.RenderReport(result, format)
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		data = report.Data
	}

	if runOutput == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(runOutput, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	cmd.Printf("Passed %d of %d (average score %.2f), report written to %s\n",
		result.PassedTests, result.TotalTests, result.AverageScore, runOutput)
	return nil
}
