package cli

import (
	"encoding/json"
	"fmt"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/spf13/cobra"
)

var (
	searchMode string
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search [organization] [query]",
	Short: "Ask a question against an organization's documents",
	Long: `Embeds the question, ranks the organization's chunks and answers either
with a generated response or with sentences extracted from the best match.`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchMode, "mode", "m", string(entity.SearchModeGenerative), "answer mode (generative or extractive)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errNotConfigured
	}

	result, err := searchService.Run(commandContext(cmd), &entity.SearchRequest{
		OrganizationID: args[0],
		Query:          args[1],
		Mode:           entity.SearchMode(searchMode),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Content)
	fmt.Fprintf(out, "(similarity %.2f)\n", result.Similarity)
	return nil
}
