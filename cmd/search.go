package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"docchat/docapi"
)

var searchK int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Semantic search across processed documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchK, "k", "k", 5, "Number of results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.Close()

	return searchDocuments(cmd.Context(), cmd.OutOrStdout(), env.client, strings.Join(args, " "), searchK)
}

// searcher runs a semantic search. *docapi.Client satisfies it.
type searcher interface {
	Search(ctx context.Context, query string, k int) (*docapi.SearchResponse, error)
}

func searchDocuments(ctx context.Context, w io.Writer, s searcher, query string, k int) error {
	if k < 1 {
		return fmt.Errorf("--k must be at least 1")
	}

	resp, err := s.Search(ctx, query, k)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(resp.Results) == 0 {
		fmt.Fprintf(w, "No documents match %q.\n", query)
		return nil
	}

	for i, result := range resp.Results {
		rank := result.Rank
		if rank == 0 {
			rank = i + 1
		}
		category := "unknown"
		if result.Classification != nil && result.Classification.Category != "" {
			category = result.Classification.Category
		}
		fmt.Fprintf(w, "%d. %s  [%s]  %.0f%%  (%s)\n", rank, result.FileName, category, result.Similarity*100, result.DocumentID)
		if summary := strings.TrimSpace(result.Summary); summary != "" {
			fmt.Fprintf(w, "   %s\n", oneLine(summary, 100))
		}
	}
	return nil
}

// oneLine collapses whitespace and cuts s to limit runes.
func oneLine(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
