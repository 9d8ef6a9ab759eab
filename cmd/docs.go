package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"docchat/config"
	"docchat/docapi"
	"docchat/ui"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List processed documents and library statistics",
	Long: `Lists every processed document with its category and size, followed by
library statistics. When the server is unreachable the cached list from the
last successful fetch is printed instead.`,
	Args: cobra.NoArgs,
	RunE: runDocs,
}

func init() {
	rootCmd.AddCommand(docsCmd)
}

func runDocs(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.Close()

	return listDocuments(cmd.Context(), cmd.OutOrStdout(), env.client, env.documentCache())
}

// healthChecker is implemented by sources that can report the server version.
type healthChecker interface {
	Health(ctx context.Context) (*docapi.HealthResponse, error)
}

// listDocuments fetches the list, stats and health concurrently. Only a
// failed list is an error, and only when the cache cannot stand in.
func listDocuments(ctx context.Context, w io.Writer, source ui.DocumentSource, cache ui.DocumentCache) error {
	var (
		list   *docapi.DocumentList
		stats  *docapi.Stats
		health *docapi.HealthResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = source.ListDocuments(gctx)
		if err != nil {
			return fmt.Errorf("failed to list documents: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if stats, err = source.Stats(gctx); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[cmd] stats failed: %v", err)
		}
		return nil
	})
	if checker, ok := source.(healthChecker); ok {
		g.Go(func() error {
			var err error
			if health, err = checker.Health(gctx); err != nil && config.DebugLog != nil {
				config.DebugLog.Printf("[cmd] health check failed: %v", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if cache == nil {
			return err
		}
		docs, cacheErr := cache.List(ctx)
		if cacheErr != nil || len(docs) == 0 {
			return err
		}
		fetchedAt, _ := cache.FetchedAt(ctx)
		if config.DebugLog != nil {
			config.DebugLog.Printf("[cmd] falling back to cached documents: %v", err)
		}
		fmt.Fprintf(w, "Server unreachable. Cached list from %s:\n\n", humanize.Time(fetchedAt))
		writeDocumentTable(w, docs)
		return nil
	}

	if cache != nil {
		if err := cache.Replace(ctx, list.Documents, time.Now()); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[cmd] failed to update document cache: %v", err)
		}
	}

	if health != nil {
		fmt.Fprintf(w, "%s %s (%s)\n\n", health.App, health.Version, health.Status)
	}
	writeDocumentTable(w, list.Documents)
	if stats != nil {
		fmt.Fprintln(w)
		writeStats(w, stats)
	}
	return nil
}

func writeDocumentTable(w io.Writer, docs []docapi.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No processed documents yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tSIZE")
	for _, doc := range docs {
		size := "-"
		if doc.FileSize > 0 {
			size = humanize.Bytes(uint64(doc.FileSize))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", doc.DocumentID, doc.FileName, doc.Category(), size)
	}
	tw.Flush()
}

func writeStats(w io.Writer, stats *docapi.Stats) {
	fmt.Fprintf(w, "%s documents, %s uploaded files, avg processing %.1fs\n",
		humanize.Comma(int64(stats.TotalDocuments)),
		humanize.Comma(int64(stats.UploadedFiles)),
		stats.AverageProcessingTime)

	categories := make([]string, 0, len(stats.Categories))
	for name := range stats.Categories {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	parts := make([]string, 0, len(categories))
	for _, name := range categories {
		parts = append(parts, fmt.Sprintf("%s %d", name, stats.Categories[name]))
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "Categories: %s\n", strings.Join(parts, ", "))
	}
}
