package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"docchat/docapi"
	"docchat/model"
)

var askWithSummary bool

var askCmd = &cobra.Command{
	Use:   "ask <document-id> <question>",
	Short: "Ask one question about a document without opening the TUI",
	Long: `Runs a single chat round against a document and prints the answer.
The request goes through the same session logic as the interactive chat, so
error details are reported the same way.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVarP(&askWithSummary, "summary", "s", false, "Print the document summary before the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	doc := resolveDocument(ctx, env.client, env.cachedLookup(), args[0])
	cancel()

	question := strings.Join(args[1:], " ")
	return askQuestion(cmd.Context(), cmd.OutOrStdout(), env.client, doc, question, env.cfg.HistoryWindow, askWithSummary)
}

// askQuestion runs one round through a fresh session and prints the turn it
// produced. An error turn is returned as an error.
func askQuestion(ctx context.Context, w io.Writer, backend model.Backend, doc docapi.Document, question string, window int, withSummary bool) error {
	session, err := model.NewSession(backend, doc, window)
	if err != nil {
		return err
	}
	defer session.Close()

	if withSummary {
		summary := model.NewContextLoader(backend).LoadSummary(ctx, doc.DocumentID)
		writeSummary(w, doc, summary)
	}

	send := session.Submit(question)
	if send == nil {
		return errors.New("question is empty")
	}

	result, ok := send().(model.ChatResultMsg)
	if !ok || !session.Resolve(result) {
		return errors.New("no result for the question")
	}

	messages := session.Store.Messages()
	last := messages[len(messages)-1]
	if last.Kind == model.KindError {
		return errors.New(last.Content)
	}

	fmt.Fprintln(w, last.Content)
	return nil
}

func writeSummary(w io.Writer, doc docapi.Document, summary model.SummaryResult) {
	name := doc.FileName
	if name == "" {
		name = doc.DocumentID
	}
	fmt.Fprintf(w, "== %s ==\n", name)

	if summary.State != model.SummaryReady {
		fmt.Fprintln(w, "Summary unavailable.")
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintln(w, summary.EnhancedSummary)
	for _, insight := range summary.Insights {
		fmt.Fprintf(w, "  - %s\n", insight)
	}
	fmt.Fprintln(w)
}
