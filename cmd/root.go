package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"docchat/config"
	"docchat/docapi"
	"docchat/storage"
	"docchat/ui"
)

var (
	debugMode  bool
	serverURL  string
	documentID string
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with processed documents from the terminal",
	Long: `docchat is a terminal client for the document analysis service.
Pick a processed document and ask questions about it; the side panel shows
the AI summary, extracted insights and suggested questions.`,
	Args:          cobra.NoArgs,
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Write a debug log to <data_dir>/debug.log")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Backend base URL (overrides config and DOCCHAT_SERVER_URL)")
	rootCmd.Flags().StringVarP(&documentID, "document", "d", "", "Open the chat for this document id on start")
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("docchat %s\n", version))
	return rootCmd.Execute()
}

// environment is what every command needs once configuration is resolved.
type environment struct {
	cfg    *config.Config
	client *docapi.Client
	cache  *storage.DocumentCache
}

func setup() (*environment, error) {
	// A missing .env is normal; a broken one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	config.InitDebugLog(cfg.DataDir(), debugMode)

	client, err := docapi.NewClient(cfg.ServerURL, cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}

	env := &environment{cfg: cfg, client: client}

	// The cache only backs the offline picker; run without it if it cannot open.
	cache, err := storage.NewDocumentCache(cfg.DataDir())
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[cmd] document cache unavailable: %v", err)
		}
	} else {
		env.cache = cache
	}

	return env, nil
}

func (e *environment) Close() {
	if e.cache == nil {
		return
	}
	if err := e.cache.Close(); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[cmd] failed to close document cache: %v", err)
	}
}

// documentCache returns the cache as the picker's interface, keeping a nil
// pointer from becoming a non-nil interface.
func (e *environment) documentCache() ui.DocumentCache {
	if e.cache == nil {
		return nil
	}
	return e.cache
}

func (e *environment) cachedLookup() cachedLookup {
	if e.cache == nil {
		return nil
	}
	return e.cache
}

func runTUI(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return showStartupError("Configuration Error", err.Error())
	}
	defer env.Close()

	var initial *docapi.Document
	if id := strings.TrimSpace(documentID); id != "" {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		doc := resolveDocument(ctx, env.client, env.cachedLookup(), id)
		cancel()
		initial = &doc
	}

	boundary := ui.NewBoundary(func() tea.Model {
		return ui.NewApp(env.cfg, env.client, env.documentCache(), initial)
	})
	defer boundary.Close()

	p := tea.NewProgram(boundary, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}

func showStartupError(title, message string) error {
	p := tea.NewProgram(ui.NewErrorModal(title, message), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("%s: %s (%w)", title, message, err)
	}
	return nil
}

// documentLookup fetches one document's metadata. *docapi.Client satisfies it.
type documentLookup interface {
	GetDocument(ctx context.Context, documentID string) (*docapi.Document, error)
}

// cachedLookup reads one document from the offline cache.
// *storage.DocumentCache satisfies it.
type cachedLookup interface {
	Get(ctx context.Context, documentID string) (*docapi.Document, error)
}

// resolveDocument finds the metadata for id on the server, then in the
// cache. When neither knows it, the id alone is enough to open a chat.
func resolveDocument(ctx context.Context, lookup documentLookup, cache cachedLookup, id string) docapi.Document {
	if lookup != nil {
		doc, err := lookup.GetDocument(ctx, id)
		if err == nil && doc != nil {
			return *doc
		}
		if config.DebugLog != nil {
			config.DebugLog.Printf("[cmd] document %s not resolved on server: %v", id, err)
		}
	}

	if cache != nil {
		if doc, err := cache.Get(ctx, id); err == nil && doc != nil {
			return *doc
		}
	}

	return docapi.Document{DocumentID: id, FileName: id}
}
