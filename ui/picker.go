package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sahilm/fuzzy"

	"docchat/config"
	"docchat/docapi"
)

// DocumentSource lists processed documents. *docapi.Client satisfies it.
type DocumentSource interface {
	ListDocuments(ctx context.Context) (*docapi.DocumentList, error)
	Stats(ctx context.Context) (*docapi.Stats, error)
}

// DocumentCache is the offline copy of the document list.
// *storage.DocumentCache satisfies it.
type DocumentCache interface {
	Replace(ctx context.Context, docs []docapi.Document, fetchedAt time.Time) error
	List(ctx context.Context) ([]docapi.Document, error)
	FetchedAt(ctx context.Context) (time.Time, error)
}

// Picker is the document list the chat is opened from. When the backend is
// unreachable it shows the cached list instead.
type Picker struct {
	source DocumentSource
	cache  DocumentCache
	kb     *config.KeyBindingsConfig

	documents []docapi.Document
	filtered  []docapi.Document
	selected  int

	filterMode  bool
	filterInput textinput.Model

	spinner   spinner.Model
	loading   bool
	fromCache bool
	fetchedAt time.Time
	loadErr   error
	notice    string
	stats     *docapi.Stats

	width  int
	height int
}

func NewPicker(source DocumentSource, cache DocumentCache, kb *config.KeyBindingsConfig) *Picker {
	if kb == nil {
		kb = config.DefaultKeybindings()
	}

	filterInput := textinput.New()
	filterInput.Prompt = "Filter: "
	filterInput.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Picker{
		source:      source,
		cache:       cache,
		kb:          kb,
		filterInput: filterInput,
		spinner:     sp,
	}
}

func (p *Picker) Init() tea.Cmd {
	return p.refresh()
}

func (p *Picker) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Filtering reports whether the filter input has focus, so global
// single-letter keys must not be interpreted.
func (p *Picker) Filtering() bool {
	return p.filterMode
}

// SetNotice shows a one-off error line above the list until the next refresh.
func (p *Picker) SetNotice(notice string) {
	p.notice = notice
}

// Selected returns the highlighted document, if any.
func (p *Picker) Selected() (docapi.Document, bool) {
	if p.selected < 0 || p.selected >= len(p.filtered) {
		return docapi.Document{}, false
	}
	return p.filtered[p.selected], true
}

func (p *Picker) refresh() tea.Cmd {
	p.loading = true
	p.notice = ""
	return tea.Batch(p.fetchDocuments(), p.fetchStats(), p.spinner.Tick)
}

func (p *Picker) fetchDocuments() tea.Cmd {
	source, cache := p.source, p.cache
	return func() tea.Msg {
		ctx := context.Background()

		list, err := source.ListDocuments(ctx)
		if err == nil {
			now := time.Now()
			if cache != nil {
				if cacheErr := cache.Replace(ctx, list.Documents, now); cacheErr != nil && config.DebugLog != nil {
					config.DebugLog.Printf("[Picker] failed to update document cache: %v", cacheErr)
				}
			}
			return documentsLoadedMsg{Documents: list.Documents, FetchedAt: now}
		}

		if config.DebugLog != nil {
			config.DebugLog.Printf("[Picker] listing documents failed: %v", err)
		}
		if cache == nil {
			return documentsLoadedMsg{Err: err}
		}

		docs, cacheErr := cache.List(ctx)
		if cacheErr != nil || len(docs) == 0 {
			return documentsLoadedMsg{Err: err}
		}
		fetchedAt, _ := cache.FetchedAt(ctx)
		return documentsLoadedMsg{Documents: docs, FromCache: true, FetchedAt: fetchedAt, Err: err}
	}
}

func (p *Picker) fetchStats() tea.Cmd {
	source := p.source
	return func() tea.Msg {
		stats, err := source.Stats(context.Background())
		return statsLoadedMsg{Stats: stats, Err: err}
	}
}

func (p *Picker) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !p.loading {
			return nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd

	case documentsLoadedMsg:
		p.loading = false
		p.loadErr = msg.Err
		p.fromCache = msg.FromCache
		p.fetchedAt = msg.FetchedAt
		if msg.Documents != nil || msg.Err == nil {
			p.documents = msg.Documents
		}
		p.applyFilter()
		return nil

	case statsLoadedMsg:
		if msg.Err == nil {
			p.stats = msg.Stats
		} else if config.DebugLog != nil {
			config.DebugLog.Printf("[Picker] stats failed: %v", msg.Err)
		}
		return nil

	case tea.KeyMsg:
		if p.filterMode {
			return p.handleFilterKey(msg)
		}
		return p.handleKey(msg)
	}

	if p.filterMode {
		var cmd tea.Cmd
		p.filterInput, cmd = p.filterInput.Update(msg)
		return cmd
	}
	return nil
}

func (p *Picker) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		p.filterMode = false
		p.filterInput.Blur()
		p.filterInput.SetValue("")
		p.applyFilter()
		return nil
	case "enter":
		p.filterMode = false
		p.filterInput.Blur()
		return p.open()
	case "up":
		p.move(-1)
		return nil
	case "down":
		p.move(1)
		return nil
	}

	var cmd tea.Cmd
	p.filterInput, cmd = p.filterInput.Update(msg)
	p.applyFilter()
	return cmd
}

func (p *Picker) handleKey(msg tea.KeyMsg) tea.Cmd {
	kb := p.kb
	pressed := msg.String()

	switch {
	case kb.Matches("picker_down", pressed), pressed == "down":
		p.move(1)
	case kb.Matches("picker_up", pressed), pressed == "up":
		p.move(-1)
	case kb.Matches("picker_filter", pressed):
		p.filterMode = true
		p.filterInput.SetValue("")
		p.filterInput.Focus()
		return textinput.Blink
	case kb.Matches("picker_refresh", pressed):
		return p.refresh()
	case kb.Matches("picker_open", pressed):
		return p.open()
	}
	return nil
}

func (p *Picker) open() tea.Cmd {
	doc, ok := p.Selected()
	if !ok {
		return nil
	}
	return func() tea.Msg { return openChatMsg{Document: doc} }
}

func (p *Picker) move(delta int) {
	if len(p.filtered) == 0 {
		p.selected = 0
		return
	}
	p.selected += delta
	if p.selected < 0 {
		p.selected = 0
	}
	if p.selected >= len(p.filtered) {
		p.selected = len(p.filtered) - 1
	}
}

func (p *Picker) applyFilter() {
	filterValue := strings.TrimSpace(p.filterInput.Value())
	if filterValue == "" {
		p.filtered = p.documents
	} else {
		targets := make([]string, len(p.documents))
		for i, doc := range p.documents {
			targets[i] = doc.FileName + " " + doc.Category()
		}

		matches := fuzzy.Find(filterValue, targets)
		p.filtered = make([]docapi.Document, len(matches))
		for i, match := range matches {
			p.filtered[i] = p.documents[match.Index]
		}
	}

	if p.selected >= len(p.filtered) {
		p.selected = len(p.filtered) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
}

func (p *Picker) View() string {
	var lines []string

	title := TitleStyle.Render("Documents")
	if p.loading {
		title += " " + p.spinner.View()
	}
	lines = append(lines, title)
	lines = append(lines, p.renderStatsLine())
	lines = append(lines, BorderStyle.Render(strings.Repeat("─", max(p.width, 1))))

	switch {
	case p.fromCache:
		lines = append(lines, SelectedStyle.Render(fmt.Sprintf("Server unreachable. Showing cached list from %s.", humanize.Time(p.fetchedAt))))
	case p.loadErr != nil:
		lines = append(lines, ErrorStyle.Render("Could not load documents: "+p.loadErr.Error()))
	}

	if p.notice != "" {
		lines = append(lines, ErrorStyle.Render(p.notice))
	}

	if p.filterMode || p.filterInput.Value() != "" {
		lines = append(lines, p.filterInput.View())
	}

	listHeight := p.height - len(lines) - 2
	if listHeight < 1 {
		listHeight = 1
	}
	lines = append(lines, p.renderList(listHeight)...)

	content := strings.Join(lines, "\n")
	footer := StatusStyle.Render(FormatFooter(
		"j/k", "Navigate",
		p.kb.DisplayActionKey("picker_open"), "Chat",
		p.kb.DisplayActionKey("picker_filter"), "Filter",
		p.kb.DisplayActionKey("picker_refresh"), "Refresh",
		"q", "Quit",
	))

	gap := p.height - lipgloss.Height(content) - 1
	if gap < 0 {
		gap = 0
	}
	return content + strings.Repeat("\n", gap+1) + footer
}

func (p *Picker) renderStatsLine() string {
	if p.stats == nil {
		return DimStyle.Render(fmt.Sprintf("%d documents", len(p.documents)))
	}
	return DimStyle.Render(fmt.Sprintf("%d documents · %d categories · avg processing %.1fs",
		p.stats.TotalDocuments, len(p.stats.Categories), p.stats.AverageProcessingTime))
}

func (p *Picker) renderList(height int) []string {
	if len(p.filtered) == 0 {
		if p.loading {
			return []string{DimStyle.Render("Loading documents...")}
		}
		if p.filterInput.Value() != "" {
			return []string{DimStyle.Render("No documents match the filter.")}
		}
		return []string{DimStyle.Render("No processed documents yet.")}
	}

	categoryWidth := 14
	sizeWidth := 10
	nameWidth := p.width - categoryWidth - sizeWidth - 6
	if nameWidth < 10 {
		nameWidth = 10
	}

	start := 0
	if p.selected >= height {
		start = p.selected - height + 1
	}
	end := start + height
	if end > len(p.filtered) {
		end = len(p.filtered)
	}

	var rows []string
	for i := start; i < end; i++ {
		doc := p.filtered[i]
		size := ""
		if doc.FileSize > 0 {
			size = humanize.Bytes(uint64(doc.FileSize))
		}

		row := fmt.Sprintf("%s  %s  %s",
			padRight(truncate(doc.FileName, nameWidth), nameWidth),
			padRight(truncate(doc.Category(), categoryWidth), categoryWidth),
			size,
		)
		if i == p.selected {
			rows = append(rows, SelectedStyle.Render("> "+row))
		} else {
			rows = append(rows, "  "+row)
		}
	}
	return rows
}
