package ui

import (
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"docchat/config"
)

const codeBar = "┃"

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
	ansiRegex       = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

// renderMarkdown renders an assistant answer for a transcript of the given
// width. Autolink stays off so terminals can detect URLs themselves.
func renderMarkdown(content string, width int) string {
	if width < 20 {
		width = 20
	}
	startTime := time.Now()

	content = preprocessLinks(content)

	ext := markdown.Extensions() &^ parser.Autolink
	p := parser.NewWithExtensions(ext)
	r := markdown.NewRenderer(width-4, 0)
	rendered := gomarkdown.Render(p.Parse([]byte(content)), r)

	processed := postProcessMarkdown(string(rendered), width)

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Markdown] rendered %d chars in %v", len(content), time.Since(startTime))
	}
	return strings.TrimRight(processed, "\n")
}

func postProcessMarkdown(rendered string, width int) string {
	rendered = fixInlineCode(rendered)
	rendered = colorURLs(rendered)
	return frameCodeBlocks(rendered, width)
}

// preprocessLinks strips [text](url) down to the url.
func preprocessLinks(content string) string {
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

// fixInlineCode turns the renderer's blue-background inline code into red text.
func fixInlineCode(s string) string {
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

func colorURLs(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if !strings.Contains(line, codeBar) {
			lines[i] = urlRegex.ReplaceAllString(line, "\x1b[31m$1\x1b[0m")
		}
	}
	return strings.Join(lines, "\n")
}

// frameCodeBlocks replaces the renderer's left bar on code lines with a
// horizontal frame above and below the block.
func frameCodeBlocks(s string, width int) string {
	darkGray := "\x1b[90m"
	reset := "\x1b[0m"
	lineLen := width - 4
	if lineLen < 10 {
		lineLen = 10
	}

	top := func() string {
		label := "[code]"
		leftLen := (lineLen - len(label)) / 2
		rightLen := lineLen - len(label) - leftLen
		return darkGray + strings.Repeat("━", leftLen) + reset + label + darkGray + strings.Repeat("━", rightLen) + reset
	}
	bottom := darkGray + strings.Repeat("━", lineLen) + reset

	var result []string
	inCodeBlock := false

	for _, line := range strings.Split(s, "\n") {
		if strings.Contains(line, codeBar) {
			if !inCodeBlock {
				inCodeBlock = true
				result = append(result, "", top(), "")
			}
			result = append(result, stripCodeBlockPrefix(line))
			continue
		}
		if inCodeBlock {
			result = append(result, "", bottom, "")
			inCodeBlock = false
		}
		result = append(result, line)
	}
	if inCodeBlock {
		result = append(result, "", bottom, "")
	}

	return strings.Join(result, "\n")
}

func stripCodeBlockPrefix(line string) string {
	idx := strings.Index(line, codeBar)
	if idx < 0 {
		return line
	}
	after := idx + len(codeBar)
	if after < len(line) && line[after] == ' ' {
		after++
	}
	return line[after:]
}

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
