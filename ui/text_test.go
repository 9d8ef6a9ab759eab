package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"fits", "short line", 20, []string{"short line"}},
		{"wraps on words", "the quick brown fox", 10, []string{"the quick", "brown fox"}},
		{"keeps newlines", "a\nb", 10, []string{"a", "b"}},
		{"splits long words", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"wide runes", "日本語テキスト", 6, []string{"日本語", "テキス", "ト"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.text, tt.width))
		})
	}
}

func TestInputRows(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  int
	}{
		{"empty", "", 10, 1},
		{"hard breaks", "a\nb\nc", 10, 3},
		{"long word splits", strings.Repeat("x", 15), 10, 2},
		{"whole words wrap", "aaaaaaaaaaaa bbbbbbbbbbbb cccccccccccc", 22, 3},
		{"exact fill leaves room for the cursor", "abcde", 5, 2},
		{"short line", "hello world", 22, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inputRows(tt.text, tt.width))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "report.pdf", truncate("report.pdf", 20))
	assert.Equal(t, "quarter...", truncate("quarterly-report.pdf", 10))
	assert.Equal(t, "", truncate("anything", 0))
}

func TestFrameCodeBlocks(t *testing.T) {
	in := "intro\n" + codeBar + " x := 1\n" + codeBar + " y := 2\noutro"
	out := stripANSI(frameCodeBlocks(in, 30))

	assert.Contains(t, out, "[code]")
	assert.Contains(t, out, "x := 1")
	assert.NotContains(t, out, codeBar)
	assert.True(t, strings.HasPrefix(out, "intro"))
	assert.True(t, strings.HasSuffix(out, "outro"))
}

func TestRenderMarkdown(t *testing.T) {
	out := stripANSI(renderMarkdown("Net terms are **30 days**, see [docs](https://example.com/terms).", 60))
	assert.Contains(t, out, "30 days")
	assert.Contains(t, out, "https://example.com/terms")
	assert.NotContains(t, out, "[docs]")
}
