package ui

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// wrapText wraps text to fit within a given width. Existing line breaks are
// kept.
func wrapText(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(paragraph, width)...)
	}
	return lines
}

func wrapParagraph(text string, width int) []string {
	if runewidth.StringWidth(text) <= width {
		return []string{text}
	}

	var lines []string
	var currentLine string

	for _, word := range strings.Fields(text) {
		wordWidth := runewidth.StringWidth(word)
		currentWidth := runewidth.StringWidth(currentLine)

		if wordWidth > width {
			if currentLine != "" {
				lines = append(lines, currentLine)
				currentLine = ""
			}
			for wordWidth > width {
				chunk := runewidth.Truncate(word, width, "")
				if chunk == "" {
					break
				}
				lines = append(lines, chunk)
				word = word[len(chunk):]
				wordWidth = runewidth.StringWidth(word)
			}
			currentLine = word
		} else if currentWidth+wordWidth+1 <= width {
			if currentLine != "" {
				currentLine += " "
			}
			currentLine += word
		} else {
			if currentLine != "" {
				lines = append(lines, currentLine)
			}
			currentLine = word
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}
	return lines
}

// inputRows counts the rows the input textarea needs for text at width. It
// follows the textarea's soft wrap: a word moves down together with its
// trailing spaces, and the cursor cell after the last word can open a row of
// its own.
func inputRows(text string, width int) int {
	if width < 1 {
		width = 1
	}
	total := 0
	for _, line := range strings.Split(text, "\n") {
		total += inputLineRows(line, width)
	}
	return total
}

func inputLineRows(line string, width int) int {
	rows := 1
	rowWidth := 0
	spaces := 0
	var word []rune

	for _, r := range line {
		if unicode.IsSpace(r) {
			spaces++
		} else {
			word = append(word, r)
		}

		if spaces > 0 {
			wordWidth := runewidth.StringWidth(string(word))
			if rowWidth+wordWidth+spaces > width {
				rows++
				rowWidth = 0
			}
			rowWidth += wordWidth + spaces
			word, spaces = nil, 0
			continue
		}

		wordWidth := runewidth.StringWidth(string(word))
		if wordWidth+runewidth.RuneWidth(word[len(word)-1]) > width {
			if rowWidth > 0 {
				rows++
			}
			rowWidth = wordWidth
			word = nil
		}
	}

	if rowWidth+runewidth.StringWidth(string(word))+spaces >= width {
		rows++
	}
	return rows
}

// truncate shortens s to width cells, appending "..." when cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

// padRight pads s with spaces to width cells.
func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
