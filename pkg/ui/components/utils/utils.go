// Package utils holds the width-aware string helpers shared by the panes.
package utils

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// TruncateToWidth truncates text to width cells, ending in "..." when cut.
// Widths too small for the ellipsis get a hard cut instead.
func TruncateToWidth(text string, width int) string {
	switch {
	case width <= 0:
		return ""
	case width <= 3:
		return runewidth.Truncate(text, width, "")
	default:
		return runewidth.Truncate(text, width, "...")
	}
}

// PadPlain pads unstyled text with spaces to width.
func PadPlain(text string, width int) string {
	return runewidth.FillRight(text, width)
}

// PadStyled pads text that may carry ANSI styling.
func PadStyled(text string, width int) string {
	if width <= 0 {
		return text
	}
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}
	return text + strings.Repeat(" ", width-textWidth)
}

// SplitByWidth hard-breaks text into chunks of at most width cells.
func SplitByWidth(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	if text == "" {
		return []string{""}
	}

	var parts []string
	var sb strings.Builder
	currentWidth := 0

	for _, r := range text {
		runeWidth := runewidth.RuneWidth(r)
		if currentWidth+runeWidth > width && currentWidth > 0 {
			parts = append(parts, sb.String())
			sb.Reset()
			currentWidth = 0
		}
		sb.WriteRune(r)
		currentWidth += runeWidth
	}

	if sb.Len() > 0 {
		parts = append(parts, sb.String())
	}
	if len(parts) == 0 {
		return []string{""}
	}
	return parts
}

// WrapWords word-wraps one line of plain text to width. Words longer than
// width are split.
func WrapWords(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 || width <= 0 {
		return []string{""}
	}

	var lines []string
	var sb strings.Builder
	lineWidth := 0
	for _, word := range words {
		for _, part := range SplitByWidth(word, width) {
			partWidth := runewidth.StringWidth(part)
			if lineWidth > 0 && lineWidth+1+partWidth > width {
				lines = append(lines, sb.String())
				sb.Reset()
				lineWidth = 0
			}
			if lineWidth > 0 {
				sb.WriteByte(' ')
				lineWidth++
			}
			sb.WriteString(part)
			lineWidth += partWidth
		}
	}
	if sb.Len() > 0 {
		lines = append(lines, sb.String())
	}
	return lines
}

// Sanitize drops control characters other than newline and tab.
func Sanitize(content string) string {
	if content == "" {
		return content
	}
	var sb strings.Builder
	sb.Grow(len(content))
	for _, r := range content {
		switch r {
		case '\n', '\t':
			sb.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// FitLines pads or cuts lines so exactly height lines of width cells remain.
// Styled lines wider than width are truncated.
func FitLines(lines []string, width, height int) []string {
	if height <= 0 {
		return nil
	}
	out := make([]string, 0, height)
	for _, line := range lines {
		if len(out) == height {
			break
		}
		if width > 0 && lipgloss.Width(line) > width {
			line = ansi.Truncate(line, width, "")
		}
		out = append(out, PadStyled(line, width))
	}
	for len(out) < height {
		out = append(out, strings.Repeat(" ", max(width, 0)))
	}
	return out
}
