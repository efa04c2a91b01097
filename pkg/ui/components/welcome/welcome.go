// Package welcome renders the shortcut box shown before any document is processed.
package welcome

import (
	"fmt"
	"strings"

	"docqa/pkg/ui/components/utils"
	"docqa/pkg/ui/styles"
	"docqa/pkg/version"

	"github.com/mattn/go-runewidth"
)

const title = "Welcome to docqa"

// Shortcut is one key binding listed in the box.
type Shortcut struct {
	Key  string
	Desc string
}

// Shortcuts lists the global key bindings.
var Shortcuts = []Shortcut{
	{"ctrl+o", "Open a .txt, .md or .pdf file"},
	{"ctrl+s", "Process the document"},
	{"tab", "Switch between document and chat"},
	{"enter", "Ask the question"},
	{"ctrl+y", "Copy the last answer"},
	{"ctrl+t", "Toggle dark/light theme"},
	{"ctrl+c", "Quit"},
}

// Lines renders the welcome box no wider than width.
func Lines(st styles.Styles, width int) []string {
	boxWidth := min(width-2, 53)
	if boxWidth < 10 {
		return []string{st.Title.Render(utils.TruncateToWidth(title, width))}
	}

	makeLine := func(content string, visualWidth int) string {
		pad := max(boxWidth-visualWidth, 0)
		return st.TextMuted.Render("│") + content + strings.Repeat(" ", pad) + st.TextMuted.Render("│")
	}
	centered := func(text string) string {
		text = utils.TruncateToWidth(text, boxWidth-2)
		textWidth := runewidth.StringWidth(text)
		leftPad := (boxWidth - textWidth) / 2
		return makeLine(strings.Repeat(" ", leftPad)+st.Title.Render(text), leftPad+textWidth)
	}

	lines := []string{
		st.TextMuted.Render("╭" + strings.Repeat("─", boxWidth) + "╮"),
		centered(title),
		makeLine("", 0),
	}

	for _, s := range Shortcuts {
		keyFormatted := fmt.Sprintf("  %-8s", s.Key)
		desc := utils.TruncateToWidth(s.Desc, max(boxWidth-runewidth.StringWidth(keyFormatted), 0))
		line := st.TextBold.Render(keyFormatted) + st.Text.Render(desc)
		lines = append(lines, makeLine(line, runewidth.StringWidth(keyFormatted)+runewidth.StringWidth(desc)))
	}

	lines = append(lines, makeLine("", 0))
	versionText := utils.TruncateToWidth(version.Summary(), boxWidth-4)
	versionPad := (boxWidth - runewidth.StringWidth(versionText)) / 2
	lines = append(lines,
		makeLine(strings.Repeat(" ", versionPad)+st.TextMuted.Render(versionText), versionPad+runewidth.StringWidth(versionText)),
		st.TextMuted.Render("╰"+strings.Repeat("─", boxWidth)+"╯"),
	)
	return lines
}
