package statusbar

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docqa/pkg/ui/styles"

	"github.com/charmbracelet/x/ansi"
)

const (
	appLabel   = "[docqa]"
	noDocument = "no document"
)

// StatusBarView renders the bottom line: the document or a notice on the
// left, the model and theme on the right.
type StatusBarView struct {
	styles   styles.Styles
	document string
	message  string
	model    string
	width    int
}

// NewStatusBarView creates a new status bar view
func NewStatusBarView(st styles.Styles) *StatusBarView {
	return &StatusBarView{
		styles: st,
		width:  80,
	}
}

// SetStyles switches the theme.
func (s *StatusBarView) SetStyles(st styles.Styles) {
	s.styles = st
}

// SetDocument sets the document label. Paths under the home directory are shortened with ~.
func (s *StatusBarView) SetDocument(doc string) {
	s.document = homeRelative(strings.TrimSpace(doc))
}

// SetMessage sets a notice that replaces the document label. An empty message clears it.
func (s *StatusBarView) SetMessage(msg string) {
	s.message = strings.TrimSpace(msg)
}

// Message returns the current notice.
func (s *StatusBarView) Message() string {
	return s.message
}

// SetModel updates the active model displayed.
func (s *StatusBarView) SetModel(model string) {
	s.model = strings.TrimSpace(model)
}

// SetWidth updates the width for rendering
func (s *StatusBarView) SetWidth(width int) {
	s.width = width
}

// Render returns the styled status bar string
func (s *StatusBarView) Render() string {
	left := s.message
	if left == "" {
		left = s.document
	}
	if left == "" {
		left = noDocument
	}

	modelLabel := s.model
	if modelLabel == "" {
		modelLabel = "unknown"
	}
	right := fmt.Sprintf("[llm]: %s | %s", modelLabel, s.styles.Name)

	// padding of the bar takes two columns
	inner := max(s.width-2, 10)
	prefix := appLabel + " "
	available := inner - ansi.StringWidth(prefix) - ansi.StringWidth(right) - 1
	if available < 1 {
		right = ansi.Truncate(right, max(inner-ansi.StringWidth(prefix)-2, 0), "...")
		available = max(inner-ansi.StringWidth(prefix)-ansi.StringWidth(right)-1, 1)
	}
	if ansi.StringWidth(left) > available {
		left = ansi.Truncate(left, available, "...")
	}

	gap := inner - ansi.StringWidth(prefix) - ansi.StringWidth(left) - ansi.StringWidth(right)
	content := prefix + left + strings.Repeat(" ", max(gap, 1)) + right
	if ansi.StringWidth(content) > inner {
		content = ansi.Truncate(content, inner, "")
	}

	return s.styles.StatusBar.Width(max(s.width, 1)).Render(content)
}

func homeRelative(path string) string {
	if path == "" || !filepath.IsAbs(path) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if rel, err := filepath.Rel(home, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Join("~", rel)
	}
	return path
}
