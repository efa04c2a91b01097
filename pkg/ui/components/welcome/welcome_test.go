package welcome

import (
	"strings"
	"testing"

	"docqa/pkg/ui/styles"

	"github.com/charmbracelet/x/ansi"
)

func TestLines_ContainsShortcuts(t *testing.T) {
	out := ansi.Strip(strings.Join(Lines(styles.ForName(styles.Dark), 80), "\n"))

	for _, s := range Shortcuts {
		if !strings.Contains(out, s.Key) {
			t.Errorf("Expected welcome box to contain shortcut %q", s.Key)
		}
	}
	if !strings.Contains(out, title) {
		t.Error("Expected welcome box to contain title")
	}
}

func TestLines_ContainsBorder(t *testing.T) {
	out := ansi.Strip(strings.Join(Lines(styles.ForName(styles.Light), 80), "\n"))
	if !strings.Contains(out, "╭") || !strings.Contains(out, "╰") {
		t.Error("Expected welcome box to contain border characters")
	}
}

func TestLines_FitWidth(t *testing.T) {
	for _, width := range []int{20, 40, 80} {
		for _, line := range Lines(styles.ForName(styles.Dark), width) {
			if w := ansi.StringWidth(line); w > width {
				t.Errorf("width %d: line is %d wide: %q", width, w, ansi.Strip(line))
			}
		}
	}
}

func TestLines_Narrow(t *testing.T) {
	lines := Lines(styles.ForName(styles.Dark), 8)
	if len(lines) != 1 {
		t.Fatalf("Expected a single title line when narrow, got %d", len(lines))
	}
}
