// Package testutils builds synthetic Bubble Tea input for component tests.
package testutils

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

// NewKeyPressMsg creates a KeyPressMsg from a key code (for special keys)
func NewKeyPressMsg(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Code: code})
}

// NewTextKeyPressMsg creates a KeyPressMsg for text input
func NewTextKeyPressMsg(text string) tea.KeyPressMsg {
	if len(text) == 0 {
		return tea.KeyPressMsg(tea.Key{})
	}
	r := []rune(text)[0]
	return tea.KeyPressMsg(tea.Key{
		Code: r,
		Text: text,
	})
}

// NewCtrlKeyPressMsg creates ctrl+<char>.
func NewCtrlKeyPressMsg(char rune) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{
		Code: char,
		Mod:  tea.ModCtrl,
	})
}

// NewPasteMsg creates a bracketed paste.
func NewPasteMsg(content string) tea.PasteMsg {
	return tea.PasteMsg{Content: content}
}

// TypeText feeds text one rune at a time through update.
func TypeText(text string, update func(tea.KeyPressMsg)) {
	for _, r := range text {
		update(NewTextKeyPressMsg(string(r)))
	}
}

// Plain strips ANSI sequences and trailing spaces from every line of a view.
func Plain(view string) string {
	lines := strings.Split(ansi.Strip(view), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}

var (
	TestKeyUp        = NewKeyPressMsg(tea.KeyUp)
	TestKeyDown      = NewKeyPressMsg(tea.KeyDown)
	TestKeyEnter     = NewKeyPressMsg(tea.KeyEnter)
	TestKeyTab       = NewKeyPressMsg(tea.KeyTab)
	TestKeyEsc       = NewKeyPressMsg(tea.KeyEscape)
	TestKeyBackspace = NewKeyPressMsg(tea.KeyBackspace)
	TestKeyPgUp      = NewKeyPressMsg(tea.KeyPgUp)
	TestKeyPgDown    = NewKeyPressMsg(tea.KeyPgDown)
)

var (
	TestKeyCtrlC = NewCtrlKeyPressMsg('c')
	TestKeyCtrlG = NewCtrlKeyPressMsg('g')
	TestKeyCtrlL = NewCtrlKeyPressMsg('l')
	TestKeyCtrlO = NewCtrlKeyPressMsg('o')
	TestKeyCtrlR = NewCtrlKeyPressMsg('r')
	TestKeyCtrlS = NewCtrlKeyPressMsg('s')
	TestKeyCtrlT = NewCtrlKeyPressMsg('t')
	TestKeyCtrlY = NewCtrlKeyPressMsg('y')
)
