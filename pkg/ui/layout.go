package ui

import (
	"charm.land/lipgloss/v2"
)

// stackedBelow is the terminal width under which the panes are stacked.
const stackedBelow = 80

// Size is the outer size of one pane.
type Size struct {
	Width  int
	Height int
}

// LayoutManager splits the terminal between the document pane, the chat
// pane and the status bar.
type LayoutManager struct {
	width  int
	height int
}

// NewLayoutManager creates a new layout manager
func NewLayoutManager() *LayoutManager {
	return &LayoutManager{
		width:  80,
		height: 24,
	}
}

// SetSize updates the layout dimensions
func (lm *LayoutManager) SetSize(width, height int) {
	lm.width = width
	lm.height = height
}

// Stacked reports whether the document pane sits above the chat pane.
func (lm *LayoutManager) Stacked() bool {
	return lm.width < stackedBelow
}

// ContentHeight returns the height available for the panes
// (total height minus status bar)
func (lm *LayoutManager) ContentHeight() int {
	return max(lm.height-lm.StatusBarHeight(), 2)
}

// StatusBarHeight returns the height for status bar
func (lm *LayoutManager) StatusBarHeight() int {
	return 1
}

// Panes returns the document and chat pane sizes. Side by side the document
// takes a third of the width; stacked it takes a third of the height.
func (lm *LayoutManager) Panes() (doc, chat Size) {
	width := max(lm.width, 1)
	height := lm.ContentHeight()

	if lm.Stacked() {
		docHeight := max(height/3, 1)
		return Size{Width: width, Height: docHeight},
			Size{Width: width, Height: max(height-docHeight, 1)}
	}

	docWidth := width / 3
	return Size{Width: docWidth, Height: height},
		Size{Width: width - docWidth, Height: height}
}

// RenderLayout places both panes and appends the status bar.
func (lm *LayoutManager) RenderLayout(docContent, chatContent, statusBarContent string) string {
	var panes string
	if lm.Stacked() {
		panes = lipgloss.JoinVertical(lipgloss.Left, docContent, chatContent)
	} else {
		panes = lipgloss.JoinHorizontal(lipgloss.Top, docContent, chatContent)
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		panes,
		statusBarContent,
	)
}

// GetDimensions returns current width and height
func (lm *LayoutManager) GetDimensions() (width, height int) {
	return lm.width, lm.height
}
