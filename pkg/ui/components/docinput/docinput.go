// Package docinput renders the document pane: the file loader, the document
// editor and the process action.
package docinput

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"docqa/pkg/ingest"
	"docqa/pkg/ui/components/utils"
	"docqa/pkg/ui/styles"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

const (
	Title = "Document Context"

	EditorPlaceholder = "...or paste text here. File content will appear here after upload."
	PathPlaceholder   = "path/to/document.pdf"
	ReadErrorPrefix   = "Could not read the content of the file. "
	ChangedNotice     = "File changed on disk. ctrl+r reloads it."
	RemovedNotice     = "File was removed from disk."

	hintLine       = "ctrl+o open a file or paste a path | .txt .md .pdf"
	processLabel   = "[ ctrl+s Process Document ]"
	processingText = "Processing..."

	borderSize = 1
	paddingH   = 1

	// EditorMaxLines is the most lines the editor holds. Longer text is
	// kept in full but shown read-only.
	EditorMaxLines = 10000
)

// Notices shown while the editor cannot hold the document unchanged.
var (
	TooLongNotice = fmt.Sprintf("Read-only: over %d lines, only the start is shown. ctrl+s processes all of it, ctrl+l clears.", EditorMaxLines)
	ConvertNotice = "Read-only: editing would rewrite tabs or control characters. ctrl+g edits a converted copy, ctrl+l clears."
)

// OpenMsg asks the program to load a file into the pane.
type OpenMsg struct {
	Path string
}

// ProcessMsg carries the text the user committed as the document context.
type ProcessMsg struct {
	Text string
}

// Pane holds the document text and the state of the most recent file load.
type Pane struct {
	styles styles.Styles
	width  int
	height int

	text       string
	fileName   string
	filePath   string
	fileErr    string
	loadFailed bool
	processing bool
	notice     string
	// lockNotice is set while the editor shows a read-only copy of text.
	lockNotice string

	focused   bool
	prompting bool
	editor    textarea.Model
	pathInput textinput.Model
}

// New creates an empty document pane.
func New(st styles.Styles) *Pane {
	editor := textarea.New()
	editor.ShowLineNumbers = false
	editor.MaxHeight = 0
	editor.Placeholder = EditorPlaceholder

	pathInput := textinput.New()
	pathInput.Prompt = "Open: "
	pathInput.Placeholder = PathPlaceholder

	return &Pane{
		styles:    st,
		editor:    editor,
		pathInput: pathInput,
	}
}

// SetStyles switches the theme.
func (p *Pane) SetStyles(st styles.Styles) {
	p.styles = st
}

// SetSize sets the outer size of the pane including its border.
func (p *Pane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.editor.SetWidth(p.contentWidth())
	p.pathInput.SetWidth(max(p.contentWidth()-len(p.pathInput.Prompt)-1, 1))
	p.editor.SetHeight(p.editorHeight())
}

// Focus gives the editor keyboard focus.
func (p *Pane) Focus() tea.Cmd {
	p.focused = true
	if p.prompting {
		return p.pathInput.Focus()
	}
	return p.editor.Focus()
}

// Blur removes keyboard focus.
func (p *Pane) Blur() {
	p.focused = false
	p.editor.Blur()
	p.pathInput.Blur()
}

// Focused reports whether the pane has keyboard focus.
func (p *Pane) Focused() bool {
	return p.focused
}

// Text returns the document text as loaded or edited.
func (p *Pane) Text() string {
	return p.text
}

// FileName returns the name of the most recently loaded file.
func (p *Pane) FileName() string {
	return p.fileName
}

// FilePath returns the path of the last successfully loaded file.
func (p *Pane) FilePath() string {
	return p.filePath
}

// FileErr returns the file error shown under the badge.
func (p *Pane) FileErr() string {
	return p.fileErr
}

// Processing reports whether a file is being read.
func (p *Pane) Processing() bool {
	return p.processing
}

// Prompting reports whether the path prompt is open.
func (p *Pane) Prompting() bool {
	return p.prompting
}

// Notice returns the change notice for the loaded file.
func (p *Pane) Notice() string {
	return p.notice
}

// Locked reports whether the document is read-only in the editor.
func (p *Pane) Locked() bool {
	return p.lockNotice != ""
}

// LockNotice explains why the document is read-only, or returns "".
func (p *Pane) LockNotice() string {
	return p.lockNotice
}

// Badge describes the file state: processing, loaded or failed.
func (p *Pane) Badge() string {
	switch {
	case p.fileName == "":
		return ""
	case p.processing:
		return "Processing " + p.fileName + "..."
	case p.loadFailed:
		return "Error reading " + p.fileName
	default:
		return p.fileName
	}
}

// CanProcess reports whether the text can be committed: it is not blank,
// nothing is processing and there is no file error.
func (p *Pane) CanProcess() bool {
	return strings.TrimSpace(p.text) != "" && !p.processing && p.fileErr == ""
}

// Open validates path and moves the pane into the processing state. It
// returns false when the file is rejected without being read.
func (p *Pane) Open(path string) bool {
	if p.processing {
		return false
	}
	name := filepath.Base(path)
	p.notice = ""
	p.loadFailed = false
	p.filePath = ""
	p.fileName = name
	p.setText("")

	if !ingest.IsSupported(name) {
		p.fileErr = ingest.UnsupportedTypeMessage
		return false
	}

	p.fileErr = ""
	p.processing = true
	return true
}

// FinishLoad records the outcome of a file read started by Open.
func (p *Pane) FinishLoad(doc ingest.Document, err error) {
	p.processing = false
	if doc.Name != "" {
		p.fileName = doc.Name
	}

	if err != nil {
		if errors.Is(err, ingest.ErrUnsupportedType) {
			p.fileErr = ingest.UnsupportedTypeMessage
			p.setText("")
			return
		}
		msg := err.Error()
		if msg == "" {
			msg = "An unknown error occurred."
		}
		p.loadFailed = true
		p.fileErr = msg
		p.setText(ReadErrorPrefix + msg)
		return
	}

	p.loadFailed = false
	p.fileErr = ""
	p.filePath = doc.Path
	p.setText(doc.Text)
}

// MarkChanged shows a notice that the loaded file changed on disk.
func (p *Pane) MarkChanged(removed bool) {
	if removed {
		p.notice = RemovedNotice
		return
	}
	p.notice = ChangedNotice
}

// Update handles a key while the pane is focused.
func (p *Pane) Update(msg tea.KeyPressMsg) tea.Cmd {
	if p.prompting {
		return p.updatePrompt(msg)
	}

	switch msg.String() {
	case "ctrl+o":
		if p.processing {
			return nil
		}
		p.prompting = true
		p.fileErr = ""
		p.pathInput.Reset()
		p.editor.Blur()
		return p.pathInput.Focus()
	case "ctrl+s":
		if !p.CanProcess() {
			return nil
		}
		text := p.text
		return func() tea.Msg {
			return ProcessMsg{Text: text}
		}
	case "ctrl+r":
		if p.notice != ChangedNotice || p.filePath == "" || p.processing {
			return nil
		}
		path := p.filePath
		return func() tea.Msg {
			return OpenMsg{Path: path}
		}
	case "ctrl+l":
		if p.processing {
			return nil
		}
		p.setText("")
		p.manualEdit("")
		return nil
	case "ctrl+g":
		if p.processing || p.lockNotice != ConvertNotice {
			return nil
		}
		p.lockNotice = ""
		p.manualEdit(p.editor.Value())
		return nil
	}

	if p.processing {
		return nil
	}
	if p.Locked() {
		if !p.isNavigation(msg) {
			return nil
		}
		var cmd tea.Cmd
		p.editor, cmd = p.editor.Update(msg)
		return cmd
	}
	before := p.editor.Value()
	var cmd tea.Cmd
	p.editor, cmd = p.editor.Update(msg)
	if after := p.editor.Value(); after != before {
		p.manualEdit(after)
	}
	return cmd
}

// HandlePaste treats a pasted path to an existing file as a dropped file and
// any other paste as text.
func (p *Pane) HandlePaste(content string) tea.Cmd {
	if p.processing {
		return nil
	}
	if p.prompting {
		var cmd tea.Cmd
		p.pathInput, cmd = p.pathInput.Update(tea.PasteMsg{Content: content})
		return cmd
	}
	if path, ok := ingest.DroppedPath(content); ok {
		return func() tea.Msg {
			return OpenMsg{Path: path}
		}
	}

	content = normalizeNewlines(content)
	if !p.Locked() && fitsEditor(content) && lineCount(p.text)+lineCount(content)-1 <= EditorMaxLines {
		before := p.editor.Value()
		p.editor.InsertString(content)
		if after := p.editor.Value(); after != before {
			p.manualEdit(after)
		}
		return nil
	}

	// The editor would cut or rewrite this paste, so it is appended to the
	// document as is and the editor shows a read-only copy.
	p.manualEdit(p.text + content)
	p.showText(p.text)
	return nil
}

func (p *Pane) isNavigation(msg tea.KeyPressMsg) bool {
	km := p.editor.KeyMap
	return key.Matches(msg,
		km.CharacterForward, km.CharacterBackward,
		km.WordForward, km.WordBackward,
		km.LineNext, km.LinePrevious,
		km.LineStart, km.LineEnd,
		km.PageUp, km.PageDown,
		km.InputBegin, km.InputEnd,
	)
}

func (p *Pane) updatePrompt(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		p.closePrompt()
		return p.focusEditor()
	case "enter":
		path := expandHome(strings.TrimSpace(p.pathInput.Value()))
		p.closePrompt()
		p.focusEditor()
		if path == "" {
			return nil
		}
		if cleaned, ok := ingest.DroppedPath(path); ok {
			path = cleaned
		}
		return func() tea.Msg {
			return OpenMsg{Path: path}
		}
	}

	var cmd tea.Cmd
	p.pathInput, cmd = p.pathInput.Update(msg)
	return cmd
}

func (p *Pane) closePrompt() {
	p.prompting = false
	p.pathInput.Blur()
	p.pathInput.Reset()
}

func (p *Pane) focusEditor() tea.Cmd {
	if !p.focused {
		return nil
	}
	return p.editor.Focus()
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// manualEdit keeps the typed text and drops the file-derived badge and error.
func (p *Pane) manualEdit(text string) {
	p.text = text
	p.fileName = ""
	p.filePath = ""
	p.fileErr = ""
	p.loadFailed = false
	p.notice = ""
}

func (p *Pane) setText(text string) {
	p.text = text
	p.showText(text)
}

// showText puts text in the editor. Text the editor would change is shown
// as a read-only copy and p.text stays authoritative.
func (p *Pane) showText(text string) {
	display := normalizeNewlines(text)
	switch {
	case lineCount(display) > EditorMaxLines:
		p.lockNotice = TooLongNotice
	case !fitsEditor(display):
		p.lockNotice = ConvertNotice
	default:
		p.lockNotice = ""
	}
	p.editor.SetValue(display)
	p.editor.MoveToBegin()
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func lineCount(s string) int {
	return strings.Count(s, "\n") + 1
}

// fitsEditor reports whether the editor stores s without changing it.
func fitsEditor(s string) bool {
	if !utf8.ValidString(s) || lineCount(s) > EditorMaxLines {
		return false
	}
	for _, r := range s {
		if r == '\n' {
			continue
		}
		if r == utf8.RuneError || unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// View renders the pane.
func (p *Pane) View() string {
	width := p.contentWidth()

	lines := []string{
		p.styles.Title.Render(utils.TruncateToWidth(Title, width)),
		p.styles.TextMuted.Render(utils.TruncateToWidth(hintLine, width)),
	}
	lines = append(lines, p.statusLines(width)...)
	if p.prompting {
		lines = append(lines, ansi.Truncate(p.pathInput.View(), width, ""))
	}
	lines = append(lines, strings.Repeat("─", width))

	editorHeight := max(p.contentHeight()-len(lines)-1, 1)
	p.editor.SetHeight(editorHeight)
	lines = append(lines, utils.FitLines(strings.Split(p.editor.View(), "\n"), width, editorHeight)...)
	lines = append(lines, p.footer(width))

	box := p.styles.Box
	if p.focused {
		box = p.styles.BoxFocused
	}
	return box.
		Width(max(p.width, 1)).
		Padding(0, paddingH).
		Render(strings.Join(utils.FitLines(lines, width, p.contentHeight()), "\n"))
}

func (p *Pane) statusLines(width int) []string {
	var lines []string
	if badge := p.Badge(); badge != "" {
		style := p.styles.Badge
		if p.loadFailed || p.fileErr != "" {
			style = p.styles.Error
		}
		lines = append(lines, style.Render(utils.TruncateToWidth("▸ "+badge, width)))
	}
	if p.fileErr != "" {
		for _, line := range utils.WrapWords(p.fileErr, width) {
			lines = append(lines, p.styles.Error.Render(line))
		}
	}
	if p.notice != "" {
		lines = append(lines, p.styles.Warning.Render(utils.TruncateToWidth(p.notice, width)))
	}
	if p.lockNotice != "" {
		for _, line := range utils.WrapWords(p.lockNotice, width) {
			lines = append(lines, p.styles.Warning.Render(line))
		}
	}
	return lines
}

func (p *Pane) footer(width int) string {
	switch {
	case p.processing:
		return p.styles.TextMuted.Render(utils.TruncateToWidth(processingText, width))
	case p.CanProcess():
		return p.styles.Title.Render(utils.TruncateToWidth(processLabel, width))
	default:
		return p.styles.Placeholder.Render(utils.TruncateToWidth(processLabel, width))
	}
}

func (p *Pane) contentWidth() int {
	return max(p.width-2*(borderSize+paddingH), 1)
}

func (p *Pane) contentHeight() int {
	return max(p.height-2*borderSize, 1)
}

// editorHeight is the editor height with no badge, error or prompt shown.
func (p *Pane) editorHeight() int {
	// title, hint, separator and footer
	return max(p.contentHeight()-4, 1)
}
