// Package transcript renders the chat pane: the conversation about the
// document, the loading indicator, the error banner and the question input.
package transcript

import (
	"runtime"
	"strings"
	"time"

	"docqa/pkg/chat"
	"docqa/pkg/ui/components/utils"
	"docqa/pkg/ui/components/welcome"
	"docqa/pkg/ui/styles"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-runewidth"
)

const (
	Title = "Chat"

	PlaceholderReady      = "Ask a question about the document..."
	PlaceholderNoDocument = "Please process a document first"
	SourcesHeading        = "Sources"
	ThinkingLabel         = "Thinking"

	borderSize     = 1
	paddingH       = 1
	inputHeight    = 3
	scrollStep     = 10
	maxDots        = 3
	separatorWidth = 23

	thinkingInterval = 400 * time.Millisecond
)

// SubmitMsg is emitted when the user submits a question.
type SubmitMsg struct {
	Question string
}

// ThinkingTickMsg advances the loading indicator.
type ThinkingTickMsg struct{}

// ThinkingTick schedules the next loading indicator frame.
func ThinkingTick() tea.Cmd {
	return tea.Tick(thinkingInterval, func(time.Time) tea.Msg {
		return ThinkingTickMsg{}
	})
}

// Pane shows the transcript above the question input.
type Pane struct {
	styles styles.Styles
	width  int
	height int

	messages []chat.Message
	lines    []string
	scrollY  int
	follow   bool

	loading     bool
	dots        int
	banner      string
	hasDocument bool
	focused     bool

	input textarea.Model
}

// New creates an empty chat pane.
func New(st styles.Styles) *Pane {
	input := textarea.New()
	input.ShowLineNumbers = false
	input.SetHeight(inputHeight)
	input.Placeholder = PlaceholderNoDocument

	return &Pane{
		styles: st,
		follow: true,
		input:  input,
	}
}

// SetStyles switches the theme.
func (p *Pane) SetStyles(st styles.Styles) {
	p.styles = st
	p.reflow()
}

// SetSize sets the outer size of the pane including its border.
func (p *Pane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.SetWidth(p.contentWidth())
	p.reflow()
}

// SetMessages replaces the rendered transcript.
func (p *Pane) SetMessages(messages []chat.Message) {
	p.messages = messages
	p.reflow()
}

// SetLoading shows or hides the loading indicator.
func (p *Pane) SetLoading(loading bool) {
	if loading && !p.loading {
		p.dots = 0
		p.follow = true
	}
	p.loading = loading
	p.refreshInput()
	p.reflow()
}

// Loading reports whether the loading indicator is shown.
func (p *Pane) Loading() bool {
	return p.loading
}

// Advance moves the loading indicator to its next frame.
func (p *Pane) Advance() {
	if !p.loading {
		return
	}
	p.dots = (p.dots + 1) % (maxDots + 1)
	p.reflow()
}

// SetBanner sets the error banner. An empty string hides it.
func (p *Pane) SetBanner(banner string) {
	p.banner = banner
	p.reflow()
}

// SetHasDocument enables the question input once a document is committed.
func (p *Pane) SetHasDocument(has bool) {
	p.hasDocument = has
	p.refreshInput()
}

// InputEnabled reports whether a question can be typed and submitted.
func (p *Pane) InputEnabled() bool {
	return p.hasDocument && !p.loading
}

// Placeholder returns the question input placeholder.
func (p *Pane) Placeholder() string {
	return p.input.Placeholder
}

// Focus gives the question input keyboard focus.
func (p *Pane) Focus() tea.Cmd {
	p.focused = true
	return p.input.Focus()
}

// Blur removes keyboard focus.
func (p *Pane) Blur() {
	p.focused = false
	p.input.Blur()
}

// Focused reports whether the pane has keyboard focus.
func (p *Pane) Focused() bool {
	return p.focused
}

// Value returns the text typed into the question input.
func (p *Pane) Value() string {
	return p.input.Value()
}

// Update handles a key while the pane is focused.
func (p *Pane) Update(msg tea.KeyPressMsg) tea.Cmd {
	switch key := msg.String(); key {
	case "enter":
		if !p.InputEnabled() {
			return nil
		}
		question := strings.TrimSpace(p.input.Value())
		if question == "" {
			return nil
		}
		p.input.Reset()
		return func() tea.Msg {
			return SubmitMsg{Question: question}
		}
	case "up", "down", "pgup", "pgdown":
		p.HandleScroll(key)
		return nil
	}

	if !p.InputEnabled() {
		return nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// HandlePaste inserts pasted text into the question input.
func (p *Pane) HandlePaste(content string) {
	if p.InputEnabled() {
		p.input.InsertString(content)
	}
}

// HandleScroll moves the transcript by one line or one page.
func (p *Pane) HandleScroll(key string) {
	maxScroll := p.maxScroll()

	switch key {
	case "up":
		if p.scrollY > 0 {
			p.scrollY--
			p.follow = false
		}
	case "down":
		if p.scrollY < maxScroll {
			p.scrollY++
		}
		p.follow = p.scrollY >= maxScroll
	case "pgup":
		p.scrollY -= scrollStep
		if p.scrollY < 0 {
			p.scrollY = 0
		}
		p.follow = false
	case "pgdown":
		p.scrollY += scrollStep
		if p.scrollY > maxScroll {
			p.scrollY = maxScroll
		}
		p.follow = p.scrollY >= maxScroll
	}
}

// ScrollY returns the first visible transcript line.
func (p *Pane) ScrollY() int {
	return p.scrollY
}

// View renders the pane.
func (p *Pane) View() string {
	width := p.contentWidth()
	height := p.contentHeight()

	lines := make([]string, 0, height)
	lines = append(lines, utils.PadStyled(p.styles.Title.Render(utils.TruncateToWidth(Title, width)), width))

	end := min(p.scrollY+p.viewportHeight(), len(p.lines))
	lines = append(lines, utils.FitLines(p.lines[min(p.scrollY, end):end], width, p.viewportHeight())...)

	for _, line := range p.bannerLines(width) {
		lines = append(lines, utils.PadStyled(p.styles.Error.Render(line), width))
	}

	lines = append(lines, strings.Repeat("─", width))
	lines = append(lines, utils.FitLines(strings.Split(p.input.View(), "\n"), width, inputHeight)...)
	lines = utils.FitLines(lines, width, height)

	box := p.styles.Box
	if p.focused {
		box = p.styles.BoxFocused
	}
	return box.
		Width(max(p.width, 1)).
		Padding(0, paddingH).
		Render(strings.Join(lines, "\n"))
}

// RenderLines renders the transcript at width without the pane chrome. An
// empty transcript shows the welcome box.
func (p *Pane) RenderLines(width int) []string {
	if len(p.messages) == 0 && !p.loading {
		return welcome.Lines(p.styles, width)
	}

	var lines []string
	for i, msg := range p.messages {
		if i > 0 {
			lines = append(lines, "")
			if msg.Role == chat.RoleUser {
				lines = append(lines, p.styles.TextMuted.Render(strings.Repeat("─", min(separatorWidth, width))), "")
			}
		}
		lines = append(lines, p.renderMarkdown(messagePrefix(msg.Role)+msg.Content, width)...)

		if msg.Role == chat.RoleAssistant && len(msg.Sources) > 0 {
			lines = append(lines, "", p.styles.TextBold.Render(SourcesHeading))
			for _, source := range msg.Sources {
				for _, line := range utils.WrapWords(`"`+source+`"`, max(width-2, 1)) {
					lines = append(lines, "  "+p.styles.TextMuted.Render(line))
				}
			}
		}
	}

	if p.loading {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		indicator := messagePrefix(chat.RoleAssistant) + ThinkingLabel + strings.Repeat(".", p.dots)
		lines = append(lines, p.renderMarkdown(indicator, width)...)
	}
	return lines
}

func (p *Pane) reflow() {
	width := p.contentWidth()
	p.lines = p.RenderLines(width)
	if p.follow || p.scrollY > p.maxScroll() {
		p.scrollY = p.maxScroll()
	}
	if p.scrollY < 0 {
		p.scrollY = 0
	}
}

func (p *Pane) refreshInput() {
	if p.hasDocument {
		p.input.Placeholder = PlaceholderReady
	} else {
		p.input.Placeholder = PlaceholderNoDocument
	}
}

func (p *Pane) bannerLines(width int) []string {
	if strings.TrimSpace(p.banner) == "" {
		return nil
	}
	return utils.WrapWords(p.banner, width)
}

func (p *Pane) contentWidth() int {
	return max(p.width-2*(borderSize+paddingH), 1)
}

func (p *Pane) contentHeight() int {
	return max(p.height-2*borderSize, 1)
}

func (p *Pane) viewportHeight() int {
	// title, separator and the input sit around the transcript
	height := p.contentHeight() - 2 - inputHeight - len(p.bannerLines(p.contentWidth()))
	return max(height, 1)
}

func (p *Pane) maxScroll() int {
	return max(len(p.lines)-p.viewportHeight(), 0)
}

type markdownToken struct {
	text string
	bold bool
}

// renderMarkdown handles the subset models actually emit in answers:
// fenced code blocks and **bold** runs.
func (p *Pane) renderMarkdown(content string, width int) []string {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	normalized = utils.Sanitize(normalized)

	var rendered []string
	inCode := false
	for _, line := range strings.Split(normalized, "\n") {
		line = strings.ReplaceAll(line, "\t", "    ")
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			for _, part := range utils.SplitByWidth(line, width) {
				rendered = append(rendered, p.styles.Code.Render(utils.PadPlain(part, width)))
			}
			continue
		}
		tokens := tokenizeBoldWords(line)
		if len(tokens) == 0 {
			rendered = append(rendered, "")
			continue
		}
		rendered = append(rendered, p.wrapTokens(tokens, width)...)
	}

	if len(rendered) == 0 {
		return []string{""}
	}
	return rendered
}

func tokenizeBoldWords(line string) []markdownToken {
	var tokens []markdownToken
	bold := false

	for len(line) > 0 {
		idx := strings.Index(line, "**")
		segment := line
		if idx >= 0 {
			segment = line[:idx]
		}
		for _, word := range strings.Fields(segment) {
			tokens = append(tokens, markdownToken{text: word, bold: bold})
		}
		if idx < 0 {
			break
		}
		bold = !bold
		line = line[idx+2:]
	}

	return tokens
}

func (p *Pane) wrapTokens(tokens []markdownToken, width int) []string {
	var lines []string
	var lineTokens []markdownToken
	lineWidth := 0

	flush := func() {
		lines = append(lines, p.renderTokenLine(lineTokens))
		lineTokens = nil
		lineWidth = 0
	}

	for _, token := range tokens {
		for _, part := range utils.SplitByWidth(token.text, width) {
			partWidth := runewidth.StringWidth(part)
			if lineWidth > 0 && lineWidth+1+partWidth > width {
				flush()
			}
			if lineWidth > 0 {
				lineWidth++
			}
			lineTokens = append(lineTokens, markdownToken{text: part, bold: token.bold})
			lineWidth += partWidth
		}
	}
	if len(lineTokens) > 0 {
		flush()
	}
	return lines
}

func (p *Pane) renderTokenLine(tokens []markdownToken) string {
	var sb strings.Builder
	for i, token := range tokens {
		if i > 0 {
			sb.WriteString(p.styles.Text.Render(" "))
		}
		if token.bold {
			sb.WriteString(p.styles.TextBold.Render(token.text))
		} else {
			sb.WriteString(p.styles.Text.Render(token.text))
		}
	}
	return sb.String()
}

func messagePrefix(role chat.Role) string {
	useEmoji := runtime.GOOS != "darwin"
	if role == chat.RoleUser {
		if useEmoji {
			return "👤 **You:** "
		}
		return "**You:** "
	}
	if useEmoji {
		return "🖥️ **Assistant:** "
	}
	return "**Assistant:** "
}
