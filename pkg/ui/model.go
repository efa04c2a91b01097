package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"docqa/pkg/chat"
	"docqa/pkg/config"
	"docqa/pkg/ingest"
	"docqa/pkg/qa"
	"docqa/pkg/ui/components/docinput"
	"docqa/pkg/ui/components/statusbar"
	"docqa/pkg/ui/components/transcript"
	"docqa/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

const (
	// CopiedMessage is shown in the status bar after ctrl+y.
	CopiedMessage = "Copied"
	// BusyMessage is shown when a document is committed during an answer.
	BusyMessage = "Wait for the current answer before processing a new document"

	statusDuration = 2 * time.Second
)

var errNoAnswerer = errors.New("no language model configured")

type focusTarget int

const (
	focusDocument focusTarget = iota
	focusChat
)

// Options wires the model to the rest of the program.
type Options struct {
	Config     config.Config
	ConfigPath string
	Session    *chat.Session
	Answerer   chat.Answerer
	Extractor  *ingest.Extractor
	// Watcher is optional. Without it, loaded files are not followed.
	Watcher *ingest.Watcher
	// ModelName is the LLM model shown in the status bar.
	ModelName string
	// InitialPath is loaded into the document pane on start.
	InitialPath string
	// Clipboard receives the OSC 52 copy sequence. Defaults to stdout.
	Clipboard io.Writer
	Context   context.Context
}

// Model represents the Bubble Tea application state
type Model struct {
	ctx        context.Context
	cfg        config.Config
	configPath string

	// Domain
	session   *chat.Session
	answerer  chat.Answerer
	extractor *ingest.Extractor
	watcher   *ingest.Watcher
	clipboard io.Writer

	// UI Components
	layout *LayoutManager
	doc    *docinput.Pane
	chat   *transcript.Pane
	status *statusbar.StatusBarView

	// UI state
	theme       string
	styles      styles.Styles
	focus       focusTarget
	statusSeq   int
	initialPath string
	width       int
	height      int
	ready       bool
}

// NewModel creates a new Bubble Tea model
func NewModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	session := opts.Session
	if session == nil {
		session = chat.NewSession()
	}
	extractor := opts.Extractor
	if extractor == nil {
		extractor = ingest.NewExtractor(opts.Config.MaxFileBytes())
	}
	clipboard := opts.Clipboard
	if clipboard == nil {
		clipboard = os.Stdout
	}

	theme := opts.Config.Theme
	if theme == "" {
		theme = styles.Dark
	}
	st := styles.ForName(theme)

	status := statusbar.NewStatusBarView(st)
	status.SetModel(opts.ModelName)

	m := Model{
		ctx:         ctx,
		cfg:         opts.Config,
		configPath:  opts.ConfigPath,
		session:     session,
		answerer:    opts.Answerer,
		extractor:   extractor,
		watcher:     opts.Watcher,
		clipboard:   clipboard,
		layout:      NewLayoutManager(),
		doc:         docinput.New(st),
		chat:        transcript.New(st),
		status:      status,
		theme:       theme,
		styles:      st,
		focus:       focusDocument,
		initialPath: opts.InitialPath,
	}
	m.doc.Focus()
	m.syncChat()
	return m
}

// Init initializes the model (Bubble Tea lifecycle method)
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.doc.Focus()}
	if m.cfg.Theme == "" {
		cmds = append(cmds, tea.RequestBackgroundColor)
	}
	if m.watcher != nil {
		cmds = append(cmds, listenForChanges(m.watcher))
	}
	if m.initialPath != "" {
		path := m.initialPath
		cmds = append(cmds, func() tea.Msg {
			return docinput.OpenMsg{Path: path}
		})
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates model state (Bubble Tea lifecycle method)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout.SetSize(msg.Width, msg.Height)
		m.resize()
		return m, nil

	case tea.BackgroundColorMsg:
		// A persisted theme wins over the terminal background.
		if m.cfg.Theme == "" {
			m.applyTheme(styles.Default(msg.IsDark()))
		}
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.PasteMsg:
		return m.handlePaste(msg.Content)

	case docinput.OpenMsg:
		if !m.doc.Open(msg.Path) {
			return m, nil
		}
		slog.Info("ui_file_open", "path", msg.Path)
		return m, loadFile(m.ctx, m.extractor, msg.Path)

	case fileLoadedMsg:
		m.doc.FinishLoad(msg.doc, msg.err)
		if msg.err != nil {
			slog.Warn("ui_file_load_failed", "path", msg.path, "error", msg.err)
			return m, nil
		}
		m.status.SetDocument(msg.doc.Path)
		if m.watcher != nil && m.cfg.WatchDocument {
			if err := m.watcher.Watch(msg.doc.Path); err != nil {
				slog.Warn("ui_watch_failed", "path", msg.doc.Path, "error", err)
			}
		}
		return m, nil

	case docinput.ProcessMsg:
		if err := m.session.SetDocument(msg.Text); err != nil {
			if errors.Is(err, chat.ErrBusy) {
				return m, m.flashStatus(BusyMessage)
			}
			return m, nil
		}
		m.syncChat()
		return m, m.setFocus(focusChat)

	case transcript.SubmitMsg:
		pending, err := m.session.Begin(msg.Question)
		m.syncChat()
		if err != nil {
			return m, nil
		}
		m.chat.SetLoading(true)
		return m, tea.Batch(askQuestion(m.ctx, m.answerer, pending), transcript.ThinkingTick())

	case answerMsg:
		m.session.Complete(msg.result, msg.err)
		m.chat.SetLoading(false)
		m.syncChat()
		return m, nil

	case transcript.ThinkingTickMsg:
		if !m.chat.Loading() {
			return m, nil
		}
		m.chat.Advance()
		return m, transcript.ThinkingTick()

	case fileChangedMsg:
		if m.doc.FilePath() != "" {
			m.doc.MarkChanged(msg.change.Removed)
		}
		return m, listenForChanges(m.watcher)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status.SetMessage("")
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab":
		if m.focus == focusDocument {
			return m, m.setFocus(focusChat)
		}
		return m, m.setFocus(focusDocument)

	case "ctrl+t":
		m.applyTheme(styles.Toggle(m.theme))
		m.cfg.Theme = m.theme
		if m.configPath != "" {
			if err := config.SaveTheme(m.configPath, m.theme); err != nil {
				slog.Warn("ui_theme_save_failed", "error", err)
			}
		}
		return m, nil

	case "ctrl+y":
		answer, ok := m.session.LastAnswer()
		if !ok {
			return m, nil
		}
		return m, tea.Batch(
			copyToClipboard(m.clipboard, answer.Content),
			m.flashStatus(CopiedMessage),
		)
	}

	if m.focus == focusDocument {
		return m, m.doc.Update(msg)
	}
	return m, m.chat.Update(msg)
}

// handlePaste sends a dropped file to the document pane whichever pane has
// focus. Plain text goes to the focused pane.
func (m Model) handlePaste(content string) (tea.Model, tea.Cmd) {
	if m.focus == focusChat {
		if _, ok := ingest.DroppedPath(content); !ok {
			m.chat.HandlePaste(content)
			return m, nil
		}
	}
	return m, m.doc.HandlePaste(content)
}

func (m *Model) setFocus(target focusTarget) tea.Cmd {
	m.focus = target
	if target == focusChat {
		m.doc.Blur()
		return m.chat.Focus()
	}
	m.chat.Blur()
	return m.doc.Focus()
}

// flashStatus shows text in the status bar until a newer message replaces it
// or statusDuration passes.
func (m *Model) flashStatus(text string) tea.Cmd {
	m.statusSeq++
	m.status.SetMessage(text)
	return clearStatusAfter(statusDuration, m.statusSeq)
}

func (m *Model) applyTheme(name string) {
	m.theme = name
	m.styles = styles.ForName(name)
	m.doc.SetStyles(m.styles)
	m.chat.SetStyles(m.styles)
	m.status.SetStyles(m.styles)
}

func (m *Model) resize() {
	doc, chatSize := m.layout.Panes()
	m.doc.SetSize(doc.Width, doc.Height)
	m.chat.SetSize(chatSize.Width, chatSize.Height)
	m.status.SetWidth(m.width)
}

// syncChat copies the session state into the chat pane.
func (m *Model) syncChat() {
	m.chat.SetMessages(m.session.Messages())
	m.chat.SetBanner(m.session.Err())
	m.chat.SetHasDocument(m.session.HasDocument())
}

// View renders the UI (Bubble Tea lifecycle method)
func (m Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	return v
}

// Render returns the full screen as a string.
func (m Model) Render() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.layout.RenderLayout(m.doc.View(), m.chat.View(), m.status.Render())
}

// Session returns the chat session behind the model.
func (m Model) Session() *chat.Session {
	return m.session
}

// Theme returns the active theme name.
func (m Model) Theme() string {
	return m.theme
}

// Message types for commands started by the model

type fileLoadedMsg struct {
	path string
	doc  ingest.Document
	err  error
}

type answerMsg struct {
	result qa.Result
	err    error
}

type fileChangedMsg struct {
	change ingest.Change
}

type clearStatusMsg struct {
	seq int
}

// loadFile reads and extracts path off the event loop.
func loadFile(ctx context.Context, extractor *ingest.Extractor, path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := extractor.ReadFile(ctx, path)
		return fileLoadedMsg{path: path, doc: doc, err: err}
	}
}

// askQuestion sends the pending question to the answerer.
func askQuestion(ctx context.Context, answerer chat.Answerer, pending chat.Pending) tea.Cmd {
	return func() tea.Msg {
		if answerer == nil {
			return answerMsg{err: errNoAnswerer}
		}
		result, err := answerer.Ask(ctx, pending.Context, pending.Question)
		return answerMsg{result: result, err: err}
	}
}

// listenForChanges waits for the next watcher notice. It returns no message
// once the watcher is closed.
func listenForChanges(w *ingest.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		change, ok := <-w.Events()
		if !ok {
			return nil
		}
		return fileChangedMsg{change: change}
	}
}

func copyToClipboard(out io.Writer, text string) tea.Cmd {
	return func() tea.Msg {
		_, _ = fmt.Fprint(out, osc52.New(text))
		return nil
	}
}

func clearStatusAfter(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
