package ui

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docqa/pkg/chat"
	"docqa/pkg/config"
	"docqa/pkg/ingest"
	"docqa/pkg/qa"
	"docqa/pkg/ui/components/docinput"
	"docqa/pkg/ui/components/testutils"
	"docqa/pkg/ui/components/transcript"
	"docqa/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

type stubAnswerer struct {
	result  qa.Result
	err     error
	context string
	asked   string
}

func (s *stubAnswerer) Ask(_ context.Context, documentContext, question string) (qa.Result, error) {
	s.context = documentContext
	s.asked = question
	return s.result, s.err
}

func newTestModel(t *testing.T, answerer chat.Answerer) Model {
	t.Helper()
	cfg := config.Default()
	cfg.Theme = styles.Dark
	m := NewModel(Options{
		Config:     cfg,
		ConfigPath: filepath.Join(t.TempDir(), "config.json"),
		Answerer:   answerer,
		ModelName:  "gemini-2.5-flash",
		Clipboard:  &bytes.Buffer{},
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	updated, ok := next.(Model)
	if !ok {
		t.Fatalf("Expected Model, got %T", next)
	}
	return updated, cmd
}

func typeInto(t *testing.T, m Model, text string) Model {
	t.Helper()
	testutils.TypeText(text, func(msg tea.KeyPressMsg) {
		m, _ = update(t, m, msg)
	})
	return m
}

// processDocument types text into the document pane and commits it.
func processDocument(t *testing.T, m Model, text string) Model {
	t.Helper()
	m = typeInto(t, m, text)
	m, cmd := update(t, m, testutils.TestKeyCtrlS)
	if cmd == nil {
		t.Fatal("Expected ctrl+s to return a command")
	}
	process, ok := cmd().(docinput.ProcessMsg)
	if !ok {
		t.Fatalf("Expected ProcessMsg, got %T", cmd())
	}
	m, _ = update(t, m, process)
	return m
}

// submitQuestion types a question into the chat pane and submits it.
func submitQuestion(t *testing.T, m Model, question string) (Model, tea.Cmd) {
	t.Helper()
	m = typeInto(t, m, question)
	m, cmd := update(t, m, testutils.TestKeyEnter)
	if cmd == nil {
		t.Fatal("Expected enter to return a command")
	}
	submit, ok := cmd().(transcript.SubmitMsg)
	if !ok {
		t.Fatalf("Expected SubmitMsg, got %T", cmd())
	}
	return update(t, m, submit)
}

func TestNewModel(t *testing.T) {
	m := NewModel(Options{Config: config.Default()})

	if m.session == nil {
		t.Error("Expected session to be set")
	}
	if m.extractor == nil {
		t.Error("Expected extractor to be set")
	}
	if m.focus != focusDocument {
		t.Error("Expected document pane to have focus")
	}
	if !m.doc.Focused() {
		t.Error("Expected document pane focused")
	}
	if m.Theme() != styles.Dark {
		t.Errorf("Expected dark theme by default, got %q", m.Theme())
	}
	if m.chat.InputEnabled() {
		t.Error("Expected question input disabled without a document")
	}
}

func TestModel_Init(t *testing.T) {
	m := NewModel(Options{Config: config.Default()})
	if cmd := m.Init(); cmd == nil {
		t.Error("Expected Init() to return a command")
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	m := NewModel(Options{Config: config.Default()})
	if got := m.Render(); got != "Initializing..." {
		t.Errorf("Expected placeholder before the first size, got %q", got)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	if m.width != 100 || m.height != 30 {
		t.Errorf("Expected 100x30, got %dx%d", m.width, m.height)
	}
	if !m.ready {
		t.Error("Expected ready to be true after window size")
	}

	out := testutils.Plain(m.Render())
	if got := len(strings.Split(out, "\n")); got != 30 {
		t.Errorf("Expected 30 lines, got %d", got)
	}
	for _, want := range []string{docinput.Title, transcript.Title, "[docqa]", "[llm]"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in view:\n%s", want, out)
		}
	}
}

func TestModel_View_AltScreen(t *testing.T) {
	m := newTestModel(t, nil)
	if v := m.View(); !v.AltScreen {
		t.Error("Expected the view to use the alternate screen")
	}
}

func TestModel_ProcessDocument(t *testing.T) {
	m := newTestModel(t, &stubAnswerer{})
	m = processDocument(t, m, "The capital is Paris.")

	if m.session.Document() != "The capital is Paris." {
		t.Errorf("Expected document committed, got %q", m.session.Document())
	}
	if m.focus != focusChat || !m.chat.Focused() {
		t.Error("Expected focus to move to the chat pane")
	}
	if !m.chat.InputEnabled() {
		t.Error("Expected question input enabled after processing")
	}

	msgs := m.session.Messages()
	if len(msgs) != 1 || msgs[0].Content != chat.Greeting {
		t.Fatalf("Expected the greeting only, got %+v", msgs)
	}
	if !strings.Contains(testutils.Plain(m.Render()), "I have processed the document.") {
		t.Error("Expected greeting in view")
	}
}

func TestModel_AskQuestion(t *testing.T) {
	answerer := &stubAnswerer{result: qa.Result{
		Answer:  "Paris.",
		Sources: []string{"The capital is Paris."},
	}}
	m := newTestModel(t, answerer)
	m = processDocument(t, m, "The capital is Paris.")

	m, cmd := submitQuestion(t, m, "What is the capital?")
	if cmd == nil {
		t.Fatal("Expected ask and tick commands")
	}
	if !m.session.Loading() || !m.chat.Loading() {
		t.Fatal("Expected loading state while the question is in flight")
	}
	if m.chat.InputEnabled() {
		t.Error("Expected input disabled while loading")
	}

	pending := chat.Pending{Context: m.session.Document(), Question: "What is the capital?"}
	m, _ = update(t, m, askQuestion(context.Background(), answerer, pending)())

	if answerer.context != "The capital is Paris." || answerer.asked != "What is the capital?" {
		t.Errorf("Answerer got context %q question %q", answerer.context, answerer.asked)
	}
	if m.session.Loading() || m.chat.Loading() {
		t.Error("Expected loading cleared after the answer")
	}

	msgs := m.session.Messages()
	if len(msgs) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(msgs))
	}
	if msgs[1].Role != chat.RoleUser || msgs[1].Content != "What is the capital?" {
		t.Errorf("Unexpected user message: %+v", msgs[1])
	}
	if msgs[2].Content != "Paris." || len(msgs[2].Sources) != 1 {
		t.Errorf("Unexpected answer: %+v", msgs[2])
	}

	out := testutils.Plain(m.Render())
	if !strings.Contains(out, "Assistant: Paris.") || !strings.Contains(out, transcript.SourcesHeading) {
		t.Errorf("Expected answer and sources in view:\n%s", out)
	}
}

func TestModel_ProcessWhileAnswering(t *testing.T) {
	answerer := &stubAnswerer{result: qa.Result{Answer: "From the old text."}}
	m := newTestModel(t, answerer)
	m = processDocument(t, m, "Old text.")
	m, _ = submitQuestion(t, m, "What does it say?")

	m, cmd := update(t, m, docinput.ProcessMsg{Text: "New text."})
	if cmd == nil {
		t.Fatal("Expected a status clear command")
	}
	if m.status.Message() != BusyMessage {
		t.Errorf("Expected %q in status bar, got %q", BusyMessage, m.status.Message())
	}
	if m.session.Document() != "Old text." || !m.chat.Loading() {
		t.Fatal("Expected the in-flight question to keep its document")
	}

	pending := chat.Pending{Context: "Old text.", Question: "What does it say?"}
	m, _ = update(t, m, askQuestion(context.Background(), answerer, pending)())
	msgs := m.session.Messages()
	if len(msgs) != 3 || msgs[1].Content != "What does it say?" || msgs[2].Content != "From the old text." {
		t.Errorf("Expected the answer under its question, got %+v", msgs)
	}
}

func TestModel_AskQuestionError(t *testing.T) {
	answerer := &stubAnswerer{err: errors.New("quota exceeded")}
	m := newTestModel(t, answerer)
	m = processDocument(t, m, "Some text.")
	m, _ = submitQuestion(t, m, "Anything?")

	pending := chat.Pending{Context: "Some text.", Question: "Anything?"}
	m, _ = update(t, m, askQuestion(context.Background(), answerer, pending)())

	if m.session.Status() != chat.StatusFailed {
		t.Errorf("Expected failed status, got %s", m.session.Status())
	}
	out := testutils.Plain(m.Render())
	if !strings.Contains(out, "Sorry, I couldn't get an answer. Quota exceeded") {
		t.Errorf("Expected error banner in view:\n%s", out)
	}
	if m.chat.Loading() {
		t.Error("Expected loading cleared after an error")
	}
}

func TestModel_AskWithoutAnswerer(t *testing.T) {
	msg := askQuestion(context.Background(), nil, chat.Pending{Context: "x", Question: "y"})()
	answer, ok := msg.(answerMsg)
	if !ok {
		t.Fatalf("Expected answerMsg, got %T", msg)
	}
	if !errors.Is(answer.err, errNoAnswerer) {
		t.Errorf("Expected errNoAnswerer, got %v", answer.err)
	}
}

func TestModel_SubmitWithoutDocument(t *testing.T) {
	m := newTestModel(t, &stubAnswerer{})
	m, cmd := update(t, m, transcript.SubmitMsg{Question: "Hello?"})
	if cmd != nil {
		t.Error("Expected no command without a document")
	}
	if m.session.Err() != chat.NoDocumentMessage {
		t.Errorf("Expected no-document banner, got %q", m.session.Err())
	}
	if !strings.Contains(testutils.Plain(m.Render()), chat.NoDocumentMessage) {
		t.Error("Expected banner in view")
	}
}

func TestModel_ThinkingTick(t *testing.T) {
	m := newTestModel(t, &stubAnswerer{})
	if _, cmd := update(t, m, transcript.ThinkingTickMsg{}); cmd != nil {
		t.Error("Expected ticking to stop when nothing is loading")
	}

	m = processDocument(t, m, "Text.")
	m, _ = submitQuestion(t, m, "Why?")
	if _, cmd := update(t, m, transcript.ThinkingTickMsg{}); cmd == nil {
		t.Error("Expected another tick while loading")
	}
}

func TestModel_TabSwitchesFocus(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, testutils.TestKeyTab)
	if m.focus != focusChat || !m.chat.Focused() || m.doc.Focused() {
		t.Error("Expected chat focused after tab")
	}

	m, _ = update(t, m, testutils.TestKeyTab)
	if m.focus != focusDocument || !m.doc.Focused() || m.chat.Focused() {
		t.Error("Expected document focused after second tab")
	}
}

func TestModel_ToggleThemePersists(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, testutils.TestKeyCtrlT)
	if m.Theme() != styles.Light {
		t.Fatalf("Expected light theme, got %q", m.Theme())
	}
	cfg, err := config.Load(m.configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Theme != styles.Light {
		t.Errorf("Expected persisted light theme, got %q", cfg.Theme)
	}
	if !strings.Contains(testutils.Plain(m.Render()), "light") {
		t.Error("Expected theme name in the status bar")
	}

	m, _ = update(t, m, testutils.TestKeyCtrlT)
	cfg, _ = config.Load(m.configPath)
	if m.Theme() != styles.Dark || cfg.Theme != styles.Dark {
		t.Errorf("Expected dark theme restored, got %q (persisted %q)", m.Theme(), cfg.Theme)
	}
}

func TestModel_ThemeRestoredOnReload(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, testutils.TestKeyCtrlT)

	cfg, err := config.Load(m.configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	reloaded := NewModel(Options{Config: cfg, ConfigPath: m.configPath, Clipboard: &bytes.Buffer{}})
	if reloaded.Theme() != m.Theme() {
		t.Fatalf("Expected %q after reload, got %q", m.Theme(), reloaded.Theme())
	}
	reloaded, _ = update(t, reloaded, tea.BackgroundColorMsg{Color: color.Black})
	if reloaded.Theme() != styles.Light {
		t.Errorf("A detected background must not override the saved theme, got %q", reloaded.Theme())
	}
	reloaded, _ = update(t, reloaded, tea.WindowSizeMsg{Width: 100, Height: 30})
	if !strings.Contains(testutils.Plain(reloaded.Render()), "light") {
		t.Error("Expected the restored theme in the status bar")
	}
}

func TestModel_BackgroundColor(t *testing.T) {
	cfg := config.Default()
	cfg.Theme = ""
	m := NewModel(Options{Config: cfg})

	m, _ = update(t, m, tea.BackgroundColorMsg{Color: color.White})
	if m.Theme() != styles.Light {
		t.Errorf("Expected light theme on a light background, got %q", m.Theme())
	}

	persisted := newTestModel(t, nil)
	persisted, _ = update(t, persisted, tea.BackgroundColorMsg{Color: color.White})
	if persisted.Theme() != styles.Dark {
		t.Errorf("Expected persisted theme to win, got %q", persisted.Theme())
	}
}

func TestModel_CopyLastAnswer(t *testing.T) {
	m := newTestModel(t, nil)
	if _, cmd := update(t, m, testutils.TestKeyCtrlY); cmd != nil {
		t.Error("Expected nothing to copy before any answer")
	}

	m = processDocument(t, m, "Text.")
	m, cmd := update(t, m, testutils.TestKeyCtrlY)
	if cmd == nil {
		t.Fatal("Expected copy command")
	}
	if m.status.Message() != CopiedMessage {
		t.Errorf("Expected %q in status bar, got %q", CopiedMessage, m.status.Message())
	}

	m, _ = update(t, m, clearStatusMsg{seq: m.statusSeq - 1})
	if m.status.Message() != CopiedMessage {
		t.Error("A stale clear should not remove the notice")
	}
	m, _ = update(t, m, clearStatusMsg{seq: m.statusSeq})
	if m.status.Message() != "" {
		t.Errorf("Expected notice cleared, got %q", m.status.Message())
	}
}

func TestCopyToClipboard(t *testing.T) {
	var out bytes.Buffer
	if msg := copyToClipboard(&out, "Paris.")(); msg != nil {
		t.Errorf("Expected no message, got %T", msg)
	}
	if want := osc52.New("Paris.").String(); out.String() != want {
		t.Errorf("Expected %q, got %q", want, out.String())
	}
}

func TestModel_OpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(path, []byte("# Notes\nThe answer is 42."), 0600); err != nil {
		t.Fatal(err)
	}

	m := newTestModel(t, nil)
	m, cmd := update(t, m, docinput.OpenMsg{Path: path})
	if cmd == nil {
		t.Fatal("Expected load command")
	}
	if !m.doc.Processing() {
		t.Error("Expected document pane processing")
	}

	m, _ = update(t, m, cmd())
	if m.doc.Processing() {
		t.Error("Expected processing finished")
	}
	if m.doc.Text() != "# Notes\nThe answer is 42." {
		t.Errorf("Expected file text in editor, got %q", m.doc.Text())
	}
	if !strings.Contains(testutils.Plain(m.Render()), "notes.md") {
		t.Error("Expected file name in view")
	}
}

func TestModel_OpenUnsupported(t *testing.T) {
	m := newTestModel(t, nil)
	m, cmd := update(t, m, docinput.OpenMsg{Path: "/tmp/report.docx"})
	if cmd != nil {
		t.Error("Expected no load for an unsupported file")
	}
	if m.doc.FileErr() != ingest.UnsupportedTypeMessage {
		t.Errorf("Expected unsupported message, got %q", m.doc.FileErr())
	}
}

func TestModel_OpenMissingFile(t *testing.T) {
	m := newTestModel(t, nil)
	m, cmd := update(t, m, docinput.OpenMsg{Path: filepath.Join(t.TempDir(), "missing.txt")})
	if cmd == nil {
		t.Fatal("Expected load command")
	}
	m, _ = update(t, m, cmd())
	if m.doc.FileErr() == "" {
		t.Error("Expected a file error")
	}
	if !strings.HasPrefix(m.doc.Text(), docinput.ReadErrorPrefix) {
		t.Errorf("Expected read error in editor, got %q", m.doc.Text())
	}
}

func TestModel_PasteDroppedFileFromChat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drop.txt")
	if err := os.WriteFile(path, []byte("dropped"), 0600); err != nil {
		t.Fatal(err)
	}

	m := newTestModel(t, nil)
	m, _ = update(t, m, testutils.TestKeyTab)

	_, cmd := update(t, m, testutils.NewPasteMsg(path))
	if cmd == nil {
		t.Fatal("Expected a dropped path to open the file")
	}
	open, ok := cmd().(docinput.OpenMsg)
	if !ok || open.Path != path {
		t.Errorf("Expected OpenMsg for %q, got %#v", path, cmd())
	}
}

func TestModel_PasteTextIntoFocusedPane(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, testutils.NewPasteMsg("pasted context"))
	if m.doc.Text() != "pasted context" {
		t.Errorf("Expected paste in document pane, got %q", m.doc.Text())
	}

	m = processDocument(t, m, "")
	m, _ = update(t, m, testutils.NewPasteMsg("a question"))
	if m.chat.Value() != "a question" {
		t.Errorf("Expected paste in question input, got %q", m.chat.Value())
	}
}

func TestModel_FileChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.txt")
	if err := os.WriteFile(path, []byte("v1"), 0600); err != nil {
		t.Fatal(err)
	}

	m := newTestModel(t, nil)
	m, cmd := update(t, m, docinput.OpenMsg{Path: path})
	m, _ = update(t, m, cmd())

	m, _ = update(t, m, fileChangedMsg{change: ingest.Change{Path: path}})
	if m.doc.Notice() != docinput.ChangedNotice {
		t.Errorf("Expected change notice, got %q", m.doc.Notice())
	}

	m, _ = update(t, m, fileChangedMsg{change: ingest.Change{Path: path, Removed: true}})
	if m.doc.Notice() != docinput.RemovedNotice {
		t.Errorf("Expected removed notice, got %q", m.doc.Notice())
	}
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := newTestModel(t, nil)
	_, cmd := update(t, m, testutils.TestKeyCtrlC)
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("Expected QuitMsg, got %T", cmd())
	}
}
