package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"docqa/pkg/qa"

	"github.com/google/uuid"
)

const (
	// Greeting opens every transcript after a document is committed.
	Greeting = "I have processed the document. What would you like to know?"
	// NoDocumentMessage is the banner shown when asking before a document is committed.
	NoDocumentMessage = "Please provide some document text first."

	bannerErrorPrefix     = "Sorry, I couldn't get an answer. "
	transcriptErrorPrefix = "Sorry, I ran into an error. Please try again. Details: "
)

var (
	ErrNoDocument    = errors.New("no document context")
	ErrBusy          = errors.New("a question is already being answered")
	ErrEmptyQuestion = errors.New("question is empty")
)

// Status is the state of the most recent question.
type Status int

const (
	StatusIdle Status = iota
	StatusAwaiting
	StatusResolved
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusAwaiting:
		return "awaiting"
	case StatusResolved:
		return "resolved"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Answerer answers a question from a document context.
type Answerer interface {
	Ask(ctx context.Context, documentContext, question string) (qa.Result, error)
}

// Pending is a question that has been accepted and is waiting for an answer.
type Pending struct {
	Context  string
	Question string
}

// Session owns the committed document and its transcript. At most one
// question is in flight at a time. It is safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	id         string
	document   string
	transcript Transcript
	loading    bool
	err        string
	status     Status
}

// NewSession returns a session with no document.
func NewSession() *Session {
	return &Session{id: uuid.NewString()}
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// SetDocument commits text as the document context and starts a new
// transcript with the greeting. It fails with ErrBusy while a question is
// in flight.
func (s *Session) SetDocument(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrNoDocument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return ErrBusy
	}
	s.document = text
	s.transcript = Transcript{}
	s.transcript.Append(NewMessage(RoleAssistant, Greeting, nil))
	s.err = ""
	s.status = StatusIdle
	slog.Info("chat_document_set", "chat_session", s.id, "chars", len(text))
	return nil
}

// Begin accepts question and appends it to the transcript.
func (s *Session) Begin(question string) (Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(s.document) == "" {
		s.err = NoDocumentMessage
		return Pending{}, ErrNoDocument
	}
	if s.loading {
		return Pending{}, ErrBusy
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return Pending{}, ErrEmptyQuestion
	}

	s.transcript.Append(NewMessage(RoleUser, question, nil))
	s.loading = true
	s.err = ""
	s.status = StatusAwaiting
	return Pending{Context: s.document, Question: question}, nil
}

// Complete records the outcome of the in-flight question and returns the
// assistant message it appended.
func (s *Session) Complete(result qa.Result, err error) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false
	if err != nil {
		detail := describeError(err)
		s.err = bannerErrorPrefix + detail
		s.status = StatusFailed
		msg := NewMessage(RoleAssistant, transcriptErrorPrefix+detail, nil)
		s.transcript.Append(msg)
		slog.Warn("chat_answer_failed", "chat_session", s.id, "error", err)
		return msg
	}

	msg := NewMessage(RoleAssistant, result.Answer, result.Sources)
	if msg.Sources == nil {
		msg.Sources = []string{}
	}
	s.transcript.Append(msg)
	s.status = StatusResolved
	slog.Info("chat_answer_added", "chat_session", s.id, "sources", len(msg.Sources))
	return msg
}

// Ask runs a full question cycle synchronously.
func (s *Session) Ask(ctx context.Context, answerer Answerer, question string) (Message, error) {
	pending, err := s.Begin(question)
	if err != nil {
		return Message{}, err
	}
	result, err := answerer.Ask(ctx, pending.Context, pending.Question)
	msg := s.Complete(result, err)
	return msg, err
}

// Document returns the committed document context.
func (s *Session) Document() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document
}

// HasDocument reports whether a non-blank document has been committed.
func (s *Session) HasDocument() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.TrimSpace(s.document) != ""
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Messages()
}

// LastAnswer returns the most recent assistant message.
func (s *Session) LastAnswer() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.LastAnswer()
}

// Loading reports whether a question is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the banner error, or "".
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ClearErr dismisses the banner error.
func (s *Session) ClearErr() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// Status returns the state of the most recent question.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// describeError renders err for people: the first letter is capitalised.
func describeError(err error) string {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "An unknown error occurred while communicating with the AI."
	}
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}
