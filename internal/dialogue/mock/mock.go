// Package mock provides in-memory mock implementations of the
// [dialogue.Engine] and [dialogue.Session] interfaces for use in unit tests.
//
// All mocks are safe for concurrent use. They record every method call so
// that tests can assert on call counts and arguments. [Session.Invoke]
// simulates the model requesting a tool call.
package mock

import (
	"context"
	"sync"

	"github.com/marloweav/heritagehall/internal/dialogue"
)

// Compile-time interface checks.
var (
	_ dialogue.Engine  = (*Engine)(nil)
	_ dialogue.Session = (*Session)(nil)
)

// Engine is a mock [dialogue.Engine].
type Engine struct {
	mu sync.Mutex

	// ConnectResult is returned by Connect. When nil, a fresh [Session]
	// is created per call.
	ConnectResult *Session

	// ConnectError is returned by Connect when non-nil.
	ConnectError error

	// Configs records every SessionConfig passed to Connect.
	Configs []dialogue.SessionConfig
}

// Connect implements [dialogue.Engine].
func (e *Engine) Connect(_ context.Context, cfg dialogue.SessionConfig) (dialogue.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ConnectError != nil {
		return nil, e.ConnectError
	}
	e.Configs = append(e.Configs, cfg)
	if e.ConnectResult != nil {
		return e.ConnectResult, nil
	}
	return NewSession(), nil
}

// Session is a mock [dialogue.Session].
type Session struct {
	mu sync.Mutex

	// SayError is returned by Say when non-nil.
	SayError error

	said         []string
	instructions []string
	tools        []dialogue.ToolDefinition
	handler      dialogue.ToolCallHandler
	transcripts  chan dialogue.TranscriptEntry
	closed       bool
}

// NewSession creates a ready-to-use mock session.
func NewSession() *Session {
	return &Session{transcripts: make(chan dialogue.TranscriptEntry, 16)}
}

// Say implements [dialogue.Session]. The line is recorded.
func (s *Session) Say(_ context.Context, text string, _ bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SayError != nil {
		return s.SayError
	}
	s.said = append(s.said, text)
	return nil
}

// UpdateInstructions implements [dialogue.Session]. Each block is recorded.
func (s *Session) UpdateInstructions(instructions string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instructions = append(s.instructions, instructions)
	return nil
}

// SetTools implements [dialogue.Session].
func (s *Session) SetTools(tools []dialogue.ToolDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools = tools
	return nil
}

// OnToolCall implements [dialogue.Session].
func (s *Session) OnToolCall(handler dialogue.ToolCallHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
}

// Transcripts implements [dialogue.Session].
func (s *Session) Transcripts() <-chan dialogue.TranscriptEntry {
	return s.transcripts
}

// Close implements [dialogue.Session]. Idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.transcripts)
	}
	return nil
}

// Invoke simulates the model calling a tool. It dispatches to the registered
// handler and returns its result.
func (s *Session) Invoke(name, args string) (string, error) {
	s.mu.Lock()
	h := s.handler
	s.mu.Unlock()
	if h == nil {
		return "", nil
	}
	return h(name, args)
}

// Said returns the spoken lines in order.
func (s *Session) Said() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.said))
	copy(out, s.said)
	return out
}

// Instructions returns every instruction block set so far, in order.
func (s *Session) Instructions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.instructions))
	copy(out, s.instructions)
	return out
}

// Tools returns the most recently set tool definitions.
func (s *Session) Tools() []dialogue.ToolDefinition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tools
}

// PushTranscript delivers a transcript entry to consumers.
func (s *Session) PushTranscript(e dialogue.TranscriptEntry) {
	s.transcripts <- e
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
