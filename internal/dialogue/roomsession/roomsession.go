// Package roomsession implements the [dialogue.Engine] and [dialogue.Session]
// ports over a WebSocket connection to the room gateway's session channel.
//
// The gateway runs the voice pipeline (capture, transcription, the language
// model, synthesis); this adapter only carries control traffic:
//
//   - outbound: "session_start" with the pipeline configuration, "say",
//     "update_instructions", "set_tools", and "tool_result".
//   - inbound: "tool_call" messages that are dispatched to the registered
//     handler, and "transcript" messages for both speakers.
//
// The adapter never retries on its own; a broken connection closes the
// transcript channel and the caller decides whether to redial.
package roomsession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/marloweav/heritagehall/internal/dialogue"
)

// Compile-time interface checks.
var (
	_ dialogue.Engine  = (*Engine)(nil)
	_ dialogue.Session = (*Session)(nil)
)

// message is the JSON envelope for all session control traffic.
type message struct {
	Type string `json:"type"`

	// session_start
	Pipeline     *dialogue.Pipeline        `json:"pipeline,omitempty"`
	Instructions string                    `json:"instructions,omitempty"`
	Tools        []dialogue.ToolDefinition `json:"tools,omitempty"`

	// say
	Text               string `json:"text,omitempty"`
	AllowInterruptions bool   `json:"allow_interruptions,omitempty"`

	// tool_call / tool_result
	CallID string          `json:"call_id,omitempty"`
	Name   string          `json:"name,omitempty"`
	Args   json.RawMessage `json:"args,omitempty"`
	Result string          `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`

	// transcript
	Role      string    `json:"role,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Engine opens dialogue sessions on the room gateway.
type Engine struct {
	url   string
	token string
}

// NewEngine creates an Engine for the gateway session endpoint at wsURL.
// token, when non-empty, is sent as a bearer Authorization header.
func NewEngine(wsURL, token string) *Engine {
	return &Engine{url: wsURL, token: token}
}

// Connect implements [dialogue.Engine]. It dials the gateway, sends the
// session_start message and starts the read loop. The caller owns the
// returned session and must call Close.
func (e *Engine) Connect(ctx context.Context, cfg dialogue.SessionConfig) (dialogue.Session, error) {
	headers := http.Header{}
	if e.token != "" {
		headers.Set("Authorization", "Bearer "+e.token)
	}

	conn, _, err := websocket.Dial(ctx, e.url, &websocket.DialOptions{
		HTTPHeader: headers,
	})
	if err != nil {
		return nil, fmt.Errorf("roomsession: dial %q: %w", e.url, err)
	}

	s := &Session{
		conn:        conn,
		transcripts: make(chan dialogue.TranscriptEntry, 16),
	}

	start := message{
		Type:         "session_start",
		Pipeline:     &cfg.Pipeline,
		Instructions: cfg.Instructions,
		Tools:        cfg.Tools,
	}
	if err := s.write(ctx, start); err != nil {
		conn.Close(websocket.StatusInternalError, "session start failed")
		return nil, fmt.Errorf("roomsession: start session: %w", err)
	}

	go s.readLoop()
	return s, nil
}

// Session is one live conversation on the gateway.
//
// All exported methods are safe for concurrent use.
type Session struct {
	conn *websocket.Conn

	wmu    sync.Mutex // serialises writes on conn
	closed bool

	hmu     sync.Mutex // guards handler
	handler dialogue.ToolCallHandler

	transcripts chan dialogue.TranscriptEntry
	closeOnce   sync.Once
}

// Say implements [dialogue.Session].
func (s *Session) Say(ctx context.Context, text string, allowInterruptions bool) error {
	return s.write(ctx, message{Type: "say", Text: text, AllowInterruptions: allowInterruptions})
}

// UpdateInstructions implements [dialogue.Session].
func (s *Session) UpdateInstructions(instructions string) error {
	return s.write(context.Background(), message{Type: "update_instructions", Instructions: instructions})
}

// SetTools implements [dialogue.Session].
func (s *Session) SetTools(tools []dialogue.ToolDefinition) error {
	return s.write(context.Background(), message{Type: "set_tools", Tools: tools})
}

// OnToolCall implements [dialogue.Session].
func (s *Session) OnToolCall(handler dialogue.ToolCallHandler) {
	s.hmu.Lock()
	s.handler = handler
	s.hmu.Unlock()
}

// Transcripts implements [dialogue.Session].
func (s *Session) Transcripts() <-chan dialogue.TranscriptEntry {
	return s.transcripts
}

// Close implements [dialogue.Session]. Close is idempotent; the read loop
// exits on the closed connection and closes the transcript channel.
func (s *Session) Close() error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close(websocket.StatusNormalClosure, "session ended")
}

func (s *Session) write(ctx context.Context, msg message) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if s.closed {
		return errors.New("roomsession: session is closed")
	}
	if err := wsjson.Write(ctx, s.conn, msg); err != nil {
		return fmt.Errorf("roomsession: write %s: %w", msg.Type, err)
	}
	return nil
}

// readLoop dispatches inbound messages until the connection drops.
func (s *Session) readLoop() {
	defer close(s.transcripts)
	ctx := context.Background()

	for {
		var msg message
		if err := wsjson.Read(ctx, s.conn, &msg); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && !s.isClosed() {
				slog.Warn("roomsession: read loop ended", "error", err)
			}
			return
		}

		switch msg.Type {
		case "tool_call":
			// Dispatch on a fresh goroutine so a slow tool never stalls
			// transcript delivery.
			go s.dispatchToolCall(ctx, msg)
		case "transcript":
			entry := dialogue.TranscriptEntry{
				Role:      msg.Role,
				Text:      msg.Text,
				Timestamp: msg.Timestamp,
			}
			select {
			case s.transcripts <- entry:
			default:
				slog.Warn("roomsession: transcript buffer full, dropping entry")
			}
		default:
			slog.Debug("roomsession: ignoring message", "type", msg.Type)
		}
	}
}

// dispatchToolCall runs the registered handler and reports the outcome back
// to the gateway.
func (s *Session) dispatchToolCall(ctx context.Context, msg message) {
	s.hmu.Lock()
	handler := s.handler
	s.hmu.Unlock()

	reply := message{Type: "tool_result", CallID: msg.CallID, Name: msg.Name}
	if handler == nil {
		reply.Error = "no tool handler registered"
	} else if result, err := handler(msg.Name, string(msg.Args)); err != nil {
		reply.Error = err.Error()
	} else {
		reply.Result = result
	}

	if err := s.write(ctx, reply); err != nil {
		slog.Warn("roomsession: tool result write failed", "call_id", msg.CallID, "error", err)
	}
}

func (s *Session) isClosed() bool {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.closed
}
