// Package roomws implements the [media.VideoTrack] and [media.AudioSink]
// interfaces over a WebSocket connection to a room media gateway.
//
// The gateway protocol is deliberately small:
//
//   - Video frames travel as binary messages: an 8-byte header (big-endian
//     uint32 width, uint32 height) followed by raw RGBA pixel data.
//   - Audio cue control travels as JSON text messages ("cue_start" /
//     "cue_stop"), each start carrying a client-assigned id that the matching
//     stop refers to.
//
// The adapter never retries on its own; a broken connection surfaces as write
// errors and the caller decides whether to redial. Writes are serialised
// internally so the track and the sink can be used from different goroutines.
package roomws

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/marloweav/heritagehall/pkg/media"
)

// Compile-time interface checks.
var (
	_ media.VideoTrack = (*Client)(nil)
	_ media.AudioSink  = (*Client)(nil)
)

// frameHeaderLen is the byte length of the binary frame header.
const frameHeaderLen = 8

// controlMessage is the JSON envelope for cue control messages.
type controlMessage struct {
	Type   string  `json:"type"` // "cue_start" or "cue_stop"
	ID     uint64  `json:"id"`
	Name   string  `json:"name,omitempty"`
	Volume float64 `json:"volume,omitempty"`
	Loop   bool    `json:"loop,omitempty"`
}

// Client is a room gateway connection serving both media ports.
//
// All exported methods are safe for concurrent use.
type Client struct {
	conn *websocket.Conn

	mu     sync.Mutex // serialises writes on conn
	nextID uint64
	closed bool
}

// Dial connects to the room gateway at wsURL. token, when non-empty, is sent
// as a bearer Authorization header.
//
// The caller owns the returned Client and must call [Client.Close].
func Dial(ctx context.Context, wsURL string, token string) (*Client, error) {
	headers := http.Header{}
	if token != "" {
		headers.Set("Authorization", "Bearer "+token)
	}

	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{
		HTTPHeader: headers,
	})
	if err != nil {
		return nil, fmt.Errorf("roomws: dial %q: %w", wsURL, err)
	}
	return &Client{conn: conn}, nil
}

// WriteFrame implements [media.VideoTrack]. The frame is encoded into a
// single binary message and written to the gateway.
func (c *Client) WriteFrame(ctx context.Context, f media.Frame) error {
	if f.Empty() {
		return errors.New("roomws: refusing to write empty frame")
	}
	if want := f.Width * f.Height * 4; len(f.Data) != want {
		return fmt.Errorf("roomws: frame data is %d bytes, want %d for %dx%d RGBA",
			len(f.Data), want, f.Width, f.Height)
	}

	buf := make([]byte, frameHeaderLen+len(f.Data))
	binary.BigEndian.PutUint32(buf[0:4], uint32(f.Width))
	binary.BigEndian.PutUint32(buf[4:8], uint32(f.Height))
	copy(buf[frameHeaderLen:], f.Data)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("roomws: client is closed")
	}
	if err := c.conn.Write(ctx, websocket.MessageBinary, buf); err != nil {
		return fmt.Errorf("roomws: write frame: %w", err)
	}
	return nil
}

// Play implements [media.AudioSink]. It sends a cue_start control message and
// returns a [media.Playback] whose Stop sends the matching cue_stop.
func (c *Client) Play(ctx context.Context, cue media.Cue) (media.Playback, error) {
	if cue.Name == "" {
		return nil, errors.New("roomws: cue name must not be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, errors.New("roomws: client is closed")
	}

	c.nextID++
	id := c.nextID
	msg := controlMessage{
		Type:   "cue_start",
		ID:     id,
		Name:   cue.Name,
		Volume: cue.Volume,
		Loop:   cue.Loop,
	}
	if err := wsjson.Write(ctx, c.conn, msg); err != nil {
		return nil, fmt.Errorf("roomws: start cue %q: %w", cue.Name, err)
	}
	return &playback{client: c, id: id}, nil
}

// Close closes the gateway connection. Close is idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close(websocket.StatusNormalClosure, "session ended")
}

// playback is the [media.Playback] for a single started cue.
type playback struct {
	client *Client
	id     uint64

	once sync.Once
	err  error
}

// Stop sends the cue_stop control message. Only the first call writes;
// subsequent calls return the first result.
func (p *playback) Stop() error {
	p.once.Do(func() {
		p.client.mu.Lock()
		defer p.client.mu.Unlock()
		if p.client.closed {
			return // connection gone, nothing left to stop
		}
		msg := controlMessage{Type: "cue_stop", ID: p.id}
		if err := wsjson.Write(context.Background(), p.client.conn, msg); err != nil {
			p.err = fmt.Errorf("roomws: stop cue %d: %w", p.id, err)
		}
	})
	return p.err
}
