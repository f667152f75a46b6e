// Package dialogue defines the narrow contract between the exhibit logic and
// the external streaming conversation engine (speech-to-text, voice activity
// detection, language model, and speech synthesis).
//
// The engine itself is an external collaborator — this package only carries
// the configuration the core hands it and the [Session] surface the core
// drives: speak a line, swap the system instructions, declare tools, and
// receive tool calls. No pipeline stage is implemented here.
//
// Implementations must be safe for concurrent use.
package dialogue

import (
	"context"
	"encoding/json"
	"time"
)

// Pipeline names the models for each stage of the external voice pipeline.
// The values are passed through to the engine verbatim; the core never
// interprets them.
type Pipeline struct {
	// STTModel is the speech-to-text model (e.g., "nova-2").
	STTModel string `yaml:"stt_model" json:"stt_model"`

	// VAD selects the voice-activity detector (e.g., "silero").
	VAD string `yaml:"vad" json:"vad"`

	// LLMModel is the language model (e.g., "gpt-4o-mini").
	LLMModel string `yaml:"llm_model" json:"llm_model"`

	// LLMTemperature is the sampling temperature for the language model.
	LLMTemperature float64 `yaml:"llm_temperature" json:"llm_temperature"`

	// TTSModel is the speech-synthesis model (e.g., "eleven_flash_v2_5").
	TTSModel string `yaml:"tts_model" json:"tts_model"`

	// TTSVoiceID is the provider-specific voice identifier.
	TTSVoiceID string `yaml:"tts_voice_id" json:"tts_voice_id"`

	// EnableSSML lets spoken lines carry SSML markup.
	EnableSSML bool `yaml:"enable_ssml" json:"enable_ssml"`

	// PreemptiveGeneration starts LLM inference on interim transcripts.
	PreemptiveGeneration bool `yaml:"preemptive_generation" json:"preemptive_generation"`
}

// DefaultPipeline returns the pipeline the hall ships with.
func DefaultPipeline() Pipeline {
	return Pipeline{
		STTModel:             "nova-2",
		VAD:                  "silero",
		LLMModel:             "gpt-4o-mini",
		LLMTemperature:       0.3,
		TTSModel:             "eleven_flash_v2_5",
		EnableSSML:           true,
		PreemptiveGeneration: true,
	}
}

// ToolDefinition is the engine-facing schema for one callable intent.
type ToolDefinition struct {
	// Name is the tool's identifier as the model sees it.
	Name string `json:"name"`

	// Description tells the model when to call the tool.
	Description string `json:"description"`

	// Schema is the JSON Schema for the tool's arguments object.
	Schema json.RawMessage `json:"schema"`
}

// ToolCallHandler is invoked by the session whenever the model requests a
// tool call. It receives the tool name and a JSON-encoded arguments string
// and returns the result string relayed back into the conversation.
//
// The handler may be called from the session's internal receive goroutine —
// implementors must not call blocking session methods from within it.
type ToolCallHandler func(name string, args string) (string, error)

// TranscriptEntry is one final transcript line, for either speaker.
type TranscriptEntry struct {
	// Role is "visitor" or "curator".
	Role string

	// Text is the final transcript text.
	Text string

	// Timestamp marks when the entry was finalised.
	Timestamp time.Time
}

// SessionConfig is the initial configuration for a conversation session.
type SessionConfig struct {
	// Pipeline names the models for each stage.
	Pipeline Pipeline

	// Instructions is the system-level persona block.
	Instructions string

	// Tools is the initial tool set offered to the model.
	Tools []ToolDefinition
}

// Session is an open conversation session on the external engine.
//
// Every method must return quickly — the session is on the hot path of the
// voice loop. Callers must call Close when the session is no longer needed.
type Session interface {
	// Say speaks text directly through the synthesis stage, bypassing the
	// language model. When the pipeline has SSML enabled, text may carry
	// SSML markup. allowInterruptions lets visitor speech cut the line off.
	Say(ctx context.Context, text string, allowInterruptions bool) error

	// UpdateInstructions replaces the system-level persona block.
	// Effective for the next model turn.
	UpdateInstructions(instructions string) error

	// SetTools replaces the active tool definitions without restarting the
	// session. Pass nil to disable tool calling.
	SetTools(tools []ToolDefinition) error

	// OnToolCall registers handler for model tool calls. Only one handler
	// is active at a time; passing nil clears it.
	OnToolCall(handler ToolCallHandler)

	// Transcripts returns a read-only channel of final transcript entries
	// for both speakers. Closed when the session ends.
	Transcripts() <-chan TranscriptEntry

	// Close terminates the session and closes the Transcripts channel.
	// Safe to call more than once.
	Close() error
}

// Engine opens conversation sessions on the external voice pipeline.
type Engine interface {
	// Connect establishes a session with the given configuration. The
	// returned Session is live immediately; the caller owns it and must
	// call Close.
	Connect(ctx context.Context, cfg SessionConfig) (Session, error)
}
