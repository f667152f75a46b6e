package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/marloweav/heritagehall/internal/config"
)

const validYAML = `
server:
  listen_addr: ":8080"
  log_level: info
room:
  url: "wss://rooms.example.com/hall"
hall:
  catalog_path: configs/catalog.yaml
  assets_root: assets
  slide_dwell: 10s
  frame_rate: 30
cues:
  idle:
    name: ambient-hall
    volume: 0.4
  alert:
    name: containment-alarm
    volume: 0.8
access:
  literals: ["937", "weyland", "perfection"]
  ordered_tokens: ["nine", "three", "seven"]
escape:
  literals: ["ripley"]
pipeline:
  stt_model: nova-2
  vad: silero
  llm_model: gpt-4o-mini
  llm_temperature: 0.3
  tts_model: eleven_flash_v2_5
  enable_ssml: true
`

func TestLoadFromReader_Valid(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadFromReader(strings.NewReader(validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Hall.SlideDwell != 10*time.Second {
		t.Errorf("hall.slide_dwell = %s, want 10s", cfg.Hall.SlideDwell)
	}
	if cfg.Hall.FrameRate != 30 {
		t.Errorf("hall.frame_rate = %d, want 30", cfg.Hall.FrameRate)
	}
	if got := cfg.Access.OrderedTokens; len(got) != 3 || got[0] != "nine" {
		t.Errorf("access.ordered_tokens = %v", got)
	}
}

func TestLoadFromReader_UnknownField(t *testing.T) {
	t.Parallel()
	yaml := validYAML + "\nhallway: true\n"
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
}

func TestValidate_MissingRoomURL(t *testing.T) {
	t.Parallel()
	yaml := strings.Replace(validYAML, `url: "wss://rooms.example.com/hall"`, `url: ""`, 1)
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for missing room.url, got nil")
	}
	if !strings.Contains(err.Error(), "room.url") {
		t.Errorf("error should mention room.url, got: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	t.Parallel()
	yaml := strings.Replace(validYAML, "log_level: info", "log_level: loud", 1)
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for invalid log level, got nil")
	}
	if !strings.Contains(err.Error(), "log_level") {
		t.Errorf("error should mention log_level, got: %v", err)
	}
}

func TestValidate_EmptyPhraseRule(t *testing.T) {
	t.Parallel()
	yaml := strings.Replace(validYAML, `escape:
  literals: ["ripley"]`, `escape:
  literals: []`, 1)
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for empty escape rule, got nil")
	}
	if !strings.Contains(err.Error(), "escape") {
		t.Errorf("error should mention escape, got: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  log_level: blaring
room:
  url: ""
cues:
  idle:
    name: ambient
    volume: 1.5
  alert:
    name: alarm
    volume: 0.8
access:
  literals: ["937"]
escape:
  literals: ["ripley"]
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected errors, got nil")
	}
	errStr := err.Error()
	for _, want := range []string{"log_level", "room.url", "volume", "catalog_path"} {
		if !strings.Contains(errStr, want) {
			t.Errorf("error should mention %s, got: %v", want, err)
		}
	}
}

func TestLoadFromReader_EnvOverlay(t *testing.T) {
	t.Setenv("HALL_ROOM_TOKEN", "tok-123")
	t.Setenv("HALL_VISITLOG_DSN", "postgres://localhost/hall")

	cfg, err := config.LoadFromReader(strings.NewReader(validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Room.Token != "tok-123" {
		t.Errorf("room token = %q, want the environment value", cfg.Room.Token)
	}
	if cfg.VisitLog.PostgresDSN != "postgres://localhost/hall" {
		t.Errorf("visit log dsn = %q, want the environment value", cfg.VisitLog.PostgresDSN)
	}
}
