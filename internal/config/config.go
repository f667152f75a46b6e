// Package config provides the configuration schema and loader for the
// Heritage Hall server.
package config

import (
	"time"

	"github.com/marloweav/heritagehall/internal/dialogue"
)

// LogLevel controls log verbosity for the server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure. It is typically loaded from a
// YAML file using [Load] or [LoadFromReader], with secrets overlaid from the
// environment.
type Config struct {
	Server   ServerConfig      `yaml:"server"`
	Room     RoomConfig        `yaml:"room"`
	Hall     HallConfig        `yaml:"hall"`
	Cues     CuesConfig        `yaml:"cues"`
	Access   PhraseRuleConfig  `yaml:"access"`
	Escape   PhraseRuleConfig  `yaml:"escape"`
	Pipeline dialogue.Pipeline `yaml:"pipeline"`
	VisitLog VisitLogConfig    `yaml:"visit_log"`
}

// ServerConfig holds network and logging settings.
type ServerConfig struct {
	// ListenAddr is the TCP address the health and metrics endpoints listen
	// on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`
}

// RoomConfig describes the media room the curator joins.
type RoomConfig struct {
	// URL is the room's websocket endpoint (e.g., "wss://rooms.example.com/hall").
	URL string `yaml:"url"`

	// Token authenticates the curator with the room server. Loaded from the
	// environment, never from the YAML file.
	Token string `yaml:"-" env:"HALL_ROOM_TOKEN"`
}

// HallConfig describes the exhibit collection and the display stage.
type HallConfig struct {
	// CatalogPath is the path to the exhibit catalog YAML file.
	CatalogPath string `yaml:"catalog_path"`

	// AssetsRoot is the directory slideshow image paths are resolved
	// against.
	AssetsRoot string `yaml:"assets_root"`

	// SlideDwell is how long each slideshow image stays on the display.
	// Zero means the built-in default.
	SlideDwell time.Duration `yaml:"slide_dwell"`

	// FrameRate is the publisher's output rate in frames per second.
	// Zero means the built-in default.
	FrameRate int `yaml:"frame_rate"`
}

// CuesConfig names the background audio loops.
type CuesConfig struct {
	Idle  CueConfig `yaml:"idle"`
	Alert CueConfig `yaml:"alert"`
}

// CueConfig describes one background cue.
type CueConfig struct {
	// Name identifies the cue on the room server.
	Name string `yaml:"name"`

	// Volume is the playback level in the range [0, 1].
	Volume float64 `yaml:"volume"`
}

// PhraseRuleConfig is one passphrase gate as written in the config file.
type PhraseRuleConfig struct {
	// Literals match when any one appears in the normalized utterance.
	Literals []string `yaml:"literals"`

	// OrderedTokens match when all appear with strictly increasing
	// positions.
	OrderedTokens []string `yaml:"ordered_tokens"`
}

// VisitLogConfig holds settings for the visit event log.
type VisitLogConfig struct {
	// PostgresDSN is the PostgreSQL connection string. Loaded from the
	// environment when set there; empty keeps the log in memory.
	PostgresDSN string `yaml:"postgres_dsn" env:"HALL_VISITLOG_DSN"`
}
